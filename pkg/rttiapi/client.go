package rttiapi

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/metacore/reflect/api/proto"
)

// Client wraps an RTTIApi gRPC connection for cmd/rttictl's "remote"
// subcommands, the insecure-by-default analogue of the teacher's
// pkg/client.Client (dropping mTLS; see DESIGN.md).
type Client struct {
	conn   *grpc.ClientConn
	client proto.RTTIApiClient
}

// NewClient dials addr over plaintext gRPC.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("rttiapi: dial %s: %w", addr, err)
	}
	return &Client{conn: conn, client: proto.NewRTTIApiClient(conn)}, nil
}

func (c *Client) Close() error { return c.conn.Close() }

// FindObjectByPath resolves "namespace/objectName" remotely.
func (c *Client) FindObjectByPath(ctx context.Context, path string) (*structpb.Struct, error) {
	return c.client.FindObjectByPath(ctx, wrapperspb.String(path))
}

// ListExported lists published names within namespace.
func (c *Client) ListExported(ctx context.Context, namespace string) (*structpb.ListValue, error) {
	return c.client.ListExported(ctx, wrapperspb.String(namespace))
}

// PoolStats fetches the remote process's pool counters.
func (c *Client) PoolStats(ctx context.Context) (*structpb.Struct, error) {
	return c.client.PoolStats(ctx, &emptypb.Empty{})
}
