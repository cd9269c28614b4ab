// Package rttiapi implements the RTTIApi gRPC service declared in
// api/proto/rtti.proto: the out-of-process query surface spec.md §6
// grants to the object graph's clients (FindObjectByPath) plus pool
// diagnostics, the renamed and narrowed descendant of the teacher's
// pkg/api (mTLS dropped — see DESIGN.md; this is an insecure-by-default
// demo/library binary, not a multi-tenant cluster control plane).
package rttiapi

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/metacore/reflect/api/proto"
	"github.com/metacore/reflect/pkg/database"
	"github.com/metacore/reflect/pkg/log"
	"github.com/metacore/reflect/pkg/metaobject"
	"github.com/metacore/reflect/pkg/pool"
	"github.com/metacore/reflect/pkg/rtti"
	"github.com/metacore/reflect/pkg/rtti/traits"
	"github.com/metacore/reflect/pkg/visitor"
)

// Server implements proto.RTTIApiServer against a single MetaDatabase
// and pool.Registry, the same shape as the teacher's api.Server
// wrapping a *manager.Manager.
type Server struct {
	proto.UnimplementedRTTIApiServer

	db       *database.MetaDatabase
	registry *pool.Registry
	grpc     *grpc.Server
	logger   log.Logger
}

// NewServer returns an RTTIApi server over db, reporting pool stats
// out of registry.
func NewServer(db *database.MetaDatabase, registry *pool.Registry) *Server {
	return &Server{db: db, registry: registry, logger: log.WithComponent("rttiapi")}
}

// FindObjectByPath resolves "namespace/objectName" and renders its
// non-hidden properties as a Struct, one field per property. The
// native scalars scalarValue recognizes convert directly; every other
// property (other scalar kinds and list/pair/dico/object) is stored as
// the pretty-printer's text under the property's own name, since a
// Struct field can't carry arbitrary reflected nesting without a schema.
func (s *Server) FindObjectByPath(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	namespace, name, ok := splitPath(req.GetValue())
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "rttiapi: path %q is not \"namespace/name\"", req.GetValue())
	}
	obj, ok := s.db.Find(namespace, name)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "rttiapi: %q not published", req.GetValue())
	}
	return objectToStruct(obj)
}

// ListExported returns the published names within one namespace.
func (s *Server) ListExported(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	namespace := req.GetValue()
	var names []any
	for _, e := range s.db.Snapshot() {
		if e.Namespace == namespace {
			names = append(names, e.Name)
		}
	}
	lv, err := structpb.NewList(names)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "rttiapi: encode export list: %v", err)
	}
	return lv, nil
}

// PoolStats returns every registered pool's counters, keyed by name.
func (s *Server) PoolStats(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	fields := make(map[string]any)
	for name, st := range s.registry.Snapshot() {
		fields[name] = map[string]any{
			"blockSize":        float64(st.BlockSize),
			"currentChunkSize": float64(st.CurrentChunkSize),
			"chunkCount":       float64(st.ChunkCount),
			"usedSize":         float64(st.UsedSize),
			"totalSize":        float64(st.TotalSize),
		}
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "rttiapi: encode pool stats: %v", err)
	}
	return st, nil
}

// Serve starts the gRPC server on addr and blocks until it stops or
// ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("rttiapi: listen %s: %w", addr, err)
	}
	s.grpc = grpc.NewServer()
	proto.RegisterRTTIApiServer(s.grpc, s)

	errCh := make(chan error, 1)
	go func() { errCh <- s.grpc.Serve(lis) }()

	s.logger.Info().Str("addr", addr).Msg("rttiapi server listening")
	select {
	case <-ctx.Done():
		s.grpc.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}

func splitPath(path string) (namespace, name string, ok bool) {
	for i, c := range path {
		if c == '/' {
			return path[:i], path[i+1:], true
		}
	}
	return "", "", false
}

func objectToStruct(obj metaobject.HasMetaObject) (*structpb.Struct, error) {
	class := obj.Base().Class()
	fields := map[string]any{
		"_class": class.Name(),
		"_path":  obj.Base().PathName(),
	}
	for _, prop := range class.AllProperties() {
		if prop.Has(metaobject.PropertyHidden) {
			continue
		}
		atom := prop.Get(obj)
		fields[prop.Name()] = scalarValue(atom)
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "rttiapi: encode object %q: %v", class.Name(), err)
	}
	return st, nil
}

// scalarValue renders atom as a JSON-ish value structpb.NewStruct can
// accept: native Go scalars for the leaf kinds it recognizes, falling
// back to the pretty-printer's text rendering for everything else
// (other scalar kinds, and composites: list/pair/dico/object).
func scalarValue(atom rtti.Atom) any {
	if atom.Traits.AsScalar() != nil {
		switch atom.Traits.Infos().Id {
		case traits.Int32.Infos().Id:
			return float64(*(*int32)(atom.Ptr))
		case traits.Int64.Infos().Id:
			return float64(*(*int64)(atom.Ptr))
		case traits.Float32.Infos().Id:
			return float64(*(*float32)(atom.Ptr))
		case traits.Float64.Infos().Id:
			return *(*float64)(atom.Ptr)
		case traits.Bool.Infos().Id:
			return *(*bool)(atom.Ptr)
		case traits.String.Infos().Id:
			return *(*string)(atom.Ptr)
		}
	}
	return visitor.Print(atom)
}
