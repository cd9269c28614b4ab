// Package proto holds the gRPC service stubs for rtti.proto (see the
// .proto file in this directory). These are hand-authored, not
// protoc-generated — this module never invokes the protobuf
// toolchain — but follow the exact shape protoc-gen-go-grpc emits for
// a service built entirely on google.protobuf well-known types, so no
// generated message code is needed alongside it.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// RTTIApiServer is the server-side interface implemented by
// pkg/rttiapi.Server.
type RTTIApiServer interface {
	FindObjectByPath(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ListExported(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	PoolStats(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// UnimplementedRTTIApiServer must be embedded by server implementations
// to get forward-compatible behavior if the service interface grows
// new methods, matching protoc-gen-go-grpc's generated embed.
type UnimplementedRTTIApiServer struct{}

func (UnimplementedRTTIApiServer) FindObjectByPath(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method FindObjectByPath not implemented")
}

func (UnimplementedRTTIApiServer) ListExported(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ListExported not implemented")
}

func (UnimplementedRTTIApiServer) PoolStats(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method PoolStats not implemented")
}

// RegisterRTTIApiServer registers srv with s under the service
// descriptor below.
func RegisterRTTIApiServer(s grpc.ServiceRegistrar, srv RTTIApiServer) {
	s.RegisterService(&RTTIApi_ServiceDesc, srv)
}

func _RTTIApi_FindObjectByPath_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RTTIApiServer).FindObjectByPath(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/rtti.RTTIApi/FindObjectByPath"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RTTIApiServer).FindObjectByPath(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _RTTIApi_ListExported_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RTTIApiServer).ListExported(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/rtti.RTTIApi/ListExported"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RTTIApiServer).ListExported(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _RTTIApi_PoolStats_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RTTIApiServer).PoolStats(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/rtti.RTTIApi/PoolStats"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RTTIApiServer).PoolStats(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// RTTIApi_ServiceDesc is the grpc.ServiceDesc for the RTTIApi service,
// wired into RegisterRTTIApiServer.
var RTTIApi_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "rtti.RTTIApi",
	HandlerType: (*RTTIApiServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "FindObjectByPath", Handler: _RTTIApi_FindObjectByPath_Handler},
		{MethodName: "ListExported", Handler: _RTTIApi_ListExported_Handler},
		{MethodName: "PoolStats", Handler: _RTTIApi_PoolStats_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/proto/rtti.proto",
}

// RTTIApiClient is the client-side interface.
type RTTIApiClient interface {
	FindObjectByPath(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListExported(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.ListValue, error)
	PoolStats(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type rttiApiClient struct {
	cc grpc.ClientConnInterface
}

// NewRTTIApiClient wraps an established connection as an RTTIApiClient.
func NewRTTIApiClient(cc grpc.ClientConnInterface) RTTIApiClient {
	return &rttiApiClient{cc}
}

func (c *rttiApiClient) FindObjectByPath(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/rtti.RTTIApi/FindObjectByPath", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rttiApiClient) ListExported(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, "/rtti.RTTIApi/ListExported", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rttiApiClient) PoolStats(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/rtti.RTTIApi/PoolStats", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
