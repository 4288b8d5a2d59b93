// Package rpc defines the gRPC contract between the dashboard gateway and
// the remote data service. Messages are protobuf well-known types, so no
// code generation step is involved.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Service names.
const (
	AuthServiceName   = "tododash.Auth"
	TablesServiceName = "tododash.Tables"
)

// Metadata keys carried by every call.
const (
	MetadataAPIKey        = "apikey"
	MetadataAuthorization = "authorization"
)

// Full method names.
const (
	AuthSignUpMethod   = "/" + AuthServiceName + "/SignUp"
	AuthSignInMethod   = "/" + AuthServiceName + "/SignIn"
	AuthSignOutMethod  = "/" + AuthServiceName + "/SignOut"
	AuthRefreshMethod  = "/" + AuthServiceName + "/Refresh"
	AuthGetUserMethod  = "/" + AuthServiceName + "/GetUser"
	TablesSelectMethod = "/" + TablesServiceName + "/Select"
	TablesInsertMethod = "/" + TablesServiceName + "/Insert"
	TablesUpdateMethod = "/" + TablesServiceName + "/Update"
	TablesDeleteMethod = "/" + TablesServiceName + "/Delete"
	TablesExportMethod = "/" + TablesServiceName + "/Export"
)

// AuthServer is the server API for the Auth service.
type AuthServer interface {
	SignUp(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error)
	SignIn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SignOut(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error)
	Refresh(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetUser(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// TablesServer is the server API for the Tables service.
type TablesServer interface {
	Select(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error)
	Insert(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error)
	Update(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error)
	Delete(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error)
	Export(ctx context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error)
}

func newStruct() *structpb.Struct { return &structpb.Struct{} }
func newEmpty() *emptypb.Empty    { return &emptypb.Empty{} }

func unary[Req, Resp proto.Message](service, method string, newReq func() Req, call func(srv any, ctx context.Context, req Req) (Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv, ctx, req.(Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// AuthServiceDesc describes the Auth service.
var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(AuthServiceName, "SignUp", newStruct, func(srv any, ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
			return srv.(AuthServer).SignUp(ctx, req)
		}),
		unary(AuthServiceName, "SignIn", newStruct, func(srv any, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(AuthServer).SignIn(ctx, req)
		}),
		unary(AuthServiceName, "SignOut", newStruct, func(srv any, ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
			return srv.(AuthServer).SignOut(ctx, req)
		}),
		unary(AuthServiceName, "Refresh", newStruct, func(srv any, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(AuthServer).Refresh(ctx, req)
		}),
		unary(AuthServiceName, "GetUser", newEmpty, func(srv any, ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
			return srv.(AuthServer).GetUser(ctx, req)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tododash/api.proto",
}

// TablesServiceDesc describes the Tables service.
var TablesServiceDesc = grpc.ServiceDesc{
	ServiceName: TablesServiceName,
	HandlerType: (*TablesServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(TablesServiceName, "Select", newStruct, func(srv any, ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
			return srv.(TablesServer).Select(ctx, req)
		}),
		unary(TablesServiceName, "Insert", newStruct, func(srv any, ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
			return srv.(TablesServer).Insert(ctx, req)
		}),
		unary(TablesServiceName, "Update", newStruct, func(srv any, ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
			return srv.(TablesServer).Update(ctx, req)
		}),
		unary(TablesServiceName, "Delete", newStruct, func(srv any, ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
			return srv.(TablesServer).Delete(ctx, req)
		}),
		unary(TablesServiceName, "Export", newStruct, func(srv any, ctx context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error) {
			return srv.(TablesServer).Export(ctx, req)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tododash/api.proto",
}

// RegisterAuthServer registers srv on s.
func RegisterAuthServer(s grpc.ServiceRegistrar, srv AuthServer) {
	s.RegisterService(&AuthServiceDesc, srv)
}

// RegisterTablesServer registers srv on s.
func RegisterTablesServer(s grpc.ServiceRegistrar, srv TablesServer) {
	s.RegisterService(&TablesServiceDesc, srv)
}
