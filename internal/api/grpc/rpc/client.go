package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// AuthClient is the client API for the Auth service.
type AuthClient struct {
	cc grpc.ClientConnInterface
}

// NewAuthClient creates an AuthClient over cc.
func NewAuthClient(cc grpc.ClientConnInterface) *AuthClient {
	return &AuthClient{cc: cc}
}

func (c *AuthClient) SignUp(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, AuthSignUpMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AuthClient) SignIn(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, AuthSignInMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AuthClient) SignOut(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, AuthSignOutMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AuthClient) Refresh(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, AuthRefreshMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AuthClient) GetUser(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, AuthGetUserMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// TablesClient is the client API for the Tables service.
type TablesClient struct {
	cc grpc.ClientConnInterface
}

// NewTablesClient creates a TablesClient over cc.
func NewTablesClient(cc grpc.ClientConnInterface) *TablesClient {
	return &TablesClient{cc: cc}
}

func (c *TablesClient) Select(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, TablesSelectMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TablesClient) Insert(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, TablesInsertMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TablesClient) Update(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, TablesUpdateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TablesClient) Delete(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, TablesDeleteMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TablesClient) Export(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, TablesExportMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
