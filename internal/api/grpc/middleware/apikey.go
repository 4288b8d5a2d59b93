package middleware

import (
	"context"
	"crypto/subtle"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/tododash/internal/api/grpc/rpc"
)

// APIKey rejects requests that do not present the project access key.
type APIKey struct {
	key []byte
}

// NewAPIKey creates an APIKey interceptor expecting key.
func NewAPIKey(key string) *APIKey {
	return &APIKey{key: []byte(key)}
}

// HandleGRPC checks the apikey metadata of every unary request.
func (a *APIKey) HandleGRPC(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	keys := md.Get(rpc.MetadataAPIKey)
	if len(keys) == 0 {
		return nil, status.Error(codes.Unauthenticated, "No API key found in request")
	}
	if subtle.ConstantTimeCompare([]byte(keys[0]), a.key) != 1 {
		return nil, status.Error(codes.Unauthenticated, "Invalid API key")
	}
	return handler(ctx, req)
}
