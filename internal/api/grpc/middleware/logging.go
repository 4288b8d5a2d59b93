package middleware

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/dtroode/tododash/internal/logger"
)

// Logging is a unary interceptor that logs gRPC requests and results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// HandleGRPC logs method name, duration and status for each unary request.
func (l *Logging) HandleGRPC(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()

	l.logger.Debug("gRPC request started", "method", info.FullMethod)

	resp, err := handler(ctx, req)

	// status.Code reports OK for nil and Unknown for non-status errors.
	code := status.Code(err)

	l.logger.Info("gRPC request completed",
		"method", info.FullMethod,
		"duration_ms", time.Since(start).Milliseconds(),
		"status", code.String())

	if err != nil {
		l.logger.Warn("gRPC request failed",
			"method", info.FullMethod,
			"error", err.Error(),
			"status", code.String())
	}

	return resp, err
}
