package middleware

import (
	"context"
	"time"

	"github.com/dtroode/cloudblog/internal/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Logging is a unary interceptor that logs probe calls and their results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// HandleGRPC logs method, duration and status for each unary call. Successful
// calls are logged at debug level since orchestrators poll them constantly.
func (l *Logging) HandleGRPC(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	duration := time.Since(start)

	if err == nil {
		l.logger.Debug("gRPC call completed",
			"method", info.FullMethod,
			"duration_ms", duration.Milliseconds())
		return resp, nil
	}

	code := codes.Internal
	if st, ok := status.FromError(err); ok {
		code = st.Code()
	}

	l.logger.Error("gRPC call failed",
		"method", info.FullMethod,
		"duration_ms", duration.Milliseconds(),
		"status", code.String(),
		"error", err)

	return resp, err
}
