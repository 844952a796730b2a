package router

import (
	"fmt"

	"github.com/dtroode/cloudblog/internal/api/grpc/health"
	"github.com/dtroode/cloudblog/internal/api/grpc/middleware"
	"github.com/dtroode/cloudblog/internal/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// Router builds the gRPC server exposing the health probe.
type Router struct {
	checker *health.Checker
	logger  *logger.Logger
}

// New creates new gRPC Router instance.
func New(checker *health.Checker, logger *logger.Logger) *Router {
	return &Router{
		checker: checker,
		logger:  logger,
	}
}

// Register creates the gRPC server with logging, panic recovery and tracing,
// and registers the health and reflection services.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)

	recoverFrom := recovery.WithRecoveryHandler(func(p any) error {
		r.logger.Error("gRPC router: recovered from panic", "panic", fmt.Sprint(p))
		return status.Error(codes.Internal, "internal error")
	})

	s := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recoverFrom),
			logging.HandleGRPC,
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recoverFrom),
		),
	)

	healthpb.RegisterHealthServer(s, r.checker.Server())
	reflection.Register(s)

	return s
}
