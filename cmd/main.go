package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/dtroode/cloudblog/internal/api/grpc/health"
	grpcrouter "github.com/dtroode/cloudblog/internal/api/grpc/router"
	grpcserver "github.com/dtroode/cloudblog/internal/api/grpc/server"
	httpctx "github.com/dtroode/cloudblog/internal/api/http/context"
	"github.com/dtroode/cloudblog/internal/api/http/handler"
	httprouter "github.com/dtroode/cloudblog/internal/api/http/router"
	httpserver "github.com/dtroode/cloudblog/internal/api/http/server"
	"github.com/dtroode/cloudblog/internal/config"
	natsevents "github.com/dtroode/cloudblog/internal/events/nats"
	"github.com/dtroode/cloudblog/internal/identity/cognito"
	"github.com/dtroode/cloudblog/internal/logger"
	"github.com/dtroode/cloudblog/internal/model"
	dynamorepo "github.com/dtroode/cloudblog/internal/repository/dynamodb"
	"github.com/dtroode/cloudblog/internal/repository/postgres"
	"github.com/dtroode/cloudblog/internal/repository/sqlite"
	"github.com/dtroode/cloudblog/internal/server"
	"github.com/dtroode/cloudblog/internal/service"
	redisstore "github.com/dtroode/cloudblog/internal/session/redis"
	storage "github.com/dtroode/cloudblog/internal/storage/minio"
	"github.com/dtroode/cloudblog/internal/telemetry"
	"github.com/dtroode/cloudblog/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.Telemetry.Environment)

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry)
	if err != nil {
		logger.Fatal("failed to initialize tracing", "error", err)
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.AWS)
	if err != nil {
		logger.Fatal("failed to load aws config", "error", err)
	}

	postStore, postProbe, closeStore, err := openPostStore(ctx, cfg, awsCfg)
	if err != nil {
		logger.Fatal("failed to initialize post store", "error", err, "driver", cfg.Driver)
	}
	defer closeStore()

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  miniocreds.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
		Region: cfg.Storage.Region,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket, cfg.Storage.Region, cfg.Storage.PublicHost)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	cognitoClient := cognitoidentityprovider.NewFromConfig(awsCfg, func(o *cognitoidentityprovider.Options) {
		if cfg.AWS.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
		}
	})
	identityProvider := cognito.NewProvider(cognitoClient, cfg.Cognito.ClientID)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := redisotel.InstrumentTracing(rdb); err != nil {
		logger.Fatal("failed to instrument redis client", "error", err)
	}

	var publisher model.EventPublisher
	probes := []health.Probe{
		postProbe,
		{Name: "storage", Check: func(ctx context.Context) error {
			_, err := minioClient.BucketExists(ctx, cfg.Storage.Bucket)
			return err
		}},
		{Name: "sessions", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}},
	}
	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name(cfg.Telemetry.ServiceName))
		if err != nil {
			logger.Fatal("failed to connect to nats", "error", err)
		}
		defer nc.Drain()

		publisher = natsevents.NewPublisher(nc, cfg.NATS.Subject)
		probes = append(probes, health.Probe{Name: "events", Check: func(context.Context) error {
			if !nc.IsConnected() {
				return fmt.Errorf("nats connection is %s", nc.Status())
			}
			return nil
		}})
	}

	postService := service.NewPost(postStore, publisher, logger)
	imageService := service.NewImage(storageClient, logger)
	identityService := service.NewIdentity(identityProvider, cfg.Cognito.ClientID, cfg.Cognito.ClientSecret, logger)
	sessionService := service.NewSession(
		token.NewJWT(cfg.Session.Secret, cfg.Session.TTL),
		redisstore.NewSessionStore(rdb),
		logger,
	)
	ctxMgr := httpctx.NewManager()

	h, err := handler.New(postService, imageService, identityService, sessionService, ctxMgr, handler.Options{
		SessionCookie:  cfg.Session.CookieName,
		SecureCookies:  cfg.HTTP.EnableHTTPS,
		MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
	}, logger)
	if err != nil {
		logger.Fatal("failed to initialize handlers", "error", err)
	}

	routes, err := httprouter.New(h, sessionService, ctxMgr, cfg.Session.CookieName, logger).Register()
	if err != nil {
		logger.Fatal("failed to register routes", "error", err)
	}
	httpSrv := httpserver.NewHTTPServer(routes, fmt.Sprintf(":%s", cfg.HTTP.Port))

	checker := health.NewChecker(cfg.Health.CheckInterval, logger, probes...)
	grpcSrv := grpcserver.NewGRPCServer(grpcrouter.New(checker, logger).Register(), fmt.Sprintf(":%s", cfg.Health.Port))

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		checker.Run(ctx)
	}()

	start := func(s model.Server, sl model.SecurityLayer) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}()
	}
	start(httpSrv, server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName))
	start(grpcSrv, server.NewPlainListener())

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	checker.Shutdown()
	for _, s := range []model.Server{httpSrv, grpcSrv} {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()

	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("failed to flush traces", "error", err)
	}
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func loadAWSConfig(ctx context.Context, cfg config.AWS) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

func openPostStore(ctx context.Context, cfg *config.Config, awsCfg aws.Config) (model.PostStore, health.Probe, func(), error) {
	probe := health.Probe{Name: "posts"}

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, probe, nil, err
		}
		probe.Check = db.Ping
		return postgres.NewPostRepository(db), probe, func() { db.Close() }, nil

	case config.DriverSQLite:
		db, err := sqlite.NewConnection(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, probe, nil, err
		}
		probe.Check = db.PingContext
		return sqlite.NewPostRepository(db), probe, func() { db.Close() }, nil

	case config.DriverDynamoDB:
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.AWS.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
			}
		})
		probe.Check = func(ctx context.Context) error {
			_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(cfg.DynamoDB.Table)})
			return err
		}
		return dynamorepo.NewPostRepository(client, cfg.DynamoDB.Table), probe, func() {}, nil
	}

	return nil, probe, nil, fmt.Errorf("unknown post store driver %q", cfg.Driver)
}
