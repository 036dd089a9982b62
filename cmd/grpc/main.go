package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/cottontrace-service/config"
	"github.com/fekuna/cottontrace-service/internal/export"
	"github.com/fekuna/cottontrace-service/internal/fibretrace"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/store"
	"github.com/fekuna/cottontrace-service/pkg/broker"
	"github.com/fekuna/cottontrace-service/pkg/cache"
	"github.com/fekuna/cottontrace-service/pkg/database/postgres"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"github.com/fekuna/cottontrace-service/pkg/middleware"

	"github.com/fekuna/cottontrace-service/internal/batch"
	batchH "github.com/fekuna/cottontrace-service/internal/batch/handler"
	batchListenerPkg "github.com/fekuna/cottontrace-service/internal/batch/listener"
	batchRepoPkg "github.com/fekuna/cottontrace-service/internal/batch/repository"
	batchUCPkg "github.com/fekuna/cottontrace-service/internal/batch/usecase"

	"github.com/fekuna/cottontrace-service/internal/compliance"
	compH "github.com/fekuna/cottontrace-service/internal/compliance/handler"
	compRepoPkg "github.com/fekuna/cottontrace-service/internal/compliance/repository"
	compUCPkg "github.com/fekuna/cottontrace-service/internal/compliance/usecase"

	isoH "github.com/fekuna/cottontrace-service/internal/isotope/handler"
	isoRepoPkg "github.com/fekuna/cottontrace-service/internal/isotope/repository"
	isoUCPkg "github.com/fekuna/cottontrace-service/internal/isotope/usecase"

	verifH "github.com/fekuna/cottontrace-service/internal/verification/handler"
	verifRepoPkg "github.com/fekuna/cottontrace-service/internal/verification/repository"
	verifUCPkg "github.com/fekuna/cottontrace-service/internal/verification/usecase"

	dashH "github.com/fekuna/cottontrace-service/internal/dashboard/handler"
	dashUCPkg "github.com/fekuna/cottontrace-service/internal/dashboard/usecase"

	"github.com/fekuna/cottontrace-service/internal/integration"
	intH "github.com/fekuna/cottontrace-service/internal/integration/handler"
	intUCPkg "github.com/fekuna/cottontrace-service/internal/integration/usecase"

	reportH "github.com/fekuna/cottontrace-service/internal/report/handler"
	reportRepoPkg "github.com/fekuna/cottontrace-service/internal/report/repository"
	reportUCPkg "github.com/fekuna/cottontrace-service/internal/report/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer appLogger.Sync()

	// 3. Batch source: generated or PostgreSQL
	var batchRepo batch.Repository
	switch cfg.Store.Source {
	case config.SourcePostgres:
		db, err := postgres.NewPostgres(&postgres.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			DBName:          cfg.Postgres.DBName,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to database", zap.Error(err))
		}
		defer db.Close()
		appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))
		batchRepo = batchRepoPkg.NewPGRepository(db)
	default:
		batchRepo = batchRepoPkg.NewMockRepository(cfg.Store.Seed, cfg.Store.BatchCount, cfg.Store.FetchDelay)
		appLogger.Info("Using generated batches", zap.Uint64("seed", cfg.Store.Seed), zap.Int("count", cfg.Store.BatchCount))
	}

	// 4. List cache and sync lock: Redis when enabled
	var listCache cache.Cache = cache.NewMemoryCache(cfg.Redis.LocalSize, cfg.Redis.ListTTL)
	var syncLocker integration.Locker
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		listCache, syncLocker = redisClient, redisClient
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 5. Export sink: local directory or MinIO
	var sink export.Sink = export.FileSink{Dir: cfg.Export.Dir}
	if cfg.Export.UseMinio {
		minioSink, err := export.NewMinioSink(export.MinioConfig{
			Endpoint:        cfg.Minio.Endpoint,
			AccessKeyID:     cfg.Minio.AccessKeyID,
			SecretAccessKey: cfg.Minio.SecretAccessKey,
			Bucket:          cfg.Minio.Bucket,
			Region:          cfg.Minio.Region,
			UseSSL:          cfg.Minio.UseSSL,
		})
		if err != nil {
			appLogger.Fatal("Could not create MinIO client", zap.Error(err))
		}
		if err := minioSink.EnsureBucket(ctx); err != nil {
			appLogger.Fatal("Could not prepare export bucket", zap.Error(err))
		}
		appLogger.Info("Exporting to MinIO", zap.String("bucket", cfg.Minio.Bucket))
		sink = minioSink
	}

	// 6. FibreTrace client
	var ftClient fibretrace.Client
	if cfg.FibreTrace.UseMock {
		ftClient = fibretrace.NewMockClient(cfg.FibreTrace.MockDelay)
	} else {
		ftClient = fibretrace.NewHTTPClient(fibretrace.HTTPConfig{
			BaseURL:   cfg.FibreTrace.BaseURL,
			APIKey:    cfg.FibreTrace.APIKey,
			Timeout:   cfg.FibreTrace.Timeout,
			RateLimit: cfg.FibreTrace.RateLimit,
			RateBurst: cfg.FibreTrace.RateBurst,
		}, appLogger)
		appLogger.Info("Using FibreTrace API", zap.String("base_url", cfg.FibreTrace.BaseURL))
	}

	// 7. Stores
	batchStore := store.New("batches", store.LoaderFunc[model.Batch](batchRepo.FindAll), appLogger, store.WithClone(model.Batch.Clone))
	compRepo := compRepoPkg.NewDerivedRepository(batchRepo, cfg.Store.Seed)
	compStore := store.New("compliance", store.LoaderFunc[model.ComplianceBatch](compRepo.FindAll), appLogger, store.WithClone(model.ComplianceBatch.Clone))
	isoRepo := isoRepoPkg.NewMockRepository(cfg.Store.Seed, cfg.Store.IsotopeCount, cfg.Store.FetchDelay)
	isoStore := store.New("isotopes", store.LoaderFunc[model.IsotopeRecord](isoRepo.FindAll), appLogger)
	verifRepo := verifRepoPkg.NewMockRepository(cfg.Store.FetchDelay)
	verifStore := store.New("verification", store.LoaderFunc[model.VerificationRequest](verifRepo.FindAll), appLogger)
	reportRepo := reportRepoPkg.NewMockRepository(cfg.Store.FetchDelay)
	reportStore := store.New("reports", store.LoaderFunc[model.Report](reportRepo.FindAll), appLogger)

	// 8. Kafka: custody events in, compliance events out
	var publisher compliance.Publisher
	var custodyConsumer *broker.KafkaConsumer
	if cfg.Kafka.Enabled {
		custodyConsumer = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.CustodyTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer custodyConsumer.Close()
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.ComplianceTopic,
		})
		defer producer.Close()
		publisher = producer
		appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("custody_topic", cfg.Kafka.CustodyTopic), zap.String("compliance_topic", cfg.Kafka.ComplianceTopic))
	}

	// 9. Initialize UseCases
	batchUC := batchUCPkg.NewBatchUseCase(batchStore, batchRepo, listCache, cfg.Redis.ListTTL, sink, appLogger)
	compUC := compUCPkg.NewComplianceUseCase(compStore, listCache, cfg.Redis.ListTTL, publisher, sink, appLogger)
	isoUC := isoUCPkg.NewIsotopeUseCase(isoStore, sink, appLogger)
	verifUC := verifUCPkg.NewVerificationUseCase(verifStore, sink, appLogger)
	dashUC := dashUCPkg.NewDashboardUseCase(batchUC, compUC, verifUC, appLogger)
	intUC := intUCPkg.NewIntegrationUseCase(batchUC, ftClient, syncLocker, cfg.FibreTrace.SyncLockTTL, appLogger)
	reportUC := reportUCPkg.NewReportUseCase(reportStore, batchUC, sink, appLogger)

	// 10. Start Listener
	if custodyConsumer != nil {
		custodyListener := batchListenerPkg.NewCustodyListener(custodyConsumer, batchUC, appLogger)
		go custodyListener.Start(ctx)
	}

	// 11. Warm the stores in the background; requests join the loads.
	go func() {
		for name, fetch := range map[string]func(context.Context) error{
			"batches":      batchUC.Refresh,
			"compliance":   compUC.Refresh,
			"isotopes":     isoUC.Refresh,
			"verification": verifUC.Refresh,
			"reports":      reportUC.Refresh,
		} {
			if err := fetch(ctx); err != nil {
				appLogger.Warn("Initial load failed", zap.String("store", name), zap.Error(err))
			}
		}
	}()

	// 12. Start gRPC Server
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	lis, err := net.Listen("tcp", port)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.ContextInterceptor(),
			middleware.LoggingInterceptor(appLogger),
		),
	)

	// Register Services
	batchH.RegisterBatchServiceServer(grpcServer, batchH.NewBatchHandler(batchUC, appLogger))
	compH.RegisterComplianceServiceServer(grpcServer, compH.NewComplianceHandler(compUC, appLogger))
	isoH.RegisterIsotopeServiceServer(grpcServer, isoH.NewIsotopeHandler(isoUC, appLogger))
	verifH.RegisterVerificationServiceServer(grpcServer, verifH.NewVerificationHandler(verifUC, appLogger))
	dashH.RegisterDashboardServiceServer(grpcServer, dashH.NewDashboardHandler(dashUC, appLogger))
	intH.RegisterIntegrationServiceServer(grpcServer, intH.NewIntegrationHandler(intUC, appLogger))
	reportH.RegisterReportServiceServer(grpcServer, reportH.NewReportHandler(reportUC, appLogger))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	// Register Reflection
	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", port))

	// Graceful Shutdown
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}
