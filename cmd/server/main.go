package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/naufallariff/credia-system/internal/application/job"
	"github.com/naufallariff/credia-system/internal/application/usecase"
	"github.com/naufallariff/credia-system/internal/infrastructure/adapter"
	"github.com/naufallariff/credia-system/internal/infrastructure/config"
	"github.com/naufallariff/credia-system/internal/infrastructure/messaging"
	pgRepo "github.com/naufallariff/credia-system/internal/infrastructure/persistence/postgres"
	grpcPresentation "github.com/naufallariff/credia-system/internal/presentation/grpc"
	"github.com/naufallariff/credia-system/internal/presentation/rest"
	"github.com/naufallariff/credia-system/pkg/auth"
	"github.com/naufallariff/credia-system/pkg/kafka"
	"github.com/naufallariff/credia-system/pkg/observability"
	"github.com/naufallariff/credia-system/pkg/postgres"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	cfg.Validate()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})

	logger.Info("starting credia system",
		"grpc_port", cfg.GRPCPort,
		"http_port", cfg.HTTPPort,
	)

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Database -----------------------------------------------------------
	dbCfg := postgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}

	if err := postgres.RunMigrations(dbCfg.DSN(), cfg.MigrationsDir); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database migrations applied")

	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// --- Infrastructure adapters -------------------------------------------
	contractRepo := pgRepo.NewContractRepo(pool)
	transactionRepo := pgRepo.NewTransactionRepo(pool)
	ruleRepo := pgRepo.NewRuleRepo(pool)
	clientRepo := pgRepo.NewClientRepo(pool)
	outboxRepo := pgRepo.NewOutboxRepo(pool)
	uow := pgRepo.NewUnitOfWork(pool)

	producer := kafka.NewProducer(kafka.Config{Brokers: cfg.Kafka.Brokers, TLS: cfg.Kafka.TLS})
	defer producer.Close()

	publisher := messaging.NewKafkaEventPublisher(producer, cfg.Kafka.EventTopic)
	relay := messaging.NewOutboxRelay(
		outboxRepo, producer, cfg.Kafka.EventTopic,
		cfg.Kafka.OutboxPollInterval, cfg.Kafka.OutboxBatchSize, logger)
	go relay.Start(ctx)

	audit := adapter.NewPostgresAuditRecorder(pool, logger)
	notifier := adapter.NewKafkaNotifier(producer, cfg.Kafka.NotificationTopic, logger)

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		Secret:       cfg.Auth.JWTSecret,
		PublicKeyPEM: cfg.Auth.JWTPublicKey,
	})
	if err != nil {
		logger.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	// --- Use cases ----------------------------------------------------------
	createContractUC := usecase.NewCreateContractUseCase(clientRepo, ruleRepo, uow, audit)
	getContractUC := usecase.NewGetContractUseCase(contractRepo, transactionRepo)
	settlePaymentUC := usecase.NewSettlePaymentUseCase(uow, audit)
	createTicketUC := usecase.NewCreateTicketUseCase(uow, notifier, audit)
	processTicketUC := usecase.NewProcessTicketUseCase(uow, notifier, audit)

	// --- Overdue reconciliation job ----------------------------------------
	reconciler := job.NewOverdueReconciler(contractRepo, uow, audit, publisher, logger)
	runLock := pgRepo.NewAdvisoryRunLock(pool, pgRepo.ReconcileLockKey)
	runner := job.NewRunner(reconciler, runLock, cfg.Job.ReconcileInterval, logger)
	go runner.Start(ctx)

	// --- gRPC server --------------------------------------------------------
	handler := grpcPresentation.NewContractHandler(
		createContractUC, getContractUC, settlePaymentUC, createTicketUC, processTicketUC)

	serverOpts := grpcPresentation.ServerOptions{}
	if cfg.TLS.Enabled {
		serverOpts.TLSCertFile = cfg.TLS.CertFile
		serverOpts.TLSKeyFile = cfg.TLS.KeyFile
	}
	grpcServer := grpcPresentation.NewServer(handler, logger, jwtService, serverOpts)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			logger.Error("gRPC server error", "error", err)
			os.Exit(1)
		}
	}()

	// --- HTTP server: health probes and metrics -----------------------------
	mux := http.NewServeMux()
	healthHandler := rest.NewHealthHandler(pool, logger)
	healthHandler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: mux,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// --- Graceful shutdown --------------------------------------------------
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig.String())

	cancel()
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		logger.Error("meter provider shutdown error", "error", err)
	}

	logger.Info("credia system stopped")
}
