package routes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"agency_estimate/config"
	"agency_estimate/internal/adapter/http/middleware"
	"agency_estimate/internal/adapter/messaging"
	"agency_estimate/internal/adapter/persistence/repository"
	"agency_estimate/internal/infrastructure/ai"
	"agency_estimate/internal/infrastructure/auth"
	"agency_estimate/internal/infrastructure/cache"
	"agency_estimate/internal/infrastructure/database"
	"agency_estimate/internal/infrastructure/payments"
	"agency_estimate/internal/infrastructure/scheduler"
	"agency_estimate/internal/usecase"
	"agency_estimate/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Run wires every adapter from cfg and serves until SIGINT/SIGTERM.
func Run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ddb, err := database.ConnectDynamoDB(ctx, cfg.Dynamo)
	if err != nil {
		return err
	}
	estimateRepo := repository.NewEstimateDynamoRepository(ddb, cfg.Dynamo.EstimatesTable)
	paymentRepo := repository.NewPaymentDynamoRepository(ddb, cfg.Dynamo.PaymentsTable)

	rdb, err := cache.ConnectRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()
	sessionRepo := repository.NewSessionRedisRepository(rdb, cfg.Redis.SessionTTL)

	var publisher interfaces.IEstimateEventPublisher
	if cfg.AMQP.URL != "" {
		p, err := messaging.NewEstimatePublisher(cfg.AMQP)
		if err != nil {
			slog.Warn("estimate events disabled", "err", err)
		} else {
			defer p.Close()
			publisher = p
		}
	}

	var gateway interfaces.IPaymentGateway
	if !cfg.Payments.MockMode {
		gw, err := payments.NewMercadoPagoGateway(cfg.Payments.MercadoPagoAccessToken)
		if err != nil {
			slog.Warn("mercado pago gateway not configured", "err", err)
		} else {
			gateway = gw
		}
	}

	var generator interfaces.ITextGenerator
	if cfg.Gemini.APIKey != "" {
		g, err := ai.NewGeminiGenerator(ctx, cfg.Gemini)
		if err != nil {
			slog.Warn("draft generation disabled", "err", err)
		} else {
			generator = g
		}
	}

	var verifier middleware.TokenVerifier
	if cfg.Firebase.CredentialsPath != "" {
		client, err := auth.InitializeFirebase(ctx, cfg.Firebase)
		if err != nil {
			return err
		}
		verifier = client
	} else {
		slog.Warn("firebase not configured, using development user fallback", "header", middleware.DevUserIDHeader)
	}

	estimateUseCase := usecase.NewEstimateUseCase(estimateRepo, publisher)
	paymentUseCase := usecase.NewPaymentUseCase(paymentRepo, estimateRepo, gateway, usecase.PaymentOptions{
		MockMode:          cfg.Payments.MockMode,
		SandboxPayerEmail: cfg.Payments.SandboxPayerEmail,
	})

	expiry, err := scheduler.NewExpiryScheduler(estimateUseCase, cfg.Jobs.ExpirySchedule, cfg.Jobs.EstimatePendingTTL)
	if err != nil {
		return err
	}
	expiry.Start()
	defer expiry.Stop()

	router := NewRouter(Dependencies{
		Sessions:           usecase.NewSessionUseCase(sessionRepo),
		Estimates:          estimateUseCase,
		Payments:           paymentUseCase,
		Drafts:             usecase.NewDraftUseCase(generator),
		Verifier:           verifier,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		DraftsPerMinute:    cfg.Server.DraftsPerMinute,
		Version:            cfg.App.Version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "env", cfg.App.Environment, "version", cfg.App.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to startup the application: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("server stopped gracefully")
	return nil
}
