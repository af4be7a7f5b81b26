package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justsurfingit/jobs-in-germany/internal/auth"
	"github.com/justsurfingit/jobs-in-germany/internal/database"
	"github.com/justsurfingit/jobs-in-germany/internal/formflow"
	"github.com/justsurfingit/jobs-in-germany/internal/forms"
	"github.com/justsurfingit/jobs-in-germany/internal/handlers"
	"github.com/justsurfingit/jobs-in-germany/internal/middleware"
	"github.com/justsurfingit/jobs-in-germany/internal/services"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const (
	sweepInterval = time.Minute
	// succeeded instances stay readable briefly so the client can follow
	// the redirect
	successGrace    = 2 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			return runServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (or HTTP_ADDR env)")
	return cmd
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	if _, err := database.SeedCourses(db); err != nil {
		return fmt.Errorf("seed courses: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL)
	accounts := services.NewAuthService(db, tokens, logger)

	blobs, err := newBlobStore(ctx)
	if err != nil {
		return err
	}
	docs := services.NewDocumentService(db, blobs, logger)
	payments := services.NewPaymentService(db, services.SimulatedGateway{Delay: cfg.PaymentDelay}, logger)
	notifier := services.NewNotificationService(newGmailService(ctx), cfg.NotifyFrom, logger)

	llm, err := services.NewLLMService(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return err
	}
	if !llm.Enabled() {
		logger.Info("job extraction disabled", "hint", "set GEMINI_API_KEY")
	}

	defs, err := forms.Load()
	if err != nil {
		return err
	}
	built, err := forms.Build(defs, forms.Collaborators{
		Auth:     accounts,
		Docs:     docs,
		Payments: payments,
		Notifier: notifier,
		Logger:   logger,
	}, cfg.SubmitTimeout)
	if err != nil {
		return err
	}
	registry := formflow.NewRegistry(logger)
	registry.Register(built...)

	limiter := middleware.NewRateLimiter(cfg.SubmitRate, cfg.SubmitBurst)
	jobs := services.NewJobService(db)
	router, err := handlers.NewRouter(handlers.RouterDeps{
		Tokens:         tokens,
		Forms:          handlers.NewFormHandler(registry, defs, logger),
		Auth:           handlers.NewAuthHandler(accounts),
		Catalog:        handlers.NewCatalogHandler(payments, docs, services.NewStatsService(db)),
		Jobs:           handlers.NewJobHandler(llm, jobs),
		Ping:           sqlDB.PingContext,
		SubmitLimiter:  limiter,
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, "jobs-api"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return registry.RunSweeper(gctx, sweepInterval, cfg.FormTTL, successGrace)
	})
	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case now := <-ticker.C:
				limiter.Prune(now.Add(-10 * time.Minute))
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// newBlobStore selects S3 when a bucket is configured and the in-memory
// simulated store otherwise.
func newBlobStore(ctx context.Context) (services.BlobStore, error) {
	if cfg.S3Bucket == "" {
		logger.Info("using simulated document store", "delay", cfg.UploadDelay)
		return services.NewSimulatedBlobStore(cfg.UploadDelay), nil
	}
	store, err := services.NewS3BlobStore(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint)
	if err != nil {
		return nil, err
	}
	logger.Info("using s3 document store", "bucket", cfg.S3Bucket, "region", cfg.S3Region)
	return store, nil
}

// newGmailService returns nil when Gmail is not configured or the token is
// missing; notifications are then only logged.
func newGmailService(ctx context.Context) *gmail.Service {
	if cfg.GmailCredentials == "" {
		return nil
	}
	httpClient, err := auth.GmailClient(ctx, cfg.GmailCredentials, cfg.GmailToken)
	if err != nil {
		logger.Warn("gmail disabled", "error", err, "hint", "run: jobs gmail authorize")
		return nil
	}
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		logger.Warn("gmail disabled", "error", err)
		return nil
	}
	logger.Info("gmail notifications enabled")
	return svc
}
