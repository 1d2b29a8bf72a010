package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/AnTengye/lawassistant/config"
	"github.com/AnTengye/lawassistant/handler"
	"github.com/AnTengye/lawassistant/service"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func newReportStore(ctx context.Context, cfg *config.Config) (service.ReportStore, error) {
	switch cfg.Reports.Backend {
	case config.ReportsBackendMinio:
		store, err := service.NewMinioReportStore(&cfg.Minio)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		slog.Info("storing reports in bucket", "endpoint", cfg.Minio.Endpoint, "bucket", cfg.Minio.Bucket)
		return store, nil
	default:
		slog.Info("storing reports on disk", "directory", cfg.Reports.Dir)
		return service.NewFileReportStore(cfg.Reports.Dir)
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	store, err := service.OpenSQLiteStore(cfg.Database.Path, &cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	reports, err := newReportStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize report storage: %w", err)
	}

	opts := []service.AnalyzerOption{
		service.WithKeywordSource(store),
		service.WithRecorder(store),
		service.WithReportStore(reports),
	}
	if cfg.Advisor.Enabled {
		opts = append(opts, service.WithAdvisor(service.NewAnthropicAdvisor(&cfg.Advisor)))
		slog.Info("advisory analysis enabled", "model", cfg.Advisor.Model, "timeout", cfg.Advisor.Timeout())
	}
	analyzer := service.NewAnalyzer(analyzerConfig(cfg), opts...)

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handler.Dependencies{
		Config:   cfg,
		Analyzer: analyzer,
		Keywords: store,
		History:  store,
		Reports:  reports,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: cfg.Advisor.Timeout() + 60*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port, "version", Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server exited gracefully")
	return nil
}
