package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vetclinic-dashboard/internal/config"
	"vetclinic-dashboard/internal/platform/logger"
	"vetclinic-dashboard/internal/router"

	"github.com/spf13/cobra"
)

// @title VetClinic Dashboard API
// @version 1.0
// @description BFF del panel de la clínica veterinaria.
// @BasePath /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "vetclinic-api",
		Short:         "Servidor del panel VetClinic",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "archivo de config opcional (yaml/json/toml)")
	cmd.Flags().String("port", "8080", "puerto HTTP")
	cmd.Flags().String("backend", config.DriverSupabase, "driver del backend: supabase|postgres|memory")
	cmd.Flags().Bool("seed", false, "carga datos de demo (solo driver memory)")
	cmd.Flags().String("log-level", "info", "debug|info|warn|error")

	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})
	if zl, ok := log.(*logger.ZapLogger); ok {
		defer func() { _ = zl.Sync() }()
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, cleanup, err := router.NewRouter(ctx, router.Options{Config: cfg, Logger: log})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}
	defer cleanup()

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second, // el asistente puede tardar
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": addr, "backend": cfg.Backend.Driver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			log.Error("server error", map[string]any{"error": err})
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
