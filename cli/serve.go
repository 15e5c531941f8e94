package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"vertigo-backend/config"
	"vertigo-backend/routes"
	"vertigo-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var (
		noScheduler bool
		migrate     bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the recurring invoice scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.log.Sync()

			if err := a.cfg.ValidateServe(); err != nil {
				return err
			}
			if migrate {
				if err := config.Migrate(a.db); err != nil {
					return err
				}
			}
			return a.serve(cmd.Context(), !noScheduler)
		},
	}
	cmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "do not run the in-process recurring invoice cron")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run database migrations before serving")
	return cmd
}

func (a *app) serve(parent context.Context, withScheduler bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if withScheduler {
		scheduler := services.NewRecurringScheduler(a.recurring, a.log)
		if err := scheduler.Start(a.cfg.RecurringCron); err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	router := routes.SetupRouter(a.cfg, a.log, a.ctrl)
	logRoutes(router, a.log)

	srv := &http.Server{
		Addr:    ":" + a.cfg.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func logRoutes(r *gin.Engine, log *zap.Logger) {
	for _, route := range r.Routes() {
		log.Debug("route", zap.String("method", route.Method), zap.String("path", route.Path))
	}
}
