package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/juanmoyano123/cards-study/internal/app"
	"github.com/juanmoyano123/cards-study/internal/devserver"
)

const shutdownTimeout = 10 * time.Second

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Serve an in-memory study backend with a sample deck",
	Long: `Serve the study API from memory for local development.

Point the client at it with CARDS_STUDY_API_URL=http://localhost:8000.
State is lost when the server stops.`,
	RunE: runDevserver,
}

func init() {
	devserverCmd.Flags().String("addr", ":8000", "Listen address")
	devserverCmd.Flags().String("token", "", "Require this bearer token on every request")
}

func runDevserver(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	token, _ := cmd.Flags().GetString("token")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg.Log, os.Stderr)

	srv := devserver.New(devserver.Options{Token: token}, logger)
	server := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		logger.Info("starting dev server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down dev server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
