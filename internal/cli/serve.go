package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/recall/internal/game"
	"github.com/robalobadob/recall/internal/httpserver"
)

const shutdownTimeout = 10 * time.Second

func (a *app) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the game API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

// serve runs the HTTP server until ctx ends, then drains requests, stops
// attempt timers and flushes queued store writes.
func (a *app) serve(ctx context.Context) error {
	cat, err := a.catalog()
	if err != nil {
		return err
	}
	profiles, cleanup, err := a.openProfiles(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	api := httpserver.New(httpserver.Deps{
		Config:    a.cfg,
		Profiles:  profiles,
		Catalog:   cat,
		Scheduler: game.RealScheduler{},
	})
	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", a.cfg.Port).Str("store", a.cfg.StoreDriver).Msg("starting recall server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(sctx)
		api.Shutdown()
		return err
	})
	return g.Wait()
}
