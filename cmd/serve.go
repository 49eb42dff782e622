package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle-engine/internal/config"
	"github.com/robalobadob/wordle-engine/internal/game"
	"github.com/robalobadob/wordle-engine/internal/httpserver"
	"github.com/robalobadob/wordle-engine/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", ":"+cfg.Port)
			if err != nil {
				return err
			}
			return serve(ctx, cfg, ln)
		},
	}
}

// serve runs the API on ln until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, cfg config.Config, ln net.Listener) error {
	src, err := newWordSource(cfg)
	if err != nil {
		_ = ln.Close()
		return err
	}
	scorer, err := game.ScorerByName(cfg.Scoring)
	if err != nil {
		_ = ln.Close()
		return err
	}
	recs, err := store.OpenRecords(ctx, "wordle")
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer recs.Close()

	sessions := store.NewMemoryStore()
	opts := httpserver.Options{
		Sessions:     sessions,
		Records:      recs,
		Sources:      sourcesByMode(src, cfg.DailySalt),
		Scorer:       scorer,
		Secret:       cfg.JWTSecret,
		SessionTTL:   cfg.SessionTTL(),
		ClientOrigin: cfg.ClientOrigin,
		Secure:       strings.HasPrefix(cfg.ClientOrigin, "https://"),
	}
	if st, ok := src.(interface{ Stats() (int, int) }); ok {
		opts.WordStats = st.Stats
	}

	hs := &http.Server{
		Handler:           httpserver.New(opts).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", ln.Addr().String()).Str("scoring", cfg.Scoring).Msg("starting server")
		if err := hs.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		sweepSessions(gctx, sessions, cfg.SessionIdle, sweepInterval(cfg.SessionIdle))
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return hs.Shutdown(sctx)
	})
	return g.Wait()
}

// sweepInterval checks a few times per idle window, at most once a minute.
func sweepInterval(idle time.Duration) time.Duration {
	return min(idle/4, time.Minute)
}

// sweepSessions drops sessions idle for longer than idle, every interval,
// until ctx is done. Records survive in the record log.
func sweepSessions(ctx context.Context, sessions store.Store, idle, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := sessions.Sweep(ctx, now.Add(-idle)); n > 0 {
				log.Debug().Int("sessions", n).Int("left", sessions.Len()).Msg("swept idle sessions")
			}
		}
	}
}
