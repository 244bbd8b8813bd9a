package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/yahtzee-backend/internal/config"
	"github.com/DoyleJ11/yahtzee-backend/internal/dice"
	"github.com/DoyleJ11/yahtzee-backend/internal/httpapi"
	"github.com/DoyleJ11/yahtzee-backend/internal/hub"
	"github.com/DoyleJ11/yahtzee-backend/internal/journal"
	"github.com/DoyleJ11/yahtzee-backend/internal/logging"
	"github.com/DoyleJ11/yahtzee-backend/internal/metrics"
	"github.com/DoyleJ11/yahtzee-backend/internal/table"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	j, err := openJournal(cfg, log)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, j.Close()) }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := hub.NewHub(ctx, table.Deps{
		Logger:    log,
		Journal:   j,
		Metrics:   m,
		NewRoller: func() dice.Roller { return dice.Standard{} },
	})

	// Build the router *with* the hub injected
	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: httpapi.SetupRoutes(h, httpapi.Options{
			Logger:       log,
			Journal:      j,
			Metrics:      m,
			ClientBuffer: cfg.ClientBuffer,
		}),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		h.Inbox() <- hub.ShutdownHub{}
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openJournal(cfg config.Config, log *zap.Logger) (journal.Journal, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("YAHTZEE_DATABASE_URL not set, keeping round history in memory")
		return journal.NewMemory(), nil
	}
	store, err := journal.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return store, nil
}
