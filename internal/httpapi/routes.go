package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/yahtzee-backend/internal/hub"
	"github.com/DoyleJ11/yahtzee-backend/internal/journal"
	"github.com/DoyleJ11/yahtzee-backend/internal/metrics"
	"github.com/DoyleJ11/yahtzee-backend/internal/ws"
)

type Options struct {
	Logger       *zap.Logger
	Journal      journal.Journal
	Metrics      *metrics.Metrics
	ClientBuffer int
}

func SetupRoutes(h *hub.Hub, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Journal == nil {
		opts.Journal = journal.NewMemory()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// Public routes
	r.Post("/tables", CreateTable(h, opts.Logger))
	r.Route("/tables/{code}", func(r chi.Router) {
		r.Get("/", GetTable(h))
		r.Delete("/", DeleteTable(h, opts.Logger))
		r.Post("/roll", Roll(h))
		r.Post("/score", Score(h))
		r.Get("/history", History(h, opts.Journal))
	})
	r.Get("/categories", Categories)
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, opts.Logger, opts.ClientBuffer))
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	return r
}
