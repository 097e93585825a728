package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	mw "github.com/lukau2357/ecc-go/pkg/middleware"
)

// RouterConfig tunes the demo router's middleware.
type RouterConfig struct {
	// AttackRateLimit is the per-client attack requests allowed per
	// minute. The attack endpoint does a brute-force search server
	// side, so it gets its own budget. 0 means 10.
	AttackRateLimit int

	// RequestTimeout bounds each request. 0 means 30s.
	RequestTimeout time.Duration
}

// NewRouter assembles the demo API routes with the standard middleware
// stack.
func NewRouter(h *Handlers, cfg RouterConfig) chi.Router {
	if cfg.AttackRateLimit <= 0 {
		cfg.AttackRateLimit = 10
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(mw.CORS)
	r.Use(mw.RequireJSON)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok","service":"eccdemo-api"}`)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/curves", h.ListCurves)
		r.Get("/curves/{name}", h.GetCurve)
		r.Get("/curves/{name}/points", h.ListCurvePoints)

		r.Route("/drbg/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)
			r.Get("/{id}", h.GetSession)
			r.Delete("/{id}", h.DeleteSession)
			r.Post("/{id}/blocks", h.GenerateBlocks)
			r.With(mw.RateLimit(cfg.AttackRateLimit, time.Minute)).Post("/{id}/attack", h.Attack)
			r.Post("/{id}/predict", h.Predict)
		})

		r.Post("/ecdh", h.ECDH)
		r.Post("/ecdsa/sign", h.Sign)
		r.Post("/ecdsa/verify", h.Verify)
		r.Post("/primes", h.Prime)
		r.Post("/primes/generate", h.GeneratePrime)
		r.Get("/stats", h.Stats)
	})

	return r
}
