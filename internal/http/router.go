package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/penny/internal/http/account"
	"github.com/MrJamesThe3rd/penny/internal/http/auth"
	"github.com/MrJamesThe3rd/penny/internal/http/export"
	"github.com/MrJamesThe3rd/penny/internal/http/importcsv"
	"github.com/MrJamesThe3rd/penny/internal/http/matching"
	"github.com/MrJamesThe3rd/penny/internal/http/schema"
	"github.com/MrJamesThe3rd/penny/internal/http/tag"
	"github.com/MrJamesThe3rd/penny/internal/http/transaction"
)

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	Timeout        time.Duration
}

type Handlers struct {
	Accounts     *account.Handler
	Schemas      *schema.Handler
	Import       *importcsv.Handler
	Transactions *transaction.Handler
	Tags         *tag.Handler
	Matching     *matching.Handler
	Export       *export.Handler
}

func New(opts Options, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Export-Count"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(opts.JWTSecret))

		r.Route("/accounts", func(r chi.Router) {
			h.Accounts.Routes(r)
		})

		r.Route("/schemas", func(r chi.Router) {
			h.Schemas.Routes(r)
		})

		r.Route("/import", h.Import.Routes)

		r.Route("/transactions", func(r chi.Router) {
			h.Transactions.Routes(r)
		})

		r.Route("/tags", func(r chi.Router) {
			h.Tags.Routes(r)
		})

		r.Route("/matching", func(r chi.Router) {
			h.Matching.Routes(r)
		})

		r.Route("/export", func(r chi.Router) {
			h.Export.Routes(r)
		})
	})

	return router
}
