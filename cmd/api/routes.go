package main

import (
	"context"
	"net/http"
	"time"

	"ygodeck/internal/auth"
	"ygodeck/internal/card"
	"ygodeck/internal/deck"
	"ygodeck/internal/httpx"
	"ygodeck/internal/ingest"
	"ygodeck/internal/library"
	"ygodeck/internal/user"
)

type handlers struct {
	cards   *card.HTTPHandler
	decks   *deck.HTTPHandler
	library *library.HTTPHandler
	users   *user.HTTPHandler
	auth    *auth.HTTPHandler
	ingest  *ingest.HTTPHandler
}

type routerConfig struct {
	jwtSecret      string
	internalSecret string
	ready          func(ctx context.Context) error
}

func newRouter(h handlers, cfg routerConfig) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := cfg.ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("GET /v1/cards", h.cards.List)
	router.HandleFunc("GET /v1/cards/{id}", h.cards.Get)

	router.HandleFunc("POST /v1/users/register", h.users.RegisterUser)
	router.HandleFunc("POST /v1/users/login", h.auth.Login)

	protected := httpx.AuthMiddleware(cfg.jwtSecret)
	handle := func(pattern string, fn http.HandlerFunc) {
		router.Handle(pattern, protected(fn))
	}

	handle("GET /v1/me", h.users.GetCurrentUser)

	handle("GET /v1/decks", h.decks.List)
	handle("POST /v1/decks", h.decks.Create)
	handle("POST /v1/decks/check", h.decks.Check)
	handle("POST /v1/decks/import", h.decks.Import)
	handle("GET /v1/decks/{id}", h.decks.Get)
	handle("PUT /v1/decks/{id}", h.decks.Update)
	handle("DELETE /v1/decks/{id}", h.decks.Delete)
	handle("GET /v1/decks/{id}/export", h.decks.Export)
	handle("POST /v1/decks/{id}/cards", h.decks.AddCard)
	handle("DELETE /v1/decks/{id}/cards/{cardId}", h.decks.RemoveCard)

	handle("GET /v1/library", h.library.List)
	handle("POST /v1/library", h.library.AddCard)
	handle("DELETE /v1/library", h.library.RemoveEntries)
	handle("GET /v1/library/recent", h.library.Recent)
	handle("GET /v1/library/check", h.library.Check)
	handle("PATCH /v1/library/tradeable", h.library.SetTradeable)
	handle("GET /v1/library/{id}", h.library.Get)
	handle("DELETE /v1/library/{id}/issues", h.library.RemoveIssues)
	handle("PATCH /v1/library/{id}/issues", h.library.UpdateIssuesStatus)
	handle("PATCH /v1/library/{id}/issues/{issueId}", h.library.UpdateIssueQuantity)

	router.Handle("POST /internal/jobs/sync-cards",
		httpx.InternalSecretMiddleware(cfg.internalSecret)(http.HandlerFunc(h.ingest.SyncCards)))
	router.Handle("POST /v1/admin/sync-cards",
		chain(http.HandlerFunc(h.ingest.SyncCards), protected, httpx.RequireRole(user.RoleAdmin)))

	return router
}

// chain applies middlewares so the first one listed is the outermost.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
