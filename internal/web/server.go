package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/jaminalder/element-hunt/internal/app"
)

// Option configures the HTTP server.
type Option func(*handlers)

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option { return func(h *handlers) { h.log = l } }

// WithSessionSecret sets the key used to sign session cookies. Without it a
// random per-process key is used.
func WithSessionSecret(secret string) Option {
	return func(h *handlers) { h.sessions = newSessions(secret) }
}

// WithSecureCookies marks the session cookie Secure. Enable it when the
// server is reached over HTTPS.
func WithSecureCookies(secure bool) Option { return func(h *handlers) { h.secureCookies = secure } }

// NewServer wires routes and returns an http.Handler.
func NewServer(s *app.Service, opts ...Option) http.Handler {
	h := &handlers{svc: s, tpl: loadTemplates(), log: zerolog.Nop()}
	for _, o := range opts {
		o(h)
	}
	if h.sessions == nil {
		h.sessions = newSessions("")
	}
	h.sessions.secure = h.secureCookies

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(hlog.NewHandler(h.log))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("req_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	}))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Get("/", h.index)
		r.Post("/match", h.create)
	})
	r.Route("/match/{id}", func(r chi.Router) {
		r.Use(h.requireOwner)
		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(10 * time.Second))
			r.Get("/", h.view)
			r.Post("/names", h.names)
			r.Post("/reveal/start", h.action(h.svc.StartReveal))
			r.Post("/reveal/close", h.action(h.svc.CloseReveal))
			r.Post("/turn/start", h.action(h.svc.StartTurn))
			r.Post("/select", h.selectCell)
			r.Post("/deselect", h.action(h.svc.Deselect))
			r.Post("/answer", h.answer)
			r.Post("/peek", h.action(h.svc.Peek))
			r.Post("/peek/close", h.action(h.svc.ClosePeek))
			r.Post("/confirm", h.action(h.svc.Confirm))
			r.Post("/restart", h.action(h.svc.Restart))
		})
		r.Get("/events", h.events)
		r.Get("/ws", h.ws)
	})
	return r
}
