package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/jaminalder/element-hunt/internal/app"
	"github.com/jaminalder/element-hunt/internal/domain"
)

type handlers struct {
	svc           *app.Service
	tpl           *templates
	sessions      *sessions
	secureCookies bool
	log           zerolog.Logger
}

func (h *handlers) renderBoard(st app.MatchState, errMsg string) []byte {
	return renderTemplate(h.tpl.board, "", boardData{View: app.NewView(st), Error: errMsg})
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.index, "", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	sid, err := h.sessions.ensure(w, r)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to issue session")
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	ms, err := h.svc.CreateMatch(sid)
	if err != nil {
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/match/"+ms.ID, http.StatusSeeOther)
}

// requireOwner lets only the browser that created a match drive or watch it.
func (h *handlers) requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		sid, err := h.sessions.read(r)
		if err == nil {
			err = h.svc.Authorize(id, sid)
		}
		switch {
		case err == nil:
			next.ServeHTTP(w, r)
		case errors.Is(err, app.ErrNotFound):
			http.NotFound(w, r)
		default:
			hlog.FromRequest(r).Debug().Err(err).Str("match", id).Msg("match access denied")
			http.Error(w, "This match is being played on another device", http.StatusForbidden)
		}
	})
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, ok := h.svc.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.game, "", boardData{View: app.NewView(*st)}))
}

// action adapts a parameterless service call to a fragment-returning handler.
func (h *handlers) action(fn func(id string) (*app.MatchState, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		st, err := fn(id)
		h.writeBoard(w, r, id, st, err)
	}
}

func (h *handlers) names(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_ = r.ParseForm()
	st, err := h.svc.SetNames(id, r.Form.Get("p1"), r.Form.Get("p2"))
	h.writeBoard(w, r, id, st, err)
}

func (h *handlers) selectCell(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_ = r.ParseForm()
	n, _ := strconv.Atoi(strings.TrimSpace(r.Form.Get("n")))
	st, err := h.svc.Select(id, n)
	h.writeBoard(w, r, id, st, err)
}

func (h *handlers) answer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_ = r.ParseForm()
	st, err := h.svc.Submit(id, r.Form.Get("answer"))
	h.writeBoard(w, r, id, st, err)
}

// writeBoard renders the board fragment. Rejected actions render the
// unchanged board with a short message; they are never server errors.
func (h *handlers) writeBoard(w http.ResponseWriter, r *http.Request, id string, st *app.MatchState, err error) {
	var errMsg string
	if err != nil {
		errMsg = errorMessage(err)
		hlog.FromRequest(r).Debug().Err(err).Str("match", id).Msg("action rejected")
	}
	if st == nil {
		if errors.Is(err, app.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		st, _ = h.svc.Get(id)
		if st == nil {
			http.NotFound(w, r)
			return
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderBoard(*st, errMsg))
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyName):
		return "Both players need a name"
	case errors.Is(err, domain.ErrHintPending):
		return "Wait for the hint to arrive"
	case errors.Is(err, domain.ErrAlreadyShot):
		return "You already attacked that cell"
	case errors.Is(err, domain.ErrUnknownElement):
		return "No such element"
	case errors.Is(err, domain.ErrMalformedAnswer):
		return "Answer in subshell notation, e.g. 3d6"
	case errors.Is(err, domain.ErrNoSelection):
		return "Pick a cell first"
	case errors.Is(err, domain.ErrSelectionOpen):
		return "Close the answer dialog first"
	case errors.Is(err, domain.ErrMatchOver):
		return "Match is over"
	default:
		return "Not now"
	}
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// Non-EventSource requests only get the headers.
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		streamError(w, r, err)
		return
	}
	defer unsub()
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case st, ok := <-ch:
			if !ok {
				return
			}
			writeSSE(w, "board", h.renderBoard(st, ""))
			flusher.Flush()
		}
	}
}

func streamError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, app.ErrClosed) {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}
	http.NotFound(w, r)
}

// writeSSE writes one event; every payload line gets its own data field.
func writeSSE(w io.Writer, event string, payload []byte) {
	_, _ = fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(strings.TrimRight(string(payload), "\n"), "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = io.WriteString(w, "\n")
}
