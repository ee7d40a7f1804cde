// Package oracle supplies hints and element trivia from an external text
// service. Backends may fail; Guard turns every failure into fallback text.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jaminalder/element-hunt/internal/catalog"
)

// Oracle is a text backend for hints and facts.
type Oracle interface {
	// Hint returns a clue about one of the remaining targets without naming
	// it or its grid position.
	Hint(ctx context.Context, remaining []catalog.Element, hits, misses []int) (string, error)
	// Fact returns short trivia about a found element.
	Fact(ctx context.Context, el catalog.Element) (string, error)
}

// ErrUnconfigured is returned by backends that have no credentials.
var ErrUnconfigured = errors.New("oracle not configured")

// Fallback texts.
const (
	HintOffline     = "The hint system is offline (no API key configured)."
	HintUnavailable = "The chemical radar is picking up interference... try again later."
	HintWeakSignal  = "The signal is weak, no hint could be formed."
	HintNoTargets   = "Every element has been found!"
)

// FactFallback is the generic trivia used when the backend fails.
func FactFallback(el catalog.Element) string {
	return fmt.Sprintf("%s (atomic number %d) belongs to the %s group.", el.Name, el.Number, el.Category)
}

const defaultTimeout = 8 * time.Second

// Guard wraps an Oracle with a deadline and fallbacks. Its methods always
// return non-empty text.
type Guard struct {
	oracle  Oracle
	timeout time.Duration
	log     zerolog.Logger
}

// NewGuard returns a Guard. A nil oracle behaves as Unconfigured; a
// non-positive timeout uses the default.
func NewGuard(o Oracle, timeout time.Duration, log zerolog.Logger) *Guard {
	if o == nil {
		o = Unconfigured{}
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Guard{oracle: o, timeout: timeout, log: log.With().Str("component", "oracle").Logger()}
}

// Hint asks for a clue, substituting fallback text on any failure.
func (g *Guard) Hint(ctx context.Context, remaining []catalog.Element, hits, misses []int) string {
	if len(remaining) == 0 {
		return HintNoTargets
	}
	text, err := g.call(ctx, "hint", func(ctx context.Context) (string, error) {
		return g.oracle.Hint(ctx, remaining, hits, misses)
	})
	switch {
	case errors.Is(err, ErrUnconfigured):
		g.log.Debug().Msg("hint skipped, oracle not configured")
		return HintOffline
	case err != nil:
		g.log.Warn().Err(err).Msg("hint request failed")
		return HintUnavailable
	}
	if text = strings.TrimSpace(text); text == "" {
		return HintWeakSignal
	}
	return text
}

// Fact asks for trivia, substituting FactFallback on any failure.
func (g *Guard) Fact(ctx context.Context, el catalog.Element) string {
	text, err := g.call(ctx, "fact", func(ctx context.Context) (string, error) {
		return g.oracle.Fact(ctx, el)
	})
	if err != nil {
		if !errors.Is(err, ErrUnconfigured) {
			g.log.Warn().Err(err).Str("element", el.Symbol).Msg("fact request failed")
		}
		return FactFallback(el)
	}
	if text = strings.TrimSpace(text); text == "" {
		return FactFallback(el)
	}
	return text
}

type result struct {
	text string
	err  error
}

// call runs fn in its own goroutine and stops waiting at the deadline,
// whether or not fn honours ctx. A panic in fn becomes an error.
func (g *Guard) call(ctx context.Context, kind string, fn func(ctx context.Context) (string, error)) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	done := make(chan result, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- result{err: fmt.Errorf("%s backend panic: %v", kind, p)}
			}
		}()
		text, err := fn(ctx)
		done <- result{text: text, err: err}
	}()
	select {
	case r := <-done:
		return r.text, r.err
	case <-ctx.Done():
		return "", fmt.Errorf("%s request: %w", kind, ctx.Err())
	}
}

// Unconfigured always reports ErrUnconfigured.
type Unconfigured struct{}

func (Unconfigured) Hint(context.Context, []catalog.Element, []int, []int) (string, error) {
	return "", ErrUnconfigured
}

func (Unconfigured) Fact(context.Context, catalog.Element) (string, error) {
	return "", ErrUnconfigured
}

// Static answers deterministically from catalog data, without a network.
type Static struct{}

func (Static) Hint(_ context.Context, remaining []catalog.Element, hits, _ []int) (string, error) {
	if len(remaining) == 0 {
		return HintNoTargets, nil
	}
	e := remaining[len(hits)%len(remaining)]
	orbital := strings.TrimLeft(e.Valence, "0123456789")
	if orbital != "" {
		orbital = orbital[:1]
	}
	return fmt.Sprintf("I'm thinking of a %s whose outermost electrons sit in a %s orbital.",
		strings.ToLower(string(e.Category)), orbital), nil
}

func (Static) Fact(_ context.Context, el catalog.Element) (string, error) {
	return fmt.Sprintf("%s (%s) has %d protons and its valence subshell is %s.",
		el.Name, el.Symbol, el.Number, el.Valence), nil
}
