package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jaminalder/element-hunt/internal/domain"
	"github.com/jaminalder/element-hunt/internal/oracle"
)

// Errors exposed by the service layer.
var (
	ErrNotFound = errors.New("match not found")
	ErrNotOwner = errors.New("match belongs to another device")
	ErrClosed   = errors.New("service closed")
)

// MatchState is a read-only snapshot of a match.
type MatchState struct {
	ID      string
	Match   domain.Match
	Created time.Time
	Updated time.Time
}

type entry struct {
	id      string
	owner   string
	match   *domain.Match
	created time.Time
	updated time.Time
	ticking bool
}

func (e *entry) snapshot() MatchState {
	return MatchState{ID: e.id, Match: e.match.Snapshot(), Created: e.created, Updated: e.updated}
}

type subscriber struct {
	ch        chan MatchState
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service owns matches and serialises every change to them under one lock.
// Oracle calls and countdowns run in goroutines and re-enter through the
// same lock.
type Service struct {
	mu      sync.Mutex
	matches map[string]*entry
	subs    map[string]map[*subscriber]struct{}

	oracle   *oracle.Guard
	tick     time.Duration
	matchOps []domain.Option
	log      zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithOracle sets the hint and fact source.
func WithOracle(g *oracle.Guard) Option { return func(s *Service) { s.oracle = g } }

// WithTick sets the length of one countdown unit.
func WithTick(d time.Duration) Option { return func(s *Service) { s.tick = d } }

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Service) { s.log = l } }

// WithMatchOptions applies opts to every new match.
func WithMatchOptions(opts ...domain.Option) Option {
	return func(s *Service) { s.matchOps = append(s.matchOps, opts...) }
}

// NewService creates a service. Without WithOracle hints and facts use the
// offline fallbacks.
func NewService(opts ...Option) *Service {
	s := &Service{
		matches: make(map[string]*entry),
		subs:    make(map[string]map[*subscriber]struct{}),
		tick:    time.Second,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.oracle == nil {
		s.oracle = oracle.NewGuard(nil, 0, s.log)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Close stops background work, closes every subscriber channel so streams
// end, and waits for the background work to finish.
func (s *Service) Close() {
	s.cancel()
	s.mu.Lock()
	for id, set := range s.subs {
		for sub := range set {
			sub.close()
		}
		delete(s.subs, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// CreateMatch registers a new match owned by the given session.
func (s *Service) CreateMatch(owner string) (*MatchState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	e := &entry{
		id:      uuid.NewString(),
		owner:   owner,
		match:   domain.New(s.matchOps...),
		created: now,
		updated: now,
	}
	s.matches[e.id] = e
	s.log.Info().Str("match", e.id).Msg("match created")
	cp := e.snapshot()
	return &cp, nil
}

// Get returns a snapshot of the match if present.
func (s *Service) Get(id string) (*MatchState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.matches[id]
	if !ok {
		return nil, false
	}
	cp := e.snapshot()
	return &cp, true
}

// Authorize checks that the session owns the match.
func (s *Service) Authorize(id, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.matches[id]
	if !ok {
		return ErrNotFound
	}
	if e.owner != owner {
		return ErrNotOwner
	}
	return nil
}

// SetNames validates the names and deals targets.
func (s *Service) SetNames(id, p1, p2 string) (*MatchState, error) {
	return s.apply(id, func(m *domain.Match) error { return m.SetNames(p1, p2) })
}

// StartReveal starts the timed reveal of the current player's targets.
func (s *Service) StartReveal(id string) (*MatchState, error) {
	return s.apply(id, func(m *domain.Match) error { return m.StartReveal() })
}

// CloseReveal dismisses the reveal early.
func (s *Service) CloseReveal(id string) (*MatchState, error) {
	return s.apply(id, func(m *domain.Match) error { return m.CloseReveal() })
}

// StartTurn hands the device over and, on hint turns, fetches a hint.
func (s *Service) StartTurn(id string) (*MatchState, error) {
	var req *domain.HintRequest
	st, err := s.apply(id, func(m *domain.Match) error {
		var err error
		req, err = m.StartTurn()
		return err
	})
	if err == nil && req != nil {
		s.fetchHint(id, *req)
	}
	return st, err
}

// Select opens the answer dialog for a cell.
func (s *Service) Select(id string, number int) (*MatchState, error) {
	return s.apply(id, func(m *domain.Match) error { return m.Select(number) })
}

// Deselect closes the answer dialog.
func (s *Service) Deselect(id string) (*MatchState, error) {
	return s.apply(id, func(m *domain.Match) error { return m.Deselect() })
}

// Submit answers the open dialog and, on a hit, fetches a fact.
func (s *Service) Submit(id, answer string) (*MatchState, error) {
	var req *domain.FactRequest
	st, err := s.apply(id, func(m *domain.Match) error {
		var err error
		req, err = m.Submit(answer)
		return err
	})
	if err == nil && req != nil {
		s.fetchFact(id, *req)
	}
	return st, err
}

// Peek shows the active player's own targets for a short countdown.
func (s *Service) Peek(id string) (*MatchState, error) {
	return s.apply(id, func(m *domain.Match) error { return m.StartPeek() })
}

// ClosePeek hides the active player's targets again.
func (s *Service) ClosePeek(id string) (*MatchState, error) {
	return s.apply(id, func(m *domain.Match) error { return m.ClosePeek() })
}

// Confirm acknowledges the feedback screen.
func (s *Service) Confirm(id string) (*MatchState, error) {
	return s.apply(id, func(m *domain.Match) error { return m.Confirm() })
}

// Restart discards the match state and returns to name entry.
func (s *Service) Restart(id string) (*MatchState, error) {
	return s.apply(id, func(m *domain.Match) error {
		m.Restart()
		return nil
	})
}

// apply runs fn under the lock, then broadcasts and starts the countdown
// when one is running. A failed fn leaves the match untouched.
func (s *Service) apply(id string, fn func(m *domain.Match) error) (*MatchState, error) {
	s.mu.Lock()
	e, ok := s.matches[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	from := e.match.Phase
	if err := fn(e.match); err != nil {
		cp := e.snapshot()
		s.mu.Unlock()
		return &cp, err
	}
	e.updated = time.Now()
	if to := e.match.Phase; to != from {
		s.log.Debug().Str("match", id).Stringer("from", from).Stringer("to", to).
			Stringer("active", e.match.Active).Msg("phase transition")
	}
	s.startTickerLocked(e)
	cp := e.snapshot()
	s.broadcastLocked(id, cp)
	s.mu.Unlock()
	return &cp, nil
}

// startTickerLocked runs at most one countdown goroutine per match. It
// exits once nothing is counting down.
func (s *Service) startTickerLocked(e *entry) {
	if e.ticking || !e.match.Ticking() {
		return
	}
	e.ticking = true
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		t := time.NewTicker(s.tick)
		defer t.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-t.C:
			}
			s.mu.Lock()
			if !e.match.Ticking() {
				e.ticking = false
				s.mu.Unlock()
				return
			}
			e.match.Tick()
			e.updated = time.Now()
			s.broadcastLocked(e.id, e.snapshot())
			s.mu.Unlock()
		}
	}()
}

func (s *Service) fetchHint(id string, req domain.HintRequest) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		text := s.oracle.Hint(s.ctx, req.Remaining, req.Hits, req.Misses)
		s.deliver(id, "hint", func(m *domain.Match) bool { return m.ApplyHint(req.Epoch, text) })
	}()
}

func (s *Service) fetchFact(id string, req domain.FactRequest) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		text := s.oracle.Fact(s.ctx, req.Element)
		s.deliver(id, "fact", func(m *domain.Match) bool { return m.ApplyFact(req.Epoch, text) })
	}()
}

// deliver feeds an oracle result back into the match. Results for a turn
// that has moved on are dropped.
func (s *Service) deliver(id, kind string, fn func(m *domain.Match) bool) {
	s.mu.Lock()
	e, ok := s.matches[id]
	if !ok || !fn(e.match) {
		s.mu.Unlock()
		s.log.Debug().Str("match", id).Str("kind", kind).Msg("discarded stale oracle result")
		return
	}
	e.updated = time.Now()
	s.broadcastLocked(id, e.snapshot())
	s.mu.Unlock()
}

// broadcastLocked fans a snapshot out without blocking; subscribers whose
// buffer is full are dropped.
func (s *Service) broadcastLocked(id string, st MatchState) {
	set := s.subs[id]
	dropped := 0
	for sub := range set {
		select {
		case sub.ch <- st:
		default:
			delete(set, sub)
			sub.close()
			dropped++
		}
	}
	if dropped > 0 {
		s.log.Debug().Str("match", id).Int("dropped", dropped).Msg("dropped slow subscribers")
	}
}

// Subscribe registers a subscriber for a match. Returns a channel and an
// unsubscribe func; the channel closes when ctx ends or the service closes.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan MatchState, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return nil, nil, ErrClosed
	}
	if _, ok := s.matches[id]; !ok {
		return nil, nil, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan MatchState, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			sub.close()
			s.mu.Unlock()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}
