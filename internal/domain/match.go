package domain

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/jaminalder/element-hunt/internal/catalog"
)

// Fixed game constants.
const (
	TargetCount    = 3
	MaxAttempts    = 3
	RevealDuration = 5
	MaxTurns       = 60
	LogCapacity    = 10
)

// Phase is the current screen of a match.
type Phase uint8

const (
	PhaseEnteringNames Phase = iota
	PhaseRevealing
	PhaseTurnTransition
	PhaseActiveTurn
	PhaseFeedback
	PhaseMatchOver
)

func (p Phase) String() string {
	switch p {
	case PhaseEnteringNames:
		return "entering-names"
	case PhaseRevealing:
		return "revealing"
	case PhaseTurnTransition:
		return "turn-transition"
	case PhaseActiveTurn:
		return "active-turn"
	case PhaseFeedback:
		return "resolving-feedback"
	case PhaseMatchOver:
		return "match-over"
	default:
		return "unknown"
	}
}

// Termination records why a match ended.
type Termination uint8

const (
	NotTerminated Termination = iota
	TerminatedAllFound
	TerminatedTurnLimit
)

func (t Termination) String() string {
	switch t {
	case TerminatedAllFound:
		return "all-found"
	case TerminatedTurnLimit:
		return "turn-limit"
	default:
		return "none"
	}
}

// Errors returned by match operations. A rejected operation never changes state.
var (
	ErrWrongPhase       = errors.New("action not allowed in this phase")
	ErrMatchOver        = errors.New("match over")
	ErrEmptyName        = errors.New("player names must not be empty")
	ErrRevealNotStarted = errors.New("reveal not started")
	ErrRevealStarted    = errors.New("reveal already started")
	ErrHintPending      = errors.New("hint still loading")
	ErrUnknownElement   = errors.New("unknown element")
	ErrAlreadyShot      = errors.New("cell already attacked")
	ErrNoSelection      = errors.New("no cell selected")
	ErrSelectionOpen    = errors.New("close the answer dialog first")
	ErrMalformedAnswer  = errors.New("answer is not subshell notation")
)

// Reveal tracks the private viewing of one player's own targets.
type Reveal struct {
	Player    PlayerID
	Started   bool
	Remaining int
}

// Selection is the open answer dialog for a chosen cell.
type Selection struct {
	Element      catalog.Element
	AttemptsLeft int
	Invalid      bool
}

// HintRequest asks the oracle for a clue about the opponent's remaining targets.
type HintRequest struct {
	Epoch     uint64
	Player    PlayerID
	Remaining []catalog.Element
	Hits      []int
	Misses    []int
}

// FactRequest asks the oracle for trivia about a just-found element.
type FactRequest struct {
	Epoch   uint64
	Player  PlayerID
	Element catalog.Element
}

// Match is the turn-based state machine for one two-player game. It is not
// safe for concurrent use; callers serialise access.
type Match struct {
	Phase     Phase
	Active    PlayerID
	Players   [2]PlayerState
	Reveal    Reveal
	Selection *Selection
	Result    *TurnResult
	Log       []LogEntry

	HintPending bool
	FactPending bool
	Fact        string
	// Peek counts down while the active player re-views their own targets.
	Peek int

	Reason Termination
	Winner PlayerID

	epoch  uint64
	logSeq uint64
	rng    *rand.Rand
}

// Option configures a Match.
type Option func(*Match)

// WithRand makes target generation draw from rng.
func WithRand(rng *rand.Rand) Option {
	return func(m *Match) { m.rng = rng }
}

// New returns a match waiting for player names.
func New(opts ...Option) *Match {
	m := &Match{}
	for _, o := range opts {
		o(m)
	}
	m.reset()
	return m
}

func (m *Match) reset() {
	m.Phase = PhaseEnteringNames
	m.Active = P1
	m.Players = [2]PlayerState{newPlayer(P1), newPlayer(P2)}
	m.Reveal = Reveal{}
	m.Selection = nil
	m.Result = nil
	m.Log = nil
	m.HintPending = false
	m.FactPending = false
	m.Fact = ""
	m.Peek = 0
	m.Reason = NotTerminated
	m.Winner = NoPlayer
	m.epoch++
}

// Player returns the state of the given seat.
func (m *Match) Player(id PlayerID) *PlayerState {
	if id == P2 {
		return &m.Players[1]
	}
	return &m.Players[0]
}

// Current returns the active player's state.
func (m *Match) Current() *PlayerState { return m.Player(m.Active) }

// Opponent returns the state of the player waiting for their turn.
func (m *Match) Opponent() *PlayerState { return m.Player(m.Active.Other()) }

func (m *Match) require(p Phase) error {
	if m.Phase == p {
		return nil
	}
	if m.Phase == PhaseMatchOver {
		return ErrMatchOver
	}
	return ErrWrongPhase
}

// SetNames validates both names, deals targets and opens player 1's reveal.
func (m *Match) SetNames(p1, p2 string) error {
	if err := m.require(PhaseEnteringNames); err != nil {
		return err
	}
	p1, p2 = strings.TrimSpace(p1), strings.TrimSpace(p2)
	if p1 == "" || p2 == "" {
		return ErrEmptyName
	}
	all := catalog.All()
	t1, err := GenerateTargets(m.rng, all, TargetCount)
	if err != nil {
		return err
	}
	t2, err := GenerateTargets(m.rng, all, TargetCount)
	if err != nil {
		return err
	}
	m.Players[0].Name, m.Players[0].Targets = p1, t1
	m.Players[1].Name, m.Players[1].Targets = p2, t2
	m.Active = P1
	m.Reveal = Reveal{Player: P1}
	m.Phase = PhaseRevealing
	m.addLog(LogInfo, NoPlayer, fmt.Sprintf("%s vs %s: targets dealt.", p1, p2))
	return nil
}

// StartReveal leaves the instruction screen and starts the timed reveal.
func (m *Match) StartReveal() error {
	if err := m.require(PhaseRevealing); err != nil {
		return err
	}
	if m.Reveal.Started {
		return ErrRevealStarted
	}
	m.Reveal.Started = true
	m.Reveal.Remaining = RevealDuration
	return nil
}

// CloseReveal dismisses a running reveal early.
func (m *Match) CloseReveal() error {
	if err := m.require(PhaseRevealing); err != nil {
		return err
	}
	if !m.Reveal.Started {
		return ErrRevealNotStarted
	}
	m.finishReveal()
	return nil
}

func (m *Match) finishReveal() {
	if m.Reveal.Player == P1 {
		m.Reveal = Reveal{Player: P2}
		return
	}
	m.Reveal = Reveal{}
	m.Active = P1
	m.Phase = PhaseTurnTransition
}

// Tick advances the running countdown, if any, by one time unit and
// reports whether anything changed.
func (m *Match) Tick() bool {
	switch {
	case m.Phase == PhaseRevealing && m.Reveal.Started:
		m.Reveal.Remaining--
		if m.Reveal.Remaining <= 0 {
			m.finishReveal()
		}
		return true
	case m.Phase == PhaseActiveTurn && m.Peek > 0:
		m.Peek--
		return true
	}
	return false
}

// Ticking reports whether a countdown is running.
func (m *Match) Ticking() bool {
	return (m.Phase == PhaseRevealing && m.Reveal.Started) || (m.Phase == PhaseActiveTurn && m.Peek > 0)
}

// StartTurn passes the device to the active player. On even turn counts it
// returns a hint request that must be answered with ApplyHint before the
// player can shoot. Past MaxTurns the match ends instead.
func (m *Match) StartTurn() (*HintRequest, error) {
	if err := m.require(PhaseTurnTransition); err != nil {
		return nil, err
	}
	cur, opp := m.Current(), m.Opponent()
	next := cur.TurnCount + 1
	if next > MaxTurns {
		m.finish(TerminatedTurnLimit)
		return nil, nil
	}
	m.epoch++
	cur.TurnCount = next
	m.Phase = PhaseActiveTurn
	if next%2 != 0 {
		cur.Hint = ""
		return nil, nil
	}
	cur.Hint = ""
	cur.ConsecutiveMisses = 0
	m.HintPending = true
	req := &HintRequest{
		Epoch:  m.epoch,
		Player: m.Active,
		Hits:   append([]int(nil), cur.Hits...),
		Misses: append([]int(nil), cur.Misses...),
	}
	for _, t := range opp.Remaining() {
		req.Remaining = append(req.Remaining, t.Element)
	}
	return req, nil
}

// ApplyHint stores the oracle's answer to a hint request. It reports false
// and changes nothing when the request is stale.
func (m *Match) ApplyHint(epoch uint64, text string) bool {
	if epoch != m.epoch || !m.HintPending || m.Phase != PhaseActiveTurn {
		return false
	}
	m.HintPending = false
	m.Current().Hint = text
	m.addLog(LogHint, m.Active, "Hint received.")
	return true
}

// Select opens the answer dialog for an unattacked cell. Re-selecting the
// open cell is a no-op; selecting another cell replaces the dialog.
func (m *Match) Select(number int) error {
	if err := m.require(PhaseActiveTurn); err != nil {
		return err
	}
	if m.HintPending {
		return ErrHintPending
	}
	el, ok := catalog.Lookup(number)
	if !ok {
		return ErrUnknownElement
	}
	if m.Current().HasShot(number) {
		return ErrAlreadyShot
	}
	if m.Selection != nil && m.Selection.Element.Number == number {
		return nil
	}
	m.Peek = 0
	m.Selection = &Selection{Element: el, AttemptsLeft: MaxAttempts}
	return nil
}

// Deselect closes the answer dialog without spending the turn.
func (m *Match) Deselect() error {
	if err := m.require(PhaseActiveTurn); err != nil {
		return err
	}
	if m.Selection == nil {
		return ErrNoSelection
	}
	m.Selection = nil
	return nil
}

var subshell = regexp.MustCompile(`^[1-7][spdf][0-9]{1,2}$`)

// Submit checks an answer for the selected cell. A correct answer fires the
// shot; a hit returns a fact request. Wrong answers burn attempts and the
// last one forfeits the turn without touching the board. Malformed input is
// rejected without consuming an attempt.
func (m *Match) Submit(answer string) (*FactRequest, error) {
	if err := m.require(PhaseActiveTurn); err != nil {
		return nil, err
	}
	if m.HintPending {
		return nil, ErrHintPending
	}
	sel := m.Selection
	if sel == nil {
		return nil, ErrNoSelection
	}
	if !subshell.MatchString(strings.ToLower(strings.TrimSpace(answer))) {
		return nil, ErrMalformedAnswer
	}
	cur := m.Current()

	if !sel.Element.Matches(answer) {
		sel.AttemptsLeft--
		if sel.AttemptsLeft > 0 {
			sel.Invalid = true
			cur.ConsecutiveMisses++
			return nil, nil
		}
		res := forfeit(cur, sel.Element)
		m.Result = &res
		m.Selection = nil
		m.Phase = PhaseFeedback
		m.addLog(LogError, m.Active, fmt.Sprintf("Lost the turn on %s.", sel.Element.Symbol))
		return nil, nil
	}

	res := ResolveShot(cur, m.Opponent(), sel.Element)
	m.Result = &res
	m.Selection = nil
	m.Peek = 0
	m.Phase = PhaseFeedback
	if res.Outcome != OutcomeHit {
		m.addLog(LogMiss, m.Active, fmt.Sprintf("Missed at %s.", res.Element.Symbol))
		return nil, nil
	}
	m.addLog(LogHit, m.Active, fmt.Sprintf("Found %s!", res.Element.Symbol))
	m.FactPending = true
	return &FactRequest{Epoch: m.epoch, Player: m.Active, Element: res.Element}, nil
}

// ApplyFact stores trivia for the element just found. Facts arriving after
// the feedback screen was confirmed are discarded.
func (m *Match) ApplyFact(epoch uint64, text string) bool {
	if epoch != m.epoch || !m.FactPending || m.Phase != PhaseFeedback {
		return false
	}
	m.FactPending = false
	m.Fact = text
	return true
}

// StartPeek lets the active player re-view their own targets for a
// RevealDuration countdown.
func (m *Match) StartPeek() error {
	if err := m.require(PhaseActiveTurn); err != nil {
		return err
	}
	if m.Selection != nil {
		return ErrSelectionOpen
	}
	m.Peek = RevealDuration
	return nil
}

// ClosePeek hides the player's own targets again.
func (m *Match) ClosePeek() error {
	if err := m.require(PhaseActiveTurn); err != nil {
		return err
	}
	m.Peek = 0
	return nil
}

// Confirm acknowledges the feedback screen. It ends the match when the
// opponent has no targets left, otherwise passes the turn.
func (m *Match) Confirm() error {
	if err := m.require(PhaseFeedback); err != nil {
		return err
	}
	if m.Opponent().AllFound() {
		m.finish(TerminatedAllFound)
		return nil
	}
	m.Active = m.Active.Other()
	m.Result = nil
	m.Fact = ""
	m.FactPending = false
	m.Phase = PhaseTurnTransition
	return nil
}

func (m *Match) finish(reason Termination) {
	m.Reason = reason
	m.Phase = PhaseMatchOver
	m.Selection = nil
	m.HintPending = false
	m.FactPending = false
	m.Peek = 0
	m.Winner = winner(reason, m.Active, len(m.Players[0].Hits), len(m.Players[1].Hits))
	if m.Winner == NoPlayer {
		m.addLog(LogInfo, NoPlayer, "Draw.")
	} else {
		m.addLog(LogInfo, m.Winner, fmt.Sprintf("%s wins (%s).", m.Player(m.Winner).Name, reason))
	}
}

// winner decides the match: finding every target beats any hit count,
// otherwise strictly more hits wins and a tie is a draw.
func winner(reason Termination, active PlayerID, hits1, hits2 int) PlayerID {
	if reason == TerminatedAllFound {
		return active
	}
	switch {
	case hits1 > hits2:
		return P1
	case hits2 > hits1:
		return P2
	default:
		return NoPlayer
	}
}

// Restart discards all match state and returns to name entry. Pending
// oracle results become stale.
func (m *Match) Restart() {
	m.reset()
}

// Snapshot returns a deep copy safe to read outside the caller's lock.
func (m *Match) Snapshot() Match {
	cp := *m
	cp.Players = [2]PlayerState{m.Players[0].clone(), m.Players[1].clone()}
	cp.Log = append([]LogEntry(nil), m.Log...)
	if m.Selection != nil {
		s := *m.Selection
		cp.Selection = &s
	}
	if m.Result != nil {
		r := *m.Result
		cp.Result = &r
	}
	cp.rng = nil
	return cp
}
