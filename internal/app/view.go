package app

import (
	"slices"

	"github.com/jaminalder/element-hunt/internal/catalog"
	"github.com/jaminalder/element-hunt/internal/domain"
)

// View is what the shared screen may show for a match. Targets appear only
// to their owner during a reveal or peek.
type View struct {
	ID          string        `json:"id"`
	Phase       string        `json:"phase"`
	Active      string        `json:"active"`
	ActiveName  string        `json:"activeName"`
	Players     [2]PlayerView `json:"players"`
	MaxTurns    int           `json:"maxTurns"`
	TargetCount int           `json:"targetCount"`

	Reveal     *RevealView    `json:"reveal,omitempty"`
	OwnTargets []TargetView   `json:"ownTargets,omitempty"`
	Peek       int            `json:"peek,omitempty"`
	Cells      []CellView     `json:"cells,omitempty"`
	Selection  *SelectionView `json:"selection,omitempty"`
	Hint       string         `json:"hint,omitempty"`
	HintLoad   bool           `json:"hintLoading,omitempty"`
	Result     *ResultView    `json:"result,omitempty"`
	Fact       string         `json:"fact,omitempty"`
	FactLoad   bool           `json:"factLoading,omitempty"`
	Over       *OverView      `json:"over,omitempty"`
	Log        []LogView      `json:"log"`
}

// PlayerView is a player's public standing.
type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TurnCount int    `json:"turnCount"`
	Hits      int    `json:"hits"`
	Misses    int    `json:"misses"`
	Lost      int    `json:"lost"`
}

// RevealView describes the pass-the-device reveal in progress.
type RevealView struct {
	Player    string `json:"player"`
	Name      string `json:"name"`
	Started   bool   `json:"started"`
	Remaining int    `json:"remaining"`
}

// TargetView is one of the viewing player's own targets.
type TargetView struct {
	Number int    `json:"number"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Found  bool   `json:"found"`
}

// CellView is one board cell from the active player's point of view.
type CellView struct {
	Number   int    `json:"number"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Category string `json:"category"`
	Mark     string `json:"mark,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

// SelectionView is the cell awaiting an answer.
type SelectionView struct {
	Number       int    `json:"number"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	AttemptsLeft int    `json:"attemptsLeft"`
	Invalid      bool   `json:"invalid"`
}

// ResultView is the outcome of the last answered cell.
type ResultView struct {
	Outcome string `json:"outcome"`
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// OverView says how the match ended. Winner is empty on a draw.
type OverView struct {
	Reason string `json:"reason"`
	Winner string `json:"winner,omitempty"`
	Draw   bool   `json:"draw"`
}

// LogView is one match log entry.
type LogView struct {
	ID      uint64 `json:"id"`
	Kind    string `json:"kind"`
	Player  string `json:"player"`
	Message string `json:"message"`
}

// NewView projects a snapshot onto what may be shown on screen.
func NewView(st MatchState) View {
	m := &st.Match
	v := View{
		ID:          st.ID,
		Phase:       m.Phase.String(),
		Active:      m.Active.String(),
		ActiveName:  m.Current().Name,
		MaxTurns:    domain.MaxTurns,
		TargetCount: domain.TargetCount,
		Log:         make([]LogView, 0, len(m.Log)),
	}
	for i := range m.Players {
		p := &m.Players[i]
		v.Players[i] = PlayerView{
			ID:        p.ID.String(),
			Name:      p.Name,
			TurnCount: p.TurnCount,
			Hits:      len(p.Hits),
			Misses:    len(p.Misses),
			Lost:      p.FoundCount(),
		}
	}
	for _, e := range m.Log {
		v.Log = append(v.Log, LogView{ID: e.ID, Kind: string(e.Kind), Player: e.Player.String(), Message: e.Message})
	}

	switch m.Phase {
	case domain.PhaseRevealing:
		owner := m.Player(m.Reveal.Player)
		v.Reveal = &RevealView{
			Player:    m.Reveal.Player.String(),
			Name:      owner.Name,
			Started:   m.Reveal.Started,
			Remaining: m.Reveal.Remaining,
		}
		if m.Reveal.Started {
			v.OwnTargets = targetViews(owner.Targets)
		}
	case domain.PhaseActiveTurn:
		v.Cells = cells(m)
		v.Hint = m.Current().Hint
		v.HintLoad = m.HintPending
		if m.Peek > 0 {
			v.Peek = m.Peek
			v.OwnTargets = targetViews(m.Current().Targets)
		}
		if sel := m.Selection; sel != nil {
			v.Selection = &SelectionView{
				Number:       sel.Element.Number,
				Symbol:       sel.Element.Symbol,
				Name:         sel.Element.Name,
				AttemptsLeft: sel.AttemptsLeft,
				Invalid:      sel.Invalid,
			}
		}
	case domain.PhaseFeedback:
		v.Cells = cells(m)
		if r := m.Result; r != nil {
			v.Result = &ResultView{
				Outcome: r.Outcome.String(),
				Symbol:  r.Element.Symbol,
				Name:    r.Element.Name,
				Message: r.Message,
			}
		}
		v.Fact = m.Fact
		v.FactLoad = m.FactPending
	case domain.PhaseMatchOver:
		v.Over = &OverView{Reason: m.Reason.String(), Draw: m.Winner == domain.NoPlayer}
		if !v.Over.Draw {
			v.Over.Winner = m.Player(m.Winner).Name
		}
	}
	return v
}

func targetViews(ts []domain.HiddenTarget) []TargetView {
	out := make([]TargetView, len(ts))
	for i, t := range ts {
		out[i] = TargetView{Number: t.Element.Number, Symbol: t.Element.Symbol, Name: t.Element.Name, Found: t.Found}
	}
	return out
}

func cells(m *domain.Match) []CellView {
	cur := m.Current()
	out := make([]CellView, 0, catalog.Size)
	for _, e := range catalog.All() {
		c := CellView{
			Number:   e.Number,
			Symbol:   e.Symbol,
			Name:     e.Name,
			Row:      e.Row,
			Col:      e.Col,
			Category: e.Category.Slug(),
		}
		switch {
		case slices.Contains(cur.Hits, e.Number):
			c.Mark = "hit"
		case slices.Contains(cur.Misses, e.Number):
			c.Mark = "miss"
		}
		if m.Selection != nil && m.Selection.Element.Number == e.Number {
			c.Selected = true
		}
		out = append(out, c)
	}
	return out
}
