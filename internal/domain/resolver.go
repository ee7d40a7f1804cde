package domain

import (
	"fmt"

	"github.com/jaminalder/element-hunt/internal/catalog"
)

// Outcome classifies how a turn ended.
type Outcome uint8

const (
	OutcomeHit Outcome = iota + 1
	OutcomeMiss
	OutcomeLostTurn
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeMiss:
		return "miss"
	case OutcomeLostTurn:
		return "lost-turn"
	default:
		return "none"
	}
}

// TurnResult describes the most recent resolved shot or forfeited turn.
type TurnResult struct {
	Outcome Outcome
	Element catalog.Element
	Message string
}

// ResolveShot applies a confirmed shot at el. Hit or miss depends only on
// whether el is one of the defender's unfound targets; the answer that
// unlocked the shot plays no part here.
func ResolveShot(attacker, defender *PlayerState, el catalog.Element) TurnResult {
	for i := range defender.Targets {
		t := &defender.Targets[i]
		if t.Found || t.Element.Number != el.Number {
			continue
		}
		t.Found = true
		attacker.recordHit(el.Number)
		return TurnResult{
			Outcome: OutcomeHit,
			Element: el,
			Message: fmt.Sprintf("Element found! (%d/%d)", defender.FoundCount(), len(defender.Targets)),
		}
	}
	attacker.recordMiss(el.Number)
	return TurnResult{
		Outcome: OutcomeMiss,
		Element: el,
		Message: "No hidden element here.",
	}
}

func forfeit(attacker *PlayerState, el catalog.Element) TurnResult {
	attacker.ConsecutiveMisses++
	return TurnResult{
		Outcome: OutcomeLostTurn,
		Element: el,
		Message: fmt.Sprintf("Wrong valence %d times (it was %s). Turn lost.", MaxAttempts, el.Valence),
	}
}
