package domain

import (
	"slices"

	"github.com/jaminalder/element-hunt/internal/catalog"
)

// PlayerID identifies one of the two seats of a match.
type PlayerID uint8

const (
	NoPlayer PlayerID = iota
	P1
	P2
)

// Other returns the opposing seat.
func (p PlayerID) Other() PlayerID {
	switch p {
	case P1:
		return P2
	case P2:
		return P1
	default:
		return NoPlayer
	}
}

func (p PlayerID) String() string {
	switch p {
	case P1:
		return "p1"
	case P2:
		return "p2"
	default:
		return "none"
	}
}

// HiddenTarget is a secretly assigned element. Found flips once, when the
// opponent hits it.
type HiddenTarget struct {
	Element catalog.Element
	Found   bool
}

// PlayerState is everything a match tracks for one seat.
//
// Shots holds every atomic number this player attacked; each shot is in
// exactly one of Hits or Misses. Hint is empty when no hint is held.
type PlayerState struct {
	ID                PlayerID
	Name              string
	Targets           []HiddenTarget
	Shots             []int
	Hits              []int
	Misses            []int
	ConsecutiveMisses int
	TurnCount         int
	Hint              string
}

func newPlayer(id PlayerID) PlayerState {
	return PlayerState{ID: id, Shots: []int{}, Hits: []int{}, Misses: []int{}}
}

// HasShot reports whether the player already attacked the given cell.
func (p *PlayerState) HasShot(number int) bool {
	return slices.Contains(p.Shots, number)
}

// Remaining returns the targets not yet found by the opponent.
func (p *PlayerState) Remaining() []HiddenTarget {
	out := make([]HiddenTarget, 0, len(p.Targets))
	for _, t := range p.Targets {
		if !t.Found {
			out = append(out, t)
		}
	}
	return out
}

// FoundCount is the number of this player's targets the opponent has found.
func (p *PlayerState) FoundCount() int {
	n := 0
	for _, t := range p.Targets {
		if t.Found {
			n++
		}
	}
	return n
}

// AllFound reports whether every target has been found.
func (p *PlayerState) AllFound() bool {
	return len(p.Targets) > 0 && p.FoundCount() == len(p.Targets)
}

func (p *PlayerState) recordHit(number int) {
	p.Shots = append(p.Shots, number)
	p.Hits = append(p.Hits, number)
	p.ConsecutiveMisses = 0
}

func (p *PlayerState) recordMiss(number int) {
	p.Shots = append(p.Shots, number)
	p.Misses = append(p.Misses, number)
	p.ConsecutiveMisses++
}

func (p PlayerState) clone() PlayerState {
	p.Targets = slices.Clone(p.Targets)
	p.Shots = slices.Clone(p.Shots)
	p.Hits = slices.Clone(p.Hits)
	p.Misses = slices.Clone(p.Misses)
	return p
}
