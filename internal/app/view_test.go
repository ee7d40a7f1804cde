package app

import (
	"testing"

	"github.com/jaminalder/element-hunt/internal/domain"
)

func TestViewShowsTargetsOnlyDuringStartedReveal(t *testing.T) {
	s := newTestService(t, nil)
	ms, _ := s.CreateMatch("owner")

	named, err := s.SetNames(ms.ID, "Ada", "Bob")
	if err != nil {
		t.Fatalf("SetNames: %v", err)
	}
	v := NewView(*named)
	if v.Reveal == nil || v.Reveal.Name != "Ada" || v.Reveal.Started {
		t.Fatalf("unexpected reveal before start: %+v", v.Reveal)
	}
	if len(v.OwnTargets) != 0 {
		t.Fatalf("targets shown before the reveal started")
	}
	if v.Players[0].Name != "Ada" || v.Players[1].Name != "Bob" {
		t.Fatalf("unexpected players: %+v", v.Players)
	}

	started, err := s.StartReveal(ms.ID)
	if err != nil {
		t.Fatalf("StartReveal: %v", err)
	}
	v = NewView(*started)
	if !v.Reveal.Started || len(v.OwnTargets) != domain.TargetCount {
		t.Fatalf("expected %d targets during reveal, got %+v", domain.TargetCount, v)
	}
	if v.Cells != nil || v.Over != nil || v.Result != nil {
		t.Fatalf("reveal view leaks other phases: %+v", v)
	}
}
