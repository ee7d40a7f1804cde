package catalog

import "testing"

func TestCatalogIsCompleteAndOrdered(t *testing.T) {
	all := All()
	if len(all) != Size {
		t.Fatalf("expected %d elements, got %d", Size, len(all))
	}
	seen := map[[2]int]int{}
	for i, e := range all {
		if e.Number != i+1 {
			t.Fatalf("element at index %d has number %d", i, e.Number)
		}
		if e.Symbol == "" || e.Name == "" || e.Valence == "" {
			t.Fatalf("element %d has empty fields: %+v", e.Number, e)
		}
		if e.Row < 1 || e.Row > Rows || e.Col < 1 || e.Col > Cols {
			t.Fatalf("element %d out of grid: row=%d col=%d", e.Number, e.Row, e.Col)
		}
		pos := [2]int{e.Row, e.Col}
		if other, ok := seen[pos]; ok {
			t.Fatalf("elements %d and %d share grid position %v", other, e.Number, pos)
		}
		seen[pos] = e.Number
	}
}

func TestLookupBounds(t *testing.T) {
	for _, n := range []int{0, -1, Size + 1} {
		if _, ok := Lookup(n); ok {
			t.Fatalf("Lookup(%d) should fail", n)
		}
	}
	fe, ok := Lookup(26)
	if !ok || fe.Symbol != "Fe" || fe.Valence != "3d6" {
		t.Fatalf("unexpected iron entry: %+v", fe)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	a[0].Name = "changed"
	if h, _ := Lookup(1); h.Name != "Hydrogen" {
		t.Fatalf("catalog mutated through All(): %q", h.Name)
	}
}

func TestMatchesIgnoresCaseAndSpace(t *testing.T) {
	fe, _ := Lookup(26)
	for _, in := range []string{"3d6", "3D6", "  3d6 ", "\t3D6\n"} {
		if !fe.Matches(in) {
			t.Fatalf("expected %q to match %q", in, fe.Valence)
		}
	}
	for _, in := range []string{"", "3d5", "3d 6", "4s2"} {
		if fe.Matches(in) {
			t.Fatalf("expected %q not to match", in)
		}
	}
}

func TestLanthanidesUseDetachedRows(t *testing.T) {
	for n, want := range map[int][2]int{57: {9, 4}, 71: {9, 18}, 89: {10, 4}, 103: {10, 18}} {
		e, _ := Lookup(n)
		if e.Row != want[0] || e.Col != want[1] {
			t.Fatalf("element %d at (%d,%d), want %v", n, e.Row, e.Col, want)
		}
	}
}

func TestCategorySlug(t *testing.T) {
	if got := PostTransitionMetal.Slug(); got != "post-transition-metal" {
		t.Fatalf("unexpected slug %q", got)
	}
}
