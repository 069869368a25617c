package sat

import "testing"

func TestAddHardClause_watchesFirstTwoLiterals(t *testing.T) {
	cs := NewClauseStore(3)
	cref := cs.AddHardClause([]Literal{1, -2, 3})

	if got, want := len(cs.Watches(Literal(-1))), 1; got != want {
		t.Fatalf("watch list for -1 has %d entries, want %d", got, want)
	}
	if got, want := cs.Watches(Literal(-1))[0].CRef, cref; got != want {
		t.Errorf("watch list for -1 references cref %d, want %d", got, want)
	}
	if got, want := len(cs.Watches(Literal(2))), 1; got != want {
		t.Fatalf("watch list for 2 has %d entries, want %d", got, want)
	}
	// Literal 3 is not watched; only positions 0 and 1 are.
	if got := len(cs.Watches(Literal(-3))); got != 0 {
		t.Errorf("watch list for -3 has %d entries, want 0", got)
	}
}

func TestAddHardClause_unitClauseIsUnwatched(t *testing.T) {
	cs := NewClauseStore(2)
	cs.AddHardClause([]Literal{1})

	if got := len(cs.Watches(Literal(-1))); got != 0 {
		t.Errorf("watch list for -1 has %d entries, want 0 for a unit clause", got)
	}
}

func TestAddHardClause_returnsStableCref(t *testing.T) {
	cs := NewClauseStore(3)
	c0 := cs.AddHardClause([]Literal{1, 2})
	c1 := cs.AddHardClause([]Literal{-1, 3})

	if c0 == c1 {
		t.Fatalf("expected distinct crefs, got %d and %d", c0, c1)
	}
	if got, want := cs.Hard[c0].Literals, []Literal{1, 2}; !literalsEqual(got, want) {
		t.Errorf("Hard[%d].Literals = %v, want %v", c0, got, want)
	}
}

func TestAddSoftClause_neverWatched(t *testing.T) {
	cs := NewClauseStore(2)
	cs.AddSoftClause([]Literal{1, 2})

	if got := len(cs.Watches(Literal(-1))); got != 0 {
		t.Errorf("soft clause literal -1 has %d watchers, want 0", got)
	}
	if got := len(cs.Watches(Literal(-2))); got != 0 {
		t.Errorf("soft clause literal -2 has %d watchers, want 0", got)
	}
	if got, want := len(cs.Soft), 1; got != want {
		t.Errorf("len(Soft) = %d, want %d", got, want)
	}
}

func TestAddHardClause_copiesLiteralSlice(t *testing.T) {
	cs := NewClauseStore(2)
	lits := []Literal{1, 2}
	cref := cs.AddHardClause(lits)

	lits[0] = 99 // mutating the caller's slice must not affect the stored clause
	if got, want := cs.Hard[cref].Literals[0], Literal(1); got != want {
		t.Errorf("Hard[%d].Literals[0] = %d, want %d (clause must own a copy)", cref, got, want)
	}
}

func literalsEqual(a, b []Literal) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
