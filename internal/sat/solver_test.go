package sat

import "testing"

func propagateToFixpoint(t *testing.T, s *Solver) int {
	t.Helper()
	s.FinalizeOriginClauses()
	return s.Propagate()
}

func TestSolveLimited_unitClauseSAT(t *testing.T) {
	s := NewSolver(1)
	s.AddClause([]Literal{1})
	if cref := propagateToFixpoint(t, s); cref != -1 {
		t.Fatalf("Propagate() = %d, want -1 (no conflict)", cref)
	}

	status := s.SolveLimited()
	if status != ResultSAT {
		t.Fatalf("SolveLimited() = %d, want ResultSAT", status)
	}
	if got, want := s.Model()[0], int(True); got != want {
		t.Errorf("Model()[0] = %d, want %d", got, want)
	}
}

func TestAddClause_contradictoryUnits(t *testing.T) {
	s := NewSolver(1)
	if _, ok := s.AddClause([]Literal{1}); !ok {
		t.Fatalf("AddClause({1}) reported conflict unexpectedly")
	}
	if _, ok := s.AddClause([]Literal{-1}); ok {
		t.Fatalf("AddClause({-1}) should report a conflict against the existing unit")
	}

	status := s.SolveLimited()
	if status != ResultUnsat {
		t.Fatalf("SolveLimited() = %d, want ResultUnsat", status)
	}
}

func TestSolveLimited_threeClauseSAT(t *testing.T) {
	s := NewSolver(3)
	s.AddClause([]Literal{1, 2, 3})
	s.AddClause([]Literal{-1, 2})
	s.AddClause([]Literal{-2, 3})
	s.FinalizeOriginClauses()

	status := s.SolveLimited()
	if status != ResultSAT {
		t.Fatalf("SolveLimited() = %d, want ResultSAT", status)
	}

	model := s.Model()
	for _, c := range s.clauses.Hard {
		satisfied := false
		for _, l := range c.Literals {
			v := model[l.Var()-1]
			if (l > 0 && v == int(True)) || (l < 0 && v == int(False)) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			t.Errorf("clause %v not satisfied by model %v", c.Literals, model)
		}
	}
}

func TestSoftClauses_neverConsultedBySolve(t *testing.T) {
	s := NewSolver(2)
	s.AddClause([]Literal{1, 2})
	s.AddSoftClause([]Literal{-1, -2}) // contradicts nothing hard; must not affect the result
	s.FinalizeOriginClauses()

	status := s.SolveLimited()
	if status != ResultSAT {
		t.Fatalf("SolveLimited() = %d, want ResultSAT", status)
	}
	if got, want := len(s.SoftClauses()), 1; got != want {
		t.Errorf("SoftClauses() has %d entries, want %d", got, want)
	}
}

func TestFromIsing_steersFirstDecision(t *testing.T) {
	s := NewSolver(2)
	s.AddClause([]Literal{1, 2})
	s.AddClause([]Literal{-1, -2})
	s.FinalizeOriginClauses()

	if err := s.FromIsing([]float64{-5, 1}); err != nil {
		t.Fatalf("FromIsing(): %s", err)
	}

	res := s.Decide()
	if res != ResultContinue {
		t.Fatalf("Decide() = %d, want ResultContinue", res)
	}
	// Variable 1 has the larger magnitude hint, so it should be the
	// first decision; its negative hint value maps to a positive
	// (True) assignment per FromIsing's sign convention.
	if s.value[1] != True {
		t.Errorf("value[1] = %v, want True (variable 1 should decide first)", s.value[1])
	}
}

func TestFromIsing_wrongLength(t *testing.T) {
	s := NewSolver(3)
	if err := s.FromIsing([]float64{1, 2}); err == nil {
		t.Errorf("FromIsing(): want error for mismatched length, got none")
	}
}

func TestDecide_trapsBelowThreshold(t *testing.T) {
	s := NewSolver(2)
	s.AddClause([]Literal{1, 2})
	s.AddClause([]Literal{-1, -2})
	s.FinalizeOriginClauses()
	s.SetThreshold(0.5)

	if err := s.FromIsing([]float64{0.1, 0.2}); err != nil {
		t.Fatalf("FromIsing(): %s", err)
	}

	res := s.Decide()
	if res != ResultTrap {
		t.Fatalf("Decide() = %d, want ResultTrap (all activities below threshold)", res)
	}
}

func TestBacktrack_restoresSavedPhase(t *testing.T) {
	s := NewSolver(1)
	s.FinalizeOriginClauses()

	res := s.Decide()
	if res != ResultContinue {
		t.Fatalf("Decide() = %d, want ResultContinue", res)
	}
	assigned := s.value[1]
	if assigned == Unknown {
		t.Fatalf("variable 1 should be assigned after Decide()")
	}

	s.Backtrack(0)
	if s.value[1] != Unknown {
		t.Errorf("value[1] = %v after Backtrack(0), want Unknown", s.value[1])
	}
	if !s.heap.InHeap(1) {
		t.Errorf("variable 1 should be back in the heap after backtracking past its decision")
	}
	if got, want := s.saved[1], int8(assigned); got != want {
		t.Errorf("saved[1] = %d after Backtrack(0), want %d (the polarity it was assigned)", got, want)
	}
}
