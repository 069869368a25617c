package sat

import (
	"fmt"
	"math"
)

// Result codes returned by SolveLimited. Decide returns ResultContinue,
// ResultTrap or ResultSAT; Analyze reports a root-level conflict through
// its rootConflict result rather than a code.
const (
	ResultContinue = 0
	ResultTrap     = 1
	ResultSAT      = 10
	ResultUnsat    = 20
)

// Hooks lets an external observer (e.g. a metrics collector) count core
// engine events without the engine importing that collector. All methods
// are called synchronously from the solving goroutine; Solver is not
// safe for concurrent use regardless.
type Hooks interface {
	OnPropagate()
	OnConflict()
	OnDecision()
	OnTrap()
}

// Solver is the single owner of all solver state: the clause and watch
// arenas, the trail, per-variable assignment arrays, and the activity
// heap. It is strictly single-threaded and not re-entrant: no operation
// yields mid-step, and the only suspension points are the return values
// of SolveLimited (and the explicit entry points a driver may call
// directly: Decide, Propagate, Assign, Backtrack, Analyze, FromIsing).
type Solver struct {
	numVars int
	clauses *ClauseStore

	// Per-variable state, indices 1..numVars (index 0 unused).
	value    []LBool
	level    []int
	reason   []int // cref of the antecedent clause, or -1
	mark     []int32
	saved    []int8
	activity []float64

	timeStamp int32

	heap *ActivityHeap

	trail      []Literal
	posInTrail []int
	propagated int

	threshold float64

	lbd lbdTracker

	// learnt is the scratch buffer written by Analyze and consumed by
	// SolveLimited; it is re-used across calls to avoid reallocating.
	learnt []Literal

	// unsat latches a root-level conflict discovered outside Propagate,
	// e.g. two contradictory unit clauses added during ingest.
	unsat bool

	Hooks Hooks
}

const noReason = -1

// NewSolver allocates a solver for exactly numVars variables (ids
// 1..numVars). Variables are created once and persist for the life of
// the solver; there is no dynamic variable allocation past this point.
func NewSolver(numVars int) *Solver {
	s := &Solver{
		numVars:    numVars,
		clauses:    NewClauseStore(numVars),
		value:      make([]LBool, numVars+1),
		level:      make([]int, numVars+1),
		reason:     make([]int, numVars+1),
		mark:       make([]int32, numVars+1),
		saved:      make([]int8, numVars+1),
		activity:   make([]float64, numVars+1),
		heap:       NewActivityHeap(numVars + 1),
		posInTrail: make([]int, 0, 16),
		learnt:     make([]Literal, 0, 16),
		lbd:        newLbdTracker(),
		// threshold defaults below any activity value so that Decide
		// never traps until SetThreshold is called; activity starts at
		// 0 for every variable, and the valid threshold range is [0,1]
		// (spec.md's setThreshold), so 0 itself would trap immediately.
		threshold: -1,
	}
	for v := 1; v <= numVars; v++ {
		s.reason[v] = noReason
		s.heap.Insert(v, 0)
	}
	return s
}

// NumVariables returns V, the number of variables the solver was built
// for.
func (s *Solver) NumVariables() int {
	return s.numVars
}

func (s *Solver) decisionLevel() int {
	return len(s.posInTrail)
}

func (s *Solver) litValue(l Literal) LBool {
	v := s.value[l.Var()]
	if l > 0 {
		return v
	}
	return v.Opposite()
}

func (s *Solver) hookPropagate() {
	if s.Hooks != nil {
		s.Hooks.OnPropagate()
	}
}

func (s *Solver) hookConflict() {
	if s.Hooks != nil {
		s.Hooks.OnConflict()
	}
}

func (s *Solver) hookDecision() {
	if s.Hooks != nil {
		s.Hooks.OnDecision()
	}
}

func (s *Solver) hookTrap() {
	if s.Hooks != nil {
		s.Hooks.OnTrap()
	}
}

// Assign sets lit's variable true at the given decision level with the
// given antecedent (noReason/-1 for decisions and top-level units) and
// appends lit to the trail. It is a low-level hook: it does not check
// for a conflicting prior assignment, nor does it touch the heap or
// watch lists; callers (Propagate, Decide, SolveLimited, or a driver
// interleaving its own reasoning) are responsible for invariants.
func (s *Solver) Assign(lit Literal, level int, cref int) {
	v := lit.Var()
	if lit > 0 {
		s.value[v] = True
	} else {
		s.value[v] = False
	}
	s.level[v] = level
	s.reason[v] = cref
	s.trail = append(s.trail, lit)
}

// AddClause appends a clause to the hard arena and returns its cref
// together with whether the clause is consistent so far. Clauses with
// at least two literals are watched per spec.md §4.2. A clause with
// exactly one literal has nothing to watch, so it is enqueued directly
// as a level-0 fact: if the literal is already asserted with the
// opposite sign, ok is false and the caller (typically ingest) should
// treat this as a root-level conflict. An empty clause is always a
// root-level conflict. This direct-enqueue handling of unit clauses is
// what lets a WCNF file with two contradictory unit hard clauses be
// detected during ingest, before any propagation has a watch list to
// walk; see SPEC_FULL.md "Supplemented features".
func (s *Solver) AddClause(literals []Literal) (cref int, ok bool) {
	switch len(literals) {
	case 0:
		s.unsat = true
		return -1, false
	case 1:
		lit := literals[0]
		v := lit.Var()
		want := True
		if lit < 0 {
			want = False
		}
		switch s.value[v] {
		case want:
			return -1, true
		case Unknown:
			s.Assign(lit, 0, noReason)
			return -1, true
		default:
			s.unsat = true
			return -1, false
		}
	default:
		return s.clauses.AddHardClause(literals), true
	}
}

// AddSoftClause appends a clause to the soft arena only; it is stored
// for external retrieval but never consulted by search.
func (s *Solver) AddSoftClause(literals []Literal) int {
	return s.clauses.AddSoftClause(literals)
}

// FinalizeOriginClauses records the current size of the hard arena as
// the boundary between original and learned clauses. It must be called
// exactly once, by the ingest layer, after all original hard clauses
// have been added and before any call to SolveLimited.
func (s *Solver) FinalizeOriginClauses() {
	s.clauses.OriginClauses = len(s.clauses.Hard)
}

// SetThreshold sets the trap threshold consulted by Decide.
func (s *Solver) SetThreshold(t float64) {
	s.threshold = t
}

// Propagate runs unit propagation (BCP) over the watched hard clauses
// using the two-watched-literal scheme (spec.md §4.3). It returns the
// cref of a conflicting clause, or -1 once the trail is quiescent.
func (s *Solver) Propagate() int {
	for s.propagated < len(s.trail) {
		p := s.trail[s.propagated]
		s.propagated++
		s.hookPropagate()

		ws := s.clauses.Watches(p)
		i, j := 0, 0
		for i < len(ws) {
			w := ws[i]

			if s.litValue(w.Blocker) == True {
				ws[j] = ws[i]
				i++
				j++
				continue
			}

			cref := w.CRef
			c := &s.clauses.Hard[cref]
			if c.Literals[0] == p.Opposite() {
				c.Literals[0], c.Literals[1] = c.Literals[1], c.Literals[0]
			}
			wPrime := Watcher{CRef: cref, Blocker: c.Literals[0]}
			i++

			if s.litValue(c.Literals[0]) == True {
				ws[j] = wPrime
				j++
				continue
			}

			found := -1
			for k := 2; k < len(c.Literals); k++ {
				if s.litValue(c.Literals[k]) != False {
					found = k
					break
				}
			}

			if found != -1 {
				c.Literals[1], c.Literals[found] = c.Literals[found], c.Literals[1]
				s.clauses.AppendWatch(c.Literals[1].Opposite(), wPrime)
				continue
			}

			ws[j] = wPrime
			j++
			if s.litValue(c.Literals[0]) == False {
				for ; i < len(ws); i++ {
					ws[j] = ws[i]
					j++
				}
				s.clauses.SetWatches(p, ws[:j])
				return cref
			}
			s.Assign(c.Literals[0], s.level[p.Var()], cref)
		}
		s.clauses.SetWatches(p, ws[:j])
	}
	return -1
}

// Analyze performs first-UIP conflict analysis over the conflicting
// clause confl (spec.md §4.4). It writes the learnt clause into the
// solver's scratch buffer (retrievable immediately after via Learnt),
// computes and records its LBD, and returns the backtrack level. If the
// conflict's highest level is 0, rootConflict is true and the caller
// must report UNSAT without consulting the other return values.
func (s *Solver) Analyze(confl int) (backtrackLevel int, lbd int, rootConflict bool) {
	s.timeStamp++

	c0 := &s.clauses.Hard[confl]
	highestLevel := s.level[c0.Literals[0].Var()]
	if highestLevel == 0 {
		return 0, 0, true
	}

	s.learnt = s.learnt[:0]
	s.learnt = append(s.learnt, 0) // reserved slot for the first-UIP

	shouldVisit := 0
	var resolveLit Literal
	index := len(s.trail) - 1
	conflict := confl

	for {
		c := &s.clauses.Hard[conflict]
		start := 0
		if resolveLit != 0 {
			start = 1
		}
		for i := start; i < len(c.Literals); i++ {
			lit := c.Literals[i]
			v := lit.Var()
			if s.mark[v] != s.timeStamp && s.level[v] > 0 {
				s.mark[v] = s.timeStamp
				if s.level[v] >= highestLevel {
					shouldVisit++
				} else {
					s.learnt = append(s.learnt, lit)
				}
			}
		}

		for {
			for {
				lit := s.trail[index]
				index--
				if s.mark[lit.Var()] == s.timeStamp {
					resolveLit = lit
					break
				}
			}
			if s.level[resolveLit.Var()] >= highestLevel {
				break
			}
		}

		conflict = s.reason[resolveLit.Var()]
		s.mark[resolveLit.Var()] = 0
		shouldVisit--
		if shouldVisit <= 0 {
			break
		}
	}

	s.learnt[0] = resolveLit.Opposite()

	s.timeStamp++
	lbd = 0
	for _, lit := range s.learnt {
		lv := s.level[lit.Var()]
		if lv != 0 && s.mark[lv] != s.timeStamp {
			s.mark[lv] = s.timeStamp
			lbd++
		}
	}
	s.lbd.record(lbd)

	if len(s.learnt) == 1 {
		return 0, lbd, false
	}
	maxIdx := 1
	for i := 2; i < len(s.learnt); i++ {
		if s.level[s.learnt[i].Var()] > s.level[s.learnt[maxIdx].Var()] {
			maxIdx = i
		}
	}
	s.learnt[1], s.learnt[maxIdx] = s.learnt[maxIdx], s.learnt[1]
	return s.level[s.learnt[1].Var()], lbd, false
}

// Learnt returns the clause written by the most recent call to Analyze.
// The returned slice aliases solver-owned scratch storage and is only
// valid until the next Analyze call.
func (s *Solver) Learnt() []Literal {
	return s.learnt
}

// Backtrack undoes all assignments made at a decision level greater
// than b (spec.md §4.5). It is a no-op if the solver never reached
// level b+1. Activity and reason are left untouched; a stale reason on
// an unassigned variable is harmless because only assigned variables
// consult it.
func (s *Solver) Backtrack(b int) {
	if len(s.posInTrail) <= b {
		return
	}
	target := s.posInTrail[b]
	for i := len(s.trail) - 1; i >= target; i-- {
		lit := s.trail[i]
		v := lit.Var()
		s.value[v] = Unknown
		if lit > 0 {
			s.saved[v] = 1
		} else {
			s.saved[v] = -1
		}
		if !s.heap.InHeap(v) {
			s.heap.Insert(v, s.activity[v])
		}
	}
	s.propagated = target
	s.trail = s.trail[:target]
	s.posInTrail = s.posInTrail[:b]
}

// Decide selects the next decision variable by activity (spec.md §4.6).
// It returns ResultSAT if the heap is empty (every variable has been
// assigned and propagation has reached fixpoint), ResultTrap if the
// highest-activity unassigned variable's activity does not exceed the
// trap threshold, or ResultContinue after opening a new decision level
// and assigning that variable.
//
// A variable popped from the heap while trapped is not reinserted: the
// original engine drops it until a future Backtrack or FromIsing call
// brings it back. This is preserved deliberately (spec.md §9).
func (s *Solver) Decide() int {
	var v int
	for {
		if s.heap.Empty() {
			return ResultSAT
		}
		v = s.heap.Pop()
		if s.value[v] == Unknown {
			break
		}
	}

	if s.activity[v] <= s.threshold {
		return ResultTrap
	}

	s.posInTrail = append(s.posInTrail, len(s.trail))
	lit := Literal(v)
	// If saved[v] != 0, flip polarity by it; saved[v] == 0 (never
	// seen) keeps the positive form, matching the original's
	// `next *= saved[next]` trick where multiplying by 0 would be a
	// bug were it not guarded by `if (saved[next])`.
	if s.saved[v] != 0 {
		lit = Literal(int32(v) * int32(s.saved[v]))
	}
	s.Assign(lit, s.decisionLevel(), noReason)
	return ResultContinue
}

// SolveLimited runs the propagate/analyze/backtrack/decide loop
// (spec.md §4.7) until it returns ResultSAT, ResultUnsat, or
// ResultTrap. ResultTrap is the hook that lets an external driver (the
// continuous-relaxation optimizer) take over: the caller may call
// FromIsing and then SolveLimited again to resume.
func (s *Solver) SolveLimited() int {
	if s.unsat {
		return ResultUnsat
	}
	for {
		if cref := s.Propagate(); cref != -1 {
			s.hookConflict()

			backtrackLevel, lbd, rootConflict := s.Analyze(cref)
			if rootConflict {
				s.unsat = true
				return ResultUnsat
			}

			s.Backtrack(backtrackLevel)

			learnt := s.learnt
			if len(learnt) == 1 {
				s.Assign(learnt[0], 0, noReason)
			} else {
				newCref := s.clauses.AddHardClause(learnt)
				s.clauses.Hard[newCref].LBD = lbd
				s.Assign(learnt[0], backtrackLevel, newCref)
			}
			continue
		}

		res := s.Decide()
		switch res {
		case ResultContinue:
			s.hookDecision()
			continue
		case ResultTrap:
			s.hookTrap()
		}
		return res
	}
}

// FromIsing ingests a continuous relaxation hint vector of length V:
// for every variable v, activity[v] is set to |x[v-1]| and the variable
// is repositioned in the heap, and saved[v] is set to prefer the
// negative literal (-1) unless x[v-1] is negative, in which case it
// prefers the positive literal (+1) -- matching the fixed sign
// convention of spec.md §4.8 and the original EasySAT source exactly,
// including the x == 0 tie going to "prefer negative". It leaves the
// trail and all clause/watch state untouched; the next Decide call will
// see the updated ordering and phases. Calling it mid-search is legal.
func (s *Solver) FromIsing(x []float64) error {
	if len(x) != s.numVars {
		return fmt.Errorf("sat: hint vector has %d entries, want %d", len(x), s.numVars)
	}
	for v := 1; v <= s.numVars; v++ {
		val := x[v-1]
		s.activity[v] = math.Abs(val)
		if !s.heap.InHeap(v) {
			s.heap.Insert(v, s.activity[v])
		}
		s.heap.Update(v, s.activity[v])
		if val < 0 {
			s.saved[v] = 1
		} else {
			s.saved[v] = -1
		}
	}
	return nil
}

// Model returns a copy of the current per-variable assignment, valued
// in {-1, 0, +1}. It is only meaningful as a full model once
// SolveLimited has returned ResultSAT.
func (s *Solver) Model() []int {
	m := make([]int, s.numVars)
	for v := 1; v <= s.numVars; v++ {
		m[v-1] = int(s.value[v])
	}
	return m
}

// Activity returns a copy of the current per-variable activity scores.
func (s *Solver) Activity() []float64 {
	a := make([]float64, s.numVars)
	copy(a, s.activity[1:])
	return a
}

// HardClauses returns a copy of the original hard clauses (the first
// OriginClauses entries of the hard arena), each as a slice of ints.
// Learned clauses are not included.
func (s *Solver) HardClauses() [][]int {
	return clausesToInts(s.clauses.Hard[:s.clauses.OriginClauses])
}

// SoftClauses returns a copy of every soft clause, stored but never
// consulted by search.
func (s *Solver) SoftClauses() [][]int {
	return clausesToInts(s.clauses.Soft)
}

func clausesToInts(cs []Clause) [][]int {
	out := make([][]int, len(cs))
	for i, c := range cs {
		lits := make([]int, len(c.Literals))
		for j, l := range c.Literals {
			lits[j] = int(l)
		}
		out[i] = lits
	}
	return out
}
