package sat

// Clause is an ordered sequence of at least one literal plus an LBD slot.
// While a clause has at least two literals and is watched, positions 0
// and 1 are its watched literals; the propagator keeps them either
// unassigned or satisfied unless the clause is in conflict. The order of
// positions [2:] is not semantically meaningful but is mutated in place
// to preserve that invariant.
type Clause struct {
	Literals []Literal
	LBD      int
}

// Watcher is an entry in a literal's watch list: the clause watching
// that literal, and a blocker literal that was the clause's other
// watched literal at insertion time. The blocker is a soft hint and may
// go stale; the propagator revalidates it before trusting it.
type Watcher struct {
	CRef    int
	Blocker Literal
}

// ClauseStore is the append-only arena for hard and soft clauses, plus
// the literal-indexed watch table for hard clauses. Clause indices
// (crefs) into the hard arena never move once assigned; original hard
// clauses occupy [0, OriginClauses) and learned clauses occupy
// [OriginClauses, ...).
type ClauseStore struct {
	Hard []Clause
	Soft []Clause

	// OriginClauses is the number of hard clauses present right after
	// ingest, before any clause was learned.
	OriginClauses int

	numVars int
	// watch is a flat table of length 2*numVars+1, offset by numVars so
	// literal l maps to slot l+numVars (see spec Design Notes §9).
	watch [][]Watcher
}

// NewClauseStore returns a store sized for numVars variables.
func NewClauseStore(numVars int) *ClauseStore {
	return &ClauseStore{
		numVars: numVars,
		watch:   make([][]Watcher, 2*numVars+1),
	}
}

func (cs *ClauseStore) widx(l Literal) int {
	return int(l) + cs.numVars
}

// Watches returns the watch list for literal l.
func (cs *ClauseStore) Watches(l Literal) []Watcher {
	return cs.watch[cs.widx(l)]
}

// SetWatches replaces the watch list for literal l, typically with a
// truncated prefix of the slice Watches(l) returned (in-place compaction).
func (cs *ClauseStore) SetWatches(l Literal, ws []Watcher) {
	cs.watch[cs.widx(l)] = ws
}

// AppendWatch appends w to literal l's watch list. It is always safe to
// call during iteration of a *different* literal's watch list, since the
// propagator never iterates the destination list concurrently with the
// append.
func (cs *ClauseStore) AppendWatch(l Literal, w Watcher) {
	idx := cs.widx(l)
	cs.watch[idx] = append(cs.watch[idx], w)
}

// AddHardClause appends a clause of len(literals) positions to the hard
// arena and returns its cref. If the clause has at least two literals,
// it inserts watchers (cref, literals[1]) into watch(-literals[0]) and
// (cref, literals[0]) into watch(-literals[1]). The caller is
// responsible for arranging that literals[0] and literals[1] are the
// intended watched positions. A clause with fewer than two literals is
// stored but left unwatched; the caller must handle it as a unit fact.
func (cs *ClauseStore) AddHardClause(literals []Literal) int {
	lits := make([]Literal, len(literals))
	copy(lits, literals)

	cref := len(cs.Hard)
	cs.Hard = append(cs.Hard, Clause{Literals: lits})

	if len(lits) >= 2 {
		cs.AppendWatch(lits[0].Opposite(), Watcher{CRef: cref, Blocker: lits[1]})
		cs.AppendWatch(lits[1].Opposite(), Watcher{CRef: cref, Blocker: lits[0]})
	}
	return cref
}

// AddSoftClause appends a clause to the soft arena only; it is never
// watched or consulted by search.
func (cs *ClauseStore) AddSoftClause(literals []Literal) int {
	lits := make([]Literal, len(literals))
	copy(lits, literals)

	cref := len(cs.Soft)
	cs.Soft = append(cs.Soft, Clause{Literals: lits})
	return cref
}
