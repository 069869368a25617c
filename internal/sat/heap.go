package sat

import "github.com/rhartert/yagh"

// ActivityHeap is a max-heap over variable ids ordered by the solver's
// activity array. It stores ids, and yagh.IntMap resolves order by an
// explicit key (rather than a live back-reference), so every bump of
// activity[v] must be followed by Update(v) to keep order consistent
// before the next Pop. Ties break by insertion order, as yagh.IntMap
// orders equal keys by their original id.
type ActivityHeap struct {
	// order stores the negated activity of each in-heap variable so that
	// yagh's min-first IntMap behaves as a max-heap on activity.
	order *yagh.IntMap[float64]

	// size is tracked locally: yagh.IntMap exposes Contains/Pop but not
	// a count, so Empty cannot rely on it alone.
	size int
}

// NewActivityHeap returns an empty heap with capacity for n variables
// (ids 0..n-1 may be inserted without further growth). The solver's
// variable count is fixed at construction, so the heap never needs to
// grow past that range.
func NewActivityHeap(n int) *ActivityHeap {
	return &ActivityHeap{order: yagh.New[float64](n)}
}

// Empty reports whether no variable is currently in the heap.
func (h *ActivityHeap) Empty() bool {
	return h.size == 0
}

// InHeap reports whether variable v is currently a heap member.
func (h *ActivityHeap) InHeap(v int) bool {
	return h.order.Contains(v)
}

// Insert adds v to the heap with the given activity. It is a no-op if v
// is already present.
func (h *ActivityHeap) Insert(v int, activity float64) {
	if h.order.Contains(v) {
		return
	}
	h.order.Put(v, -activity)
	h.size++
}

// Update repositions v after its activity key has changed externally.
// It is a no-op if v is not currently in the heap.
func (h *ActivityHeap) Update(v int, activity float64) {
	if !h.order.Contains(v) {
		return
	}
	h.order.Put(v, -activity)
}

// Pop extracts and returns the variable with the highest activity. It
// panics if the heap is empty; callers must check Empty first.
func (h *ActivityHeap) Pop() int {
	e, ok := h.order.Pop()
	if !ok {
		panic("sat: pop on empty activity heap")
	}
	h.size--
	return e.Elem
}
