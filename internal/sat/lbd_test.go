package sat

import "testing"

func TestLbdTracker_accumulatesWithinCapacity(t *testing.T) {
	tr := newLbdTracker()
	tr.record(3)
	tr.record(5)

	if got, want := tr.fastSum, 8; got != want {
		t.Errorf("fastSum = %d, want %d", got, want)
	}
	if got, want := tr.slowSum, int64(8); got != want {
		t.Errorf("slowSum = %d, want %d", got, want)
	}
	if got, want := tr.analyses, int64(2); got != want {
		t.Errorf("analyses = %d, want %d", got, want)
	}
}

func TestLbdTracker_evictsOldestPastCapacity(t *testing.T) {
	tr := newLbdTracker()
	for i := 0; i < lbdQueueCap; i++ {
		tr.record(1)
	}
	if got, want := tr.fastSum, lbdQueueCap; got != want {
		t.Fatalf("fastSum = %d, want %d after filling the ring buffer", got, want)
	}

	tr.record(10) // evicts the oldest 1, so fastSum should rise by 9
	if got, want := tr.fastSum, lbdQueueCap-1+10; got != want {
		t.Errorf("fastSum = %d, want %d after one eviction", got, want)
	}
	if got, want := tr.size(), lbdQueueCap; got != want {
		t.Errorf("size() = %d, want %d (capped at capacity)", got, want)
	}
}

func TestLbdTracker_slowSumCapsEachEntryAt50(t *testing.T) {
	tr := newLbdTracker()
	tr.record(1000)
	if got, want := tr.slowSum, int64(lbdQueueCap); got != want {
		t.Errorf("slowSum = %d, want %d (capped at lbdQueueCap per entry)", got, want)
	}
}
