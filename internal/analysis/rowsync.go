package analysis

import (
	"sync"
	"sync/atomic"
)

// rowSync publishes per-row progress for the wavefront. Waiters spin on an
// atomic load and fall back to a condition variable.
type rowSync struct {
	rows []rowState
}

// rowState is padded to a cache line.
type rowState struct {
	done    atomic.Int32
	waiters atomic.Int32
	mu      sync.Mutex
	cond    *sync.Cond
	_       [8]byte
}

func newRowSync(mbH int) *rowSync {
	rs := &rowSync{rows: make([]rowState, mbH)}
	for i := range rs.rows {
		rs.rows[i].cond = sync.NewCond(&rs.rows[i].mu)
	}
	return rs
}

// reset clears the progress of the first n rows.
func (rs *rowSync) reset(n int) {
	for i := 0; i < n; i++ {
		rs.rows[i].done.Store(0)
	}
}

// waitFor blocks until row y has completed at least needed macroblocks.
func (rs *rowSync) waitFor(y int, needed int32) {
	r := &rs.rows[y]
	if r.done.Load() >= needed {
		return
	}
	r.waiters.Add(1)
	r.mu.Lock()
	for r.done.Load() < needed {
		r.cond.Wait()
	}
	r.mu.Unlock()
	r.waiters.Add(-1)
}

// signal records that row y has completed done macroblocks.
func (rs *rowSync) signal(y int, done int32) {
	r := &rs.rows[y]
	r.done.Store(done)
	if r.waiters.Load() > 0 {
		r.mu.Lock()
		r.mu.Unlock()
		r.cond.Broadcast()
	}
}
