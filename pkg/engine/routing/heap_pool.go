package routing

import (
	"sync"
	"sync/atomic"

	da "github.com/lintang-b-s/navigatorx-matrix/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/util"
)

// HeapPool recycles query heaps across matrix computations.
// maxHeaps bounds the heaps reserved at once across all requests (0 = unbounded).
type HeapPool struct {
	pool        sync.Pool
	outstanding atomic.Int64
	maxHeaps    int64
}

func NewHeapPool(numberOfNodes int, maxHeaps int) *HeapPool {
	prealloc := min(numberOfNodes, HEAP_PREALLOCATE)
	hp := &HeapPool{maxHeaps: int64(maxHeaps)}
	hp.pool = sync.Pool{
		New: func() any {
			h := da.NewFourAryQueryHeap()
			h.Preallocate(prealloc)
			return h
		},
	}
	return hp
}

func (hp *HeapPool) get() *da.QueryHeap {
	h := hp.pool.Get().(*da.QueryHeap)
	h.Clear()
	return h
}

func (hp *HeapPool) put(h *da.QueryHeap) {
	h.Clear()
	hp.pool.Put(h)
}

// reserve books n heaps against maxHeaps in one step; concurrent callers never overshoot the cap.
func (hp *HeapPool) reserve(n int64) bool {
	if hp.maxHeaps <= 0 {
		hp.outstanding.Add(n)
		return true
	}
	for {
		cur := hp.outstanding.Load()
		if cur+n > hp.maxHeaps {
			return false
		}
		if hp.outstanding.CompareAndSwap(cur, cur+n) {
			return true
		}
	}
}

func (hp *HeapPool) unreserve(n int64) {
	hp.outstanding.Add(-n)
}

// Outstanding. heaps currently reserved, checked out or not.
func (hp *HeapPool) Outstanding() int64 {
	return hp.outstanding.Load()
}

// Acquire reserves one reverse heap per destination, forward heaps for at most forward
// concurrent searches and the empty scratch heap. forward heaps are taken from the
// returned set on demand.
func (hp *HeapPool) Acquire(count, forward int) (*HeapSet, error) {
	total := int64(count + forward + 1)
	if !hp.reserve(total) {
		return nil, util.WrapErrorf(nil, util.ErrResourceExhausted,
			"cannot acquire %d search heaps: %d of %d in use", total, hp.outstanding.Load(), hp.maxHeaps)
	}

	set := &HeapSet{
		pool:            hp,
		reverse:         make([]*da.QueryHeap, count),
		empty:           hp.get(),
		forwardReserved: forward,
		reserved:        total,
	}
	for i := range set.reverse {
		set.reverse[i] = hp.get()
	}
	return set, nil
}

// HeapSet. heaps of one matrix pass. every heap in it is returned exactly once by ReleaseAll.
type HeapSet struct {
	pool    *HeapPool
	reverse []*da.QueryHeap
	empty   *da.QueryHeap

	forwardReserved int
	reserved        int64

	mu          sync.Mutex
	forwardFree []*da.QueryHeap
	forwardAll  []*da.QueryHeap
	released    bool
}

func (s *HeapSet) Reverse(j int) *da.QueryHeap {
	util.AssertPanic(!s.released, "reverse heap used after release")
	return s.reverse[j]
}

func (s *HeapSet) NumberOfReverse() int {
	return len(s.reverse)
}

// Empty. scratch opposite heap for one sided searches, never filled.
func (s *HeapSet) Empty() *da.QueryHeap {
	util.AssertPanic(s.empty.InsertedCount() == 0, "scratch heap is not empty")
	return s.empty
}

func (s *HeapSet) Clear(h *da.QueryHeap) {
	h.Clear()
}

func (s *HeapSet) AcquireForward() *da.QueryHeap {
	s.mu.Lock()
	defer s.mu.Unlock()
	util.AssertPanic(!s.released, "forward heap acquired after release")

	if n := len(s.forwardFree); n > 0 {
		h := s.forwardFree[n-1]
		s.forwardFree = s.forwardFree[:n-1]
		h.Clear()
		return h
	}
	util.AssertPanic(len(s.forwardAll) < s.forwardReserved, "more forward heaps in use than reserved")
	h := s.pool.get()
	s.forwardAll = append(s.forwardAll, h)
	return h
}

func (s *HeapSet) ReleaseForward(h *da.QueryHeap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forwardFree = append(s.forwardFree, h)
}

// NumberOfForward. distinct forward heaps handed out so far.
func (s *HeapSet) NumberOfForward() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.forwardAll)
}

// ReleaseAll returns every heap of the set to the pool. calling it twice panics.
func (s *HeapSet) ReleaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	util.AssertPanic(!s.released, "heap set released twice")
	s.released = true

	for _, h := range s.reverse {
		s.pool.put(h)
	}
	for _, h := range s.forwardAll {
		s.pool.put(h)
	}
	s.pool.put(s.empty)
	s.pool.unreserve(s.reserved)

	s.reverse = nil
	s.forwardAll = nil
	s.forwardFree = nil
	s.empty = nil
}
