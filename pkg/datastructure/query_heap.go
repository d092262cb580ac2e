package datastructure

import (
	"github.com/lintang-b-s/navigatorx-matrix/pkg/util"
)

// HeapState. lifecycle of a search heap within one matrix pass.
type HeapState uint8

const (
	HeapUndrained HeapState = iota // seeded, nothing settled yet
	HeapDraining                   // settling in progress
	HeapDrained                    // empty after at least one settle
	HeapFinalized                  // Transform called, read-only lookups only
)

func (s HeapState) String() string {
	switch s {
	case HeapUndrained:
		return "undrained"
	case HeapDraining:
		return "draining"
	case HeapDrained:
		return "drained"
	case HeapFinalized:
		return "finalized"
	}
	return "unknown"
}

const removedPos = -1

type heapEntry struct {
	node   Index
	key    int32
	parent Index
	pos    int // slot in QueryHeap.heap, removedPos once settled
}

// QueryHeap. d-ary min heap over edge-based nodes keyed by tentative weight.
// every node ever inserted keeps its entry (key + parent) until Clear, so a drained
// heap doubles as the shortest path tree of its search.
type QueryHeap struct {
	heap      []int // entry ids
	entries   []heapEntry
	index     map[Index]int
	d         int
	settled   int
	finalized bool
}

func NewQueryHeap(d int) *QueryHeap {
	return &QueryHeap{
		heap:    make([]int, 0),
		entries: make([]heapEntry, 0),
		index:   make(map[Index]int),
		d:       d,
	}
}

func NewFourAryQueryHeap() *QueryHeap {
	return NewQueryHeap(4)
}

// Preallocate reserves room for maxSearchSize nodes.
func (h *QueryHeap) Preallocate(maxSearchSize int) {
	h.heap = make([]int, 0, maxSearchSize)
	h.entries = make([]heapEntry, 0, maxSearchSize)
	h.index = make(map[Index]int, maxSearchSize)
}

func (h *QueryHeap) Clear() {
	h.heap = h.heap[:0]
	h.entries = h.entries[:0]
	clear(h.index)
	h.settled = 0
	h.finalized = false
}

func (h *QueryHeap) State() HeapState {
	switch {
	case h.finalized:
		return HeapFinalized
	case h.settled == 0:
		return HeapUndrained
	case len(h.heap) > 0:
		return HeapDraining
	default:
		return HeapDrained
	}
}

func (h *QueryHeap) Size() int {
	return len(h.heap)
}

func (h *QueryHeap) Empty() bool {
	return len(h.heap) == 0
}

// InsertedCount. number of distinct nodes reached by the search.
func (h *QueryHeap) InsertedCount() int {
	return len(h.entries)
}

func (h *QueryHeap) Insert(node Index, key int32, parent Index) {
	util.AssertPanic(!h.finalized, "insert into a finalized heap")
	util.AssertPanic(!h.WasInserted(node), "node inserted twice into the same heap")

	id := len(h.entries)
	h.entries = append(h.entries, heapEntry{node: node, key: key, parent: parent, pos: len(h.heap)})
	h.index[node] = id
	h.heap = append(h.heap, id)
	h.heapifyUp(len(h.heap) - 1)
}

func (h *QueryHeap) WasInserted(node Index) bool {
	_, ok := h.index[node]
	return ok
}

// WasRemoved. node was settled (or dropped by DeleteAll).
func (h *QueryHeap) WasRemoved(node Index) bool {
	id, ok := h.index[node]
	return ok && h.entries[id].pos == removedPos
}

func (h *QueryHeap) GetKey(node Index) int32 {
	return h.entries[h.mustEntry(node)].key
}

func (h *QueryHeap) GetParent(node Index) Index {
	return h.entries[h.mustEntry(node)].parent
}

func (h *QueryHeap) MinKey() int32 {
	util.AssertPanic(len(h.heap) > 0, "min key of an empty heap")
	return h.entries[h.heap[0]].key
}

func (h *QueryHeap) MinNode() Index {
	util.AssertPanic(len(h.heap) > 0, "min node of an empty heap")
	return h.entries[h.heap[0]].node
}

// DeleteMin settles and returns the node with the smallest key.
func (h *QueryHeap) DeleteMin() Index {
	util.AssertPanic(!h.finalized, "delete from a finalized heap")
	util.AssertPanic(len(h.heap) > 0, "delete from an empty heap")

	top := h.heap[0]
	last := len(h.heap) - 1
	h.swap(0, last)
	h.heap = h.heap[:last]
	h.entries[top].pos = removedPos
	if len(h.heap) > 0 {
		h.heapifyDown(0)
	}
	h.settled++
	return h.entries[top].node
}

// DeleteAll drops every unsettled node. their keys stay readable.
func (h *QueryHeap) DeleteAll() {
	util.AssertPanic(!h.finalized, "delete from a finalized heap")
	for _, id := range h.heap {
		h.entries[id].pos = removedPos
	}
	h.heap = h.heap[:0]
	h.settled++
}

func (h *QueryHeap) DecreaseKey(node Index, key int32, parent Index) {
	id := h.mustEntry(node)
	e := &h.entries[id]
	util.AssertPanic(e.pos != removedPos, "decrease key of a settled node")
	util.AssertPanic(key <= e.key, "decrease key with a larger key")
	e.key = key
	e.parent = parent
	h.heapifyUp(e.pos)
}

// Transform finalizes a drained heap. afterwards only lookups are allowed.
func (h *QueryHeap) Transform() {
	util.AssertPanic(len(h.heap) == 0, "transform of a heap that still has unsettled nodes")
	h.finalized = true
}

// ForInserted visits every node ever inserted, in insertion order.
func (h *QueryHeap) ForInserted(handle func(node Index, key int32)) {
	for i := range h.entries {
		handle(h.entries[i].node, h.entries[i].key)
	}
}

func (h *QueryHeap) mustEntry(node Index) int {
	id, ok := h.index[node]
	util.AssertPanic(ok, "node was never inserted into the heap")
	return id
}

func (h *QueryHeap) parent(i int) int {
	return (i - 1) / h.d
}

func (h *QueryHeap) less(i, j int) bool {
	a, b := h.entries[h.heap[i]], h.entries[h.heap[j]]
	if a.key != b.key {
		return a.key < b.key
	}
	// ties by node id keep settle order independent of insertion history
	return a.node < b.node
}

func (h *QueryHeap) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.entries[h.heap[i]].pos = i
	h.entries[h.heap[j]].pos = j
}

func (h *QueryHeap) heapifyUp(i int) {
	for i != 0 && h.less(i, h.parent(i)) {
		h.swap(i, h.parent(i))
		i = h.parent(i)
	}
}

func (h *QueryHeap) heapifyDown(i int) {
	for {
		leftMostChild := i*h.d + 1
		if leftMostChild >= len(h.heap) {
			return
		}
		sentinel := leftMostChild + h.d
		if sentinel > len(h.heap) {
			sentinel = len(h.heap)
		}

		smallest := leftMostChild
		for c := leftMostChild + 1; c < sentinel; c++ {
			if h.less(c, smallest) {
				smallest = c
			}
		}
		if !h.less(smallest, i) {
			return
		}
		h.swap(i, smallest)
		i = smallest
	}
}
