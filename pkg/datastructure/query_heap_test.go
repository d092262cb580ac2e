package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryHeapDeleteMinOrder(t *testing.T) {
	testCases := []struct {
		name  string
		d     int
		keys  map[Index]int32
		order []Index
	}{
		{
			name:  "binary heap",
			d:     2,
			keys:  map[Index]int32{0: 50, 1: 10, 2: 30, 3: 20, 4: 40},
			order: []Index{1, 3, 2, 4, 0},
		},
		{
			name:  "four ary heap with ties",
			d:     4,
			keys:  map[Index]int32{7: 5, 3: 5, 9: -2, 1: 8, 2: 0, 5: 5},
			order: []Index{9, 2, 3, 5, 7, 1},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			h := NewQueryHeap(tt.d)
			for node := Index(0); node < 10; node++ {
				if key, ok := tt.keys[node]; ok {
					h.Insert(node, key, node)
				}
			}

			got := make([]Index, 0, len(tt.order))
			for !h.Empty() {
				got = append(got, h.DeleteMin())
			}
			assert.Equal(t, tt.order, got)
		})
	}
}

func TestQueryHeapDecreaseKey(t *testing.T) {
	h := NewFourAryQueryHeap()
	h.Insert(1, 100, INVALID_NODE_ID)
	h.Insert(2, 50, INVALID_NODE_ID)
	h.Insert(3, 70, INVALID_NODE_ID)

	h.DecreaseKey(1, 10, 3)

	assert.Equal(t, Index(1), h.MinNode())
	assert.Equal(t, int32(10), h.MinKey())
	assert.Equal(t, Index(3), h.GetParent(1))

	assert.Panics(t, func() { h.DecreaseKey(2, 60, 1) })
}

func TestQueryHeapStateTransitions(t *testing.T) {
	h := NewQueryHeap(2)
	assert.Equal(t, HeapUndrained, h.State())

	h.Insert(4, 0, 4)
	h.Insert(5, 3, 4)
	assert.Equal(t, HeapUndrained, h.State())

	h.DeleteMin()
	assert.Equal(t, HeapDraining, h.State())
	assert.True(t, h.WasRemoved(4))
	assert.False(t, h.WasRemoved(5))

	h.DeleteMin()
	assert.Equal(t, HeapDrained, h.State())

	h.Transform()
	assert.Equal(t, HeapFinalized, h.State())

	// keys survive finalization
	assert.Equal(t, int32(3), h.GetKey(5))
	assert.Equal(t, 2, h.InsertedCount())

	assert.Panics(t, func() { h.Insert(6, 1, 5) })

	h.Clear()
	assert.Equal(t, HeapUndrained, h.State())
	assert.False(t, h.WasInserted(4))
	assert.Equal(t, 0, h.InsertedCount())
}

func TestQueryHeapTransformRequiresEmpty(t *testing.T) {
	h := NewQueryHeap(2)
	h.Insert(1, 1, 1)
	assert.Panics(t, func() { h.Transform() })

	h.DeleteAll()
	assert.Equal(t, HeapDrained, h.State())
	assert.True(t, h.WasRemoved(1))
	require.NotPanics(t, func() { h.Transform() })
}

func TestQueryHeapDoubleInsertPanics(t *testing.T) {
	h := NewQueryHeap(2)
	h.Insert(1, 1, 1)
	assert.Panics(t, func() { h.Insert(1, 0, 1) })
}

func TestQueryHeapForInserted(t *testing.T) {
	h := NewQueryHeap(2)
	h.Insert(8, 4, 8)
	h.Insert(2, 1, 8)
	h.Insert(6, 9, 2)
	h.DeleteMin()

	got := map[Index]int32{}
	h.ForInserted(func(node Index, key int32) {
		got[node] = key
	})
	assert.Equal(t, map[Index]int32{8: 4, 2: 1, 6: 9}, got)
}
