package routing

const (
	HEAP_PREALLOCATE = 1024 // initial capacity of pooled query heaps
)
