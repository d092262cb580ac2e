package routing

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lintang-b-s/navigatorx-matrix/pkg"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/concurrent"
	da "github.com/lintang-b-s/navigatorx-matrix/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/util"
	"go.uber.org/zap"
)

type pass int

const (
	// reverse searches start at the destination's own node
	passOne pass = iota
	// reverse searches start at the destination's companion node
	passTwo
)

// MatrixRouting computes many to many travel times with one forward search per origin
// and one reverse search per destination in each of the two passes.
type MatrixRouting struct {
	primitive     SearchPrimitive
	pool          *HeapPool
	stallOnDemand bool
	workers       int
	logger        *zap.Logger
}

func NewMatrixRouting(primitive SearchPrimitive, pool *HeapPool, stallOnDemand bool, workers int,
	logger *zap.Logger) *MatrixRouting {
	return &MatrixRouting{
		primitive:     primitive,
		pool:          pool,
		stallOnDemand: stallOnDemand,
		workers:       workers,
		logger:        logger,
	}
}

// ComputeMatrix. len(origins) x len(destinations) matrix. unresolved points give
// sentinel cells; only heap exhaustion fails the whole call.
func (mr *MatrixRouting) ComputeMatrix(origins, destinations []da.PhantomNode) (*Matrix, error) {
	start := time.Now()

	first, err := mr.runPass(passOne, origins, destinations)
	if err != nil {
		return nil, err
	}
	second, err := mr.runPass(passTwo, origins, destinations)
	if err != nil {
		return nil, err
	}

	result := mergeMatrices(first, second, mr.logger)
	result.stats = SearchStats{
		ForwardSearches: [2]int{first.stats.ForwardSearches[passOne], second.stats.ForwardSearches[passTwo]},
		ReverseDrains:   [2]int{first.stats.ReverseDrains[passOne], second.stats.ReverseDrains[passTwo]},
	}
	result.Seal()

	mr.logger.Debug("matrix computed",
		zap.Int("rows", result.Rows()),
		zap.Int("cols", result.Cols()),
		zap.Ints("forward_searches", result.stats.ForwardSearches[:]),
		zap.Ints("reverse_drains", result.stats.ReverseDrains[:]),
		zap.Duration("took", time.Since(start)))
	return result, nil
}

type passRun struct {
	mr           *MatrixRouting
	p            pass
	origins      []da.PhantomNode
	destinations []da.PhantomNode
	heaps        *HeapSet
	drainOnce    []sync.Once
	out          *Matrix

	forwardSearches atomic.Int64
	reverseDrains   atomic.Int64
}

func (mr *MatrixRouting) runPass(p pass, origins, destinations []da.PhantomNode) (*Matrix, error) {
	heaps, err := mr.pool.Acquire(len(destinations), mr.forwardHeaps(len(origins)))
	if err != nil {
		return nil, err
	}
	defer heaps.ReleaseAll()

	run := &passRun{
		mr:           mr,
		p:            p,
		origins:      origins,
		destinations: destinations,
		heaps:        heaps,
		drainOnce:    make([]sync.Once, len(destinations)),
		out:          NewMatrix(len(origins), len(destinations)),
	}
	run.seedReverse()

	if mr.parallel(len(origins)) {
		run.parallelRows(mr.workers)
	} else {
		fh := heaps.AcquireForward()
		for i := range origins {
			run.row(i, fh)
		}
		heaps.ReleaseForward(fh)
	}

	run.out.stats.ForwardSearches[p] = int(run.forwardSearches.Load())
	run.out.stats.ReverseDrains[p] = int(run.reverseDrains.Load())
	return run.out, nil
}

func (mr *MatrixRouting) parallel(origins int) bool {
	return mr.workers > 1 && origins > 1
}

// forwardHeaps. forward searches that may run at the same time, one per row worker.
func (mr *MatrixRouting) forwardHeaps(origins int) int {
	if mr.parallel(origins) {
		return min(mr.workers, origins)
	}
	return 1
}

// seedReverse puts every resolved destination on its reverse heap without draining it.
func (r *passRun) seedReverse() {
	for j, dest := range r.destinations {
		if !dest.IsResolved() {
			continue
		}
		rh := r.heaps.Reverse(j)
		r.heaps.Clear(rh)
		switch r.p {
		case passOne:
			node := dest.GetSearchNode()
			rh.Insert(node, dest.GetWeightForward(), node)
		case passTwo:
			if dest.IsBidirected() {
				companion := dest.GetCompanionNode()
				rh.Insert(companion, dest.GetWeightReverse(), companion)
			}
		}
	}
}

func (r *passRun) parallelRows(workers int) {
	wp := concurrent.NewWorkerPool[int, int](min(workers, len(r.origins)), len(r.origins))
	wp.Start(func(i int) int {
		fh := r.heaps.AcquireForward()
		defer r.heaps.ReleaseForward(fh)
		r.row(i, fh)
		return i
	})
	for i := range r.origins {
		wp.AddJob(i)
	}
	wp.Close()
	wp.Wait()
}

// row fills row i: one forward search, then a match against every destination.
func (r *passRun) row(i int, fh *da.QueryHeap) {
	origin := r.origins[i]
	if !origin.IsResolved() {
		r.out.setRow(i, OriginInvalidCell())
		return
	}

	r.heaps.Clear(fh)
	seedForward(fh, origin)
	r.drain(fh, origin.GetOffset(), true)
	r.forwardSearches.Add(1)

	for j, dest := range r.destinations {
		if !dest.IsResolved() {
			r.out.Set(i, j, DestInvalidCell())
			continue
		}

		rh := r.heaps.Reverse(j)
		r.drainOnce[j].Do(func() {
			r.drain(rh, dest.GetOffset(), false)
			r.reverseDrains.Add(1)
		})
		util.AssertPanic(rh.State() == da.HeapFinalized, "reverse heap matched before it was drained")

		middle := da.INVALID_NODE_ID
		upperBound := pkg.INF_WEIGHT
		if distance, ok := r.mr.primitive.Match(fh, rh, &middle, &upperBound); ok {
			r.out.Set(i, j, DistanceCell(distance))
		} else {
			r.out.Set(i, j, NoPathCell())
		}
	}
}

// drain runs a one sided search to exhaustion and finalizes the heap.
func (r *passRun) drain(h *da.QueryHeap, offset int32, forward bool) {
	empty := r.heaps.Empty()
	middle := da.INVALID_NODE_ID
	upperBound := pkg.INF_WEIGHT
	for h.Size() > 0 {
		r.mr.primitive.RoutingStep(h, empty, &middle, &upperBound, offset, forward, r.mr.stallOnDemand)
	}
	h.Transform()
}
