package preprocessor

import (
	da "github.com/lintang-b-s/navigatorx-matrix/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/util"
	"go.uber.org/zap"
)

const (
	witnessSettledLimit = 500
	logContractedEvery  = 100000
)

type chEdge struct {
	other  da.Index
	weight int32
	middle da.Index
}

// Contractor builds a contraction hierarchy over a directed edge-based graph.
type Contractor struct {
	numberOfNodes int
	out           [][]chEdge
	in            [][]chEdge
	contracted    []bool
	deletedNbrs   []int
	queryEdges    []da.InputEdge
	witnessHeap   *da.QueryHeap
	shortcuts     int
	logger        *zap.Logger
}

func NewContractor(numberOfNodes int, edges []da.InputEdge, logger *zap.Logger) *Contractor {
	c := &Contractor{
		numberOfNodes: numberOfNodes,
		out:           make([][]chEdge, numberOfNodes),
		in:            make([][]chEdge, numberOfNodes),
		contracted:    make([]bool, numberOfNodes),
		deletedNbrs:   make([]int, numberOfNodes),
		queryEdges:    make([]da.InputEdge, 0, 2*len(edges)),
		witnessHeap:   da.NewFourAryQueryHeap(),
		logger:        logger,
	}
	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}
		c.addEdge(e.Source, e.Target, e.Weight, da.INVALID_NODE_ID)
	}
	return c
}

// addEdge inserts u->v or lowers the weight of an existing parallel edge.
func (c *Contractor) addEdge(u, v da.Index, weight int32, middle da.Index) bool {
	for i := range c.out[u] {
		if c.out[u][i].other != v {
			continue
		}
		if c.out[u][i].weight <= weight {
			return false
		}
		c.out[u][i].weight = weight
		c.out[u][i].middle = middle
		for j := range c.in[v] {
			if c.in[v][j].other == u {
				c.in[v][j].weight = weight
				c.in[v][j].middle = middle
			}
		}
		return true
	}
	c.out[u] = append(c.out[u], chEdge{other: v, weight: weight, middle: middle})
	c.in[v] = append(c.in[v], chEdge{other: u, weight: weight, middle: middle})
	return true
}

// Contract runs the whole node ordering and returns the query edges, each stored
// at its lower ranked endpoint.
func (c *Contractor) Contract() []da.InputEdge {
	c.logger.Info("started contracting graph", zap.Int("nodes", c.numberOfNodes))

	pq := da.NewFourAryHeap[da.Index]()
	pq.Preallocate(c.numberOfNodes)
	for v := 0; v < c.numberOfNodes; v++ {
		pq.Insert(da.NewPriorityQueueNode(c.priority(da.Index(v)), da.Index(v)))
	}

	count := 0
	for !pq.IsEmpty() {
		item, _ := pq.ExtractMin()
		v := item.GetItem()

		// lazy update
		if p := c.priority(v); p > pq.GetMinRank() {
			pq.Insert(da.NewPriorityQueueNode(p, v))
			continue
		}

		c.contractNode(v)
		count++
		if count%logContractedEvery == 0 {
			c.logger.Sugar().Infof("contracted nodes: %d/%d...", count, c.numberOfNodes)
		}
	}

	c.logger.Info("finished contracting graph",
		zap.Int("shortcuts", c.shortcuts),
		zap.Int("query_edges", len(c.queryEdges)))
	return c.queryEdges
}

// priority. edge difference plus deleted neighbours.
func (c *Contractor) priority(v da.Index) float64 {
	shortcuts := c.simulate(v)
	degree := len(c.in[v]) + len(c.out[v])
	return float64(2*shortcuts-degree) + float64(c.deletedNbrs[v])
}

func (c *Contractor) simulate(v da.Index) int {
	count := 0
	c.forNeededShortcuts(v, func(u, x da.Index, weight int32) {
		count++
	})
	return count
}

// forNeededShortcuts calls handle for every pair u->v->x without a witness path avoiding v.
func (c *Contractor) forNeededShortcuts(v da.Index, handle func(u, x da.Index, weight int32)) {
	for _, in := range c.in[v] {
		u := in.other
		maxWeight := int32(0)
		for _, out := range c.out[v] {
			if out.other != u {
				maxWeight = util.Max(maxWeight, in.weight+out.weight)
			}
		}
		if maxWeight == 0 {
			continue
		}

		c.witnessSearch(u, v, maxWeight)
		for _, out := range c.out[v] {
			x := out.other
			if x == u {
				continue
			}
			viaWeight := in.weight + out.weight
			if c.witnessHeap.WasInserted(x) && c.witnessHeap.GetKey(x) <= viaWeight {
				continue
			}
			handle(u, x, viaWeight)
		}
	}
}

// witnessSearch. dijkstra from source over uncontracted nodes except avoid,
// bounded by maxWeight and witnessSettledLimit.
func (c *Contractor) witnessSearch(source, avoid da.Index, maxWeight int32) {
	h := c.witnessHeap
	h.Clear()
	h.Insert(source, 0, source)

	settled := 0
	for !h.Empty() {
		if h.MinKey() > maxWeight || settled >= witnessSettledLimit {
			h.DeleteAll()
			return
		}
		u := h.DeleteMin()
		settled++
		key := h.GetKey(u)

		for _, e := range c.out[u] {
			if e.other == avoid {
				continue
			}
			newKey := key + e.weight
			if !h.WasInserted(e.other) {
				h.Insert(e.other, newKey, u)
			} else if !h.WasRemoved(e.other) && newKey < h.GetKey(e.other) {
				h.DecreaseKey(e.other, newKey, u)
			}
		}
	}
}

func (c *Contractor) contractNode(v da.Index) {
	type shortcut struct {
		u, x   da.Index
		weight int32
	}
	shortcuts := make([]shortcut, 0)
	c.forNeededShortcuts(v, func(u, x da.Index, weight int32) {
		shortcuts = append(shortcuts, shortcut{u: u, x: x, weight: weight})
	})

	// remaining edges of v all lead to higher ranked nodes
	for _, e := range c.out[v] {
		c.queryEdges = append(c.queryEdges, c.queryEdge(v, e, true))
		c.removeIn(e.other, v)
		c.deletedNbrs[e.other]++
	}
	for _, e := range c.in[v] {
		c.queryEdges = append(c.queryEdges, c.queryEdge(v, e, false))
		c.removeOut(e.other, v)
		c.deletedNbrs[e.other]++
	}
	c.out[v] = nil
	c.in[v] = nil
	c.contracted[v] = true

	for _, s := range shortcuts {
		if c.addEdge(s.u, s.x, s.weight, v) {
			c.shortcuts++
		}
	}
}

func (c *Contractor) queryEdge(v da.Index, e chEdge, forward bool) da.InputEdge {
	if e.middle == da.INVALID_NODE_ID {
		return da.NewInputEdge(v, e.other, e.weight, forward, !forward)
	}
	return da.NewShortcutEdge(v, e.other, e.weight, forward, !forward, e.middle)
}

func (c *Contractor) removeOut(u, v da.Index) {
	c.out[u] = removeEdge(c.out[u], v)
}

func (c *Contractor) removeIn(u, v da.Index) {
	c.in[u] = removeEdge(c.in[u], v)
}

func removeEdge(edges []chEdge, other da.Index) []chEdge {
	for i := range edges {
		if edges[i].other == other {
			edges[i] = edges[len(edges)-1]
			return edges[:len(edges)-1]
		}
	}
	return edges
}
