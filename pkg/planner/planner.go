// Package planner computes the cheapest sequence of artifact edges that
// upgrades an application from its running version to a target version.
package planner

import (
	"container/heap"

	"github.com/ajxudir/esky/pkg/app"
	"github.com/ajxudir/esky/pkg/config"
	"github.com/ajxudir/esky/pkg/errors"
	"github.com/ajxudir/esky/pkg/graph"
	"github.com/ajxudir/esky/pkg/summary"
	"github.com/ajxudir/esky/pkg/verbose"
	"github.com/ajxudir/esky/pkg/version"
)

// PlannedPath is an ordered sequence of artifact edges to fetch and
// apply, in order, to move from the source version to the target
// version. An empty path means the source and target are already the
// same version - nothing to fetch or prepare.
type PlannedPath []*summary.KnownFile

// Plan runs a target-pruned Dijkstra search over g from source to
// target, using each edge's GetCost as its weight, and returns the
// cheapest path found.
//
// Edges whose produced version is greater than target are pruned from
// consideration, since following them can never lead back down to
// target (the graph contains no downgrade edges in the first place, so
// this only discards detours strictly past the destination). The search
// terminates as soon as target is popped off the frontier rather than
// running to exhaustion.
//
// If source equals target, Plan returns an empty path: the caller is
// already at the requested version, and the preparer interprets an
// empty path as "nothing to do".
func Plan(g *graph.Graph, a *app.App, cfg *config.Config, source, target version.Version) (PlannedPath, error) {
	if source.Equal(target) {
		return nil, nil
	}

	sourceKey := source.String()
	targetKey := target.String()

	dist := map[string]int64{sourceKey: 0}
	prevEdge := map[string]*summary.KnownFile{}
	prevNode := map[string]version.Version{}
	finalized := map[string]bool{}

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &pqItem{v: source, cost: 0})

	reached := false
	for pq.Len() > 0 {
		item := heap.Pop(pq).(*pqItem)
		key := item.v.String()

		if finalized[key] {
			continue
		}
		if currentBest, ok := dist[key]; !ok || item.cost != currentBest {
			// Stale entry from an earlier, since-improved relaxation;
			// the queue does lazy deletion instead of a decrease-key.
			continue
		}
		finalized[key] = true

		if key == targetKey {
			reached = true
			break
		}

		for _, edge := range g.Edges(item.v) {
			if cmp, err := edge.Version.Compare(target); err == nil && cmp > 0 {
				continue
			}

			if finalized[edge.Version.String()] {
				continue
			}

			edgeCost := edge.GetCost(a, cfg)
			newCost := dist[key] + edgeCost
			tk := edge.Version.String()

			if existing, ok := dist[tk]; ok && newCost >= existing {
				continue
			}

			dist[tk] = newCost
			prevEdge[tk] = edge
			prevNode[tk] = item.v
			heap.Push(pq, &pqItem{v: edge.Version, cost: newCost})
		}
	}

	if !reached {
		return nil, errors.NewNoPathError(source.String(), target.String())
	}

	var path PlannedPath
	cur := targetKey
	for cur != sourceKey {
		edge, ok := prevEdge[cur]
		if !ok {
			return nil, errors.NewNoPathError(source.String(), target.String())
		}
		path = append(path, edge)
		cur = prevNode[cur].String()
	}
	reversePath(path)

	totalCost := dist[targetKey]
	verbose.PlanComputed(source.String(), target.String(), len(path), totalCost)
	return path, nil
}

func reversePath(path PlannedPath) {
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
}

// pqItem is one entry on the planner's priority queue: a candidate node
// and the cost to reach it along the path that produced this entry.
type pqItem struct {
	v     version.Version
	cost  int64
	index int
}

// priorityQueue is a container/heap min-heap over pqItem.cost. Stale
// entries (superseded by a cheaper relaxation, or already finalized) are
// discarded lazily at pop time rather than located and updated in place,
// per the spec's recommendation to prefer a real heap with lazy deletion
// over a sorted-list insert.
type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool { return pq[i].cost < pq[j].cost }
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}
