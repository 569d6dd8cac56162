package waypoint

import (
	"container/heap"
	"math"
)

// Pathfinder runs A* over a store's links. Scratch state lives on the store's
// nodes, so a store must not be searched by two pathfinders at once.
type Pathfinder struct {
	store *Store
	open  openSet
}

func NewPathfinder(s *Store) *Pathfinder {
	return &Pathfinder{store: s}
}

// Search returns the cheapest path from -> to, both ends included. Nodes in
// avoid are treated as impassable for this call only; the endpoints
// themselves are never avoided. Equal-priority frontier entries are expanded
// lowest node index first.
func (pf *Pathfinder) Search(from, to int, avoid map[int]struct{}) ([]int, bool) {
	if pf == nil || pf.store == nil {
		return nil, false
	}
	s := pf.store
	if !s.Valid(from) || !s.Valid(to) {
		searches.WithLabelValues("invalid").Inc()
		return nil, false
	}
	if from == to {
		searches.WithLabelValues("trivial").Inc()
		return []int{from}, true
	}

	for i := range s.nodes {
		s.nodes[i].cost = math.Inf(1)
		s.nodes[i].estimate = math.Inf(1)
		s.nodes[i].prev = 0
	}

	goal := s.nodes[to].Pos
	start := &s.nodes[from]
	start.cost = 0
	start.estimate = start.Pos.Dist(goal)

	pf.open = pf.open[:0]
	heap.Push(&pf.open, openItem{node: from, f: start.estimate, g: 0})

	expanded := 0
	for pf.open.Len() > 0 {
		cur := heap.Pop(&pf.open).(openItem)
		n := &s.nodes[cur.node]
		if cur.g > n.cost {
			continue
		}
		expanded++
		if cur.node == to {
			searchExpanded.Observe(float64(expanded))
			searches.WithLabelValues("found").Inc()
			return pf.reconstruct(from, to), true
		}

		for slot := 0; slot < n.count; slot++ {
			next := n.links[slot]
			if !s.Valid(next) {
				continue
			}
			if _, skip := avoid[next]; skip && next != to {
				continue
			}
			m := &s.nodes[next]
			g := n.cost + n.Pos.Dist(m.Pos)
			if g >= m.cost {
				continue
			}
			m.cost = g
			m.estimate = g + m.Pos.Dist(goal)
			m.prev = cur.node
			heap.Push(&pf.open, openItem{node: next, f: m.estimate, g: g})
		}
	}

	searchExpanded.Observe(float64(expanded))
	searches.WithLabelValues("failed").Inc()
	return nil, false
}

func (pf *Pathfinder) reconstruct(from, to int) []int {
	s := pf.store
	path := make([]int, 0, 16)
	for cur := to; cur != 0; cur = s.nodes[cur].prev {
		path = append(path, cur)
		if cur == from {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathLength sums the Euclidean length of path. Unknown indices yield +Inf.
func (s *Store) PathLength(path []int) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		a, okA := s.Pos(path[i-1])
		b, okB := s.Pos(path[i])
		if !okA || !okB {
			return math.Inf(1)
		}
		total += a.Dist(b)
	}
	return total
}

type openItem struct {
	node int
	f    float64
	g    float64
}

type openSet []openItem

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	return o[i].node < o[j].node
}
func (o openSet) Swap(i, j int) { o[i], o[j] = o[j], o[i] }
func (o *openSet) Push(x any) {
	*o = append(*o, x.(openItem))
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	*o = old[:n-1]
	return item
}
