package waypoint

import (
	"cmp"
	"math"
	"slices"

	"github.com/milk9111/botnav/common"
)

const kdNone = -1

// kdNode is one entry of the tree arena. Every entry holds a store index and
// the bounding box of its whole subtree.
type kdNode struct {
	idx         int
	axis        int
	left, right int
	min, max    common.Vec3
}

// kdTree is rebuilt wholesale from the store; it is never patched in place.
type kdTree struct {
	arena []kdNode
	root  int
	items []int
}

func (t *kdTree) build(nodes []Node) {
	t.arena = t.arena[:0]
	t.items = t.items[:0]
	for i := 1; i < len(nodes); i++ {
		if nodes[i].valid {
			t.items = append(t.items, i)
		}
	}
	t.root = t.buildRange(nodes, t.items, 0)
}

func (t *kdTree) buildRange(nodes []Node, items []int, depth int) int {
	if len(items) == 0 {
		return kdNone
	}
	axis := depth % 3
	slices.SortFunc(items, func(a, b int) int {
		if c := cmp.Compare(nodes[a].Pos.Axis(axis), nodes[b].Pos.Axis(axis)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	lo := nodes[items[0]].Pos
	hi := lo
	for _, i := range items[1:] {
		p := nodes[i].Pos
		lo = common.V3(math.Min(lo.X, p.X), math.Min(lo.Y, p.Y), math.Min(lo.Z, p.Z))
		hi = common.V3(math.Max(hi.X, p.X), math.Max(hi.Y, p.Y), math.Max(hi.Z, p.Z))
	}

	mid := len(items) / 2
	id := len(t.arena)
	t.arena = append(t.arena, kdNode{idx: items[mid], axis: axis, min: lo, max: hi})
	left := t.buildRange(nodes, items[:mid], depth+1)
	right := t.buildRange(nodes, items[mid+1:], depth+1)
	t.arena[id].left = left
	t.arena[id].right = right
	return id
}

// boxDistSq is the squared distance from p to the box, 0 when inside.
func boxDistSq(lo, hi, p common.Vec3) float64 {
	d := 0.0
	for axis := 0; axis < 3; axis++ {
		v := p.Axis(axis)
		if mn := lo.Axis(axis); v < mn {
			d += (mn - v) * (mn - v)
		} else if mx := hi.Axis(axis); v > mx {
			d += (v - mx) * (v - mx)
		}
	}
	return d
}

// nearest returns the closest accepted node within sqrt(maxDistSq) of p.
// Equal distances resolve to the lower store index.
func (t *kdTree) nearest(nodes []Node, p common.Vec3, maxDistSq float64, accept func(int) bool) (int, float64) {
	best := 0
	bestDistSq := maxDistSq
	t.searchNearest(t.root, nodes, p, accept, &best, &bestDistSq)
	return best, bestDistSq
}

func (t *kdTree) searchNearest(id int, nodes []Node, p common.Vec3, accept func(int) bool, best *int, bestDistSq *float64) {
	if id == kdNone {
		return
	}
	n := &t.arena[id]
	if boxDistSq(n.min, n.max, p) > *bestDistSq {
		return
	}

	d := nodes[n.idx].Pos.DistSq(p)
	if d <= *bestDistSq && (accept == nil || accept(n.idx)) {
		if d < *bestDistSq || *best == 0 || n.idx < *best {
			*best = n.idx
			*bestDistSq = d
		}
	}

	near, far := n.left, n.right
	if p.Axis(n.axis) >= nodes[n.idx].Pos.Axis(n.axis) {
		near, far = far, near
	}
	t.searchNearest(near, nodes, p, accept, best, bestDistSq)
	t.searchNearest(far, nodes, p, accept, best, bestDistSq)
}

// within collects every node within sqrt(maxDistSq) of p, nearest first.
func (t *kdTree) within(nodes []Node, p common.Vec3, maxDistSq float64) []int {
	var out []int
	stack := []int{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == kdNone {
			continue
		}
		n := &t.arena[id]
		if boxDistSq(n.min, n.max, p) > maxDistSq {
			continue
		}
		if nodes[n.idx].Pos.DistSq(p) <= maxDistSq {
			out = append(out, n.idx)
		}
		stack = append(stack, n.left, n.right)
	}
	slices.SortFunc(out, func(a, b int) int {
		if c := cmp.Compare(nodes[a].Pos.DistSq(p), nodes[b].Pos.DistSq(p)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return out
}
