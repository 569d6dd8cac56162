package waypoint

import (
	"math"
	"math/rand/v2"

	"github.com/milk9111/botnav/common"
)

// Store owns the waypoint graph. Index 0 is a permanent sentinel that is never
// valid, so 0 doubles as "no node" throughout the package.
//
// The store is not safe for concurrent use; it is meant to be driven from a
// single simulation step.
type Store struct {
	nodes         []Node
	oracle        Oracle
	rng           *rand.Rand
	defaultRadius float64

	dirty bool
	index kdTree

	header Header
}

type Option func(*Store)

// WithRand sets the random source used to evict links from full nodes.
func WithRand(r *rand.Rand) Option {
	return func(s *Store) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithLinkRadius sets the default auto-link radius.
func WithLinkRadius(radius float64) Option {
	return func(s *Store) {
		if radius > 0 && common.Finite(radius) {
			s.defaultRadius = radius
		}
	}
}

// NewStore creates an empty store. A nil oracle is replaced by OpenOracle.
func NewStore(oracle Oracle, opts ...Option) *Store {
	if oracle == nil {
		oracle = OpenOracle{}
	}
	s := &Store{
		nodes:         make([]Node, 1, 64),
		oracle:        oracle,
		rng:           rand.New(rand.NewPCG(1, 1)),
		defaultRadius: DefaultLinkRadius,
		dirty:         true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reset drops every node except the sentinel and forgets the file header.
func (s *Store) Reset() {
	s.nodes = s.nodes[:1]
	s.nodes[0] = Node{}
	s.header = Header{}
	s.dirty = true
}

func (s *Store) Oracle() Oracle {
	return s.oracle
}

func (s *Store) DefaultRadius() float64 {
	return s.defaultRadius
}

// Len returns the number of slots including the sentinel.
func (s *Store) Len() int {
	return len(s.nodes)
}

// ValidCount returns the number of valid nodes.
func (s *Store) ValidCount() int {
	n := 0
	for i := 1; i < len(s.nodes); i++ {
		if s.nodes[i].valid {
			n++
		}
	}
	return n
}

func (s *Store) inRange(i int) bool {
	return i > 0 && i < len(s.nodes)
}

func (s *Store) Valid(i int) bool {
	return s.inRange(i) && s.nodes[i].valid
}

// Node returns a copy of node i.
func (s *Store) Node(i int) (Node, bool) {
	if !s.inRange(i) {
		return Node{}, false
	}
	return s.nodes[i], true
}

func (s *Store) Pos(i int) (common.Vec3, bool) {
	if !s.inRange(i) {
		return common.Vec3{}, false
	}
	return s.nodes[i].Pos, true
}

func (s *Store) Links(i int) []int {
	if !s.inRange(i) {
		return nil
	}
	return s.nodes[i].Links()
}

func (s *Store) sanitizeRadius(radius float64) float64 {
	if radius <= 0 || !common.Finite(radius) {
		return s.defaultRadius
	}
	return radius
}

// Add appends a node and returns its index, or 0 when pos is not finite. A
// radius <= 0 selects the default. With linkToNearest the node is linked to
// the nearest other valid node within its radius.
func (s *Store) Add(pos common.Vec3, typ Type, subtype int, linkToNearest, bidirectional bool, radius float64) int {
	if !pos.Finite() {
		return 0
	}
	s.nodes = append(s.nodes, Node{
		Pos:     pos,
		Type:    typ,
		Subtype: subtype,
		Radius:  s.sanitizeRadius(radius),
		valid:   true,
	})
	s.dirty = true
	idx := len(s.nodes) - 1
	nodesAdded.WithLabelValues(typ.String()).Inc()

	if linkToNearest {
		s.LinkToNearest(idx, bidirectional)
	}
	return idx
}

// Link adds a directed edge from -> to and reports whether the edge exists
// afterwards. Self links and invalid endpoints are rejected. When the source
// is already full a uniformly random slot is overwritten.
func (s *Store) Link(from, to int) bool {
	if from == to || !s.Valid(from) || !s.Valid(to) {
		return false
	}
	n := &s.nodes[from]
	if n.HasLink(to) {
		return true
	}
	if n.appendLink(to) {
		return true
	}
	n.links[s.rng.IntN(MaxLinks)] = to
	linkEvictions.Inc()
	return true
}

// Unlink removes the edge from -> to.
func (s *Store) Unlink(from, to int) bool {
	if !s.inRange(from) {
		return false
	}
	n := &s.nodes[from]
	for slot := 0; slot < n.count; slot++ {
		if n.links[slot] == to {
			n.removeLinkAt(slot)
			return true
		}
	}
	return false
}

// UnlinkAll clears node i's outgoing links and every link pointing at it.
func (s *Store) UnlinkAll(i int) int {
	if !s.inRange(i) {
		return 0
	}
	removed := s.nodes[i].count
	s.nodes[i].links = [MaxLinks]int{}
	s.nodes[i].count = 0
	for j := 1; j < len(s.nodes); j++ {
		if s.Unlink(j, i) {
			removed++
		}
	}
	return removed
}

// LinkIfClear links from -> to only when the oracle sees a clear segment.
func (s *Store) LinkIfClear(from, to int) bool {
	if from == to || !s.Valid(from) || !s.Valid(to) {
		return false
	}
	if !s.oracle.HasLineOfSight(s.nodes[from].Pos, s.nodes[to].Pos) {
		return false
	}
	return s.Link(from, to)
}

// LinkToNearest links i to the nearest other valid node within i's radius,
// in both directions when bidirectional is set.
func (s *Store) LinkToNearest(i int, bidirectional bool) bool {
	if !s.Valid(i) {
		return false
	}
	n := s.nodes[i]
	j, ok := s.Nearest(n.Pos, n.Radius, i)
	if !ok {
		return false
	}
	linked := s.LinkIfClear(i, j)
	if bidirectional {
		back := s.LinkIfClear(j, i)
		linked = linked && back
	}
	return linked
}

// LinkWithinRadius links i to every visible node within its radius, nearest
// first, until i is full. It returns the number of neighbours linked.
func (s *Store) LinkWithinRadius(i int, bidirectional bool) int {
	if !s.Valid(i) {
		return 0
	}
	n := s.nodes[i]
	linked := 0
	for _, j := range s.Within(n.Pos, n.Radius) {
		if j == i {
			continue
		}
		if s.nodes[i].count >= MaxLinks {
			break
		}
		if !s.LinkIfClear(i, j) {
			continue
		}
		if bidirectional {
			s.LinkIfClear(j, i)
		}
		linked++
	}
	return linked
}

func (s *Store) SetType(i int, typ Type) bool {
	if !s.inRange(i) {
		return false
	}
	s.nodes[i].Type = typ
	return true
}

func (s *Store) SetSubtype(i, subtype int) bool {
	if !s.inRange(i) {
		return false
	}
	s.nodes[i].Subtype = subtype
	return true
}

// SetRadius sets i's auto-link radius; invalid values reset to the default.
func (s *Store) SetRadius(i int, radius float64) bool {
	if !s.inRange(i) {
		return false
	}
	s.nodes[i].Radius = s.sanitizeRadius(radius)
	return true
}

func (s *Store) SetPosition(i int, pos common.Vec3) bool {
	if !s.inRange(i) || !pos.Finite() {
		return false
	}
	s.nodes[i].Pos = pos
	s.dirty = true
	return true
}

// Invalidate soft-deletes node i. Links pointing at it are left dangling
// until the next SanitizeLinks or Remap.
func (s *Store) Invalidate(i int) bool {
	if !s.Valid(i) {
		return false
	}
	s.nodes[i].valid = false
	s.dirty = true
	return true
}

// Nearest returns the closest valid node to p within radius, skipping exclude.
func (s *Store) Nearest(p common.Vec3, radius float64, exclude int) (int, bool) {
	return s.NearestMatching(p, radius, func(i int) bool { return i != exclude })
}

// NearestMatching returns the closest valid node to p within radius for which
// match returns true. A nil match accepts everything.
func (s *Store) NearestMatching(p common.Vec3, radius float64, match func(i int) bool) (int, bool) {
	if radius <= 0 || math.IsNaN(radius) || !p.Finite() {
		return 0, false
	}
	s.ensureIndex()
	best, _ := s.index.nearest(s.nodes, p, radius*radius, match)
	if best <= 0 {
		return 0, false
	}
	return best, true
}

// MaxRadius returns the largest auto-link radius among valid nodes of typ,
// or 0 when there are none.
func (s *Store) MaxRadius(typ Type) float64 {
	best := 0.0
	for i := 1; i < len(s.nodes); i++ {
		n := &s.nodes[i]
		if n.valid && n.Type == typ && n.Radius > best {
			best = n.Radius
		}
	}
	return best
}

// Within returns every valid node within radius of p, nearest first.
func (s *Store) Within(p common.Vec3, radius float64) []int {
	if radius <= 0 || math.IsNaN(radius) || !p.Finite() {
		return nil
	}
	s.ensureIndex()
	return s.index.within(s.nodes, p, radius*radius)
}

func (s *Store) ensureIndex() {
	if !s.dirty {
		return
	}
	s.index.build(s.nodes)
	s.dirty = false
	indexRebuilds.Inc()
}
