package waypoint

import "github.com/milk9111/botnav/common"

// CleanReport summarizes one Clean pass.
type CleanReport struct {
	Invalidated int
	Removed     int
	Pruned      int
}

// SanitizeLinks drops links that point at invalid nodes, at the node itself,
// repeat an earlier link, or no longer have line of sight. Jump pad to
// landing links are arcs and skip the line of sight test. It returns the
// number of links removed.
func (s *Store) SanitizeLinks() int {
	pruned := 0
	for i := 1; i < len(s.nodes); i++ {
		n := &s.nodes[i]
		if !n.valid {
			continue
		}
		var kept [MaxLinks]int
		count := 0
		for slot := 0; slot < n.count; slot++ {
			to := n.links[slot]
			if to == i || !s.Valid(to) || containsLink(kept[:count], to) ||
				!s.traversable(n, &s.nodes[to]) {
				pruned++
				continue
			}
			kept[count] = to
			count++
		}
		n.links = kept
		n.count = count
	}
	linksPruned.Add(float64(pruned))
	return pruned
}

func (s *Store) traversable(from, to *Node) bool {
	if from.Type == TypeJumpPad && to.Type == TypeJumpPadLanding {
		return true
	}
	return s.oracle.HasLineOfSight(from.Pos, to.Pos)
}

func containsLink(links []int, to int) bool {
	for _, l := range links {
		if l == to {
			return true
		}
	}
	return false
}

// MarkInvalid invalidates every node whose short downward probe touches
// liquid. It returns the number of nodes invalidated.
func (s *Store) MarkInvalid() int {
	marked := 0
	down := common.V3(0, -LiquidProbeDepth, 0)
	for i := 1; i < len(s.nodes); i++ {
		n := &s.nodes[i]
		if !n.valid {
			continue
		}
		if s.oracle.HitsLiquid(n.Pos, n.Pos.Add(down)) {
			n.valid = false
			marked++
		}
	}
	if marked > 0 {
		s.dirty = true
	}
	return marked
}

// compactTable maps every slot to its index after dropping invalid nodes.
// Dropped slots and the sentinel map to 0.
func (s *Store) compactTable() ([]int, int) {
	table := make([]int, len(s.nodes))
	next := 1
	for i := 1; i < len(s.nodes); i++ {
		if s.nodes[i].valid {
			table[i] = next
			next++
		}
	}
	return table, next
}

// Remap physically removes invalid nodes and rewrites every surviving link
// through the old->new table, which it returns.
func (s *Store) Remap() []int {
	table, size := s.compactTable()
	nodes := make([]Node, 1, size)
	for i := 1; i < len(s.nodes); i++ {
		if table[i] == 0 {
			continue
		}
		n := s.nodes[i]
		var links [MaxLinks]int
		count := 0
		for slot := 0; slot < n.count; slot++ {
			to := n.links[slot]
			if to <= 0 || to >= len(table) || table[to] == 0 {
				continue
			}
			if containsLink(links[:count], table[to]) {
				continue
			}
			links[count] = table[to]
			count++
		}
		n.links = links
		n.count = count
		nodes = append(nodes, n)
	}
	s.nodes = nodes
	s.dirty = true
	return table
}

// Clean runs MarkInvalid, Remap and SanitizeLinks in that order.
func (s *Store) Clean() CleanReport {
	before := len(s.nodes)
	report := CleanReport{Invalidated: s.MarkInvalid()}
	s.Remap()
	report.Removed = before - len(s.nodes)
	report.Pruned = s.SanitizeLinks()
	return report
}
