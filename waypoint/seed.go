package waypoint

import (
	"log/slog"

	"github.com/milk9111/botnav/common"
)

// SeedPoint is a world object worth a waypoint. Jump pads carry the landing
// position in Target.
type SeedPoint struct {
	Pos     common.Vec3
	Type    Type
	Subtype int
	Target  *common.Vec3
}

// Seeder lists the world objects a graph can be grown from.
type Seeder interface {
	SeedPoints() []SeedPoint
}

// Seed adds a node per seed point, links jump pads one-way to their landing
// node and then links every seeded node to its visible neighbours. It
// returns the number of nodes added.
func Seed(s *Store, points []SeedPoint) int {
	added := make([]int, 0, len(points))
	for _, sp := range points {
		idx := s.Add(sp.Pos, sp.Type, sp.Subtype, false, false, 0)
		if idx == 0 {
			continue
		}
		added = append(added, idx)
		if sp.Type != TypeJumpPad || sp.Target == nil {
			continue
		}
		landing := s.Add(*sp.Target, TypeJumpPadLanding, 0, false, false, 0)
		if landing == 0 {
			continue
		}
		added = append(added, landing)
		// the pad trajectory arcs, so the link skips the visibility check
		s.Link(idx, landing)
	}
	for _, idx := range added {
		if s.nodes[idx].Type == TypeJumpPad {
			continue
		}
		s.LinkWithinRadius(idx, true)
	}
	return len(added)
}

// LoadOrSeed loads path into s. When loading fails for any reason the store
// is reset and seeded from seeder instead. It reports whether the graph was
// seeded; an error is returned only when neither source produced a graph.
func LoadOrSeed(path string, s *Store, seeder Seeder, opts LoadOptions) (bool, error) {
	err := LoadFile(path, s, opts)
	if err == nil {
		return false, nil
	}
	if seeder == nil {
		return false, err
	}
	slog.Warn("waypoint: load failed, seeding from level objects", "path", path, "err", err)
	s.Reset()
	if Seed(s, seeder.SeedPoints()) == 0 {
		return true, err
	}
	return true, nil
}
