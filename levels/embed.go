package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/milk9111/botnav/common"
	"github.com/milk9111/botnav/waypoint"
)

//go:embed *.json
var LevelsFS embed.FS

// Box is an axis-aligned volume.
type Box struct {
	Min common.Vec3 `json:"min"`
	Max common.Vec3 `json:"max"`
}

func (b Box) Center() common.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

type Item struct {
	Kind string      `json:"kind"`
	Pos  common.Vec3 `json:"pos"`
}

type Respawn struct {
	Pos  common.Vec3 `json:"pos"`
	Team int         `json:"team"`
}

type Objective struct {
	Pos  common.Vec3 `json:"pos"`
	Team int         `json:"team"`
}

// JumpPad launches anything inside Region towards Target.
type JumpPad struct {
	Region Box         `json:"region"`
	Target common.Vec3 `json:"target"`
}

// Level is the static description of a map the navigation graph is built
// against.
type Level struct {
	Name       string      `json:"name"`
	Bounds     Box         `json:"bounds"`
	Solids     []Box       `json:"solids,omitempty"`
	Liquids    []Box       `json:"liquids,omitempty"`
	Items      []Item      `json:"items,omitempty"`
	Respawns   []Respawn   `json:"respawns,omitempty"`
	Objectives []Objective `json:"objectives,omitempty"`
	JumpPads   []JumpPad   `json:"jump_pads,omitempty"`
}

// Load reads a level from disk, falling back to the embedded levels. The
// .json extension is optional.
func Load(name string) (*Level, error) {
	if filepath.Ext(name) == "" {
		name += ".json"
	}
	data, err := os.ReadFile(name)
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, name)
		if err != nil {
			return nil, fmt.Errorf("read level: %w", err)
		}
	}
	return Parse(data)
}

func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if lvl.Bounds.Max.X <= lvl.Bounds.Min.X || lvl.Bounds.Max.Y <= lvl.Bounds.Min.Y {
		return nil, fmt.Errorf("invalid level bounds: %+v", lvl.Bounds)
	}
	return &lvl, nil
}

// Checksum fingerprints the level geometry. Moving items or spawns leaves it
// unchanged.
func (l *Level) Checksum() string {
	geometry := struct {
		Bounds  Box   `json:"bounds"`
		Solids  []Box `json:"solids"`
		Liquids []Box `json:"liquids"`
	}{l.Bounds, l.Solids, l.Liquids}
	data, err := json.Marshal(geometry)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(data))
}

// SeedPoints lists the objects a fresh waypoint graph is grown from.
func (l *Level) SeedPoints() []waypoint.SeedPoint {
	points := make([]waypoint.SeedPoint, 0, len(l.Items)+len(l.Respawns)+len(l.Objectives)+len(l.JumpPads))
	for _, it := range l.Items {
		points = append(points, waypoint.SeedPoint{Pos: it.Pos, Type: waypoint.TypeItem})
	}
	for _, r := range l.Respawns {
		points = append(points, waypoint.SeedPoint{Pos: r.Pos, Type: waypoint.TypeRespawn, Subtype: r.Team})
	}
	for _, o := range l.Objectives {
		points = append(points, waypoint.SeedPoint{Pos: o.Pos, Type: waypoint.TypeObjective, Subtype: o.Team})
	}
	for _, jp := range l.JumpPads {
		target := jp.Target
		points = append(points, waypoint.SeedPoint{Pos: jp.Region.Center(), Type: waypoint.TypeJumpPad, Target: &target})
	}
	return points
}
