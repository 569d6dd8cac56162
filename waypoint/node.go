package waypoint

import "github.com/milk9111/botnav/common"

// MaxLinks is the adjacency capacity of every node.
const MaxLinks = 6

const (
	DefaultLinkRadius = 300.0
	LiquidProbeDepth  = 16.0
)

// Type classifies a waypoint.
type Type int

const (
	TypeGeneric Type = iota + 1
	TypeItem
	TypeRespawn
	TypeJumpPad
	TypeJumpPadLanding
	TypeLiftEntrance
	TypeLiftExit
	TypeLadder
	TypeObjective
	TypeDropped
)

// Subtypes of TypeDropped nodes, taken from the movement state at drop time.
const (
	DroppedNormal = iota
	DroppedFalling
	DroppedSwimming
	DroppedCrouch
)

var typeNames = map[Type]string{
	TypeGeneric:        "generic",
	TypeItem:           "item",
	TypeRespawn:        "respawn",
	TypeJumpPad:        "jumppad",
	TypeJumpPadLanding: "jumppad_landing",
	TypeLiftEntrance:   "lift_entrance",
	TypeLiftExit:       "lift_exit",
	TypeLadder:         "ladder",
	TypeObjective:      "objective",
	TypeDropped:        "dropped",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

func (t Type) Known() bool {
	_, ok := typeNames[t]
	return ok
}

// ParseType resolves a type by its String name.
func ParseType(name string) (Type, bool) {
	for t, n := range typeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// Node is a single waypoint. Copies returned by Store.Node are detached
// from the store.
type Node struct {
	Pos     common.Vec3
	Type    Type
	Subtype int
	Radius  float64

	links [MaxLinks]int
	count int
	valid bool

	// search scratch, reset by every Search
	cost     float64
	estimate float64
	prev     int
}

func (n Node) Valid() bool {
	return n.valid
}

func (n Node) LinkCount() int {
	return n.count
}

// Links returns a copy of the outgoing link targets.
func (n Node) Links() []int {
	out := make([]int, n.count)
	copy(out, n.links[:n.count])
	return out
}

func (n Node) HasLink(to int) bool {
	for i := 0; i < n.count; i++ {
		if n.links[i] == to {
			return true
		}
	}
	return false
}

func (n *Node) appendLink(to int) bool {
	if n.count >= MaxLinks {
		return false
	}
	n.links[n.count] = to
	n.count++
	return true
}

func (n *Node) removeLinkAt(slot int) {
	copy(n.links[slot:n.count], n.links[slot+1:n.count])
	n.count--
	n.links[n.count] = 0
}
