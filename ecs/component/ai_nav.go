package component

import "github.com/milk9111/botnav/common"

// BotNav is the route-following state of a bot.
type BotNav struct {
	Route  []int
	Cursor int
	Goal   int

	// Target is the position of Route[Cursor] while HasTarget is set.
	Target    common.Vec3
	HasTarget bool

	LastPos      common.Vec3
	StuckFrames  int
	RepathFrames int
	Replans      int
}

// Clear drops the current route.
func (b *BotNav) Clear() {
	b.Route = b.Route[:0]
	b.Cursor = 0
	b.Goal = 0
	b.HasTarget = false
	b.RepathFrames = 0
}

// Following reports whether the bot has route nodes left to visit.
func (b *BotNav) Following() bool {
	return b.Cursor < len(b.Route)
}

var BotNavComponent = NewComponent[BotNav]()
