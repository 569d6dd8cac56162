package system

import (
	"math"

	"github.com/milk9111/botnav/common"
	"github.com/milk9111/botnav/config"
	"github.com/milk9111/botnav/ecs"
	"github.com/milk9111/botnav/ecs/component"
	"github.com/milk9111/botnav/waypoint"
)

var droppedSubtypeNames = map[int]string{
	waypoint.DroppedNormal:   "normal",
	waypoint.DroppedFalling:  "falling",
	waypoint.DroppedSwimming: "swimming",
	waypoint.DroppedCrouch:   "crouch",
}

// DropSystem grows the graph along the trail of every entity with a
// Transform, Motion and Dropper.
type DropSystem struct {
	store *waypoint.Store
	cfg   config.Drop
}

func NewDropSystem(store *waypoint.Store, cfg config.Drop) *DropSystem {
	return &DropSystem{store: store, cfg: cfg}
}

func (d *DropSystem) Update(w *ecs.World) {
	if d == nil || w == nil || d.store == nil {
		return
	}
	ecs.ForEach3(w,
		component.TransformComponent.Kind(),
		component.MotionComponent.Kind(),
		component.DropperComponent.Kind(),
		func(_ ecs.Entity, t *component.Transform, m *component.Motion, dr *component.Dropper) {
			d.Step(t.Pos, *m, dr)
		})
}

// Step advances one agent. It returns the index of the node dropped this
// frame, or 0.
func (d *DropSystem) Step(pos common.Vec3, m component.Motion, dr *component.Dropper) int {
	if !pos.Finite() {
		return 0
	}

	if reached := d.reached(pos); reached != 0 {
		// standing on the head of our own trail changes nothing
		if reached == dr.Last {
			return 0
		}
		if dr.Dropping && d.store.Valid(dr.Last) {
			d.join(dr.Last, reached, m.Grounded)
		}
		dr.Dropping = false
		dr.Last = reached
		return 0
	}

	if !dr.Enabled {
		return 0
	}
	subtype := droppedSubtype(m)
	idx := d.store.Add(pos, waypoint.TypeDropped, subtype, false, false, 0)
	if idx == 0 {
		return 0
	}
	if d.store.Valid(dr.Last) {
		d.join(dr.Last, idx, m.Grounded)
	}
	dr.Dropping = true
	dr.Last = idx
	droppedNodes.WithLabelValues(droppedSubtypeNames[subtype]).Inc()
	return idx
}

// reached returns the node the agent counts as standing on. A jump pad
// wins whenever the agent is inside its scaled trigger radius.
func (d *DropSystem) reached(pos common.Vec3) int {
	search := math.Max(d.cfg.JumpPadRadius, d.store.MaxRadius(waypoint.TypeJumpPad)*d.cfg.JumpPadScale)
	pad, ok := d.store.NearestMatching(pos, search, func(i int) bool {
		n, ok := d.store.Node(i)
		return ok && n.Type == waypoint.TypeJumpPad && n.Pos.Dist(pos) <= n.Radius*d.cfg.JumpPadScale
	})
	if ok {
		return pad
	}
	if i, ok := d.store.Nearest(pos, d.cfg.OnGraphRadius, 0); ok {
		return i
	}
	return 0
}

// join links from -> to when the oracle sees a clear segment. Links onto
// jump pads stay one-way, and so does anything walked while airborne or
// swimming.
func (d *DropSystem) join(from, to int, grounded bool) {
	if !d.store.LinkIfClear(from, to) || !grounded {
		return
	}
	if n, ok := d.store.Node(to); ok && n.Type == waypoint.TypeJumpPad {
		return
	}
	d.store.LinkIfClear(to, from)
}

func droppedSubtype(m component.Motion) int {
	switch {
	case m.Swimming:
		return waypoint.DroppedSwimming
	case m.Falling:
		return waypoint.DroppedFalling
	case m.Crouching:
		return waypoint.DroppedCrouch
	default:
		return waypoint.DroppedNormal
	}
}
