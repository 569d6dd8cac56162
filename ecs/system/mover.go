package system

import (
	"github.com/milk9111/botnav/ecs"
	"github.com/milk9111/botnav/ecs/component"
)

// MoverSystem moves bots straight toward their BotNav target. It stands in
// for a physics-driven controller in headless runs.
type MoverSystem struct{}

func NewMoverSystem() *MoverSystem {
	return &MoverSystem{}
}

func (ms *MoverSystem) Update(w *ecs.World) {
	if ms == nil || w == nil {
		return
	}
	ecs.ForEach3(w,
		component.TransformComponent.Kind(),
		component.BotNavComponent.Kind(),
		component.MoverComponent.Kind(),
		func(_ ecs.Entity, t *component.Transform, nav *component.BotNav, m *component.Mover) {
			if !nav.HasTarget || m.Speed <= 0 {
				return
			}
			t.Pos = t.Pos.MoveTowards(nav.Target, m.Speed)
		})
}
