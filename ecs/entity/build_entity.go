package entity

import (
	"fmt"

	"github.com/milk9111/botnav/common"
	"github.com/milk9111/botnav/ecs"
	"github.com/milk9111/botnav/ecs/component"
	"github.com/milk9111/botnav/prefabs"
)

type entityPrefabSpec = prefabs.EntityBuildSpec

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any) error

var componentRegistry = map[string]componentBuildFn{
	"transform": addTransform,
	"motion":    addMotion,
	"bot_nav":   addBotNav,
	"mover":     addMover,
	"dropper":   addDropper,
}

var componentBuildOrder = []string{
	"transform",
	"motion",
	"bot_nav",
	"mover",
	"dropper",
}

// BuildEntity creates an entity from the prefab at filename.
func BuildEntity(w *ecs.World, filename string) (ecs.Entity, error) {
	spec, err := prefabs.LoadEntityBuildSpec(filename)
	if err != nil {
		return 0, err
	}
	return BuildEntityFromSpec(w, spec)
}

// BuildEntityFromSpec creates an entity with every component named in spec.
// Unknown component names are an error and leave no entity behind.
func BuildEntityFromSpec(w *ecs.World, spec entityPrefabSpec) (ecs.Entity, error) {
	for name := range spec.Components {
		if _, ok := componentRegistry[name]; !ok {
			return 0, fmt.Errorf("entity: %s: unknown component %q", spec.Name, name)
		}
	}

	e := ecs.CreateEntity(w)
	for _, name := range componentBuildOrder {
		raw, ok := spec.Components[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("entity: %s: %s: %w", spec.Name, name, err)
		}
	}
	return e, nil
}

// BuildBot builds the prefab and places it at pos.
func BuildBot(w *ecs.World, filename string, pos common.Vec3) (ecs.Entity, error) {
	e, err := BuildEntity(w, filename)
	if err != nil {
		return 0, err
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		t = &component.Transform{}
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), t); err != nil {
			return 0, err
		}
	}
	t.Pos = pos
	return e, nil
}

func addTransform(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Pos: common.V3(spec.X, spec.Y, spec.Z),
	})
}

func addMotion(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.MotionComponentSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.MotionComponent.Kind(), &component.Motion{
		Grounded:  spec.Grounded,
		Crouching: spec.Crouching,
	})
}

func addBotNav(w *ecs.World, e ecs.Entity, raw any) error {
	if _, err := prefabs.DecodeComponentSpec[prefabs.BotNavComponentSpec](raw); err != nil {
		return err
	}
	return ecs.Add(w, e, component.BotNavComponent.Kind(), &component.BotNav{})
}

func addMover(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.MoverComponentSpec](raw)
	if err != nil {
		return err
	}
	if spec.Speed <= 0 || !common.Finite(spec.Speed) {
		return fmt.Errorf("speed must be positive, got %v", spec.Speed)
	}
	return ecs.Add(w, e, component.MoverComponent.Kind(), &component.Mover{Speed: spec.Speed})
}

func addDropper(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.DropperComponentSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.DropperComponent.Kind(), &component.Dropper{Enabled: spec.Enabled})
}
