package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec is an archetype: a name and the raw component specs keyed
// by component name.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type MotionComponentSpec struct {
	Grounded  bool `yaml:"grounded"`
	Crouching bool `yaml:"crouching"`
}

type DropperComponentSpec struct {
	Enabled bool `yaml:"enabled"`
}

type MoverComponentSpec struct {
	Speed float64 `yaml:"speed"`
}

// BotNavComponentSpec carries no tuning; its presence makes the entity a bot.
type BotNavComponentSpec struct{}
