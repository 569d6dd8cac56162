package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/milk9111/botnav/common"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

type Store struct {
	LinkRadius float64 `yaml:"link_radius"`
	Seed       uint64  `yaml:"seed"`
}

type Drop struct {
	OnGraphRadius float64 `yaml:"on_graph_radius"`
	JumpPadRadius float64 `yaml:"jump_pad_radius"`
	JumpPadScale  float64 `yaml:"jump_pad_scale"`
}

type Bot struct {
	ArriveRadius        float64 `yaml:"arrive_radius"`
	StartRadius         float64 `yaml:"start_radius"`
	StuckIntervalFrames int     `yaml:"stuck_interval_frames"`
	StuckDistance       float64 `yaml:"stuck_distance"`
	RepathFrames        int     `yaml:"repath_frames"`
	MaxGoalAttempts     int     `yaml:"max_goal_attempts"`
}

type Policy struct {
	// Script is a path to a tengo goal policy; empty uses the built-in one.
	Script string `yaml:"script"`
}

// Config holds the navigation tuning knobs.
type Config struct {
	Store  Store  `yaml:"store"`
	Drop   Drop   `yaml:"drop"`
	Bot    Bot    `yaml:"bot"`
	Policy Policy `yaml:"policy"`
}

// Default returns the embedded defaults.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic("config: embedded defaults: " + err.Error())
	}
	return cfg
}

// Load overlays the file at path on the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	cfg.Sanitize()
	return cfg, nil
}

// Sanitize replaces unusable values with the defaults.
func (c *Config) Sanitize() {
	def := Default()
	positive(&c.Store.LinkRadius, def.Store.LinkRadius)
	positive(&c.Drop.OnGraphRadius, def.Drop.OnGraphRadius)
	positive(&c.Drop.JumpPadRadius, def.Drop.JumpPadRadius)
	positive(&c.Drop.JumpPadScale, def.Drop.JumpPadScale)
	positive(&c.Bot.ArriveRadius, def.Bot.ArriveRadius)
	positive(&c.Bot.StartRadius, def.Bot.StartRadius)
	positive(&c.Bot.StuckDistance, def.Bot.StuckDistance)
	if c.Bot.StuckIntervalFrames <= 0 {
		c.Bot.StuckIntervalFrames = def.Bot.StuckIntervalFrames
	}
	if c.Bot.RepathFrames <= 0 {
		c.Bot.RepathFrames = def.Bot.RepathFrames
	}
	if c.Bot.MaxGoalAttempts <= 0 {
		c.Bot.MaxGoalAttempts = def.Bot.MaxGoalAttempts
	}
}

func positive(v *float64, fallback float64) {
	if *v <= 0 || !common.Finite(*v) {
		*v = fallback
	}
}
