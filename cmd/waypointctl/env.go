package main

import (
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/milk9111/botnav/config"
	"github.com/milk9111/botnav/levels"
	"github.com/milk9111/botnav/physics"
	"github.com/milk9111/botnav/waypoint"
	"github.com/spf13/cobra"
)

// env is everything a command needs to work on one level's graph.
type env struct {
	cfg   config.Config
	level *levels.Level
	store *waypoint.Store
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	name, err := cmd.Flags().GetString("level")
	if err != nil {
		return nil, err
	}
	lvl, err := levels.Load(name)
	if err != nil {
		return nil, err
	}

	seed := cfg.Store.Seed
	store := waypoint.NewStore(physics.NewOracle(lvl),
		waypoint.WithLinkRadius(cfg.Store.LinkRadius),
		waypoint.WithRand(rand.New(rand.NewPCG(seed, seed))),
	)
	return &env{cfg: cfg, level: lvl, store: store}, nil
}

func (e *env) loadOptions() waypoint.LoadOptions {
	return waypoint.LoadOptions{Checksum: e.level.Checksum()}
}

func (e *env) saveOptions(author string, compress bool) waypoint.SaveOptions {
	return waypoint.SaveOptions{
		Level:    e.level.Name,
		Checksum: e.level.Checksum(),
		Author:   author,
		Compress: compress,
	}
}

func (e *env) load(path string) error {
	return waypoint.LoadFile(path, e.store, e.loadOptions())
}

func defaultAuthor() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return filepath.Base(os.Args[0])
}
