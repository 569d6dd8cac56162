package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/milk9111/botnav/common"
	"github.com/milk9111/botnav/ecs"
	"github.com/milk9111/botnav/ecs/component"
	"github.com/milk9111/botnav/ecs/entity"
	"github.com/milk9111/botnav/ecs/system"
	"github.com/milk9111/botnav/policy"
	"github.com/milk9111/botnav/waypoint"
	"github.com/milk9111/botnav/watch"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// frameTime paces the simulation while watching files so edits land between
// frames the way they would in a running game.
const frameTime = time.Second / 60

type bot struct {
	entity    ecs.Entity
	transform *component.Transform
	motion    *component.Motion
	nav       *component.BotNav
}

func runSimulate(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	numBots, _ := flags.GetInt("bots")
	frames, _ := flags.GetInt("frames")
	prefab, _ := flags.GetString("prefab")
	watchFiles, _ := flags.GetBool("watch")
	save, _ := flags.GetBool("save")
	showMetrics, _ := flags.GetBool("metrics")

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	if path != "" {
		seeded, err := waypoint.LoadOrSeed(path, e.store, e.level, e.loadOptions())
		if err != nil {
			return err
		}
		slog.Info("simulate: graph ready", "path", path, "seeded", seeded, "nodes", e.store.ValidCount())
	} else {
		waypoint.Seed(e.store, e.level.SeedPoints())
	}
	startNodes := e.store.ValidCount()

	goals, err := policy.Load(e.cfg.Policy.Script)
	if err != nil {
		return err
	}

	w := ecs.NewWorld()
	seed := e.cfg.Store.Seed
	nav := system.NewBotNavigationSystem(e.store, e.cfg.Bot,
		system.WithPolicy(goals),
		system.WithBotRand(rand.New(rand.NewPCG(seed, seed+1))),
	)
	if watchFiles && path != "" {
		watcher, err := watch.New(watchDirs(path, e.cfg.Policy.Script)...)
		if err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		defer watcher.Close()
		w.AddSystem(system.NewReloadSystem(e.store, path, e.loadOptions(),
			system.WithFileEvents(watcher),
			system.WithPolicyReload(e.cfg.Policy.Script, nav),
		))
	}
	w.AddSystem(nav)
	w.AddSystem(system.NewMoverSystem())
	w.AddSystem(system.NewDropSystem(e.store, e.cfg.Drop))

	bots, err := spawnBots(w, e, prefab, numBots)
	if err != nil {
		return err
	}

	var pace <-chan time.Time
	if watchFiles {
		ticker := time.NewTicker(frameTime)
		defer ticker.Stop()
		pace = ticker.C
	}
	oracle := e.store.Oracle()
	probe := common.V3(0, -waypoint.LiquidProbeDepth, 0)
	for frame := 0; frame < frames; frame++ {
		for _, b := range bots {
			b.motion.Swimming = oracle.HitsLiquid(b.transform.Pos, b.transform.Pos.Add(probe))
			b.motion.Grounded = !b.motion.Swimming
		}
		w.Update()
		if pace != nil {
			<-pace
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "simulated %d frames with %d bots\n", frames, len(bots))
	fmt.Fprintf(out, "nodes: %d -> %d\n", startNodes, e.store.ValidCount())
	for _, b := range bots {
		fmt.Fprintf(out, "  bot %s at (%.0f, %.0f, %.0f): %d routes, goal %d\n",
			b.entity, b.transform.Pos.X, b.transform.Pos.Y, b.transform.Pos.Z, b.nav.Replans, b.nav.Goal)
	}

	if save && path != "" {
		author := defaultAuthor()
		if err := waypoint.SaveFile(path, e.store, e.saveOptions(author, e.store.Header().Compressed)); err != nil {
			return err
		}
		fmt.Fprintf(out, "saved %s (revision %d)\n", path, e.store.Header().Revision)
	}
	if showMetrics {
		return printMetrics(out)
	}
	return nil
}

func spawnBots(w *ecs.World, e *env, prefab string, n int) ([]bot, error) {
	spawns := make([]common.Vec3, 0, len(e.level.Respawns))
	for _, r := range e.level.Respawns {
		spawns = append(spawns, r.Pos)
	}
	if len(spawns) == 0 {
		spawns = append(spawns, e.level.Bounds.Center())
	}

	bots := make([]bot, 0, n)
	for i := 0; i < n; i++ {
		ent, err := entity.BuildBot(w, prefab, spawns[i%len(spawns)])
		if err != nil {
			return nil, err
		}
		b := bot{entity: ent}
		b.transform, _ = ecs.Get(w, ent, component.TransformComponent.Kind())
		b.nav, _ = ecs.Get(w, ent, component.BotNavComponent.Kind())
		b.motion, _ = ecs.Get(w, ent, component.MotionComponent.Kind())
		if b.nav == nil {
			return nil, fmt.Errorf("prefab %s is not a bot", prefab)
		}
		if b.motion == nil {
			b.motion = &component.Motion{Grounded: true}
			if err := ecs.Add(w, ent, component.MotionComponent.Kind(), b.motion); err != nil {
				return nil, err
			}
		}
		bots = append(bots, b)
	}
	return bots, nil
}

func watchDirs(paths ...string) []string {
	seen := map[string]bool{}
	var dirs []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		dir := filepath.Dir(p)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func printMetrics(out io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	var lines []string
	for _, mf := range families {
		name := mf.GetName()
		if !strings.HasPrefix(name, "waypoint_") && !strings.HasPrefix(name, "navigation_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			pairs := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				pairs = append(pairs, lp.GetName()+"="+lp.GetValue())
			}
			label := strings.Join(pairs, ",")
			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s{%s} %g", name, label, m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				lines = append(lines, fmt.Sprintf("%s{%s} count=%d sum=%g", name, label, h.GetSampleCount(), h.GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}
	return nil
}
