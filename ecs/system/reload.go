package system

import (
	"log/slog"
	"path/filepath"

	"github.com/milk9111/botnav/ecs"
	"github.com/milk9111/botnav/ecs/component"
	"github.com/milk9111/botnav/policy"
	"github.com/milk9111/botnav/waypoint"
)

// FileEvents is a non-blocking source of changed file paths, such as
// *watch.Watcher.
type FileEvents interface {
	Poll() (string, bool)
}

// ReloadSystem reloads the waypoint file when it changes on disk or when a
// ReloadRequest entity asks for it. Indices change across a reload, so every
// bot route and drop trail is reset afterwards.
type ReloadSystem struct {
	store  *waypoint.Store
	path   string
	opts   waypoint.LoadOptions
	events FileEvents

	policyPath string
	nav        *BotNavigationSystem
}

type ReloadOption func(*ReloadSystem)

func WithFileEvents(ev FileEvents) ReloadOption {
	return func(r *ReloadSystem) {
		r.events = ev
	}
}

// WithPolicyReload recompiles the goal policy at path when it changes and
// hands it to nav.
func WithPolicyReload(path string, nav *BotNavigationSystem) ReloadOption {
	return func(r *ReloadSystem) {
		r.policyPath = path
		r.nav = nav
	}
}

func NewReloadSystem(store *waypoint.Store, path string, opts waypoint.LoadOptions, options ...ReloadOption) *ReloadSystem {
	r := &ReloadSystem{store: store, path: path, opts: opts}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *ReloadSystem) Update(w *ecs.World) {
	if r == nil || w == nil || r.store == nil {
		return
	}

	var graph, script bool
	for r.events != nil {
		p, ok := r.events.Poll()
		if !ok {
			break
		}
		switch {
		case samePath(p, r.path):
			graph = true
		case r.policyPath != "" && samePath(p, r.policyPath):
			script = true
		}
	}

	var requests []ecs.Entity
	path := r.path
	ecs.ForEach(w, component.ReloadRequestComponent.Kind(), func(e ecs.Entity, req *component.ReloadRequest) {
		requests = append(requests, e)
		if req.Path != "" {
			path = req.Path
		}
		graph = true
	})
	for _, e := range requests {
		ecs.DestroyEntity(w, e)
	}

	if script {
		r.reloadPolicy()
	}
	if graph && path != "" {
		if r.reloadGraph(path) {
			resetNavigation(w)
		}
	}
}

func (r *ReloadSystem) reloadGraph(path string) bool {
	if err := waypoint.LoadFile(path, r.store, r.opts); err != nil {
		reloads.WithLabelValues("failed").Inc()
		slog.Warn("reload: keeping current graph", "path", path, "err", err)
		return false
	}
	reloads.WithLabelValues("loaded").Inc()
	hdr := r.store.Header()
	slog.Info("reload: graph loaded", "path", path, "revision", hdr.Revision, "nodes", r.store.ValidCount())
	return true
}

func (r *ReloadSystem) reloadPolicy() {
	p, err := policy.Load(r.policyPath)
	if err != nil {
		slog.Warn("reload: keeping current goal policy", "path", r.policyPath, "err", err)
		return
	}
	r.nav.SetPolicy(p)
	slog.Info("reload: goal policy loaded", "path", r.policyPath)
}

func resetNavigation(w *ecs.World) {
	ecs.ForEach(w, component.BotNavComponent.Kind(), func(_ ecs.Entity, nav *component.BotNav) {
		nav.Clear()
	})
	ecs.ForEach(w, component.DropperComponent.Kind(), func(_ ecs.Entity, dr *component.Dropper) {
		dr.Dropping = false
		dr.Last = 0
	})
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if absA, err := filepath.Abs(a); err == nil {
		a = absA
	}
	if absB, err := filepath.Abs(b); err == nil {
		b = absB
	}
	return filepath.Clean(a) == filepath.Clean(b)
}
