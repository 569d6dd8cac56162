package system

import (
	"math/rand/v2"

	bt "github.com/joeycumines/go-behaviortree"
	"github.com/milk9111/botnav/common"
	"github.com/milk9111/botnav/config"
	"github.com/milk9111/botnav/ecs"
	"github.com/milk9111/botnav/ecs/component"
	"github.com/milk9111/botnav/policy"
	"github.com/milk9111/botnav/waypoint"
)

// BotNavigationSystem keeps every bot with a Transform and BotNav on a route
// through the waypoint graph. Each bot is driven by one behaviour tree tick
// per frame:
//
//	selector
//	  sequence(not stuck, repath not due, follow route)
//	  replan
type BotNavigationSystem struct {
	store  *waypoint.Store
	pf     *waypoint.Pathfinder
	cfg    config.Bot
	policy policy.Policy
	rng    *rand.Rand

	tree bt.Node

	// bot being ticked
	pos common.Vec3
	nav *component.BotNav
}

type BotNavOption func(*BotNavigationSystem)

func WithPolicy(p policy.Policy) BotNavOption {
	return func(s *BotNavigationSystem) {
		if p != nil {
			s.policy = p
		}
	}
}

func WithBotRand(r *rand.Rand) BotNavOption {
	return func(s *BotNavigationSystem) {
		if r != nil {
			s.rng = r
		}
	}
}

func NewBotNavigationSystem(store *waypoint.Store, cfg config.Bot, opts ...BotNavOption) *BotNavigationSystem {
	s := &BotNavigationSystem{
		store:  store,
		pf:     waypoint.NewPathfinder(store),
		cfg:    cfg,
		policy: policy.AcceptAll{},
		rng:    rand.New(rand.NewPCG(1, 2)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tree = bt.New(
		bt.Selector,
		bt.New(
			bt.Sequence,
			bt.New(s.notStuck),
			bt.New(s.repathNotDue),
			bt.New(s.follow),
		),
		bt.New(s.replan),
	)
	return s
}

func (s *BotNavigationSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.store == nil {
		return
	}
	ecs.ForEach2(w,
		component.TransformComponent.Kind(),
		component.BotNavComponent.Kind(),
		func(_ ecs.Entity, t *component.Transform, nav *component.BotNav) {
			s.Tick(t.Pos, nav)
		})
}

// Tick runs the tree once for a bot at pos and returns the tree status.
func (s *BotNavigationSystem) Tick(pos common.Vec3, nav *component.BotNav) bt.Status {
	s.pos, s.nav = pos, nav
	defer func() { s.nav = nil }()

	status, err := s.tree.Tick()
	if err != nil {
		return bt.Failure
	}
	return status
}

// notStuck samples the bot position every StuckIntervalFrames and drops the
// route when the bot moved less than StuckDistance since the last sample.
func (s *BotNavigationSystem) notStuck([]bt.Node) (bt.Status, error) {
	nav := s.nav
	nav.StuckFrames++
	if nav.StuckFrames < s.cfg.StuckIntervalFrames {
		return bt.Success, nil
	}
	moved := s.pos.Dist(nav.LastPos)
	nav.LastPos = s.pos
	nav.StuckFrames = 0
	if nav.Following() && moved < s.cfg.StuckDistance {
		routesAbandoned.WithLabelValues("stuck").Inc()
		nav.Clear()
		return bt.Failure, nil
	}
	return bt.Success, nil
}

func (s *BotNavigationSystem) repathNotDue([]bt.Node) (bt.Status, error) {
	nav := s.nav
	if !nav.Following() {
		return bt.Success, nil
	}
	nav.RepathFrames++
	if nav.RepathFrames >= s.cfg.RepathFrames {
		routesAbandoned.WithLabelValues("repath").Inc()
		nav.Clear()
		return bt.Failure, nil
	}
	return bt.Success, nil
}

// follow steers toward the route node under the cursor, advancing it once
// the bot is within ArriveRadius.
func (s *BotNavigationSystem) follow([]bt.Node) (bt.Status, error) {
	nav := s.nav
	if !nav.Following() {
		return bt.Failure, nil
	}
	target, ok := s.routePos(nav.Route[nav.Cursor])
	if !ok {
		routesAbandoned.WithLabelValues("invalid").Inc()
		nav.Clear()
		return bt.Failure, nil
	}
	if s.pos.Dist(target) <= s.cfg.ArriveRadius {
		nav.Cursor++
		if !nav.Following() {
			nav.Clear()
			return bt.Failure, nil
		}
		if target, ok = s.routePos(nav.Route[nav.Cursor]); !ok {
			routesAbandoned.WithLabelValues("invalid").Inc()
			nav.Clear()
			return bt.Failure, nil
		}
	}
	nav.Target = target
	nav.HasTarget = true
	return bt.Running, nil
}

func (s *BotNavigationSystem) routePos(i int) (common.Vec3, bool) {
	if !s.store.Valid(i) {
		return common.Vec3{}, false
	}
	return s.store.Pos(i)
}

// replan starts from the node nearest the bot and tries up to
// MaxGoalAttempts random goals the policy accepts. The first goal with a
// route wins.
func (s *BotNavigationSystem) replan([]bt.Node) (bt.Status, error) {
	nav := s.nav
	nav.Clear()

	start, ok := s.store.Nearest(s.pos, s.cfg.StartRadius, 0)
	if !ok {
		replans.WithLabelValues("no_start").Inc()
		return bt.Failure, nil
	}
	slots := s.store.Len() - 1
	for attempt := 0; attempt < s.cfg.MaxGoalAttempts && slots > 0; attempt++ {
		goal := 1 + s.rng.IntN(slots)
		if goal == start || !s.store.Valid(goal) {
			continue
		}
		n, _ := s.store.Node(goal)
		if !s.policy.Accept(policy.Candidate{
			Node:     goal,
			Type:     n.Type.String(),
			Subtype:  n.Subtype,
			Distance: s.pos.Dist(n.Pos),
		}) {
			continue
		}
		path, found := s.pf.Search(start, goal, nil)
		if !found {
			continue
		}
		nav.Route = append(nav.Route, path...)
		nav.Cursor = 0
		nav.Goal = goal
		nav.Replans++
		nav.Target, _ = s.store.Pos(path[0])
		nav.HasTarget = true
		replans.WithLabelValues("found").Inc()
		return bt.Running, nil
	}
	replans.WithLabelValues("exhausted").Inc()
	return bt.Failure, nil
}

// SetPolicy swaps the goal policy used by later replans.
func (s *BotNavigationSystem) SetPolicy(p policy.Policy) {
	if s == nil || p == nil {
		return
	}
	s.policy = p
}
