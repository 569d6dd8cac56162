package system

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	droppedNodes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "navigation_dropped_nodes_total",
		Help: "Waypoints dropped along agent trails, by movement subtype.",
	}, []string{"subtype"})

	replans = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "navigation_replans_total",
		Help: "Bot route selections by result (found, exhausted, no_start).",
	}, []string{"result"})

	routesAbandoned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "navigation_routes_abandoned_total",
		Help: "Routes dropped before completion, by reason.",
	}, []string{"reason"})

	reloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "navigation_graph_reloads_total",
		Help: "Waypoint file reloads by result.",
	}, []string{"result"})
)
