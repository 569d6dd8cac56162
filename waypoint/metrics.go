package waypoint

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waypoint_searches_total",
		Help: "Path searches by result (found, failed, trivial, invalid).",
	}, []string{"result"})

	searchExpanded = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "waypoint_search_expanded_nodes",
		Help:    "Nodes expanded per path search.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	nodesAdded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waypoint_nodes_added_total",
		Help: "Nodes appended to a store, by waypoint type.",
	}, []string{"type"})

	linkEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waypoint_link_evictions_total",
		Help: "Links overwritten because the source node was full.",
	})

	linksPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waypoint_links_pruned_total",
		Help: "Links removed by geometry sanitization.",
	})

	indexRebuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waypoint_index_rebuilds_total",
		Help: "Spatial index rebuilds.",
	})
)
