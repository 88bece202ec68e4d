package tagsearch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	phasePreview   = "preview"
	phaseRemaining = "remaining"
)

var (
	// queryDuration tracks how long each search phase takes
	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tagsearch_query_duration_seconds",
		Help:    "Tag search duration in seconds by phase",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"phase"})

	// searchesTotal counts searches by operation
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tagsearch_searches_total",
		Help: "Total tag searches by operation",
	}, []string{"operation"})

	// matchedContainers tracks the number of containers a search matched per type
	matchedContainers = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tagsearch_matched_containers",
		Help:    "Containers matched by a tag search per container type",
		Buckets: []float64{0, 1, 10, 100, 1000, 10000},
	}, []string{"type"})
)
