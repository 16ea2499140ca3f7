package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "facepipe",
		Name:      "records_processed_total",
		Help:      "Total number of upload notifications processed",
	}, []string{"pipeline"})

	RecordsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "facepipe",
		Name:      "records_skipped_total",
		Help:      "Total number of upload notifications skipped (missing bucket/key or undecodable key)",
	}, []string{"pipeline"})

	FacesIndexed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "facepipe",
		Name:      "faces_indexed_total",
		Help:      "Total number of faces registered in the collection",
	})

	FacesUnindexed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "facepipe",
		Name:      "faces_unindexed_total",
		Help:      "Total number of detected faces rejected by the recognition service",
	})

	SearchMatches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "facepipe",
		Name:      "search_matches_total",
		Help:      "Total number of face matches returned by similarity search",
	})

	NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "facepipe",
		Name:      "notifications_sent_total",
		Help:      "Total number of outbound webhook notifications delivered",
	})

	RecognitionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "facepipe",
		Name:      "recognition_duration_seconds",
		Help:      "Duration of recognition-service calls",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"operation"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "facepipe",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "facepipe",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})
)
