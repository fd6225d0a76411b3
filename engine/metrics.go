package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	frames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_frames",
		Help: "The number of frames ticked.",
	})

	frameTime = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_frame_seconds",
		Help:    "The delta time of each frame.",
		Buckets: []float64{1.0 / 240, 1.0 / 144, 1.0 / 120, 1.0 / 60, 1.0 / 30, 1.0 / 15, 0.25},
	})
)

func instrumentFrame(dt float32) {
	frames.Inc()
	frameTime.Observe(float64(dt))
}
