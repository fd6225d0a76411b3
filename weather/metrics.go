package weather

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const materialLabel = "material"

var (
	meshRebuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weather_mesh_rebuilds",
		Help: "The number of times the precipitation mesh was rebuilt.",
	})

	meshVertices = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "weather_mesh_vertices",
		Help: "The vertex count of the current precipitation mesh.",
	})

	instancesDrawn = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weather_instances_drawn",
		Help: "The number of precipitation instances submitted for drawing.",
	}, []string{
		materialLabel,
	})
)

func instrumentMeshRebuild(vertices int) {
	meshRebuilds.Inc()
	meshVertices.Set(float64(vertices))
}

func instrumentInstancesDrawn(material string, count int) {
	instancesDrawn.With(prometheus.Labels{
		materialLabel: material,
	}).Add(float64(count))
}
