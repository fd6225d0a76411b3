package grid

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cellChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grid_cell_changes",
		Help: "The number of times the tracked entity entered a new cell.",
	})

	missingTarget = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grid_missing_target",
		Help: "The number of frames skipped because no target was set.",
	})
)

func instrumentCellChange() {
	cellChanges.Inc()
}

func instrumentMissingTarget() {
	missingTarget.Inc()
}
