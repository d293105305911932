package engine

import (
	"context"

	"freckers/experiments/metrics"
	"freckers/gamemaster"
)

type Runner interface {
	// Run plays a game till the referee declares a result or ctx is cancelled
	Run(ctx context.Context) (result gamemaster.Result, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}
