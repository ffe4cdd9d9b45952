package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/centersguide/centersguide/internal/jobs"
)

// Warmer fills the directory cache and reports how many centers it loaded.
type Warmer interface {
	Warm(ctx context.Context) (int, error)
}

// CentersWarmupJob keeps the public directory cache hot.
type CentersWarmupJob struct {
	Warmer  Warmer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// Handle processes TaskCentersWarmup tasks.
func (j *CentersWarmupJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Warmer == nil {
		return errors.New("centers warmup: handler not configured")
	}
	tracker := j.Metrics.Track(TaskCentersWarmup)
	defer func() { err = tracker.End(err) }()

	n, err := j.Warmer.Warm(ctx)
	if err != nil {
		if j.Logger != nil {
			j.Logger.Error("warm centers cache", slog.Any("error", err))
		}
		return err
	}
	j.Metrics.SetWarmed(n)
	if j.Logger != nil {
		j.Logger.Info("centers cache warmed", slog.Int("centers", n))
	}
	return nil
}
