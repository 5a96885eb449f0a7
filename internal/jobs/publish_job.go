package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/marcreyes/localpost/internal/service"
)

type PublishJob struct {
	ps service.PublisherService
}

func NewPublishJob(ps service.PublisherService) *PublishJob {
	return &PublishJob{ps: ps}
}

func (j *PublishJob) DispatchDue() {
	ctx := context.Background()

	summary, err := j.ps.DispatchDue(ctx, time.Now().UTC())
	if err != nil {
		slog.Info(err.Error())
		return
	}

	if summary.Due > 0 {
		slog.Info("dispatch cycle finished",
			"due", summary.Due,
			"posted", summary.Posted,
			"failed", summary.Failed,
			"skipped", summary.Skipped)
	}
}
