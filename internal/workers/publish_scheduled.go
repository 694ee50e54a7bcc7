package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/systemink/api/domain"
)

const publishSweepInterval = time.Minute

type publishScheduledWorker struct {
	PostRepo domain.PostRepository
}

func NewPublishScheduledWorker(pr domain.PostRepository) *publishScheduledWorker {
	return &publishScheduledWorker{PostRepo: pr}
}

func (w publishScheduledWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(publishSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep(ctx)
		case <-ctx.Done():
			logrus.Info("shutting down PublishScheduledWorker")
			return
		}
	}
}

func (w publishScheduledWorker) sweep(ctx context.Context) {
	count, err := w.PostRepo.PublishDue(ctx, time.Now())
	if err != nil {
		logrus.Errorf("failed to publish due posts: %v", err)
		return
	}
	if count > 0 {
		logrus.Infof("published %d scheduled post(s)", count)
	}
}
