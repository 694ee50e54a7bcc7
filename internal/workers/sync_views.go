package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/systemink/api/domain"
)

const syncViewsInterval = 30 * time.Second

type syncViewsWorker struct {
	PostRepo domain.PostRepository
	Tracker  domain.PostViewTracker
}

func NewSyncViewsWorker(pr domain.PostRepository, tracker domain.PostViewTracker) *syncViewsWorker {
	return &syncViewsWorker{
		PostRepo: pr,
		Tracker:  tracker,
	}
}

func (s syncViewsWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(syncViewsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.flush(ctx)
		case <-ctx.Done():
			logrus.Info("shutting down SyncViewsWorker, flushing buffered views...")
			// 用新 context，原 ctx 已取消
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			s.flush(flushCtx)
			cancel()
			return
		}
	}
}

func (s syncViewsWorker) flush(ctx context.Context) {
	views, err := s.Tracker.FetchAndResetViews(ctx)
	if err != nil {
		logrus.Errorf("failed to drain view buffer: %v", err)
		return
	}
	for postID, delta := range views {
		if err := s.PostRepo.AddViews(ctx, postID, delta); err != nil {
			logrus.Errorf("failed to add %d views to post %d: %v", delta, postID, err)
		}
	}
}
