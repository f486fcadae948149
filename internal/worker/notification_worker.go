package worker

import (
	"github.com/gammazero/workerpool"

	"github.com/spec-kit/estate-agency/internal/service"
)

// NotificationWorker owns the pool that delivers notices.
type NotificationWorker struct {
	pool *workerpool.WorkerPool
}

// StartNotificationWorker registers the event subscribers. Notice delivery
// runs on a pool of size workers; cache invalidation stays on the publishing
// goroutine so the next read sees fresh data.
func StartNotificationWorker(notificationService *service.NotificationService, invalidator *service.CacheInvalidator, workers int) *NotificationWorker {
	if workers <= 0 {
		workers = 1
	}
	w := &NotificationWorker{pool: workerpool.New(workers)}
	if notificationService != nil {
		notificationService.UseExecutor(w.pool.Submit)
		notificationService.RegisterHandlers()
	}
	if invalidator != nil {
		invalidator.RegisterHandlers()
	}
	return w
}

// Stop waits for queued deliveries to finish.
func (w *NotificationWorker) Stop() {
	if w != nil {
		w.pool.StopWait()
	}
}
