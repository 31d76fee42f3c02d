package sse

import (
	"context"
	"time"

	"focusos/internal/logger"
	"focusos/internal/repository"
	"focusos/internal/service"
)

const (
	EventSyncCompleted = "sync_completed"
	EventSyncFailed    = "sync_failed"
)

// SyncJob periodically runs a full sync for users watching an event stream.
type SyncJob struct {
	syncService service.SyncService
	userRepo    repository.UserRepository
	links       service.AccountLinks
	manager     *Manager
	interval    time.Duration
	logger      *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewSyncJob(
	syncService service.SyncService,
	userRepo repository.UserRepository,
	links service.AccountLinks,
	manager *Manager,
	interval time.Duration,
	logger *logger.Logger,
) *SyncJob {
	ctx, cancel := context.WithCancel(context.Background())
	return &SyncJob{
		syncService: syncService,
		userRepo:    userRepo,
		links:       links,
		manager:     manager,
		interval:    interval,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start blocks, syncing on every tick until Stop is called.
func (j *SyncJob) Start() {
	j.logger.Infof("Starting background sync every %s", j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.RunOnce(j.ctx)
		case <-j.ctx.Done():
			j.logger.Info("Background sync stopped")
			return
		}
	}
}

func (j *SyncJob) Stop() {
	j.cancel()
}

// RunOnce syncs every linked user that has an open stream and publishes the outcome.
func (j *SyncJob) RunOnce(ctx context.Context) {
	users, err := j.userRepo.FindAll(ctx)
	if err != nil {
		j.logger.Errorf("Failed to list users for background sync: %v", err)
		return
	}

	for _, user := range users {
		if ctx.Err() != nil {
			return
		}
		if !j.manager.HasSubscribers(user.ID) {
			continue
		}
		connected, err := j.links.IsConnected(ctx, user.ID)
		if err != nil || !connected {
			continue
		}

		result, err := j.syncService.SyncAll(ctx, user.ID)
		if err != nil {
			j.logger.Errorf("Background sync failed for user %s: %v", user.ID, err)
			j.manager.Publish(user.ID, EventSyncFailed, map[string]string{"error": err.Error()})
			continue
		}
		j.manager.Publish(user.ID, EventSyncCompleted, result)
	}
}
