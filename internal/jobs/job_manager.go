package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	keepaliveJob *KeepaliveJob
}

func NewJobManager(pinger Pinger, keepalive KeepaliveConfig, logger *slog.Logger) *JobManager {
	return &JobManager{
		keepaliveJob: NewKeepaliveJob(pinger, keepalive, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.keepaliveJob.Start(); err != nil {
		return fmt.Errorf("failed to start keepalive job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.keepaliveJob.Stop()
}
