package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	DefaultKeepaliveSchedule = "*/30 * * * * *"
	DefaultPingTimeout       = 10 * time.Second
)

// Pinger is implemented by the live connection registry.
type Pinger interface {
	Ping(ctx context.Context, timeout time.Duration) int
	Len() int
}

type KeepaliveConfig struct {
	Schedule    string
	PingTimeout time.Duration
}

// KeepaliveJob pings live connections on a schedule.
type KeepaliveJob struct {
	pinger Pinger
	config KeepaliveConfig
	cron   *cron.Cron
	logger *slog.Logger
}

func NewKeepaliveJob(pinger Pinger, config KeepaliveConfig, logger *slog.Logger) *KeepaliveJob {
	if config.Schedule == "" {
		config.Schedule = DefaultKeepaliveSchedule
	}
	if config.PingTimeout <= 0 {
		config.PingTimeout = DefaultPingTimeout
	}
	logger = logger.With("component", "keepalive_job")
	return &KeepaliveJob{
		pinger: pinger,
		config: config,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger,
	}
}

// Start schedules the job. An invalid schedule is returned as an error.
func (j *KeepaliveJob) Start() error {
	if _, err := j.cron.AddFunc(j.config.Schedule, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Keepalive job started", "schedule", j.config.Schedule)
	return nil
}

// Run pings once.
func (j *KeepaliveJob) Run() {
	ctx := context.Background()
	total := j.pinger.Len()
	if total == 0 {
		return
	}

	if dropped := j.pinger.Ping(ctx, j.config.PingTimeout); dropped > 0 {
		j.logger.InfoContext(ctx, "Dropped dead live connections", "dropped", dropped, "total", total)
	}
}

// Stop stops scheduling and waits for a running ping round to finish.
func (j *KeepaliveJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Keepalive job stopped")
}
