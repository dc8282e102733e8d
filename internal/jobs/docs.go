// Package jobs provides scheduled background tasks for the cargo service.
//
// Jobs are built on github.com/robfig/cron/v3 with second-level schedules.
//
// # Available Jobs
//
// 1. KeepaliveJob - pings every open live connection and unsubscribes the
// ones whose ping fails
//
// # Usage
//
//	jobManager := jobs.NewJobManager(registry, jobs.KeepaliveConfig{Schedule: "*/30 * * * * *"}, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use six fields, seconds first. A run that is still in progress
// when the next one is due makes the next one skip.
package jobs
