// Package jobs provides scheduled background tasks for the delivery service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. OfferExpirationJob - rejects pending offers older than OFFER_TTL and
// notifies their pickers. Runs every minute by default.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(jobs.Config{OfferTTL: 72 * time.Hour}, expireHandler, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use six fields with seconds first. Overlapping runs are skipped,
// and expiry locks rows with SKIP LOCKED, so several instances may run the
// job at once without blocking offer acceptance.
package jobs
