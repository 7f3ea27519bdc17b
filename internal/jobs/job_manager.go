package jobs

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

type Job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	jobs    []Job
	started []Job
}

type Config struct {
	OfferTTL            time.Duration
	OfferExpirySchedule string
}

// NewJobManager wires the offer expiration job unless cfg.OfferTTL is zero,
// which disables expiry.
func NewJobManager(cfg Config, expireHandler ExpireStaleOffersHandler, logger logrus.FieldLogger) *JobManager {
	jm := &JobManager{}
	if cfg.OfferTTL > 0 {
		jm.jobs = append(jm.jobs, NewOfferExpirationJob(expireHandler, cfg.OfferTTL, cfg.OfferExpirySchedule, logger))
	} else {
		logger.Info("Offer expiry disabled")
	}
	return jm
}

// StartAll starts all scheduled jobs. If one fails to start, the ones already
// running are stopped.
func (jm *JobManager) StartAll() error {
	for _, job := range jm.jobs {
		if err := job.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start job: %w", err)
		}
		jm.started = append(jm.started, job)
	}
	return nil
}

// StopAll stops all started jobs and waits for running ones to finish.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].Stop()
	}
	jm.started = nil
}

// Len reports the number of configured jobs.
func (jm *JobManager) Len() int {
	return len(jm.jobs)
}
