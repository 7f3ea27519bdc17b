package jobs

import (
	"context"
	"time"

	"parcelhub/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultOfferExpirySchedule runs the expiry at the start of every minute.
const DefaultOfferExpirySchedule = "0 * * * * *"

type ExpireStaleOffersHandler interface {
	Handle(ctx context.Context, cmd commands.ExpireStaleOffersCommand) (int, error)
}

// OfferExpirationJob rejects pending offers older than the configured TTL.
type OfferExpirationJob struct {
	handler  ExpireStaleOffersHandler
	ttl      time.Duration
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   logrus.FieldLogger
}

// NewOfferExpirationJob uses a six-field (seconds first) cron schedule; an
// empty schedule means DefaultOfferExpirySchedule.
func NewOfferExpirationJob(
	handler ExpireStaleOffersHandler,
	ttl time.Duration,
	schedule string,
	logger logrus.FieldLogger,
) *OfferExpirationJob {
	if schedule == "" {
		schedule = DefaultOfferExpirySchedule
	}
	return &OfferExpirationJob{
		handler:  handler,
		ttl:      ttl,
		schedule: schedule,
		timeout:  30 * time.Second,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.WithField("component", "offer_expiration_job"),
	}
}

func (j *OfferExpirationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.WithFields(logrus.Fields{"schedule": j.schedule, "ttl": j.ttl}).Info("Offer expiration job started")
	return nil
}

// Run expires one batch; it is what the schedule triggers.
func (j *OfferExpirationJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	cmd, err := commands.NewExpireStaleOffersCommand(j.ttl, commands.DefaultExpireBatchSize)
	if err != nil {
		j.logger.WithError(err).Error("Offer expiration job misconfigured")
		return
	}

	expired, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.WithError(err).Error("Offer expiration job failed")
		return
	}
	if expired > 0 {
		j.logger.WithField("expired", expired).Info("Stale offers expired")
	}
}

func (j *OfferExpirationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Offer expiration job stopped")
}
