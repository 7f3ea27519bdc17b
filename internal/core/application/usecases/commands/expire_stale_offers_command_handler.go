package commands

import (
	"context"
	"time"

	"parcelhub/internal/core/ports"
)

// ExpireStaleOffersCommandHandler rejects one batch of stale offers and
// notifies their pickers. Offers locked by a running acceptance are skipped
// and picked up by a later run if still pending.
type ExpireStaleOffersCommandHandler struct {
	uowFactory OfferUoWFactory
	effects    SideEffects
}

func NewExpireStaleOffersCommandHandler(uowFactory OfferUoWFactory, effects SideEffects) ExpireStaleOffersCommandHandler {
	return ExpireStaleOffersCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

// Handle returns the number of offers expired.
func (h *ExpireStaleOffersCommandHandler) Handle(ctx context.Context, cmd ExpireStaleOffersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()
	offers := uow.OfferRepository()
	stale, err := offers.ListPendingCreatedBefore(ctx, now.Add(-cmd.TTL()), cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	notifications := make([]ports.Notification, 0, len(stale))
	for _, o := range stale {
		if !o.IsStale(cmd.TTL(), now) {
			continue
		}
		if err = o.Reject(now); err != nil {
			return 0, err
		}
		if err = offers.Update(ctx, o); err != nil {
			return 0, err
		}
		notifications = append(notifications, offerExpiredNotification(o.PickerID(), o.DeliveryID()))
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	h.effects.Notify(ctx, notifications...)
	return len(notifications), nil
}
