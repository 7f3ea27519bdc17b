package queries

import (
	"errors"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/guard"
)

var ErrGetTrackingSnapshotQueryIsNotConstructed = errors.New(
	"GetTrackingSnapshotQuery must be created via NewGetTrackingSnapshotQuery constructor",
)

// GetTrackingSnapshotQuery reads the tracking state of a delivery for callerID.
//
// Example:
//
//	query, err := NewGetTrackingSnapshotQuery(deliveryID, callerID)
//	if err != nil {
//	    return err
//	}
//	snapshot, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrForbidden) {
//	    // caller is not the sender, the recipient or the picker
//	}
type GetTrackingSnapshotQuery struct {
	deliveryID kernel.UUID
	callerID   kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetTrackingSnapshotQuery(deliveryID, callerID kernel.UUID) (GetTrackingSnapshotQuery, error) {
	if err := errors.Join(deliveryID.Validate(), callerID.Validate()); err != nil {
		return GetTrackingSnapshotQuery{}, err
	}
	return GetTrackingSnapshotQuery{deliveryID: deliveryID, callerID: callerID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetTrackingSnapshotQuery) Validate() error {
	return q.guard.Validate(ErrGetTrackingSnapshotQueryIsNotConstructed)
}

func (q GetTrackingSnapshotQuery) DeliveryID() kernel.UUID { return q.deliveryID }
func (q GetTrackingSnapshotQuery) CallerID() kernel.UUID   { return q.callerID }
