package queries

import (
	"errors"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/guard"
)

var ErrGetDeliveryQueryIsNotConstructed = errors.New(
	"GetDeliveryQuery must be created via NewGetDeliveryQuery constructor",
)

// GetDeliveryQuery reads one delivery on behalf of actorID.
type GetDeliveryQuery struct {
	deliveryID kernel.UUID
	actorID    kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetDeliveryQuery(deliveryID, actorID kernel.UUID) (GetDeliveryQuery, error) {
	if err := errors.Join(deliveryID.Validate(), actorID.Validate()); err != nil {
		return GetDeliveryQuery{}, err
	}
	return GetDeliveryQuery{deliveryID: deliveryID, actorID: actorID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryQueryIsNotConstructed)
}

func (q GetDeliveryQuery) DeliveryID() kernel.UUID { return q.deliveryID }
func (q GetDeliveryQuery) ActorID() kernel.UUID    { return q.actorID }
