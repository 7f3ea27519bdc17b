package commands

import (
	"errors"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/guard"
)

var ErrUpdatePickerLocationCommandIsNotConstructed = errors.New(
	"UpdatePickerLocationCommand must be created via NewUpdatePickerLocationCommand constructor",
)

type UpdatePickerLocationCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	actorID    kernel.UUID
	point      kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewUpdatePickerLocationCommand checks the coordinates are within range.
func NewUpdatePickerLocationCommand(deliveryID, actorID kernel.UUID, lat, lng float64) (UpdatePickerLocationCommand, error) {
	point, pointErr := kernel.NewGeoPoint(lat, lng)
	if err := errors.Join(deliveryID.Validate(), actorID.Validate(), pointErr); err != nil {
		return UpdatePickerLocationCommand{}, err
	}

	return UpdatePickerLocationCommand{
		deliveryID: deliveryID,
		actorID:    actorID,
		point:      point,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdatePickerLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePickerLocationCommandIsNotConstructed)
}

func (c UpdatePickerLocationCommand) DeliveryID() kernel.UUID { return c.deliveryID }
func (c UpdatePickerLocationCommand) ActorID() kernel.UUID    { return c.actorID }
func (c UpdatePickerLocationCommand) Point() kernel.GeoPoint  { return c.point }
