package queries

import (
	"errors"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/guard"
)

var ErrListDeliveryOffersQueryIsNotConstructed = errors.New(
	"ListDeliveryOffersQuery must be created via NewListDeliveryOffersQuery constructor",
)

type ListDeliveryOffersQuery struct {
	deliveryID kernel.UUID
	senderID   kernel.UUID

	guard guard.ConstructorGuard
}

func NewListDeliveryOffersQuery(deliveryID, senderID kernel.UUID) (ListDeliveryOffersQuery, error) {
	if err := errors.Join(deliveryID.Validate(), senderID.Validate()); err != nil {
		return ListDeliveryOffersQuery{}, err
	}
	return ListDeliveryOffersQuery{deliveryID: deliveryID, senderID: senderID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListDeliveryOffersQuery) Validate() error {
	return q.guard.Validate(ErrListDeliveryOffersQueryIsNotConstructed)
}

func (q ListDeliveryOffersQuery) DeliveryID() kernel.UUID { return q.deliveryID }
func (q ListDeliveryOffersQuery) SenderID() kernel.UUID   { return q.senderID }

// OfferResponse is the read model of an offer.
type OfferResponse struct {
	ID         kernel.UUID `json:"id"`
	DeliveryID kernel.UUID `json:"deliveryId"`
	PickerID   kernel.UUID `json:"pickerId"`
	Price      string      `json:"price"`
	Message    string      `json:"message"`
	Status     string      `json:"status"`
	CreatedAt  string      `json:"createdAt"`
}
