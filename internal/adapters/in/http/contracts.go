package http

import (
	"context"

	"parcelhub/internal/core/application/usecases/commands"
	"parcelhub/internal/core/application/usecases/queries"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/tracking"
)

type CreateDeliveryHandler interface {
	Handle(ctx context.Context, cmd commands.CreateDeliveryCommand) error
}

type CreateOfferHandler interface {
	Handle(ctx context.Context, cmd commands.CreateOfferCommand) error
}

type AcceptOfferHandler interface {
	Handle(ctx context.Context, cmd commands.AcceptOfferCommand) (commands.AcceptOfferResult, error)
}

type RejectOfferHandler interface {
	Handle(ctx context.Context, cmd commands.RejectOfferCommand) error
}

type AssignPickerHandler interface {
	Handle(ctx context.Context, cmd commands.AssignPickerCommand) (kernel.UUID, error)
}

type UpdateDeliveryStatusHandler interface {
	Handle(ctx context.Context, cmd commands.UpdateDeliveryStatusCommand) error
}

type ConfirmRecipientHandler interface {
	Handle(ctx context.Context, cmd commands.ConfirmRecipientCommand) error
}

type UpdatePickerLocationHandler interface {
	Handle(ctx context.Context, cmd commands.UpdatePickerLocationCommand) error
}

type GetDeliveryHandler interface {
	Handle(ctx context.Context, query queries.GetDeliveryQuery) (queries.DeliveryResponse, error)
}

type ListPendingDeliveriesHandler interface {
	Handle(ctx context.Context, query queries.ListPendingDeliveriesQuery) ([]queries.DeliveryResponse, error)
}

type ListDeliveryOffersHandler interface {
	Handle(ctx context.Context, query queries.ListDeliveryOffersQuery) ([]queries.OfferResponse, error)
}

type GetTrackingSnapshotHandler interface {
	Handle(ctx context.Context, query queries.GetTrackingSnapshotQuery) (tracking.Snapshot, error)
}

type GetBalanceHandler interface {
	Handle(ctx context.Context, query queries.GetBalanceQuery) (queries.BalanceResponse, error)
}

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	CreateDelivery        CreateDeliveryHandler
	CreateOffer           CreateOfferHandler
	AcceptOffer           AcceptOfferHandler
	RejectOffer           RejectOfferHandler
	AssignPicker          AssignPickerHandler
	UpdateDeliveryStatus  UpdateDeliveryStatusHandler
	ConfirmRecipient      ConfirmRecipientHandler
	UpdatePickerLocation  UpdatePickerLocationHandler
	GetDelivery           GetDeliveryHandler
	ListPendingDeliveries ListPendingDeliveriesHandler
	ListDeliveryOffers    ListDeliveryOffersHandler
	GetTrackingSnapshot   GetTrackingSnapshotHandler
	GetBalance            GetBalanceHandler
}
