package cmd

import (
	httpin "parcelhub/internal/adapters/in/http"
	"parcelhub/internal/adapters/in/ws"
	"parcelhub/internal/adapters/out/postgres"
	"parcelhub/internal/core/application/usecases/commands"
	"parcelhub/internal/core/application/usecases/queries"
	"parcelhub/internal/core/domain/services"
	"parcelhub/internal/core/ports"
	"parcelhub/internal/jobs"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Collaborators are the outbound adapters chosen at startup.
type Collaborators struct {
	Notifier ports.Notifier
	Chats    ports.ChatProvisioner
	Rooms    ports.RoomBroker
}

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	settler    services.OfferSettler
	effects    commands.SideEffects
	rooms      ports.RoomBroker
	logger     logrus.FieldLogger
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, collaborators Collaborators, logger logrus.FieldLogger) CompositionRoot {
	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		settler:    services.NewOfferSettler(),
		effects:    commands.NewSideEffects(collaborators.Notifier, collaborators.Chats, collaborators.Rooms, logger),
		rooms:      collaborators.Rooms,
		logger:     logger,
	}
}

func (c *CompositionRoot) deliveryUoWFactory() commands.DeliveryUoWFactory {
	return FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) offerUoWFactory() commands.OfferUoWFactory {
	return FuncOfferUoWFactory(func() commands.OfferUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) trackingUoWFactory() commands.TrackingUoWFactory {
	return FuncTrackingUoWFactory(func() commands.TrackingUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) unitOfWorkFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateDeliveryCommandHandler() *commands.CreateDeliveryCommandHandler {
	h := commands.NewCreateDeliveryCommandHandler(c.deliveryUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateCreateOfferCommandHandler() *commands.CreateOfferCommandHandler {
	h := commands.NewCreateOfferCommandHandler(c.offerUoWFactory(), c.effects)
	return &h
}

func (c *CompositionRoot) CreateAcceptOfferCommandHandler() *commands.AcceptOfferCommandHandler {
	h := commands.NewAcceptOfferCommandHandler(c.unitOfWorkFactory(), c.settler, c.effects)
	return &h
}

func (c *CompositionRoot) CreateRejectOfferCommandHandler() *commands.RejectOfferCommandHandler {
	h := commands.NewRejectOfferCommandHandler(c.offerUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateAssignPickerCommandHandler() *commands.AssignPickerCommandHandler {
	h := commands.NewAssignPickerCommandHandler(c.unitOfWorkFactory(), c.settler, c.effects)
	return &h
}

func (c *CompositionRoot) CreateUpdateDeliveryStatusCommandHandler() *commands.UpdateDeliveryStatusCommandHandler {
	h := commands.NewUpdateDeliveryStatusCommandHandler(c.unitOfWorkFactory(), c.effects)
	return &h
}

func (c *CompositionRoot) CreateConfirmRecipientCommandHandler() *commands.ConfirmRecipientCommandHandler {
	h := commands.NewConfirmRecipientCommandHandler(c.unitOfWorkFactory(), c.effects)
	return &h
}

func (c *CompositionRoot) CreateUpdatePickerLocationCommandHandler() *commands.UpdatePickerLocationCommandHandler {
	h := commands.NewUpdatePickerLocationCommandHandler(c.trackingUoWFactory(), c.effects)
	return &h
}

func (c *CompositionRoot) CreateExpireStaleOffersCommandHandler() *commands.ExpireStaleOffersCommandHandler {
	h := commands.NewExpireStaleOffersCommandHandler(c.offerUoWFactory(), c.effects)
	return &h
}

func (c *CompositionRoot) CreateGetDeliveryQueryHandler() queries.GetDeliveryQueryHandler {
	return queries.NewGetDeliveryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListPendingDeliveriesQueryHandler() queries.ListPendingDeliveriesQueryHandler {
	return queries.NewListPendingDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListDeliveryOffersQueryHandler() queries.ListDeliveryOffersQueryHandler {
	return queries.NewListDeliveryOffersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetTrackingSnapshotQueryHandler() queries.GetTrackingSnapshotQueryHandler {
	return queries.NewGetTrackingSnapshotQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetBalanceQueryHandler() queries.GetBalanceQueryHandler {
	return queries.NewGetBalanceQueryHandler(c.gormDB)
}

// HTTPServer wires every REST use case.
func (c *CompositionRoot) HTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateDelivery:        c.CreateCreateDeliveryCommandHandler(),
		CreateOffer:           c.CreateCreateOfferCommandHandler(),
		AcceptOffer:           c.CreateAcceptOfferCommandHandler(),
		RejectOffer:           c.CreateRejectOfferCommandHandler(),
		AssignPicker:          c.CreateAssignPickerCommandHandler(),
		UpdateDeliveryStatus:  c.CreateUpdateDeliveryStatusCommandHandler(),
		ConfirmRecipient:      c.CreateConfirmRecipientCommandHandler(),
		UpdatePickerLocation:  c.CreateUpdatePickerLocationCommandHandler(),
		GetDelivery:           c.CreateGetDeliveryQueryHandler(),
		ListPendingDeliveries: c.CreateListPendingDeliveriesQueryHandler(),
		ListDeliveryOffers:    c.CreateListDeliveryOffersQueryHandler(),
		GetTrackingSnapshot:   c.CreateGetTrackingSnapshotQueryHandler(),
		GetBalance:            c.CreateGetBalanceQueryHandler(),
	}, c.logger)
}

func (c *CompositionRoot) TrackingHub() *ws.Hub {
	return ws.NewHub(
		c.rooms,
		c.CreateGetTrackingSnapshotQueryHandler(),
		c.CreateUpdatePickerLocationCommandHandler(),
		c.CreateUpdateDeliveryStatusCommandHandler(),
		c.logger,
		ws.AllowedOrigins(c.cfg.WSAllowedOrigins...),
	)
}

func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return jobs.NewJobManager(jobs.Config{
		OfferTTL:            c.cfg.OfferTTL,
		OfferExpirySchedule: c.cfg.OfferExpirySchedule,
	}, c.CreateExpireStaleOffersCommandHandler(), c.logger)
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncOfferUoWFactory func() commands.OfferUoW

func (f FuncOfferUoWFactory) Create() commands.OfferUoW {
	return f()
}

type FuncTrackingUoWFactory func() commands.TrackingUoW

func (f FuncTrackingUoWFactory) Create() commands.TrackingUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
