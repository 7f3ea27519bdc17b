// Package http is the REST surface of the service. The acting user of every
// /api/v1 request is taken from the X-User-ID header.
package http

import (
	"net/http"

	"parcelhub/internal/core/application/usecases/commands"
	"parcelhub/internal/core/application/usecases/queries"
	"parcelhub/internal/core/domain/model/delivery"
	"parcelhub/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// HeaderIdempotencyKey makes offer acceptance safe to retry.
const HeaderIdempotencyKey = "Idempotency-Key"

var _ ServerInterface = (*Server)(nil)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	logger   logrus.FieldLogger
}

func NewServer(handlers Handlers, logger logrus.FieldLogger) *Server {
	return &Server{
		handlers: handlers,
		logger:   logger.WithField("component", "http"),
	}
}

// Register mounts the API, health, metrics and API description routes.
// Requests to /api/v1 are validated against openapi.yaml.
func (s *Server) Register(e *echo.Echo) error {
	doc, err := GetSwagger()
	if err != nil {
		return err
	}
	validator, err := RequestValidator(doc)
	if err != nil {
		return err
	}

	e.GET("/health", func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/openapi.json", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, doc)
	})

	RegisterHandlers(e.Group("/api/v1", RequireActor, validator), s)
	return nil
}

// toID turns a bound path parameter into a domain identifier; the nil UUID is
// rejected.
func toID(id openapi_types.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}

func toPlace(l Location) (kernel.Place, error) {
	point, err := kernel.NewGeoPoint(l.Lat, l.Lng)
	if err != nil {
		return kernel.Place{}, err
	}
	return kernel.NewPlace(point, l.Address)
}

// CreateDelivery handles POST /api/v1/deliveries.
func (s *Server) CreateDelivery(ctx echo.Context) error {
	var body NewDelivery
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	var recipientID *kernel.UUID
	if body.RecipientID != nil && *body.RecipientID != "" {
		id, err := kernel.UUIDFromString(*body.RecipientID)
		if err != nil {
			return badRequest(ctx, "Invalid recipientId")
		}
		recipientID = &id
	}
	price, err := kernel.NewMoney(body.Price)
	if err != nil {
		return s.fail(ctx, err)
	}
	from, err := toPlace(body.FromLocation)
	if err != nil {
		return s.fail(ctx, err)
	}
	to, err := toPlace(body.ToLocation)
	if err != nil {
		return s.fail(ctx, err)
	}

	actorID := actorFrom(ctx)
	cmd, err := commands.NewCreateDeliveryCommand(kernel.NewUUID(), actorID, recipientID, price, from, to, body.Description)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.CreateDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondWithDelivery(ctx, http.StatusCreated, cmd.DeliveryID(), actorID)
}

func (s *Server) respondWithDelivery(ctx echo.Context, code int, deliveryID, actorID kernel.UUID) error {
	query, err := queries.NewGetDeliveryQuery(deliveryID, actorID)
	if err != nil {
		return s.fail(ctx, err)
	}
	response, err := s.handlers.GetDelivery.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(code, response)
}

// GetDelivery handles GET /api/v1/deliveries/:id.
func (s *Server) GetDelivery(ctx echo.Context, id openapi_types.UUID) error {
	deliveryID, err := toID(id)
	if err != nil {
		return badRequest(ctx, "Invalid delivery id")
	}
	return s.respondWithDelivery(ctx, http.StatusOK, deliveryID, actorFrom(ctx))
}

// ListPendingDeliveries handles GET /api/v1/deliveries/pending?limit=&offset=.
func (s *Server) ListPendingDeliveries(ctx echo.Context, params ListPendingDeliveriesParams) error {
	var limit, offset int
	if params.Limit != nil {
		limit = *params.Limit
	}
	if params.Offset != nil {
		offset = *params.Offset
	}

	query, err := queries.NewListPendingDeliveriesQuery(limit, offset)
	if err != nil {
		return s.fail(ctx, err)
	}
	deliveries, err := s.handlers.ListPendingDeliveries.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, deliveries)
}

// CreateOffer handles POST /api/v1/deliveries/:id/offers.
func (s *Server) CreateOffer(ctx echo.Context, id openapi_types.UUID) error {
	deliveryID, err := toID(id)
	if err != nil {
		return badRequest(ctx, "Invalid delivery id")
	}
	var body NewOffer
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	price, err := kernel.NewMoney(body.Price)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCreateOfferCommand(kernel.NewUUID(), deliveryID, actorFrom(ctx), price, body.Message)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.CreateOffer.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, Created{ID: cmd.OfferID().String()})
}

// ListDeliveryOffers handles GET /api/v1/deliveries/:id/offers.
func (s *Server) ListDeliveryOffers(ctx echo.Context, id openapi_types.UUID) error {
	deliveryID, err := toID(id)
	if err != nil {
		return badRequest(ctx, "Invalid delivery id")
	}
	query, err := queries.NewListDeliveryOffersQuery(deliveryID, actorFrom(ctx))
	if err != nil {
		return s.fail(ctx, err)
	}
	offers, err := s.handlers.ListDeliveryOffers.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, offers)
}

// AcceptOffer handles POST /api/v1/offers/:id/accept.
func (s *Server) AcceptOffer(ctx echo.Context, id openapi_types.UUID, params AcceptOfferParams) error {
	offerID, err := toID(id)
	if err != nil {
		return badRequest(ctx, "Invalid offer id")
	}
	var key string
	if params.IdempotencyKey != nil {
		key = *params.IdempotencyKey
	}

	cmd, err := commands.NewAcceptOfferCommand(offerID, actorFrom(ctx), key)
	if err != nil {
		return s.fail(ctx, err)
	}
	result, err := s.handlers.AcceptOffer.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, AcceptedOffer{
		DeliveryID: result.DeliveryID.String(),
		OfferID:    result.OfferID.String(),
		PaymentID:  result.PaymentID.String(),
		Replayed:   result.Replayed,
	})
}

// RejectOffer handles POST /api/v1/offers/:id/reject.
func (s *Server) RejectOffer(ctx echo.Context, id openapi_types.UUID) error {
	offerID, err := toID(id)
	if err != nil {
		return badRequest(ctx, "Invalid offer id")
	}
	cmd, err := commands.NewRejectOfferCommand(offerID, actorFrom(ctx))
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.RejectOffer.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// AssignPicker handles POST /api/v1/deliveries/:id/assign.
func (s *Server) AssignPicker(ctx echo.Context, id openapi_types.UUID) error {
	deliveryID, err := toID(id)
	if err != nil {
		return badRequest(ctx, "Invalid delivery id")
	}
	var body PickerAssignment
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	pickerID, err := kernel.UUIDFromString(body.PickerID)
	if err != nil {
		return badRequest(ctx, "Invalid pickerId")
	}

	cmd, err := commands.NewAssignPickerCommand(deliveryID, actorFrom(ctx), pickerID)
	if err != nil {
		return s.fail(ctx, err)
	}
	paymentID, err := s.handlers.AssignPicker.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, AssignedPicker{
		DeliveryID: deliveryID.String(),
		PickerID:   pickerID.String(),
		PaymentID:  paymentID.String(),
	})
}

// UpdateDeliveryStatus handles PATCH /api/v1/deliveries/:id/status.
func (s *Server) UpdateDeliveryStatus(ctx echo.Context, id openapi_types.UUID) error {
	deliveryID, err := toID(id)
	if err != nil {
		return badRequest(ctx, "Invalid delivery id")
	}
	var body StatusChange
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	status, err := delivery.ParseStatus(body.Status)
	if err != nil {
		return s.fail(ctx, err)
	}

	actorID := actorFrom(ctx)
	cmd, err := commands.NewUpdateDeliveryStatusCommand(deliveryID, actorID, status)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.UpdateDeliveryStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return s.respondWithDelivery(ctx, http.StatusOK, deliveryID, actorID)
}

// ConfirmRecipient handles POST /api/v1/deliveries/:id/recipient-confirmation.
func (s *Server) ConfirmRecipient(ctx echo.Context, id openapi_types.UUID) error {
	deliveryID, err := toID(id)
	if err != nil {
		return badRequest(ctx, "Invalid delivery id")
	}
	var body RecipientConfirmation
	if err = ctx.Bind(&body); err != nil || body.Confirmed == nil {
		return badRequest(ctx, "Invalid request body: confirmed is required")
	}

	cmd, err := commands.NewConfirmRecipientCommand(deliveryID, actorFrom(ctx), *body.Confirmed)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.ConfirmRecipient.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetTracking handles GET /api/v1/deliveries/:id/tracking.
func (s *Server) GetTracking(ctx echo.Context, id openapi_types.UUID) error {
	deliveryID, err := toID(id)
	if err != nil {
		return badRequest(ctx, "Invalid delivery id")
	}
	query, err := queries.NewGetTrackingSnapshotQuery(deliveryID, actorFrom(ctx))
	if err != nil {
		return s.fail(ctx, err)
	}
	snapshot, err := s.handlers.GetTrackingSnapshot.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, snapshot)
}

// UpdatePickerLocation handles POST /api/v1/deliveries/:id/tracking/location.
func (s *Server) UpdatePickerLocation(ctx echo.Context, id openapi_types.UUID) error {
	deliveryID, err := toID(id)
	if err != nil {
		return badRequest(ctx, "Invalid delivery id")
	}
	var body PickerPosition
	if err = ctx.Bind(&body); err != nil || body.Lat == nil || body.Lng == nil {
		return badRequest(ctx, "Invalid request body: lat and lng are required")
	}

	cmd, err := commands.NewUpdatePickerLocationCommand(deliveryID, actorFrom(ctx), *body.Lat, *body.Lng)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.UpdatePickerLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetBalance handles GET /api/v1/balance for the acting user.
func (s *Server) GetBalance(ctx echo.Context) error {
	query, err := queries.NewGetBalanceQuery(actorFrom(ctx))
	if err != nil {
		return s.fail(ctx, err)
	}
	balance, err := s.handlers.GetBalance.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, balance)
}
