package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ListPendingDeliveriesParams defines parameters for ListPendingDeliveries.
type ListPendingDeliveriesParams struct {
	Limit  *int `form:"limit,omitempty" json:"limit,omitempty"`
	Offset *int `form:"offset,omitempty" json:"offset,omitempty"`
}

// AcceptOfferParams defines parameters for AcceptOffer.
type AcceptOfferParams struct {
	IdempotencyKey *string `json:"Idempotency-Key,omitempty"`
}

// ServerInterface represents all server handlers of /api/v1, following the
// operations of openapi.yaml.
type ServerInterface interface {
	// (GET /balance)
	GetBalance(ctx echo.Context) error
	// (POST /deliveries)
	CreateDelivery(ctx echo.Context) error
	// (GET /deliveries/pending)
	ListPendingDeliveries(ctx echo.Context, params ListPendingDeliveriesParams) error
	// (GET /deliveries/{id})
	GetDelivery(ctx echo.Context, id openapi_types.UUID) error
	// (POST /deliveries/{id}/assign)
	AssignPicker(ctx echo.Context, id openapi_types.UUID) error
	// (GET /deliveries/{id}/offers)
	ListDeliveryOffers(ctx echo.Context, id openapi_types.UUID) error
	// (POST /deliveries/{id}/offers)
	CreateOffer(ctx echo.Context, id openapi_types.UUID) error
	// (POST /deliveries/{id}/recipient-confirmation)
	ConfirmRecipient(ctx echo.Context, id openapi_types.UUID) error
	// (PATCH /deliveries/{id}/status)
	UpdateDeliveryStatus(ctx echo.Context, id openapi_types.UUID) error
	// (GET /deliveries/{id}/tracking)
	GetTracking(ctx echo.Context, id openapi_types.UUID) error
	// (POST /deliveries/{id}/tracking/location)
	UpdatePickerLocation(ctx echo.Context, id openapi_types.UUID) error
	// (POST /offers/{id}/accept)
	AcceptOffer(ctx echo.Context, id openapi_types.UUID, params AcceptOfferParams) error
	// (POST /offers/{id}/reject)
	RejectOffer(ctx echo.Context, id openapi_types.UUID) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// bindID binds the "id" path parameter shared by every resource route.
func bindID(ctx echo.Context, id *openapi_types.UUID) error {
	return runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
}

func invalidID(ctx echo.Context, err error) error {
	return badRequest(ctx, fmt.Sprintf("Invalid format for parameter id: %s", err))
}

// GetBalance converts echo context to params.
func (w *ServerInterfaceWrapper) GetBalance(ctx echo.Context) error {
	return w.Handler.GetBalance(ctx)
}

// CreateDelivery converts echo context to params.
func (w *ServerInterfaceWrapper) CreateDelivery(ctx echo.Context) error {
	return w.Handler.CreateDelivery(ctx)
}

// ListPendingDeliveries converts echo context to params.
func (w *ServerInterfaceWrapper) ListPendingDeliveries(ctx echo.Context) error {
	var err error

	var params ListPendingDeliveriesParams
	// ------------- Optional query parameter "limit" -------------

	err = runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit)
	if err != nil {
		return badRequest(ctx, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}

	// ------------- Optional query parameter "offset" -------------

	err = runtime.BindQueryParameter("form", true, false, "offset", ctx.QueryParams(), &params.Offset)
	if err != nil {
		return badRequest(ctx, fmt.Sprintf("Invalid format for parameter offset: %s", err))
	}

	return w.Handler.ListPendingDeliveries(ctx, params)
}

// GetDelivery converts echo context to params.
func (w *ServerInterfaceWrapper) GetDelivery(ctx echo.Context) error {
	var id openapi_types.UUID
	if err := bindID(ctx, &id); err != nil {
		return invalidID(ctx, err)
	}
	return w.Handler.GetDelivery(ctx, id)
}

// AssignPicker converts echo context to params.
func (w *ServerInterfaceWrapper) AssignPicker(ctx echo.Context) error {
	var id openapi_types.UUID
	if err := bindID(ctx, &id); err != nil {
		return invalidID(ctx, err)
	}
	return w.Handler.AssignPicker(ctx, id)
}

// ListDeliveryOffers converts echo context to params.
func (w *ServerInterfaceWrapper) ListDeliveryOffers(ctx echo.Context) error {
	var id openapi_types.UUID
	if err := bindID(ctx, &id); err != nil {
		return invalidID(ctx, err)
	}
	return w.Handler.ListDeliveryOffers(ctx, id)
}

// CreateOffer converts echo context to params.
func (w *ServerInterfaceWrapper) CreateOffer(ctx echo.Context) error {
	var id openapi_types.UUID
	if err := bindID(ctx, &id); err != nil {
		return invalidID(ctx, err)
	}
	return w.Handler.CreateOffer(ctx, id)
}

// ConfirmRecipient converts echo context to params.
func (w *ServerInterfaceWrapper) ConfirmRecipient(ctx echo.Context) error {
	var id openapi_types.UUID
	if err := bindID(ctx, &id); err != nil {
		return invalidID(ctx, err)
	}
	return w.Handler.ConfirmRecipient(ctx, id)
}

// UpdateDeliveryStatus converts echo context to params.
func (w *ServerInterfaceWrapper) UpdateDeliveryStatus(ctx echo.Context) error {
	var id openapi_types.UUID
	if err := bindID(ctx, &id); err != nil {
		return invalidID(ctx, err)
	}
	return w.Handler.UpdateDeliveryStatus(ctx, id)
}

// GetTracking converts echo context to params.
func (w *ServerInterfaceWrapper) GetTracking(ctx echo.Context) error {
	var id openapi_types.UUID
	if err := bindID(ctx, &id); err != nil {
		return invalidID(ctx, err)
	}
	return w.Handler.GetTracking(ctx, id)
}

// UpdatePickerLocation converts echo context to params.
func (w *ServerInterfaceWrapper) UpdatePickerLocation(ctx echo.Context) error {
	var id openapi_types.UUID
	if err := bindID(ctx, &id); err != nil {
		return invalidID(ctx, err)
	}
	return w.Handler.UpdatePickerLocation(ctx, id)
}

// AcceptOffer converts echo context to params.
func (w *ServerInterfaceWrapper) AcceptOffer(ctx echo.Context) error {
	var id openapi_types.UUID
	if err := bindID(ctx, &id); err != nil {
		return invalidID(ctx, err)
	}

	var params AcceptOfferParams
	headers := ctx.Request().Header
	// ------------- Optional header parameter "Idempotency-Key" -------------
	if valueList, found := headers[http.CanonicalHeaderKey(HeaderIdempotencyKey)]; found {
		var key string
		if n := len(valueList); n != 1 {
			return badRequest(ctx, fmt.Sprintf("Expected one value for %s, got %d", HeaderIdempotencyKey, n))
		}

		err := runtime.BindStyledParameterWithOptions("simple", HeaderIdempotencyKey, valueList[0], &key,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Explode: false, Required: false})
		if err != nil {
			return badRequest(ctx, fmt.Sprintf("Invalid format for parameter %s: %s", HeaderIdempotencyKey, err))
		}

		params.IdempotencyKey = &key
	}

	return w.Handler.AcceptOffer(ctx, id, params)
}

// RejectOffer converts echo context to params.
func (w *ServerInterfaceWrapper) RejectOffer(ctx echo.Context) error {
	var id openapi_types.UUID
	if err := bindID(ctx, &id); err != nil {
		return invalidID(ctx, err)
	}
	return w.Handler.RejectOffer(ctx, id)
}

// EchoRouter is the part of echo.Echo and echo.Group the handlers are mounted on.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, and prepends BaseURL to the
// paths, so that the paths can be served under a prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/balance", wrapper.GetBalance)
	router.POST(baseURL+"/deliveries", wrapper.CreateDelivery)
	router.GET(baseURL+"/deliveries/pending", wrapper.ListPendingDeliveries)
	router.GET(baseURL+"/deliveries/:id", wrapper.GetDelivery)
	router.POST(baseURL+"/deliveries/:id/assign", wrapper.AssignPicker)
	router.GET(baseURL+"/deliveries/:id/offers", wrapper.ListDeliveryOffers)
	router.POST(baseURL+"/deliveries/:id/offers", wrapper.CreateOffer)
	router.POST(baseURL+"/deliveries/:id/recipient-confirmation", wrapper.ConfirmRecipient)
	router.PATCH(baseURL+"/deliveries/:id/status", wrapper.UpdateDeliveryStatus)
	router.GET(baseURL+"/deliveries/:id/tracking", wrapper.GetTracking)
	router.POST(baseURL+"/deliveries/:id/tracking/location", wrapper.UpdatePickerLocation)
	router.POST(baseURL+"/offers/:id/accept", wrapper.AcceptOffer)
	router.POST(baseURL+"/offers/:id/reject", wrapper.RejectOffer)
}
