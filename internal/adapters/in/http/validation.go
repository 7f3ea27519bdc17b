package http

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// GetSwagger returns the validated API description served under /openapi.json.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("error loading API document: %w", err)
	}
	if err = doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid API document: %w", err)
	}
	return doc, nil
}

// RequestValidator checks parameters and bodies of documented routes against
// doc before they reach a handler. Undocumented routes pass through untouched.
func RequestValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build API router: %w", err)
	}
	options := &openapi3filter.Options{
		MultiError:         true,
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			route, pathParams, err := router.FindRoute(req)
			if errors.Is(err, routers.ErrPathNotFound) || errors.Is(err, routers.ErrMethodNotAllowed) {
				return next(ctx)
			}
			if err != nil {
				return badRequest(ctx, err.Error())
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: validationMessage(err)})
			}
			return next(ctx)
		}
	}, nil
}

// validationMessage keeps the first line of each failure; schema errors carry
// the whole offending document otherwise.
func validationMessage(err error) string {
	var multi openapi3.MultiError
	if errors.As(err, &multi) && len(multi) > 0 {
		err = multi[0]
	}
	var requestErr *openapi3filter.RequestError
	if errors.As(err, &requestErr) {
		if requestErr.Parameter != nil {
			return fmt.Sprintf("Invalid parameter %s: %s", requestErr.Parameter.Name, requestErr.Reason)
		}
		if requestErr.RequestBody != nil {
			var schemaErr *openapi3.SchemaError
			if errors.As(requestErr.Err, &schemaErr) {
				return "Invalid request body: " + schemaErr.Reason
			}
			return "Invalid request body: " + requestErr.Reason
		}
	}
	return "Invalid request"
}
