package http

import (
	"net/http"
	"strconv"
	"time"

	"parcelhub/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

// HeaderUserID carries the authenticated user, set by the gateway in front of
// this service.
const HeaderUserID = "X-User-ID"

const actorKey = "actorID"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parcelhub",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "parcelhub",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Observability counts and times every request, labelled by route pattern
// rather than raw path.
func Observability(logger logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)
			if err != nil {
				ctx.Error(err)
			}

			elapsed := time.Since(start)
			path := ctx.Path()
			if path == "" {
				path = ctx.Request().URL.Path
			}
			status := ctx.Response().Status
			method := ctx.Request().Method

			httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(elapsed.Seconds())

			logger.WithFields(logrus.Fields{
				"method":   method,
				"path":     path,
				"status":   status,
				"duration": elapsed,
			}).Info("http request")
			return nil
		}
	}
}

// RequireActor rejects requests without a valid X-User-ID.
func RequireActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		actorID, err := kernel.UUIDFromString(ctx.Request().Header.Get(HeaderUserID))
		if err != nil {
			return ctx.JSON(http.StatusUnauthorized, Error{
				Code:    http.StatusUnauthorized,
				Message: "Missing or invalid " + HeaderUserID + " header",
			})
		}
		ctx.Set(actorKey, actorID)
		return next(ctx)
	}
}

func actorFrom(ctx echo.Context) kernel.UUID {
	actorID, _ := ctx.Get(actorKey).(kernel.UUID)
	return actorID
}
