// Package ws serves the tracking room protocol over websockets. A connection
// joins the rooms of deliveries it may view; room events reach it through the
// RoomBroker, so members connected to different instances see the same
// stream.
package ws

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"parcelhub/internal/core/application/usecases/commands"
	"parcelhub/internal/core/application/usecases/queries"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/tracking"
	"parcelhub/internal/core/ports"
	"parcelhub/internal/pkg/errs"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

// HeaderUserID identifies the connecting user; it is set by the gateway.
const HeaderUserID = "X-User-ID"

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

var (
	connectionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "parcelhub",
		Subsystem: "tracking",
		Name:      "connections",
		Help:      "Open tracking websocket connections.",
	})
	droppedMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "parcelhub",
		Subsystem: "tracking",
		Name:      "dropped_messages_total",
		Help:      "Messages dropped because a connection's send queue was full.",
	})
)

type SnapshotHandler interface {
	Handle(ctx context.Context, query queries.GetTrackingSnapshotQuery) (tracking.Snapshot, error)
}

type LocationHandler interface {
	Handle(ctx context.Context, cmd commands.UpdatePickerLocationCommand) error
}

type StatusHandler interface {
	Handle(ctx context.Context, cmd commands.UpdateDeliveryStatusCommand) error
}

type Hub struct {
	broker    ports.RoomBroker
	snapshots SnapshotHandler
	locations LocationHandler
	statuses  StatusHandler
	origins   map[string]struct{}
	upgrader  websocket.Upgrader
	logger    logrus.FieldLogger
}

type Option func(*Hub)

// AllowedOrigins restricts the browser origins that may open a connection.
// Without it every origin is accepted and the gateway in front of the service
// is expected to enforce CORS.
func AllowedOrigins(origins ...string) Option {
	return func(h *Hub) {
		for _, origin := range origins {
			if origin = strings.TrimSpace(origin); origin != "" {
				h.origins[strings.ToLower(origin)] = struct{}{}
			}
		}
	}
}

func NewHub(
	broker ports.RoomBroker,
	snapshots SnapshotHandler,
	locations LocationHandler,
	statuses StatusHandler,
	logger logrus.FieldLogger,
	opts ...Option,
) *Hub {
	h := &Hub{
		broker:    broker,
		snapshots: snapshots,
		locations: locations,
		statuses:  statuses,
		origins:   make(map[string]struct{}),
		logger:    logger.WithField("component", "tracking-ws"),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin accepts requests without an Origin header (non-browser clients).
func (h *Hub) checkOrigin(r *http.Request) bool {
	if len(h.origins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	_, ok := h.origins[strings.ToLower(origin)]
	return ok
}

// Serve handles GET /ws/tracking.
func (h *Hub) Serve(ctx echo.Context) error {
	userID, err := kernel.UUIDFromString(ctx.Request().Header.Get(HeaderUserID))
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, echo.Map{"error": "missing or invalid " + HeaderUserID + " header"})
	}

	socket, err := h.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return err
	}

	connCtx, cancel := context.WithCancel(context.WithoutCancel(ctx.Request().Context()))
	c := newConn(h, socket, userID, h.logger.WithField("user_id", userID.String()))

	connectionsGauge.Inc()
	defer connectionsGauge.Dec()

	go c.writeLoop()
	c.readLoop(connCtx)
	cancel()
	c.close()
	return nil
}

// clientError hides unexpected failures from clients; errors of the domain
// taxonomy are passed through.
func clientError(err error) string {
	for _, known := range []error{
		errs.ErrObjectNotFound,
		errs.ErrForbidden,
		errs.ErrInvalidTransition,
		errs.ErrConflict,
		errs.ErrValueIsInvalid,
		errs.ErrValueIsOutOfRange,
		errs.ErrValueIsRequired,
	} {
		if errors.Is(err, known) {
			return err.Error()
		}
	}
	return "internal error"
}
