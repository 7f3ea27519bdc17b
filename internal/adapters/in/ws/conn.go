package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"parcelhub/internal/core/application/usecases/commands"
	"parcelhub/internal/core/application/usecases/queries"
	"parcelhub/internal/core/domain/model/delivery"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/tracking"
	"parcelhub/internal/core/ports"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// conn is one client connection. The read loop owns rooms; the write loop is
// the only goroutine writing to the socket.
type conn struct {
	hub    *Hub
	socket *websocket.Conn
	userID kernel.UUID
	logger logrus.FieldLogger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	rooms map[kernel.UUID]ports.RoomSubscription
	wg    sync.WaitGroup
}

func newConn(hub *Hub, socket *websocket.Conn, userID kernel.UUID, logger logrus.FieldLogger) *conn {
	return &conn{
		hub:    hub,
		socket: socket,
		userID: userID,
		logger: logger,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		rooms:  make(map[kernel.UUID]ports.RoomSubscription),
	}
}

func (c *conn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		for deliveryID, sub := range c.rooms {
			_ = sub.Close()
			delete(c.rooms, deliveryID)
		}
		c.wg.Wait()
		_ = c.socket.Close()
	})
}

func (c *conn) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.socket.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case payload := <-c.send:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.logger.WithError(err).Debug("write failed")
				return
			}
		case <-ticker.C:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *conn) readLoop(ctx context.Context) {
	c.socket.SetReadLimit(maxMessageSize)
	_ = c.socket.SetReadDeadline(time.Now().Add(pongWait))
	c.socket.SetPongHandler(func(string) error {
		return c.socket.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.WithError(err).Debug("connection closed unexpectedly")
			}
			return
		}

		var msg clientMessage
		if err = json.Unmarshal(payload, &msg); err != nil {
			c.sendError("malformed message")
			continue
		}
		c.dispatch(ctx, msg)
	}
}

func (c *conn) dispatch(ctx context.Context, msg clientMessage) {
	var err error
	switch msg.Event {
	case tracking.EventJoinTracking:
		err = c.join(ctx, msg.Data)
	case tracking.EventLeaveTracking:
		err = c.leave(msg.Data)
	case tracking.EventUpdateLocation:
		err = c.updateLocation(ctx, msg.Data)
	case tracking.EventUpdateStatus:
		err = c.updateStatus(ctx, msg.Data)
	default:
		err = fmt.Errorf("%w: unknown event %q", errBadMessage, msg.Event)
	}

	if err != nil {
		if errors.Is(err, errBadMessage) {
			c.sendError(err.Error())
			return
		}
		c.logger.WithError(err).WithField("event", msg.Event).Debug("tracking request rejected")
		c.sendError(clientError(err))
	}
}

var (
	errBadMessage   = errors.New("bad message")
	errUserMismatch = fmt.Errorf("%w: userId does not match the connection", errBadMessage)
)

func decode[T any](data json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("%w: %v", errBadMessage, err)
	}
	return v, nil
}

func parseDelivery(raw string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, fmt.Errorf("%w: invalid deliveryId", errBadMessage)
	}
	return id, nil
}

// checkUser accepts an omitted userId; a present one must be the connection's.
func (c *conn) checkUser(raw string) error {
	if raw == "" || raw == c.userID.String() {
		return nil
	}
	return errUserMismatch
}

// join authorizes the caller, subscribes, and only then reads the snapshot
// sent as tracking-data, so no event published after it is missed.
func (c *conn) join(ctx context.Context, data json.RawMessage) error {
	msg, err := decode[joinTracking](data)
	if err != nil {
		return err
	}
	if err = c.checkUser(msg.UserID); err != nil {
		return err
	}
	deliveryID, err := parseDelivery(msg.DeliveryID)
	if err != nil {
		return err
	}

	query, err := queries.NewGetTrackingSnapshotQuery(deliveryID, c.userID)
	if err != nil {
		return err
	}
	if _, err = c.hub.snapshots.Handle(ctx, query); err != nil {
		return err
	}

	if _, joined := c.rooms[deliveryID]; !joined {
		sub, subErr := c.hub.broker.Subscribe(ctx, deliveryID)
		if subErr != nil {
			return subErr
		}
		c.rooms[deliveryID] = sub
		c.wg.Add(1)
		go c.forward(sub)
	}

	snapshot, err := c.hub.snapshots.Handle(ctx, query)
	if err != nil {
		return err
	}
	c.sendEvent(tracking.EventTrackingData, snapshot)
	return nil
}

func (c *conn) forward(sub ports.RoomSubscription) {
	defer c.wg.Done()
	for event := range sub.Events() {
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		c.enqueue(payload)
	}
}

func (c *conn) leave(data json.RawMessage) error {
	msg, err := decode[leaveTracking](data)
	if err != nil {
		return err
	}
	deliveryID, err := parseDelivery(msg.DeliveryID)
	if err != nil {
		return err
	}

	if sub, ok := c.rooms[deliveryID]; ok {
		delete(c.rooms, deliveryID)
		return sub.Close()
	}
	return nil
}

func (c *conn) updateLocation(ctx context.Context, data json.RawMessage) error {
	msg, err := decode[updateLocation](data)
	if err != nil {
		return err
	}
	if err = c.checkUser(msg.UserID); err != nil {
		return err
	}
	deliveryID, err := parseDelivery(msg.DeliveryID)
	if err != nil {
		return err
	}
	if msg.Lat == nil || msg.Lng == nil {
		return fmt.Errorf("%w: lat and lng are required", errBadMessage)
	}

	cmd, err := commands.NewUpdatePickerLocationCommand(deliveryID, c.userID, *msg.Lat, *msg.Lng)
	if err != nil {
		return err
	}
	return c.hub.locations.Handle(ctx, cmd)
}

func (c *conn) updateStatus(ctx context.Context, data json.RawMessage) error {
	msg, err := decode[updateStatus](data)
	if err != nil {
		return err
	}
	if err = c.checkUser(msg.UserID); err != nil {
		return err
	}
	deliveryID, err := parseDelivery(msg.DeliveryID)
	if err != nil {
		return err
	}
	status, err := delivery.ParseStatus(msg.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewPickerStatusUpdateCommand(deliveryID, c.userID, status)
	if err != nil {
		return err
	}
	return c.hub.statuses.Handle(ctx, cmd)
}

func (c *conn) sendEvent(eventType tracking.EventType, data any) {
	event, err := ports.NewRoomEvent(eventType, data)
	if err != nil {
		c.logger.WithError(err).Error("failed to encode event")
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		c.logger.WithError(err).Error("failed to encode event")
		return
	}
	c.enqueue(payload)
}

func (c *conn) sendError(message string) {
	c.sendEvent(tracking.EventError, tracking.ErrorMessage{Message: message})
}

func (c *conn) enqueue(payload []byte) {
	select {
	case <-c.done:
	case c.send <- payload:
	default:
		droppedMessagesTotal.Inc()
		c.logger.Warn("send queue full, message dropped")
	}
}
