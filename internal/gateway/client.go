package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBuffer     = 64
)

// Client is one websocket connection bound to a consultation room
type Client struct {
	hub            *Hub
	conn           *websocket.Conn
	consultationID uuid.UUID
	userID         uuid.UUID
	send           chan Event
	inbound        InboundHandler
}

// InboundHandler processes frames a client sends into the room. The handler
// decides what gets persisted and what gets broadcast.
type InboundHandler func(ctx context.Context, client *Client, event Event)

func NewClient(hub *Hub, conn *websocket.Conn, consultationID, userID uuid.UUID, inbound InboundHandler) *Client {
	return &Client{
		hub:            hub,
		conn:           conn,
		consultationID: consultationID,
		userID:         userID,
		send:           make(chan Event, sendBuffer),
		inbound:        inbound,
	}
}

// UserID reports the authenticated user behind this connection.
func (c *Client) UserID() uuid.UUID { return c.userID }

// ConsultationID reports the room this connection is bound to.
func (c *Client) ConsultationID() uuid.UUID { return c.consultationID }

// Serve registers the client and runs both pumps until the connection drops.
func (c *Client) Serve(ctx context.Context) {
	c.hub.register <- c
	go c.writePump()
	c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("user_id", c.userID.String()).Msg("gateway connection dropped")
			}
			return
		}

		var event Event
		if err := json.Unmarshal(payload, &event); err != nil {
			c.sendError("malformed event")
			continue
		}
		// Clients cannot speak for other users or other rooms.
		event.SenderID = c.userID
		event.ConsultationID = c.consultationID

		if c.inbound != nil {
			c.inbound(ctx, c, event)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) sendError(message string) {
	payload, _ := json.Marshal(map[string]string{"message": message})
	select {
	case c.send <- Event{Type: EventError, ConsultationID: c.consultationID, Payload: payload}:
	default:
	}
}
