package feed

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pourrice/pourrice/internal/location"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan *Message
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		send: make(chan *Message, sendBuffer),
	}
}

// ReadPump reports client messages to the hub. It returns when the
// connection fails or the hub stops.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("Feed read error", "client_id", c.id, "error", err)
			}
			return
		}

		ev := clientEvent{client: c, kind: eventInvalid}

		var msg IncomingMessage
		if err := json.Unmarshal(data, &msg); err == nil {
			switch msg.Type {
			case MessageTypePosition:
				if msg.Lat == nil || msg.Lon == nil {
					ev.kind = eventMissingOrigin
					break
				}
				ev.kind = eventPosition
				ev.origin = location.NewGeoPoint(*msg.Lat, *msg.Lon)
				ev.limit = msg.Limit
			case MessageTypePing:
				ev.kind = eventPing
			}
		}

		select {
		case c.hub.events <- ev:
		case <-c.hub.done:
			return
		}
	}
}

// WritePump writes hub messages to the connection, one frame per message,
// and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
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
