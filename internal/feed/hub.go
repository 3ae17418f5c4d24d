package feed

import (
	"context"

	"github.com/pourrice/pourrice/internal/location"
	"github.com/pourrice/pourrice/internal/nearby"
	"github.com/pourrice/pourrice/internal/restaurant"
	apperrors "github.com/pourrice/pourrice/pkg/errors"
	"github.com/pourrice/pourrice/pkg/logger"
)

// Ranker is the part of the nearby service the hub needs.
type Ranker interface {
	Validate(origin location.GeoPoint, limit int) (int, error)
	Rank(origin location.GeoPoint, list []restaurant.Restaurant, limit int) *nearby.Result
}

type eventKind int

const (
	eventPosition eventKind = iota
	eventPing
	eventMissingOrigin
	eventInvalid
)

// clientEvent is everything a client's read pump reports to the hub.
type clientEvent struct {
	client *Client
	kind   eventKind
	origin location.GeoPoint
	limit  int
}

// subscription is the hub-owned state of one client.
type subscription struct {
	origin    location.GeoPoint
	cell      string
	limit     int
	hasOrigin bool
}

// Hub owns every connected client and is the only goroutine that touches
// their subscriptions. Clients talk to it through channels.
type Hub struct {
	clients       map[*Client]*subscription
	register      chan *Client
	unregister    chan *Client
	events        chan clientEvent
	refresh       chan []restaurant.Restaurant
	done          chan struct{}
	ranker        Ranker
	restaurants   []restaurant.Restaurant
	cellPrecision uint
	logger        logger.Logger
}

func NewHub(ranker Ranker, initial []restaurant.Restaurant, cellPrecision uint, log logger.Logger) *Hub {
	return &Hub{
		clients:       make(map[*Client]*subscription),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		events:        make(chan clientEvent, 256),
		refresh:       make(chan []restaurant.Restaurant, 1),
		done:          make(chan struct{}),
		ranker:        ranker,
		restaurants:   initial,
		cellPrecision: cellPrecision,
		logger:        log,
	}
}

// Run processes hub events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = &subscription{}
			h.logger.Debug("Feed client connected", "client_id", client.id, "clients", len(h.clients))
		case client := <-h.unregister:
			h.remove(client)
		case ev := <-h.events:
			h.handleEvent(ev)
		case list := <-h.refresh:
			h.restaurants = list
			h.broadcastAll()
		case <-ctx.Done():
			h.shutdown()
			return
		}
	}
}

// Refresh hands a new catalog snapshot to the hub. Only the latest pending
// snapshot is kept.
func (h *Hub) Refresh(list []restaurant.Restaurant) {
	for {
		select {
		case h.refresh <- list:
			return
		default:
		}
		select {
		case <-h.refresh:
		default:
		}
	}
}

// Register adds a client. It returns false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) handleEvent(ev clientEvent) {
	if _, ok := h.clients[ev.client]; !ok {
		return
	}

	switch ev.kind {
	case eventPosition:
		h.handlePosition(ev)
	case eventPing:
		h.send(ev.client, NewPongMessage())
	case eventMissingOrigin:
		h.send(ev.client, NewErrorMessage(apperrors.ErrInvalidCoordinates.Error(), "INVALID_POSITION"))
	default:
		h.send(ev.client, NewErrorMessage(apperrors.ErrInvalidMessageType.Error(), "INVALID_MESSAGE"))
	}
}

func (h *Hub) handlePosition(update clientEvent) {
	sub := h.clients[update.client]

	limit, err := h.ranker.Validate(update.origin, update.limit)
	if err != nil {
		h.send(update.client, NewErrorMessage(err.Error(), "INVALID_POSITION"))
		return
	}

	cell := location.Cell(update.origin, h.cellPrecision)
	if sub.hasOrigin && sub.cell == cell && sub.limit == limit {
		// Movement inside the same cell is treated as GPS jitter.
		return
	}

	sub.origin = update.origin
	sub.cell = cell
	sub.limit = limit
	sub.hasOrigin = true

	h.send(update.client, NewNearbyMessage(h.ranker.Rank(sub.origin, h.restaurants, sub.limit)))
}

func (h *Hub) broadcastAll() {
	for client, sub := range h.clients {
		if !sub.hasOrigin {
			continue
		}
		h.send(client, NewNearbyMessage(h.ranker.Rank(sub.origin, h.restaurants, sub.limit)))
	}
}

// send drops the client when its buffer is full.
func (h *Hub) send(client *Client, msg *Message) {
	select {
	case client.send <- msg:
	default:
		h.logger.Warn("Feed client too slow, dropping", "client_id", client.id)
		h.remove(client)
	}
}

func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.logger.Debug("Feed client disconnected", "client_id", client.id, "clients", len(h.clients))
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	for client := range h.clients {
		close(client.send)
	}
	h.clients = make(map[*Client]*subscription)
}
