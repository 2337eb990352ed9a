package gateway

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinicore/clinic-api/pkg/messaging"
	"github.com/clinicore/clinic-api/pkg/metrics"
)

const fanoutChannel = "gateway:consultations"

// Hub routes consultation events between connected clients. Locally it
// tracks one room per consultation; across instances it fans events out
// through the broker so clients on different instances see the same room.
type Hub struct {
	instanceID string
	broker     messaging.Broker
	presence   PresenceRegistry
	metrics    *metrics.Metrics

	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
}

func NewHub(broker messaging.Broker, presence PresenceRegistry, m *metrics.Metrics) *Hub {
	return &Hub{
		instanceID: uuid.NewString(),
		broker:     broker,
		presence:   presence,
		metrics:    m,
		rooms:      make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 256),
	}
}

// Run processes registrations and broadcasts until the context ends. It also
// consumes the broker fan-out channel so events from other instances reach
// local clients.
func (h *Hub) Run(ctx context.Context) {
	remote, err := h.subscribeRemote(ctx)
	if err != nil {
		log.Error().Err(err).Msg("gateway fan-out unavailable, running single-instance")
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.addClient(ctx, client)
		case client := <-h.unregister:
			h.removeClient(ctx, client)
		case event := <-h.broadcast:
			h.deliverLocal(event)
			h.publishRemote(ctx, event)
		case payload, ok := <-remote:
			if !ok {
				remote = nil
				continue
			}
			var env envelope
			if err := json.Unmarshal(payload, &env); err != nil {
				log.Warn().Err(err).Msg("malformed gateway fan-out payload")
				continue
			}
			if env.Origin == h.instanceID {
				continue
			}
			h.deliverLocal(env.Event)
		}
	}
}

// Broadcast queues an event for every client in the consultation room,
// local and remote.
func (h *Hub) Broadcast(event Event) {
	h.broadcast <- event
}

func (h *Hub) subscribeRemote(ctx context.Context) (<-chan []byte, error) {
	if h.broker == nil {
		return nil, nil
	}
	return h.broker.Subscribe(ctx, fanoutChannel)
}

func (h *Hub) publishRemote(ctx context.Context, event Event) {
	if h.broker == nil {
		return
	}
	env := envelope{Origin: h.instanceID, Event: event}
	if err := h.broker.Publish(ctx, fanoutChannel, env); err != nil {
		log.Error().Err(err).Msg("failed to publish gateway event")
	}
}

func (h *Hub) addClient(ctx context.Context, client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.consultationID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[client.consultationID] = room
	}
	room[client] = struct{}{}
	h.mu.Unlock()

	if err := h.presence.Join(ctx, client.consultationID, client.userID); err != nil {
		log.Error().Err(err).Msg("failed to record presence on join")
	}
	if h.metrics != nil {
		h.metrics.GatewayConnections.Inc()
	}
	h.Broadcast(Event{
		Type:           EventJoined,
		ConsultationID: client.consultationID,
		SenderID:       client.userID,
	})
}

func (h *Hub) removeClient(ctx context.Context, client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.consultationID]
	if ok {
		if _, present := room[client]; !present {
			ok = false
		}
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.consultationID)
		}
	}
	h.mu.Unlock()
	if !ok {
		return
	}

	close(client.send)
	if err := h.presence.Leave(ctx, client.consultationID, client.userID); err != nil {
		log.Error().Err(err).Msg("failed to clear presence on leave")
	}
	if h.metrics != nil {
		h.metrics.GatewayConnections.Dec()
	}
	h.Broadcast(Event{
		Type:           EventLeft,
		ConsultationID: client.consultationID,
		SenderID:       client.userID,
	})
}

func (h *Hub) deliverLocal(event Event) {
	if h.metrics != nil {
		h.metrics.GatewayEvents.WithLabelValues(event.Type).Inc()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[event.ConsultationID] {
		select {
		case client.send <- event:
		default:
			// Slow consumer; drop the frame rather than stall the room.
			log.Warn().
				Str("user_id", client.userID.String()).
				Str("event", event.Type).
				Msg("gateway client send buffer full")
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range h.rooms {
		for client := range room {
			close(client.send)
		}
	}
	h.rooms = make(map[uuid.UUID]map[*Client]struct{})
}
