// Package feedhub broadcasts report and alert events to every
// connected live-feed client. Events originate either locally (the
// dispatcher publishing through redis) or from another instance via
// the shared redis channel, so fan-out works across replicas.
package feedhub

import (
	"log"

	"crimewatch/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

type Hub struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	BroadcastCh  chan models.FeedEvent

	rdb *redis.Client
}

// NewHub builds a hub. rdb may be nil in tests; the redis listener is
// only started when a client is configured.
func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		BroadcastCh:  make(chan models.FeedEvent, 64),
		rdb:          rdb,
	}
}

// Run is the hub's main dispatch loop.
func (h *Hub) Run() {
	if h.rdb != nil {
		h.startPubSubListener()
	}

	for {
		select {
		case client := <-h.RegisterCh:
			h.Clients[client.GetID()] = client

		case client := <-h.UnregisterCh:
			if _, ok := h.Clients[client.GetID()]; ok {
				delete(h.Clients, client.GetID())
				client.Close()
			}

		case ev := <-h.BroadcastCh:
			h.broadcast(ev)
		}
	}
}

func (h *Hub) broadcast(ev models.FeedEvent) {
	for id, client := range h.Clients {
		select {
		case client.GetSendChannel() <- ev:
		default:
			// Slow client, drop it rather than block the feed.
			log.Printf("INFO: Dropping slow feed client %s", id)
			delete(h.Clients, id)
			client.Close()
		}
	}
}
