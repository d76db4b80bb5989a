package feedhub

import (
	"context"
	"encoding/json"
	"log"

	"crimewatch/backend/internal/models"
)

// startPubSubListener subscribes to the shared redis broadcast
// channel and feeds every received event into the local dispatch
// loop. Events published by any instance reach every instance's
// clients this way.
func (h *Hub) startPubSubListener() {
	go func() {
		ctx := context.Background()

		pubsub := h.rdb.Subscribe(ctx, "feed:broadcast")
		defer pubsub.Close()

		ch := pubsub.Channel()

		for msg := range ch {
			var ev models.FeedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("Error unmarshalling feed event: %v", err)
				continue
			}
			h.BroadcastCh <- ev
		}
	}()
}
