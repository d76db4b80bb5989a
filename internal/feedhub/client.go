package feedhub

import "crimewatch/backend/internal/models"

// Client is the interface for any live feed subscriber connection.
// It abstracts the underlying transport so the hub can manage
// different client types uniformly.
type Client interface {
	// GetID returns the unique identifier for this connection.
	GetID() string

	// GetSendChannel returns the channel the hub pushes feed events
	// into for this specific client. It is a send-only channel.
	GetSendChannel() chan<- models.FeedEvent

	// Run starts the client's pumps handling the outgoing events and
	// connection liveness.
	Run()
	// Close shuts down the client's connection and channels.
	Close()
}
