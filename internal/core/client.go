package core

import "github.com/samy-vision/samy-bridge/internal/proto"

// Client is one live viewer connection as seen by the hub. Clients
// are anonymous and interchangeable; the ID only correlates log lines.
type Client struct {
	ID     string
	Events chan *proto.Message
}

// NewClient constructs a client with an initialized event channel.
func NewClient(id string) *Client {
	return &Client{
		ID:     id,
		Events: make(chan *proto.Message, 16),
	}
}
