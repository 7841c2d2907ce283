package server

import (
	"sync"

	"github.com/codeclash-vn/codeclash/pkg/utils"
	"github.com/gorilla/websocket"
)

// subscriber is a transport channel the coordinator can push events to.
// The websocket client implements it; tests use in-memory fakes.
type subscriber interface {
	ChannelId() string
	Send(v interface{}) error
}

type client struct {
	channelId string
	conn      *websocket.Conn

	mu sync.Mutex
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		channelId: utils.GenerateUUID(),
		conn:      conn,
	}
}

func (c *client) ChannelId() string {
	return c.channelId
}

// Send writes one JSON message. Gorilla connections allow a single
// concurrent writer, so writes are serialized here.
func (c *client) Send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	return c.conn.WriteJSON(v)
}
