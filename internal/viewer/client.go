package viewer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/samy-vision/samy-bridge/internal/proto"
)

// Client maintains a relay connection on behalf of a viewer,
// reconnecting forever on a fixed backoff and feeding every received
// event into the reducer.
type Client struct {
	url     string
	reducer *Reducer
	backoff time.Duration
	log     *zerolog.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewClient builds a relay client for the given ws:// URL.
func NewClient(url string, reducer *Reducer, backoff time.Duration, logger *zerolog.Logger) *Client {
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	return &Client{
		url:     url,
		reducer: reducer,
		backoff: backoff,
		log:     logger,
	}
}

// Run dials and reads until ctx is cancelled, sleeping the backoff
// between attempts. Always returns ctx.Err().
func (c *Client) Run(ctx context.Context) error {
	for {
		if err := c.connectOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			c.log.Warn().Err(err).Str("url", c.url).Msg("relay connection lost")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff):
		}
	}
}

func (c *Client) connectOnce(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, c.url, nil)
	if err != nil {
		return err
	}

	c.setConn(conn)
	c.reducer.HandleOpen()
	c.log.Info().Str("url", c.url).Msg("connected to relay")

	defer func() {
		c.setConn(nil)
		c.reducer.HandleClose()
		conn.Close(websocket.StatusNormalClosure, "closing")
	}()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		msg, err := proto.Decode(data)
		if err != nil {
			c.log.Warn().Err(err).Msg("ignoring malformed relay event")
			continue
		}
		c.reducer.Apply(msg)
	}
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

func (c *Client) currentConn() *websocket.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

// Send publishes an event to the relay. With no live connection the
// transition is simulated locally instead, as if the event had been
// echoed back, so the viewer stays responsive while the hub is down.
func (c *Client) Send(ctx context.Context, msg *proto.Message) error {
	if conn := c.currentConn(); conn != nil {
		err := wsjson.Write(ctx, conn, msg)
		if err == nil {
			return nil
		}
		c.log.Warn().Err(err).Msg("relay write failed, simulating locally")
	}
	c.reducer.Apply(msg)
	return nil
}
