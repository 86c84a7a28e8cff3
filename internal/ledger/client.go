// Package ledger talks to the node's WebSocket RPC service: request/response
// invokes, event subscriptions, and schema-aware decoding of query results.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

var (
	// ErrQueryTimeout is returned when the node does not answer a query
	// within the configured bound.
	ErrQueryTimeout = errors.New("ledger query timed out")
	// ErrClosed is returned for calls made after the connection died.
	ErrClosed = errors.New("ledger connection closed")
)

// Invoker is the call surface of the RPC service. The concrete Client
// implements it; tests substitute a fake.
type Invoker interface {
	Invoke(ctx context.Context, method string, params interface{}) (json.RawMessage, error)
	Subscribe(event string) (<-chan json.RawMessage, error)
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type rpcEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *uint64         `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is an error object returned by the node.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Client is a WebSocket RPC client. The connection is dialed lazily on first
// use and shared for the lifetime of the process; see Shared.
type Client struct {
	endpoint string

	dialOnce sync.Once
	dialErr  error
	conn     *websocket.Conn
	writeMu  sync.Mutex

	nextID uint64

	mu      sync.Mutex
	pending map[uint64]chan rpcEnvelope
	subs    map[string][]chan json.RawMessage
	closed  bool
}

// NewClient creates a client for the given ws:// endpoint. No connection is
// made until the first Invoke or Subscribe.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		pending:  make(map[uint64]chan rpcEnvelope),
		subs:     make(map[string][]chan json.RawMessage),
	}
}

var (
	sharedOnce   sync.Once
	sharedClient *Client
)

// Shared returns the process-wide client for the endpoint, creating it on
// first call. All callers share the single connection handle.
func Shared(endpoint string) *Client {
	sharedOnce.Do(func() {
		sharedClient = NewClient(endpoint)
	})
	return sharedClient
}

func (c *Client) connect() error {
	c.dialOnce.Do(func() {
		conn, _, err := websocket.DefaultDialer.Dial(c.endpoint, nil)
		if err != nil {
			c.dialErr = fmt.Errorf("failed to dial %s: %w", c.endpoint, err)
			return
		}
		c.conn = conn
		go c.readLoop()
	})
	return c.dialErr
}

// Invoke performs one request/response call. The context bounds the wait;
// a deadline expiry surfaces as ErrQueryTimeout.
func (c *Client) Invoke(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	if err := c.connect(); err != nil {
		return nil, err
	}

	id := atomic.AddUint64(&c.nextID, 1)
	ch := make(chan rpcEnvelope, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	req := rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params}
	c.writeMu.Lock()
	err := c.conn.WriteJSON(req)
	c.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", method, err)
	}

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %w", method, ErrQueryTimeout)
		}
		return nil, ctx.Err()
	case env, ok := <-ch:
		if !ok {
			return nil, ErrClosed
		}
		if env.Error != nil {
			return nil, env.Error
		}
		return env.Result, nil
	}
}

// Subscribe registers for a node event (e.g. "app:block:new") and returns the
// channel its payloads arrive on. Slow consumers lose events rather than
// blocking the read loop.
func (c *Client) Subscribe(event string) (<-chan json.RawMessage, error) {
	if err := c.connect(); err != nil {
		return nil, err
	}

	ch := make(chan json.RawMessage, 16)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.subs[event] = append(c.subs[event], ch)
	c.mu.Unlock()
	return ch, nil
}

func (c *Client) readLoop() {
	for {
		var env rpcEnvelope
		if err := c.conn.ReadJSON(&env); err != nil {
			c.shutdown()
			return
		}

		if env.ID != nil {
			c.mu.Lock()
			ch, ok := c.pending[*env.ID]
			c.mu.Unlock()
			if ok {
				ch <- env
			}
			continue
		}

		if env.Method != "" {
			c.mu.Lock()
			targets := c.subs[env.Method]
			c.mu.Unlock()
			for _, ch := range targets {
				select {
				case ch <- env.Params:
				default:
				}
			}
		}
	}
}

func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	for event, chans := range c.subs {
		for _, ch := range chans {
			close(ch)
		}
		delete(c.subs, event)
	}
	c.conn.Close()
}
