package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"isiprint/internal/domain/ports"
)

// ErrConnectionClosed is returned for calls still pending when the host
// connection goes away.
var ErrConnectionClosed = errors.New("bridge: connection closed")

// InvokeError is a rejection of the call by the host itself, before the
// command produced a response envelope.
type InvokeError struct {
	Cmd     string
	Message string
}

func (e *InvokeError) Error() string {
	return fmt.Sprintf("bridge: %s rejected: %s", e.Cmd, e.Message)
}

type requestFrame struct {
	ID   string `json:"id"`
	Cmd  string `json:"cmd"`
	Args any    `json:"args,omitempty"`
}

// inboundFrame is either a response (ID set) or an event (Event set).
type inboundFrame struct {
	ID      string          `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
	Event   string          `json:"event,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Options tune a WSBridge.
type Options struct {
	DialTimeout time.Duration
	CallTimeout time.Duration
	Header      http.Header
}

// WSBridge talks to the host shell over a single WebSocket connection.
// Requests are correlated by id; events are fanned out to subscribers.
type WSBridge struct {
	conn        *websocket.Conn
	logger      ports.Logger
	callTimeout time.Duration

	writeMutex sync.Mutex

	mutex    sync.Mutex
	pending  map[string]chan inboundFrame
	handlers map[string]map[uint64]ports.EventHandler
	nextSub  uint64
	closed   bool
	done     chan struct{}
}

// Dial connects to the host at url and starts the read loop.
func Dial(ctx context.Context, url string, opts Options, logger ports.Logger) (*WSBridge, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: opts.DialTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, url, opts.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %s: %w", url, resp.Status, err)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	b := &WSBridge{
		conn:        conn,
		logger:      logger,
		callTimeout: opts.CallTimeout,
		pending:     make(map[string]chan inboundFrame),
		handlers:    make(map[string]map[uint64]ports.EventHandler),
		done:        make(chan struct{}),
	}
	go b.readPump()

	logger.Info("[BRIDGE] Connected to %s", url)
	return b, nil
}

// Available reports whether the connection is still open.
func (b *WSBridge) Available() bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return !b.closed
}

// Invoke sends cmd and decodes the result into out (which may be nil).
func (b *WSBridge) Invoke(ctx context.Context, cmd string, args any, out any) error {
	if _, ok := ctx.Deadline(); !ok && b.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.callTimeout)
		defer cancel()
	}

	id := uuid.NewString()
	replyCh := make(chan inboundFrame, 1)

	b.mutex.Lock()
	if b.closed {
		b.mutex.Unlock()
		return ports.ErrTransportUnavailable
	}
	b.pending[id] = replyCh
	b.mutex.Unlock()

	defer func() {
		b.mutex.Lock()
		delete(b.pending, id)
		b.mutex.Unlock()
	}()

	b.logger.Debug("[BRIDGE] -> %s (%s)", cmd, id)
	if err := b.write(requestFrame{ID: id, Cmd: cmd, Args: args}); err != nil {
		return fmt.Errorf("send %s: %w", cmd, err)
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", cmd, ctx.Err())
	case <-b.done:
		return ErrConnectionClosed
	case reply := <-replyCh:
		b.logger.Debug("[BRIDGE] <- %s (%s)", cmd, id)
		if reply.Error != "" {
			return &InvokeError{Cmd: cmd, Message: reply.Error}
		}
		if out == nil || len(reply.Result) == 0 {
			return nil
		}
		if err := json.Unmarshal(reply.Result, out); err != nil {
			return fmt.Errorf("decode %s result: %w", cmd, err)
		}
		return nil
	}
}

// Subscribe registers handler for event.
func (b *WSBridge) Subscribe(ctx context.Context, event string, handler ports.EventHandler) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.closed {
		return nil, ports.ErrTransportUnavailable
	}

	b.nextSub++
	subID := b.nextSub
	if b.handlers[event] == nil {
		b.handlers[event] = make(map[uint64]ports.EventHandler)
	}
	b.handlers[event][subID] = handler

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mutex.Lock()
			delete(b.handlers[event], subID)
			b.mutex.Unlock()
		})
	}, nil
}

// Close shuts the connection down; pending calls fail with
// ErrConnectionClosed.
func (b *WSBridge) Close() error {
	b.writeMutex.Lock()
	_ = b.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	b.writeMutex.Unlock()

	err := b.conn.Close()
	b.markClosed()
	return err
}

func (b *WSBridge) write(frame requestFrame) error {
	b.writeMutex.Lock()
	defer b.writeMutex.Unlock()
	return b.conn.WriteJSON(frame)
}

func (b *WSBridge) readPump() {
	defer b.markClosed()

	for {
		// Transport errors end the pump; a frame that does not decode,
		// including an empty one, is only dropped.
		_, data, err := b.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				b.logger.Error("[BRIDGE] Read error: %v", err)
			} else {
				b.logger.Info("[BRIDGE] Connection closed")
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			b.logger.Warn("[BRIDGE] Dropping malformed frame: %v", err)
			continue
		}

		switch {
		case frame.ID != "":
			b.mutex.Lock()
			ch, ok := b.pending[frame.ID]
			b.mutex.Unlock()
			if !ok {
				// Caller already gave up.
				b.logger.Debug("[BRIDGE] Late response %s discarded", frame.ID)
				continue
			}
			select {
			case ch <- frame:
			default:
				b.logger.Warn("[BRIDGE] Duplicate response %s dropped", frame.ID)
			}
		case frame.Event != "":
			b.dispatch(frame.Event, frame.Payload)
		default:
			b.logger.Warn("[BRIDGE] Frame without id or event ignored")
		}
	}
}

func (b *WSBridge) dispatch(event string, payload json.RawMessage) {
	b.mutex.Lock()
	handlers := make([]ports.EventHandler, 0, len(b.handlers[event]))
	for _, h := range b.handlers[event] {
		handlers = append(handlers, h)
	}
	b.mutex.Unlock()

	for _, h := range handlers {
		h(payload)
	}
}

func (b *WSBridge) markClosed() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
}
