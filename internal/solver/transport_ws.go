package solver

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"optalcp/internal/logging"
)

// WebSocketTransport speaks the wire protocol over a websocket to a
// running solver service (spec.md §4.10.1, §6.5's ws/wss endpoints).
// Inbound frames are buffered and split on newlines before being
// delivered as complete messages, the same framing the child-process
// transport gets for free from bufio.Scanner. Sends issued before the
// connection finishes opening are queued and flushed once it does,
// since a caller may build and send a handshake immediately after
// constructing the transport.
type WebSocketTransport struct {
	url string
	cb  TransportCallbacks

	mu      sync.Mutex
	conn    *websocket.Conn
	open    bool
	pending [][]byte
	buf     []byte

	closeOnce sync.Once
	closed    chan struct{}
	closeErr  error
}

// NewWebSocketTransport builds a transport that will dial url.
func NewWebSocketTransport(url string, cb TransportCallbacks) *WebSocketTransport {
	return &WebSocketTransport{url: url, cb: cb, closed: make(chan struct{})}
}

func (t *WebSocketTransport) Start(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, t.url, nil)
	if err != nil {
		return fmt.Errorf("solver: dial %s: %w", t.url, err)
	}

	t.mu.Lock()
	t.conn = conn
	t.open = true
	pending := t.pending
	t.pending = nil
	t.mu.Unlock()

	for _, line := range pending {
		if err := t.writeLine(line); err != nil {
			return err
		}
	}

	go t.readLoop()
	return nil
}

func (t *WebSocketTransport) readLoop() {
	log := logging.Get(logging.CategoryTransport)
	var finalErr error
	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				break
			}
			// Some platforms never fire a distinct close event after a
			// read/connection error, only this one; treat it as both
			// the error and the signal to close (spec.md §4.10.1).
			finalErr = fmt.Errorf("solver: websocket: %w", err)
			log.Warn("websocket read error, closing: %v", err)
			break
		}
		t.deliverLines(data)
	}
	t.finish(finalErr)
}

func (t *WebSocketTransport) deliverLines(data []byte) {
	t.mu.Lock()
	t.buf = append(t.buf, data...)
	var lines [][]byte
	for {
		i := bytes.IndexByte(t.buf, '\n')
		if i < 0 {
			break
		}
		line := t.buf[:i]
		t.buf = t.buf[i+1:]
		if len(line) > 0 {
			lines = append(lines, append([]byte(nil), line...))
		}
	}
	t.mu.Unlock()

	for _, line := range lines {
		if t.cb.OnMessage != nil {
			t.cb.OnMessage(line)
		}
	}
}

// Send writes line to the socket, queuing it if the connection has not
// finished opening yet.
func (t *WebSocketTransport) Send(line []byte) error {
	t.mu.Lock()
	if !t.open {
		t.pending = append(t.pending, append([]byte(nil), line...))
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()
	return t.writeLine(line)
}

func (t *WebSocketTransport) writeLine(line []byte) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("solver: websocket not connected")
	}
	if err := conn.WriteMessage(websocket.TextMessage, line); err != nil {
		return fmt.Errorf("solver: websocket write: %w", err)
	}
	return nil
}

func (t *WebSocketTransport) Close() error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn != nil {
		deadline := time.Now().Add(time.Second)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = conn.Close()
	}
	<-t.closed
	return t.closeErr
}

func (t *WebSocketTransport) finish(err error) {
	t.closeOnce.Do(func() {
		t.closeErr = err
		close(t.closed)
		if t.cb.OnClose != nil {
			t.cb.OnClose(err)
		}
	})
}
