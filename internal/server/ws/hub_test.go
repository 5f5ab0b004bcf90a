package ws

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubBus is an in-memory domain.SignalBus for hub tests.
type stubBus struct {
	mu       sync.Mutex
	channels map[string]chan []byte
	stream   []domain.StreamMessage
}

func newStubBus() *stubBus {
	return &stubBus{channels: make(map[string]chan []byte)}
}

func (b *stubBus) channel(name string) chan []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.channels[name]
	if !ok {
		ch = make(chan []byte, 16)
		b.channels[name] = ch
	}
	return ch
}

func (b *stubBus) Publish(_ context.Context, channel string, payload []byte) error {
	b.channel(channel) <- payload
	return nil
}

func (b *stubBus) Subscribe(_ context.Context, channel string) (<-chan []byte, error) {
	return b.channel(channel), nil
}

func (b *stubBus) StreamAppend(_ context.Context, _ string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stream = append(b.stream, domain.StreamMessage{Payload: payload})
	return nil
}

func (b *stubBus) StreamRead(_ context.Context, _, _ string, count int) ([]domain.StreamMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if count > len(b.stream) {
		count = len(b.stream)
	}
	out := make([]domain.StreamMessage, count)
	copy(out, b.stream[:count])
	return out, nil
}

type frame struct {
	Channel string          `json:"channel"`
	Payload json.RawMessage `json:"payload"`
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var f frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func dialHub(t *testing.T, h *Hub) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func TestHubForwardsBusEvents(t *testing.T) {
	bus := newStubBus()
	h := NewHub(bus, discardLogger(), Config{Mode: "lite"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	conn, teardown := dialHub(t, h)
	defer teardown()

	status := readFrame(t, conn)
	assert.Equal(t, "status", status.Channel)

	require.NoError(t, bus.Publish(ctx, "purchases", []byte(`{"id":"p1"}`)))

	msg := readFrame(t, conn)
	assert.Equal(t, "purchases", msg.Channel)
	assert.JSONEq(t, `{"id":"p1"}`, string(msg.Payload))
}

func TestHubReplaysBufferedPurchasesOnConnect(t *testing.T) {
	ctx := context.Background()
	bus := newStubBus()
	require.NoError(t, bus.StreamAppend(ctx, "stream:purchases", []byte(`{"id":"p1"}`)))
	require.NoError(t, bus.StreamAppend(ctx, "stream:purchases", []byte(`{"id":"p2"}`)))

	h := NewHub(bus, discardLogger(), Config{Mode: "lite"})
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go h.Run(runCtx)

	conn, teardown := dialHub(t, h)
	defer teardown()

	status := readFrame(t, conn)
	assert.Equal(t, "status", status.Channel)

	first := readFrame(t, conn)
	assert.Equal(t, "purchases", first.Channel)
	assert.JSONEq(t, `{"id":"p1"}`, string(first.Payload))

	second := readFrame(t, conn)
	assert.Equal(t, "purchases", second.Channel)
	assert.JSONEq(t, `{"id":"p2"}`, string(second.Payload))
}

func TestHubStopUnwindsClientPumps(t *testing.T) {
	bus := newStubBus()
	h := NewHub(bus, discardLogger(), Config{Mode: "lite"})

	base := runtime.NumGoroutine()

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- h.Run(ctx) }()

	conn, teardown := dialHub(t, h)
	readFrame(t, conn) // status

	// Stop the hub while the client is still attached; the pumps must not
	// stay parked on the hub's channels.
	cancel()
	select {
	case err := <-runDone:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	teardown()

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= base+2
	}, 2*time.Second, 25*time.Millisecond, "client pumps leaked after hub stop")
}
