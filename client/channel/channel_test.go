package channel

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gows "github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/takaryo1010/OneTimeChat/client/domain"
	"github.com/takaryo1010/OneTimeChat/client/usecase"
)

type wsServer struct {
	srv      *httptest.Server
	upgrader gows.Upgrader
	conns    chan *gows.Conn
	requests chan *http.Request
}

func newWSServer(t *testing.T) *wsServer {
	t.Helper()
	ws := &wsServer{
		conns:    make(chan *gows.Conn, 1),
		requests: make(chan *http.Request, 1),
	}
	ws.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ws.requests <- r
		ws.conns <- conn
	}))
	t.Cleanup(ws.srv.Close)
	return ws
}

func (ws *wsServer) wsBase() string {
	return "ws" + strings.TrimPrefix(ws.srv.URL, "http")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dialTest(t *testing.T, ws *wsServer) (usecase.Channel, *gows.Conn) {
	t.Helper()
	req := require.New(t)

	jar, err := cookiejar.New(nil)
	req.NoError(err)
	d := NewDialer(ws.wsBase(), jar, testLogger())

	ch, err := d.Dial(context.Background(), "room-1", "bob")
	req.NoError(err)
	t.Cleanup(func() { ch.Close() })

	server := <-ws.conns
	t.Cleanup(func() { server.Close() })
	return ch, server
}

func recvEvent(t *testing.T, ch usecase.Channel) usecase.ChannelEvent {
	t.Helper()
	select {
	case ev, ok := <-ch.Events():
		require.True(t, ok, "event stream ended unexpectedly")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel event")
		return usecase.ChannelEvent{}
	}
}

func TestDialCarriesRoomAndClient(t *testing.T) {
	req := require.New(t)

	ws := newWSServer(t)
	dialTest(t, ws)

	r := <-ws.requests
	req.Equal("/ws", r.URL.Path)
	req.Equal("room-1", r.URL.Query().Get("room_id"))
	req.Equal("bob", r.URL.Query().Get("client_name"))
}

func TestInboundChatMessage(t *testing.T) {
	req := require.New(t)

	ws := newWSServer(t)
	ch, server := dialTest(t, ws)

	err := server.WriteMessage(gows.TextMessage,
		[]byte(`{"type":"message","sender":"alice","sentence":"hi"}`))
	req.NoError(err)

	ev := recvEvent(t, ch)
	req.Equal(usecase.EventChat, ev.Kind)
	req.Equal("alice", ev.Sender)
	req.Equal("hi", ev.Text)
}

func TestInboundRosterUpdate(t *testing.T) {
	req := require.New(t)

	ws := newWSServer(t)
	ch, server := dialTest(t, ws)

	req.NoError(server.WriteMessage(gows.TextMessage, []byte(`{"type":"participants_update"}`)))

	ev := recvEvent(t, ch)
	req.Equal(usecase.EventRosterUpdate, ev.Kind)
}

func TestUnknownEnvelopeReportsProtocolError(t *testing.T) {
	req := require.New(t)

	ws := newWSServer(t)
	ch, server := dialTest(t, ws)

	req.NoError(server.WriteMessage(gows.TextMessage, []byte(`{"type":"presence"}`)))

	ev := recvEvent(t, ch)
	req.Equal(usecase.EventError, ev.Kind)
	var perr *domain.ProtocolError
	req.True(errors.As(ev.Err, &perr))

	// The connection survives a bad frame.
	req.NoError(server.WriteMessage(gows.TextMessage,
		[]byte(`{"type":"message","sender":"alice","sentence":"still here"}`)))
	ev = recvEvent(t, ch)
	req.Equal(usecase.EventChat, ev.Kind)
}

func TestOutboundFrames(t *testing.T) {
	req := require.New(t)

	ws := newWSServer(t)
	ch, server := dialTest(t, ws)

	req.NoError(ch.SendMessage("hello"))
	_, data, err := server.ReadMessage()
	req.NoError(err)
	var frame map[string]string
	req.NoError(json.Unmarshal(data, &frame))
	req.Equal("message", frame["type"])
	req.Equal("hello", frame["content"])

	req.NoError(ch.RequestRosterSync())
	_, data, err = server.ReadMessage()
	req.NoError(err)
	req.JSONEq(`{"type":"participants_update"}`, string(data))
}

func TestServerCloseEndsEventStream(t *testing.T) {
	req := require.New(t)

	ws := newWSServer(t)
	ch, server := dialTest(t, ws)

	server.WriteMessage(gows.CloseMessage,
		gows.FormatCloseMessage(gows.CloseNormalClosure, "bye"))
	server.Close()

	ev := recvEvent(t, ch)
	req.Equal(usecase.EventClosed, ev.Kind)

	_, ok := <-ch.Events()
	req.False(ok, "event stream must end after close")
}

func TestCloseIsIdempotentAndFailsSends(t *testing.T) {
	req := require.New(t)

	ws := newWSServer(t)
	ch, _ := dialTest(t, ws)

	req.NoError(ch.Close())
	req.NoError(ch.Close())

	err := ch.SendMessage("after close")
	var cerr *domain.ChannelError
	req.True(errors.As(err, &cerr))
}

func TestDialFailure(t *testing.T) {
	req := require.New(t)

	jar, err := cookiejar.New(nil)
	req.NoError(err)
	d := NewDialer("ws://127.0.0.1:1", jar, testLogger())

	_, err = d.Dial(context.Background(), "room-1", "bob")
	var cerr *domain.ChannelError
	req.True(errors.As(err, &cerr))
}
