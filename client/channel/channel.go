// Package channel implements the realtime message channel over a
// gorilla/websocket connection, dialed with the same cookie jar as the
// lifecycle REST client so the session cookie travels on the upgrade
// request.
package channel

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	gows "github.com/gorilla/websocket"

	"github.com/takaryo1010/OneTimeChat/client/domain"
	"github.com/takaryo1010/OneTimeChat/client/usecase"
)

const eventBuffer = 64

// Channel is one open full-duplex connection to the room. It multiplexes
// chat messages and roster-change notifications over one transport and
// never reconnects on its own.
type Channel struct {
	conn *gows.Conn

	events chan usecase.ChannelEvent

	// sendMutex synchronizes write operations on conn.
	sendMutex sync.Mutex

	// Whether the connection is currently active.
	active uint32

	log *slog.Logger
}

var _ usecase.Channel = (*Channel)(nil)

// Dialer opens channels against one websocket base URL.
type Dialer struct {
	wsBase string
	jar    http.CookieJar
	log    *slog.Logger
}

var _ usecase.Dialer = (*Dialer)(nil)

// NewDialer builds a dialer for `{wsBase}/ws`. jar must be the jar the
// REST client writes the session cookie into.
func NewDialer(wsBase string, jar http.CookieJar, log *slog.Logger) *Dialer {
	return &Dialer{wsBase: wsBase, jar: jar, log: log}
}

// Dial opens the channel for one room membership. The caller is
// responsible for opening at most one channel per room at a time.
func (d *Dialer) Dial(ctx context.Context, roomID, clientName string) (usecase.Channel, error) {
	target, err := url.Parse(d.wsBase)
	if err != nil {
		return nil, &domain.ChannelError{Err: err}
	}
	target = target.JoinPath("ws")
	q := target.Query()
	q.Set("room_id", roomID)
	q.Set("client_name", clientName)
	target.RawQuery = q.Encode()

	dialer := gows.Dialer{Jar: d.jar}
	conn, _, err := dialer.DialContext(ctx, target.String(), nil)
	if err != nil {
		return nil, &domain.ChannelError{Err: err}
	}

	c := &Channel{
		conn:   conn,
		events: make(chan usecase.ChannelEvent, eventBuffer),
		active: 1,
		log:    d.log,
	}
	go c.readLoop()

	d.log.Debug("channel open", "room", roomID, "client", clientName)
	return c, nil
}

// SendMessage transmits one chat frame. The caller has already appended
// the text to its own log; there is no acknowledgement.
func (c *Channel) SendMessage(content string) error {
	frame, err := domain.EncodeMessage(content)
	if err != nil {
		return &domain.ChannelError{Err: err}
	}
	return c.write(frame)
}

// RequestRosterSync asks the server to notify every member that the
// participant sets changed.
func (c *Channel) RequestRosterSync() error {
	frame, err := domain.EncodeRosterUpdate()
	if err != nil {
		return &domain.ChannelError{Err: err}
	}
	return c.write(frame)
}

// Events delivers inbound frames and lifecycle events. The stream ends
// once the connection is gone.
func (c *Channel) Events() <-chan usecase.ChannelEvent {
	return c.events
}

// Close shuts the connection down. Safe to call multiple times and from
// multiple goroutines; only the first call does anything.
func (c *Channel) Close() error {
	if atomic.CompareAndSwapUint32(&c.active, 1, 0) {
		c.sendMutex.Lock()
		c.conn.Close()
		c.sendMutex.Unlock()
	}
	return nil
}

func (c *Channel) isActive() bool {
	return atomic.LoadUint32(&c.active) == 1
}

func (c *Channel) write(frame []byte) error {
	if !c.isActive() {
		return &domain.ChannelError{Err: gows.ErrCloseSent}
	}
	c.sendMutex.Lock()
	err := c.conn.WriteMessage(gows.TextMessage, frame)
	c.sendMutex.Unlock()
	if err != nil {
		return &domain.ChannelError{Err: err}
	}
	return nil
}

// readLoop decodes inbound frames until the connection dies. A frame that
// fails to decode is reported as an event but does not end the loop; the
// connection itself is still usable.
func (c *Channel) readLoop() {
	defer close(c.events)

	for {
		typ, data, err := c.conn.ReadMessage()
		if err != nil {
			if !c.isActive() || gows.IsCloseError(err, gows.CloseNormalClosure, gows.CloseGoingAway) {
				c.emit(usecase.ChannelEvent{Kind: usecase.EventClosed})
			} else {
				c.emit(usecase.ChannelEvent{Kind: usecase.EventError, Err: &domain.ChannelError{Err: err}})
			}
			c.Close()
			return
		}
		if typ != gows.TextMessage {
			continue
		}

		in, err := domain.DecodeInbound(data)
		if err != nil {
			c.emit(usecase.ChannelEvent{Kind: usecase.EventError, Err: err})
			continue
		}
		switch in := in.(type) {
		case domain.ChatMessage:
			c.emit(usecase.ChannelEvent{Kind: usecase.EventChat, Sender: in.Sender, Text: in.Sentence})
		case domain.RosterUpdate:
			c.emit(usecase.ChannelEvent{Kind: usecase.EventRosterUpdate})
		}
	}
}

func (c *Channel) emit(ev usecase.ChannelEvent) {
	select {
	case c.events <- ev:
	default:
		c.log.Warn("dropping channel event, consumer too slow", "kind", ev.Kind)
	}
}
