package usecase

import (
	"context"

	"github.com/takaryo1010/OneTimeChat/client/domain"
)

// Lifecycle is the REST surface of the room service. All calls may fail
// with *domain.NetworkError or *domain.HTTPError.
type Lifecycle interface {
	CreateRoom(ctx context.Context, cfg domain.RoomConfig) (domain.Room, error)
	JoinRoom(ctx context.Context, roomID, clientName string) (domain.JoinResult, error)
	GetRoom(ctx context.Context, roomID string) (domain.Room, error)
	CheckAuthorized(ctx context.Context, roomID string) (bool, error)
	ListParticipants(ctx context.Context, roomID string) (domain.Roster, error)
	Approve(ctx context.Context, roomID, clientID string) error
	Kick(ctx context.Context, roomID, clientID string) error
	Leave(ctx context.Context, roomID string) error
	UpdateSettings(ctx context.Context, roomID string, cfg domain.RoomConfig) (domain.Room, error)
	DeleteRoom(ctx context.Context, roomID string) error
}

// ChannelEventKind discriminates events delivered by a Channel.
type ChannelEventKind int

const (
	EventChat ChannelEventKind = iota
	EventRosterUpdate
	EventClosed
	EventError
)

// ChannelEvent is one event read from the realtime channel.
type ChannelEvent struct {
	Kind   ChannelEventKind
	Sender string
	Text   string
	Err    error
}

// Channel is one open realtime connection. Events terminates when the
// connection is gone; Close is safe to call more than once.
type Channel interface {
	SendMessage(content string) error
	RequestRosterSync() error
	Events() <-chan ChannelEvent
	Close() error
}

// Dialer opens realtime channels. At most one channel per room membership
// is live at a time; the Session enforces that, not the Dialer.
type Dialer interface {
	Dial(ctx context.Context, roomID, clientName string) (Channel, error)
}

// Recorder receives every message appended to the session log. Used by the
// optional local transcript archive.
type Recorder interface {
	Record(roomID string, msg domain.Message) error
}
