package domain

import "time"

// Room is the server's view of a chat room. It is immutable from the
// client's perspective; only the server mutates it.
type Room struct {
	ID           string    `json:"ID"`
	Name         string    `json:"name"`
	Owner        string    `json:"owner"`
	Expires      time.Time `json:"expires"`
	RequiresAuth bool      `json:"requiresAuth"`
}

func (r Room) IsValid() bool {
	return r.ID != ""
}

// RoomConfig carries the parameters for creating a room or updating its
// settings.
type RoomConfig struct {
	Name         string    `json:"name"`
	Owner        string    `json:"owner"`
	Expires      time.Time `json:"expires"`
	RequiresAuth bool      `json:"requiresAuth"`
}

func NewRoomConfig(name, owner string, expires time.Time, requiresAuth bool) RoomConfig {
	return RoomConfig{
		Name:         name,
		Owner:        owner,
		Expires:      expires,
		RequiresAuth: requiresAuth,
	}
}

// JoinResult is the outcome of a join request. SessionGranted reports
// whether the server issued a session for this client.
type JoinResult struct {
	RoomID         string
	SessionID      string
	SessionGranted bool
}
