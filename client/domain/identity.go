package domain

// SessionIdentity is the identity the server establishes as a side effect
// of create/join, carried in cookies (`session_id`, `room_id`, `user_name`,
// `is_owner`). The controller treats it as read-only configuration resolved
// once at construction; it is never re-read mid-operation.
type SessionIdentity struct {
	SessionID string
	RoomID    string
	UserName  string
	IsOwner   bool
}

func NewSessionIdentity(sessionID, roomID, userName string, isOwner bool) SessionIdentity {
	return SessionIdentity{
		SessionID: sessionID,
		RoomID:    roomID,
		UserName:  userName,
		IsOwner:   isOwner,
	}
}

func (s SessionIdentity) IsValid() bool {
	return s.SessionID != "" && s.RoomID != ""
}
