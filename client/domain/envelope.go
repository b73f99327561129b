package domain

import (
	"encoding/json"
	"fmt"
)

// Envelope kinds exchanged over the realtime channel.
const (
	EnvelopeMessage      = "message"
	EnvelopeRosterUpdate = "participants_update"
)

// envelope is the wire shape of a channel frame. Inbound chat frames carry
// the text in `sentence`, outbound ones in `content`; roster updates carry
// no payload at all.
type envelope struct {
	Type     string `json:"type"`
	Sender   string `json:"sender,omitempty"`
	Sentence string `json:"sentence,omitempty"`
	Content  string `json:"content,omitempty"`
}

// Inbound is the closed union of frames a client may receive.
type Inbound interface {
	isInbound()
}

// ChatMessage is an inbound chat frame from another participant. The
// server never echoes a sender's own frame back.
type ChatMessage struct {
	Sender   string
	Sentence string
}

// RosterUpdate signals that the participant sets changed server-side and
// should be re-fetched. It carries no payload.
type RosterUpdate struct{}

func (ChatMessage) isInbound()  {}
func (RosterUpdate) isInbound() {}

// DecodeInbound parses one received frame into the tagged union. Unknown
// or malformed frames yield a ProtocolError instead of being silently
// dropped.
func DecodeInbound(data []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &ProtocolError{Reason: fmt.Sprintf("malformed frame: %v", err)}
	}
	switch env.Type {
	case EnvelopeMessage:
		return ChatMessage{Sender: env.Sender, Sentence: env.Sentence}, nil
	case EnvelopeRosterUpdate:
		return RosterUpdate{}, nil
	default:
		return nil, &ProtocolError{Reason: "unknown envelope type: " + env.Type}
	}
}

// EncodeMessage builds the outbound frame for a chat message.
func EncodeMessage(content string) ([]byte, error) {
	return json.Marshal(envelope{Type: EnvelopeMessage, Content: content})
}

// EncodeRosterUpdate builds the outbound frame asking other clients to
// refresh their rosters.
func EncodeRosterUpdate() ([]byte, error) {
	return json.Marshal(envelope{Type: EnvelopeRosterUpdate})
}
