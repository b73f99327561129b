package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeInbound_ChatMessage(t *testing.T) {
	req := require.New(t)

	in, err := DecodeInbound([]byte(`{"type":"message","sender":"alice","sentence":"hi"}`))
	req.NoError(err)

	msg, ok := in.(ChatMessage)
	req.True(ok)
	req.Equal("alice", msg.Sender)
	req.Equal("hi", msg.Sentence)
}

func TestDecodeInbound_RosterUpdate(t *testing.T) {
	req := require.New(t)

	in, err := DecodeInbound([]byte(`{"type":"participants_update"}`))
	req.NoError(err)
	req.IsType(RosterUpdate{}, in)
}

func TestDecodeInbound_UnknownType(t *testing.T) {
	req := require.New(t)

	_, err := DecodeInbound([]byte(`{"type":"presence"}`))
	req.Error(err)

	var perr *ProtocolError
	req.True(errors.As(err, &perr))
	req.Contains(perr.Reason, "presence")
}

func TestDecodeInbound_Malformed(t *testing.T) {
	req := require.New(t)

	_, err := DecodeInbound([]byte(`{not json`))
	var perr *ProtocolError
	req.True(errors.As(err, &perr))
}

func TestEncodeMessage(t *testing.T) {
	req := require.New(t)

	b, err := EncodeMessage("hello")
	req.NoError(err)
	req.JSONEq(`{"type":"message","content":"hello"}`, string(b))
}

func TestEncodeRosterUpdate(t *testing.T) {
	req := require.New(t)

	b, err := EncodeRosterUpdate()
	req.NoError(err)
	req.JSONEq(`{"type":"participants_update"}`, string(b))
}
