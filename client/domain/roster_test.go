package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRosterHasAuthenticated(t *testing.T) {
	req := require.New(t)

	roster := NewRoster(
		[]Participant{
			{Name: "alice", ClientID: "c1", IsOwner: true},
			{Name: "bob", ClientID: "c2"},
		},
		[]Participant{
			{Name: "carol", ClientID: "c3"},
		},
	)

	req.True(roster.HasAuthenticated("bob"))
	req.False(roster.HasAuthenticated("carol"))
	req.False(roster.HasAuthenticated("mallory"))
	req.Equal(3, roster.Size())
}

func TestAuthStateString(t *testing.T) {
	req := require.New(t)

	req.Equal("loading", StateLoading.String())
	req.Equal("unauthenticated", StateUnauthenticated.String())
	req.Equal("pending_approval", StatePendingApproval.String())
	req.Equal("authenticated", StateAuthenticated.String())
	req.Equal("unknown", AuthState(42).String())
}

func TestChannelStateString(t *testing.T) {
	req := require.New(t)

	req.Equal("disconnected", ChannelDisconnected.String())
	req.Equal("connecting", ChannelConnecting.String())
	req.Equal("open", ChannelOpen.String())
	req.Equal("closed", ChannelClosed.String())
	req.Equal("errored", ChannelErrored.String())
}
