package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/takaryo1010/OneTimeChat/client/domain"
)

func TestAuthGate_OwnerShortCircuit(t *testing.T) {
	req := require.New(t)

	gate := NewAuthGate(true)
	req.Equal(domain.StateLoading, gate.State())

	needsCheck := gate.RoomResolved(true)
	req.False(needsCheck)
	req.Equal(domain.StateAuthenticated, gate.State())
}

func TestAuthGate_OpenRoom(t *testing.T) {
	req := require.New(t)

	gate := NewAuthGate(false)
	needsCheck := gate.RoomResolved(false)
	req.False(needsCheck)
	req.Equal(domain.StateAuthenticated, gate.State())
}

func TestAuthGate_GatedRoomNeedsCheck(t *testing.T) {
	req := require.New(t)

	gate := NewAuthGate(false)
	needsCheck := gate.RoomResolved(true)
	req.True(needsCheck)
	req.Equal(domain.StateLoading, gate.State())
}

func TestAuthGate_FirstDenialEntersPendingApproval(t *testing.T) {
	req := require.New(t)

	gate := NewAuthGate(false)
	gate.RoomResolved(true)
	gate.CheckResult(false, false)
	req.Equal(domain.StatePendingApproval, gate.State())
	req.True(gate.Probing())

	// Another automatic denial keeps probing.
	gate.CheckResult(false, false)
	req.Equal(domain.StatePendingApproval, gate.State())

	gate.CheckResult(true, false)
	req.Equal(domain.StateAuthenticated, gate.State())
	req.False(gate.Probing())
}

func TestAuthGate_UserRetryDenialIsTerminal(t *testing.T) {
	req := require.New(t)

	gate := NewAuthGate(false)
	gate.RoomResolved(true)
	gate.CheckResult(false, false)
	gate.CheckResult(false, true)
	req.Equal(domain.StateUnauthenticated, gate.State())
	req.False(gate.Probing())
}

func TestAuthGate_StaleDenialCannotDemote(t *testing.T) {
	req := require.New(t)

	gate := NewAuthGate(false)
	gate.RoomResolved(true)
	gate.CheckResult(true, false)
	req.Equal(domain.StateAuthenticated, gate.State())

	// A poll that was in flight when the approval landed.
	gate.CheckResult(false, false)
	req.Equal(domain.StateAuthenticated, gate.State())

	// Neither can late room metadata.
	gate.RoomResolved(true)
	req.Equal(domain.StateAuthenticated, gate.State())
}

func TestAuthGate_SelfAbsent(t *testing.T) {
	req := require.New(t)

	gate := NewAuthGate(false)
	gate.RoomResolved(false)
	req.Equal(domain.StateAuthenticated, gate.State())

	req.True(gate.SelfAbsent())
	req.Equal(domain.StateUnauthenticated, gate.State())

	// Only demotes out of Authenticated, and only once.
	req.False(gate.SelfAbsent())
}

func TestAuthGate_OwnerNeverDemoted(t *testing.T) {
	req := require.New(t)

	gate := NewAuthGate(true)
	gate.RoomResolved(true)
	req.False(gate.SelfAbsent())
	req.Equal(domain.StateAuthenticated, gate.State())
}

func TestAuthGate_Reset(t *testing.T) {
	req := require.New(t)

	gate := NewAuthGate(false)
	gate.RoomResolved(true)
	gate.CheckResult(false, false)
	gate.Reset()
	req.Equal(domain.StateLoading, gate.State())
	req.False(gate.Probing())
}
