package usecase

import "github.com/takaryo1010/OneTimeChat/client/domain"

// AuthGate decides whether the room's chat may be shown. It is a pure
// state machine; the Session feeds it facts (room metadata, authorization
// poll results, roster contents) and acts on the resulting state.
//
// Transitions are idempotent and order-independent: a fact that arrives
// late is either absorbed or ignored, never trusted over fresher evidence.
// In particular, once Authenticated, a stale negative poll result cannot
// demote; only observed absence from the authenticated roster can.
type AuthGate struct {
	state   domain.AuthState
	isOwner bool
	probing bool
}

func NewAuthGate(isOwner bool) *AuthGate {
	return &AuthGate{state: domain.StateLoading, isOwner: isOwner}
}

func (g *AuthGate) State() domain.AuthState {
	return g.state
}

// RoomResolved applies the room metadata. Owners are implicitly
// authorized, as are members of rooms that do not gate access. It reports
// whether an authorization poll is still needed to leave Loading.
func (g *AuthGate) RoomResolved(requiresAuth bool) (needsCheck bool) {
	if g.state == domain.StateAuthenticated {
		return false
	}
	if g.isOwner || !requiresAuth {
		g.state = domain.StateAuthenticated
		g.probing = false
		return false
	}
	return true
}

// CheckResult applies one authorization poll result. userRetry marks a
// poll triggered by an explicit user retry, whose failure is terminal
// until the next retry; the failure of the first automatic poll instead
// enters PendingApproval so the channel can open in probe mode and pick up
// the owner's approval signal.
func (g *AuthGate) CheckResult(authorized, userRetry bool) {
	if g.state == domain.StateAuthenticated {
		return
	}
	if authorized {
		g.state = domain.StateAuthenticated
		g.probing = false
		return
	}
	if userRetry {
		g.state = domain.StateUnauthenticated
		g.probing = false
		return
	}
	g.state = domain.StatePendingApproval
	g.probing = true
}

// Probing reports whether the gate is waiting for an approval signal.
func (g *AuthGate) Probing() bool {
	return g.probing
}

// SelfAbsent applies the observation that the local client is missing from
// the authenticated set. For a non-owner in Authenticated this is the kick
// signal and demotes the gate.
func (g *AuthGate) SelfAbsent() (demoted bool) {
	if g.isOwner || g.state != domain.StateAuthenticated {
		return false
	}
	g.state = domain.StateUnauthenticated
	return true
}

// Reset returns the gate to Loading ahead of a user-triggered re-run of
// the whole authorization sequence.
func (g *AuthGate) Reset() {
	g.state = domain.StateLoading
	g.probing = false
}
