package domain

// AuthState is the gate deciding whether chat content may be shown.
type AuthState int

const (
	StateLoading AuthState = iota
	StateUnauthenticated
	StatePendingApproval
	StateAuthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StatePendingApproval:
		return "pending_approval"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// ChannelState is the lifecycle of the realtime channel. There is no
// automatic reconnect from Closed or Errored; recovery is an explicit
// Connect from the surrounding application.
type ChannelState int

const (
	ChannelDisconnected ChannelState = iota
	ChannelConnecting
	ChannelOpen
	ChannelClosed
	ChannelErrored
)

func (s ChannelState) String() string {
	switch s {
	case ChannelDisconnected:
		return "disconnected"
	case ChannelConnecting:
		return "connecting"
	case ChannelOpen:
		return "open"
	case ChannelClosed:
		return "closed"
	case ChannelErrored:
		return "errored"
	default:
		return "unknown"
	}
}
