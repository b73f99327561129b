package usecase

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/takaryo1010/OneTimeChat/client/domain"
)

const eventBuffer = 64

// Snapshot is the controller's observable state tuple. PendingApprovals
// lists the client IDs still waiting for the owner, in server order.
type Snapshot struct {
	Auth             domain.AuthState
	Room             domain.Room
	Roster           domain.Roster
	PendingApprovals []string
	Messages         []domain.Message
	Channel          domain.ChannelState
}

// Session reconciles the room lifecycle API, the realtime channel and the
// locally persisted identity into one consistent view of the room.
//
// All state transitions happen on the single goroutine running Run; REST
// calls and channel reads are fire-and-continue, their completions posted
// back into the loop as events. Completions arriving after Close are
// dropped. Ordering between a REST completion and a channel event is not
// guaranteed, so every transition applies the latest-known fact instead of
// assuming an arrival order.
//
// No timeouts are imposed on REST calls or the channel dial; a server that
// never answers leaves the gate in Loading until the user retries.
type Session struct {
	identity domain.SessionIdentity
	api      Lifecycle
	dialer   Dialer
	recorder Recorder
	log      *slog.Logger

	events    chan event
	done      chan struct{}
	closeOnce sync.Once
	updates   chan struct{}

	mu        sync.RWMutex
	gate      *AuthGate
	roster    rosterSync
	room      domain.Room
	messages  []domain.Message
	ch        Channel
	chState   domain.ChannelState
	dialing   bool
	connected bool
}

// Option configures a Session.
type Option func(*Session)

// WithRecorder copies every appended message to r.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

func NewSession(identity domain.SessionIdentity, api Lifecycle, dialer Dialer, log *slog.Logger, opts ...Option) *Session {
	s := &Session{
		identity: identity,
		api:      api,
		dialer:   dialer,
		log:      log,
		events:   make(chan event, eventBuffer),
		done:     make(chan struct{}),
		updates:  make(chan struct{}, 1),
		gate:     NewAuthGate(identity.IsOwner),
		chState:  domain.ChannelDisconnected,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type event interface{}

type evConnect struct{}

type evRoomFetched struct {
	room      domain.Room
	err       error
	userRetry bool
}

type evAuthChecked struct {
	authorized bool
	err        error
	userRetry  bool
}

type evRosterFetched struct {
	seq    uint64
	roster domain.Roster
	err    error
	remote bool
}

type evDialed struct {
	ch  Channel
	err error
}

type evChannel struct {
	ev ChannelEvent
}

type evSend struct{ content string }

type evSendFailed struct {
	ch  Channel
	err error
}

type evRefresh struct{}

type evApprove struct{ clientID string }

type evKick struct{ clientID string }

type evActionDone struct {
	op  string
	err error
}

// Run processes events until ctx is cancelled or the session is closed.
func (s *Session) Run(ctx context.Context) error {
	defer s.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case ev := <-s.events:
			s.handle(ctx, ev)
		}
	}
}

// Close tears the session down: the open channel is closed exactly once
// and any in-flight completion is dropped. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		if s.ch != nil {
			s.ch.Close()
			s.ch = nil
		}
		if s.chState == domain.ChannelOpen || s.chState == domain.ChannelConnecting {
			s.chState = domain.ChannelClosed
		}
		s.mu.Unlock()
	})
	return nil
}

// Connect starts (or, on later calls, re-runs) the authorization sequence.
// Recovery from a closed or errored channel goes through here as well; the
// session never reconnects on its own.
func (s *Session) Connect() {
	s.post(evConnect{})
}

// SendMessage appends content to the log optimistically and transmits it.
// The server does not echo frames back to their sender, so the optimistic
// entry is the only copy that will ever exist; a transport failure after
// the append leaves it visible without delivery confirmation.
func (s *Session) SendMessage(content string) error {
	s.mu.RLock()
	open := s.chState == domain.ChannelOpen
	s.mu.RUnlock()
	if !open {
		return &domain.ChannelError{Err: errors.New("channel is not open")}
	}
	s.post(evSend{content: content})
	return nil
}

// Approve asks the server to move clientID into the authenticated set.
// Only meaningful for owners.
func (s *Session) Approve(clientID string) {
	s.post(evApprove{clientID: clientID})
}

// Kick removes clientID from the room. Only meaningful for owners;
// kicking an absent client is not an error.
func (s *Session) Kick(clientID string) {
	s.post(evKick{clientID: clientID})
}

// RefreshRoster re-fetches the participant sets on user request.
func (s *Session) RefreshRoster() {
	s.post(evRefresh{})
}

// Updates signals, coalescing, that the observable state changed.
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

func (s *Session) Identity() domain.SessionIdentity {
	return s.identity
}

// Snapshot returns a copy of the observable state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Auth:             s.gate.State(),
		Room:             s.room,
		Roster:           s.roster.current(),
		PendingApprovals: s.roster.pending(),
		Messages:         slices.Clone(s.messages),
		Channel:          s.chState,
	}
}

func (s *Session) post(ev event) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

func (s *Session) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

func (s *Session) handle(ctx context.Context, ev event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.notify()

	switch ev := ev.(type) {
	case evConnect:
		userRetry := s.connected
		s.connected = true
		if userRetry {
			s.gate.Reset()
		}
		go func() {
			room, err := s.api.GetRoom(ctx, s.identity.RoomID)
			s.post(evRoomFetched{room: room, err: err, userRetry: userRetry})
		}()

	case evRoomFetched:
		if ev.err != nil {
			// Background failure: keep the prior state, the next
			// trigger retries.
			s.log.Warn("room fetch failed", "room", s.identity.RoomID, "err", ev.err)
			return
		}
		s.room = ev.room
		if s.gate.RoomResolved(ev.room.RequiresAuth) {
			s.startAuthCheck(ctx, ev.userRetry)
			return
		}
		if s.gate.State() == domain.StateAuthenticated {
			s.ensureChannel(ctx)
		}

	case evAuthChecked:
		if ev.err != nil {
			s.log.Warn("authorization poll failed", "room", s.identity.RoomID, "err", ev.err)
			return
		}
		s.gate.CheckResult(ev.authorized, ev.userRetry)
		switch s.gate.State() {
		case domain.StateAuthenticated, domain.StatePendingApproval:
			s.ensureChannel(ctx)
		case domain.StateUnauthenticated:
			// A retry denial is terminal; a probe channel left over from
			// PendingApproval must not outlive the gate.
			if s.ch != nil {
				s.closeChannel(domain.ChannelClosed)
			}
		}

	case evDialed:
		s.dialing = false
		if ev.err != nil {
			s.log.Warn("channel dial failed", "room", s.identity.RoomID, "err", ev.err)
			s.chState = domain.ChannelErrored
			return
		}
		select {
		case <-s.done:
			// Torn down while dialing.
			ev.ch.Close()
			return
		default:
		}
		if s.gate.State() == domain.StateUnauthenticated {
			// A retry denial landed while the dial was in flight.
			ev.ch.Close()
			s.chState = domain.ChannelClosed
			return
		}
		s.ch = ev.ch
		s.chState = domain.ChannelOpen
		go s.pump(ev.ch)
		// Mirror the join broadcast: fetch the roster for ourselves and
		// nudge everyone else to do the same.
		s.startRosterFetch(ctx, false)
		s.notifyRoster(ev.ch)

	case evChannel:
		s.handleChannelEvent(ctx, ev.ev)

	case evRosterFetched:
		if ev.err != nil {
			s.log.Warn("roster fetch failed", "room", s.identity.RoomID, "err", ev.err)
			return
		}
		if !s.roster.apply(ev.seq, ev.roster) {
			s.log.Debug("stale roster fetch discarded", "seq", ev.seq)
			return
		}
		if ev.remote && s.ch != nil {
			// Fan-out: one outbound notification per remote-triggered
			// refresh keeps every client's roster convergent without
			// server-side broadcast logic.
			s.notifyRoster(s.ch)
		}
		s.checkSelfPresence()

	case evSend:
		if s.ch == nil || s.chState != domain.ChannelOpen {
			s.log.Warn("dropping message, channel is not open", "state", s.chState)
			return
		}
		s.append(domain.NewMessage(s.identity.UserName, ev.content, true))
		s.transmit(s.ch, ev.content)

	case evSendFailed:
		// The optimistic entry stays visible; there is no delivery
		// confirmation to reconcile it against. A failure reported by a
		// channel already replaced through a retry is ignored.
		if s.ch == ev.ch {
			s.closeChannel(domain.ChannelErrored)
		}

	case evRefresh:
		s.startRosterFetch(ctx, false)

	case evApprove:
		go func() {
			err := s.api.Approve(ctx, s.identity.RoomID, ev.clientID)
			s.post(evActionDone{op: "approve", err: err})
		}()

	case evKick:
		go func() {
			err := s.api.Kick(ctx, s.identity.RoomID, ev.clientID)
			s.post(evActionDone{op: "kick", err: err})
		}()

	case evActionDone:
		if ev.err != nil {
			s.log.Warn("room action failed", "op", ev.op, "err", ev.err)
			return
		}
		s.startRosterFetch(ctx, false)
		if s.ch != nil {
			s.notifyRoster(s.ch)
		}
	}
}

func (s *Session) handleChannelEvent(ctx context.Context, ev ChannelEvent) {
	switch ev.Kind {
	case EventChat:
		s.append(domain.NewMessage(ev.Sender, ev.Text, false))

	case EventRosterUpdate:
		s.startRosterFetch(ctx, true)
		if s.gate.State() == domain.StatePendingApproval {
			// The owner may just have approved us.
			s.startAuthCheck(ctx, false)
		}

	case EventError:
		var perr *domain.ProtocolError
		if errors.As(ev.Err, &perr) {
			// Unexpected frame, connection itself is fine.
			s.log.Warn("protocol error on channel", "err", ev.Err)
			return
		}
		s.log.Warn("channel failed", "err", ev.Err)
		s.closeChannel(domain.ChannelErrored)

	case EventClosed:
		s.closeChannel(domain.ChannelClosed)
	}
}

// startAuthCheck polls the authorization endpoint. Caller holds s.mu.
func (s *Session) startAuthCheck(ctx context.Context, userRetry bool) {
	go func() {
		ok, err := s.api.CheckAuthorized(ctx, s.identity.RoomID)
		s.post(evAuthChecked{authorized: ok, err: err, userRetry: userRetry})
	}()
}

// startRosterFetch fetches the participant sets. remote marks fetches
// triggered by an inbound participants_update. Caller holds s.mu.
func (s *Session) startRosterFetch(ctx context.Context, remote bool) {
	seq := s.roster.begin()
	go func() {
		roster, err := s.api.ListParticipants(ctx, s.identity.RoomID)
		s.post(evRosterFetched{seq: seq, roster: roster, err: err, remote: remote})
	}()
}

// ensureChannel dials the realtime channel unless one is already live or
// being dialed. Caller holds s.mu.
func (s *Session) ensureChannel(ctx context.Context) {
	if s.ch != nil || s.dialing {
		return
	}
	s.dialing = true
	s.chState = domain.ChannelConnecting
	go func() {
		ch, err := s.dialer.Dial(ctx, s.identity.RoomID, s.identity.UserName)
		s.post(evDialed{ch: ch, err: err})
	}()
}

// checkSelfPresence applies rule: absence of the local, non-owner client
// from the authenticated set while Authenticated is the kick signal.
// Caller holds s.mu.
func (s *Session) checkSelfPresence() {
	if !s.roster.applied() {
		return
	}
	if s.roster.current().HasAuthenticated(s.identity.UserName) {
		return
	}
	if s.gate.SelfAbsent() {
		s.log.Info("removed from room", "room", s.identity.RoomID)
		s.closeChannel(domain.ChannelClosed)
	}
}

// transmit writes one chat frame off the loop goroutine, so a stalled
// peer cannot block event handling. A write failure comes back as an
// event like every other completion. Caller holds s.mu.
func (s *Session) transmit(ch Channel, content string) {
	go func() {
		if err := ch.SendMessage(content); err != nil {
			s.log.Error("message send failed", "err", err)
			s.post(evSendFailed{ch: ch, err: err})
		}
	}()
}

// notifyRoster sends one outbound participants_update off the loop
// goroutine. Failures are logged only; the roster state itself is already
// applied. Caller holds s.mu.
func (s *Session) notifyRoster(ch Channel) {
	go func() {
		if err := ch.RequestRosterSync(); err != nil {
			s.log.Warn("roster sync request failed", "err", err)
		}
	}()
}

// closeChannel drops the live channel, if any. Caller holds s.mu.
func (s *Session) closeChannel(state domain.ChannelState) {
	if s.ch != nil {
		s.ch.Close()
		s.ch = nil
	}
	s.chState = state
}

// pump forwards channel events into the session loop until the channel's
// event stream ends.
func (s *Session) pump(ch Channel) {
	for ev := range ch.Events() {
		s.post(evChannel{ev: ev})
	}
}

// append adds a message to the log and copies it to the recorder, if one
// is attached. Caller holds s.mu.
func (s *Session) append(msg domain.Message) {
	s.messages = append(s.messages, msg)
	if s.recorder != nil {
		if err := s.recorder.Record(s.identity.RoomID, msg); err != nil {
			s.log.Warn("transcript record failed", "err", err)
		}
	}
}
