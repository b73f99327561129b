package usecase

import (
	"github.com/samber/lo"

	"github.com/takaryo1010/OneTimeChat/client/domain"
)

// rosterSync replaces the participant sets wholesale on every completed
// fetch, last-fetch-wins. Because fetches are fire-and-continue, an
// earlier fetch can complete after a later one; each fetch is tagged with
// a monotonically increasing sequence number and a completion may only be
// applied if no newer fetch has been applied already.
type rosterSync struct {
	nextSeq    uint64
	appliedSeq uint64
	roster     domain.Roster
}

// begin registers a new fetch and returns its sequence number.
func (r *rosterSync) begin() uint64 {
	r.nextSeq++
	return r.nextSeq
}

// apply installs a completed fetch. It reports false when a fetch with a
// higher sequence number already completed, in which case the result is
// discarded as stale.
func (r *rosterSync) apply(seq uint64, roster domain.Roster) bool {
	if seq <= r.appliedSeq {
		return false
	}
	r.appliedSeq = seq
	r.roster = roster
	return true
}

// current returns the roster as of the last applied fetch.
func (r *rosterSync) current() domain.Roster {
	return r.roster
}

// applied reports whether any fetch has completed yet. Self-absence must
// not be inferred from the zero-value roster.
func (r *rosterSync) applied() bool {
	return r.appliedSeq > 0
}

// pending lists the client IDs awaiting approval, in server order.
func (r *rosterSync) pending() []string {
	return lo.Map(r.roster.Unauthenticated, func(p domain.Participant, _ int) string {
		return p.ClientID
	})
}
