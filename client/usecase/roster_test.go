package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/takaryo1010/OneTimeChat/client/domain"
)

func TestRosterSync_LastFetchWins(t *testing.T) {
	req := require.New(t)

	var rs rosterSync
	first := rs.begin()
	second := rs.begin()
	req.Less(first, second)

	newer := domain.NewRoster([]domain.Participant{{Name: "alice", ClientID: "c1"}}, nil)
	older := domain.NewRoster(nil, []domain.Participant{{Name: "bob", ClientID: "c2"}})

	// The later fetch completes first; the earlier one must be discarded.
	req.True(rs.apply(second, newer))
	req.False(rs.apply(first, older))
	req.Equal(newer, rs.current())
}

func TestRosterSync_InOrderCompletion(t *testing.T) {
	req := require.New(t)

	var rs rosterSync
	req.False(rs.applied())

	a := rs.begin()
	b := rs.begin()
	req.True(rs.apply(a, domain.Roster{}))
	req.True(rs.applied())
	req.True(rs.apply(b, domain.NewRoster([]domain.Participant{{Name: "alice"}}, nil)))
	req.True(rs.current().HasAuthenticated("alice"))
}

func TestRosterSync_DuplicateSeqDiscarded(t *testing.T) {
	req := require.New(t)

	var rs rosterSync
	a := rs.begin()
	req.True(rs.apply(a, domain.Roster{}))
	req.False(rs.apply(a, domain.NewRoster([]domain.Participant{{Name: "x"}}, nil)))
	req.False(rs.current().HasAuthenticated("x"))
}

func TestRosterSync_Pending(t *testing.T) {
	req := require.New(t)

	var rs rosterSync
	seq := rs.begin()
	rs.apply(seq, domain.NewRoster(
		[]domain.Participant{{Name: "alice", ClientID: "c1", IsOwner: true}},
		[]domain.Participant{{Name: "bob", ClientID: "c2"}, {Name: "carol", ClientID: "c3"}},
	))
	req.Equal([]string{"c2", "c3"}, rs.pending())
}
