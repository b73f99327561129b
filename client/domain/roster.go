package domain

// Participant is one member of a room as reported by the participants
// endpoint.
type Participant struct {
	Name     string `json:"name"`
	ClientID string `json:"clientid"`
	IsOwner  bool   `json:"isowner"`
}

// Roster holds the two disjoint participant sets. A client ID appears in
// exactly one set at any time; the owner is always in Authenticated. Both
// slices keep the server's ordering.
type Roster struct {
	Authenticated   []Participant `json:"authenticatedClients"`
	Unauthenticated []Participant `json:"unauthenticatedClients"`
}

func NewRoster(authenticated, unauthenticated []Participant) Roster {
	return Roster{
		Authenticated:   authenticated,
		Unauthenticated: unauthenticated,
	}
}

// HasAuthenticated reports whether a participant with the given name is in
// the authenticated set. The roster does not expose session IDs, so name
// is the only facet a client can match itself against.
func (r Roster) HasAuthenticated(name string) bool {
	for _, p := range r.Authenticated {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (r Roster) Size() int {
	return len(r.Authenticated) + len(r.Unauthenticated)
}
