package client

import (
	"strings"
	"sync"
)

// AppState is the single source of truth for the client view. Every
// mutation goes through Store.Update, which re-notifies the render
// callback, so no two views of the state can drift apart.
type AppState struct {
	User        *User
	LoggedIn    bool
	Influencers []Influencer
	Campaigns   []Campaign
	Following   []uint
	SearchQuery string
	Message     string
}

// SearchResults holds the listings matching the current search query
type SearchResults struct {
	Influencers []Influencer
	Campaigns   []Campaign
}

// Filtered returns the listings matching SearchQuery with a
// case-insensitive substring match. Influencers match on name, niche,
// or bio; campaigns on title, target niche, or description. A blank
// query returns everything.
func (s AppState) Filtered() SearchResults {
	q := strings.ToLower(strings.TrimSpace(s.SearchQuery))
	if q == "" {
		return SearchResults{Influencers: s.Influencers, Campaigns: s.Campaigns}
	}

	var influencers []Influencer
	for _, inf := range s.Influencers {
		if containsFold(inf.Name, q) || containsFold(inf.Niche, q) || containsFold(inf.Bio, q) {
			influencers = append(influencers, inf)
		}
	}

	var campaigns []Campaign
	for _, campaign := range s.Campaigns {
		if containsFold(campaign.Title, q) || containsFold(campaign.TargetNiche, q) ||
			containsFold(campaign.Description, q) {
			campaigns = append(campaigns, campaign)
		}
	}

	return SearchResults{Influencers: influencers, Campaigns: campaigns}
}

func containsFold(s, q string) bool {
	return strings.Contains(strings.ToLower(s), q)
}

// Store owns the application state. The state value is only reachable
// through Update and State, which copy it.
type Store struct {
	mu       sync.Mutex
	state    AppState
	onChange func(AppState)
}

// NewStore creates a store. onChange is invoked with a copy of the new
// state after every Update; it may be nil.
func NewStore(onChange func(AppState)) *Store {
	return &Store{onChange: onChange}
}

// Update is the single mutation entry point. fn receives the state by
// reference; when it returns, the render callback observes the result.
func (s *Store) Update(fn func(*AppState)) {
	s.mu.Lock()
	fn(&s.state)
	snapshot := copyState(s.state)
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(snapshot)
	}
}

// State returns a copy of the current state
func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.state)
}

func copyState(state AppState) AppState {
	out := state
	out.Influencers = cloneInfluencers(state.Influencers)
	out.Campaigns = append([]Campaign(nil), state.Campaigns...)
	out.Following = append([]uint(nil), state.Following...)
	if state.User != nil {
		user := *state.User
		out.User = &user
	}
	return out
}

func cloneInfluencers(in []Influencer) []Influencer {
	if in == nil {
		return nil
	}
	out := make([]Influencer, len(in))
	copy(out, in)
	return out
}
