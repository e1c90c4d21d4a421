package client

import "errors"

// ErrNotLoggedIn is returned when an action requires a session
var ErrNotLoggedIn = errors.New("not logged in")

// Snapshot captures the state affected by an optimistic follow or
// unfollow. On failure it is restored verbatim rather than re-fetched,
// since a reload could race with other local edits.
type Snapshot struct {
	Influencers []Influencer
	Following   []uint
}

// Snapshot copies the affected collections out of the store
func (s *Store) Snapshot() Snapshot {
	state := s.State()
	return Snapshot{
		Influencers: state.Influencers,
		Following:   state.Following,
	}
}

// Restore puts a previously captured snapshot back
func (s *Store) Restore(snap Snapshot) {
	s.Update(func(state *AppState) {
		state.Influencers = snap.Influencers
		state.Following = snap.Following
	})
}

// Controller dispatches user actions against the API and reconciles the
// store: tentative update first, server truth on success, snapshot
// restore on failure.
type Controller struct {
	Store *Store
	API   *Client
}

// NewController wires a store to an API client
func NewController(store *Store, api *Client) *Controller {
	return &Controller{Store: store, API: api}
}

// Follow optimistically follows an influencer. The local counter and
// flags change before the request; on any failure the prior snapshot is
// restored, on success authoritative data is re-fetched.
func (c *Controller) Follow(influencerID uint) error {
	state := c.Store.State()
	if !state.LoggedIn || state.User == nil {
		return ErrNotLoggedIn
	}

	snap := c.Store.Snapshot()

	c.Store.Update(func(state *AppState) {
		for i := range state.Influencers {
			if state.Influencers[i].ID != influencerID {
				continue
			}
			state.Influencers[i].Followers++
			state.Influencers[i].IsFollowing = true
			state.Influencers[i].CanFollow = false
			state.Influencers[i].CanUnfollow = true
		}
		state.Following = append(state.Following, influencerID)
	})

	if err := c.API.Follow(influencerID, state.User.ID); err != nil {
		c.Store.Restore(snap)
		c.setMessage(err)
		return err
	}

	return c.Refresh()
}

// Unfollow optimistically unfollows an influencer, flooring the local
// counter at zero
func (c *Controller) Unfollow(influencerID uint) error {
	state := c.Store.State()
	if !state.LoggedIn || state.User == nil {
		return ErrNotLoggedIn
	}

	snap := c.Store.Snapshot()

	c.Store.Update(func(state *AppState) {
		for i := range state.Influencers {
			if state.Influencers[i].ID != influencerID {
				continue
			}
			if state.Influencers[i].Followers > 0 {
				state.Influencers[i].Followers--
			}
			state.Influencers[i].IsFollowing = false
			state.Influencers[i].CanFollow = true
			state.Influencers[i].CanUnfollow = false
		}
		state.Following = removeID(state.Following, influencerID)
	})

	if err := c.API.Unfollow(influencerID, state.User.ID); err != nil {
		c.Store.Restore(snap)
		c.setMessage(err)
		return err
	}

	return c.Refresh()
}

// Refresh replaces the listings and follow set with server truth,
// correcting any drift left by concurrent optimistic edits
func (c *Controller) Refresh() error {
	state := c.Store.State()

	var viewerID uint
	if state.User != nil {
		viewerID = state.User.ID
	}

	influencers, err := c.API.ListInfluencers(viewerID)
	if err != nil {
		c.setMessage(err)
		return err
	}

	campaigns, err := c.API.ListCampaigns(viewerID)
	if err != nil {
		c.setMessage(err)
		return err
	}

	following, err := c.API.ListFollows(viewerID)
	if err != nil {
		c.setMessage(err)
		return err
	}

	c.Store.Update(func(state *AppState) {
		state.Influencers = influencers
		state.Campaigns = campaigns
		state.Following = following
	})
	return nil
}

func (c *Controller) setMessage(err error) {
	c.Store.Update(func(state *AppState) {
		state.Message = err.Error()
	})
}

func removeID(ids []uint, id uint) []uint {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
