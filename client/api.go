// Package client is the Go client for the marketplace service. It
// mirrors the browser application's core: an API client, an
// application-state store with a single update entry point, optimistic
// follow/unfollow with snapshot rollback, and an idle session timer.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// User is the authenticated account as returned by the auth endpoints
type User struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Influencer is a listing annotated with the viewer-relative flags
// computed by the server. The server is authoritative for these flags;
// the client never recomputes them.
type Influencer struct {
	ID             uint    `json:"id"`
	UserID         *uint   `json:"user_id"`
	Name           string  `json:"name"`
	Niche          string  `json:"niche"`
	Followers      int     `json:"followers"`
	Bio            string  `json:"bio"`
	ImageURL       *string `json:"image_url"`
	SocialLink     *string `json:"social_link"`
	PricePost      *string `json:"price_post"`
	PriceVideo     *string `json:"price_video"`
	PricePromotion *string `json:"price_promotion"`
	IsFollowing    bool    `json:"is_following"`
	CanEdit        bool    `json:"can_edit"`
	CanDelete      bool    `json:"can_delete"`
	CanFollow      bool    `json:"can_follow"`
	CanUnfollow    bool    `json:"can_unfollow"`
}

// Campaign is a brand campaign listing with viewer-relative flags
type Campaign struct {
	ID           uint    `json:"id"`
	UserID       uint    `json:"user_id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Budget       float64 `json:"budget"`
	TargetNiche  string  `json:"target_niche"`
	CampaignLink *string `json:"campaign_link"`
	CanEdit      bool    `json:"can_edit"`
	CanDelete    bool    `json:"can_delete"`
}

// InfluencerRequest carries the fields for influencer create/update
type InfluencerRequest struct {
	UserID         uint    `json:"user_id"`
	Name           string  `json:"name"`
	Niche          string  `json:"niche"`
	Followers      int     `json:"followers"`
	Bio            string  `json:"bio"`
	ImageURL       *string `json:"image_url"`
	SocialLink     *string `json:"social_link"`
	PricePost      *string `json:"price_post"`
	PriceVideo     *string `json:"price_video"`
	PricePromotion *string `json:"price_promotion"`
}

// CampaignRequest carries the fields for campaign create/update
type CampaignRequest struct {
	UserID       uint    `json:"user_id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Budget       float64 `json:"budget"`
	TargetNiche  string  `json:"target_niche"`
	CampaignLink *string `json:"campaign_link"`
}

// AuthResponse is the register/login response
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// APIError is a non-2xx response decoded from the server's error payload
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to the marketplace HTTP API
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new API client instance
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		message := http.StatusText(resp.StatusCode)
		if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error != "" {
			message = errResp.Error
		}
		return &APIError{Status: resp.StatusCode, Message: message}
	}

	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

// Register creates a new account
func (c *Client) Register(name, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(http.MethodPost, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates with email and password
func (c *Client) Login(email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListInfluencers fetches all influencers annotated for the viewer
func (c *Client) ListInfluencers(viewerID uint) ([]Influencer, error) {
	var influencers []Influencer
	path := fmt.Sprintf("/influencers?user_id=%d", viewerID)
	if err := c.do(http.MethodGet, path, nil, &influencers); err != nil {
		return nil, err
	}
	return influencers, nil
}

// ListFollows fetches the ids of influencers followed by the user
func (c *Client) ListFollows(userID uint) ([]uint, error) {
	var ids []uint
	path := fmt.Sprintf("/influencers/follows?user_id=%d", userID)
	if err := c.do(http.MethodGet, path, nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// CreateInfluencer creates a listing and returns its id
func (c *Client) CreateInfluencer(req InfluencerRequest) (uint, error) {
	var resp struct {
		ID uint `json:"id"`
	}
	if err := c.do(http.MethodPost, "/influencers", req, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// UpdateInfluencer replaces all mutable fields of a listing
func (c *Client) UpdateInfluencer(id uint, req InfluencerRequest) error {
	return c.do(http.MethodPut, fmt.Sprintf("/influencers/%d", id), req, nil)
}

// DeleteInfluencer removes a listing
func (c *Client) DeleteInfluencer(id, userID uint) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/influencers/%d", id),
		map[string]uint{"user_id": userID}, nil)
}

// Follow records a follow relationship for the user
func (c *Client) Follow(influencerID, userID uint) error {
	return c.do(http.MethodPost, fmt.Sprintf("/influencers/%d/follow", influencerID),
		map[string]uint{"user_id": userID}, nil)
}

// Unfollow removes a follow relationship for the user
func (c *Client) Unfollow(influencerID, userID uint) error {
	return c.do(http.MethodPost, fmt.Sprintf("/influencers/%d/unfollow", influencerID),
		map[string]uint{"user_id": userID}, nil)
}

// ListCampaigns fetches all campaigns annotated for the viewer
func (c *Client) ListCampaigns(viewerID uint) ([]Campaign, error) {
	var campaigns []Campaign
	path := fmt.Sprintf("/campaigns?user_id=%d", viewerID)
	if err := c.do(http.MethodGet, path, nil, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// CreateCampaign creates a campaign and returns its id
func (c *Client) CreateCampaign(req CampaignRequest) (uint, error) {
	var resp struct {
		ID uint `json:"id"`
	}
	if err := c.do(http.MethodPost, "/campaigns", req, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// UpdateCampaign replaces all mutable fields of a campaign
func (c *Client) UpdateCampaign(id uint, req CampaignRequest) error {
	return c.do(http.MethodPut, fmt.Sprintf("/campaigns/%d", id), req, nil)
}

// DeleteCampaign removes a campaign
func (c *Client) DeleteCampaign(id, userID uint) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/campaigns/%d", id),
		map[string]uint{"user_id": userID}, nil)
}
