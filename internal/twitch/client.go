// Package twitch wraps the Helix API endpoints used for clip discovery.
package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

const (
	baseURL        = "https://api.twitch.tv/helix"
	tokenURL       = "https://id.twitch.tv/oauth2/token"
	defaultTimeout = 15 * time.Second
	maxPageSize    = 100
)

type Client struct {
	clientID   string
	httpClient *http.Client
	baseURL    string
}

type Config struct {
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// User is a Helix channel identity.
type User struct {
	ID          string `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

// Clip is one Helix clip record.
type Clip struct {
	ID              string  `json:"id"`
	URL             string  `json:"url"`
	BroadcasterID   string  `json:"broadcaster_id"`
	BroadcasterName string  `json:"broadcaster_name"`
	Title           string  `json:"title"`
	ViewCount       int     `json:"view_count"`
	Duration        float64 `json:"duration"`
	CreatedAt       string  `json:"created_at"`
}

type usersResponse struct {
	Data []User `json:"data"`
}

type clipsResponse struct {
	Data       []Clip `json:"data"`
	Pagination struct {
		Cursor string `json:"cursor"`
	} `json:"pagination"`
}

// NewClient builds a Helix client authenticated with the app access token
// flow. Token refresh is handled by the underlying oauth2 transport.
func NewClient(ctx context.Context, cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
	}

	httpClient := creds.Client(ctx)
	httpClient.Timeout = timeout

	return &Client{
		clientID:   cfg.ClientID,
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// UserByLogin resolves a channel login name to its Helix identity.
func (c *Client) UserByLogin(ctx context.Context, login string) (*User, error) {
	params := url.Values{}
	params.Set("login", login)

	var resp usersResponse
	if err := c.get(ctx, "/users", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("twitch user %q not found", login)
	}
	return &resp.Data[0], nil
}

// ClipsForGame returns up to limit clips for a game created since the
// given time, most viewed first.
func (c *Client) ClipsForGame(ctx context.Context, gameID string, startedAt time.Time, limit int) ([]Clip, error) {
	params := url.Values{}
	params.Set("game_id", gameID)
	return c.clips(ctx, params, startedAt, limit)
}

// ClipsForBroadcaster returns up to limit clips for a channel created
// since the given time, most viewed first.
func (c *Client) ClipsForBroadcaster(ctx context.Context, broadcasterID string, startedAt time.Time, limit int) ([]Clip, error) {
	params := url.Values{}
	params.Set("broadcaster_id", broadcasterID)
	return c.clips(ctx, params, startedAt, limit)
}

func (c *Client) clips(ctx context.Context, params url.Values, startedAt time.Time, limit int) ([]Clip, error) {
	if limit <= 0 {
		limit = 20
	}
	if !startedAt.IsZero() {
		params.Set("started_at", startedAt.UTC().Format(time.RFC3339))
	}

	var clips []Clip
	cursor := ""
	for len(clips) < limit {
		page := limit - len(clips)
		if page > maxPageSize {
			page = maxPageSize
		}
		params.Set("first", strconv.Itoa(page))
		if cursor != "" {
			params.Set("after", cursor)
		}

		var resp clipsResponse
		if err := c.get(ctx, "/clips", params, &resp); err != nil {
			return nil, err
		}
		clips = append(clips, resp.Data...)

		cursor = resp.Pagination.Cursor
		if cursor == "" || len(resp.Data) == 0 {
			break
		}
	}

	if len(clips) > limit {
		clips = clips[:limit]
	}
	return clips, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	// Helix requires the client id alongside the bearer token.
	req.Header.Set("Client-Id", c.clientID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("twitch api %s: %s: %s", path, resp.Status, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
