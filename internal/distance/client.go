package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/yorkbites/orderdesk/internal/models"
)

// lookup requests are bounded: a stuck routing service must not
// hold up order intake
const lookupTimeout = 5 * time.Second

// Result is a routed distance between two addresses
type Result struct {
	Meters  int
	Seconds int
}

// Client represents HTTP client for the distance-lookup service
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates new Client instance
func NewClient(baseURL string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: lookupTimeout,
		},
		baseURL: baseURL,
	}
}

type lookupResponse struct {
	DistanceMeters  int `json:"distance_meters"`
	DurationSeconds int `json:"duration_seconds"`
}

// Lookup returns the routed distance and travel time from origin to destination
// 200 — successful lookup.
// 422 — destination address cannot be resolved.
// 500 — internal routing service error.
func (c *Client) Lookup(ctx context.Context, origin, destination string) (Result, error) {
	// GET /api/route?origin={origin}&destination={destination}
	u, err := url.JoinPath(c.baseURL, "api", "route")
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result{}, err
	}
	q := req.URL.Query()
	q.Set("origin", origin)
	q.Set("destination", destination)
	req.URL.RawQuery = q.Encode()

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return Result{}, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		lkpResp := lookupResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&lkpResp); err != nil {
			return Result{}, err
		}
		return Result{
			Meters:  lkpResp.DistanceMeters,
			Seconds: lkpResp.DurationSeconds,
		}, nil
	case http.StatusUnprocessableEntity:
		return Result{}, models.ErrInvalidRequest
	case http.StatusInternalServerError:
		return Result{}, models.ErrInternalError
	default:
		return Result{}, fmt.Errorf("distance lookup returned status %d", resp.StatusCode)
	}
}
