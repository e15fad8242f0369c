package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// WalkScoreClient calls the Walk Score API.
// Docs: GET /score?format=json&lat=..&lon=..&address=..&transit=1&bike=1
type WalkScoreClient struct {
	key     string
	baseURL string
	http    *retryablehttp.Client
	limiter *rate.Limiter
}

func NewWalkScoreClient(apiKey string) *WalkScoreClient {
	return &WalkScoreClient{
		key:     apiKey,
		baseURL: "https://api.walkscore.com",
		http:    newRetryClient(),
		limiter: newLimiter(2),
	}
}

type walkScorePayload struct {
	Status      int    `json:"status"`
	WalkScore   int    `json:"walkscore"`
	Description string `json:"description"`
	Transit     struct {
		Score int `json:"score"`
	} `json:"transit"`
	Bike struct {
		Score int `json:"score"`
	} `json:"bike"`
}

// Score fetches walkability for a coordinate. The returned string is the
// request URL with the key redacted, recorded as the entry's source.
func (c *WalkScoreClient) Score(ctx context.Context, lat, lng float64, address string) (Walkability, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Walkability{}, "", err
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", fmt.Sprintf("%.6f", lat))
	q.Set("lon", fmt.Sprintf("%.6f", lng))
	if address != "" {
		q.Set("address", address)
	}
	q.Set("transit", "1")
	q.Set("bike", "1")
	sourceURL := fmt.Sprintf("%s/score?%s", c.baseURL, q.Encode())
	q.Set("wsapikey", c.key)
	u := fmt.Sprintf("%s/score?%s", c.baseURL, q.Encode())

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Walkability{}, "", err
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Walkability{}, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return Walkability{}, "", fmt.Errorf("walkscore error %d", resp.StatusCode)
	}
	body, err := ioReadAllLimit(resp.Body, 1<<20)
	if err != nil {
		return Walkability{}, "", err
	}
	var payload walkScorePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return Walkability{}, "", fmt.Errorf("walkscore decode: %w", err)
	}
	if payload.Status != 1 {
		return Walkability{}, "", fmt.Errorf("walkscore status %d", payload.Status)
	}
	return Walkability{
		WalkScore:    payload.WalkScore,
		TransitScore: payload.Transit.Score,
		BikeScore:    payload.Bike.Score,
		Description:  payload.Description,
	}, sourceURL, nil
}
