package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// POIClient calls a Geoapify-style places API for nearby points of interest.
// Docs: GET /v2/places?categories=..&filter=circle:lon,lat,radius&limit=..
type POIClient struct {
	key     string
	baseURL string
	http    *retryablehttp.Client
	limiter *rate.Limiter
}

func NewPOIClient(apiKey string) *POIClient {
	return &POIClient{
		key:     apiKey,
		baseURL: "https://api.geoapify.com",
		http:    newRetryClient(),
		limiter: newLimiter(5),
	}
}

type poiPayload struct {
	Features []struct {
		Properties struct {
			Name       string   `json:"name"`
			Categories []string `json:"categories"`
			Lat        float64  `json:"lat"`
			Lon        float64  `json:"lon"`
			Distance   float64  `json:"distance"`
		} `json:"properties"`
	} `json:"features"`
}

func (c *POIClient) Nearby(ctx context.Context, lat, lng float64, radiusMeters int, categories []string, limit int) ([]POI, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}
	if radiusMeters <= 0 {
		radiusMeters = 1600
	}
	if limit <= 0 {
		limit = 25
	}
	if len(categories) == 0 {
		categories = []string{"commercial", "catering", "education", "leisure.park"}
	}

	q := url.Values{}
	q.Set("categories", strings.Join(categories, ","))
	q.Set("filter", fmt.Sprintf("circle:%.6f,%.6f,%d", lng, lat, radiusMeters))
	q.Set("limit", fmt.Sprintf("%d", limit))
	sourceURL := fmt.Sprintf("%s/v2/places?%s", c.baseURL, q.Encode())
	q.Set("apiKey", c.key)
	u := fmt.Sprintf("%s/v2/places?%s", c.baseURL, q.Encode())

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("poi provider error %d", resp.StatusCode)
	}
	body, err := ioReadAllLimit(resp.Body, 4<<20)
	if err != nil {
		return nil, "", err
	}
	var payload poiPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, "", fmt.Errorf("poi decode: %w", err)
	}

	pois := make([]POI, 0, len(payload.Features))
	for _, f := range payload.Features {
		p := f.Properties
		if p.Name == "" {
			continue
		}
		category := ""
		if len(p.Categories) > 0 {
			category = p.Categories[0]
		}
		pois = append(pois, POI{
			Name:           p.Name,
			Category:       category,
			Lat:            p.Lat,
			Lng:            p.Lon,
			DistanceMeters: p.Distance,
		})
	}
	return pois, sourceURL, nil
}
