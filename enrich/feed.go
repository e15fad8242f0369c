package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/yourorg/listings-api/internal/listings"
	"github.com/yourorg/listings-api/internal/slug"
)

// FeedClient pulls the mock listings feed the seeder imports from.
type FeedClient struct {
	baseURL string
	http    *retryablehttp.Client
	limiter *rate.Limiter
}

func NewFeedClient(baseURL string) *FeedClient {
	return &FeedClient{
		baseURL: baseURL,
		http:    newRetryClient(),
		limiter: newLimiter(1),
	}
}

type feedRecord struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	PropertyType string    `json:"propertyType"`
	Price        int       `json:"price"`
	Beds         int       `json:"beds"`
	Baths        int       `json:"baths"`
	Sqft         int       `json:"sqft"`
	LotAcres     *float64  `json:"lotAcres"`
	Street       string    `json:"street"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Zip          string    `json:"zip"`
	Neighborhood string    `json:"neighborhood"`
	Lat          *float64  `json:"lat"`
	Lng          *float64  `json:"lng"`
	Photos       []string  `json:"photos"`
	ListedAt     time.Time `json:"listedAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type feedPayload struct {
	Listings []feedRecord `json:"listings"`
}

// TownListings fetches the feed page for one town. The raw payload and the
// request URL are returned alongside the mapped listings so callers can cache
// the serialized form.
func (c *FeedClient) TownListings(ctx context.Context, townSlug string) ([]byte, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}
	u := fmt.Sprintf("%s/feeds/listings/%s.json", c.baseURL, townSlug)

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
		return nil, "", fmt.Errorf("feed error %d for town %s", resp.StatusCode, townSlug)
	}
	raw, err := ioReadAllLimit(resp.Body, 8<<20)
	if err != nil {
		return nil, "", err
	}
	return raw, u, nil
}

// MapFeedListings decodes a feed payload and drops records violating the
// dataset invariants (price > 0, non-negative counts, coordinates
// both-or-neither).
func MapFeedListings(raw []byte) ([]listings.Listing, error) {
	var payload feedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("feed decode: %w", err)
	}
	out := make([]listings.Listing, 0, len(payload.Listings))
	for _, rec := range payload.Listings {
		l, ok := mapFeedRecord(rec)
		if !ok {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func mapFeedRecord(rec feedRecord) (listings.Listing, bool) {
	if rec.ID == "" || rec.Price <= 0 || rec.Beds < 0 || rec.Baths < 0 || rec.Sqft < 0 {
		return listings.Listing{}, false
	}
	switch listings.Status(rec.Status) {
	case listings.StatusActive, listings.StatusPending, listings.StatusSold:
	default:
		return listings.Listing{}, false
	}

	l := listings.Listing{
		ID:           rec.ID,
		Status:       listings.Status(rec.Status),
		PropertyType: rec.PropertyType,
		Price:        rec.Price,
		Beds:         rec.Beds,
		Baths:        rec.Baths,
		Sqft:         rec.Sqft,
		LotAcres:     rec.LotAcres,
		Address: listings.Address{
			Street:           rec.Street,
			City:             rec.City,
			State:            rec.State,
			Zip:              rec.Zip,
			NeighborhoodSlug: slug.Make(rec.Neighborhood),
		},
		Photos:    rec.Photos,
		ListedAt:  rec.ListedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if rec.Lat != nil && rec.Lng != nil {
		l.Coords = &listings.Coordinates{Lat: *rec.Lat, Lng: *rec.Lng}
	}
	return l, true
}
