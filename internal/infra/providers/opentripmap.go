package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"tripsmith/internal/domain/model"
	"tripsmith/internal/domain/ports/provider"
)

// OpenTripMapPoiProvider searches points of interest around the
// destination center.
type OpenTripMapPoiProvider struct {
	apiKey string
	client *http.Client
}

var _ provider.PoiProvider = (*OpenTripMapPoiProvider)(nil)

func NewOpenTripMapPoiProvider(apiKey string) *OpenTripMapPoiProvider {
	return &OpenTripMapPoiProvider{apiKey: apiKey, client: &http.Client{Timeout: 10 * time.Second}}
}

func (p *OpenTripMapPoiProvider) Search(ctx context.Context, q provider.PoiQuery) ([]model.PoiCandidate, error) {
	limit := q.Limit
	if limit > 50 {
		limit = 50
	}
	params := url.Values{
		"radius": {"6000"},
		"lon":    {fmt.Sprintf("%f", q.Center.Lon)},
		"lat":    {fmt.Sprintf("%f", q.Center.Lat)},
		"limit":  {fmt.Sprint(limit)},
		"apikey": {p.apiKey},
		"format": {"json"},
		"rate":   {"2"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://api.opentripmap.com/0.1/en/places/radius?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opentripmap request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("opentripmap status %d", resp.StatusCode)
	}

	var items []struct {
		XID   string `json:"xid"`
		Name  string `json:"name"`
		Point struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"point"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("opentripmap decode: %w", err)
	}

	results := make([]model.PoiCandidate, 0, len(items))
	for _, item := range items {
		if item.XID == "" {
			continue
		}
		name := item.Name
		if name == "" {
			name = "POI"
		}
		lat, lon := item.Point.Lat, item.Point.Lon
		if lat == 0 && lon == 0 {
			lat, lon = q.Center.Lat, q.Center.Lon
		}
		results = append(results, model.PoiCandidate{
			ID:       item.XID,
			Name:     name,
			Location: model.GeoPoint{Lat: lat, Lon: lon},
		})
	}
	return results, nil
}
