package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"tripsmith/internal/domain/model"
	"tripsmith/internal/domain/ports/provider"
)

// OsrmRoutingProvider queries a public OSRM instance. Upstream failures
// degrade to a haversine-distance estimate instead of erroring: a commute
// estimate is never worth failing a generation run over.
type OsrmRoutingProvider struct {
	baseURL string
	client  *http.Client
}

var _ provider.RoutingProvider = (*OsrmRoutingProvider)(nil)

func NewOsrmRoutingProvider(baseURL string) *OsrmRoutingProvider {
	if baseURL == "" {
		baseURL = "http://router.project-osrm.org"
	}
	return &OsrmRoutingProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 6 * time.Second},
	}
}

func (p *OsrmRoutingProvider) Estimate(ctx context.Context, from, to model.GeoPoint, mode string) (model.RouteEstimate, error) {
	minutes, err := p.route(ctx, from, to, mode)
	if err != nil {
		return model.RouteEstimate{Mode: "estimate", Minutes: haversineMinutes(from, to, speedKmh(mode))}, nil
	}
	return model.RouteEstimate{Mode: mode, Minutes: minutes}, nil
}

func (p *OsrmRoutingProvider) route(ctx context.Context, from, to model.GeoPoint, mode string) (int, error) {
	profile := "foot"
	if mode == "drive" || mode == "transit" {
		profile = "driving"
	}
	u := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f?%s",
		p.baseURL, profile, from.Lon, from.Lat, to.Lon, to.Lat,
		url.Values{"overview": {"false"}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("osrm status %d", resp.StatusCode)
	}

	var body struct {
		Routes []struct {
			Duration float64 `json:"duration"`
		} `json:"routes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}
	if len(body.Routes) == 0 {
		return 0, fmt.Errorf("osrm returned no routes")
	}
	minutes := int(math.Round(body.Routes[0].Duration / 60))
	if minutes < 1 {
		minutes = 1
	}
	return minutes, nil
}

func speedKmh(mode string) float64 {
	switch mode {
	case "walk":
		return 4.5
	case "drive":
		return 28.0
	case "transit":
		return 18.0
	default:
		return 12.0
	}
}

func haversineMinutes(a, b model.GeoPoint, kmPerHour float64) int {
	const earthRadiusKm = 6371.0
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dlat := lat2 - lat1
	dlon := (b.Lon - a.Lon) * math.Pi / 180
	h := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	km := 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
	minutes := int(math.Round(km / math.Max(1e-6, kmPerHour) * 60))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
