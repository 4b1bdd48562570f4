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

// KiwiFlightsProvider searches the Kiwi Tequila API.
type KiwiFlightsProvider struct {
	apiKey string
	client *http.Client
}

var _ provider.FlightsProvider = (*KiwiFlightsProvider)(nil)

func NewKiwiFlightsProvider(apiKey string) *KiwiFlightsProvider {
	return &KiwiFlightsProvider{apiKey: apiKey, client: &http.Client{Timeout: 12 * time.Second}}
}

func (p *KiwiFlightsProvider) Search(ctx context.Context, q provider.FlightQuery) ([]model.FlightCandidate, error) {
	start, err := time.Parse("2006-01-02", q.StartDate)
	if err != nil {
		return nil, fmt.Errorf("bad start date: %w", err)
	}
	params := url.Values{
		"fly_from":  {q.Origin},
		"fly_to":    {q.Destination},
		"date_from": {start.Format("02/01/2006")},
		"date_to":   {start.Format("02/01/2006")},
		"adults":    {fmt.Sprint(q.Travelers)},
		"curr":      {"USD"},
		"limit":     {"20"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://tequila-api.kiwi.com/v2/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kiwi request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kiwi status %d", resp.StatusCode)
	}

	var body struct {
		Data []struct {
			ID           string  `json:"id"`
			UTCDeparture string  `json:"utc_departure"`
			UTCArrival   string  `json:"utc_arrival"`
			Price        float64 `json:"price"`
			Duration     struct {
				Total int `json:"total"` // seconds
			} `json:"duration"`
			Route []json.RawMessage `json:"route"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("kiwi decode: %w", err)
	}

	results := make([]model.FlightCandidate, 0, len(body.Data))
	for i, item := range body.Data {
		id := item.ID
		if id == "" {
			id = fmt.Sprintf("kiwi_%d", i)
		}
		stops := len(item.Route) - 1
		if stops < 0 {
			stops = 0
		}
		minutes := int(math.Round(float64(item.Duration.Total) / 60))
		if minutes < 1 {
			minutes = 1
		}
		results = append(results, model.FlightCandidate{
			ID:              id,
			DepartAt:        item.UTCDeparture,
			ArriveAt:        item.UTCArrival,
			Stops:           stops,
			DurationMinutes: minutes,
			PriceAmount:     item.Price,
			Currency:        "USD",
		})
	}
	return results, nil
}
