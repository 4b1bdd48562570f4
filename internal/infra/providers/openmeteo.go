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

// OpenMeteoWeatherProvider fetches daily forecasts from Open-Meteo. On any
// upstream failure it returns placeholder days rather than erroring.
type OpenMeteoWeatherProvider struct {
	client *http.Client
}

var _ provider.WeatherProvider = (*OpenMeteoWeatherProvider)(nil)

func NewOpenMeteoWeatherProvider() *OpenMeteoWeatherProvider {
	return &OpenMeteoWeatherProvider{client: &http.Client{Timeout: 10 * time.Second}}
}

func (p *OpenMeteoWeatherProvider) Forecast(ctx context.Context, center model.GeoPoint, startDate, endDate string) ([]model.WeatherDay, error) {
	days, err := p.fetch(ctx, center, startDate, endDate)
	if err != nil || len(days) == 0 {
		return fallbackDays(startDate, endDate), nil
	}
	return days, nil
}

func (p *OpenMeteoWeatherProvider) fetch(ctx context.Context, center model.GeoPoint, startDate, endDate string) ([]model.WeatherDay, error) {
	q := url.Values{
		"latitude":   {fmt.Sprintf("%f", center.Lat)},
		"longitude":  {fmt.Sprintf("%f", center.Lon)},
		"daily":      {"weathercode,temperature_2m_max,temperature_2m_min"},
		"timezone":   {"UTC"},
		"start_date": {startDate},
		"end_date":   {endDate},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.open-meteo.com/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open-meteo status %d", resp.StatusCode)
	}

	var body struct {
		Daily struct {
			Time        []string  `json:"time"`
			WeatherCode []int     `json:"weathercode"`
			TempMax     []float64 `json:"temperature_2m_max"`
			TempMin     []float64 `json:"temperature_2m_min"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	results := make([]model.WeatherDay, 0, len(body.Daily.Time))
	for i, day := range body.Daily.Time {
		summary := "Forecast unavailable"
		if i < len(body.Daily.WeatherCode) {
			summary = codeToSummary(body.Daily.WeatherCode[i])
		}
		if i < len(body.Daily.TempMax) && i < len(body.Daily.TempMin) {
			summary = fmt.Sprintf("%s (%.0f°C–%.0f°C)", summary, body.Daily.TempMin[i], body.Daily.TempMax[i])
		}
		results = append(results, model.WeatherDay{Date: day, Summary: summary})
	}
	return results, nil
}

func fallbackDays(startDate, endDate string) []model.WeatherDay {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil
	}
	days := int(end.Sub(start).Hours()/24) + 1
	out := make([]model.WeatherDay, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, model.WeatherDay{
			Date:    start.AddDate(0, 0, i).Format("2006-01-02"),
			Summary: "Forecast unavailable",
		})
	}
	return out
}

func codeToSummary(code int) string {
	switch {
	case code == 0:
		return "Clear"
	case code >= 1 && code <= 3:
		return "Partly cloudy"
	case code == 45 || code == 48:
		return "Fog"
	case code >= 51 && code <= 55:
		return "Drizzle"
	case code >= 61 && code <= 65:
		return "Rain"
	case code >= 71 && code <= 75:
		return "Snow"
	case code >= 80 && code <= 82:
		return "Rain showers"
	case code >= 95 && code <= 99:
		return "Thunderstorm"
	default:
		return "Mixed"
	}
}
