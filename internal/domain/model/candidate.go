package model

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// FlightCandidate is one raw flight offer from a provider. Immutable once
// produced; cached copies are deserialized fresh per request.
type FlightCandidate struct {
	ID              string  `json:"id"`
	DepartAt        string  `json:"depart_at"`
	ArriveAt        string  `json:"arrive_at"`
	Stops           int     `json:"stops"`
	DurationMinutes int     `json:"duration_minutes"`
	PriceAmount     float64 `json:"price_amount"`
	Currency        string  `json:"currency"`
}

// StayCandidate is one raw accommodation offer from a provider.
type StayCandidate struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Area               string   `json:"area"`
	Location           GeoPoint `json:"location"`
	NightlyPriceAmount float64  `json:"nightly_price_amount"`
	TotalPriceAmount   float64  `json:"total_price_amount"`
	Currency           string   `json:"currency"`
}

// PoiCandidate is a point of interest near the destination center.
type PoiCandidate struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Location GeoPoint `json:"location"`
}

// WeatherDay is a one-day forecast summary keyed by ISO date.
type WeatherDay struct {
	Date    string `json:"date"`
	Summary string `json:"summary"`
}

// RouteEstimate is a commute duration between two points. Mode is the
// requested transport mode, or "estimate" when the value came from a
// distance-based fallback rather than a routing engine.
type RouteEstimate struct {
	Mode    string `json:"mode"`
	Minutes int    `json:"minutes"`
}
