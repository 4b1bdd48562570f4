package providers

import (
	"fmt"

	"tripsmith/internal/config"
	"tripsmith/internal/domain"
	"tripsmith/internal/domain/ports/provider"

	"github.com/rs/zerolog"
)

// NewSet resolves the configured capability set once at startup. A
// selection that is unimplemented or missing credentials fails here with a
// typed error instead of surfacing on first use mid-job.
func NewSet(cfg config.ProvidersConfig, log *zerolog.Logger) (provider.Set, error) {
	var set provider.Set

	switch cfg.Flights {
	case "mock", "":
		set.Flights = MockFlightsProvider{}
	case "kiwi":
		if cfg.KiwiTequilaAPIKey == "" {
			return set, fmt.Errorf("flights provider %q: %w (kiwi_tequila_api_key missing)", cfg.Flights, domain.ErrProviderUnavailable)
		}
		set.Flights = NewKiwiFlightsProvider(cfg.KiwiTequilaAPIKey)
	case "duffel", "amadeus":
		// Credential flows not implemented; resolve as unavailable.
		return set, fmt.Errorf("flights provider %q: %w", cfg.Flights, domain.ErrProviderUnavailable)
	default:
		return set, fmt.Errorf("flights provider %q: %w", cfg.Flights, domain.ErrInvalidArgument)
	}

	switch cfg.Stays {
	case "mock", "":
		set.Stays = MockStaysProvider{}
	case "booking":
		return set, fmt.Errorf("stays provider %q: %w", cfg.Stays, domain.ErrProviderUnavailable)
	default:
		return set, fmt.Errorf("stays provider %q: %w", cfg.Stays, domain.ErrInvalidArgument)
	}

	switch cfg.Poi {
	case "mock", "":
		set.Poi = MockPoiProvider{}
	case "opentripmap":
		if cfg.OpenTripMapAPIKey == "" {
			log.Warn().Msg("opentripmap selected without api key, falling back to mock poi")
			set.Poi = MockPoiProvider{}
		} else {
			set.Poi = NewOpenTripMapPoiProvider(cfg.OpenTripMapAPIKey)
		}
	default:
		return set, fmt.Errorf("poi provider %q: %w", cfg.Poi, domain.ErrInvalidArgument)
	}

	switch cfg.Weather {
	case "mock", "":
		set.Weather = MockWeatherProvider{}
	case "openmeteo":
		set.Weather = NewOpenMeteoWeatherProvider()
	default:
		return set, fmt.Errorf("weather provider %q: %w", cfg.Weather, domain.ErrInvalidArgument)
	}

	switch cfg.Routing {
	case "mock", "":
		set.Routing = MockRoutingProvider{}
	case "osrm":
		set.Routing = NewOsrmRoutingProvider(cfg.OsrmBaseURL)
	default:
		return set, fmt.Errorf("routing provider %q: %w", cfg.Routing, domain.ErrInvalidArgument)
	}

	log.Info().
		Str("flights", cfg.Flights).
		Str("stays", cfg.Stays).
		Str("poi", cfg.Poi).
		Str("weather", cfg.Weather).
		Str("routing", cfg.Routing).
		Msg("providers resolved")
	return set, nil
}
