package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// TurnInput is the collaborator-facing input for one conversation turn.
type TurnInput struct {
	UserID      string `json:"user_id"`
	SessionID   string `json:"session_id"`
	UserMessage string `json:"user_message"`
}

// Completer issues completion calls. Both methods return free text the
// caller best-effort parses; strict-JSON replies may fail and require a
// deterministic fallback.
type Completer interface {
	// Classify runs the cheap model used for intent classification, slot
	// extraction and lookup-code resolution.
	Classify(ctx context.Context, msgs []*schema.Message) (*schema.Message, error)
	// Respond runs the generator model used for chat replies and itinerary
	// synthesis.
	Respond(ctx context.Context, msgs []*schema.Message) (*schema.Message, error)
}

// StateStore persists DialogueState between turns.
type StateStore interface {
	// Load retrieves the state for a (user, session) pair, refreshing its
	// sliding TTL. It returns (nil, nil) when no prior state exists, and
	// treats a corrupted document the same way.
	Load(ctx context.Context, userID, sessionID string) (*DialogueState, error)

	// Save writes the state back with a fresh TTL.
	Save(ctx context.Context, state *DialogueState) error

	// Delete removes the state (logout / explicit clear).
	Delete(ctx context.Context, userID, sessionID string) error
}

// SearchCache stores enumerated flight/hotel result sets keyed by the
// normalized trip parameters. Entries are read-mostly and idempotently
// overwritable, so no locking around concurrent population is required.
type SearchCache interface {
	GetFlights(ctx context.Context, key string) (map[string]Flight, bool, error)
	SetFlights(ctx context.Context, key string, flights map[string]Flight) error
	GetHotels(ctx context.Context, key string) (map[string]Hotel, bool, error)
	SetHotels(ctx context.Context, key string, hotels map[string]Hotel) error
}

// FlightSearcher is the external flight search provider.
type FlightSearcher interface {
	SearchFlights(ctx context.Context, q FlightQuery) ([]Flight, error)
}

// HotelSearcher is the external hotel search provider.
type HotelSearcher interface {
	SearchHotels(ctx context.Context, q HotelQuery) ([]Hotel, error)
}

// WeatherProvider is the external weather lookup.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, city string) (*WeatherReport, error)
}

// WebSearcher is the external general web search.
type WebSearcher interface {
	SearchWeb(ctx context.Context, query string) (string, error)
}
