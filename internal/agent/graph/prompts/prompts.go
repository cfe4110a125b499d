// Package prompts renders the embedded prompt templates via the Eino
// prompt component.
package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/intent_prompt.txt
var intentPrompt string

//go:embed template/trip_extraction_prompt.txt
var tripExtractionPrompt string

//go:embed template/destination_kind_prompt.txt
var destinationKindPrompt string

//go:embed template/representative_city_prompt.txt
var representativeCityPrompt string

//go:embed template/code_resolution_prompt.txt
var codeResolutionPrompt string

//go:embed template/itinerary_prompt.txt
var itineraryPrompt string

//go:embed template/chat_prompt.txt
var chatSystemPrompt string

// render formats one template into a single message of the given role.
func render(ctx context.Context, tmpl string, vars map[string]any) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.UserMessage(tmpl),
	)
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// RenderIntent renders the intent-classification prompt.
func RenderIntent(ctx context.Context, userMessage string) (string, error) {
	return render(ctx, intentPrompt, map[string]any{"UserMessage": userMessage})
}

// RenderTripExtraction renders the slot-extraction prompt.
func RenderTripExtraction(ctx context.Context, userMessage string) (string, error) {
	return render(ctx, tripExtractionPrompt, map[string]any{"UserMessage": userMessage})
}

// RenderDestinationKind renders the country-vs-city classification prompt.
func RenderDestinationKind(ctx context.Context, destination string) (string, error) {
	return render(ctx, destinationKindPrompt, map[string]any{"Destination": destination})
}

// RenderRepresentativeCity renders the suggested-city prompt for a country
// destination.
func RenderRepresentativeCity(ctx context.Context, destination string) (string, error) {
	return render(ctx, representativeCityPrompt, map[string]any{"Destination": destination})
}

// RenderCodeResolution renders the airport-code resolution prompt.
func RenderCodeResolution(ctx context.Context, source, destination string) (string, error) {
	return render(ctx, codeResolutionPrompt, map[string]any{
		"Source":      source,
		"Destination": destination,
	})
}

// ItineraryVars carries the trip parameters for itinerary synthesis.
type ItineraryVars struct {
	Destination string
	StartDate   string
	EndDate     string
	Duration    int
	HotelName   string
}

// RenderItinerary renders the itinerary-synthesis prompt.
func RenderItinerary(ctx context.Context, v ItineraryVars) (string, error) {
	return render(ctx, itineraryPrompt, map[string]any{
		"Destination": v.Destination,
		"StartDate":   v.StartDate,
		"EndDate":     v.EndDate,
		"Duration":    v.Duration,
		"HotelName":   v.HotelName,
	})
}

// ChatSystem returns the static system prompt for the plain chat node.
func ChatSystem() string {
	return chatSystemPrompt
}
