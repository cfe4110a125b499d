package nodes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/tripflow/server/internal/agent/graph/parsers"
	"github.com/tripflow/server/internal/agent/graph/prompts"
	"github.com/tripflow/server/internal/agent/model"
	logx "github.com/tripflow/server/pkg/logger"
)

var (
	weatherKeywords = []string{"weather", "temp", "temperature", "hot", "cold"}
	searchKeywords  = []string{"search", "google", "find", "lookup"}
	travelKeywords  = []string{"travel", "trip", "visit", "vacation", "holiday", "itinerary"}
)

// Router picks the node that starts this turn. Suspend-resume overrides are
// checked in fixed priority order; only when none applies is the message
// classified as fresh intent.
func (n *Nodes) Router(ctx context.Context, s *model.DialogueState) (model.Route, error) {
	if s.LastMessageIsHuman() {
		s.LastUserMessage = s.LastMessage().Content
	}

	switch {
	case len(s.AvailableFlights) > 0 && !s.FlightsProcessed:
		return model.RouteFlightSelection, nil
	case len(s.AvailableHotels) > 0 && !s.HotelsProcessed:
		return model.RouteHotelSelection, nil
	case s.AwaitingField != "":
		return model.RouteSlotCollector, nil
	case s.AwaitingAirportClarification || s.AwaitingDestinationCity:
		// Re-entrant: the flight search node consumes the clarifying answer.
		return model.RouteFlightSearch, nil
	case s.AwaitingConfirmation:
		return model.RouteConfirmation, nil
	case s.Destination != "" && s.AccommodationGuests == 0 && s.FlightsProcessed:
		return model.RouteHotelInfo, nil
	}

	if !s.LastMessageIsHuman() {
		return model.RouteChat, nil
	}

	text := strings.ToLower(s.LastUserMessage)
	switch {
	case containsAny(text, weatherKeywords):
		return n.routeToTool(s, "weather")
	case containsAny(text, searchKeywords):
		return n.routeToTool(s, "search")
	case containsAny(text, travelKeywords):
		return model.RouteTravelIntent, nil
	}

	intent := n.classifyIntent(ctx, s.LastUserMessage)
	switch intent {
	case "travel":
		return model.RouteTravelIntent, nil
	case "weather", "search":
		return n.routeToTool(s, intent)
	default:
		return model.RouteChat, nil
	}
}

// classifyIntent falls back to chat on any completion failure; routing must
// never abort a turn.
func (n *Nodes) classifyIntent(ctx context.Context, userMessage string) string {
	p, err := prompts.RenderIntent(ctx, userMessage)
	if err != nil {
		logx.Error().Err(err).Msg("intent prompt render failed")
		return "chat"
	}
	out, err := n.completer.Classify(ctx, []*schema.Message{schema.UserMessage(p)})
	if err != nil || out == nil {
		logx.Warn().Err(err).Msg("intent classification failed, defaulting to chat")
		return "chat"
	}
	return parsers.ParseIntent(out.Content)
}

// routeToTool synthesizes the assistant message carrying the tool
// invocation the tool node will execute.
func (n *Nodes) routeToTool(s *model.DialogueState, intent string) (model.Route, error) {
	id := fmt.Sprintf("call_%d", len(s.Messages)+1)

	switch intent {
	case "weather":
		city := extractWeatherCity(s.LastUserMessage)
		if city == "" {
			city = s.Destination
		}
		if city == "" {
			city = "Pune"
		}
		args, _ := json.Marshal(map[string]string{"city": city})
		s.AppendMessage(schema.AssistantMessage("Let me check the weather for you...", []schema.ToolCall{{
			ID:       id,
			Type:     "function",
			Function: schema.FunctionCall{Name: ToolWeather, Arguments: string(args)},
		}}))
		return model.RouteWeatherTool, nil

	default:
		query := extractSearchQuery(s.LastUserMessage)
		args, _ := json.Marshal(map[string]string{"query": query})
		s.AppendMessage(schema.AssistantMessage(fmt.Sprintf("Searching for %s...", query), []schema.ToolCall{{
			ID:       id,
			Type:     "function",
			Function: schema.FunctionCall{Name: ToolWebSearch, Arguments: string(args)},
		}}))
		return model.RouteSearchTool, nil
	}
}

func extractWeatherCity(text string) string {
	for _, prefix := range []string{"weather in", "temperature in", "temp in", "weather for", "weather"} {
		if i := asciiFoldIndex(text, prefix); i >= 0 {
			return strings.Trim(strings.TrimSpace(text[i+len(prefix):]), "?!.")
		}
	}
	return ""
}

func extractSearchQuery(text string) string {
	for _, prefix := range []string{"search for", "search", "google", "lookup", "look up", "find"} {
		if i := asciiFoldIndex(text, prefix); i >= 0 {
			if q := strings.Trim(strings.TrimSpace(text[i+len(prefix):]), "?!."); q != "" {
				return q
			}
		}
	}
	return strings.TrimSpace(text)
}

// asciiFoldIndex finds an ASCII-lowercase needle in s case-insensitively.
// Matching bytewise against the original string keeps the offset valid for
// slicing s; lowercasing a copy first shifts byte offsets for runes whose
// lowercase form has a different UTF-8 length.
func asciiFoldIndex(s, needle string) int {
	for i := 0; i+len(needle) <= len(s); i++ {
		if asciiFoldMatch(s[i:], needle) {
			return i
		}
	}
	return -1
}

func asciiFoldMatch(s, needle string) bool {
	for j := 0; j < len(needle); j++ {
		c := s[j]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != needle[j] {
			return false
		}
	}
	return true
}
