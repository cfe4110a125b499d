package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	"github.com/tripflow/server/internal/agent/graph/prompts"
	"github.com/tripflow/server/internal/agent/model"
	logx "github.com/tripflow/server/pkg/logger"
)

// Itinerary generates the day-by-day plan once a flight and hotel are
// locked in. This is a terminal node either way.
func (n *Nodes) Itinerary(ctx context.Context, s *model.DialogueState) (model.Route, error) {
	if s.Destination == "" || s.StartDate == "" || s.EndDate == "" || s.Duration <= 0 || s.SelectedHotel == nil {
		logx.Warn().Str("destination", s.Destination).Msg("itinerary requested before trip was complete")
		s.AppendAssistant("I can't build an itinerary yet — we haven't finished planning the trip.")
		return model.RouteEnd, nil
	}

	p, err := prompts.RenderItinerary(ctx, prompts.ItineraryVars{
		Destination: s.Destination,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		Duration:    s.Duration,
		HotelName:   s.SelectedHotel.Name,
	})
	if err != nil {
		return model.RouteEnd, err
	}

	out, err := n.completer.Respond(ctx, []*schema.Message{schema.UserMessage(p)})
	if err != nil || out == nil {
		logx.Error().Err(err).Msg("itinerary generation failed")
		s.AppendAssistant("Sorry, I couldn't put the itinerary together just now. Please ask me again in a moment.")
		return model.RouteEnd, nil
	}

	s.ItineraryGenerated = true
	s.AppendAssistant(fmt.Sprintf("Here's your trip plan!\n\n%s\n\n%s", tripSummary(s), out.Content))
	return model.RouteEnd, nil
}
