package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/tripflow/server/internal/agent/model"
)

// HotelSelection consumes the user's pick from the hotel listing, then
// cascades straight into itinerary generation.
func (n *Nodes) HotelSelection(ctx context.Context, s *model.DialogueState) (model.Route, error) {
	if !s.LastMessageIsHuman() {
		return model.RouteEnd, nil
	}

	choice := strings.TrimSpace(s.LastUserMessage)
	hotel, ok := s.AvailableHotels[choice]
	if !ok {
		s.AppendAssistant(fmt.Sprintf("I don't have a hotel %q — please pick one of these:\n%s",
			choice, renderHotelListing(s.AvailableHotels)))
		return model.RouteHotelSelection, nil
	}

	picked := hotel
	s.SelectedHotel = &picked
	s.SelectedHotelNumber = choice
	s.HotelsProcessed = true

	s.AppendAssistant(fmt.Sprintf("Lovely choice — %s (%s, rated %.1f). Let me put your itinerary together.",
		picked.Name, picked.Price, picked.Rating))
	return model.RouteItinerary, nil
}
