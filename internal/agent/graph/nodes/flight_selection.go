package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/tripflow/server/internal/agent/model"
)

// FlightSelection consumes the user's pick from the flight listing. An
// invalid pick re-prompts and loops back here; the re-entry then sees an
// assistant message last and suspends until the next turn.
func (n *Nodes) FlightSelection(ctx context.Context, s *model.DialogueState) (model.Route, error) {
	if !s.LastMessageIsHuman() {
		return model.RouteEnd, nil
	}

	choice := strings.TrimSpace(s.LastUserMessage)
	flight, ok := s.AvailableFlights[choice]
	if !ok {
		s.AppendAssistant(fmt.Sprintf("I don't have a flight %q — please pick one of these:\n%s",
			choice, renderFlightListing(s.AvailableFlights)))
		return model.RouteFlightSelection, nil
	}

	picked := flight
	s.SelectedFlight = &picked
	s.SelectedFlightNumber = choice
	s.FlightsProcessed = true
	// A new flight invalidates any guest count gathered for a previous plan.
	s.AccommodationGuests = 0

	s.AppendAssistant(fmt.Sprintf("Booked in: %s for %s, departing %s at %s. Now let's find you a place to stay.",
		picked.Airline, picked.Price, picked.DepartureAirport, picked.DepartureTime))
	return model.RouteHotelSearch, nil
}
