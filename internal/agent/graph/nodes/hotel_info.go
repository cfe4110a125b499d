package nodes

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tripflow/server/internal/agent/model"
)

// HotelInfo gathers the guest count needed before a hotel search can run.
// A cascade entry (assistant message last) asks the question and ends the
// turn; a human reply is parsed as the answer.
func (n *Nodes) HotelInfo(ctx context.Context, s *model.DialogueState) (model.Route, error) {
	if !s.LastMessageIsHuman() {
		s.AppendAssistant("How many guests should I plan the stay for?")
		return model.RouteEnd, nil
	}

	answer := strings.TrimSpace(s.LastUserMessage)
	guests, err := strconv.Atoi(answer)
	if err != nil || guests <= 0 {
		s.AppendAssistant(fmt.Sprintf("I need a whole number of guests (got %q). How many people are staying?", answer))
		return model.RouteEnd, nil
	}

	s.AccommodationGuests = guests
	s.ClearSuspend()
	return model.RouteHotelSearch, nil
}
