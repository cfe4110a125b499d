package nodes

import (
	"context"

	"github.com/tripflow/server/internal/agent/model"
)

// Confirmation consumes the yes/no answer to the trip recap. Anything
// non-affirmative drops back to open conversation.
func (n *Nodes) Confirmation(ctx context.Context, s *model.DialogueState) (model.Route, error) {
	s.ClearSuspend()

	if isAffirmative(s.LastUserMessage) {
		s.AppendAssistant(tripSummary(s) + "\n\nGreat — let me look for flights!")
		return model.RouteFlightSearch, nil
	}

	s.AppendAssistant("No problem, we can plan it differently. What would you like to change?")
	return model.RouteChat, nil
}
