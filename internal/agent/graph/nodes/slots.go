package nodes

import (
	"context"
	"strings"

	"github.com/tripflow/server/internal/agent/model"
	logx "github.com/tripflow/server/pkg/logger"
)

var slotQuestions = map[string]string{
	"destination": "Where would you like to go?",
	"source":      "Where will you be travelling from?",
	"start_date":  "When does your trip start? (YYYY-MM-DD)",
	"end_date":    "When does your trip end? (YYYY-MM-DD)",
}

// CollectMissingTravelInfo walks the missing-fields queue one question per
// turn. Invalid answers re-prompt without advancing the queue.
func (n *Nodes) CollectMissingTravelInfo(ctx context.Context, s *model.DialogueState) (model.Route, error) {
	if s.AwaitingField != "" && s.LastMessageIsHuman() {
		if done := n.storeSlotAnswer(s); !done {
			// Re-prompted; the queue did not advance.
			return model.RouteEnd, nil
		}
	}

	if len(s.MissingFields) > 0 {
		next := s.MissingFields[0]
		s.Suspend(model.SuspendField, next)
		s.AppendAssistant(questionFor(next))
		return model.RouteEnd, nil
	}

	if s.StartDate != "" && s.EndDate != "" {
		d, err := model.TripDuration(s.StartDate, s.EndDate)
		if err != nil {
			// Both dates present but inconsistent; re-collect the end date.
			logx.Warn().Err(err).Msg("stored dates inconsistent, re-collecting end date")
			s.EndDate = ""
			s.MissingFields = []string{"end_date"}
			s.Suspend(model.SuspendField, "end_date")
			s.AppendAssistant("Those dates don't work together. " + questionFor("end_date"))
			return model.RouteEnd, nil
		}
		s.Duration = d
	}

	s.AppendAssistant(tripSummary(s) + "\n\nShall I go ahead and look for flights? (yes/no)")
	s.Suspend(model.SuspendConfirmation, "")
	return model.RouteEnd, nil
}

// storeSlotAnswer validates and stores the latest human answer into the
// awaited field. It returns false when the answer was rejected and the user
// was re-prompted.
func (n *Nodes) storeSlotAnswer(s *model.DialogueState) bool {
	answer := strings.TrimSpace(s.LastUserMessage)
	field := s.AwaitingField

	switch field {
	case "destination":
		s.Destination = answer
		s.DestinationChecked = false
	case "source":
		s.Source = answer
	case "start_date", "end_date":
		if _, err := model.ParseISODate(answer); err != nil {
			s.AppendAssistant("That doesn't look like a valid date — please use YYYY-MM-DD, e.g. 2025-06-01.")
			return false
		}
		if field == "end_date" && s.StartDate != "" {
			if _, err := model.TripDuration(s.StartDate, answer); err != nil {
				s.AppendAssistant("The end date must be on or after the start date (" + s.StartDate + "). " + questionFor("end_date"))
				return false
			}
		}
		if field == "start_date" {
			s.StartDate = answer
		} else {
			s.EndDate = answer
		}
	default:
		logx.Warn().Str("field", field).Msg("unknown awaited field, dropping it")
	}

	s.MissingFields = removeField(s.MissingFields, field)
	s.ClearSuspend()
	return true
}

func questionFor(field string) string {
	if q, ok := slotQuestions[field]; ok {
		return q
	}
	return "Could you tell me your " + strings.ReplaceAll(field, "_", " ") + "?"
}

func removeField(fields []string, field string) []string {
	out := fields[:0]
	for _, f := range fields {
		if f != field {
			out = append(out, f)
		}
	}
	return out
}
