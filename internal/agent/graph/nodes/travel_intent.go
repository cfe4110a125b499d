package nodes

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/tripflow/server/internal/agent/graph/parsers"
	"github.com/tripflow/server/internal/agent/graph/prompts"
	"github.com/tripflow/server/internal/agent/model"
	logx "github.com/tripflow/server/pkg/logger"
)

var isoDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// TravelIntent extracts destination/source/dates from the user's free text,
// works out what is still missing, and hands over to the slot collector (or
// straight to flight search when nothing is missing).
func (n *Nodes) TravelIntent(ctx context.Context, s *model.DialogueState) (model.Route, error) {
	ext := n.extractTripDetails(ctx, s.LastUserMessage)

	if ext.Destination != "" {
		s.Destination = ext.Destination
		s.DestinationChecked = false
	}
	if ext.Source != "" {
		s.Source = ext.Source
	}

	var dateNote string
	if ext.StartDate != "" {
		if _, err := model.ParseISODate(ext.StartDate); err == nil {
			s.StartDate = ext.StartDate
		}
	}
	if ext.EndDate != "" {
		if _, err := model.ParseISODate(ext.EndDate); err == nil {
			if s.StartDate != "" {
				if _, err := model.TripDuration(s.StartDate, ext.EndDate); err != nil {
					dateNote = "\nThe end date can't be before the start date, so I'll ask for it again."
				} else {
					s.EndDate = ext.EndDate
				}
			} else {
				s.EndDate = ext.EndDate
			}
		}
	}

	lower := strings.ToLower(s.LastUserMessage)
	switch {
	case strings.Contains(lower, "best flight"), strings.Contains(lower, "fastest"):
		s.FlightPreference = "best"
	case strings.Contains(lower, "cheap"):
		s.FlightPreference = "cheapest"
	}

	var missing []string
	if s.Destination == "" {
		missing = append(missing, "destination")
	}
	if s.Source == "" {
		missing = append(missing, "source")
	}
	if s.StartDate == "" {
		missing = append(missing, "start_date")
	}
	if s.EndDate == "" {
		missing = append(missing, "end_date")
	}
	s.MissingFields = missing

	if s.StartDate != "" && s.EndDate != "" {
		d, err := model.TripDuration(s.StartDate, s.EndDate)
		if err == nil {
			s.Duration = d
		}
	}

	if len(missing) == 0 {
		s.AppendAssistant(fmt.Sprintf("Great — a %d-day trip from %s to %s!", s.Duration, s.Source, s.Destination))
		s.ClearSuspend()
		return model.RouteFlightSearch, nil
	}

	summary := fmt.Sprintf("Here's what I understood so far: destination %s, from %s, %s to %s.%s",
		valueOr(s.Destination, "unknown"), valueOr(s.Source, "unknown"),
		valueOr(s.StartDate, "?"), valueOr(s.EndDate, "?"), dateNote)
	s.AppendAssistant(summary)
	s.Suspend(model.SuspendField, missing[0])
	return model.RouteSlotCollector, nil
}

// extractTripDetails asks the classifier for strict JSON; on any failure it
// degrades to pulling ISO dates out of the raw text.
func (n *Nodes) extractTripDetails(ctx context.Context, text string) parsers.TripExtraction {
	p, err := prompts.RenderTripExtraction(ctx, text)
	if err == nil {
		out, gerr := n.completer.Classify(ctx, []*schema.Message{schema.UserMessage(p)})
		if gerr == nil && out != nil {
			if ext, perr := parsers.ParseTripExtraction(out.Content); perr == nil {
				return *ext
			} else {
				logx.Warn().Err(perr).Str("raw", out.Content).Msg("trip extraction parse failed, falling back to date scan")
			}
		} else {
			logx.Warn().Err(gerr).Msg("trip extraction completion failed, falling back to date scan")
		}
	}

	var ext parsers.TripExtraction
	dates := isoDatePattern.FindAllString(text, 2)
	if len(dates) > 0 {
		ext.StartDate = dates[0]
	}
	if len(dates) > 1 {
		ext.EndDate = dates[1]
	}
	return ext
}
