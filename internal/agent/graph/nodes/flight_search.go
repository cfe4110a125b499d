package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/tripflow/server/internal/agent/graph/parsers"
	"github.com/tripflow/server/internal/agent/graph/prompts"
	"github.com/tripflow/server/internal/agent/model"
	logx "github.com/tripflow/server/pkg/logger"
)

// FlightSearch runs the flight lookup pipeline: preconditions, destination
// disambiguation, lookup-code resolution, cache-or-fetch, and finally the
// numbered listing. Several steps can suspend the turn.
func (n *Nodes) FlightSearch(ctx context.Context, s *model.DialogueState) (model.Route, error) {
	if missing := missingTripFields(s); len(missing) > 0 {
		s.MissingFields = missing
		s.ClearSuspend()
		s.AppendAssistant("I still need a few details before I can search for flights.")
		return model.RouteSlotCollector, nil
	}

	if s.AwaitingDestinationCity || s.AwaitingAirportClarification {
		if !s.LastMessageIsHuman() {
			return model.RouteEnd, nil
		}
		n.resolveDestinationAnswer(s)
	}

	if !s.DestinationChecked {
		if suspended := n.classifyDestination(ctx, s); suspended {
			return model.RouteEnd, nil
		}
	}

	sourceCode, destCode := n.resolveCodes(ctx, s)

	key := flightCacheKey(sourceCode, destCode, s.StartDate, s.EndDate)
	flights, hit, err := n.cache.GetFlights(ctx, key)
	if err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("flight cache read failed, treating as miss")
		hit = false
	}
	if !hit {
		results, serr := n.flights.SearchFlights(ctx, model.FlightQuery{
			Source:      sourceCode,
			Destination: destCode,
			StartDate:   s.StartDate,
			EndDate:     s.EndDate,
			Preference:  valueOr(s.FlightPreference, "cheapest"),
		})
		if serr != nil {
			logx.Error().Err(serr).Str("key", key).Msg("flight search failed")
			// The flight stage is over for this trip; the router's guest
			// override depends on that.
			s.FlightsProcessed = true
			s.AppendAssistant("I couldn't reach the flight search right now — let's sort out your accommodation and you can retry flights later.")
			return model.RouteHotelSearch, nil
		}
		flights = enumerateFlights(results)
		if len(flights) > 0 {
			if cerr := n.cache.SetFlights(ctx, key, flights); cerr != nil {
				logx.Warn().Err(cerr).Str("key", key).Msg("flight cache write failed")
			}
		}
	}

	if len(flights) == 0 {
		s.FlightsProcessed = true
		s.AppendAssistant(fmt.Sprintf("Sorry, I couldn't find any flights from %s to %s for those dates. Let's look at hotels instead.", s.Source, s.Destination))
		return model.RouteHotelSearch, nil
	}

	s.AvailableFlights = flights
	s.FlightsProcessed = false
	s.AppendAssistant(fmt.Sprintf("Here are the flights I found from %s to %s:\n%s\n\nReply with the number of the flight you'd like.",
		s.Source, s.Destination, renderFlightListing(flights)))
	return model.RouteEnd, nil
}

// resolveDestinationAnswer consumes the clarifying answer to an earlier
// disambiguation question. An affirmative accepts the suggested city; any
// other answer becomes the new destination verbatim and goes back through
// classification.
func (n *Nodes) resolveDestinationAnswer(s *model.DialogueState) {
	answer := strings.TrimSpace(s.LastUserMessage)

	if s.AwaitingDestinationCity && isAffirmative(answer) && s.SuggestedCity != "" {
		s.Destination = s.SuggestedCity
		s.DestinationChecked = true
	} else if answer != "" {
		s.Destination = answer
		s.DestinationChecked = false
	}

	s.ClearSuspend()
	s.OriginalDestination = ""
	s.SuggestedCity = ""
}

// classifyDestination decides country-vs-city once per destination. A
// country destination suspends the turn with a suggested city to confirm.
// Classification failures degrade to treating the destination as a city.
func (n *Nodes) classifyDestination(ctx context.Context, s *model.DialogueState) (suspended bool) {
	kind := "city"
	if p, err := prompts.RenderDestinationKind(ctx, s.Destination); err == nil {
		out, gerr := n.completer.Classify(ctx, []*schema.Message{schema.UserMessage(p)})
		if gerr != nil || out == nil {
			logx.Warn().Err(gerr).Str("destination", s.Destination).Msg("destination classification failed, assuming city")
		} else {
			kind = parsers.ParsePlaceKind(out.Content)
		}
	}

	if kind != "country" {
		s.DestinationChecked = true
		return false
	}

	city := n.suggestCity(ctx, s.Destination)
	if city == "" {
		// No usable suggestion; search with the country name rather than
		// stalling the flow.
		s.DestinationChecked = true
		return false
	}

	s.OriginalDestination = s.Destination
	s.SuggestedCity = city
	s.Suspend(model.SuspendDestinationCity, "")
	s.AppendAssistant(fmt.Sprintf("%s is a country — should I plan for %s? (yes, or tell me another city)", s.Destination, city))
	return true
}

func (n *Nodes) suggestCity(ctx context.Context, destination string) string {
	p, err := prompts.RenderRepresentativeCity(ctx, destination)
	if err != nil {
		return ""
	}
	out, err := n.completer.Classify(ctx, []*schema.Message{schema.UserMessage(p)})
	if err != nil || out == nil {
		logx.Warn().Err(err).Str("destination", destination).Msg("city suggestion failed")
		return ""
	}
	return parsers.FirstLine(out.Content)
}

// resolveCodes asks the classifier for airport codes with a strict-JSON
// contract; a parse failure falls back to the raw city names so the search
// never hard-fails here.
func (n *Nodes) resolveCodes(ctx context.Context, s *model.DialogueState) (string, string) {
	p, err := prompts.RenderCodeResolution(ctx, s.Source, s.Destination)
	if err != nil {
		return s.Source, s.Destination
	}
	out, err := n.completer.Classify(ctx, []*schema.Message{schema.UserMessage(p)})
	if err != nil || out == nil {
		logx.Warn().Err(err).Msg("code resolution completion failed, using raw names")
		return s.Source, s.Destination
	}
	codes, perr := parsers.ParseCodeResolution(out.Content)
	if perr != nil {
		logx.Warn().Err(perr).Str("raw", out.Content).Msg("code resolution parse failed, using raw names")
		return s.Source, s.Destination
	}
	return codes.SourceCode, codes.DestinationCode
}

// missingTripFields lists the unfilled preconditions for a flight search,
// in the order they should be collected.
func missingTripFields(s *model.DialogueState) []string {
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
	return missing
}
