package nodes

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/schema"

	"github.com/tripflow/server/internal/agent/model"
	logx "github.com/tripflow/server/pkg/logger"
)

const (
	ToolWeather   = "weather_information"
	ToolWebSearch = "web_search"
)

// WeatherTool executes the pending weather_information call and appends the
// tool result to the conversation.
func (n *Nodes) WeatherTool(ctx context.Context, s *model.DialogueState) (model.Route, error) {
	call, ok := pendingToolCall(s, ToolWeather)
	if !ok {
		logx.Warn().Msg("weather node invoked without a pending tool call")
		return model.RouteEnd, nil
	}

	var args struct {
		City string `json:"city"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil || args.City == "" {
		s.AppendAssistant("I couldn't work out which city you meant — could you name it?")
		return model.RouteEnd, nil
	}

	report, err := n.weather.CurrentWeather(ctx, args.City)
	if err != nil {
		logx.Error().Err(err).Str("city", args.City).Msg("weather lookup failed")
		s.AppendAssistant(fmt.Sprintf("Sorry, I couldn't get the weather for %s right now.", args.City))
		return model.RouteEnd, nil
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return model.RouteEnd, err
	}
	s.AppendMessage(schema.ToolMessage(string(payload), call.ID))
	s.AppendAssistant(fmt.Sprintf("It's %.1f°%s in %s right now, with wind at %.1f m/s.",
		report.Temperature, shortUnit(report.Unit), report.City, report.Wind.Speed))
	return model.RouteEnd, nil
}

// SearchTool executes the pending web_search call.
func (n *Nodes) SearchTool(ctx context.Context, s *model.DialogueState) (model.Route, error) {
	call, ok := pendingToolCall(s, ToolWebSearch)
	if !ok {
		logx.Warn().Msg("search node invoked without a pending tool call")
		return model.RouteEnd, nil
	}

	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil || args.Query == "" {
		s.AppendAssistant("What would you like me to search for?")
		return model.RouteEnd, nil
	}

	result, err := n.webSearch.SearchWeb(ctx, args.Query)
	if err != nil {
		logx.Error().Err(err).Str("query", args.Query).Msg("web search failed")
		s.AppendAssistant("Sorry, the search didn't go through. Please try again.")
		return model.RouteEnd, nil
	}

	s.AppendMessage(schema.ToolMessage(result, call.ID))
	s.AppendAssistant("Here's what I found:\n\n" + result)
	return model.RouteEnd, nil
}

// pendingToolCall finds the named call on the most recent assistant message.
func pendingToolCall(s *model.DialogueState, name string) (schema.ToolCall, bool) {
	last := s.LastMessage()
	if last == nil || last.Role != schema.Assistant {
		return schema.ToolCall{}, false
	}
	for _, call := range last.ToolCalls {
		if call.Function.Name == name {
			return call, true
		}
	}
	return schema.ToolCall{}, false
}

func shortUnit(unit string) string {
	if unit == "Celsius" {
		return "C"
	}
	return unit
}
