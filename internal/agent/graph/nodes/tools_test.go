package nodes

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripflow/server/internal/agent/model"
)

func withPendingCall(s *model.DialogueState, name, args string) {
	s.AppendMessage(schema.AssistantMessage("One moment...", []schema.ToolCall{{
		ID:       "call_1",
		Type:     "function",
		Function: schema.FunctionCall{Name: name, Arguments: args},
	}}))
}

func TestWeatherToolAppendsResultAndSummary(t *testing.T) {
	n, _ := newTestNodes(t)
	s := model.NewDialogueState("u", "s")
	s.AppendHuman("weather in Goa?")
	withPendingCall(s, ToolWeather, `{"city":"Goa"}`)

	route, err := n.WeatherTool(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, model.RouteEnd, route)

	require.Len(t, s.Messages, 4)
	toolMsg := s.Messages[2]
	assert.Equal(t, schema.Tool, toolMsg.Role)
	assert.Equal(t, "call_1", toolMsg.ToolCallID)
	assert.Contains(t, toolMsg.Content, "29.5")

	assert.Contains(t, s.LastMessage().Content, "Goa")
	assert.Contains(t, s.LastMessage().Content, "29.5")
}

func TestWeatherToolProviderFailure(t *testing.T) {
	n, d := newTestNodes(t)
	d.weather.report = nil
	d.weather.err = errors.New("openweather down")
	s := model.NewDialogueState("u", "s")
	withPendingCall(s, ToolWeather, `{"city":"Goa"}`)

	route, err := n.WeatherTool(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, model.RouteEnd, route)
	assert.Contains(t, s.LastMessage().Content, "couldn't get the weather")
}

func TestWeatherToolWithoutPendingCallEndsQuietly(t *testing.T) {
	n, _ := newTestNodes(t)
	s := model.NewDialogueState("u", "s")
	s.AppendHuman("weather?")

	route, err := n.WeatherTool(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, model.RouteEnd, route)
	assert.Len(t, s.Messages, 1)
}

func TestSearchToolAppendsResult(t *testing.T) {
	n, _ := newTestNodes(t)
	s := model.NewDialogueState("u", "s")
	s.AppendHuman("search for beaches")
	withPendingCall(s, ToolWebSearch, `{"query":"best beaches in Goa"}`)

	route, err := n.SearchTool(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, model.RouteEnd, route)

	require.Len(t, s.Messages, 4)
	assert.Equal(t, schema.Tool, s.Messages[2].Role)
	assert.Contains(t, s.LastMessage().Content, "best beaches in Goa")
}

func TestSearchToolProviderFailure(t *testing.T) {
	n, d := newTestNodes(t)
	d.web.result = ""
	d.web.err = errors.New("serpapi down")
	s := model.NewDialogueState("u", "s")
	withPendingCall(s, ToolWebSearch, `{"query":"anything"}`)

	route, err := n.SearchTool(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, model.RouteEnd, route)
	assert.Contains(t, s.LastMessage().Content, "didn't go through")
}

func TestChatRespondsWithGenerator(t *testing.T) {
	n, d := newTestNodes(t)
	d.completer.respondFn = func(prompt string) (string, error) {
		return "Hello! Fancy planning a trip?", nil
	}
	s := model.NewDialogueState("u", "s")
	s.AppendHuman("hi there")
	s.LastUserMessage = "hi there"

	route, err := n.Chat(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, model.RouteEnd, route)
	assert.Equal(t, "Hello! Fancy planning a trip?", s.LastMessage().Content)
}

func TestChatPropagatesGeneratorError(t *testing.T) {
	n, d := newTestNodes(t)
	d.completer.respondFn = func(string) (string, error) {
		return "", errors.New("model overloaded")
	}
	s := model.NewDialogueState("u", "s")
	s.AppendHuman("hi")
	s.LastUserMessage = "hi"

	_, err := n.Chat(context.Background(), s)
	assert.Error(t, err)
}
