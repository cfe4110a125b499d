package model

import (
	"encoding/json"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialogueStateRoundTrip(t *testing.T) {
	s := NewDialogueState("u1", "sess1")
	s.AppendHuman("I want to go to Goa")
	s.AppendAssistant("Sounds great!")
	s.AppendMessage(schema.AssistantMessage("Checking the weather...", []schema.ToolCall{{
		ID:       "call_3",
		Type:     "function",
		Function: schema.FunctionCall{Name: "weather_information", Arguments: `{"city":"Goa"}`},
	}}))
	s.AppendMessage(schema.ToolMessage(`{"city":"Goa","temperature":29.5}`, "call_3"))

	s.Destination = "Goa"
	s.Source = "Pune"
	s.StartDate = "2026-01-10"
	s.EndDate = "2026-01-12"
	s.Duration = 3
	s.Suspend(SuspendConfirmation, "")

	b, err := json.Marshal(s)
	require.NoError(t, err)

	var got DialogueState
	require.NoError(t, json.Unmarshal(b, &got))

	require.Len(t, got.Messages, 4)
	assert.Equal(t, schema.User, got.Messages[0].Role)
	assert.Equal(t, "I want to go to Goa", got.Messages[0].Content)
	assert.Equal(t, schema.Assistant, got.Messages[1].Role)
	assert.Equal(t, schema.Assistant, got.Messages[2].Role)
	require.Len(t, got.Messages[2].ToolCalls, 1)
	assert.Equal(t, "weather_information", got.Messages[2].ToolCalls[0].Function.Name)
	assert.Equal(t, "call_3", got.Messages[2].ToolCalls[0].ID)
	assert.Equal(t, schema.Tool, got.Messages[3].Role)
	assert.Equal(t, "call_3", got.Messages[3].ToolCallID)

	assert.Equal(t, "Goa", got.Destination)
	assert.Equal(t, 3, got.Duration)
	assert.True(t, got.AwaitingConfirmation)
	assert.NoError(t, got.Validate())
}

func TestMessagesPersistedTags(t *testing.T) {
	ms := Messages{
		schema.UserMessage("hi"),
		schema.AssistantMessage("hello", nil),
		schema.ToolMessage("result", "call_9"),
	}

	b, err := json.Marshal(ms)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	require.Len(t, raw, 3)
	assert.Equal(t, "human", raw[0]["type"])
	assert.Equal(t, "ai", raw[1]["type"])
	assert.Equal(t, "tool", raw[2]["type"])
}

func TestMessagesUnknownTagDegradesToHuman(t *testing.T) {
	var ms Messages
	require.NoError(t, json.Unmarshal([]byte(`[{"type":"bogus","content":"hello"}]`), &ms))
	require.Len(t, ms, 1)
	assert.Equal(t, schema.User, ms[0].Role)
	assert.Equal(t, "hello", ms[0].Content)
}

func TestSuspendSetsExactlyOneFlag(t *testing.T) {
	s := NewDialogueState("u", "s")

	s.Suspend(SuspendField, "end_date")
	assert.Equal(t, []SuspendFlag{SuspendField}, s.ActiveSuspendFlags())
	assert.Equal(t, "end_date", s.AwaitingField)

	s.Suspend(SuspendDestinationCity, "")
	assert.Equal(t, []SuspendFlag{SuspendDestinationCity}, s.ActiveSuspendFlags())
	assert.Empty(t, s.AwaitingField)

	s.ClearSuspend()
	assert.Empty(t, s.ActiveSuspendFlags())
}

func TestValidateRejectsMultipleSuspendFlags(t *testing.T) {
	s := NewDialogueState("u", "s")
	s.AwaitingField = "source"
	s.AwaitingConfirmation = true
	assert.Error(t, s.Validate())
}

func TestValidateRejectsDurationMismatch(t *testing.T) {
	s := NewDialogueState("u", "s")
	s.StartDate = "2026-01-10"
	s.EndDate = "2026-01-12"
	s.Duration = 5
	assert.Error(t, s.Validate())

	s.Duration = 3
	assert.NoError(t, s.Validate())
}

func TestTripDuration(t *testing.T) {
	d, err := TripDuration("2026-01-10", "2026-01-10")
	require.NoError(t, err)
	assert.Equal(t, 1, d)

	d, err = TripDuration("2026-01-10", "2026-01-14")
	require.NoError(t, err)
	assert.Equal(t, 5, d)

	_, err = TripDuration("2026-01-14", "2026-01-10")
	assert.Error(t, err)

	_, err = TripDuration("14/01/2026", "2026-01-20")
	assert.Error(t, err)
}

func TestLastMessageIsHuman(t *testing.T) {
	s := NewDialogueState("u", "s")
	assert.False(t, s.LastMessageIsHuman())

	s.AppendHuman("hi")
	assert.True(t, s.LastMessageIsHuman())
	assert.Equal(t, "hi", s.LastUserMessage)

	s.AppendAssistant("hello")
	assert.False(t, s.LastMessageIsHuman())
	assert.Equal(t, "hi", s.LastUserMessage)
}
