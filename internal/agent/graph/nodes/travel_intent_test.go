package nodes

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripflow/server/internal/agent/model"
)

func TestTravelIntentCompleteDetails(t *testing.T) {
	n, _ := newTestNodes(t)
	s := model.NewDialogueState("u", "s")
	s.AppendHuman("I want to travel from Pune to Goa from 2026-02-01 to 2026-02-05")

	route, err := n.TravelIntent(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, model.RouteFlightSearch, route)

	assert.Equal(t, "Goa", s.Destination)
	assert.Equal(t, "Pune", s.Source)
	assert.Equal(t, 5, s.Duration)
	assert.Empty(t, s.MissingFields)
	assert.False(t, s.DestinationChecked)
}

func TestTravelIntentMissingFieldsSuspends(t *testing.T) {
	n, d := newTestNodes(t)
	d.completer.classifyFn = func(prompt string) (string, error) {
		return `{"destination":"Goa","source":"","start_date":"","end_date":""}`, nil
	}
	s := model.NewDialogueState("u", "s")
	s.AppendHuman("I want to visit Goa")

	route, err := n.TravelIntent(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, model.RouteSlotCollector, route)

	assert.Equal(t, []string{"source", "start_date", "end_date"}, s.MissingFields)
	assert.Equal(t, "source", s.AwaitingField)
}

func TestTravelIntentDatesWithoutSource(t *testing.T) {
	n, d := newTestNodes(t)
	d.completer.classifyFn = func(prompt string) (string, error) {
		return `{"destination":"Paris","source":"","start_date":"2026-06-01","end_date":"2026-06-05"}`, nil
	}
	s := model.NewDialogueState("u", "s")
	s.AppendHuman("I want to visit Paris from 2026-06-01 to 2026-06-05")

	route, err := n.TravelIntent(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, model.RouteSlotCollector, route)

	assert.Equal(t, "Paris", s.Destination)
	assert.Equal(t, 5, s.Duration)
	assert.Equal(t, []string{"source"}, s.MissingFields)
	assert.Equal(t, "source", s.AwaitingField)
}

func TestTravelIntentRejectsEndBeforeStart(t *testing.T) {
	n, d := newTestNodes(t)
	d.completer.classifyFn = func(prompt string) (string, error) {
		return `{"destination":"Goa","source":"Pune","start_date":"2026-02-10","end_date":"2026-02-01"}`, nil
	}
	s := model.NewDialogueState("u", "s")
	s.AppendHuman("trip to Goa, 10th Feb back on the 1st")

	route, err := n.TravelIntent(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, model.RouteSlotCollector, route)

	assert.Equal(t, "2026-02-10", s.StartDate)
	assert.Empty(t, s.EndDate)
	assert.Contains(t, s.MissingFields, "end_date")
}

func TestTravelIntentExtractionFallbackScansDates(t *testing.T) {
	n, d := newTestNodes(t)
	d.completer.classifyFn = func(prompt string) (string, error) {
		return "", errors.New("model unavailable")
	}
	s := model.NewDialogueState("u", "s")
	s.AppendHuman("trip from 2026-02-01 to 2026-02-05 please")

	route, err := n.TravelIntent(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, model.RouteSlotCollector, route)

	assert.Equal(t, "2026-02-01", s.StartDate)
	assert.Equal(t, "2026-02-05", s.EndDate)
	assert.Equal(t, []string{"destination", "source"}, s.MissingFields)
}

func TestTravelIntentNewDestinationResetsCheck(t *testing.T) {
	n, d := newTestNodes(t)
	d.completer.classifyFn = func(prompt string) (string, error) {
		return `{"destination":"Japan","source":"","start_date":"","end_date":""}`, nil
	}
	s := tripState("actually let's visit Japan instead")
	s.DestinationChecked = true

	_, err := n.TravelIntent(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "Japan", s.Destination)
	assert.False(t, s.DestinationChecked)

	// Slots from the earlier trip survive.
	assert.Equal(t, "Pune", s.Source)
	assert.Equal(t, "2026-02-01", s.StartDate)
}

func TestTravelIntentCapturesFlightPreference(t *testing.T) {
	n, _ := newTestNodes(t)
	s := model.NewDialogueState("u", "s")
	s.AppendHuman("I want to travel from Pune to Goa from 2026-02-01 to 2026-02-05, best flight please")

	_, err := n.TravelIntent(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "best", s.FlightPreference)
}

func TestSlotCollectorAsksNextQuestion(t *testing.T) {
	n, _ := newTestNodes(t)
	s := model.NewDialogueState("u", "s")
	s.AppendAssistant("Here's what I understood so far...")
	s.MissingFields = []string{"source", "end_date"}

	route, err := n.CollectMissingTravelInfo(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, model.RouteEnd, route)

	assert.Equal(t, "source", s.AwaitingField)
	assert.Contains(t, s.LastMessage().Content, "travelling from")
}

func TestSlotCollectorStoresAnswerAndAdvances(t *testing.T) {
	n, _ := newTestNodes(t)
	s := model.NewDialogueState("u", "s")
	s.MissingFields = []string{"source", "end_date"}
	s.Suspend(model.SuspendField, "source")
	s.AppendHuman("Pune")

	route, err := n.CollectMissingTravelInfo(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, model.RouteEnd, route)

	assert.Equal(t, "Pune", s.Source)
	assert.Equal(t, []string{"end_date"}, s.MissingFields)
	assert.Equal(t, "end_date", s.AwaitingField)
}

func TestSlotCollectorRejectsBadDate(t *testing.T) {
	n, _ := newTestNodes(t)
	s := model.NewDialogueState("u", "s")
	s.MissingFields = []string{"start_date"}
	s.Suspend(model.SuspendField, "start_date")
	s.AppendHuman("next tuesday")

	route, err := n.CollectMissingTravelInfo(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, model.RouteEnd, route)

	assert.Empty(t, s.StartDate)
	assert.Equal(t, "start_date", s.AwaitingField)
	assert.Equal(t, []string{"start_date"}, s.MissingFields)
	assert.Contains(t, s.LastMessage().Content, "YYYY-MM-DD")
}

func TestSlotCollectorRejectsEndBeforeStart(t *testing.T) {
	n, _ := newTestNodes(t)
	s := model.NewDialogueState("u", "s")
	s.StartDate = "2026-02-10"
	s.MissingFields = []string{"end_date"}
	s.Suspend(model.SuspendField, "end_date")
	s.AppendHuman("2026-02-01")

	route, err := n.CollectMissingTravelInfo(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, model.RouteEnd, route)

	assert.Empty(t, s.EndDate)
	assert.Equal(t, "end_date", s.AwaitingField)
}

func TestSlotCollectorQueueDrainedAsksConfirmation(t *testing.T) {
	n, _ := newTestNodes(t)
	s := tripState("")
	s.Duration = 0
	s.MissingFields = []string{"end_date"}
	s.Suspend(model.SuspendField, "end_date")
	s.EndDate = ""
	s.AppendHuman("2026-02-05")

	route, err := n.CollectMissingTravelInfo(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, model.RouteEnd, route)

	assert.Equal(t, "2026-02-05", s.EndDate)
	assert.Equal(t, 5, s.Duration)
	assert.True(t, s.AwaitingConfirmation)
	assert.True(t, strings.Contains(s.LastMessage().Content, "yes/no"))
}

func TestConfirmationYesProceedsToFlights(t *testing.T) {
	n, _ := newTestNodes(t)
	s := tripState("yes")
	s.Suspend(model.SuspendConfirmation, "")

	route, err := n.Confirmation(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, model.RouteFlightSearch, route)
	assert.Empty(t, s.ActiveSuspendFlags())
}

func TestConfirmationNoDropsToChat(t *testing.T) {
	n, _ := newTestNodes(t)
	s := tripState("no, let's change the dates")
	s.Suspend(model.SuspendConfirmation, "")

	route, err := n.Confirmation(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, model.RouteChat, route)
	assert.Empty(t, s.ActiveSuspendFlags())
}
