// Package graph drives the travel-planner workflow: a static table of node
// handlers connected by routes, executed until a node ends the turn.
package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	"github.com/tripflow/server/internal/agent/graph/nodes"
	"github.com/tripflow/server/internal/agent/model"
	logx "github.com/tripflow/server/pkg/logger"
)

// apologyMessage is the single user-visible fallback for any handler error.
// A turn must always produce some response.
const apologyMessage = "I'm sorry, something went wrong on my end. Could you try that again?"

// defaultMaxHops bounds one turn's node chain; several nodes self-loop on
// invalid input and a bug there must not spin forever.
const defaultMaxHops = 50

// Handler executes one node: it mutates the dialogue state and returns the
// next route, or RouteEnd to stop and hand control back to the user.
type Handler func(ctx context.Context, s *model.DialogueState) (model.Route, error)

// Executor walks the handler table from an entry route until the terminal
// sentinel is returned.
type Executor struct {
	handlers map[model.Route]Handler
	maxHops  int
}

func NewExecutor(handlers map[model.Route]Handler, maxHops int) *Executor {
	if maxHops <= 0 {
		maxHops = defaultMaxHops
	}
	return &Executor{handlers: handlers, maxHops: maxHops}
}

// Run executes from entry and returns every message appended during the
// turn. Handler errors never escape: they become one apology message and a
// safe terminal route.
func (e *Executor) Run(ctx context.Context, state *model.DialogueState, entry model.Route) []*schema.Message {
	startCount := len(state.Messages)

	route := entry
	for hops := 0; route != model.RouteEnd; hops++ {
		if hops >= e.maxHops {
			logx.Error().Str("route", string(route)).Int("max_hops", e.maxHops).Msg("step budget exhausted, terminating turn")
			e.fail(state)
			break
		}

		handler, ok := e.handlers[route]
		if !ok {
			logx.Error().Str("route", string(route)).Msg("no handler registered for route")
			e.fail(state)
			break
		}

		next, err := e.invoke(ctx, route, handler, state)
		if err != nil {
			logx.Error().Err(err).Str("route", string(route)).Str("user_id", state.UserID).Msg("node handler failed")
			e.fail(state)
			break
		}

		state.Route = next
		if verr := state.Validate(); verr != nil {
			logx.Error().Err(verr).Str("route", string(route)).Msg("state invariant violated after node execution")
			e.fail(state)
			break
		}

		logx.Debug().Str("from", string(route)).Str("to", string(next)).Msg("route transition")
		route = next
	}

	return state.Messages[startCount:]
}

// invoke shields the executor from handler panics.
func (e *Executor) invoke(ctx context.Context, route model.Route, h Handler, s *model.DialogueState) (next model.Route, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("node %s panic: %v", route, r)
		}
	}()
	return h(ctx, s)
}

func (e *Executor) fail(state *model.DialogueState) {
	state.AppendAssistant(apologyMessage)
	state.Route = model.RouteEnd
}

// Config holds everything needed to compose the planner end-to-end.
type Config struct {
	Store     model.StateStore
	Cache     model.SearchCache
	Completer model.Completer
	Flights   model.FlightSearcher
	Hotels    model.HotelSearcher
	Weather   model.WeatherProvider
	WebSearch model.WebSearcher
	MaxHops   int
}

// Planner is the collaborator-facing turn entry point.
type Planner struct {
	store model.StateStore
	exec  *Executor
}

// BuildPlanner wires the node handlers into the transition table and
// returns a ready Planner.
func BuildPlanner(cfg Config) (*Planner, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("state store is nil")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("search cache is nil")
	}
	if cfg.Completer == nil {
		return nil, fmt.Errorf("completer is nil")
	}
	if cfg.Flights == nil || cfg.Hotels == nil {
		return nil, fmt.Errorf("search providers are not properly initialized")
	}

	n := nodes.New(nodes.Deps{
		Completer: cfg.Completer,
		Cache:     cfg.Cache,
		Flights:   cfg.Flights,
		Hotels:    cfg.Hotels,
		Weather:   cfg.Weather,
		WebSearch: cfg.WebSearch,
	})

	handlers := map[model.Route]Handler{
		model.RouteRouter:          n.Router,
		model.RouteTravelIntent:    n.TravelIntent,
		model.RouteSlotCollector:   n.CollectMissingTravelInfo,
		model.RouteConfirmation:    n.Confirmation,
		model.RouteFlightSearch:    n.FlightSearch,
		model.RouteFlightSelection: n.FlightSelection,
		model.RouteHotelSearch:     n.HotelSearch,
		model.RouteHotelInfo:       n.HotelInfo,
		model.RouteHotelSelection:  n.HotelSelection,
		model.RouteItinerary:       n.Itinerary,
		model.RouteChat:            n.Chat,
		model.RouteWeatherTool:     n.WeatherTool,
		model.RouteSearchTool:      n.SearchTool,
	}

	logx.Debug().Int("nodes", len(handlers)).Msg("planner graph built")
	return &Planner{
		store: cfg.Store,
		exec:  NewExecutor(handlers, cfg.MaxHops),
	}, nil
}

// Turn processes one inbound user message and returns the texts of every
// assistant/tool message produced before the workflow suspended or ended.
func (p *Planner) Turn(ctx context.Context, in model.TurnInput) ([]string, error) {
	state, err := p.store.Load(ctx, in.UserID, in.SessionID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = model.NewDialogueState(in.UserID, in.SessionID)
	}

	state.AppendHuman(in.UserMessage)

	newMessages := p.exec.Run(ctx, state, model.RouteRouter)

	if err := p.store.Save(ctx, state); err != nil {
		// The reply is still worth delivering; the next turn simply starts
		// from the previous persisted state.
		logx.Error().Err(err).Str("user_id", in.UserID).Msg("failed to persist conversation state")
	}

	// Tool messages stay in history for the model but are not user-facing;
	// tool nodes append their own assistant summary.
	var texts []string
	for _, m := range newMessages {
		if m == nil || m.Content == "" || m.Role != schema.Assistant {
			continue
		}
		texts = append(texts, m.Content)
	}
	return texts, nil
}

// ClearConversation deletes the persisted state for a (user, session) pair.
func (p *Planner) ClearConversation(ctx context.Context, userID, sessionID string) error {
	return p.store.Delete(ctx, userID, sessionID)
}
