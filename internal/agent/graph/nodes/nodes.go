// Package nodes implements the workflow step handlers. Each handler
// consumes the dialogue state, appends any messages it produces, and
// returns the next route; RouteEnd suspends the turn.
package nodes

import (
	"github.com/tripflow/server/internal/agent/model"
)

// Deps carries the injected collaborators shared by all handlers.
type Deps struct {
	Completer model.Completer
	Cache     model.SearchCache
	Flights   model.FlightSearcher
	Hotels    model.HotelSearcher
	Weather   model.WeatherProvider
	WebSearch model.WebSearcher
}

// Nodes holds the handler set for the planner graph.
type Nodes struct {
	completer model.Completer
	cache     model.SearchCache
	flights   model.FlightSearcher
	hotels    model.HotelSearcher
	weather   model.WeatherProvider
	webSearch model.WebSearcher
}

func New(deps Deps) *Nodes {
	return &Nodes{
		completer: deps.Completer,
		cache:     deps.Cache,
		flights:   deps.Flights,
		hotels:    deps.Hotels,
		weather:   deps.Weather,
		webSearch: deps.WebSearch,
	}
}
