package serpapi

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/tripflow/server/internal/agent/model"
	logx "github.com/tripflow/server/pkg/logger"
)

type flightsResponse struct {
	CheapestFlights []flightGroup `json:"cheapest_flights"`
	BestFlights     []flightGroup `json:"best_flights"`
	OtherFlights    []flightGroup `json:"other_flights"`
}

type flightGroup struct {
	Flights  []flightSegment `json:"flights"`
	Price    json.Number     `json:"price"`
	Airline  string          `json:"airline"`
	Duration json.Number     `json:"duration"`
}

type flightSegment struct {
	DepartureAirport airportInfo `json:"departure_airport"`
	ArrivalAirport   airportInfo `json:"arrival_airport"`
	Airline          string      `json:"airline"`
	Duration         json.Number `json:"duration"`
}

type airportInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Time     string `json:"time"`
	DateTime string `json:"datetime"`
}

func (a airportInfo) code() string {
	if a.ID != "" {
		return a.ID
	}
	return a.Name
}

func (a airportInfo) when() string {
	if a.Time != "" {
		return a.Time
	}
	return a.DateTime
}

// SearchFlights queries the google_flights engine and flattens the first
// segment of each option into a Flight record.
func (c *Client) SearchFlights(ctx context.Context, q model.FlightQuery) ([]model.Flight, error) {
	logx.Info().Str("source", q.Source).Str("destination", q.Destination).Msg("searching flights")

	params := url.Values{}
	params.Set("engine", "google_flights")
	params.Set("departure_id", q.Source)
	params.Set("arrival_id", q.Destination)
	params.Set("outbound_date", q.StartDate)
	params.Set("return_date", q.EndDate)
	params.Set("currency", c.currency)

	var resp flightsResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}

	var groups []flightGroup
	if q.Preference == "best" {
		groups = resp.BestFlights
		if len(groups) == 0 {
			groups = resp.OtherFlights
		}
	} else {
		groups = resp.CheapestFlights
		if len(groups) == 0 {
			groups = resp.BestFlights
		}
	}

	flights := make([]model.Flight, 0, len(groups))
	for _, g := range groups {
		var seg flightSegment
		if len(g.Flights) > 0 {
			seg = g.Flights[0]
		}

		airline := seg.Airline
		if airline == "" {
			airline = g.Airline
		}
		price := g.Price.String()
		if price == "" {
			price = "N/A"
		}
		duration := seg.Duration.String()
		if duration == "" {
			duration = g.Duration.String()
		}

		flights = append(flights, model.Flight{
			Airline:          airline,
			Price:            price,
			DepartureAirport: seg.DepartureAirport.code(),
			DepartureTime:    seg.DepartureAirport.when(),
			ArrivalAirport:   seg.ArrivalAirport.code(),
			ArrivalTime:      seg.ArrivalAirport.when(),
			Duration:         duration,
		})
	}

	return flights, nil
}

var _ model.FlightSearcher = (*Client)(nil)
