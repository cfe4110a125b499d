package nodes

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/tripflow/server/internal/agent/model"
)

// fakeCompleter routes classify/respond calls through test-provided
// functions keyed off the rendered prompt text.
type fakeCompleter struct {
	t          *testing.T
	classifyFn func(prompt string) (string, error)
	respondFn  func(prompt string) (string, error)
}

func (f *fakeCompleter) Classify(ctx context.Context, msgs []*schema.Message) (*schema.Message, error) {
	if f.classifyFn == nil {
		f.t.Fatalf("unexpected Classify call: %s", lastContent(msgs))
	}
	out, err := f.classifyFn(lastContent(msgs))
	if err != nil {
		return nil, err
	}
	return schema.AssistantMessage(out, nil), nil
}

func (f *fakeCompleter) Respond(ctx context.Context, msgs []*schema.Message) (*schema.Message, error) {
	if f.respondFn == nil {
		f.t.Fatalf("unexpected Respond call: %s", lastContent(msgs))
	}
	out, err := f.respondFn(lastContent(msgs))
	if err != nil {
		return nil, err
	}
	return schema.AssistantMessage(out, nil), nil
}

func lastContent(msgs []*schema.Message) string {
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1].Content
}

// plannerClassify answers every classifier prompt the Pune-to-Goa happy
// path needs.
func plannerClassify(t *testing.T) func(string) (string, error) {
	return func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Extract travel details"):
			return `{"destination":"Goa","source":"Pune","start_date":"2026-02-01","end_date":"2026-02-05"}`, nil
		case strings.Contains(prompt, "a country or a city"):
			return "city", nil
		case strings.Contains(prompt, "airport IATA codes"):
			return `{"source_code":"PNQ","destination_code":"GOI"}`, nil
		case strings.Contains(prompt, "intent router"):
			return "travel", nil
		default:
			t.Fatalf("unexpected classify prompt:\n%s", prompt)
			return "", nil
		}
	}
}

// memCache is an in-memory SearchCache.
type memCache struct {
	flights map[string]map[string]model.Flight
	hotels  map[string]map[string]model.Hotel
}

func newMemCache() *memCache {
	return &memCache{
		flights: map[string]map[string]model.Flight{},
		hotels:  map[string]map[string]model.Hotel{},
	}
}

func (c *memCache) GetFlights(ctx context.Context, key string) (map[string]model.Flight, bool, error) {
	v, ok := c.flights[key]
	return v, ok, nil
}

func (c *memCache) SetFlights(ctx context.Context, key string, flights map[string]model.Flight) error {
	c.flights[key] = flights
	return nil
}

func (c *memCache) GetHotels(ctx context.Context, key string) (map[string]model.Hotel, bool, error) {
	v, ok := c.hotels[key]
	return v, ok, nil
}

func (c *memCache) SetHotels(ctx context.Context, key string, hotels map[string]model.Hotel) error {
	c.hotels[key] = hotels
	return nil
}

type fakeFlightSearcher struct {
	results []model.Flight
	err     error
	calls   int
}

func (f *fakeFlightSearcher) SearchFlights(ctx context.Context, q model.FlightQuery) ([]model.Flight, error) {
	f.calls++
	return f.results, f.err
}

type fakeHotelSearcher struct {
	results []model.Hotel
	err     error
	calls   int
}

func (f *fakeHotelSearcher) SearchHotels(ctx context.Context, q model.HotelQuery) ([]model.Hotel, error) {
	f.calls++
	return f.results, f.err
}

type fakeWeatherProvider struct {
	report *model.WeatherReport
	err    error
}

func (f *fakeWeatherProvider) CurrentWeather(ctx context.Context, city string) (*model.WeatherReport, error) {
	return f.report, f.err
}

type fakeWebSearcher struct {
	result string
	err    error
}

func (f *fakeWebSearcher) SearchWeb(ctx context.Context, query string) (string, error) {
	return f.result, f.err
}

type testDeps struct {
	completer *fakeCompleter
	cache     *memCache
	flights   *fakeFlightSearcher
	hotels    *fakeHotelSearcher
	weather   *fakeWeatherProvider
	web       *fakeWebSearcher
}

var sampleFlights = []model.Flight{
	{Airline: "IndiGo", Price: "₹4500", DepartureAirport: "PNQ", DepartureTime: "08:10", ArrivalAirport: "GOI", ArrivalTime: "09:25", Duration: "75"},
	{Airline: "Air India", Price: "₹5200", DepartureAirport: "PNQ", DepartureTime: "13:40", ArrivalAirport: "GOI", ArrivalTime: "14:55", Duration: "75"},
}

var sampleHotels = []model.Hotel{
	{Name: "Beach Stay", Price: "₹2800", Rating: 4.2, Amenities: []string{"wifi", "pool"}},
	{Name: "Palm Grove", Price: "₹3600", Rating: 4.6},
}

func newTestNodes(t *testing.T) (*Nodes, *testDeps) {
	t.Helper()
	d := &testDeps{
		completer: &fakeCompleter{t: t, classifyFn: plannerClassify(t)},
		cache:     newMemCache(),
		flights:   &fakeFlightSearcher{results: sampleFlights},
		hotels:    &fakeHotelSearcher{results: sampleHotels},
		weather:   &fakeWeatherProvider{report: &model.WeatherReport{City: "Goa", Temperature: 29.5, Unit: "Celsius", Wind: model.Wind{Speed: 3.1}}},
		web:       &fakeWebSearcher{result: "Top result: the best beaches in Goa."},
	}
	n := New(Deps{
		Completer: d.completer,
		Cache:     d.cache,
		Flights:   d.flights,
		Hotels:    d.hotels,
		Weather:   d.weather,
		WebSearch: d.web,
	})
	return n, d
}

// tripState builds a state with all travel slots filled and the given text
// as the latest human message.
func tripState(lastHuman string) *model.DialogueState {
	s := model.NewDialogueState("u1", "sess1")
	s.Destination = "Goa"
	s.Source = "Pune"
	s.StartDate = "2026-02-01"
	s.EndDate = "2026-02-05"
	s.Duration = 5
	if lastHuman != "" {
		s.AppendHuman(lastHuman)
	}
	return s
}
