package nodes

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tripflow/server/internal/agent/model"
)

// affirmatives is the accepted yes-set for confirmation-style questions.
var affirmatives = map[string]bool{
	"yes":      true,
	"y":        true,
	"ok":       true,
	"proceed":  true,
	"continue": true,
	"sure":     true,
}

func isAffirmative(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(s, "!.")
	return affirmatives[s]
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// flightCacheKey builds the case-folded composite cache key for a flight
// result set.
func flightCacheKey(source, destination, startDate, endDate string) string {
	return strings.ToLower(fmt.Sprintf("%s-%s-%s-%s", source, destination, startDate, endDate))
}

// hotelCacheKey builds the case-folded composite cache key for a hotel
// result set.
func hotelCacheKey(destination, startDate, endDate string) string {
	return strings.ToLower(fmt.Sprintf("%s-%s-%s", destination, startDate, endDate))
}

// enumerateFlights assigns contiguous 1-based string keys, stable for the
// lifetime of one result set.
func enumerateFlights(flights []model.Flight) map[string]model.Flight {
	out := make(map[string]model.Flight, len(flights))
	for i, f := range flights {
		out[strconv.Itoa(i+1)] = f
	}
	return out
}

func enumerateHotels(hotels []model.Hotel) map[string]model.Hotel {
	out := make(map[string]model.Hotel, len(hotels))
	for i, h := range hotels {
		out[strconv.Itoa(i+1)] = h
	}
	return out
}

// orderedKeys returns the selection-map keys in numeric order.
func orderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})
	return keys
}

func renderFlightListing(flights map[string]model.Flight) string {
	var b strings.Builder
	for _, k := range orderedKeys(flights) {
		f := flights[k]
		fmt.Fprintf(&b, "%s. %s — %s, departs %s %s, arrives %s %s", k, f.Airline, f.Price,
			f.DepartureAirport, f.DepartureTime, f.ArrivalAirport, f.ArrivalTime)
		if f.Duration != "" {
			fmt.Fprintf(&b, " (%s min)", f.Duration)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func renderHotelListing(hotels map[string]model.Hotel) string {
	var b strings.Builder
	for _, k := range orderedKeys(hotels) {
		h := hotels[k]
		fmt.Fprintf(&b, "%s. %s — %s", k, h.Name, h.Price)
		if h.Rating > 0 {
			fmt.Fprintf(&b, ", rated %.1f", h.Rating)
		}
		if len(h.Amenities) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(h.Amenities, ", "))
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// tripSummary renders the what-I-understood recap used by several nodes.
func tripSummary(s *model.DialogueState) string {
	var b strings.Builder
	b.WriteString("Here's your trip so far:\n")
	fmt.Fprintf(&b, "- Destination: %s\n", valueOr(s.Destination, "not set"))
	fmt.Fprintf(&b, "- From: %s\n", valueOr(s.Source, "not set"))
	fmt.Fprintf(&b, "- Dates: %s to %s", valueOr(s.StartDate, "?"), valueOr(s.EndDate, "?"))
	if s.Duration > 0 {
		fmt.Fprintf(&b, " (%d days)", s.Duration)
	}
	if s.SelectedFlight != nil {
		fmt.Fprintf(&b, "\n- Flight: %s for %s", s.SelectedFlight.Airline, s.SelectedFlight.Price)
	}
	if s.SelectedHotel != nil {
		fmt.Fprintf(&b, "\n- Hotel: %s", s.SelectedHotel.Name)
	}
	return b.String()
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
