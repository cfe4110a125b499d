package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
)

// Route identifies the next node to execute, or the terminal sentinel that
// ends the turn.
type Route string

const (
	// RouteEnd is the terminal sentinel. A node that wants to await user
	// input sets its suspend flag and returns RouteEnd; the router resumes
	// the right node on the next turn.
	RouteEnd Route = "__end__"

	RouteRouter          Route = "router"
	RouteTravelIntent    Route = "travel_intent"
	RouteSlotCollector   Route = "collect_missing_travel_info"
	RouteConfirmation    Route = "confirmation"
	RouteFlightSearch    Route = "flight_search"
	RouteFlightSelection Route = "flight_selection"
	RouteHotelSearch     Route = "hotel_search"
	RouteHotelInfo       Route = "hotel_info"
	RouteHotelSelection  Route = "hotel_selection"
	RouteItinerary       Route = "itinerary"
	RouteChat            Route = "chat"
	RouteWeatherTool     Route = "weather_tool"
	RouteSearchTool      Route = "search_tool"
)

// SuspendFlag names one of the awaiting_* fields that mark the workflow as
// paused pending a specific kind of user answer.
type SuspendFlag string

const (
	SuspendNone                 SuspendFlag = ""
	SuspendField                SuspendFlag = "awaiting_field"
	SuspendConfirmation         SuspendFlag = "awaiting_confirmation"
	SuspendDestinationCity      SuspendFlag = "awaiting_destination_city"
	SuspendAirportClarification SuspendFlag = "awaiting_airport_clarification"
)

// ISODate is the wire format for all trip dates.
const ISODate = "2006-01-02"

// TripSlots holds the extracted travel details for one trip.
type TripSlots struct {
	Destination string `json:"destination,omitempty"`
	Source      string `json:"source,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Duration    int    `json:"duration,omitempty"`

	// DestinationChecked marks that the destination has been through the
	// country-vs-city classification this session.
	DestinationChecked bool `json:"destination_checked,omitempty"`
}

// FlightState holds the flight search result set and the user's selection.
type FlightState struct {
	AvailableFlights     map[string]Flight `json:"available_flights,omitempty"`
	SelectedFlight       *Flight           `json:"selected_flight,omitempty"`
	SelectedFlightNumber string            `json:"selected_flight_number,omitempty"`
	FlightsProcessed     bool              `json:"flights_processed,omitempty"`
	FlightPreference     string            `json:"flight_type,omitempty"`
}

// HotelState holds the accommodation sub-dialog slots and results.
type HotelState struct {
	AccommodationGuests   int              `json:"accommodation_guests,omitempty"`
	AccommodationAreaType string           `json:"accommodation_area_type,omitempty"`
	AvailableHotels       map[string]Hotel `json:"available_hotels,omitempty"`
	SelectedHotel         *Hotel           `json:"selected_hotel,omitempty"`
	SelectedHotelNumber   string           `json:"selected_hotel_number,omitempty"`
	HotelsProcessed       bool             `json:"hotels_processed,omitempty"`
}

// Control holds routing and suspend bookkeeping.
type Control struct {
	Route         Route    `json:"route,omitempty"`
	MissingFields []string `json:"missing_fields,omitempty"`

	AwaitingField                string `json:"awaiting_field,omitempty"`
	AwaitingConfirmation         bool   `json:"awaiting_confirmation,omitempty"`
	AwaitingDestinationCity      bool   `json:"awaiting_destination_city,omitempty"`
	AwaitingAirportClarification bool   `json:"awaiting_airport_clarification,omitempty"`

	// Disambiguation scratch, populated only while AwaitingDestinationCity.
	OriginalDestination string `json:"original_destination,omitempty"`
	SuggestedCity       string `json:"suggested_city,omitempty"`
}

// DialogueState is the serializable record of one (user, session)
// conversation. It is read once at turn start and written once at turn end;
// two concurrent turns on the same session race last-write-wins.
type DialogueState struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`

	Messages        Messages `json:"messages"`
	LastUserMessage string   `json:"last_user_message,omitempty"`

	TripSlots
	Control
	FlightState
	HotelState

	ItineraryGenerated bool `json:"itinerary_generated,omitempty"`
}

// NewDialogueState creates the empty first-turn state for a (user, session)
// pair, entering at the router.
func NewDialogueState(userID, sessionID string) *DialogueState {
	return &DialogueState{
		UserID:    userID,
		SessionID: sessionID,
		Messages:  Messages{},
		Control:   Control{Route: RouteRouter},
	}
}

// AppendHuman appends a user message and denormalizes LastUserMessage.
func (s *DialogueState) AppendHuman(content string) {
	s.Messages = append(s.Messages, schema.UserMessage(content))
	s.LastUserMessage = content
}

// AppendAssistant appends an assistant message.
func (s *DialogueState) AppendAssistant(content string) {
	s.Messages = append(s.Messages, schema.AssistantMessage(content, nil))
}

// AppendMessage appends an arbitrary message.
func (s *DialogueState) AppendMessage(m *schema.Message) {
	s.Messages = append(s.Messages, m)
}

// LastMessage returns the most recent message, or nil on an empty history.
func (s *DialogueState) LastMessage() *schema.Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return s.Messages[len(s.Messages)-1]
}

// LastMessageIsHuman reports whether the most recent message is a human
// message. Nodes use this to tell a resumed answer apart from a cascade
// entry within the same turn.
func (s *DialogueState) LastMessageIsHuman() bool {
	m := s.LastMessage()
	return m != nil && m.Role == schema.User
}

// Suspend sets exactly one suspend flag, clearing the others. field is only
// meaningful for SuspendField.
func (s *DialogueState) Suspend(flag SuspendFlag, field string) {
	s.AwaitingField = ""
	s.AwaitingConfirmation = false
	s.AwaitingDestinationCity = false
	s.AwaitingAirportClarification = false

	switch flag {
	case SuspendField:
		s.AwaitingField = field
	case SuspendConfirmation:
		s.AwaitingConfirmation = true
	case SuspendDestinationCity:
		s.AwaitingDestinationCity = true
	case SuspendAirportClarification:
		s.AwaitingAirportClarification = true
	}
}

// ClearSuspend clears all suspend flags.
func (s *DialogueState) ClearSuspend() {
	s.Suspend(SuspendNone, "")
}

// ActiveSuspendFlags lists the truthy awaiting_* fields.
func (s *DialogueState) ActiveSuspendFlags() []SuspendFlag {
	var flags []SuspendFlag
	if s.AwaitingField != "" {
		flags = append(flags, SuspendField)
	}
	if s.AwaitingConfirmation {
		flags = append(flags, SuspendConfirmation)
	}
	if s.AwaitingDestinationCity {
		flags = append(flags, SuspendDestinationCity)
	}
	if s.AwaitingAirportClarification {
		flags = append(flags, SuspendAirportClarification)
	}
	return flags
}

// Validate enforces the structural invariants the executor checks after
// every node execution.
func (s *DialogueState) Validate() error {
	if flags := s.ActiveSuspendFlags(); len(flags) > 1 {
		return fmt.Errorf("multiple suspend flags set: %v", flags)
	}
	if s.Route == "" {
		return fmt.Errorf("route is empty")
	}
	if s.StartDate != "" && s.EndDate != "" && s.Duration > 0 {
		want, err := TripDuration(s.StartDate, s.EndDate)
		if err != nil {
			return fmt.Errorf("trip dates: %w", err)
		}
		if want != s.Duration {
			return fmt.Errorf("duration %d does not match dates %s..%s", s.Duration, s.StartDate, s.EndDate)
		}
	}
	return nil
}

// ParseISODate validates and parses a YYYY-MM-DD date string.
func ParseISODate(v string) (time.Time, error) {
	t, err := time.Parse(ISODate, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", v, err)
	}
	return t, nil
}

// TripDuration computes the inclusive trip length in days. An end date
// before the start date is an error and must not be stored.
func TripDuration(startDate, endDate string) (int, error) {
	start, err := ParseISODate(startDate)
	if err != nil {
		return 0, err
	}
	end, err := ParseISODate(endDate)
	if err != nil {
		return 0, err
	}
	if end.Before(start) {
		return 0, fmt.Errorf("end date %s is before start date %s", endDate, startDate)
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}
