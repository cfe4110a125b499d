package model

// Flight is one flight option presented for numeric selection.
type Flight struct {
	Airline          string `json:"airline"`
	Price            string `json:"price"`
	DepartureAirport string `json:"departure_airport"`
	DepartureTime    string `json:"departure_time"`
	ArrivalAirport   string `json:"arrival_airport"`
	ArrivalTime      string `json:"arrival_time"`
	Duration         string `json:"duration,omitempty"`
}

// Hotel is one accommodation option presented for numeric selection.
type Hotel struct {
	Name      string   `json:"name"`
	Price     string   `json:"price"`
	Rating    float64  `json:"rating,omitempty"`
	Location  string   `json:"location,omitempty"`
	Amenities []string `json:"amenities,omitempty"`
}

// FlightQuery carries the resolved lookup parameters for a flight search.
type FlightQuery struct {
	Source      string
	Destination string
	StartDate   string
	EndDate     string
	Preference  string // "cheapest" (default) or "best"
}

// HotelQuery carries the lookup parameters for a hotel search.
type HotelQuery struct {
	City     string
	CheckIn  string
	CheckOut string
	Guests   int
}

// Wind describes wind conditions in a weather report.
type Wind struct {
	Speed     float64 `json:"speed"`
	Direction float64 `json:"direction"`
}

// WeatherReport is the current weather for a city.
type WeatherReport struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	Unit        string  `json:"unit"`
	Wind        Wind    `json:"wind"`
}
