package serpapi

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/tripflow/server/internal/agent/model"
	logx "github.com/tripflow/server/pkg/logger"
)

type hotelsResponse struct {
	Properties []hotelProperty `json:"properties"`
}

type hotelProperty struct {
	Name           string   `json:"name"`
	OverallRating  float64  `json:"overall_rating"`
	Amenities      []string `json:"amenities"`
	RatePerNight   rateInfo `json:"rate_per_night"`
	GPSCoordinates struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"gps_coordinates"`
}

type rateInfo struct {
	Lowest          string  `json:"lowest"`
	ExtractedLowest float64 `json:"extracted_lowest"`
}

// SearchHotels queries the google_hotels engine. Results come back sorted
// cheapest-first by the extracted nightly rate.
func (c *Client) SearchHotels(ctx context.Context, q model.HotelQuery) ([]model.Hotel, error) {
	logx.Info().Str("city", q.City).Int("guests", q.Guests).Msg("searching hotels")

	params := url.Values{}
	params.Set("engine", "google_hotels")
	params.Set("q", q.City)
	params.Set("check_in_date", q.CheckIn)
	params.Set("check_out_date", q.CheckOut)
	params.Set("adults", strconv.Itoa(q.Guests))
	params.Set("currency", c.currency)

	var resp hotelsResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}

	props := resp.Properties
	sort.SliceStable(props, func(i, j int) bool {
		return props[i].RatePerNight.ExtractedLowest < props[j].RatePerNight.ExtractedLowest
	})

	hotels := make([]model.Hotel, 0, len(props))
	for _, p := range props {
		price := p.RatePerNight.Lowest
		if price == "" {
			price = "N/A"
		}
		location := ""
		if p.GPSCoordinates.Latitude != 0 || p.GPSCoordinates.Longitude != 0 {
			location = fmt.Sprintf("%.4f,%.4f", p.GPSCoordinates.Latitude, p.GPSCoordinates.Longitude)
		}
		hotels = append(hotels, model.Hotel{
			Name:      p.Name,
			Price:     price,
			Rating:    p.OverallRating,
			Location:  location,
			Amenities: p.Amenities,
		})
	}

	return hotels, nil
}

var _ model.HotelSearcher = (*Client)(nil)
