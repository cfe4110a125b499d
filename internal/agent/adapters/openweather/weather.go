// Package openweather implements the weather lookup on the OpenWeatherMap
// current-weather endpoint.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tripflow/server/internal/agent/model"
	logx "github.com/tripflow/server/pkg/logger"
)

const baseURL = "https://api.openweathermap.org/data/2.5/weather"

type Client struct {
	apiKey string
	http   *http.Client
}

func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey: apiKey,
		http:   &http.Client{Timeout: timeout},
	}
}

type weatherResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
}

// CurrentWeather fetches metric-unit current weather for a city.
func (c *Client) CurrentWeather(ctx context.Context, city string) (*model.WeatherReport, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logx.Error().Int("status", resp.StatusCode).Str("city", city).Msg("weather lookup failed")
		return nil, fmt.Errorf("weather status %d: %s", resp.StatusCode, string(body))
	}

	var data weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("weather decode: %w", err)
	}

	return &model.WeatherReport{
		City:        data.Name,
		Temperature: data.Main.Temp,
		Unit:        "Celsius",
		Wind:        model.Wind{Speed: data.Wind.Speed, Direction: data.Wind.Deg},
	}, nil
}

var _ model.WeatherProvider = (*Client)(nil)
