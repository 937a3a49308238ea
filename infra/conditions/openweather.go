package conditions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherClient fetches current cloud cover for the site location.
type OpenWeatherClient struct {
	apiKey   string
	lat, lon float64
	baseURL  string
	httpc    *http.Client
}

// NewOpenWeatherClient creates a client for the given key and location.
func NewOpenWeatherClient(apiKey string, lat, lon float64) *OpenWeatherClient {
	return &OpenWeatherClient{
		apiKey:  apiKey,
		lat:     lat,
		lon:     lon,
		baseURL: openWeatherBaseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

type openWeatherResponse struct {
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
}

// CloudCover returns the current cloud cover percentage at the site.
func (c *OpenWeatherClient) CloudCover(ctx context.Context) (float64, error) {
	url := fmt.Sprintf("%s/weather?lat=%f&lon=%f&appid=%s&units=metric",
		c.baseURL, c.lat, c.lon, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}
	var out openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	return out.Clouds.All, nil
}
