package conditions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const electricityMapsBaseURL = "https://api.electricitymap.org/v3"

// ElectricityMapsClient fetches live grid carbon intensity for a zone.
type ElectricityMapsClient struct {
	apiKey  string
	zone    string
	baseURL string
	httpc   *http.Client
}

// NewElectricityMapsClient creates a client for the given key and zone.
func NewElectricityMapsClient(apiKey, zone string) *ElectricityMapsClient {
	return &ElectricityMapsClient{
		apiKey:  apiKey,
		zone:    zone,
		baseURL: electricityMapsBaseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

type carbonIntensityResponse struct {
	CarbonIntensity     float64 `json:"carbonIntensity"`
	Datetime            string  `json:"datetime"`
	FossilFreePct       float64 `json:"fossilFreePercentage"`
	RenewablePercentage float64 `json:"renewablePercentage"`
}

// CarbonIntensity returns the current intensity in gCO2eq/kWh for the zone.
func (c *ElectricityMapsClient) CarbonIntensity(ctx context.Context) (float64, error) {
	url := fmt.Sprintf("%s/carbon-intensity/latest?zone=%s", c.baseURL, c.zone)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("auth-token", c.apiKey)
	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}
	var out carbonIntensityResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	return out.CarbonIntensity, nil
}
