package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/samutthan/internal/domain/weather"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// Client fetches current conditions from Open-Meteo.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(baseURL string) *Client {
	u := strings.TrimSpace(baseURL)
	if u == "" {
		u = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(u, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Current implements weather.Provider.
func (c *Client) Current(ctx context.Context, lat, lon float64) (weather.Reading, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	query.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	query.Set("current", "temperature_2m,weather_code")
	endpoint := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return weather.Reading{}, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return weather.Reading{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return weather.Reading{}, fmt.Errorf("weather request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return weather.Reading{}, fmt.Errorf("decode weather response: %w", err)
	}
	if raw.Current.Temperature == nil {
		return weather.Reading{}, fmt.Errorf("weather response missing temperature")
	}

	reading := weather.Reading{TempC: int(math.Round(*raw.Current.Temperature))}
	if raw.Current.WeatherCode != nil {
		reading.Condition = ConditionFor(*raw.Current.WeatherCode)
	}
	return reading, nil
}

type apiResponse struct {
	Current current `json:"current"`
}

type current struct {
	Temperature *float64 `json:"temperature_2m"`
	WeatherCode *int     `json:"weather_code"`
}

// ConditionFor maps a WMO weather interpretation code to a condition label.
func ConditionFor(code int) string {
	switch {
	case code == 0 || code == 1:
		return "Sunny"
	case code == 2 || code == 3:
		return "Cloudy"
	case code == 45 || code == 48:
		return "Foggy"
	case code >= 51 && code <= 67, code >= 80 && code <= 82:
		return "Rainy"
	case code >= 71 && code <= 77, code == 85 || code == 86:
		return "Snowy"
	case code >= 95:
		return "Stormy"
	default:
		return ""
	}
}

var _ weather.Provider = (*Client)(nil)
