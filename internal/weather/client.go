package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"weatherapp/internal/models"
)

// DefaultBaseURL is the weatherapi.com v1 endpoint root.
const DefaultBaseURL = "https://api.weatherapi.com/v1"

const (
	currentPath  = "/current.json"
	maxBodyBytes = 1 << 20 // 1 MB
)

var (
	ErrMissingAPIKey     = errors.New("weather API key is not configured")
	errMalformedResponse = errors.New("malformed weather response: missing location")
)

// Client fetches current conditions from weatherapi.com.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client with an explicit timeout instead of http.DefaultClient.
// An empty baseURL falls back to DefaultBaseURL.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchCurrent issues one GET for the current weather in city.
func (c *Client) FetchCurrent(ctx context.Context, city string) (models.WeatherData, error) {
	if c.apiKey == "" {
		return models.WeatherData{}, ErrMissingAPIKey
	}

	u, err := url.Parse(c.baseURL + currentPath)
	if err != nil {
		return models.WeatherData{}, fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	q.Set("q", city)
	q.Set("aqi", "no")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.WeatherData{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.WeatherData{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxBodyBytes)

	if resp.StatusCode != http.StatusOK {
		var env errorEnvelope
		if err := json.NewDecoder(body).Decode(&env); err != nil || env.Error.Message == "" {
			return models.WeatherData{}, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return models.WeatherData{}, &APIError{
			StatusCode: resp.StatusCode,
			Code:       env.Error.Code,
			Message:    env.Error.Message,
		}
	}

	var data models.WeatherData
	if err := json.NewDecoder(body).Decode(&data); err != nil {
		return models.WeatherData{}, fmt.Errorf("decode response: %w", err)
	}
	if data.Location.Name == "" {
		return models.WeatherData{}, errMalformedResponse
	}
	return data, nil
}
