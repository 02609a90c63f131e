package ableclub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.ableclub.com.tw"

type listEventsResponse struct {
	Events []EventItem `json:"events"`
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches the current snapshot of open events from the AbleClub site.
// The mechanics behind the listing endpoint are the site's concern; callers
// only see the full set of currently listed events.
type Client struct {
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
	baseURL     string
}

func NewClient() *Client {
	return &Client{httpClient: &http.Client{}, baseURL: defaultBaseURL}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetBaseURL(url string) {
	if url != "" {
		c.baseURL = url
	}
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

// FetchEvents returns every event currently listed as open for registration.
func (c *Client) FetchEvents(ctx context.Context) ([]EventItem, error) {

	apiURL := c.baseURL + "/api/events/open"

	body, err := c.sendRequest(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, err
	}

	var eventsResponse listEventsResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&eventsResponse); err != nil {
		return nil, fmt.Errorf("error decoding JSON response: %v", err)
	}

	for _, event := range eventsResponse.Events {
		if event.ID == "" {
			return nil, fmt.Errorf("malformed payload: event without id")
		}
	}

	return eventsResponse.Events, nil
}

func (c *Client) sendRequest(ctx context.Context, method string, url string, body io.Reader) ([]byte, error) {

	if c.rateLimiter != nil {
		err := c.rateLimiter.Wait(ctx)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %v", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %v", err)
	}

	return respBody, nil
}
