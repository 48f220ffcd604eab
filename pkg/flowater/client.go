package flowater

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultAPIPrefix = "https://api.meetflo.com/api/v1"

	authPath            = "/users/auth"
	locationsPath       = "/locations/me"
	measurementPathTmpl = "/waterflow/measurement/icd/%s/last_day"
)

// Client talks to the Flo cloud API on behalf of one account. All network
// round trips are blocking; timeout policy comes from the underlying
// http.Client and the caller's context.
type Client struct {
	apiPrefix  string
	username   string
	password   string
	token      string
	httpClient *http.Client
}

func NewClient(apiPrefix, username, password string, timeout time.Duration) (*Client, error) {
	if username == "" || password == "" {
		return nil, errors.New("flo username and password are required")
	}
	if apiPrefix == "" {
		apiPrefix = DefaultAPIPrefix
	}
	return &Client{
		apiPrefix: strings.TrimRight(apiPrefix, "/"),
		username:  username,
		password:  password,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Connect authenticates against the Flo service and stores the session
// token used by subsequent requests.
func (c *Client) Connect(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"username": c.username,
		"password": c.password,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiPrefix+authPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("flo auth failed: %s", strings.TrimSpace(string(payload)))
	}

	var auth struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(payload, &auth); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	if auth.Token == "" {
		return missingField("token")
	}
	c.token = auth.Token
	return nil
}

// IsConnected reports whether a session token is held. It does not probe
// the network.
func (c *Client) IsConnected() bool {
	return c.token != ""
}

// Location resolves a location by id, including its device list.
func (c *Client) Location(ctx context.Context, locationID string) (*Location, error) {
	payload, err := c.Get(ctx, locationsPath)
	if err != nil {
		return nil, err
	}
	var locations []Location
	if err := json.Unmarshal(payload, &locations); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	for i := range locations {
		if locations[i].Id == locationID {
			return &locations[i], nil
		}
	}
	return nil, nil
}

// WaterflowMeasurement returns the latest rolled-up measurement for a device.
func (c *Client) WaterflowMeasurement(ctx context.Context, deviceID string) (*WaterflowMeasurement, error) {
	payload, err := c.Get(ctx, fmt.Sprintf(measurementPathTmpl, deviceID))
	if err != nil {
		return nil, err
	}
	var samples []json.RawMessage
	if err := json.Unmarshal(payload, &samples); err != nil {
		// some firmware rollups return a single object
		return parseMeasurement(payload)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty measurement rollup", ErrMalformedResponse)
	}
	return parseMeasurement(samples[len(samples)-1])
}

// Get performs a raw authenticated GET on an API path.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	if !c.IsConnected() {
		return nil, errors.New("flo client is not connected")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiPrefix+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("flo request %s: %s", path, strings.TrimSpace(string(payload)))
	}
	return payload, nil
}
