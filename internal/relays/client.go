package relays

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultRelayListURL = "https://api.mullvad.net/public/relays/wireguard/v1/"
	// Provider relays all listen on the same WireGuard port.
	defaultRelayPort = 51820
)

// HTTPDoer allows tests to stub HTTP transport.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches the relay directory from the provider API.
type Client struct {
	url    string
	client HTTPDoer
}

type apiRelay struct {
	Hostname  string `json:"hostname"`
	PublicKey string `json:"public_key"`
	IPv4Addr  string `json:"ipv4_addr_in"`
}

type apiCity struct {
	Name   string     `json:"name"`
	Relays []apiRelay `json:"relays"`
}

type apiCountry struct {
	Name   string    `json:"name"`
	Cities []apiCity `json:"cities"`
}

type apiResponse struct {
	Countries []apiCountry `json:"countries"`
}

// NewClient creates a directory client. A nil doer uses a default HTTP client.
func NewClient(doer HTTPDoer) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{url: defaultRelayListURL, client: doer}
}

// Fetch retrieves and flattens the relay directory. The profile code is the
// relay hostname with its "-wireguard" suffix stripped.
func (c *Client) Fetch(ctx context.Context) ([]Relay, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relay list request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("relay list request returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode relay list response: %w", err)
	}

	var list []Relay
	for _, country := range payload.Countries {
		for _, city := range country.Cities {
			for _, relay := range city.Relays {
				list = append(list, Relay{
					Code:      strings.TrimSuffix(relay.Hostname, "-wireguard"),
					Hostname:  relay.Hostname,
					PublicKey: relay.PublicKey,
					IPv4Addr:  relay.IPv4Addr,
					Port:      defaultRelayPort,
					Country:   country.Name,
					City:      city.Name,
				})
			}
		}
	}
	return list, nil
}
