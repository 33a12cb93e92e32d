// Package registration submits the device public key to the provider and
// validates the address assignment it returns.
package registration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"go4.org/netipx"
)

const defaultRegisterURL = "https://api.mullvad.net/wg"

// Error carries the provider's rejection text verbatim.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return "registration rejected: " + e.Message
}

// HTTPDoer allows tests to stub HTTP transport.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client registers public keys against the provider API.
type Client struct {
	url    string
	client HTTPDoer
}

// NewClient creates a registration client. A nil doer uses a default HTTP client.
func NewClient(doer HTTPDoer) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{url: defaultRegisterURL, client: doer}
}

// RegisterKey submits account + publicKey and returns the assigned address
// string, e.g. "10.99.1.2/32,fc00:bbbb:bbbb:bb01::1:2/128".
//
// The provider answers with either an address assignment or an opaque error
// sentence in the same 200 response, so the body is classified by shape: only
// the assignment charset (hex digits, ':', '/', '.', ',') is accepted, and the
// accepted text must still parse as at least one valid prefix.
func (c *Client) RegisterKey(ctx context.Context, account, publicKey string) (string, error) {
	form := url.Values{}
	form.Set("account", account)
	form.Set("pubkey", publicKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("registration request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("read registration response: %w", err)
	}
	text := strings.TrimSpace(string(body))

	if !assignmentCharset(text) {
		return "", &Error{Message: text}
	}
	if err := validateAssignment(text); err != nil {
		return "", fmt.Errorf("unusable address assignment %q: %w", text, err)
	}
	return text, nil
}

// assignmentCharset reports whether every rune belongs to the address
// assignment alphabet.
func assignmentCharset(text string) bool {
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		case r == ':' || r == '/' || r == '.' || r == ',':
		default:
			return false
		}
	}
	return true
}

// validateAssignment parses the comma-separated prefixes and requires a
// non-empty resulting address set.
func validateAssignment(text string) error {
	var builder netipx.IPSetBuilder
	count := 0
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(part)
		if err != nil {
			return err
		}
		builder.AddPrefix(prefix)
		count++
	}
	if count == 0 {
		return fmt.Errorf("no addresses assigned")
	}
	set, err := builder.IPSet()
	if err != nil {
		return err
	}
	if len(set.Prefixes()) == 0 {
		return fmt.Errorf("empty address set")
	}
	return nil
}
