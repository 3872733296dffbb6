// Package faucet provides a client for the devnet faucet service.
package faucet

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// defaultTimeout bounds the faucet HTTP call.
const defaultTimeout = 30 * time.Second

// Client is an HTTP client for a faucet endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a faucet client targeting the given base URL.
func New(baseURL string) *Client {
	return NewWithTimeout(baseURL, defaultTimeout)
}

// NewWithTimeout creates a faucet client with a custom HTTP timeout.
func NewWithTimeout(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// Mint asks the faucet to credit the given address with amount octas and
// returns the faucet's raw response body. Any non-success status is an error
// carrying the status code and body.
func (c *Client) Mint(address string, amount uint64) (string, error) {
	mintURL := fmt.Sprintf("%s/mint?amount=%d&address=%s",
		c.baseURL, amount, url.QueryEscape(address))

	resp, err := c.http.Post(mintURL, "", nil)
	if err != nil {
		return "", fmt.Errorf("faucet request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read faucet response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("faucet error %d: %s", resp.StatusCode, string(body))
	}

	return string(body), nil
}
