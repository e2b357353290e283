package mint

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Info describes the mint as reported by its /v1/info endpoint.
type Info struct {
	Name            string           `json:"name"`
	Pubkey          string           `json:"pubkey"`
	Version         string           `json:"version"`
	Description     string           `json:"description"`
	DescriptionLong string           `json:"description_long,omitempty"`
	Motd            string           `json:"motd,omitempty"`
	Nuts            json.RawMessage  `json:"nuts,omitempty"`
	Contact         []map[string]any `json:"contact,omitempty"`
}

// InfoClient fetches descriptive metadata from the mint. This is a plain
// read-only passthrough, not part of the wallet protocol.
type InfoClient struct {
	baseURL string
	client  *http.Client
}

// NewInfoClient builds an info client for the mint at baseURL.
func NewInfoClient(baseURL string) *InfoClient {
	return &InfoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Info retrieves the mint's public metadata.
func (c *InfoClient) Info(ctx context.Context) (Info, error) {
	if c.baseURL == "" {
		return Info{}, fmt.Errorf("%w: mint url not configured", ErrUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/info", nil)
	if err != nil {
		return Info{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Info{}, fmt.Errorf("%w: mint info returned %d", ErrUnavailable, resp.StatusCode)
	}

	var info Info
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return Info{}, fmt.Errorf("decode mint info: %w", err)
	}
	return info, nil
}
