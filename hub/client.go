// Package hub pushes reading batches to the upstream collector.
package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/alepar/airnode/envsense"
)

const requestTimeout = 5 * time.Second

type Client struct {
	pushURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("hub url is required")
	}
	return &Client{
		pushURL: strings.TrimRight(baseURL, "/") + "/push",
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}, nil
}

// Push sends the readings as a bare JSON array; the hub expects no envelope.
func (c *Client) Push(ctx context.Context, readings []envsense.Reading) error {
	payload, err := json.Marshal(readings)
	if err != nil {
		return errors.Wrap(err, "marshal readings")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pushURL, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build push request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "push to hub")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Errorf("hub returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
