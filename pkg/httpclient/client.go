package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
)

type HttpClient struct {
	client *http.Client
}

func NewHttpClient(timeout time.Duration) *HttpClient {
	return &HttpClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetJSON issues a GET with the bearer token (when non-empty) and decodes a
// 2xx response body into out.
func (h *HttpClient) GetJSON(ctx context.Context, url, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return h.doJSON(req, out)
}

// PostJSON issues a POST with a JSON body and decodes a 2xx response body
// into out. out may be nil when the response body does not matter.
func (h *HttpClient) PostJSON(ctx context.Context, url, token string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return errors.Wrap(err, "failed to encode request body")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return h.doJSON(req, out)
}

func (h *HttpClient) doJSON(req *http.Request, out interface{}) error {
	resp, err := h.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Error bodies carry {"error": "..."}; fall back to the status.
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
			return errors.New(payload.Error)
		}
		return errors.Newf("unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "failed to decode response body")
	}
	return nil
}
