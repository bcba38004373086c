package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client talks to the hosted conversational agent. Responses are raw text
// streams with no framing, so both methods hand the body back to the caller
// for incremental consumption. No client timeout: streams stay open until the
// agent closes them or the request context is cancelled.
type Client struct {
	client   *http.Client
	endpoint string
}

func NewClient(endpoint string) *Client {
	return &Client{
		client:   &http.Client{},
		endpoint: endpoint,
	}
}

const runIDHeader = "X-Run-Id"

type turnRequest struct {
	Message string `json:"message"`
}

// Start opens a conversation with the given context message. The returned run
// id addresses subsequent turns; the caller owns the stream and must close it.
func (c *Client) Start(ctx context.Context, message string) (string, io.ReadCloser, error) {
	resp, err := c.post(ctx, http.MethodPost, c.endpoint, message)
	if err != nil {
		return "", nil, err
	}

	runID := resp.Header.Get(runIDHeader)
	if runID == "" {
		resp.Body.Close()
		return "", nil, fmt.Errorf("agent response missing %s header", runIDHeader)
	}

	return runID, resp.Body, nil
}

// Send adds a turn to an existing conversation.
func (c *Client) Send(ctx context.Context, runID, message string) (io.ReadCloser, error) {
	resp, err := c.post(ctx, http.MethodPut, c.endpoint+"/"+runID, message)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

func (c *Client) post(ctx context.Context, method, url, message string) (*http.Response, error) {
	payload, err := json.Marshal(turnRequest{Message: message})
	if err != nil {
		return nil, fmt.Errorf("encoding turn request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code %d from agent", resp.StatusCode)
	}

	return resp, nil
}
