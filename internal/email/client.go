package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the mail relay. One request per message, no retries: the
// notification engine treats a failed send as a lost nicety, not an error.
type Client struct {
	client   *http.Client
	relayURL string
	apiKey   string
	sender   string
}

func NewClient(relayURL, apiKey, sender string) *Client {
	return &Client{
		client:   &http.Client{Timeout: 30 * time.Second},
		relayURL: relayURL,
		apiKey:   apiKey,
		sender:   sender,
	}
}

type sendRequest struct {
	From        string `json:"from,omitempty"`
	To          string `json:"to"`
	Subject     string `json:"subject"`
	HTMLContent string `json:"htmlContent"`
}

type sendResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

func (c *Client) Send(ctx context.Context, to, subject, htmlContent string) error {
	payload, err := json.Marshal(sendRequest{
		From:        c.sender,
		To:          to,
		Subject:     subject,
		HTMLContent: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("encoding send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.relayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	var decoded sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status code %d from mail relay", resp.StatusCode)
		}

		return fmt.Errorf("decoding relay response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if decoded.Details != "" {
			return fmt.Errorf("mail relay rejected message: %s (%s)", decoded.Error, decoded.Details)
		}

		return fmt.Errorf("mail relay rejected message: %s", decoded.Error)
	}

	return nil
}
