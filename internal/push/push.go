package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/subslayer/subslayer/internal/notification"
)

// Client forwards notifications to the push gateway, which fans them out to
// the user's registered devices. The tag lets the platform replace an earlier
// display of the same notification instead of stacking duplicates.
type Client struct {
	client     *http.Client
	gatewayURL string
}

func NewClient(gatewayURL string) *Client {
	return &Client{
		client:     &http.Client{Timeout: 10 * time.Second},
		gatewayURL: gatewayURL,
	}
}

type displayRequest struct {
	UserID string `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Icon   string `json:"icon"`
	Tag    string `json:"tag"`
}

func (c *Client) Display(ctx context.Context, userID string, note notification.PushNote) error {
	payload, err := json.Marshal(displayRequest{
		UserID: userID,
		Title:  note.Title,
		Body:   note.Body,
		Icon:   note.Icon,
		Tag:    note.Tag,
	})
	if err != nil {
		return fmt.Errorf("encoding push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("unexpected status code %d from push gateway", resp.StatusCode)
	}

	return nil
}
