package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultExpoPushURL = "https://exp.host/--/api/v2/push/send"

// ExpoClient sends notifications through the Expo push relay.
type ExpoClient struct {
	url        string
	ttl        time.Duration
	httpClient *http.Client
}

// NewExpoClient creates an Expo relay client. An empty url selects the
// public Expo endpoint. The ttl is advisory and enforced by the relay.
func NewExpoClient(url string, ttl time.Duration) *ExpoClient {
	if url == "" {
		url = DefaultExpoPushURL
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ExpoClient{
		url:        url,
		ttl:        ttl,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type expoPushMessage struct {
	To        string            `json:"to"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	Sound     string            `json:"sound"`
	Priority  string            `json:"priority"`
	Badge     int               `json:"badge,omitempty"`
	ChannelID string            `json:"channelId"`
	TTL       int               `json:"ttl"`
}

type expoPushTicket struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type expoPushResponse struct {
	Data json.RawMessage `json:"data"`
}

// Send posts one message to the relay. Any non-2xx status, unparseable
// response body, or "error" ticket counts as a delivery failure.
func (c *ExpoClient) Send(ctx context.Context, token string, msg Message) error {
	payload := expoPushMessage{
		To:        token,
		Title:     msg.Title,
		Body:      msg.Body,
		Data:      msg.Data,
		Sound:     "default",
		Priority:  "high",
		Badge:     msg.Badge,
		ChannelID: "default",
		TTL:       int(c.ttl.Seconds()),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push relay request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read relay response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push relay returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed expoPushResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return fmt.Errorf("failed to parse relay response: %w", err)
	}

	// The relay answers with one ticket for a single message, or an array
	// when batching. Either shape may report a per-message error.
	var ticket expoPushTicket
	if err := json.Unmarshal(parsed.Data, &ticket); err != nil {
		var tickets []expoPushTicket
		if err := json.Unmarshal(parsed.Data, &tickets); err != nil || len(tickets) == 0 {
			return fmt.Errorf("unexpected relay response: %s", string(respBody))
		}
		ticket = tickets[0]
	}

	if ticket.Status == "error" {
		return fmt.Errorf("push relay rejected message: %s", ticket.Message)
	}
	return nil
}
