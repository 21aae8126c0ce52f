// Package mailer sends notification emails through an HTTP mail API. It is
// the transport behind the expiry Notifier port.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/smartmeal/pantry-service/pkg/apperr"
)

type Config struct {
	Endpoint string
	APIKey   string
	Sender   string
}

type Client struct {
	cfg    Config
	client *http.Client
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
	Error     string `json:"error"`
}

func New(cfg Config) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Send posts the message and returns the provider's message id as the
// delivery receipt.
func (c *Client) Send(ctx context.Context, recipient, subject, body string) (string, error) {
	payload, err := json.Marshal(sendRequest{
		From:    c.cfg.Sender,
		To:      recipient,
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "marshal mail request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "create mail request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "call mail API", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "read mail API response", err)
	}

	var decoded sendResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(respBody, &decoded) == nil && decoded.Error != "" {
			return "", apperr.Newf(apperr.CodeInternal, "mail API error (%d): %s", resp.StatusCode, decoded.Error)
		}
		return "", apperr.Newf(apperr.CodeInternal, "mail API error (%d)", resp.StatusCode)
	}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "parse mail API response", err)
	}

	return decoded.MessageID, nil
}
