// File: internal/infrastructure/notification/client.go
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Template names understood by the notification service.
const (
	TemplateNewSessionAlert   = "new-session-alert"
	TemplateEmailConfirmation = "email-confirmation"
	TemplatePasswordReset     = "password-reset"
)

// NewSessionAlertData is the payload of a new-session alert email.
type NewSessionAlertData struct {
	Name      string `json:"name"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Device    string `json:"device"`
	Browser   string `json:"browser"`
	IPAddress string `json:"ipAddress"`
}

// EmailConfirmationData carries the confirmation code for a new account.
type EmailConfirmationData struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// PasswordResetData carries the reset code for a forgot-password request.
type PasswordResetData struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Sender delivers templated emails through the notification service.
type Sender interface {
	Send(ctx context.Context, to, template string, data any) error
}

// Client is the HTTP implementation of Sender.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a notification client. timeout bounds each request so
// a slow notification service cannot hold up callers.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type emailRequest struct {
	To       string `json:"to"`
	Template string `json:"template"`
	Data     any    `json:"data"`
}

// Send posts one templated email request.
func (c *Client) Send(ctx context.Context, to, template string, data any) error {
	body, err := json.Marshal(emailRequest{To: to, Template: template, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal notification request: %w", err)
	}

	url := c.baseURL + "/v1/notifications/email"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}
	c.logger.Debug("notification sent", zap.String("template", template))
	return nil
}

var _ Sender = (*Client)(nil)
