package telegram

import (
	"context"
	"time"
)

// Client is the outbound messaging gateway. SendMessage performs one attempt
// and returns nil, a *notification.RejectedError or a *notification.UpstreamError.
type Client interface {
	SendMessage(ctx context.Context, chatID string, text string) error
	Diagnose(ctx context.Context) Diagnostics
}

// Diagnostics is the gateway status report served to operators.
type Diagnostics struct {
	TokenConfigured   bool      `json:"token_configured"`
	APIURL            string    `json:"api_url"`
	GatewayReachable  bool      `json:"gateway_reachable"`
	BotID             int64     `json:"bot_id,omitempty"`
	BotUsername       string    `json:"bot_username,omitempty"`
	DefaultRecipients []string  `json:"default_recipients"`
	Error             string    `json:"error,omitempty"`
	CheckedAt         time.Time `json:"checked_at"`
}
