// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"deadline_notification_bot/internal/domain/notification"
	domainTelegram "deadline_notification_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const (
	DefaultAPIURL = "https://api.telegram.org"
	pollTimeout   = 10 * time.Second
)

// apiResponse is the envelope every Bot API method answers with.
type apiResponse struct {
	Ok          bool            `json:"ok"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// BotSettings builds telebot settings for the given token. Offline bots skip
// the getMe handshake and are only used to send.
func BotSettings(token, apiURL string, timeout time.Duration, offline bool, logger *logrus.Entry) telebot.Settings {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	pref := telebot.Settings{
		URL:     strings.TrimRight(apiURL, "/"),
		Token:   token,
		Offline: offline,
		// Long polling holds the connection open for pollTimeout.
		Client: &http.Client{Timeout: timeout + pollTimeout},
		OnError: func(err error, c telebot.Context) { // Global error handler
			logCtx := logger.WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				logCtx = logCtx.WithFields(logrus.Fields{
					"message":   c.Text(),
					"sender_id": c.Sender().ID,
					"chat_id":   c.Chat().ID,
				})
			}
			logCtx.Error("Telebot error")
		},
	}
	if !offline {
		pref.Poller = &telebot.LongPoller{Timeout: pollTimeout}
	}
	return pref
}

// NewBot creates a polling bot. When the startup handshake fails the bot is
// recreated offline so outbound sends keep working; polling reports false.
func NewBot(token, apiURL string, timeout time.Duration, logger *logrus.Entry) (b *telebot.Bot, polling bool, err error) {
	if token == "" {
		return nil, false, notification.ErrMissingCredential
	}
	b, err = telebot.NewBot(BotSettings(token, apiURL, timeout, false, logger))
	if err == nil {
		return b, true, nil
	}
	logger.WithError(err).Warn("Telegram handshake failed, continuing without polling")
	b, err = telebot.NewBot(BotSettings(token, apiURL, timeout, true, logger))
	return b, false, err
}

// TelebotAdapter implements the gateway Client on top of telebot's raw Bot API
// access, so that every failure can be classified from the API envelope.
type TelebotAdapter struct {
	bot     *telebot.Bot // nil when no token is configured
	apiURL  string
	timeout time.Duration
}

var _ domainTelegram.Client = (*TelebotAdapter)(nil)

func NewTelebotAdapter(b *telebot.Bot, apiURL string, timeout time.Duration) *TelebotAdapter {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &TelebotAdapter{bot: b, apiURL: apiURL, timeout: timeout}
}

type sendMessagePayload struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// SendMessage makes exactly one sendMessage call with HTML parse mode.
func (tba *TelebotAdapter) SendMessage(ctx context.Context, chatID string, text string) error {
	if tba.bot == nil {
		return notification.ErrMissingCredential
	}

	_, err := tba.call(ctx, "sendMessage", sendMessagePayload{
		ChatID:                chatID,
		Text:                  text,
		ParseMode:             string(telebot.ModeHTML),
		DisableWebPagePreview: true,
	})
	return err
}

// Diagnose reports whether a token is set and whether getMe succeeds with it.
func (tba *TelebotAdapter) Diagnose(ctx context.Context) domainTelegram.Diagnostics {
	report := domainTelegram.Diagnostics{
		TokenConfigured: tba.bot != nil,
		APIURL:          tba.apiURL,
		CheckedAt:       time.Now(),
	}
	if tba.bot == nil {
		report.Error = notification.ErrMissingCredential.Error()
		return report
	}

	result, err := tba.call(ctx, "getMe", struct{}{})
	if err != nil {
		report.Error = err.Error()
		return report
	}

	var me struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(result, &me); err != nil {
		report.Error = fmt.Sprintf("unexpected getMe result: %v", err)
		return report
	}
	report.GatewayReachable = true
	report.BotID = me.ID
	report.BotUsername = me.Username
	return report
}

type rawResult struct {
	data []byte
	err  error
}

// call runs one Bot API method and classifies the outcome. telebot's Raw takes
// no context, so the call runs in its own goroutine and is abandoned when ctx
// ends or the gateway timeout passes.
func (tba *TelebotAdapter) call(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	if tba.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, tba.timeout)
		defer cancel()
	}

	done := make(chan rawResult, 1)
	go func() {
		data, err := tba.bot.Raw(method, payload)
		done <- rawResult{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, notification.Upstream(method+": delivery abandoned", ctx.Err())
	case res := <-done:
		return classify(method, res)
	}
}

func classify(method string, res rawResult) (json.RawMessage, error) {
	if len(res.data) == 0 {
		if res.err == nil {
			return nil, notification.Upstream(method+": empty response from gateway", nil)
		}
		return nil, notification.Upstream(method+": gateway unreachable", res.err)
	}

	var resp apiResponse
	if err := json.Unmarshal(res.data, &resp); err != nil {
		return nil, notification.Upstream(method+": undecodable gateway response", err)
	}
	if resp.Ok {
		return resp.Result, nil
	}

	desc := resp.Description
	if desc == "" {
		desc = "no description"
	}
	switch code := resp.ErrorCode; {
	case code == http.StatusUnauthorized, code == http.StatusNotFound:
		// The Bot API answers a bad token with 401, and a malformed one with 404.
		return nil, notification.Misconfigured("%s: gateway refused the bot token (%d): %s", method, code, desc)
	case code == http.StatusTooManyRequests:
		return nil, notification.Upstream(fmt.Sprintf("%s: rate limited: %s", method, desc), res.err)
	case code >= 400 && code < 500:
		return nil, notification.Rejected("%s: gateway rejected the request (%d): %s", method, code, desc)
	default:
		return nil, notification.Upstream(fmt.Sprintf("%s: gateway error (%d): %s", method, code, desc), res.err)
	}
}
