package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"deadline_notification_bot/internal/app"
	"deadline_notification_bot/internal/domain/notification"

	"github.com/sirupsen/logrus"
)

// NotifyHandler serves the delivery and digest endpoints.
type NotifyHandler struct {
	service app.NotificationService
	logger  *logrus.Entry
	now     func() time.Time
}

func NewNotifyHandler(service app.NotificationService, logger *logrus.Entry) *NotifyHandler {
	return &NotifyHandler{
		service: service,
		logger:  logger.WithField("component", "http"),
		now:     time.Now,
	}
}

type sendRequest struct {
	Recipient string `json:"recipient"`
	Text      string `json:"text"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

// Send handles POST /notify/send.
func (h *NotifyHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Recipient == "" || req.Text == "" {
		writeError(w, http.StatusBadRequest, "recipient and text are required")
		return
	}

	if err := h.service.Send(r.Context(), req.Recipient, req.Text); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// Diagnostics handles GET /notify/diagnostics.
func (h *NotifyHandler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Diagnose(r.Context()))
}

type digestResponse struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Soon        int       `json:"soon"`
	Overdue     int       `json:"overdue"`
	OK          int       `json:"ok"`
	Skipped     int       `json:"skipped"`
	Subjects    int       `json:"subjects"`
	GeneratedAt time.Time `json:"generated_at"`
}

func newDigestResponse(d *app.Digest) digestResponse {
	return digestResponse{
		ID:          d.ID,
		Text:        d.Text,
		Soon:        len(d.Aggregation.Soon),
		Overdue:     len(d.Aggregation.Overdue),
		OK:          d.Aggregation.OK,
		Skipped:     d.Aggregation.Skipped,
		Subjects:    d.Aggregation.Subjects,
		GeneratedAt: d.GeneratedAt,
	}
}

// Preview handles GET /digest. Nothing is sent.
func (h *NotifyHandler) Preview(w http.ResponseWriter, r *http.Request) {
	digest, err := h.service.ComposeDigest(r.Context(), h.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newDigestResponse(digest))
}

type digestSendRequest struct {
	Recipient string `json:"recipient"`
}

type deliveryResult struct {
	Recipient string               `json:"recipient"`
	Outcome   notification.Outcome `json:"outcome"`
	Error     string               `json:"error,omitempty"`
}

type digestSendResponse struct {
	OK       bool             `json:"ok"`
	DigestID string           `json:"digest_id"`
	Results  []deliveryResult `json:"results"`
}

// SendDigest handles POST /digest/send. An empty body or recipient sends to
// the configured default recipients. The status is that of the first failed
// delivery, or 200 when every delivery succeeded.
func (h *NotifyHandler) SendDigest(w http.ResponseWriter, r *http.Request) {
	var req digestSendRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	recipients := h.service.DefaultRecipients()
	if rcpt := strings.TrimSpace(req.Recipient); rcpt != "" {
		recipients = []string{rcpt}
	}
	if len(recipients) == 0 {
		writeError(w, http.StatusBadRequest, "recipient is required: no DIGEST_RECIPIENTS configured")
		return
	}

	digest, err := h.service.ComposeDigest(r.Context(), h.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := digestSendResponse{OK: true, DigestID: digest.ID}
	status := http.StatusOK
	for _, recipient := range recipients {
		err := h.service.Send(r.Context(), recipient, digest.Text)
		result := deliveryResult{Recipient: recipient, Outcome: notification.OutcomeOf(err)}
		if err != nil {
			result.Error = err.Error()
			if resp.OK {
				status = statusFor(err)
			}
			resp.OK = false
		}
		resp.Results = append(resp.Results, result)
	}

	h.logger.WithFields(logrus.Fields{
		"digest_id":  digest.ID,
		"recipients": len(recipients),
		"ok":         resp.OK,
	}).Info("Digest send requested over HTTP")
	writeJSON(w, status, resp)
}

// Health handles GET /healthz.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
