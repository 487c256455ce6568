package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	svix "github.com/svix/svix-webhooks/go"
	"go.uber.org/zap"
)

const (
	headerSvixID        = "svix-id"
	headerSvixSignature = "svix-signature"
	headerSvixTimestamp = "svix-timestamp"

	// maxBodyBytes caps the webhook body; anything past it fails verification.
	maxBodyBytes = 1 << 20
)

// ErrMissingWebhookSecret is returned when the handler is built without a signing secret
var ErrMissingWebhookSecret = errors.New("webhook secret is required")

// WebhookHandler verifies Clerk webhooks and syncs created users
type WebhookHandler struct {
	wh     *svix.Webhook
	syncer UserSyncer
}

// NewWebhookHandler creates a handler that verifies Svix signatures with secret
func NewWebhookHandler(secret string, syncer UserSyncer) (*WebhookHandler, error) {
	if secret == "" {
		return nil, ErrMissingWebhookSecret
	}

	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook secret: %w", err)
	}

	return &WebhookHandler{
		wh:     wh,
		syncer: syncer,
	}, nil
}

// VerifySignature rejects requests that do not carry a valid Svix signature
func (h *WebhookHandler) VerifySignature(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		svixID := r.Header.Get(headerSvixID)
		svixSignature := r.Header.Get(headerSvixSignature)
		svixTimestamp := r.Header.Get(headerSvixTimestamp)
		if svixID == "" || svixSignature == "" || svixTimestamp == "" {
			logger.Warn("Missing svix headers")
			writeText(w, http.StatusBadRequest, "Missing svix headers")
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			logger.Error("Failed to read request body", zap.Error(err))
			writeText(w, http.StatusInternalServerError, "Failed to read request body")
			return
		}
		defer r.Body.Close()

		// Restore body for next handler
		r.Body = io.NopCloser(bytes.NewBuffer(body))

		if err := h.wh.Verify(body, r.Header); err != nil {
			logger.Warn("Error verifying webhook",
				zap.String("svixId", svixID),
				zap.Error(err))
			writeText(w, http.StatusBadRequest, "Invalid signature")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// HandleClerkEvent processes a verified Clerk webhook event
func (h *WebhookHandler) HandleClerkEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read request body", zap.Error(err))
		writeText(w, http.StatusInternalServerError, "Failed to read request body")
		return
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		logger.Error("Failed to decode event", zap.Error(err))
		writeText(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	logger.Info("Clerk event received", zap.String("type", event.Type))

	switch event.Type {
	case EventTypeUserCreated:
		if err := h.handleUserCreated(r, event.Data); err != nil {
			logger.Error("Error syncing user", zap.Error(err))
			writeText(w, http.StatusInternalServerError, "Error syncing user")
			return
		}
	default:
		logger.Debug("Ignoring unhandled event type", zap.String("type", event.Type))
	}

	writeText(w, http.StatusOK, "Webhook received")
}

// handleUserCreated forwards a created user to the syncer
func (h *WebhookHandler) handleUserCreated(r *http.Request, data json.RawMessage) error {
	var d UserCreatedData
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("unmarshal user data: %w", err)
	}

	req := d.SyncRequest()
	if err := h.syncer.SyncUser(r.Context(), req); err != nil {
		return fmt.Errorf("sync user %s: %w", req.ClerkID, err)
	}

	return nil
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
