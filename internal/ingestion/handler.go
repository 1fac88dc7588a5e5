package ingestion

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	httperr "github.com/hooksink-lab/hooksink/internal/core/errors"
	"github.com/hooksink-lab/hooksink/internal/core/storage"
	"github.com/hooksink-lab/hooksink/internal/metrics"
	"github.com/hooksink-lab/hooksink/internal/webhook"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// IngestHandler is the terminal write path for webhook deliveries:
// authenticate, normalize, derive the idempotency key, merge-upsert, and map
// the outcome to a transport response. Authentication failures fail closed
// before the body is even parsed; every failure past the auth gate collapses
// into a generic internal error, with the real cause logged for operators.
func (s *Service) IngestHandler(c *gin.Context) {
	metrics.WebhooksReceived.Inc()

	if !s.auth.Authenticate(c.Request.Header) {
		slog.Warn("Rejected webhook with missing or invalid token", "remote_addr", c.ClientIP())
		metrics.WebhooksRejected.WithLabelValues(httperr.OutcomeUnauthorized).Inc()
		c.JSON(http.StatusUnauthorized, httperr.Failure(httperr.MsgInvalidToken))
		return
	}

	payload, ok := s.readPayload(c)
	if !ok {
		return
	}

	rec := webhook.Normalize(payload)
	rec.ReceivedAtISO = s.now().UTC().Format(time.RFC3339Nano)

	key, synthetic := webhook.ResolveKey(rec)
	if synthetic {
		// Known dedup gap: without a transaction id a retried delivery
		// lands under a fresh key.
		slog.Warn("No transaction id in payload, using synthetic key", "key", key)
		metrics.SyntheticKeys.Inc()
	}

	start := time.Now()
	receivedAt, err := s.store.UpsertEvent(c.Request.Context(), key, rec)
	if err != nil {
		slog.Error("Failed to persist webhook event", "error", err, "key", key)
		metrics.WebhooksRejected.WithLabelValues(httperr.OutcomeInternalError).Inc()
		c.JSON(http.StatusInternalServerError, httperr.Failure(httperr.MsgInternalError))
		return
	}
	metrics.PersistDuration.Observe(float64(time.Since(start).Milliseconds()))
	metrics.DocumentsPersisted.Inc()

	slog.Info("Stored webhook event",
		"key", key,
		"event", strValue(rec.Event),
		"synthetic_key", synthetic,
		"received_at", receivedAt)

	c.JSON(http.StatusOK, httperr.Success(key))
}

// readPayload reads the body through the configured size limit and decodes
// it into an open-ended map. An empty body counts as an empty event, like
// the upstream platform's keep-alive pings. Oversized bodies are cut off at
// the transport edge with 413 before the pipeline proper; malformed JSON is
// an internal error by policy, not a client error.
func (s *Service) readPayload(c *gin.Context) (map[string]any, bool) {
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		metrics.WebhooksRejected.WithLabelValues(httperr.OutcomeInternalError).Inc()
		c.JSON(http.StatusInternalServerError, httperr.Failure(httperr.MsgInternalError))
		return nil, false
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		metrics.WebhooksRejected.WithLabelValues(httperr.OutcomeBodyTooLarge).Inc()
		c.JSON(http.StatusRequestEntityTooLarge, httperr.Failure(httperr.MsgBodyTooLarge))
		return nil, false
	}

	if len(strings.TrimSpace(string(bodyBytes))) == 0 {
		return map[string]any{}, true
	}

	var payload map[string]any
	if err := json.Unmarshal(bodyBytes, &payload); err != nil {
		slog.Error("Failed to parse webhook body", "error", err, "payload_size", len(bodyBytes))
		metrics.WebhooksRejected.WithLabelValues(httperr.OutcomeInternalError).Inc()
		c.JSON(http.StatusInternalServerError, httperr.Failure(httperr.MsgInternalError))
		return nil, false
	}

	return payload, true
}

// GetEventHandler returns one stored document by idempotency key, raw
// payload included, for forensic inspection.
func (s *Service) GetEventHandler(c *gin.Context) {
	if !s.auth.Authenticate(c.Request.Header) {
		c.JSON(http.StatusUnauthorized, httperr.Failure(httperr.MsgInvalidToken))
		return
	}

	key := c.Param("id")
	evt, err := s.store.GetEvent(c.Request.Context(), key)
	if err == storage.ErrNotFound {
		c.JSON(http.StatusNotFound, httperr.Failure(httperr.MsgNotFound))
		return
	}
	if err != nil {
		slog.Error("Failed to fetch event document", "error", err, "key", key)
		c.JSON(http.StatusInternalServerError, httperr.Failure(httperr.MsgInternalError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "event": evt})
}

// ListEventsHandler returns the newest stored documents.
func (s *Service) ListEventsHandler(c *gin.Context) {
	if !s.auth.Authenticate(c.Request.Header) {
		c.JSON(http.StatusUnauthorized, httperr.Failure(httperr.MsgInvalidToken))
		return
	}

	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	events, err := s.store.ListRecent(c.Request.Context(), limit)
	if err != nil {
		slog.Error("Failed to list event documents", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.Failure(httperr.MsgInternalError))
		return
	}
	if events == nil {
		events = []*storage.StoredEvent{}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "events": events})
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
