package webhook

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"booktrack/internal/github"
	"booktrack/internal/logging"
	"booktrack/internal/services"
)

const (
	maxBodyBytes = 5 << 20

	eventIssues = "issues"
	eventPing   = "ping"
)

func (s *Server) handleGitHub(w http.ResponseWriter, r *http.Request) {
	delivery := strings.TrimSpace(r.Header.Get(github.HeaderDelivery))
	if delivery == "" {
		delivery = uuid.NewString()
	}
	ctx := services.WithDeliveryID(r.Context(), delivery)
	ctx = services.WithRunID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, s.logger)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "payload too large")
			return
		}
		respondError(w, http.StatusBadRequest, "read body failed")
		return
	}

	if s.secret != "" {
		if err := github.VerifySignature(s.secret, body, r.Header.Get(github.HeaderSignature)); err != nil {
			logging.WarnWithContext(logger, "rejected unsigned delivery", "webhook_signature_invalid",
				logging.Error(err),
				logging.String(logging.FieldImpact, "delivery discarded"),
			)
			respondError(w, http.StatusUnauthorized, "invalid signature")
			return
		}
	}

	switch kind := r.Header.Get(github.HeaderEvent); kind {
	case eventPing:
		respondJSON(w, http.StatusOK, statusResponse{Status: "pong", Delivery: delivery})
		return
	case eventIssues:
	default:
		logger.Info("delivery ignored", logging.String(logging.FieldEventType, kind))
		respondJSON(w, http.StatusAccepted, statusResponse{Status: "ignored", Delivery: delivery, Reason: "unsupported event " + kind})
		return
	}

	payload, err := github.ParseIssuesEvent(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.repository != "" && payload.Repository.FullName != "" && !strings.EqualFold(payload.Repository.FullName, s.repository) {
		logger.Info("delivery for another repository ignored", logging.String("repository", payload.Repository.FullName))
		respondJSON(w, http.StatusAccepted, statusResponse{Status: "ignored", Delivery: delivery, Reason: "repository mismatch"})
		return
	}

	ctx = services.WithIssueNumber(ctx, payload.Issue.Number)
	ctx = services.WithAction(ctx, payload.Action)
	result, err := s.tracker.Track(ctx, payload.Issue.Trigger(payload.Action))
	if err != nil {
		logging.ErrorWithContext(logging.WithContext(ctx, s.logger), "delivery failed", "webhook_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, services.ErrorHint(err)),
			logging.Alert("catalog_update_failed"),
		)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result.View())
}
