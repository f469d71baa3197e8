package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quotation-labs/quotation-system/internal/domain/entity"
	"github.com/quotation-labs/quotation-system/internal/infrastructure/logger"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps a domain error onto an HTTP status and standardized body
func writeError(w http.ResponseWriter, log logger.Logger, err error, requestID string) {
	kind := entity.KindOf(err)
	status := statusFor(kind)
	message := err.Error()

	if status == http.StatusInternalServerError {
		log.Error("request failed", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		message = "an unexpected error occurred"
	} else {
		log.Warn("request rejected", map[string]interface{}{
			"request_id": requestID,
			"status":     status,
			"error":      err.Error(),
		})
	}

	writeJSON(w, status, ErrorResponse{
		Error:     message,
		Kind:      string(kind),
		Status:    status,
		RequestID: requestID,
	})
}

func statusFor(kind entity.ErrorKind) int {
	switch kind {
	case entity.KindValidation:
		return http.StatusBadRequest
	case entity.KindNotFound:
		return http.StatusNotFound
	case entity.KindDomain:
		return http.StatusUnprocessableEntity
	case entity.KindContention:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// badRequest reports a malformed or invalid request body
func badRequest(w http.ResponseWriter, log logger.Logger, err error, requestID string) {
	writeError(w, log, &entity.Error{Kind: entity.KindValidation, Message: err.Error()}, requestID)
}

var errUnauthenticated = errors.New("missing owner identity")
