package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/courtside-sync/internal/domain/bitable"
	"github.com/riskibarqy/courtside-sync/internal/platform/logging"
	"github.com/riskibarqy/courtside-sync/internal/usecase"
)

const (
	googleAPIVersion    = "2.0"
	errorDomain         = "courtside-sync"
	internalErrorReason = "internalError"
	internalErrorText   = "internal server error"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

// errorRule maps any of its sentinels to one response shape.
type errorRule struct {
	sentinels []error
	mapped    mappedError
}

// Rules are checked in order. Remote failures wrap an operation sentinel and
// ErrDependencyUnavailable together, so the operation rules come first.
var errorRules = []errorRule{
	{
		sentinels: []error{usecase.ErrInvalidInput, bitable.ErrUnknownTable, bitable.ErrInvalidTables},
		mapped:    mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalidInput", Status: "INVALID_ARGUMENT"},
	},
	{
		sentinels: []error{usecase.ErrInvalidCredentials},
		mapped:    mappedError{HTTPStatus: http.StatusUnauthorized, Reason: "invalidCredentials", Status: "UNAUTHENTICATED"},
	},
	{
		sentinels: []error{usecase.ErrSessionInvalid},
		mapped:    mappedError{HTTPStatus: http.StatusUnauthorized, Reason: "sessionInvalid", Status: "UNAUTHENTICATED"},
	},
	{
		sentinels: []error{usecase.ErrUnauthorized},
		mapped:    mappedError{HTTPStatus: http.StatusUnauthorized, Reason: "unauthorized", Status: "UNAUTHENTICATED"},
	},
	{
		sentinels: []error{usecase.ErrNotFound},
		mapped:    mappedError{HTTPStatus: http.StatusNotFound, Reason: "notFound", Status: "NOT_FOUND"},
	},
	{
		sentinels: []error{usecase.ErrDuplicateGame},
		mapped:    mappedError{HTTPStatus: http.StatusConflict, Reason: "duplicateGame", Status: "ALREADY_EXISTS"},
	},
	{
		sentinels: []error{usecase.ErrTokenAcquisition},
		mapped:    mappedError{HTTPStatus: http.StatusBadGateway, Reason: "tokenAcquisitionFailed", Status: "UNAVAILABLE"},
	},
	{
		sentinels: []error{usecase.ErrSearchFailed},
		mapped:    mappedError{HTTPStatus: http.StatusBadGateway, Reason: "searchFailed", Status: "UNAVAILABLE"},
	},
	{
		sentinels: []error{usecase.ErrInsertFailed},
		mapped:    mappedError{HTTPStatus: http.StatusBadGateway, Reason: "insertFailed", Status: "UNAVAILABLE"},
	},
	{
		sentinels: []error{usecase.ErrDependencyUnavailable},
		mapped:    mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "dependencyUnavailable", Status: "UNAVAILABLE"},
	},
}

var internalError = mappedError{HTTPStatus: http.StatusInternalServerError, Reason: internalErrorReason, Status: "INTERNAL"}

func mapError(err error) mappedError {
	for _, rule := range errorRules {
		for _, sentinel := range rule.sentinels {
			if errors.Is(err, sentinel) {
				return rule.mapped
			}
		}
	}
	return internalError
}

// writeJSON encodes before touching the response so an unencodable payload
// still yields a well-formed 500.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	body, err := sonic.Marshal(payload)
	if err != nil {
		logging.Default().ErrorContext(ctx, "encode response failed", "status", status, "error", err)
		status = http.StatusInternalServerError
		body, _ = sonic.Marshal(errorEnvelope(internalError, internalErrorText))
	}

	header := w.Header()
	header.Set("Content-Type", "application/json")
	header.Set("Content-Length", strconv.Itoa(len(body)))
	header.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

// writeError renders err under its mapped status. Unmapped errors are
// reported as a generic 500 without their text.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(err)
	message := internalErrorText
	if mapped != internalError {
		message = err.Error()
	}
	writeJSON(ctx, w, mapped.HTTPStatus, errorEnvelope(mapped, message))
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeJSON(ctx, w, http.StatusInternalServerError, errorEnvelope(internalError, internalErrorText))
}

func errorEnvelope(mapped mappedError, message string) googleResponseEnvelope {
	return googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors: []googleErrorItem{{
				Domain:  errorDomain,
				Reason:  mapped.Reason,
				Message: message,
			}},
		},
	}
}
