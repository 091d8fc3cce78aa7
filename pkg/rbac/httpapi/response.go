package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/assokit/assokit/pkg/logger"
	"github.com/assokit/assokit/pkg/orgchart"
	"github.com/assokit/assokit/pkg/rbac"
	"github.com/assokit/assokit/pkg/validator"
)

type errorBody struct {
	Error  string       `json:"error"`
	Code   string       `json:"code"`
	Fields []fieldError `json:"fields,omitempty"`
	Holder string       `json:"holder_id,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Key     string `json:"key,omitempty"`
}

type warningsBody struct {
	Member   rbac.Member `json:"member"`
	Warnings []warning   `json:"warnings,omitempty"`
}

type warning struct {
	RoleID  string `json:"role_id"`
	Message string `json:"message"`
}

func toWarnings(ws []rbac.MandatoryRoleWarning) []warning {
	out := make([]warning, 0, len(ws))
	for _, w := range ws {
		out = append(out, warning{RoleID: w.RoleID, Message: w.String()})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeError maps domain errors onto status codes.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		unique *rbac.UniqueRoleConflictError
		inUse  *rbac.RoleInUseError
	)

	switch {
	case validator.IsValidationError(err):
		body := errorBody{Error: "Validation failed", Code: "validation_failed"}
		for _, fe := range validator.ExtractValidationErrors(err) {
			body.Fields = append(body.Fields, fieldError{Field: fe.Field, Message: fe.Message, Key: fe.TranslationKey})
		}
		writeJSON(w, http.StatusUnprocessableEntity, body)
	case errors.As(err, &unique):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error(), Code: "unique_role_conflict", Holder: unique.HolderID})
	case errors.As(err, &inUse):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error(), Code: "role_in_use"})
	case errors.Is(err, rbac.ErrMandatoryRoleViolation):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error(), Code: "mandatory_role_violation"})
	case errors.Is(err, rbac.ErrConcurrencyConflict):
		writeJSON(w, http.StatusConflict, errorBody{Error: "Concurrent update, please retry", Code: "concurrency_conflict"})
	case errors.Is(err, rbac.ErrInvalidState):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error(), Code: "invalid_state"})
	case errors.Is(err, rbac.ErrNotFound), errors.Is(err, orgchart.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error(), Code: "not_found"})
	case errors.Is(err, orgchart.ErrMemberNotFound):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "Assigned member does not exist", Code: "member_not_found"})
	default:
		h.log.ErrorContext(r.Context(), "Request failed",
			slog.String("path", r.URL.Path),
			logger.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal server error", Code: "internal"})
	}
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Code: "bad_request"})
}
