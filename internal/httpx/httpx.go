// Package httpx holds the JSON response envelope shared by every handler:
// {"data": ...} on success, {"error": {"code", "message", ...}} on failure.
// Clients branch on the code field, never on message text.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Stable error codes. The set is closed: handlers must not invent codes
// outside this list.
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeInvalidEmailFormat = "INVALID_EMAIL_FORMAT"
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeAdminLimitReached  = "ADMIN_LIMIT_REACHED"
	CodeEmailExists        = "EMAIL_ALREADY_EXISTS"
	CodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	CodeEmailNotVerified   = "EMAIL_NOT_VERIFIED"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTokenRequired      = "TOKEN_REQUIRED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeUserInactive       = "USER_INACTIVE"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeCannotDeleteSelf   = "CANNOT_DELETE_SELF"
	CodeSetupComplete      = "SETUP_COMPLETE"
	CodeNotFound           = "NOT_FOUND"
	CodeDatabaseError      = "DATABASE_ERROR"
	CodeInternalError      = "INTERNAL_SERVER_ERROR"
)

// ErrorBody is the wire shape of a failed request.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error ErrorBody `json:"error"`
}

type dataEnvelope struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// WriteData writes a {"data": v} envelope.
func WriteData(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, dataEnvelope{Data: v})
}

// WriteDataMessage writes a {"data": v, "message": msg} envelope.
func WriteDataMessage(w http.ResponseWriter, status int, v any, msg string) {
	writeJSON(w, status, dataEnvelope{Data: v, Message: msg})
}

// WriteError writes an {"error": {...}} envelope.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: ErrorBody{Code: code, Message: message}})
}

// WriteErrorDetails is WriteError with an extra details object.
func WriteErrorDetails(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	writeJSON(w, status, errorEnvelope{Error: ErrorBody{Code: code, Message: message, Details: details}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
