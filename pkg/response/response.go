package response

import (
	"encoding/json"
	"net/http"
)

// Code classifies a failed request so clients can branch without parsing
// the reason text.
type Code string

const (
	CodeInvalidRequest Code = "invalid_request"
	CodeAuthRejected   Code = "auth_rejected"
	CodeUnauthorized   Code = "unauthorized"
	CodeSessionEnded   Code = "session_ended"
	CodeSessionLoading Code = "session_loading"
	CodeNotFound       Code = "not_found"
	CodeInternal       Code = "internal"
)

// Problem describes why a request failed. Reason can be shown to the user
// as is. State is set only for CodeSessionLoading.
type Problem struct {
	Code   Code   `json:"code"`
	Reason string `json:"reason"`
	State  string `json:"state,omitempty"`
}

// Envelope is the body of every API response.
type Envelope struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Error   *Problem `json:"error,omitempty"`
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

// Data writes a successful response with the given status.
func Data(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: true, Data: data})
}

func OK(w http.ResponseWriter, data any) {
	Data(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	Data(w, http.StatusCreated, data)
}

// Fail writes p with the given status.
func Fail(w http.ResponseWriter, status int, p Problem) {
	write(w, status, Envelope{Error: &p})
}

func Invalid(w http.ResponseWriter, reason string) {
	Fail(w, http.StatusBadRequest, Problem{Code: CodeInvalidRequest, Reason: reason})
}

// Rejected reports a login or sign-up the account store turned down.
func Rejected(w http.ResponseWriter, status int, reason string) {
	Fail(w, status, Problem{Code: CodeAuthRejected, Reason: reason})
}

func Unauthorized(w http.ResponseWriter, reason string) {
	Fail(w, http.StatusUnauthorized, Problem{Code: CodeUnauthorized, Reason: reason})
}

// SessionEnded rejects a token whose user is no longer signed in.
func SessionEnded(w http.ResponseWriter) {
	Fail(w, http.StatusUnauthorized, Problem{Code: CodeSessionEnded, Reason: "Session has ended"})
}

// SessionLoading tells the client to retry once the persisted session has
// been restored.
func SessionLoading(w http.ResponseWriter, state string) {
	w.Header().Set("Retry-After", "1")
	Fail(w, http.StatusServiceUnavailable, Problem{Code: CodeSessionLoading, Reason: "Session is loading", State: state})
}

func NotFound(w http.ResponseWriter, reason string) {
	Fail(w, http.StatusNotFound, Problem{Code: CodeNotFound, Reason: reason})
}

func Internal(w http.ResponseWriter, reason string) {
	Fail(w, http.StatusInternalServerError, Problem{Code: CodeInternal, Reason: reason})
}
