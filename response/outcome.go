// Package response holds the canned outcomes returned by the mock endpoints
// and the JSON envelope they are written with.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// Kind is the category of a canned outcome.
type Kind int

const (
	KindSuccess Kind = iota
	KindValidationError
	KindRateLimited
	KindServerError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindValidationError:
		return "validation_error"
	case KindRateLimited:
		return "rate_limited"
	case KindServerError:
		return "server_error"
	default:
		return "unknown"
	}
}

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Canned error messages.
const (
	MessageTooManyRequests = "Too many requests"
	MessageInternalError   = "Internal Server Error"
)

// MessageIDPrefix starts every generated message id.
const MessageIDPrefix = "mock-"

// ErrorBody is the JSON body of every error outcome.
type ErrorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Outcome is a decided response: its kind plus the body to send.
type Outcome struct {
	Kind Kind
	Body any
}

// Success wraps an endpoint-specific success payload.
func Success(body any) Outcome {
	return Outcome{Kind: KindSuccess, Body: body}
}

// ValidationError is an HTTP 400 outcome with a user-visible message.
func ValidationError(message string) Outcome {
	return Outcome{Kind: KindValidationError, Body: ErrorBody{Status: StatusError, Message: message}}
}

// RateLimited is the canned HTTP 429 outcome.
func RateLimited() Outcome {
	return Outcome{Kind: KindRateLimited, Body: ErrorBody{Status: StatusError, Message: MessageTooManyRequests}}
}

// ServerError is the canned HTTP 500 outcome.
func ServerError() Outcome {
	return Outcome{Kind: KindServerError, Body: ErrorBody{Status: StatusError, Message: MessageInternalError}}
}

// StatusCode maps the outcome kind to its HTTP status.
func (o Outcome) StatusCode() int {
	switch o.Kind {
	case KindSuccess:
		return http.StatusOK
	case KindValidationError:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Write sends the outcome as JSON.
func (o Outcome) Write(w http.ResponseWriter) {
	WriteJSON(w, o.StatusCode(), o.Body)
}

// NewMessageID returns a fresh "mock-<uuid>" identifier.
func NewMessageID() string {
	return MessageIDPrefix + uuid.NewString()
}

// WriteJSON writes data as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes the standard error envelope.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorBody{Status: StatusError, Message: message})
}
