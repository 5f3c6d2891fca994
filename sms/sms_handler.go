package sms

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"mock_gateway/config"
	"mock_gateway/logging"
	"mock_gateway/response"
)

// Destination suffixes that trigger the simulated failures.
const (
	RateLimitSuffix   = "4291111111"
	ServerErrorSuffix = "5001111111"
)

// Form field names accepted by POST /sms/send.
const (
	FieldTo   = "to_number"
	FieldFrom = "from_number"
	FieldBody = "body"
)

// Request is one send-SMS call.
type Request struct {
	ToNumber   string
	FromNumber string
	Body       string
}

// Sent is the success payload, echoing the request verbatim.
type Sent struct {
	Status     string `json:"status"`
	MessageID  string `json:"message_id"`
	ToNumber   string `json:"to_number"`
	FromNumber string `json:"from_number"`
	Body       string `json:"body"`
}

// Decide picks the canned outcome for req. The first matching rule wins:
// simulated 429/500 on the destination suffix (only when errorsEnabled),
// then destination validation, then success. The sender is echoed but not validated.
func Decide(req Request, errorsEnabled bool) response.Outcome {
	digits := CleanDigits(req.ToNumber)

	if errorsEnabled {
		if strings.HasSuffix(digits, RateLimitSuffix) {
			return response.RateLimited()
		}
		if strings.HasSuffix(digits, ServerErrorSuffix) {
			return response.ServerError()
		}
	}

	if !IsValidPhone(req.ToNumber) {
		return response.ValidationError(fmt.Sprintf("The 'To' phone number '%s' is not a valid phone number.", req.ToNumber))
	}

	return response.Success(Sent{
		Status:     response.StatusSuccess,
		MessageID:  response.NewMessageID(),
		ToNumber:   req.ToNumber,
		FromNumber: req.FromNumber,
		Body:       req.Body,
	})
}

// NewHandler serves POST /sms/send. errorBehavior is consulted once per request.
func NewHandler(errorBehavior config.ErrorBehavior, logger *slog.Logger) http.HandlerFunc {
	logger = logging.OrNop(logger)

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			response.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		values, err := response.RequiredForm(r, FieldTo, FieldFrom, FieldBody)
		if err != nil {
			response.WriteFormError(w, err)
			return
		}
		req := Request{ToNumber: values[0], FromNumber: values[1], Body: values[2]}

		outcome := Decide(req, errorBehavior())
		if outcome.Kind == response.KindSuccess {
			logger.Info("mock sms sent", "to", req.ToNumber, "from", req.FromNumber, "body", req.Body)
		}
		outcome.Write(w)
	}
}
