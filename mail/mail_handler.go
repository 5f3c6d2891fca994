package mail

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"mock_gateway/config"
	"mock_gateway/logging"
	"mock_gateway/response"
)

// Sender domain suffixes that trigger the simulated failures.
const (
	RateLimitSuffix   = ".ca"
	ServerErrorSuffix = ".gov"
)

// FieldMessage is the form field carrying the raw email.
const FieldMessage = "message"

// NoSubject replaces an empty or missing Subject header.
const NoSubject = "(No Subject)"

// MessageUnparseable is returned when the header block cannot be read.
const MessageUnparseable = "The email could not be parsed for headers."

// Sent is the success payload of POST /email/send.
type Sent struct {
	Status    string   `json:"status"`
	MessageID string   `json:"message_id"`
	ToAddrs   []string `json:"to_addrs"`
	FromAddr  string   `json:"from_addr"`
	Subject   string   `json:"subject"`
}

// Decide picks the canned outcome for a raw email payload. Addresses are
// validated before the simulated 429/500 checks on the sender domain.
func Decide(raw string, errorsEnabled bool) response.Outcome {
	env, err := ParseEnvelope(raw)
	if err != nil {
		return response.ValidationError(MessageUnparseable)
	}
	return decideEnvelope(env, errorsEnabled)
}

func decideEnvelope(env Envelope, errorsEnabled bool) response.Outcome {
	if !IsValidEmail(env.From) {
		return response.ValidationError(fmt.Sprintf("The 'From' email address '%s' is not a valid email address.", env.From))
	}

	for _, addr := range env.To {
		if !IsValidEmail(addr) {
			return response.ValidationError(fmt.Sprintf("The 'To' email address '%s' is not a valid email address.", addr))
		}
	}

	subject := env.Subject
	if subject == "" {
		subject = NoSubject
	}

	if errorsEnabled {
		if strings.HasSuffix(env.From, RateLimitSuffix) {
			return response.RateLimited()
		}
		if strings.HasSuffix(env.From, ServerErrorSuffix) {
			return response.ServerError()
		}
	}

	return response.Success(Sent{
		Status:    response.StatusSuccess,
		MessageID: response.NewMessageID(),
		ToAddrs:   env.To,
		FromAddr:  env.From,
		Subject:   subject,
	})
}

// NewHandler serves POST /email/send. errorBehavior is consulted once per request.
func NewHandler(errorBehavior config.ErrorBehavior, logger *slog.Logger) http.HandlerFunc {
	logger = logging.OrNop(logger)

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			response.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		values, err := response.RequiredForm(r, FieldMessage)
		if err != nil {
			response.WriteFormError(w, err)
			return
		}

		outcome := Decide(values[0], errorBehavior())
		if sent, ok := outcome.Body.(Sent); ok {
			logger.Info("mock email sent", "to", sent.ToAddrs, "from", sent.FromAddr, "subject", sent.Subject)
		}
		outcome.Write(w)
	}
}
