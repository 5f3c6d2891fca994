// Package apidoc generates the OpenAPI document describing the mock endpoints.
//
// The document is rebuilt on demand so it follows the error-behavior switch:
// when simulated failures are disabled the 429 and 500 responses are left out.
package apidoc

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"mock_gateway/mail"
	"mock_gateway/response"
	"mock_gateway/sms"
)

// Document metadata.
const (
	Title   = "Mock SMS and Email Service"
	Version = "1.0.0"
)

// Documented paths.
const (
	PathSMS   = "/sms/send"
	PathEmail = "/email/send"
)

const exampleMessageID = "mock-123e4567-e89b-12d3-a456-426614174000"

// Build returns the API document for the given error-behavior state.
func Build(errorsEnabled bool) *openapi3.T {
	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       Title,
			Version:     Version,
			Description: "Emulates an SMS/email delivery provider. Nothing is delivered.",
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath(PathSMS, &openapi3.PathItem{Post: smsOperation(errorsEnabled)}),
			openapi3.WithPath(PathEmail, &openapi3.PathItem{Post: emailOperation(errorsEnabled)}),
		),
	}
}

func smsOperation(errorsEnabled bool) *openapi3.Operation {
	form := openapi3.NewObjectSchema().
		WithProperty(sms.FieldTo, openapi3.NewStringSchema()).
		WithProperty(sms.FieldFrom, openapi3.NewStringSchema()).
		WithProperty(sms.FieldBody, openapi3.NewStringSchema())
	form.Required = []string{sms.FieldTo, sms.FieldFrom, sms.FieldBody}

	success := openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema()).
		WithProperty("message_id", openapi3.NewStringSchema()).
		WithProperty(sms.FieldTo, openapi3.NewStringSchema()).
		WithProperty(sms.FieldFrom, openapi3.NewStringSchema()).
		WithProperty(sms.FieldBody, openapi3.NewStringSchema())

	op := openapi3.NewOperation()
	op.OperationID = "sendSMS"
	op.Summary = "Send an SMS"
	op.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
		WithRequired(true).
		WithContent(openapi3.NewContentWithFormDataSchema(form))}
	op.Responses = responses(errorsEnabled, responseSet{
		ok: jsonResponse("Message sent successfully", success, sms.Sent{
			Status:     response.StatusSuccess,
			MessageID:  exampleMessageID,
			ToNumber:   "+15558675309",
			FromNumber: "+15017122661",
			Body:       "Hi there!",
		}),
		badRequest:        "Bad Request - Invalid phone number",
		badRequestExample: "The 'To' phone number '123' is not a valid phone number.",
		missingField:      sms.FieldTo,
		rateLimited:       "Any destination number ending with " + sms.RateLimitSuffix + " will trigger this error.",
		serverError:       "Any destination number ending with " + sms.ServerErrorSuffix + " will trigger this error.",
	})
	return op
}

func emailOperation(errorsEnabled bool) *openapi3.Operation {
	raw := openapi3.NewStringSchema()
	raw.Description = "Raw RFC 822 email text"
	form := openapi3.NewObjectSchema().WithProperty(mail.FieldMessage, raw)
	form.Required = []string{mail.FieldMessage}

	success := openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema()).
		WithProperty("message_id", openapi3.NewStringSchema()).
		WithProperty("to_addrs", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("from_addr", openapi3.NewStringSchema()).
		WithProperty("subject", openapi3.NewStringSchema())

	op := openapi3.NewOperation()
	op.OperationID = "sendEmail"
	op.Summary = "Send an email"
	op.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
		WithRequired(true).
		WithContent(openapi3.NewContentWithFormDataSchema(form))}
	op.Responses = responses(errorsEnabled, responseSet{
		ok: jsonResponse("Message sent successfully", success, mail.Sent{
			Status:    response.StatusSuccess,
			MessageID: exampleMessageID,
			ToAddrs:   []string{"b@example.com"},
			FromAddr:  "a@example.com",
			Subject:   "Test Email",
		}),
		badRequest:        "Bad Request - Unparseable email or invalid address",
		badRequestExample: "The 'From' email address 'a@example....' is not a valid email address.",
		missingField:      mail.FieldMessage,
		rateLimited:       "Any sender address ending with " + mail.RateLimitSuffix + " will trigger this error.",
		serverError:       "Any sender address ending with " + mail.ServerErrorSuffix + " will trigger this error.",
	})
	return op
}

// responseSet carries the per-endpoint text of the documented responses.
type responseSet struct {
	ok                *openapi3.Response
	badRequest        string
	badRequestExample string
	missingField      string
	rateLimited       string
	serverError       string
}

func responses(errorsEnabled bool, set responseSet) *openapi3.Responses {
	missing := &response.MissingFieldError{Field: set.missingField}
	opts := []openapi3.NewResponsesOption{
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{Value: set.ok}),
		openapi3.WithStatus(http.StatusBadRequest, errorResponse(set.badRequest, set.badRequestExample)),
		openapi3.WithStatus(http.StatusUnprocessableEntity, errorResponse(
			"Unprocessable Entity - A required form field is missing", missing.Error())),
	}
	if errorsEnabled {
		opts = append(opts,
			openapi3.WithStatus(http.StatusTooManyRequests, errorResponse(
				"Too Many Requests - "+set.rateLimited, response.MessageTooManyRequests)),
			openapi3.WithStatus(http.StatusInternalServerError, errorResponse(
				"Internal Server Error - "+set.serverError, response.MessageInternalError)),
		)
	}
	return openapi3.NewResponses(opts...)
}

func errorSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema())
}

func errorResponse(description, message string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: jsonResponse(description, errorSchema(), response.ErrorBody{
		Status:  response.StatusError,
		Message: message,
	})}
}

func jsonResponse(description string, schema *openapi3.Schema, example any) *openapi3.Response {
	content := openapi3.NewContentWithJSONSchema(schema)
	content.Get("application/json").Example = jsonValue(example)
	return openapi3.NewResponse().WithDescription(description).WithContent(content)
}

// jsonValue turns a typed payload into the plain maps and slices the example
// validator understands.
func jsonValue(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// YAML renders doc as YAML via its JSON form, so the output follows the
// document's JSON field names.
func YAML(doc *openapi3.T) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal api document: %w", err)
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("decode api document: %w", err)
	}
	return yaml.Marshal(tree)
}
