package sms

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mock_gateway/config"
	"mock_gateway/response"
)

// TestIsValidPhone tests the phone number validation logic.
func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		isValid bool
	}{
		{"TenDigits", "5558675309", true},
		{"ElevenDigitsE164", "+15558675309", true},
		{"Formatted", "+1 (555) 867-5309", true},
		{"TwelveDigits", "+445558675309", false},
		{"NineDigits", "555867530", false},
		{"LettersOnly", "ABCDEFGHIJK", false},
		{"TooShort", "111", false},
		{"EmptyPhone", "", false},
		{"NonASCIIDigits", "٥٥٥٨٦٧٥٣٠٩", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.isValid, IsValidPhone(tc.phone), "IsValidPhone(%q)", tc.phone)
		})
	}
}

func TestIsValidPhoneIgnoresNonDigitInsertions(t *testing.T) {
	base := "15558675309"
	fillers := []string{"-", " ", "+", "(", ")", ".", "x", "☎"}

	for i := 0; i <= len(base); i++ {
		for _, f := range fillers {
			phone := base[:i] + f + base[i:]
			assert.True(t, IsValidPhone(phone), "IsValidPhone(%q)", phone)
			assert.Equal(t, base, CleanDigits(phone))
		}
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name          string
		to            string
		errorsEnabled bool
		want          response.Kind
	}{
		{"Success", "+15558675309", true, response.KindSuccess},
		{"RateLimited", "+4291111111", true, response.KindRateLimited},
		{"RateLimitedFormatted", "+1 (429) 111-1111", true, response.KindRateLimited},
		{"ServerError", "+15001111111", true, response.KindServerError},
		{"RateLimitDisabled", "+4291111111", false, response.KindSuccess},
		{"ServerErrorDisabled", "+15001111111", false, response.KindSuccess},
		{"SuffixBeatsValidation", "99994291111111", true, response.KindRateLimited},
		{"SuffixTooLongWhenDisabled", "99994291111111", false, response.KindValidationError},
		{"PrefixDoesNotTrigger", "4295558675", true, response.KindSuccess},
		{"InvalidTo", "111", true, response.KindValidationError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Decide(Request{ToNumber: tc.to, FromNumber: "+15017122661", Body: "Hi there!"}, tc.errorsEnabled)
			assert.Equal(t, tc.want, got.Kind)
		})
	}
}

func TestDecideValidationMessageEchoesRawNumber(t *testing.T) {
	got := Decide(Request{ToNumber: "12-3", FromNumber: "x", Body: "y"}, true)

	require.Equal(t, response.KindValidationError, got.Kind)
	body, ok := got.Body.(response.ErrorBody)
	require.True(t, ok)
	assert.Equal(t, "The 'To' phone number '12-3' is not a valid phone number.", body.Message)
}

func TestDecideDoesNotValidateSender(t *testing.T) {
	got := Decide(Request{ToNumber: "+15558675309", FromNumber: "nope", Body: ""}, true)
	assert.Equal(t, response.KindSuccess, got.Kind)
}

func TestDecideIsRepeatable(t *testing.T) {
	req := Request{ToNumber: "+15558675309", FromNumber: "+15017122661", Body: "Hi there!"}

	first := Decide(req, true)
	second := Decide(req, true)

	assert.Equal(t, first.Kind, second.Kind)
	assert.NotEqual(t, first.Body.(Sent).MessageID, second.Body.(Sent).MessageID)
}

func postSMS(t *testing.T, h http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/sms/send", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerSuccess(t *testing.T) {
	h := NewHandler(config.StaticErrorBehavior(true), nil)

	rec := postSMS(t, h, url.Values{
		FieldTo:   {"+15558675309"},
		FieldFrom: {"+15017122661"},
		FieldBody: {"Hi there!"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "+15558675309", resp["to_number"])
	assert.Equal(t, "+15017122661", resp["from_number"])
	assert.Equal(t, "Hi there!", resp["body"])
	assert.True(t, strings.HasPrefix(resp["message_id"].(string), "mock-"))
}

func TestHandlerErrorBehavior(t *testing.T) {
	form := url.Values{
		FieldTo:   {"+4291111111"},
		FieldFrom: {"+15017122661"},
		FieldBody: {"Hi there!"},
	}

	enabled := postSMS(t, NewHandler(config.StaticErrorBehavior(true), nil), form)
	assert.Equal(t, http.StatusTooManyRequests, enabled.Code)
	assert.JSONEq(t, `{"status":"error","message":"Too many requests"}`, enabled.Body.String())

	disabled := postSMS(t, NewHandler(config.StaticErrorBehavior(false), nil), form)
	assert.Equal(t, http.StatusOK, disabled.Code)
}

func TestHandlerReadsSwitchPerRequest(t *testing.T) {
	enabled := true
	h := NewHandler(func() bool { return enabled }, nil)
	form := url.Values{FieldTo: {"+15001111111"}, FieldFrom: {"a"}, FieldBody: {"b"}}

	assert.Equal(t, http.StatusInternalServerError, postSMS(t, h, form).Code)

	enabled = false
	assert.Equal(t, http.StatusOK, postSMS(t, h, form).Code)
}

func TestHandlerInvalidTo(t *testing.T) {
	h := NewHandler(config.StaticErrorBehavior(true), nil)

	rec := postSMS(t, h, url.Values{FieldTo: {"111"}, FieldFrom: {"+15017122661"}, FieldBody: {"Hi there!"}})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp["status"])
	assert.IsType(t, "", resp["message"])
}

func TestHandlerMissingField(t *testing.T) {
	h := NewHandler(config.StaticErrorBehavior(true), nil)

	rec := postSMS(t, h, url.Values{FieldTo: {"+15558675309"}, FieldBody: {"Hi"}})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), FieldFrom)
}

func TestHandlerRejectsGet(t *testing.T) {
	h := NewHandler(config.StaticErrorBehavior(true), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sms/send", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandlerEmptyBodyIsMissing(t *testing.T) {
	h := NewHandler(config.StaticErrorBehavior(true), nil)

	rec := postSMS(t, h, url.Values{FieldTo: {"+15558675309"}, FieldFrom: {"+15017122661"}, FieldBody: {""}})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing required form field 'body'")
}
