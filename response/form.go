package response

import (
	"errors"
	"fmt"
	"net/http"
)

// maxFormMemory bounds the in-memory part of multipart bodies.
const maxFormMemory = 10 << 20

// MissingFieldError reports a required form field absent from the request.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required form field '%s'", e.Field)
}

// RequiredForm parses a urlencoded or multipart body and returns the named
// fields in order. A field sent with an empty value counts as missing.
func RequiredForm(r *http.Request, fields ...string) ([]string, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	values := make([]string, len(fields))
	for i, field := range fields {
		v, ok := r.PostForm[field]
		if !ok || len(v) == 0 || v[0] == "" {
			return nil, &MissingFieldError{Field: field}
		}
		values[i] = v[0]
	}
	return values, nil
}

// WriteFormError maps a RequiredForm error to its HTTP response:
// 422 for a missing field, 400 for an unreadable body.
func WriteFormError(w http.ResponseWriter, err error) {
	var missing *MissingFieldError
	if errors.As(err, &missing) {
		WriteError(w, http.StatusUnprocessableEntity, missing.Error())
		return
	}
	WriteError(w, http.StatusBadRequest, "The request body could not be parsed as a form.")
}
