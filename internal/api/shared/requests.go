package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// One validator serves every request type; it caches struct metadata on
// first use.
var validate = validator.New()

// DecodeJSON decodes the request body into the given request struct. The
// handlers treat any decode failure as a 400, so no error classification
// happens here.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest checks the request struct's validate tags. The request
// types carry only presence constraints (required url, file, content,
// flashcards), so a failure always means a missing field.
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}
