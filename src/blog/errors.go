package blog

import "fmt"

// A ValidationError means the request was understood but violates a business
// rule (blank title, duplicate slug, and so on). Handlers turn these into
// user-facing messages; anything else is treated as an internal error.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) error {
	return ValidationError{Message: fmt.Sprintf(format, args...)}
}
