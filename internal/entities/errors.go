package entities

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrLoadFailed       = errors.New("catalog load failed")
	ErrSubmissionFailed = errors.New("order submission failed")
)

// ValidationErrors maps a draft field name to a human-readable message.
// An empty map means the draft is valid.
type ValidationErrors map[string]string

func (v ValidationErrors) Valid() bool {
	return len(v) == 0
}

// ValidationError carries the full field->message mapping of a failed
// draft validation.
type ValidationError struct {
	Fields ValidationErrors
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(msgs)
	return "draft invalid: " + strings.Join(msgs, ", ")
}
