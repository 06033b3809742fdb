// Package validation coerces raw form values into typed fields and checks
// them. Nothing here touches the database or the image store.
package validation

import (
	"fmt"
	"sort"
	"strings"
)

const (
	MsgRequired       = "This field is required."
	MsgWholeNumber    = "Enter a whole number."
	MsgNumber         = "Enter a number."
	MsgDuration       = "Enter a valid duration."
	MsgPrepAfterTotal = "Preparation time must be less than or equal to total time."
	MsgDurationTypes  = "Preparation time and total time must be valid durations."
	MsgInvalidImage   = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	msgInvalidChoice  = "Select a valid choice. %s is not one of the available choices."
	MsgEmail          = "Enter a valid email address."
	msgMaxLength      = "Ensure this value has at most %s characters."
	msgMinLength      = "Ensure this value has at least %s characters."
	msgMinValue       = "Ensure this value is greater than or equal to %s."
	msgGreaterThan    = "Ensure this value is greater than %s."
	msgFileTooLarge   = "Ensure this file is at most %d bytes."
	msgInvalidGeneric = "Enter a valid value."
)

// FieldErrors maps a form field name to its error messages
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

// Error renders the errors in field order, so FieldErrors can travel as an error
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(fe[f], " ")))
	}
	return strings.Join(parts, "; ")
}

// Result is the outcome of validating one form
type Result struct {
	Valid       bool        `json:"valid"`
	FieldErrors FieldErrors `json:"field_errors,omitempty"`
}

func newResult() Result {
	return Result{Valid: true, FieldErrors: FieldErrors{}}
}

// Add records an error and marks the result invalid
func (r *Result) Add(field, msg string) {
	if r.FieldErrors == nil {
		r.FieldErrors = FieldErrors{}
	}
	r.FieldErrors.Add(field, msg)
	r.Valid = false
}

// InvalidChoice is the message for a value outside a choice list
func InvalidChoice(value string) string {
	return fmt.Sprintf(msgInvalidChoice, value)
}
