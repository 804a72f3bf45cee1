package jobstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TransportError means a request to the job-storage API did not complete: the network
// call failed, the store answered with a non-success status where no validation
// semantics apply, or the response could not be decoded.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *TransportError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("jobstore %s %s: %s", e.Op, e.URL, e.Message))
	if e.StatusCode != 0 {
		sb.WriteString(fmt.Sprintf(" (HTTP %d)", e.StatusCode))
	}
	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Cause))
	}
	return sb.String()
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// FieldError names one field that failed validation.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError means a record was rejected, either before sending (a required field
// is missing) or by the store answering a create with a non-success status.
type ValidationError struct {
	StatusCode int
	Message    string
	Fields     []FieldError
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation error")
	if e.StatusCode != 0 {
		sb.WriteString(fmt.Sprintf(" (HTTP %d)", e.StatusCode))
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	for _, f := range e.Fields {
		sb.WriteString(fmt.Sprintf("; %s: %s", f.Field, f.Message))
	}
	return sb.String()
}

// IsTransport reports whether err is, or wraps, a *TransportError.
func IsTransport(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// fieldNames maps struct fields to the names the store and the form use.
var fieldNames = map[string]string{
	"CompanyName":     "companyName",
	"Role":            "role",
	"JobType":         "jobType",
	"Location":        "location",
	"Status":          "status",
	"ApplicationDate": "applicationDate",
	"Links":           "links",
}

// FromValidator converts validator output into a *ValidationError. Other errors are
// returned unchanged.
func FromValidator(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Message: "invalid job application"}
	for _, fe := range verrs {
		name := fieldNames[fe.Field()]
		if name == "" {
			name = fe.Field()
		}
		out.Fields = append(out.Fields, FieldError{Field: name, Message: describeTag(fe)})
	}
	return out
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("must be a date in %s format", fe.Param())
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}
