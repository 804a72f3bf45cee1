// Package rendering turns tracker state into HTML and display text.
package rendering

import "fmt"

// TemplateError represents an error parsing or executing an HTML template
type TemplateError struct {
	Name    string
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	prefix := "template error"
	if e.Name != "" {
		prefix = fmt.Sprintf("template %q error", e.Name)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}
