package rendering

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"sync"
	"time"

	"github.com/jonathan/job-tracker/internal/tracker"
	"github.com/jonathan/job-tracker/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names.
const (
	PageTemplate     = "page"
	ListTemplate     = "list"
	ConfirmTemplate  = "confirm"
	FragmentTemplate = "fragment"
)

// Option is a selectable value with its display label.
type Option struct {
	Value string
	Label string
}

// FormData is what the new-job form renders.
type FormData struct {
	Values     tracker.FormValues
	Submitting bool
	// Errors maps field names to messages for fields that failed validation.
	Errors   map[string]string
	JobTypes []Option
	Statuses []Option
}

// NewFormData prepares the form for rendering.
func NewFormData(values tracker.FormValues, submitting bool, fieldErrors map[string]string) FormData {
	data := FormData{Values: values, Submitting: submitting, Errors: fieldErrors}
	for _, jt := range types.JobTypes() {
		data.JobTypes = append(data.JobTypes, Option{Value: string(jt), Label: jt.Label()})
	}
	for _, s := range types.Statuses() {
		data.Statuses = append(data.Statuses, Option{Value: string(s), Label: s.Label()})
	}
	return data
}

// PageData is the full page: header, list, modal form and toasts.
type PageData struct {
	Title     string
	List      tracker.View
	ModalOpen bool
	Form      FormData
	Toasts    []tracker.Notification
	ToastTTL  time.Duration
}

// FragmentData is the list re-fetched in place, plus the notifications raised by the
// re-fetch.
type FragmentData struct {
	List     tracker.View
	Toasts   []tracker.Notification
	ToastTTL time.Duration
}

// ConfirmData is the delete confirmation page.
type ConfirmData struct {
	Title  string
	Job    types.JobApplication
	Prompt string
}

// Renderer executes the embedded HTML templates.
type Renderer struct {
	tmpl *template.Template
}

var (
	defaultRenderer     *Renderer
	defaultRendererErr  error
	defaultRendererOnce sync.Once
)

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	defaultRendererOnce.Do(func() {
		tmpl, err := template.New("").Funcs(funcMap()).ParseFS(templateFS, "templates/*.html")
		if err != nil {
			defaultRendererErr = &TemplateError{Message: "failed to parse templates", Cause: err}
			return
		}
		defaultRenderer = &Renderer{tmpl: tmpl}
	})
	return defaultRenderer, defaultRendererErr
}

// Page renders the full page.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	return r.execute(w, PageTemplate, data)
}

// List renders only the list fragment.
func (r *Renderer) List(w io.Writer, view tracker.View) error {
	return r.execute(w, ListTemplate, view)
}

// Fragment renders the list followed by the toast region.
func (r *Renderer) Fragment(w io.Writer, data FragmentData) error {
	return r.execute(w, FragmentTemplate, data)
}

// Confirm renders the delete confirmation page.
func (r *Renderer) Confirm(w io.Writer, data ConfirmData) error {
	return r.execute(w, ConfirmTemplate, data)
}

// execute renders into a buffer first so a failing template never leaves half a page.
func (r *Renderer) execute(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return &TemplateError{Name: name, Message: "failed to execute template", Cause: err}
	}
	if _, err := buf.WriteTo(w); err != nil {
		return &TemplateError{Name: name, Message: "failed to write output", Cause: err}
	}
	return nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatDate":   FormatDate,
		"linkHref":     LinkHref,
		"jobTypeLabel": JobTypeLabel,
		"location":     Location,
		"statusStyle":  StatusStyleFor,
		"statusLabel":  func(s types.Status) string { return s.Label() },
		"seconds":      func(d time.Duration) float64 { return d.Seconds() },
		"populated":    func(v tracker.View) bool { return v.Kind == tracker.ViewPopulated },
		"empty":        func(v tracker.View) bool { return v.Kind == tracker.ViewEmpty },
	}
}
