package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/jonathan/job-tracker/internal/jobstore"
	"github.com/jonathan/job-tracker/internal/types"
)

// Messages shown for form outcomes.
const (
	MsgCreateSuccess = "Job application added successfully!"
	MsgCreateFailure = "Error submitting job application"
	MsgMissingFields = "Please fill in all required fields"
)

// ErrSubmitInProgress is returned while an earlier submission has not completed.
var ErrSubmitInProgress = errors.New("a submission is already in progress")

// Creator is the part of the store the form needs.
type Creator interface {
	CreateJob(ctx context.Context, input types.NewJobApplication) (*types.JobApplication, error)
}

// Form field names, as used by SetField and by HTML inputs.
const (
	FieldCompanyName     = "companyName"
	FieldRole            = "role"
	FieldJobType         = "jobType"
	FieldLocation        = "location"
	FieldStatus          = "status"
	FieldApplicationDate = "applicationDate"
	FieldLinks           = "links"
)

// FormValues holds the raw text of every form field. Links is comma-separated.
type FormValues struct {
	CompanyName     string
	Role            string
	JobType         string
	Location        string
	Status          string
	ApplicationDate string
	Links           string
}

// DefaultFormValues returns an empty form with the default job type and status selected.
func DefaultFormValues() FormValues {
	return FormValues{
		JobType: string(types.DefaultJobType),
		Status:  string(types.DefaultStatus),
	}
}

// Payload builds the create payload, splitting and trimming the links text.
func (v FormValues) Payload() types.NewJobApplication {
	return types.NewJobApplication{
		CompanyName:     v.CompanyName,
		Role:            v.Role,
		JobType:         types.JobType(v.JobType),
		Location:        v.Location,
		Status:          types.Status(v.Status),
		ApplicationDate: v.ApplicationDate,
		Links:           types.ParseLinks(v.Links),
	}
}

// FormOptions configures a Form.
type FormOptions struct {
	Notifier Notifier
	// OnSuccess runs after a record was created and the form was reset; the owner uses
	// it to request a list refresh.
	OnSuccess func(created types.JobApplication)
}

// Form collects one new job application and submits it.
type Form struct {
	store     Creator
	notifier  Notifier
	onSuccess func(types.JobApplication)

	mu         sync.Mutex
	values     FormValues
	submitting atomic.Bool
}

// NewForm creates a form with default values.
func NewForm(store Creator, opts FormOptions) *Form {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = discardNotifier{}
	}
	return &Form{
		store:     store,
		notifier:  notifier,
		onSuccess: opts.OnSuccess,
		values:    DefaultFormValues(),
	}
}

// Values returns the current field values.
func (f *Form) Values() FormValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Set replaces all field values.
func (f *Form) Set(values FormValues) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = values
}

// SetField updates one field by name.
func (f *Form) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch name {
	case FieldCompanyName:
		f.values.CompanyName = value
	case FieldRole:
		f.values.Role = value
	case FieldJobType:
		f.values.JobType = value
	case FieldLocation:
		f.values.Location = value
	case FieldStatus:
		f.values.Status = value
	case FieldApplicationDate:
		f.values.ApplicationDate = value
	case FieldLinks:
		f.values.Links = value
	default:
		return fmt.Errorf("unknown form field %q", name)
	}
	return nil
}

// Reset restores the default values.
func (f *Form) Reset() {
	f.Set(DefaultFormValues())
}

// Submitting reports whether a submission is in flight; the submit control is disabled
// while it is.
func (f *Form) Submitting() bool {
	return f.submitting.Load()
}

// Submit validates the current values and creates the record. On success the form is
// reset and OnSuccess runs; on failure the values are left untouched so the user can
// correct them and retry. Exactly one notification is emitted per completed attempt.
func (f *Form) Submit(ctx context.Context) (*types.JobApplication, error) {
	if !f.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmitInProgress
	}
	defer f.submitting.Store(false)
	return f.submit(ctx)
}

// SubmitValues replaces the field values and submits them. While an earlier submission
// is in flight it returns ErrSubmitInProgress and leaves the values of that submission
// untouched.
func (f *Form) SubmitValues(ctx context.Context, values FormValues) (*types.JobApplication, error) {
	if !f.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmitInProgress
	}
	defer f.submitting.Store(false)
	f.Set(values)
	return f.submit(ctx)
}

// submit runs one attempt; the caller holds the in-flight guard.
func (f *Form) submit(ctx context.Context) (*types.JobApplication, error) {
	payload := f.Values().Payload()
	if err := payload.Validate(); err != nil {
		verr := jobstore.FromValidator(err)
		log.Printf("[tracker] form rejected: %v", verr)
		f.notifier.Notify(LevelError, MsgMissingFields)
		return nil, verr
	}

	created, err := f.store.CreateJob(ctx, payload)
	if err != nil {
		log.Printf("[tracker] create failed: %v", err)
		f.notifier.Notify(LevelError, MsgCreateFailure)
		return nil, err
	}

	f.Reset()
	f.notifier.Notify(LevelSuccess, MsgCreateSuccess)
	if f.onSuccess != nil {
		f.onSuccess(*created)
	}
	return created, nil
}
