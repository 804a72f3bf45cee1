package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/jonathan/job-tracker/internal/jobstore"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledValues() FormValues {
	v := DefaultFormValues()
	v.CompanyName = "Acme Inc."
	v.Role = "Frontend Developer"
	v.Location = "Remote, New York"
	v.ApplicationDate = "2024-03-05"
	v.Links = " a.com, , b.com "
	return v
}

func TestDefaultFormValues(t *testing.T) {
	v := DefaultFormValues()
	assert.Equal(t, "FULL_TIME", v.JobType)
	assert.Equal(t, "APPLIED", v.Status)
	assert.Empty(t, v.CompanyName)
	assert.Empty(t, v.Links)
}

func TestFormValues_Payload(t *testing.T) {
	payload := filledValues().Payload()
	assert.Equal(t, []string{"a.com", "b.com"}, payload.Links)
	assert.Equal(t, types.JobTypeFullTime, payload.JobType)
	assert.Equal(t, types.StatusApplied, payload.Status)
	assert.Equal(t, "2024-03-05", payload.ApplicationDate)
}

func TestForm_SubmitSuccessResetsAndSignalsRefresh(t *testing.T) {
	store := newFakeStore()
	notes := &recorder{}
	var refreshed []types.JobApplication
	form := NewForm(store, FormOptions{
		Notifier:  notes,
		OnSuccess: func(created types.JobApplication) { refreshed = append(refreshed, created) },
	})
	form.Set(filledValues())

	created, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, []string{"a.com", "b.com"}, created.Links)

	assert.Equal(t, DefaultFormValues(), form.Values())
	require.Len(t, refreshed, 1)
	assert.Equal(t, created.ID, refreshed[0].ID)
	assert.Equal(t, 1, notes.count(LevelSuccess))
	assert.Equal(t, 0, notes.count(LevelError))

	listed, err := store.ListJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestForm_SubmitFailureKeepsValues(t *testing.T) {
	store := newFakeStore()
	store.failCreate = &jobstore.ValidationError{StatusCode: 400, Message: "Bad Request"}
	notes := &recorder{}
	refreshCalls := 0
	form := NewForm(store, FormOptions{Notifier: notes, OnSuccess: func(types.JobApplication) { refreshCalls++ }})
	form.Set(filledValues())

	_, err := form.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, jobstore.IsValidation(err))

	assert.Equal(t, filledValues(), form.Values())
	assert.Equal(t, 1, notes.count(LevelError))
	assert.Equal(t, 0, notes.count(LevelSuccess))
	assert.Equal(t, 0, refreshCalls)
	assert.False(t, form.Submitting())
}

func TestForm_SubmitTransportFailure(t *testing.T) {
	store := newFakeStore()
	store.failCreate = errNetwork
	notes := &recorder{}
	form := NewForm(store, FormOptions{Notifier: notes})
	form.Set(filledValues())

	_, err := form.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, jobstore.IsTransport(err))
	assert.Equal(t, filledValues(), form.Values())
	assert.Equal(t, 1, notes.count(LevelError))
}

func TestForm_MissingRequiredFieldsNeverReachStore(t *testing.T) {
	store := newFakeStore()
	notes := &recorder{}
	form := NewForm(store, FormOptions{Notifier: notes})
	values := filledValues()
	values.Role = ""
	form.Set(values)

	_, err := form.Submit(context.Background())
	require.Error(t, err)
	var verr *jobstore.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "role", verr.Fields[0].Field)
	assert.Equal(t, 0, store.creates)
	assert.Equal(t, values, form.Values())
	assert.Equal(t, 1, notes.count(LevelError))
}

func TestForm_RejectsConcurrentSubmission(t *testing.T) {
	store := newFakeStore()
	store.block = make(chan struct{})
	form := NewForm(store, FormOptions{})
	form.Set(filledValues())

	done := make(chan error, 1)
	go func() {
		_, err := form.Submit(context.Background())
		done <- err
	}()

	require.Eventually(t, form.Submitting, time.Second, 5*time.Millisecond)

	_, err := form.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	close(store.block)
	require.NoError(t, <-done)
	assert.False(t, form.Submitting())
	assert.Equal(t, 1, store.creates)
}

func TestForm_SubmitValuesRejectedWhileInFlightKeepsValues(t *testing.T) {
	store := newFakeStore()
	store.block = make(chan struct{})
	store.failCreate = errNetwork
	form := NewForm(store, FormOptions{})

	first := filledValues()
	done := make(chan error, 1)
	go func() {
		_, err := form.SubmitValues(context.Background(), first)
		done <- err
	}()
	require.Eventually(t, form.Submitting, time.Second, 5*time.Millisecond)

	second := filledValues()
	second.CompanyName = "Globex"
	_, err := form.SubmitValues(context.Background(), second)
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	assert.Equal(t, first, form.Values())

	close(store.block)
	require.Error(t, <-done)
	assert.Equal(t, first, form.Values())
	assert.Equal(t, 1, store.creates)
}

func TestForm_SetField(t *testing.T) {
	form := NewForm(newFakeStore(), FormOptions{})

	require.NoError(t, form.SetField(FieldCompanyName, "Acme"))
	require.NoError(t, form.SetField(FieldRole, "SRE"))
	require.NoError(t, form.SetField(FieldJobType, "CONTRACT"))
	require.NoError(t, form.SetField(FieldLocation, "Lisbon"))
	require.NoError(t, form.SetField(FieldStatus, "OFFER"))
	require.NoError(t, form.SetField(FieldApplicationDate, "2024-01-31"))
	require.NoError(t, form.SetField(FieldLinks, "acme.com"))
	assert.Error(t, form.SetField("salary", "lots"))

	assert.Equal(t, FormValues{
		CompanyName:     "Acme",
		Role:            "SRE",
		JobType:         "CONTRACT",
		Location:        "Lisbon",
		Status:          "OFFER",
		ApplicationDate: "2024-01-31",
		Links:           "acme.com",
	}, form.Values())
}
