// Package types provides type definitions for the job applications exchanged with the job-storage API.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// JobType is the employment type of a job application.
type JobType string

// Supported job types.
const (
	JobTypeFullTime   JobType = "FULL_TIME"
	JobTypePartTime   JobType = "PART_TIME"
	JobTypeInternship JobType = "INTERNSHIP"
	JobTypeContract   JobType = "CONTRACT"
)

// Status is the stage a job application has reached.
type Status string

// Supported application statuses.
const (
	StatusApplied   Status = "APPLIED"
	StatusInterview Status = "INTERVIEW"
	StatusOffer     Status = "OFFER"
	StatusRejected  Status = "REJECTED"
)

// DefaultJobType is preselected on new applications.
const DefaultJobType = JobTypeFullTime

// DefaultStatus is the status of a freshly created application.
const DefaultStatus = StatusApplied

// DateLayout is the calendar-date wire format of applicationDate.
const DateLayout = "2006-01-02"

var jobTypeLabels = map[JobType]string{
	JobTypeFullTime:   "Full Time",
	JobTypePartTime:   "Part Time",
	JobTypeInternship: "Intern",
	JobTypeContract:   "Contract",
}

var statusLabels = map[Status]string{
	StatusApplied:   "Applied",
	StatusInterview: "Interview",
	StatusOffer:     "Offer",
	StatusRejected:  "Rejected",
}

// JobTypes returns the job types in display order.
func JobTypes() []JobType {
	return []JobType{JobTypeFullTime, JobTypePartTime, JobTypeInternship, JobTypeContract}
}

// Statuses returns the statuses in display order.
func Statuses() []Status {
	return []Status{StatusApplied, StatusInterview, StatusOffer, StatusRejected}
}

// Valid reports whether t is one of the enumerated job types.
func (t JobType) Valid() bool {
	_, ok := jobTypeLabels[t]
	return ok
}

// Label returns the option label shown in the form.
func (t JobType) Label() string {
	if label, ok := jobTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the option label shown in the form.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// JobApplication is a record as stored by the job-storage API.
type JobApplication struct {
	ID              JobID          `json:"id"`
	CompanyName     string         `json:"companyName"`
	Role            string         `json:"role"`
	JobType         JobType        `json:"jobType"`
	Location        string         `json:"location"`
	Status          Status         `json:"status"`
	ApplicationDate string         `json:"applicationDate,omitempty"`
	Links           []string       `json:"links"`
	CreatedAt       *LocalDateTime `json:"createdAt,omitempty"`
}

// NewJobApplication is the create payload. It never carries an id; the store assigns one.
type NewJobApplication struct {
	CompanyName     string   `json:"companyName" validate:"required"`
	Role            string   `json:"role" validate:"required"`
	JobType         JobType  `json:"jobType" validate:"required,oneof=FULL_TIME PART_TIME INTERNSHIP CONTRACT"`
	Location        string   `json:"location" validate:"required"`
	Status          Status   `json:"status" validate:"required,oneof=APPLIED INTERVIEW OFFER REJECTED"`
	ApplicationDate string   `json:"applicationDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Links           []string `json:"links"`
}

// Normalized returns a copy with links trimmed, empty links dropped and Links never nil.
func (n NewJobApplication) Normalized() NewJobApplication {
	n.Links = NormalizeLinks(n.Links)
	n.ApplicationDate = strings.TrimSpace(n.ApplicationDate)
	return n
}

// Validate validates the NewJobApplication using the validator.
func (n *NewJobApplication) Validate() error {
	validate := validator.New()
	return validate.Struct(n)
}

// ParseLinks splits comma-separated link text into trimmed, non-empty entries.
func ParseLinks(raw string) []string {
	return NormalizeLinks(strings.Split(raw, ","))
}

// NormalizeLinks trims every link and drops the empty ones, preserving order.
func NormalizeLinks(links []string) []string {
	out := make([]string, 0, len(links))
	for _, link := range links {
		link = strings.TrimSpace(link)
		if link != "" {
			out = append(out, link)
		}
	}
	return out
}
