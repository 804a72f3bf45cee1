package rendering

import (
	"strings"
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

// NoDate is shown in place of a missing application date.
const NoDate = "—"

// NoLocation is shown in place of an empty location.
const NoLocation = "No location specified"

// displayDateLayout renders dates like "Mar 5, 2024".
const displayDateLayout = "Jan 2, 2006"

// FormatDate renders a YYYY-MM-DD date for display. Values that are not plain dates
// but carry a full timestamp are accepted too; anything unparseable is shown as is.
func FormatDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return NoDate
	}
	for _, layout := range []string{types.DateLayout, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(displayDateLayout)
		}
	}
	return value
}

// LinkHref returns an address a browser can follow. Links stored without a scheme are
// assumed to be https.
func LinkHref(link string) string {
	link = strings.TrimSpace(link)
	if link == "" || strings.HasPrefix(link, "http") {
		return link
	}
	return "https://" + link
}

// JobTypeLabel renders a job type in lower case words, e.g. "full time".
func JobTypeLabel(jobType types.JobType) string {
	return strings.ToLower(strings.ReplaceAll(string(jobType), "_", " "))
}

// Location returns the location or a placeholder when it is empty.
func Location(location string) string {
	if strings.TrimSpace(location) == "" {
		return NoLocation
	}
	return location
}

// StatusStyle holds the CSS classes of a status badge.
type StatusStyle struct {
	Background string
	Text       string
	Border     string
}

// Classes joins the badge classes.
func (s StatusStyle) Classes() string {
	return s.Background + " " + s.Text + " " + s.Border
}

var statusStyles = map[types.Status]StatusStyle{
	types.StatusApplied:   {Background: "bg-blue-100", Text: "text-blue-800", Border: "border-blue-200"},
	types.StatusInterview: {Background: "bg-purple-100", Text: "text-purple-800", Border: "border-purple-200"},
	types.StatusOffer:     {Background: "bg-green-100", Text: "text-green-800", Border: "border-green-200"},
	types.StatusRejected:  {Background: "bg-red-100", Text: "text-red-800", Border: "border-red-200"},
}

// StatusStyleFor returns the badge style of a status. Unknown statuses are styled
// like APPLIED.
func StatusStyleFor(status types.Status) StatusStyle {
	if style, ok := statusStyles[status]; ok {
		return style
	}
	return statusStyles[types.StatusApplied]
}
