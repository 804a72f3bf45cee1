package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jonathan/job-tracker/internal/tracker"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintList_Populated(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintList(tracker.View{Kind: tracker.ViewPopulated, Jobs: []types.JobApplication{
		{ID: "2", CompanyName: "Globex", Role: "SRE", JobType: types.JobTypePartTime, Status: types.StatusOffer, ApplicationDate: "2024-03-05", Links: []string{"a.com", "b.com", "c.com", "d.com"}},
		{ID: "1", CompanyName: "Acme Corp", Role: "Senior Engineer", JobType: types.JobTypeFullTime, Status: types.StatusApplied},
	}})
	output := buf.String()

	assert.Contains(t, output, "#2  Globex")
	assert.Contains(t, output, "Offer")
	assert.Contains(t, output, "part time")
	assert.Contains(t, output, "Mar 5, 2024")
	assert.Contains(t, output, "https://a.com")
	assert.NotContains(t, output, "https://d.com")
	assert.Contains(t, output, "... and 1 more")
	assert.Contains(t, output, "No location specified")
	assert.Contains(t, output, "2 job application(s)")
	assert.Less(t, strings.Index(output, "Globex"), strings.Index(output, "Acme Corp"))
}

func TestPrintList_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintList(tracker.View{Kind: tracker.ViewEmpty})

	assert.Contains(t, buf.String(), "NO JOB APPLICATIONS YET")
}

func TestPrintList_Loading(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintList(tracker.View{Kind: tracker.ViewLoading})

	assert.Equal(t, "Loading...\n", buf.String())
}

func TestPrintCreated_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintCreated(nil)

	assert.Empty(t, buf.String())
}

func TestPrintBox_LinesHaveEqualWidth(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", "short\n"+strings.Repeat("é", 80)+"\n—")

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
	assert.Contains(t, buf.String(), "...")
}
