package rendering

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/job-tracker/internal/tracker"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func sampleJobs() []types.JobApplication {
	return []types.JobApplication{
		{ID: "3", CompanyName: "Globex", Role: "SRE", JobType: types.JobTypeFullTime, Status: types.StatusOffer, ApplicationDate: "2024-03-05", Links: []string{"globex.com", "https://jobs.globex.com/1"}},
		{ID: "1", CompanyName: "Acme", Role: "Dev", JobType: types.JobTypeContract, Status: types.StatusApplied, Links: []string{}},
	}
}

func TestRenderer_ListPopulated(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.List(&buf, tracker.View{Kind: tracker.ViewPopulated, Jobs: sampleJobs()}))
	doc := parse(t, buf.String())

	jobs := doc.Find("article.job")
	require.Equal(t, 2, jobs.Length())

	first := jobs.First()
	assert.Equal(t, "3", first.AttrOr("data-id", ""))
	assert.Equal(t, "Globex", first.Find(".company").Text())
	assert.Equal(t, "Applied: Mar 5, 2024", first.Find(".applied").Text())
	assert.Equal(t, "full time", first.Find(".job-type").Text())
	assert.Equal(t, NoLocation, first.Find(".location").Text())
	assert.True(t, first.Find(".badge").HasClass("bg-green-100"))
	assert.Equal(t, "/jobs/3/delete", first.Find("a.delete").AttrOr("href", ""))

	hrefs := first.Find(".links a").Map(func(_ int, s *goquery.Selection) string { return s.AttrOr("href", "") })
	assert.Equal(t, []string{"https://globex.com", "https://jobs.globex.com/1"}, hrefs)

	second := jobs.Eq(1)
	assert.Equal(t, "Applied: "+NoDate, second.Find(".applied").Text())
	assert.Zero(t, second.Find(".links").Length())
}

func TestRenderer_ListEmptyAndLoading(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.List(&buf, tracker.View{Kind: tracker.ViewEmpty}))
	doc := parse(t, buf.String())
	assert.Equal(t, "No job applications yet", doc.Find(".empty-state h3").Text())
	assert.Zero(t, doc.Find("article.job").Length())

	buf.Reset()
	require.NoError(t, r.List(&buf, tracker.View{Kind: tracker.ViewLoading}))
	doc = parse(t, buf.String())
	assert.Equal(t, 1, doc.Find(".loading .spinner").Length())
}

func TestRenderer_PageWithModalAndToasts(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	values := tracker.DefaultFormValues()
	values.CompanyName = "<Acme>"
	values.Status = string(types.StatusInterview)
	toasts := tracker.NewToasts(3 * time.Second)
	toasts.Notify(tracker.LevelError, tracker.MsgCreateFailure)

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, PageData{
		Title:     "Job Tracker",
		List:      tracker.View{Kind: tracker.ViewEmpty},
		ModalOpen: true,
		Form:      NewFormData(values, true, map[string]string{"role": "is required"}),
		Toasts:    toasts.Active(),
		ToastTTL:  toasts.TTL(),
	}))
	doc := parse(t, buf.String())

	assert.Equal(t, 1, doc.Find("#modal").Length())
	assert.Equal(t, "<Acme>", doc.Find(`input[name="companyName"]`).AttrOr("value", ""))
	assert.Equal(t, "FULL_TIME", doc.Find(`select[name="jobType"] option[selected]`).AttrOr("value", ""))
	assert.Equal(t, "INTERVIEW", doc.Find(`input[name="status"][checked]`).AttrOr("value", ""))
	_, disabled := doc.Find(`#job-form button[type="submit"]`).Attr("disabled")
	assert.True(t, disabled)
	assert.Equal(t, "is required", doc.Find(`.field-error[data-field="role"]`).Text())

	toast := doc.Find(".toast")
	require.Equal(t, 1, toast.Length())
	assert.True(t, toast.HasClass("toast-error"))
	assert.Contains(t, toast.Text(), tracker.MsgCreateFailure)
	assert.Contains(t, toast.AttrOr("style", ""), "3s")
}

func TestRenderer_FragmentCarriesToasts(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	toasts := tracker.NewToasts(3 * time.Second)
	toasts.Notify(tracker.LevelError, tracker.MsgLoadFailure)

	var buf bytes.Buffer
	require.NoError(t, r.Fragment(&buf, FragmentData{
		List:     tracker.View{Kind: tracker.ViewPopulated, Jobs: sampleJobs()},
		Toasts:   toasts.Drain(),
		ToastTTL: toasts.TTL(),
	}))
	doc := parse(t, buf.String())

	assert.Equal(t, 2, doc.Find("article.job").Length())
	assert.Contains(t, doc.Find(".toasts .toast-error").Text(), tracker.MsgLoadFailure)
	assert.Zero(t, doc.Find("#modal").Length())
}

func TestRenderer_PageWithoutModal(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, PageData{Title: "Job Tracker", List: tracker.View{Kind: tracker.ViewLoading}}))
	doc := parse(t, buf.String())
	assert.Zero(t, doc.Find("#modal").Length())
	assert.Equal(t, "/jobs/new", doc.Find("#open-modal").AttrOr("href", ""))
}

func TestRenderer_Confirm(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Confirm(&buf, ConfirmData{
		Title:  "Delete",
		Job:    sampleJobs()[0],
		Prompt: tracker.ConfirmDeletePrompt,
	}))
	doc := parse(t, buf.String())
	assert.Equal(t, tracker.ConfirmDeletePrompt, doc.Find(".prompt").Text())
	assert.Equal(t, "/jobs/3/delete", doc.Find("form").AttrOr("action", ""))
	assert.Equal(t, "yes", doc.Find(`input[name="confirm"]`).AttrOr("value", ""))
}

func TestTemplateError(t *testing.T) {
	err := &TemplateError{Name: "page", Message: "failed", Cause: assert.AnError}
	assert.Contains(t, err.Error(), `template "page" error: failed`)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, "template error: bad", (&TemplateError{Message: "bad"}).Error())
}
