// File: internal/runner/submit_test.go
package runner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davenull7x/listforge/internal/enhance"
	"github.com/davenull7x/listforge/internal/schema"
	"github.com/davenull7x/listforge/internal/store"
)

// fakePageDriver accepts every page interaction and records typed values.
type fakePageDriver struct {
	navigateErr map[string]error
	typed       map[string]string
	calls       []string
}

func newFakePageDriver() *fakePageDriver {
	return &fakePageDriver{
		navigateErr: map[string]error{},
		typed:       map[string]string{},
	}
}

func (f *fakePageDriver) Navigate(url string) error {
	f.calls = append(f.calls, "navigate:"+url)
	return f.navigateErr[url]
}

func (f *fakePageDriver) ClickSelector(selector string) (bool, error) {
	f.calls = append(f.calls, "click:"+selector)
	return true, nil
}

func (f *fakePageDriver) ClickByText(text string) (bool, error) { return true, nil }
func (f *fakePageDriver) ElementExists(selector string) (bool, error) { return true, nil }

func (f *fakePageDriver) ClearAndType(selector, text string) error {
	f.typed[selector] = text
	return nil
}

func (f *fakePageDriver) SetSelectValue(selector, value string) (bool, error) {
	f.typed[selector] = value
	return true, nil
}

func (f *fakePageDriver) WaitForAsync(d time.Duration) error { return nil }
func (f *fakePageDriver) WaitNavigationOrGrace(grace time.Duration) (bool, error) { return true, nil }
func (f *fakePageDriver) Screenshot(path string) error { return nil }

type fakeEnhancer struct {
	suggestion *enhance.Suggestion
	err        error
	requests   []enhance.Request
}

func (f *fakeEnhancer) Improve(ctx context.Context, req enhance.Request) (*enhance.Suggestion, error) {
	f.requests = append(f.requests, req)
	return f.suggestion, f.err
}

func submissionData() schema.SubmissionData {
	return schema.SubmissionData{
		Name:        "Acme Widgets",
		URL:         "https://acme.example",
		Email:       "hello@acme.example",
		Description: strings.Repeat("Widgets for every occasion. ", 3),
		Category:    "tools",
	}
}

func seedProfiles(t *testing.T, st *store.Store) {
	t.Helper()
	require.NoError(t, st.SaveProfiles(map[string]schema.SiteConfig{
		"good": {
			URL:              "https://good.example/submit",
			HasForm:          true,
			SubmissionMethod: schema.MethodForm,
			Form: &schema.FormConfig{
				Fields: schema.FieldMapping{
					"name":  {Selector: "#name", Type: "text"},
					"email": {Selector: "#email", Type: "email"},
				},
				SubmitButtonSelector: "#go",
			},
		},
		"manual": {
			URL:                      "https://manual.example",
			SubmissionMethod:         schema.MethodManual,
			ManualSubmissionRequired: true,
			Error:                    "no submission form or submission link found",
		},
	}))
}

func TestSubmitterRun(t *testing.T) {
	cfg, st := fastRunConfig(t)
	seedProfiles(t, st)

	driver := newFakePageDriver()
	driver.navigateErr["https://down.example"] = errors.New("net::ERR_TIMED_OUT")

	dirs := []schema.DirectoryRecord{
		{Name: "good", URL: "https://good.example"},
		{Name: "manual", URL: "https://manual.example"},
		{Name: "down", URL: "https://down.example"},
	}

	summary, err := NewSubmitter(cfg, st, nil, zap.NewNop()).
		Run(context.Background(), driver, dirs, submissionData())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Manual)
	assert.Equal(t, 1, summary.Failed)

	assert.Equal(t, "Acme Widgets", driver.typed["#name"])
	assert.Equal(t, "hello@acme.example", driver.typed["#email"])

	records, err := st.LoadResults()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "good", records[0].Name)
	assert.True(t, records[0].Result.Success)
	assert.True(t, records[1].Result.RequiresManual)
	assert.False(t, records[2].Result.Success)
}

func TestSubmitterAppliesEnhancement(t *testing.T) {
	cfg, st := fastRunConfig(t)
	seedProfiles(t, st)

	improved := strings.Repeat("Sharper copy about widgets. ", 3)
	enh := &fakeEnhancer{suggestion: &enhance.Suggestion{Description: improved}}

	driver := newFakePageDriver()
	dirs := []schema.DirectoryRecord{{Name: "good", URL: "https://good.example"}}

	data := submissionData()
	_, err := NewSubmitter(cfg, st, enh, zap.NewNop()).
		Run(context.Background(), driver, dirs, data)
	require.NoError(t, err)

	// The enhancer is consulted once per run, with the listing context.
	require.Len(t, enh.requests, 1)
	assert.Equal(t, data.URL, enh.requests[0].URL)
	assert.Equal(t, data.Name, enh.requests[0].Title)
}

func TestSubmitterToleratesEnhancerFailure(t *testing.T) {
	cfg, st := fastRunConfig(t)
	seedProfiles(t, st)

	enh := &fakeEnhancer{err: errors.New("quota exceeded")}
	driver := newFakePageDriver()
	dirs := []schema.DirectoryRecord{{Name: "good", URL: "https://good.example"}}

	summary, err := NewSubmitter(cfg, st, enh, zap.NewNop()).
		Run(context.Background(), driver, dirs, submissionData())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	// Originals survive the failed enhancement.
	assert.Equal(t, "Acme Widgets", driver.typed["#name"])
}

func TestSubmitterWithoutProfiles(t *testing.T) {
	cfg, st := fastRunConfig(t)

	driver := newFakePageDriver()
	dirs := []schema.DirectoryRecord{{Name: "unknown", URL: "https://unknown.example"}}

	summary, err := NewSubmitter(cfg, st, nil, zap.NewNop()).
		Run(context.Background(), driver, dirs, submissionData())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Manual)

	records, err := st.LoadResults()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records[0].Result.Message, "no site profile")
}
