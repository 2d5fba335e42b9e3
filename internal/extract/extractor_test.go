// File: internal/extract/extractor_test.go
package extract

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeEvaluator plays back a canned page-walk result the way the browser
// session would: by unmarshaling the script's JSON into the out value.
type fakeEvaluator struct {
	payload string
	err     error
	expr    string
}

func (f *fakeEvaluator) Evaluate(expr string, out any) error {
	f.expr = expr
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.payload), out)
}

func TestExtract(t *testing.T) {
	ev := &fakeEvaluator{payload: `{
		"url": "https://dir.example/submit",
		"metadata": {
			"title": "Submit your site",
			"description": "Add your site to the directory",
			"keywords": "directory,submit"
		},
		"forms": [{
			"fields": [
				{"type": "text", "name": "name", "id": "name", "placeholder": "", "label": "Name", "required": true, "min_length": 2, "max_length": 80, "options": []},
				{"type": "select", "name": "category", "id": "", "placeholder": "", "label": "", "required": false, "options": ["tools", "games"]}
			],
			"submit": {"type": "submit", "name": "", "id": "go", "placeholder": "", "label": "", "required": false, "options": []}
		}],
		"anchors": [{"href": "/pricing", "text": "Pricing"}],
		"has_captcha": true
	}`}

	ext, err := New(zap.NewNop()).Extract(ev)
	require.NoError(t, err)

	assert.Equal(t, "https://dir.example/submit", ext.URL)
	assert.Equal(t, "Submit your site", ext.Metadata.Title)
	assert.True(t, ext.HasCaptcha)

	require.Len(t, ext.Forms, 1)
	form := ext.FirstForm()
	require.NotNil(t, form)
	require.Len(t, form.Fields, 2)

	name := form.Fields[0]
	assert.Equal(t, "name", name.Name)
	assert.True(t, name.Required)
	assert.Equal(t, 2, name.MinLength)
	assert.Equal(t, 80, name.MaxLength)

	category := form.Fields[1]
	assert.Equal(t, "select", category.Type)
	assert.Equal(t, []string{"tools", "games"}, category.Options)

	require.NotNil(t, form.Submit)
	assert.Equal(t, "go", form.Submit.ID)

	require.Len(t, ext.Anchors, 1)
	assert.Equal(t, "/pricing", ext.Anchors[0].Href)
}

func TestExtractRunsTheWalkScript(t *testing.T) {
	ev := &fakeEvaluator{payload: `{"url": "https://a.example", "forms": [], "anchors": []}`}

	_, err := New(zap.NewNop()).Extract(ev)
	require.NoError(t, err)
	assert.Equal(t, pageWalkScript, ev.expr)
}

func TestExtractEvaluationFailure(t *testing.T) {
	ev := &fakeEvaluator{err: errors.New("execution context destroyed")}

	_, err := New(zap.NewNop()).Extract(ev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page extraction failed")
}
