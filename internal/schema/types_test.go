// File: internal/schema/types_test.go
package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validData() SubmissionData {
	return SubmissionData{
		Name:        "Acme Widgets",
		URL:         "https://acme.example",
		Email:       "hello@acme.example",
		Description: strings.Repeat("Widgets for every occasion. ", 3),
	}
}

func TestSubmissionDataValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		d := validData()
		assert.NoError(t, d.Validate())
	})

	t.Run("empty name", func(t *testing.T) {
		d := validData()
		d.Name = "   "
		err := d.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "name")
	})

	t.Run("relative url", func(t *testing.T) {
		d := validData()
		d.URL = "/just/a/path"
		err := d.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "absolute URL")
	})

	t.Run("invalid email", func(t *testing.T) {
		d := validData()
		d.Email = "not-an-address"
		assert.Error(t, d.Validate())
	})

	t.Run("description too short", func(t *testing.T) {
		d := validData()
		d.Description = "too short"
		err := d.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "description length")
	})

	t.Run("description too long", func(t *testing.T) {
		d := validData()
		d.Description = strings.Repeat("x", 301)
		assert.Error(t, d.Validate())
	})
}

func TestSubmissionDataValue(t *testing.T) {
	d := validData()
	d.Category = "tools"
	d.Extra = map[string]string{"twitter": "@acme", "blank": ""}

	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"name", "Acme Widgets", true},
		{"url", "https://acme.example", true},
		{"email", "hello@acme.example", true},
		{"category", "tools", true},
		{"tags", "", false},
		{"twitter", "@acme", true},
		{"blank", "", false},
		{"unknown_key", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			got, ok := d.Value(tc.key)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSiteConfigUsable(t *testing.T) {
	var nilCfg *SiteConfig
	assert.False(t, nilCfg.Usable())

	assert.False(t, (&SiteConfig{}).Usable())
	assert.False(t, (&SiteConfig{Form: &FormConfig{}, ManualSubmissionRequired: true}).Usable())
	assert.False(t, (&SiteConfig{Form: &FormConfig{}, Error: "boom"}).Usable())
	assert.True(t, (&SiteConfig{Form: &FormConfig{}}).Usable())
}

func TestPageExtractionFirstForm(t *testing.T) {
	empty := PageExtraction{}
	assert.Nil(t, empty.FirstForm())

	ext := PageExtraction{Forms: []ExtractedForm{
		{Fields: []RawFieldDescriptor{{Name: "a"}}},
		{Fields: []RawFieldDescriptor{{Name: "b"}}},
	}}
	first := ext.FirstForm()
	assert.NotNil(t, first)
	assert.Equal(t, "a", first.Fields[0].Name)
}
