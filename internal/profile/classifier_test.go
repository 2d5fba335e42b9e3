// File: internal/profile/classifier_test.go
package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davenull7x/listforge/internal/schema"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   schema.RawFieldDescriptor
		want schema.CanonicalFieldKey
	}{
		{"name by attribute", schema.RawFieldDescriptor{Type: "text", Name: "name"}, schema.FieldName},
		{"name by placeholder", schema.RawFieldDescriptor{Type: "text", Placeholder: "Your Name"}, schema.FieldName},
		{"first name never lands on name", schema.RawFieldDescriptor{Type: "text", Name: "first_name"}, schema.FieldFirstName},
		{"last name never lands on name", schema.RawFieldDescriptor{Type: "text", Name: "last_name"}, schema.FieldLastName},
		{"fname shorthand", schema.RawFieldDescriptor{Type: "text", Name: "fname"}, schema.FieldFirstName},
		{"lname shorthand", schema.RawFieldDescriptor{Type: "text", Name: "lname"}, schema.FieldLastName},
		{"email by token", schema.RawFieldDescriptor{Type: "text", Name: "contact_email"}, schema.FieldEmail},
		{"email by control type", schema.RawFieldDescriptor{Type: "email", Name: "x"}, schema.FieldEmail},
		{"url by token", schema.RawFieldDescriptor{Type: "text", Name: "website"}, schema.FieldURL},
		{"url by control type", schema.RawFieldDescriptor{Type: "url", Name: "x"}, schema.FieldURL},
		{"linkedin by name", schema.RawFieldDescriptor{Type: "text", Name: "linkedin"}, schema.FieldLinkedIn},
		{"linkedin never lands on url", schema.RawFieldDescriptor{Type: "text", Name: "linkedin_url"}, schema.FieldLinkedIn},
		{"linkedin by label", schema.RawFieldDescriptor{Type: "text", Label: "LinkedIn profile"}, schema.FieldLinkedIn},
		{"linkedin by control type", schema.RawFieldDescriptor{Type: "url", ID: "linkedin"}, schema.FieldLinkedIn},
		{"description by token", schema.RawFieldDescriptor{Type: "text", Label: "Short description"}, schema.FieldDescription},
		{"description by textarea type", schema.RawFieldDescriptor{Type: "textarea", Name: "x"}, schema.FieldDescription},
		{"category", schema.RawFieldDescriptor{Type: "select", Name: "category"}, schema.FieldCategory},
		{"tags", schema.RawFieldDescriptor{Type: "text", Name: "keywords"}, schema.FieldTags},
		{"phone by control type", schema.RawFieldDescriptor{Type: "tel", Name: "x"}, schema.FieldPhone},
		{"twitter", schema.RawFieldDescriptor{Type: "text", ID: "twitter_handle"}, schema.FieldTwitter},
		{"logo", schema.RawFieldDescriptor{Type: "file", Name: "logo_upload"}, schema.FieldLogo},
		{"pricing", schema.RawFieldDescriptor{Type: "text", Name: "pricing_model"}, schema.FieldPricing},
		{"unmatched", schema.RawFieldDescriptor{Type: "text", Name: "captcha_answer"}, schema.FieldUnclassified},
		{"empty descriptor", schema.RawFieldDescriptor{Type: "text"}, schema.FieldUnclassified},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.in))
		})
	}
}

// Classification must be a pure lookup: identical input, identical output,
// no matter how often or in what order it runs.
func TestClassifyIsPure(t *testing.T) {
	d := schema.RawFieldDescriptor{Type: "text", Name: "company_website", Label: "Company Website"}

	first := Classify(d)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Classify(d))
	}
	assert.Equal(t, schema.FieldURL, first)
}

func TestClassifyPriorityOrder(t *testing.T) {
	// "email_description" matches both the email and description rules; the
	// table order decides, and email comes first.
	d := schema.RawFieldDescriptor{Type: "text", Name: "email_description"}
	assert.Equal(t, schema.FieldEmail, Classify(d))

	// A textarea whose attributes scream "name" is still a name field; the
	// name rule outranks the textarea type fallback.
	d = schema.RawFieldDescriptor{Type: "textarea", Name: "name"}
	assert.Equal(t, schema.FieldName, Classify(d))

	// A long-text control mentioning the site is still a description. The
	// url rule ignores textareas so its "site" token cannot steal them.
	d = schema.RawFieldDescriptor{Type: "textarea", Label: "Site description"}
	assert.Equal(t, schema.FieldDescription, Classify(d))

	// Without a description token it still stays off the url key.
	d = schema.RawFieldDescriptor{Type: "textarea", Name: "site_notes"}
	assert.Equal(t, schema.FieldDescription, Classify(d))
}

func TestMappingKey(t *testing.T) {
	t.Run("classified field uses canonical key", func(t *testing.T) {
		d := schema.RawFieldDescriptor{Type: "email", Name: "contact"}
		assert.Equal(t, "email", MappingKey(d))
	})

	t.Run("unclassified falls back to name then id then type", func(t *testing.T) {
		assert.Equal(t, "custom_field", MappingKey(schema.RawFieldDescriptor{Type: "text", Name: "custom_field"}))
		assert.Equal(t, "widget", MappingKey(schema.RawFieldDescriptor{Type: "text", ID: "widget"}))
		assert.Equal(t, "text", MappingKey(schema.RawFieldDescriptor{Type: "text"}))
	})
}
