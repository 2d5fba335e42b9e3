// internal/profile/classifier.go
package profile

import (
	"strings"

	"github.com/davenull7x/listforge/internal/schema"
)

// descriptorText is the normalized haystack a rule matches against: the
// lower-cased concatenation of name, id, placeholder and label.
type descriptorText struct {
	text      string
	fieldType string
}

func normalize(d schema.RawFieldDescriptor) descriptorText {
	parts := []string{d.Name, d.ID, d.Placeholder, d.Label}
	return descriptorText{
		text:      strings.ToLower(strings.Join(parts, " ")),
		fieldType: strings.ToLower(d.Type),
	}
}

func (dt descriptorText) has(tokens ...string) bool {
	for _, tok := range tokens {
		if strings.Contains(dt.text, tok) {
			return true
		}
	}
	return false
}

// classifierRule is one entry of the fixed-priority rule table.
type classifierRule struct {
	key   schema.CanonicalFieldKey
	match func(dt descriptorText) bool
}

// classifierRules is evaluated in order; the first match wins. Order matters
// because of overlapping substrings: the generic "name" rule must exclude
// the first/last tokens so that "first_name" never lands on it.
var classifierRules = []classifierRule{
	{schema.FieldName, func(dt descriptorText) bool {
		return dt.has("name") && !dt.has("first", "last")
	}},
	{schema.FieldFirstName, func(dt descriptorText) bool {
		return dt.has("first") && dt.has("name") || dt.has("fname")
	}},
	{schema.FieldLastName, func(dt descriptorText) bool {
		return dt.has("last") && dt.has("name") || dt.has("lname")
	}},
	{schema.FieldEmail, func(dt descriptorText) bool {
		return dt.has("email", "e-mail") || dt.fieldType == "email"
	}},
	{schema.FieldURL, func(dt descriptorText) bool {
		// "link" is a substring of "linkedin", so social-profile fields must
		// be excluded here or the linkedin rule below can never fire. Long
		// text controls belong to the description fallback, not here.
		if dt.has("linkedin") || dt.fieldType == "textarea" {
			return false
		}
		return dt.has("url", "website", "link", "site") || dt.fieldType == "url"
	}},
	{schema.FieldDescription, func(dt descriptorText) bool {
		return dt.has("description", "desc", "about", "summary") || dt.fieldType == "textarea"
	}},
	{schema.FieldCategory, func(dt descriptorText) bool {
		return dt.has("category", "categories")
	}},
	{schema.FieldTags, func(dt descriptorText) bool {
		return dt.has("tag", "keyword")
	}},
	{schema.FieldTitle, func(dt descriptorText) bool {
		return dt.has("title")
	}},
	{schema.FieldCompany, func(dt descriptorText) bool {
		return dt.has("company", "organization", "organisation")
	}},
	{schema.FieldPhone, func(dt descriptorText) bool {
		return dt.has("phone", "mobile", "tel") || dt.fieldType == "tel"
	}},
	{schema.FieldTwitter, func(dt descriptorText) bool {
		return dt.has("twitter")
	}},
	{schema.FieldLinkedIn, func(dt descriptorText) bool {
		return dt.has("linkedin")
	}},
	{schema.FieldGitHub, func(dt descriptorText) bool {
		return dt.has("github")
	}},
	{schema.FieldLogo, func(dt descriptorText) bool {
		return dt.has("logo", "image")
	}},
	{schema.FieldScreenshot, func(dt descriptorText) bool {
		return dt.has("screenshot")
	}},
	{schema.FieldVideo, func(dt descriptorText) bool {
		return dt.has("video")
	}},
	{schema.FieldPricing, func(dt descriptorText) bool {
		return dt.has("pricing", "price")
	}},
}

// Classify maps one raw field descriptor onto exactly one canonical key, or
// FieldUnclassified when no rule matches. It is pure: no side effects, same
// output for the same input, safe to call concurrently.
func Classify(d schema.RawFieldDescriptor) schema.CanonicalFieldKey {
	dt := normalize(d)
	for _, r := range classifierRules {
		if r.match(dt) {
			return r.key
		}
	}
	return schema.FieldUnclassified
}

// MappingKey is the field-mapping key for a descriptor: the canonical key
// when classified, otherwise the raw name/id pseudo-key.
func MappingKey(d schema.RawFieldDescriptor) string {
	if key := Classify(d); key != schema.FieldUnclassified {
		return string(key)
	}
	if d.Name != "" {
		return d.Name
	}
	if d.ID != "" {
		return d.ID
	}
	return d.Type
}
