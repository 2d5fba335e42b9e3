// internal/schema/types.go
package schema

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"
)

// CanonicalFieldKey is one normalized semantic name that many differently
// labeled raw form fields map onto. Unrecognized fields fall back to their
// raw name/id as a pseudo-key.
type CanonicalFieldKey string

const (
	FieldName        CanonicalFieldKey = "name"
	FieldFirstName   CanonicalFieldKey = "firstName"
	FieldLastName    CanonicalFieldKey = "lastName"
	FieldEmail       CanonicalFieldKey = "email"
	FieldURL         CanonicalFieldKey = "url"
	FieldDescription CanonicalFieldKey = "description"
	FieldCategory    CanonicalFieldKey = "category"
	FieldTags        CanonicalFieldKey = "tags"
	FieldTitle       CanonicalFieldKey = "title"
	FieldCompany     CanonicalFieldKey = "company"
	FieldPhone       CanonicalFieldKey = "phone"
	FieldTwitter     CanonicalFieldKey = "twitter"
	FieldLinkedIn    CanonicalFieldKey = "linkedin"
	FieldGitHub      CanonicalFieldKey = "github"
	FieldLogo        CanonicalFieldKey = "logo"
	FieldScreenshot  CanonicalFieldKey = "screenshot"
	FieldVideo       CanonicalFieldKey = "video"
	FieldPricing     CanonicalFieldKey = "pricing"

	// FieldUnclassified is the classifier's explicit fallback marker.
	FieldUnclassified CanonicalFieldKey = "unclassified"
)

// DirectoryRecord identifies one target site to be profiled and submitted to.
// Name is the identity and the join key into the site profile store.
type DirectoryRecord struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	// SubmitURL, when present, points directly at the submission form and is
	// preferred over URL during submission.
	SubmitURL string `json:"submit_url,omitempty"`
	// RevealControl is an HTML-ish snippet describing a button/link that must
	// be activated before the form appears. It is declarative, not a live
	// selector, because the control may be rendered client-side.
	RevealControl string `json:"reveal_control,omitempty"`
	Status        string `json:"status"`
}

// RawFieldDescriptor holds the unclassified, directly extracted attributes of
// one form control. Produced fresh on every extraction pass and never
// persisted directly.
type RawFieldDescriptor struct {
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	Placeholder string   `json:"placeholder"`
	Label       string   `json:"label"`
	Required    bool     `json:"required"`
	Pattern     string   `json:"pattern,omitempty"`
	MinLength   int      `json:"min_length,omitempty"`
	MaxLength   int      `json:"max_length,omitempty"`
	Options     []string `json:"options,omitempty"`
}

// FieldTarget is one entry of a SiteConfig field mapping: how to re-locate
// and fill a classified field on a later visit.
type FieldTarget struct {
	Selector   string `json:"selector"`
	Type       string `json:"type"`
	SourceName string `json:"source_name,omitempty"`
	SourceID   string `json:"source_id,omitempty"`
}

// FieldMapping maps canonical keys (or raw fallback keys) to field targets.
// Keys are unique within one SiteConfig; during construction the last field
// seen for a key overwrites earlier ones.
type FieldMapping map[string]FieldTarget

// FormConfig describes the single form used for automated submission.
type FormConfig struct {
	Fields               FieldMapping `json:"fields"`
	SubmitButtonSelector string       `json:"submit_button_selector,omitempty"`
}

// SubmissionMethod describes how a site accepts submissions.
type SubmissionMethod string

const (
	MethodForm   SubmissionMethod = "form"
	MethodLink   SubmissionMethod = "link"
	MethodManual SubmissionMethod = "manual"
)

// SiteConfig is the persisted, reusable submission strategy for one site.
// It is built whole on every analysis pass and fully replaced, never merged.
type SiteConfig struct {
	URL                      string           `json:"url"`
	HasForm                  bool             `json:"has_form"`
	RequiresCaptcha          bool             `json:"requires_captcha"`
	SubmissionMethod         SubmissionMethod `json:"submission_method"`
	Form                     *FormConfig      `json:"form,omitempty"`
	SubmissionLinks          []string         `json:"submission_links,omitempty"`
	ManualSubmissionRequired bool             `json:"manual_submission_required,omitempty"`
	Error                    string           `json:"error,omitempty"`
}

// Usable reports whether the config carries a form block the orchestrator can
// attempt to fill.
func (sc *SiteConfig) Usable() bool {
	return sc != nil && !sc.ManualSubmissionRequired && sc.Error == "" && sc.Form != nil
}

// SubmissionData carries the operator-supplied values placed into classified
// fields. Extra allows additional canonical keys (company, twitter, ...).
type SubmissionData struct {
	Name        string            `json:"name"`
	URL         string            `json:"url"`
	Email       string            `json:"email"`
	Description string            `json:"description"`
	Category    string            `json:"category,omitempty"`
	Tags        string            `json:"tags,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

const (
	descriptionMinLen = 50
	descriptionMaxLen = 300
)

// Validate checks the operator input before any submission run starts.
func (d *SubmissionData) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("submission data: name must not be empty")
	}
	u, err := url.Parse(d.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("submission data: url %q is not a valid absolute URL", d.URL)
	}
	if _, err := mail.ParseAddress(d.Email); err != nil {
		return fmt.Errorf("submission data: email %q is not valid: %w", d.Email, err)
	}
	if n := len(d.Description); n < descriptionMinLen || n > descriptionMaxLen {
		return fmt.Errorf("submission data: description length %d outside [%d,%d]", n, descriptionMinLen, descriptionMaxLen)
	}
	return nil
}

// Value resolves the text for a mapping key, consulting the fixed fields
// first and then Extra. The second return is false when no value is known.
func (d *SubmissionData) Value(key string) (string, bool) {
	switch CanonicalFieldKey(key) {
	case FieldName:
		return d.Name, d.Name != ""
	case FieldURL:
		return d.URL, d.URL != ""
	case FieldEmail:
		return d.Email, d.Email != ""
	case FieldDescription:
		return d.Description, d.Description != ""
	case FieldCategory:
		return d.Category, d.Category != ""
	case FieldTags:
		return d.Tags, d.Tags != ""
	}
	v, ok := d.Extra[key]
	return v, ok && v != ""
}

// SubmissionResult is the terminal classification of one submission attempt.
type SubmissionResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	RequiresManual bool   `json:"requires_manual,omitempty"`
	UsedSiteConfig bool   `json:"used_site_config,omitempty"`
}

// SubmissionRecord is one persisted entry of the result store.
type SubmissionRecord struct {
	Name      string           `json:"name"`
	URL       string           `json:"url"`
	Result    SubmissionResult `json:"result"`
	Timestamp time.Time        `json:"timestamp"`
}

// FieldStat is one ranked row of the cross-site field frequency report.
type FieldStat struct {
	Key       string   `json:"canonical_key"`
	Count     int      `json:"count"`
	Sites     []string `json:"sites"`
	Frequency float64  `json:"frequency"`
}

// FieldStatsReport is the persisted shape of the statistics store.
type FieldStatsReport struct {
	TotalSites         int                       `json:"total_sites"`
	SuccessfulAnalysis int                       `json:"successful_analysis"`
	FieldRequirements  []FieldStat               `json:"field_requirements"`
	PerSiteAnalysis    map[string]PageExtraction `json:"per_site_analysis"`
}

// PageMetadata is descriptive page content captured during extraction, used
// as context for the optional content-generation collaborator.
type PageMetadata struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Keywords      string `json:"keywords"`
	OGTitle       string `json:"og_title,omitempty"`
	OGDescription string `json:"og_description,omitempty"`
	OGImage       string `json:"og_image,omitempty"`
}

// AnchorInfo is one candidate link captured during extraction.
type AnchorInfo struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

// ExtractedForm is the raw harvest of one form element, in document order.
type ExtractedForm struct {
	Fields []RawFieldDescriptor `json:"fields"`
	// Submit describes the form's submit control when one was found.
	Submit *RawFieldDescriptor `json:"submit,omitempty"`
}

// PageExtraction is the full output of one in-page extraction pass.
type PageExtraction struct {
	URL        string          `json:"url"`
	Metadata   PageMetadata    `json:"metadata"`
	Forms      []ExtractedForm `json:"forms"`
	Anchors    []AnchorInfo    `json:"anchors"`
	HasCaptcha bool            `json:"has_captcha"`
}

// FirstForm returns the first extracted form, or nil. Directory submission
// pages are assumed single-form; only the first is mapped.
func (p *PageExtraction) FirstForm() *ExtractedForm {
	if len(p.Forms) == 0 {
		return nil
	}
	return &p.Forms[0]
}
