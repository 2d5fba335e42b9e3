// internal/profile/builder.go
package profile

import (
	"strings"

	"go.uber.org/zap"

	"github.com/davenull7x/listforge/internal/schema"
)

// Builder turns one site's extraction output into a SiteConfig. It never
// fails: zero fields, zero forms and analysis errors all produce a config
// flagged for manual submission instead of an error return.
type Builder struct {
	log *zap.Logger
}

func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{log: logger.Named("profile_builder")}
}

// nonFillableTypes are controls that never receive operator data.
var nonFillableTypes = map[string]bool{
	"hidden": true,
	"submit": true,
	"button": true,
	"reset":  true,
	"image":  true,
}

func fillable(d schema.RawFieldDescriptor) bool {
	return !nonFillableTypes[strings.ToLower(d.Type)]
}

// submissionIntentTokens mark anchors that likely lead to a submission page.
var submissionIntentTokens = []string{"submit", "add", "register"}

// Build constructs the SiteConfig for one extraction pass. Only the first
// form on the page is mapped; directory submission pages are assumed
// single-form. The field mapping is built in extraction order with
// last-seen-wins per key, so identical input yields an identical config.
func (b *Builder) Build(ext schema.PageExtraction) schema.SiteConfig {
	cfg := schema.SiteConfig{
		URL:             ext.URL,
		RequiresCaptcha: ext.HasCaptcha,
	}

	var fields []schema.RawFieldDescriptor
	form := ext.FirstForm()
	if form != nil {
		for _, d := range form.Fields {
			if fillable(d) {
				fields = append(fields, d)
			}
		}
	}

	if len(fields) > 0 {
		cfg.HasForm = true
		cfg.SubmissionMethod = schema.MethodForm
		cfg.Form = &schema.FormConfig{
			Fields:               b.buildMapping(ext.URL, fields),
			SubmitButtonSelector: SubmitSelector(form.Submit),
		}
		return cfg
	}

	if links := submissionLinks(ext.Anchors); len(links) > 0 {
		cfg.SubmissionMethod = schema.MethodLink
		cfg.SubmissionLinks = links
		return cfg
	}

	cfg.SubmissionMethod = schema.MethodManual
	cfg.ManualSubmissionRequired = true
	cfg.Error = "no submission form or submission link found"
	return cfg
}

// BuildFailure records an analysis failure (navigation timeout, extraction
// error) as a manual-submission config rather than raising.
func (b *Builder) BuildFailure(url string, cause error) schema.SiteConfig {
	b.log.Warn("Site analysis failed; marking for manual submission",
		zap.String("url", url), zap.Error(cause))
	return schema.SiteConfig{
		URL:                      url,
		SubmissionMethod:         schema.MethodManual,
		ManualSubmissionRequired: true,
		Error:                    cause.Error(),
	}
}

func (b *Builder) buildMapping(url string, fields []schema.RawFieldDescriptor) schema.FieldMapping {
	mapping := make(schema.FieldMapping, len(fields))
	for _, d := range fields {
		sel, confident := Selector(d)
		if !confident {
			b.log.Debug("Low-confidence type-based selector",
				zap.String("url", url),
				zap.String("selector", sel),
				zap.String("field_type", d.Type))
		}
		mapping[MappingKey(d)] = schema.FieldTarget{
			Selector:   sel,
			Type:       normalizedFillType(d),
			SourceName: d.Name,
			SourceID:   d.ID,
		}
	}
	return mapping
}

// normalizedFillType collapses the declared control type into the fill
// strategies the orchestrator distinguishes.
func normalizedFillType(d schema.RawFieldDescriptor) string {
	t := strings.ToLower(d.Type)
	switch t {
	case "select", "select-one", "select-multiple":
		return "select"
	case "textarea":
		return "textarea"
	case "":
		return "text"
	default:
		return t
	}
}

func submissionLinks(anchors []schema.AnchorInfo) []string {
	var links []string
	for _, a := range anchors {
		href := strings.ToLower(a.Href)
		text := strings.ToLower(a.Text)
		for _, tok := range submissionIntentTokens {
			if strings.Contains(href, tok) || strings.Contains(text, tok) {
				links = append(links, a.Href)
				break
			}
		}
	}
	return links
}
