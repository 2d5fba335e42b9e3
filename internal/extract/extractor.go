// internal/extract/extractor.go
package extract

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/davenull7x/listforge/internal/schema"
)

// Evaluator is the single in-page capability the extractor needs.
type Evaluator interface {
	Evaluate(expr string, out any) error
}

// Extractor runs the form walker inside the page context and returns the
// raw field descriptors plus page metadata. The walk is attacker-untrusted
// input; everything returned is treated as noise until classified.
type Extractor struct {
	log *zap.Logger
}

func New(logger *zap.Logger) *Extractor {
	return &Extractor{log: logger.Named("extractor")}
}

// pageWalkScript walks every form element, describes each control, collects
// candidate anchors, and checks for known CAPTCHA DOM markers (reCAPTCHA and
// hCaptcha class, iframe and sitekey signatures). Keys mirror the snake_case
// JSON tags of schema.PageExtraction.
const pageWalkScript = `(() => {
    const metaContent = (sel) => {
        const el = document.querySelector(sel);
        return el ? (el.getAttribute('content') || '') : '';
    };
    const labelFor = (el) => {
        if (el.id) {
            const l = document.querySelector('label[for="' + el.id + '"]');
            if (l) return l.innerText.trim();
        }
        const parent = el.closest('label');
        return parent ? parent.innerText.trim() : '';
    };
    const describe = (el) => ({
        type: el.tagName === 'TEXTAREA' ? 'textarea'
            : el.tagName === 'SELECT' ? 'select'
            : (el.type || 'text'),
        name: el.name || '',
        id: el.id || '',
        placeholder: el.placeholder || '',
        label: labelFor(el),
        required: !!el.required,
        pattern: el.pattern || '',
        min_length: el.minLength > 0 ? el.minLength : 0,
        max_length: el.maxLength > 0 ? el.maxLength : 0,
        options: el.tagName === 'SELECT'
            ? Array.from(el.options).map((o) => o.value)
            : []
    });
    const forms = Array.from(document.forms).map((form) => {
        const fields = Array.from(form.elements)
            .filter((el) => ['INPUT', 'TEXTAREA', 'SELECT'].includes(el.tagName))
            .map(describe);
        const submitEl = form.querySelector(
            'button[type="submit"], input[type="submit"], button:not([type])');
        return { fields: fields, submit: submitEl ? describe(submitEl) : null };
    });
    const anchors = Array.from(document.querySelectorAll('a[href]'))
        .slice(0, 200)
        .map((a) => ({
            href: a.getAttribute('href') || '',
            text: (a.innerText || '').trim().slice(0, 120)
        }));
    const hasCaptcha = !!document.querySelector(
        '.g-recaptcha, .h-captcha, iframe[src*="recaptcha"], iframe[src*="hcaptcha"], [data-sitekey]');
    return {
        url: location.href,
        metadata: {
            title: document.title || '',
            description: metaContent('meta[name="description"]'),
            keywords: metaContent('meta[name="keywords"]'),
            og_title: metaContent('meta[property="og:title"]'),
            og_description: metaContent('meta[property="og:description"]'),
            og_image: metaContent('meta[property="og:image"]')
        },
        forms: forms,
        anchors: anchors,
        has_captcha: hasCaptcha
    };
})()`

// Extract performs one extraction pass on the current page.
func (e *Extractor) Extract(ev Evaluator) (schema.PageExtraction, error) {
	var ext schema.PageExtraction
	if err := ev.Evaluate(pageWalkScript, &ext); err != nil {
		return schema.PageExtraction{}, fmt.Errorf("page extraction failed: %w", err)
	}

	fieldCount := 0
	for _, f := range ext.Forms {
		fieldCount += len(f.Fields)
	}
	e.log.Debug("Page extracted",
		zap.String("url", ext.URL),
		zap.Int("forms", len(ext.Forms)),
		zap.Int("fields", fieldCount),
		zap.Bool("captcha", ext.HasCaptcha))
	return ext, nil
}
