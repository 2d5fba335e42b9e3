// internal/profile/reveal.go
package profile

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/davenull7x/listforge/internal/schema"
)

// RevealMethod names one resolution tier for a reveal control.
type RevealMethod string

const (
	RevealBySelector  RevealMethod = "selector"
	RevealByText      RevealMethod = "text"
	RevealByModalAttr RevealMethod = "modal_attr"
	RevealByClass     RevealMethod = "class"
)

// RevealAttempt is one concrete resolution attempt derived from the snippet.
type RevealAttempt struct {
	Method RevealMethod
	// Value is a selector for every method except RevealByText, where it is
	// the text to match against live buttons and links.
	Value string
}

// Clicker is the minimal click capability the reveal chain needs. The bool
// result is the explicit found/not-found signal; an error means the click
// itself failed after the element was located.
type Clicker interface {
	ClickSelector(selector string) (bool, error)
	ClickByText(text string) (bool, error)
}

// ParseRevealControl derives the ordered resolution attempts from a
// declarative HTML-ish snippet. The tiers, strongest first:
//
//  1. a bare selector (snippet carries no markup) used directly;
//  2. the snippet's inner text, matched against live buttons/links;
//  3. the snippet's data-modal attribute value;
//  4. the snippet's first class token.
//
// A snippet may yield several attempts; an unparseable one yields none.
func ParseRevealControl(snippet string) []RevealAttempt {
	snippet = strings.TrimSpace(snippet)
	if snippet == "" {
		return nil
	}

	if !strings.Contains(snippet, "<") {
		return []RevealAttempt{{Method: RevealBySelector, Value: snippet}}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snippet))
	if err != nil {
		return nil
	}

	var attempts []RevealAttempt
	if text := strings.TrimSpace(doc.Text()); text != "" {
		attempts = append(attempts, RevealAttempt{Method: RevealByText, Value: text})
	}

	el := doc.Find("body *").First()
	if modal, ok := el.Attr("data-modal"); ok && modal != "" {
		attempts = append(attempts, RevealAttempt{
			Method: RevealByModalAttr,
			Value:  `[data-modal="` + modal + `"]`,
		})
	}
	if class, ok := el.Attr("class"); ok {
		if tokens := strings.Fields(class); len(tokens) > 0 {
			attempts = append(attempts, RevealAttempt{
				Method: RevealByClass,
				Value:  "." + tokens[0],
			})
		}
	}
	return attempts
}

// ExecuteReveal walks the attempts in order until one click lands. Failure
// of the whole chain is recoverable: callers log it and analyze or submit as
// if the control did not exist.
func ExecuteReveal(c Clicker, attempts []RevealAttempt, log *zap.Logger) (RevealAttempt, error) {
	for _, attempt := range attempts {
		var (
			found bool
			err   error
		)
		switch attempt.Method {
		case RevealByText:
			found, err = c.ClickByText(attempt.Value)
		default:
			found, err = c.ClickSelector(attempt.Value)
		}
		if err != nil {
			// A located but unclickable element does not end the chain.
			log.Debug("Reveal attempt errored, trying next tier",
				zap.String("method", string(attempt.Method)),
				zap.String("value", attempt.Value),
				zap.Error(err))
			continue
		}
		if found {
			log.Debug("Reveal control resolved",
				zap.String("method", string(attempt.Method)),
				zap.String("value", attempt.Value))
			return attempt, nil
		}
	}
	return RevealAttempt{}, schema.ErrRevealControlNotFound
}
