// File: internal/profile/reveal_test.go
package profile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davenull7x/listforge/internal/schema"
)

// fakeClicker scripts found/error outcomes per value and records the order
// of attempts.
type fakeClicker struct {
	found map[string]bool
	errs  map[string]error
	calls []string
}

func (f *fakeClicker) ClickSelector(selector string) (bool, error) {
	f.calls = append(f.calls, "selector:"+selector)
	return f.found[selector], f.errs[selector]
}

func (f *fakeClicker) ClickByText(text string) (bool, error) {
	f.calls = append(f.calls, "text:"+text)
	return f.found[text], f.errs[text]
}

func TestParseRevealControl(t *testing.T) {
	t.Run("bare selector passes through", func(t *testing.T) {
		attempts := ParseRevealControl("#show-form")
		require.Len(t, attempts, 1)
		assert.Equal(t, RevealBySelector, attempts[0].Method)
		assert.Equal(t, "#show-form", attempts[0].Value)
	})

	t.Run("markup yields text, modal and class tiers in order", func(t *testing.T) {
		attempts := ParseRevealControl(`<button class="btn primary" data-modal="submit-modal">Add listing</button>`)
		require.Len(t, attempts, 3)
		assert.Equal(t, RevealAttempt{Method: RevealByText, Value: "Add listing"}, attempts[0])
		assert.Equal(t, RevealAttempt{Method: RevealByModalAttr, Value: `[data-modal="submit-modal"]`}, attempts[1])
		assert.Equal(t, RevealAttempt{Method: RevealByClass, Value: ".btn"}, attempts[2])
	})

	t.Run("markup without attributes yields text only", func(t *testing.T) {
		attempts := ParseRevealControl("<a>Submit your site</a>")
		require.Len(t, attempts, 1)
		assert.Equal(t, RevealByText, attempts[0].Method)
		assert.Equal(t, "Submit your site", attempts[0].Value)
	})

	t.Run("empty snippet yields nothing", func(t *testing.T) {
		assert.Nil(t, ParseRevealControl("  "))
	})
}

func TestExecuteReveal(t *testing.T) {
	log := zap.NewNop()

	t.Run("first hit wins", func(t *testing.T) {
		c := &fakeClicker{found: map[string]bool{"Add listing": true}}
		attempts := ParseRevealControl(`<button class="btn" data-modal="m">Add listing</button>`)

		hit, err := ExecuteReveal(c, attempts, log)
		require.NoError(t, err)
		assert.Equal(t, RevealByText, hit.Method)
		assert.Equal(t, []string{"text:Add listing"}, c.calls)
	})

	t.Run("falls through to later tiers", func(t *testing.T) {
		c := &fakeClicker{found: map[string]bool{".btn": true}}
		attempts := ParseRevealControl(`<button class="btn" data-modal="m">Add listing</button>`)

		hit, err := ExecuteReveal(c, attempts, log)
		require.NoError(t, err)
		assert.Equal(t, RevealByClass, hit.Method)
		assert.Equal(t, []string{
			"text:Add listing",
			`selector:[data-modal="m"]`,
			"selector:.btn",
		}, c.calls)
	})

	t.Run("click error does not end the chain", func(t *testing.T) {
		c := &fakeClicker{
			found: map[string]bool{`[data-modal="m"]`: true},
			errs:  map[string]error{"Add listing": errors.New("element obscured")},
		}
		attempts := ParseRevealControl(`<button data-modal="m">Add listing</button>`)

		hit, err := ExecuteReveal(c, attempts, log)
		require.NoError(t, err)
		assert.Equal(t, RevealByModalAttr, hit.Method)
	})

	t.Run("exhausted chain reports not found", func(t *testing.T) {
		c := &fakeClicker{}
		attempts := ParseRevealControl("#missing")

		_, err := ExecuteReveal(c, attempts, log)
		assert.ErrorIs(t, err, schema.ErrRevealControlNotFound)
	})
}
