// internal/profile/selector.go
package profile

import (
	"fmt"

	"github.com/davenull7x/listforge/internal/schema"
)

// Selector produces the single CSS selector used to re-locate a field on a
// later visit. Priority: id > name attribute > generic type selector. The
// second return is false for the type-based form, the weakest signal; it may
// match multiple elements and callers log it as a low-confidence mapping.
func Selector(d schema.RawFieldDescriptor) (string, bool) {
	if d.ID != "" {
		return "#" + d.ID, true
	}
	if d.Name != "" {
		return fmt.Sprintf(`[name="%s"]`, d.Name), true
	}
	return typeSelector(d.Type), false
}

func typeSelector(fieldType string) string {
	switch fieldType {
	case "textarea":
		return "textarea"
	case "select", "select-one", "select-multiple":
		return "select"
	case "":
		return "input"
	default:
		return fmt.Sprintf(`input[type="%s"]`, fieldType)
	}
}

// SubmitSelector resolves the selector for a form's submit control, falling
// back to a generic button selector when the control carries no id or name.
func SubmitSelector(submit *schema.RawFieldDescriptor) string {
	if submit == nil {
		return `button[type="submit"], input[type="submit"]`
	}
	if sel, confident := Selector(*submit); confident {
		return sel
	}
	return `button[type="submit"], input[type="submit"]`
}
