// Package translations keeps a field-translations document in sync with
// the labels a webform template declares under formTranslations. The
// template's en-us labels are the source of truth and always win.
package translations

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Update records one label that changed during a sync.
type Update struct {
	Field string
	Old   string
	New   string
}

// Sync applies the template's en-us labels to the fields section of the
// translations document. Only keys already present under fields are
// touched; options and request-type translations stay as they are. The
// rewritten document is returned alongside the list of changes, with all
// unrelated keys and their ordering preserved.
func Sync(template, translations []byte) ([]Update, []byte, error) {
	if !gjson.ValidBytes(template) {
		return nil, nil, fmt.Errorf("template is not valid JSON")
	}
	if !gjson.ValidBytes(translations) {
		return nil, nil, fmt.Errorf("translations file is not valid JSON")
	}

	labels := gjson.GetBytes(template, "formTranslations.en-us")
	if !labels.Exists() || len(labels.Map()) == 0 {
		return nil, nil, fmt.Errorf("could not find en-us translations in the template")
	}

	out := translations
	var updates []Update
	var err error

	labels.ForEach(func(k, v gjson.Result) bool {
		field := k.String()
		current := gjson.GetBytes(out, "fields."+field)
		if !current.Exists() {
			return true
		}
		if current.String() == v.String() {
			return true
		}
		out, err = sjson.SetBytes(out, "fields."+field, v.String())
		if err != nil {
			return false
		}
		updates = append(updates, Update{Field: field, Old: current.String(), New: v.String()})
		return true
	})
	if err != nil {
		return nil, nil, err
	}

	return updates, out, nil
}
