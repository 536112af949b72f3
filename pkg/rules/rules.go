// Package rules evaluates field visibility rule trees against the current
// selection state.
package rules

import (
	"github.com/sw33tLie/formgap/internal/utils"
	"github.com/sw33tLie/formgap/pkg/catalog"
	"github.com/sw33tLie/formgap/pkg/session"
)

// IsVisible decides whether a field is shown. A field with no rule trees
// is visible iff it is active; a field with rule trees is visible iff any
// of them evaluates true (first match wins).
func IsVisible(cat *catalog.Catalog, f *catalog.Field, sel *session.SelectionState) bool {
	if !f.Active() {
		return false
	}
	if len(f.Rules) == 0 {
		return true
	}
	for _, rt := range f.Rules {
		if evalRuleTree(cat, rt, sel) {
			return true
		}
	}
	return false
}

func evalRuleTree(cat *catalog.Catalog, rt catalog.RuleTree, sel *session.SelectionState) bool {
	if rt.Operator == catalog.LogicOr {
		for _, c := range rt.Conditions {
			if evalCondition(cat, c, sel) {
				return true
			}
		}
		return false
	}
	for _, c := range rt.Conditions {
		if !evalCondition(cat, c, sel) {
			return false
		}
	}
	return len(rt.Conditions) > 0
}

func evalCondition(cat *catalog.Catalog, c catalog.Condition, sel *session.SelectionState) bool {
	if _, ok := cat.Field(c.FieldKey); !ok {
		utils.Log.Warnf("visibility rule references unknown field %q", c.FieldKey)
		return false
	}

	selected, set := sel.Get(c.FieldKey)
	if !set {
		// An unset target fails the condition outright. That includes
		// conditions built only from NOT_EQUALS comparisons, which the
		// vendor evaluates to false rather than vacuously true.
		return false
	}

	if c.Operator == catalog.LogicOr {
		for _, sc := range c.SubConditions {
			if evalSub(sc, selected) {
				return true
			}
		}
		return false
	}
	for _, sc := range c.SubConditions {
		if !evalSub(sc, selected) {
			return false
		}
	}
	return len(c.SubConditions) > 0
}

func evalSub(sc catalog.SubCondition, selected string) bool {
	if sc.Operator == catalog.OpNotEquals {
		return selected != sc.Value
	}
	return selected == sc.Value
}

// PruneHidden clears any selection recorded against a field that is no
// longer visible, and returns the cleared keys. Visibility and selection
// state are coupled by this cleanup invariant.
func PruneHidden(cat *catalog.Catalog, sel *session.SelectionState) []string {
	var cleared []string
	for _, f := range cat.Fields {
		if _, set := sel.Get(f.Key); !set {
			continue
		}
		if !IsVisible(cat, f, sel) {
			sel.Clear(f.Key)
			cleared = append(cleared, f.Key)
		}
	}
	return cleared
}
