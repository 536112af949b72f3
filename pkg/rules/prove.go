package rules

import (
	"github.com/sw33tLie/formgap/pkg/catalog"
	"github.com/sw33tLie/formgap/pkg/session"
)

// Tri is a three-valued visibility verdict. Unknown means the rules could
// not be decided because they depend on fields with no current selection.
type Tri int

const (
	Unknown Tri = iota
	Visible
	Invisible
)

func (t Tri) String() string {
	switch t {
	case Visible:
		return "visible"
	case Invisible:
		return "invisible"
	}
	return "unknown"
}

// ProveVisibility decides visibility definitively where it can. It differs
// from IsVisible in how unset targets are handled: a condition on an unset
// field yields Unknown instead of false, so a claim of Invisible is only
// made when every relevant comparison was decided on actual selections.
// Coverage analysis uses this to mark cells not-applicable only when they
// are provably unreachable.
func ProveVisibility(cat *catalog.Catalog, f *catalog.Field, sel *session.SelectionState) Tri {
	if !f.Active() {
		return Invisible
	}
	if len(f.Rules) == 0 {
		return Visible
	}
	verdict := Invisible
	for _, rt := range f.Rules {
		switch proveRuleTree(cat, rt, sel) {
		case Visible:
			return Visible
		case Unknown:
			verdict = Unknown
		}
	}
	return verdict
}

func proveRuleTree(cat *catalog.Catalog, rt catalog.RuleTree, sel *session.SelectionState) Tri {
	if len(rt.Conditions) == 0 {
		return Invisible
	}
	verdicts := make([]Tri, 0, len(rt.Conditions))
	for _, c := range rt.Conditions {
		verdicts = append(verdicts, proveCondition(cat, c, sel))
	}
	if rt.Operator == catalog.LogicOr {
		return triAny(verdicts)
	}
	return triAll(verdicts)
}

func proveCondition(cat *catalog.Catalog, c catalog.Condition, sel *session.SelectionState) Tri {
	if _, ok := cat.Field(c.FieldKey); !ok {
		return Invisible
	}
	selected, set := sel.Get(c.FieldKey)
	if !set {
		return Unknown
	}
	verdicts := make([]Tri, 0, len(c.SubConditions))
	for _, sc := range c.SubConditions {
		if evalSub(sc, selected) {
			verdicts = append(verdicts, Visible)
		} else {
			verdicts = append(verdicts, Invisible)
		}
	}
	if c.Operator == catalog.LogicOr {
		return triAny(verdicts)
	}
	return triAll(verdicts)
}

// triAny is three-valued OR: any true wins, all-false fails, else unknown.
func triAny(vs []Tri) Tri {
	sawUnknown := false
	for _, v := range vs {
		switch v {
		case Visible:
			return Visible
		case Unknown:
			sawUnknown = true
		}
	}
	if sawUnknown {
		return Unknown
	}
	return Invisible
}

// triAll is three-valued AND: any false fails, all-true passes, else unknown.
func triAll(vs []Tri) Tri {
	if len(vs) == 0 {
		return Invisible
	}
	sawUnknown := false
	for _, v := range vs {
		switch v {
		case Invisible:
			return Invisible
		case Unknown:
			sawUnknown = true
		}
	}
	if sawUnknown {
		return Unknown
	}
	return Visible
}
