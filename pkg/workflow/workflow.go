// Package workflow matches workflow criteria against the current
// selections. Partial matches are a first-class result: every criterion is
// checked even once the workflow can no longer fully trigger, so callers
// can distinguish "no match at all" from "close but not quite".
package workflow

import (
	"github.com/sw33tLie/formgap/pkg/catalog"
	"github.com/sw33tLie/formgap/pkg/session"
)

// Reason explains why a criterion did not match.
type Reason string

const (
	ReasonValueMismatch Reason = "value-mismatch"
	ReasonFieldUnset    Reason = "field-unset"
)

// CriterionDetail is the per-criterion outcome of an evaluation.
type CriterionDetail struct {
	FieldKey string
	Selected string
	Wanted   []string
	Reason   Reason // empty for matched criteria
}

// Result is the outcome of evaluating one workflow.
type Result struct {
	Workflow      *catalog.Workflow
	Triggered     bool
	MatchedCount  int
	TotalCriteria int
	Matched       []CriterionDetail
	Unmatched     []CriterionDetail
}

// Evaluate checks every criterion of w against the current selections.
// Triggered is true iff all criteria matched. No short-circuit on the
// first miss; diagnostics accumulate for every criterion.
func Evaluate(cat *catalog.Catalog, w *catalog.Workflow, sel *session.SelectionState) Result {
	res := Result{Workflow: w, TotalCriteria: len(w.Criteria)}

	for _, crit := range w.Criteria {
		selected, set := sel.Get(crit.FieldKey)
		detail := CriterionDetail{FieldKey: crit.FieldKey, Selected: selected, Wanted: crit.Values}

		if !set {
			detail.Reason = ReasonFieldUnset
			res.Unmatched = append(res.Unmatched, detail)
			continue
		}
		if criterionAccepts(cat, crit, selected) {
			res.MatchedCount++
			res.Matched = append(res.Matched, detail)
			continue
		}
		detail.Reason = ReasonValueMismatch
		res.Unmatched = append(res.Unmatched, detail)
	}

	res.Triggered = res.TotalCriteria > 0 && res.MatchedCount == res.TotalCriteria
	return res
}

// EvaluateAll runs Evaluate for every workflow in the catalog, in document
// order.
func EvaluateAll(cat *catalog.Catalog, sel *session.SelectionState) []Result {
	out := make([]Result, 0, len(cat.Workflows))
	for _, w := range cat.Workflows {
		out = append(out, Evaluate(cat, w, sel))
	}
	return out
}

// criterionAccepts reports whether the selected value is a member of the
// criterion's value set. Option keys and display values of the target
// field count as the same value, so a criterion stored as "US" still
// matches a selection of "United States".
func criterionAccepts(cat *catalog.Catalog, crit catalog.Criterion, selected string) bool {
	for _, want := range crit.Values {
		if want == selected {
			return true
		}
	}
	f, ok := cat.Field(crit.FieldKey)
	if !ok {
		return false
	}
	for _, want := range crit.Values {
		for _, o := range f.Options {
			if (o.Key == want && o.Value == selected) || (o.Value == want && o.Key == selected) {
				return true
			}
		}
	}
	return false
}
