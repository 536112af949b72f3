// Package coverage builds the N-dimensional coverage matrix: which
// combinations of decision-dimension values trigger at least one workflow,
// which are true gaps, and which can never occur at all.
package coverage

import (
	"fmt"
	"math"

	"github.com/sw33tLie/formgap/internal/utils"
	"github.com/sw33tLie/formgap/pkg/catalog"
	"github.com/sw33tLie/formgap/pkg/rules"
	"github.com/sw33tLie/formgap/pkg/session"
	"github.com/sw33tLie/formgap/pkg/workflow"
)

// Class classifies one matrix cell.
type Class string

const (
	ClassCovered       Class = "covered"
	ClassGap           Class = "gap"
	ClassNotApplicable Class = "not-applicable"
)

// Dimension is one analysis axis: a field and the values enumerated for it.
type Dimension struct {
	FieldKey      string
	Field         *catalog.Field
	WorkflowCount int
	Values        []string
}

// Cell is one combination of dimension values. Dim2Value is empty in the
// degenerate one-dimensional view.
type Cell struct {
	Dim1Value string
	Dim2Value string
	Workflows []string
	Class     Class
}

// Analysis is a full coverage run. Covered+Gaps+NotApplicable always
// equals Total.
type Analysis struct {
	Status     string
	Dimensions []Dimension
	Cells      []Cell

	Total         int
	Covered       int
	Gaps          int
	NotApplicable int
	CoveragePct   float64
}

// DiscoverDimensions ranks fields by how many distinct workflows reference
// them in criteria, descending, ties broken by first encounter order, and
// returns the top n as analysis dimensions. Nothing is hardcoded: the data
// decides what matters.
func DiscoverDimensions(cat *catalog.Catalog, n int) []Dimension {
	type tally struct {
		key       string
		workflows map[string]struct{}
		order     int
	}
	byKey := map[string]*tally{}
	var ordered []*tally

	for _, w := range cat.Workflows {
		for _, crit := range w.Criteria {
			t, ok := byKey[crit.FieldKey]
			if !ok {
				t = &tally{key: crit.FieldKey, workflows: map[string]struct{}{}, order: len(ordered)}
				byKey[crit.FieldKey] = t
				ordered = append(ordered, t)
			}
			t.workflows[w.Name] = struct{}{}
		}
	}

	// Selection sort keeps the encounter-order tie break explicit.
	var dims []Dimension
	used := map[string]struct{}{}
	for len(dims) < n {
		var best *tally
		for _, t := range ordered {
			if _, taken := used[t.key]; taken {
				continue
			}
			if best == nil || len(t.workflows) > len(best.workflows) {
				best = t
			}
		}
		if best == nil {
			break
		}
		used[best.key] = struct{}{}
		d := Dimension{FieldKey: best.key, WorkflowCount: len(best.workflows)}
		if f, ok := cat.Field(best.key); ok {
			d.Field = f
		}
		d.Values = dimensionValues(cat, d)
		if len(d.Values) > 0 {
			dims = append(dims, d)
		}
	}
	return dims
}

// dimensionValues enumerates a dimension's values from the field's own
// option catalog, so options no workflow mentions still show up as gaps.
// A field with no options falls back to the values actually seen in
// criteria, in encounter order.
func dimensionValues(cat *catalog.Catalog, d Dimension) []string {
	if d.Field != nil && len(d.Field.Options) > 0 {
		return d.Field.OptionValues()
	}
	var vals []string
	seen := map[string]struct{}{}
	for _, w := range cat.Workflows {
		for _, crit := range w.Criteria {
			if crit.FieldKey != d.FieldKey {
				continue
			}
			for _, v := range crit.Values {
				if _, dup := seen[v]; dup {
					continue
				}
				seen[v] = struct{}{}
				vals = append(vals, v)
			}
		}
	}
	return vals
}

// Analyze discovers the top two dimensions and builds their coverage
// matrix. With a single discovered dimension the result degenerates to a
// one-dimensional list; with none it is an empty analysis with a
// descriptive status.
func Analyze(cat *catalog.Catalog, sel *session.SelectionState) *Analysis {
	dims := DiscoverDimensions(cat, 2)
	return analyze(cat, sel, dims)
}

// AnalyzeFixed runs the same analysis with both dimensions fixed in
// advance, for callers that already know which two categories they care
// about (typically identity category by request category).
func AnalyzeFixed(cat *catalog.Catalog, sel *session.SelectionState, dim1Key, dim2Key string) *Analysis {
	var dims []Dimension
	for _, key := range []string{dim1Key, dim2Key} {
		f, ok := cat.Field(key)
		if !ok {
			return &Analysis{Status: fmt.Sprintf("could not find field %q in the template", key)}
		}
		d := Dimension{FieldKey: key, Field: f, WorkflowCount: workflowsReferencing(cat, key)}
		d.Values = dimensionValues(cat, d)
		if len(d.Values) == 0 {
			return &Analysis{Status: fmt.Sprintf("field %q has no enumerable values", key)}
		}
		dims = append(dims, d)
	}
	return analyze(cat, sel, dims)
}

func workflowsReferencing(cat *catalog.Catalog, fieldKey string) int {
	count := 0
	for _, w := range cat.Workflows {
		for _, crit := range w.Criteria {
			if crit.FieldKey == fieldKey {
				count++
				break
			}
		}
	}
	return count
}

func analyze(cat *catalog.Catalog, sel *session.SelectionState, dims []Dimension) *Analysis {
	a := &Analysis{Dimensions: dims}
	switch len(dims) {
	case 0:
		a.Status = "no workflow references any field; nothing to analyze"
		return a
	case 1:
		utils.Log.Debugf("single dimension %q discovered; building list view", dims[0].FieldKey)
		for _, v := range dims[0].Values {
			a.addCell(cat, sel, dims, v, "")
		}
	default:
		for _, v1 := range dims[0].Values {
			for _, v2 := range dims[1].Values {
				a.addCell(cat, sel, dims, v1, v2)
			}
		}
	}
	a.finish()
	return a
}

// addCell probes the matcher with exactly the cell's dimension values
// selected. A workflow with no criterion on a dimension matches any value
// on that axis; a workflow needing some third field cannot trigger under
// the probe and contributes no coverage here.
func (a *Analysis) addCell(cat *catalog.Catalog, sel *session.SelectionState, dims []Dimension, v1, v2 string) {
	probe := map[string]string{dims[0].FieldKey: v1}
	if len(dims) > 1 {
		probe[dims[1].FieldKey] = v2
	}

	cell := Cell{Dim1Value: v1, Dim2Value: v2}
	sel.Probe(probe, func() {
		for _, res := range workflow.EvaluateAll(cat, sel) {
			if res.Triggered {
				cell.Workflows = append(cell.Workflows, res.Workflow.Name)
			}
		}
		if len(cell.Workflows) > 0 {
			cell.Class = ClassCovered
			return
		}
		cell.Class = ClassGap
		if unreachable(cat, sel, dims) {
			cell.Class = ClassNotApplicable
		}
	})
	a.Cells = append(a.Cells, cell)
}

// unreachable reports whether the probed combination provably cannot
// occur: some dimension field is definitively invisible under the probe.
// Rules that depend on still-unset fields stay Unknown, and an Unknown is
// optimistically treated as possibly applicable.
func unreachable(cat *catalog.Catalog, sel *session.SelectionState, dims []Dimension) bool {
	for _, d := range dims {
		if d.Field == nil {
			continue
		}
		if rules.ProveVisibility(cat, d.Field, sel) == rules.Invisible {
			return true
		}
	}
	return false
}

func (a *Analysis) finish() {
	a.Total = len(a.Cells)
	for _, c := range a.Cells {
		switch c.Class {
		case ClassCovered:
			a.Covered++
		case ClassGap:
			a.Gaps++
		case ClassNotApplicable:
			a.NotApplicable++
		}
	}
	applicable := a.Total - a.NotApplicable
	if applicable <= 0 {
		a.CoveragePct = 100.0
		return
	}
	pct := float64(a.Covered) / float64(applicable) * 100.0
	a.CoveragePct = math.Round(pct*10) / 10
}
