package coverage

import (
	"testing"

	"github.com/sw33tLie/formgap/pkg/catalog"
	"github.com/sw33tLie/formgap/pkg/session"
)

func selectField(key string, values ...string) *catalog.Field {
	f := &catalog.Field{Key: key, DisplayType: catalog.DisplaySelect, Enabled: true}
	for _, v := range values {
		f.Options = append(f.Options, catalog.Option{Key: v, Value: v})
	}
	return f
}

func wf(name string, criteria ...catalog.Criterion) *catalog.Workflow {
	return &catalog.Workflow{Name: name, EventType: "RequestCreated", Criteria: criteria}
}

func crit(fieldKey string, values ...string) catalog.Criterion {
	return catalog.Criterion{FieldKey: fieldKey, Values: values}
}

func cellAt(t *testing.T, a *Analysis, v1, v2 string) Cell {
	t.Helper()
	for _, c := range a.Cells {
		if c.Dim1Value == v1 && c.Dim2Value == v2 {
			return c
		}
	}
	t.Fatalf("no cell for (%s, %s)", v1, v2)
	return Cell{}
}

func checkArithmetic(t *testing.T, a *Analysis) {
	t.Helper()
	if a.Covered+a.Gaps+a.NotApplicable != a.Total {
		t.Fatalf("covered %d + gaps %d + n/a %d != total %d", a.Covered, a.Gaps, a.NotApplicable, a.Total)
	}
}

// A loose workflow (one criterion) acts as a catch-all on every dimension
// it never references.
func TestLooseWorkflowCatchAll(t *testing.T) {
	typ := selectField("subjectType", "Individual", "Business")
	act := selectField("requestType", "Access", "Delete")
	cat := catalog.New([]*catalog.Field{typ, act}, []*catalog.Workflow{
		wf("Business catch-all", crit("subjectType", "Business")),
		wf("Individual catch-all", crit("subjectType", "Individual")),
	})

	a := AnalyzeFixed(cat, session.New(), "subjectType", "requestType")
	checkArithmetic(t, a)

	if a.Total != 4 || a.Covered != 4 || a.Gaps != 0 {
		t.Fatalf("expected 4/4 covered, got covered=%d gaps=%d total=%d", a.Covered, a.Gaps, a.Total)
	}
	if a.CoveragePct != 100.0 {
		t.Fatalf("expected 100.0%%, got %.1f", a.CoveragePct)
	}

	for _, action := range []string{"Access", "Delete"} {
		c := cellAt(t, a, "Business", action)
		if len(c.Workflows) != 1 || c.Workflows[0] != "Business catch-all" {
			t.Fatalf("cell (Business, %s): %+v", action, c.Workflows)
		}
	}
}

func TestUnmentionedValueRowsAreGaps(t *testing.T) {
	typ := selectField("subjectType", "Individual", "Business")
	act := selectField("requestType", "Access", "Delete")
	// No workflow mentions Business at all.
	cat := catalog.New([]*catalog.Field{typ, act}, []*catalog.Workflow{
		wf("Individual handler", crit("subjectType", "Individual")),
	})

	a := AnalyzeFixed(cat, session.New(), "subjectType", "requestType")
	checkArithmetic(t, a)

	if a.Covered != 2 || a.Gaps != 2 {
		t.Fatalf("expected 2 covered and 2 gaps, got covered=%d gaps=%d", a.Covered, a.Gaps)
	}
	if a.CoveragePct != 50.0 {
		t.Fatalf("expected 50.0%%, got %.1f", a.CoveragePct)
	}
	for _, action := range []string{"Access", "Delete"} {
		if c := cellAt(t, a, "Business", action); c.Class != ClassGap {
			t.Fatalf("cell (Business, %s) should be a gap, got %s", action, c.Class)
		}
	}
}

// A workflow needing a third field cannot trigger when only the two
// dimension values are selected, so it contributes no coverage.
func TestThirdFieldCriterionContributesNothing(t *testing.T) {
	typ := selectField("subjectType", "Individual")
	act := selectField("requestType", "Access")
	country := selectField("country", "United States")
	cat := catalog.New([]*catalog.Field{typ, act, country}, []*catalog.Workflow{
		wf("US individuals", crit("subjectType", "Individual"), crit("country", "United States")),
	})

	a := AnalyzeFixed(cat, session.New(), "subjectType", "requestType")
	checkArithmetic(t, a)
	if a.Covered != 0 || a.Gaps != 1 {
		t.Fatalf("expected the single cell to be a gap, got covered=%d gaps=%d", a.Covered, a.Gaps)
	}
}

// Rules that depend on a field the probe never sets stay undecided, so
// gaps must not be suppressed as unreachable.
func TestUnprovableCellsStayApplicable(t *testing.T) {
	country := selectField("country", "United States", "Brazil")
	state := selectField("state", "California", "Texas")
	state.Rules = []catalog.RuleTree{{
		Operator: catalog.LogicAnd,
		Conditions: []catalog.Condition{{
			FieldKey: "country", Operator: catalog.LogicAnd,
			SubConditions: []catalog.SubCondition{{Operator: catalog.OpEquals, Value: "United States"}},
		}},
	}}
	req := selectField("requestType", "Access", "Delete")
	cat := catalog.New([]*catalog.Field{country, state, req}, []*catalog.Workflow{
		wf("CA access", crit("state", "California"), crit("requestType", "Access")),
	})

	// Country is never fixed by a State x RequestType probe, so nothing
	// about State's visibility is provable.
	a := AnalyzeFixed(cat, session.New(), "state", "requestType")
	checkArithmetic(t, a)

	if a.NotApplicable != 0 {
		t.Fatalf("unprovable cells must stay applicable, got %d n/a", a.NotApplicable)
	}
	if a.Covered != 1 || a.Gaps != 3 {
		t.Fatalf("expected 1 covered and 3 gaps, got covered=%d gaps=%d", a.Covered, a.Gaps)
	}
}

func TestProvablyUnreachableCellsAreNotApplicable(t *testing.T) {
	country := selectField("country", "United States", "Brazil")
	state := selectField("state", "California")
	state.Rules = []catalog.RuleTree{{
		Operator: catalog.LogicAnd,
		Conditions: []catalog.Condition{{
			FieldKey: "country", Operator: catalog.LogicAnd,
			SubConditions: []catalog.SubCondition{{Operator: catalog.OpEquals, Value: "United States"}},
		}},
	}}
	cat := catalog.New([]*catalog.Field{country, state}, []*catalog.Workflow{
		wf("US access", crit("country", "United States"), crit("state", "California")),
	})

	// Country is the first dimension here, so the probe fixes it and
	// State's rule is decidable in every cell.
	a := AnalyzeFixed(cat, session.New(), "country", "state")
	checkArithmetic(t, a)

	brazil := cellAt(t, a, "Brazil", "California")
	if brazil.Class != ClassNotApplicable {
		t.Fatalf("Brazil/California should be provably unreachable, got %s", brazil.Class)
	}
	us := cellAt(t, a, "United States", "California")
	if us.Class != ClassCovered {
		t.Fatalf("US/California should be covered, got %s", us.Class)
	}
	// Coverage ignores the unreachable cell: 1 covered of 1 applicable.
	if a.CoveragePct != 100.0 {
		t.Fatalf("expected 100.0%%, got %.1f", a.CoveragePct)
	}
}

func TestDiscoverDimensionsRanksByWorkflowCount(t *testing.T) {
	typ := selectField("subjectType", "Individual", "Business")
	act := selectField("requestType", "Access", "Delete")
	country := selectField("country", "United States")
	cat := catalog.New([]*catalog.Field{typ, act, country}, []*catalog.Workflow{
		wf("a", crit("requestType", "Access"), crit("subjectType", "Individual")),
		wf("b", crit("requestType", "Delete")),
		wf("c", crit("requestType", "Access"), crit("country", "United States")),
	})

	dims := DiscoverDimensions(cat, 2)
	if len(dims) != 2 {
		t.Fatalf("expected 2 dimensions, got %d", len(dims))
	}
	if dims[0].FieldKey != "requestType" || dims[0].WorkflowCount != 3 {
		t.Fatalf("unexpected first dimension: %+v", dims[0])
	}
	// subjectType and country tie at 1 workflow each; subjectType was
	// encountered first.
	if dims[1].FieldKey != "subjectType" {
		t.Fatalf("tie should break by encounter order, got %s", dims[1].FieldKey)
	}
}

func TestDimensionValuesComeFromOptionCatalog(t *testing.T) {
	act := selectField("requestType", "Access", "Delete", "Correct")
	cat := catalog.New([]*catalog.Field{act}, []*catalog.Workflow{
		wf("access only", crit("requestType", "Access")),
	})

	dims := DiscoverDimensions(cat, 1)
	if len(dims) != 1 {
		t.Fatalf("expected 1 dimension, got %d", len(dims))
	}
	// "Correct" appears in no workflow but must still be enumerated, so
	// its missing coverage shows up as a gap.
	if len(dims[0].Values) != 3 {
		t.Fatalf("expected all 3 option values, got %v", dims[0].Values)
	}
}

func TestSingleDimensionListView(t *testing.T) {
	act := selectField("requestType", "Access", "Delete", "Correct")
	cat := catalog.New([]*catalog.Field{act}, []*catalog.Workflow{
		wf("access only", crit("requestType", "Access")),
	})

	a := Analyze(cat, session.New())
	checkArithmetic(t, a)
	if len(a.Dimensions) != 1 {
		t.Fatalf("expected a single dimension, got %d", len(a.Dimensions))
	}
	if a.Total != 3 || a.Covered != 1 || a.Gaps != 2 {
		t.Fatalf("unexpected stats: %+v", a)
	}
	if a.CoveragePct != 33.3 {
		t.Fatalf("expected 33.3%%, got %.1f", a.CoveragePct)
	}
}

func TestAnalyzeEmptyCatalog(t *testing.T) {
	cat := catalog.New(nil, nil)
	a := Analyze(cat, session.New())
	if a.Status == "" {
		t.Fatal("empty analysis should carry a descriptive status")
	}
	if a.Total != 0 {
		t.Fatalf("expected no cells, got %d", a.Total)
	}
}

func TestAnalyzeFixedMissingField(t *testing.T) {
	cat := catalog.New(nil, nil)
	a := AnalyzeFixed(cat, session.New(), "subjectType", "requestType")
	if a.Status == "" {
		t.Fatal("missing field should yield a descriptive status, not a panic")
	}
}

func TestProbeDoesNotLeakIntoLiveState(t *testing.T) {
	typ := selectField("subjectType", "Individual", "Business")
	act := selectField("requestType", "Access", "Delete")
	cat := catalog.New([]*catalog.Field{typ, act}, []*catalog.Workflow{
		wf("x", crit("subjectType", "Individual")),
	})

	sel := session.FromMap(map[string]string{"subjectType": "Business", "details": "keep me"})
	AnalyzeFixed(cat, sel, "subjectType", "requestType")

	if v, _ := sel.Get("subjectType"); v != "Business" {
		t.Fatalf("live selection clobbered by probing: %q", v)
	}
	if v, _ := sel.Get("details"); v != "keep me" {
		t.Fatalf("unrelated selection clobbered by probing: %q", v)
	}
	if sel.Len() != 2 {
		t.Fatalf("selection count changed: %d", sel.Len())
	}
}
