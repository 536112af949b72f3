package rules

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

func eq(value string) catalog.SubCondition {
	return catalog.SubCondition{Operator: catalog.OpEquals, Value: value}
}

func neq(value string) catalog.SubCondition {
	return catalog.SubCondition{Operator: catalog.OpNotEquals, Value: value}
}

func cond(fieldKey string, op catalog.LogicOp, subs ...catalog.SubCondition) catalog.Condition {
	return catalog.Condition{FieldKey: fieldKey, Operator: op, SubConditions: subs}
}

func rule(op catalog.LogicOp, conds ...catalog.Condition) catalog.RuleTree {
	return catalog.RuleTree{Operator: op, Conditions: conds}
}

func TestNoRulesActiveIsVisible(t *testing.T) {
	f := selectField("country", "United States")
	cat := catalog.New([]*catalog.Field{f}, nil)

	if !IsVisible(cat, f, session.New()) {
		t.Fatal("active field with no rules must be visible")
	}

	f.Enabled = false
	if IsVisible(cat, f, session.New()) {
		t.Fatal("disabled field must not be visible")
	}

	f.Enabled = true
	f.StatusCode = "20"
	if IsVisible(cat, f, session.New()) {
		t.Fatal("inactive status must not be visible")
	}
}

func TestEqualsOnlyUnsetTargetIsFalse(t *testing.T) {
	country := selectField("country", "United States")
	state := selectField("state", "California")
	state.Rules = []catalog.RuleTree{
		rule(catalog.LogicAnd, cond("country", catalog.LogicAnd, eq("United States"))),
	}
	cat := catalog.New([]*catalog.Field{country, state}, nil)

	if IsVisible(cat, state, session.New()) {
		t.Fatal("EQUALS condition against an unset field must be false")
	}
}

func TestNotEqualsOnlyUnsetTargetIsFalse(t *testing.T) {
	country := selectField("country", "United States")
	state := selectField("state", "California")
	state.Rules = []catalog.RuleTree{
		rule(catalog.LogicAnd, cond("country", catalog.LogicAnd, neq("Brazil"))),
	}
	cat := catalog.New([]*catalog.Field{country, state}, nil)

	// An unset target also fails NOT_EQUALS-only conditions; this mirrors
	// the vendor's behavior rather than vacuous truth.
	if IsVisible(cat, state, session.New()) {
		t.Fatal("NOT_EQUALS-only condition against an unset field must be false")
	}

	sel := session.FromMap(map[string]string{"country": "United States"})
	if !IsVisible(cat, state, sel) {
		t.Fatal("NOT_EQUALS condition should pass once the field is set to a different value")
	}
}

func TestRulesAreORedAtFieldLevel(t *testing.T) {
	country := selectField("country", "United States", "Canada")
	state := selectField("state", "California")
	state.Rules = []catalog.RuleTree{
		rule(catalog.LogicAnd, cond("country", catalog.LogicAnd, eq("United States"))),
		rule(catalog.LogicAnd, cond("country", catalog.LogicAnd, eq("Canada"))),
	}
	cat := catalog.New([]*catalog.Field{country, state}, nil)

	sel := session.FromMap(map[string]string{"country": "Canada"})
	if !IsVisible(cat, state, sel) {
		t.Fatal("second rule should have matched")
	}
}

func TestConditionOperators(t *testing.T) {
	typ := selectField("subjectType", "Customer", "Employee")
	req := selectField("requestType", "Access", "Delete")
	target := selectField("extra")
	cat := catalog.New([]*catalog.Field{typ, req, target}, nil)

	andRule := rule(catalog.LogicAnd,
		cond("subjectType", catalog.LogicAnd, eq("Customer")),
		cond("requestType", catalog.LogicAnd, eq("Access")),
	)
	orRule := rule(catalog.LogicOr,
		cond("subjectType", catalog.LogicAnd, eq("Employee")),
		cond("requestType", catalog.LogicAnd, eq("Access")),
	)

	sel := session.FromMap(map[string]string{"subjectType": "Customer", "requestType": "Access"})

	target.Rules = []catalog.RuleTree{andRule}
	if !IsVisible(cat, target, sel) {
		t.Fatal("AND rule should match when both conditions hold")
	}

	target.Rules = []catalog.RuleTree{orRule}
	if !IsVisible(cat, target, sel) {
		t.Fatal("OR rule should match when one condition holds")
	}

	sel = session.FromMap(map[string]string{"subjectType": "Customer", "requestType": "Delete"})
	target.Rules = []catalog.RuleTree{andRule}
	if IsVisible(cat, target, sel) {
		t.Fatal("AND rule must fail when one condition fails")
	}
}

func TestSubConditionORWithinCondition(t *testing.T) {
	country := selectField("country", "United States", "Canada", "Brazil")
	target := selectField("extra")
	target.Rules = []catalog.RuleTree{
		rule(catalog.LogicAnd,
			cond("country", catalog.LogicOr, eq("United States"), eq("Canada"))),
	}
	cat := catalog.New([]*catalog.Field{country, target}, nil)

	if !IsVisible(cat, target, session.FromMap(map[string]string{"country": "Canada"})) {
		t.Fatal("OR subconditions should match either value")
	}
	if IsVisible(cat, target, session.FromMap(map[string]string{"country": "Brazil"})) {
		t.Fatal("OR subconditions must fail on a third value")
	}
}

func TestUnknownFieldConditionIsFalse(t *testing.T) {
	target := selectField("extra")
	target.Rules = []catalog.RuleTree{
		rule(catalog.LogicAnd, cond("ghost", catalog.LogicAnd, eq("anything"))),
	}
	cat := catalog.New([]*catalog.Field{target}, nil)

	if IsVisible(cat, target, session.FromMap(map[string]string{"ghost": "anything"})) {
		t.Fatal("condition on a field missing from the catalog must be false")
	}
}

func TestPruneHiddenClearsSelections(t *testing.T) {
	country := selectField("country", "United States", "Brazil")
	state := selectField("state", "California")
	state.Rules = []catalog.RuleTree{
		rule(catalog.LogicAnd, cond("country", catalog.LogicAnd, eq("United States"))),
	}
	cat := catalog.New([]*catalog.Field{country, state}, nil)

	sel := session.FromMap(map[string]string{"country": "Brazil", "state": "California"})
	cleared := PruneHidden(cat, sel)

	if len(cleared) != 1 || cleared[0] != "state" {
		t.Fatalf("expected [state] cleared, got %v", cleared)
	}
	if _, ok := sel.Get("state"); ok {
		t.Fatal("hidden field's selection not cleared")
	}
	if _, ok := sel.Get("country"); !ok {
		t.Fatal("visible field's selection must survive")
	}
}
