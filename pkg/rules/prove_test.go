package rules

import (
	"testing"

	"github.com/sw33tLie/formgap/pkg/catalog"
	"github.com/sw33tLie/formgap/pkg/session"
)

func TestProveVisibilityDefiniteCases(t *testing.T) {
	country := selectField("country", "United States", "Brazil")
	state := selectField("state", "California")
	state.Rules = []catalog.RuleTree{
		rule(catalog.LogicAnd, cond("country", catalog.LogicAnd, eq("United States"))),
	}
	cat := catalog.New([]*catalog.Field{country, state}, nil)

	if got := ProveVisibility(cat, state, session.FromMap(map[string]string{"country": "United States"})); got != Visible {
		t.Fatalf("expected visible, got %s", got)
	}
	if got := ProveVisibility(cat, state, session.FromMap(map[string]string{"country": "Brazil"})); got != Invisible {
		t.Fatalf("expected invisible, got %s", got)
	}
}

func TestProveVisibilityUnknownOnUnsetDependency(t *testing.T) {
	country := selectField("country", "United States")
	state := selectField("state", "California")
	state.Rules = []catalog.RuleTree{
		rule(catalog.LogicAnd, cond("country", catalog.LogicAnd, eq("United States"))),
	}
	cat := catalog.New([]*catalog.Field{country, state}, nil)

	// IsVisible says false here, but a claim of invisibility cannot be
	// proven while country is unset.
	if got := ProveVisibility(cat, state, session.New()); got != Unknown {
		t.Fatalf("expected unknown, got %s", got)
	}
}

func TestProveVisibilityInactiveIsInvisible(t *testing.T) {
	f := selectField("details")
	f.Enabled = false
	cat := catalog.New([]*catalog.Field{f}, nil)

	if got := ProveVisibility(cat, f, session.New()); got != Invisible {
		t.Fatalf("expected invisible, got %s", got)
	}
}

func TestProveVisibilityORRules(t *testing.T) {
	country := selectField("country", "United States", "Brazil")
	region := selectField("province")
	target := selectField("extra")
	target.Rules = []catalog.RuleTree{
		rule(catalog.LogicAnd, cond("country", catalog.LogicAnd, eq("United States"))),
		rule(catalog.LogicAnd, cond("province", catalog.LogicAnd, eq("Quebec"))),
	}
	cat := catalog.New([]*catalog.Field{country, region, target}, nil)

	// First rule definitively false, second undecidable: overall unknown.
	sel := session.FromMap(map[string]string{"country": "Brazil"})
	if got := ProveVisibility(cat, target, sel); got != Unknown {
		t.Fatalf("expected unknown, got %s", got)
	}

	// Both rules definitively false: provably invisible.
	sel = session.FromMap(map[string]string{"country": "Brazil", "province": "Ontario"})
	if got := ProveVisibility(cat, target, sel); got != Invisible {
		t.Fatalf("expected invisible, got %s", got)
	}
}
