package hashdict

import (
	"strings"

	"github.com/sw33tLie/formgap/internal/utils"
	"github.com/sw33tLie/formgap/pkg/catalog"
)

// Resolver aggregates per-field dictionaries built from the catalog's own
// vocabularies, falling back to the built-in country/region lists when a
// field carries no options of its own.
type Resolver struct {
	dicts []*Dictionary
}

// NewResolver builds a dictionary for every selectable field the catalog
// knows. Custom fields contribute their option list; country and region
// fields with empty option lists fall back to the comprehensive built-in
// vocabularies so resolution still succeeds.
func NewResolver(cat *catalog.Catalog) *Resolver {
	r := &Resolver{}
	for _, f := range cat.Fields {
		if f.DisplayType != catalog.DisplaySelect {
			continue
		}
		vocab := fieldVocabulary(f)
		if len(vocab) == 0 {
			continue
		}
		r.dicts = append(r.dicts, Build(vocab))
	}
	// Always carry the built-ins: hashed criteria sometimes target fields
	// the export stripped the option lists from.
	r.dicts = append(r.dicts, Build(Countries), Build(USStates))
	return r
}

func fieldVocabulary(f *catalog.Field) map[string]string {
	if len(f.Options) > 0 {
		vocab := make(map[string]string, len(f.Options))
		for _, o := range f.Options {
			vocab[o.Key] = o.Value
		}
		return vocab
	}
	switch f.Role {
	case catalog.RoleCountry:
		return Countries
	case catalog.RoleRegion:
		return USStates
	}
	return nil
}

// Resolve looks the digest up across every dictionary, first match wins.
func (r *Resolver) Resolve(digest string) (Entry, bool) {
	for _, d := range r.dicts {
		if e, ok := d.Resolve(digest); ok {
			return e, true
		}
	}
	return Entry{}, false
}

// Stats summarizes a ResolveWorkflows pass.
type Stats struct {
	Hashed     int
	Decrypted  int
	Inferred   int
	Unresolved int
}

// ResolveWorkflows rewrites every hashed criterion value it can back to
// plaintext, marking the criterion Decrypted. A digest no dictionary
// knows falls back to name-based inference from the workflow's own name,
// marked Inferred — never Decrypted. Criteria that stay unresolved keep
// their digest values and their Hashed tag; they are never dropped.
func (r *Resolver) ResolveWorkflows(cat *catalog.Catalog) Stats {
	var st Stats
	for _, w := range cat.Workflows {
		for i := range w.Criteria {
			crit := &w.Criteria[i]
			if !crit.Hashed {
				continue
			}
			st.Hashed++
			resolved := make([]string, 0, len(crit.Values))
			misses := 0
			for _, v := range crit.Values {
				if !catalog.IsDigest(v) {
					resolved = append(resolved, v)
					continue
				}
				if e, ok := r.Resolve(v); ok {
					resolved = append(resolved, e.Value)
					continue
				}
				misses++
				resolved = append(resolved, v)
			}
			if misses == 0 {
				crit.Values = resolved
				crit.Decrypted = true
				st.Decrypted++
				continue
			}
			if e, ok := InferFromName(w.Name); ok {
				crit.Values = append(resolved, e.Value)
				crit.Inferred = true
				st.Inferred++
				utils.Log.Debugf("workflow %q: inferred %q from name for unresolved digest", w.Name, e.Value)
				continue
			}
			crit.Values = resolved
			st.Unresolved++
			utils.Log.Warnf("workflow %q: criterion on %q has %d undecryptable digest(s)", w.Name, crit.FieldKey, misses)
		}
	}
	return st
}

// UnresolvedPlaceholder is what reports show for a digest nothing could
// resolve. The criterion itself keeps the digest.
const UnresolvedPlaceholder = "(could not decrypt)"

// DisplayValue renders a criterion value for reporting, replacing digests
// that survived resolution with an explicit placeholder.
func DisplayValue(v string) string {
	if catalog.IsDigest(v) {
		return UnresolvedPlaceholder
	}
	return v
}

// regulatoryJurisdictions maps regulation acronyms that commonly appear in
// workflow names to the jurisdiction they imply.
var regulatoryJurisdictions = map[string]Entry{
	"CCPA":   {Key: "CA", Value: "California"},
	"CPRA":   {Key: "CA", Value: "California"},
	"VCDPA":  {Key: "VA", Value: "Virginia"},
	"CTDPA":  {Key: "CT", Value: "Connecticut"},
	"UCPA":   {Key: "UT", Value: "Utah"},
	"GDPR":   {Key: "EU", Value: "European Union"},
	"LGPD":   {Key: "BR", Value: "Brazil"},
	"PIPEDA": {Key: "CA", Value: "Canada"},
	"POPIA":  {Key: "ZA", Value: "South Africa"},
	"APPI":   {Key: "JP", Value: "Japan"},
	"PDPA":   {Key: "SG", Value: "Singapore"},
}

// InferFromName guesses a jurisdiction from a regulation acronym inside a
// workflow name. Token match only, so "CPA" in "CCPA Access" never fires
// on a substring.
func InferFromName(name string) (Entry, bool) {
	for _, tok := range strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '/' || r == '(' || r == ')'
	}) {
		if e, ok := regulatoryJurisdictions[strings.ToUpper(tok)]; ok {
			return e, true
		}
	}
	return Entry{}, false
}
