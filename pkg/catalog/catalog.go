package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/sw33tLie/formgap/internal/utils"
)

// Catalog is the parsed form configuration: fields in document order,
// workflows grouped under their event type, and the side tables mapping
// opaque category ids to human-readable names.
type Catalog struct {
	Fields    []*Field
	Workflows []*Workflow

	// id -> display name side tables, built from the document's own
	// category listings.
	RequestTypes map[string]string
	SubjectTypes map[string]string

	// en-us labels from the template's formTranslations section.
	Translations map[string]string

	fieldsByKey map[string]*Field
}

var digestRe = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// IsDigest reports whether a criterion value looks like a one-way digest
// rather than plaintext.
func IsDigest(v string) bool {
	return digestRe.MatchString(v)
}

// Parse reads a webform template document. The document may be a direct
// record or nested one level under a wrapper key; both normalize to the
// same Catalog. Only non-JSON input is an error.
func Parse(data []byte) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("template is not valid JSON")
	}

	root := gjson.ParseBytes(data)
	root = unwrap(root)

	c := &Catalog{
		RequestTypes: map[string]string{},
		SubjectTypes: map[string]string{},
		Translations: map[string]string{},
		fieldsByKey:  map[string]*Field{},
	}

	c.parseSideTable(root.Get("requestTypes"), c.RequestTypes)
	c.parseSideTable(root.Get("subjectTypes"), c.SubjectTypes)
	c.parseTranslations(root.Get("formTranslations"))
	c.parseFields(root.Get("fields"))
	c.parseWorkflows(root.Get("rules"))

	return c, nil
}

// New assembles a catalog from already-built records, wiring the field
// index. Mostly useful to callers constructing configurations in code.
func New(fields []*Field, workflows []*Workflow) *Catalog {
	c := &Catalog{
		Fields:       fields,
		Workflows:    workflows,
		RequestTypes: map[string]string{},
		SubjectTypes: map[string]string{},
		Translations: map[string]string{},
		fieldsByKey:  make(map[string]*Field, len(fields)),
	}
	for _, f := range fields {
		c.fieldsByKey[f.Key] = f
	}
	return c
}

// Field looks a field up by key.
func (c *Catalog) Field(key string) (*Field, bool) {
	f, ok := c.fieldsByKey[key]
	return f, ok
}

// FieldByRole returns the first field carrying the given role, in document
// order.
func (c *Catalog) FieldByRole(role FieldRole) (*Field, bool) {
	for _, f := range c.Fields {
		if f.Role == role {
			return f, true
		}
	}
	return nil, false
}

// unwrap descends one wrapper level when the top-level record has no
// fields section but exactly one of its object children does.
func unwrap(root gjson.Result) gjson.Result {
	if root.Get("fields").Exists() {
		return root
	}
	out := root
	root.ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() && v.Get("fields").Exists() {
			out = v
			return false
		}
		return true
	})
	return out
}

func (c *Catalog) parseSideTable(section gjson.Result, into map[string]string) {
	if !section.IsArray() {
		return
	}
	section.ForEach(func(_, item gjson.Result) bool {
		id := item.Get("id").String()
		name := item.Get("name").String()
		if id != "" && name != "" {
			into[id] = name
		}
		return true
	})
}

func (c *Catalog) parseTranslations(section gjson.Result) {
	section.Get("en-us").ForEach(func(k, v gjson.Result) bool {
		c.Translations[k.String()] = v.String()
		return true
	})
}

func (c *Catalog) parseFields(section gjson.Result) {
	if !section.IsArray() {
		return
	}
	section.ForEach(func(_, item gjson.Result) bool {
		f := parseField(item)
		if f.Key == "" {
			return true
		}
		if f.Label == "" {
			f.Label = c.Translations[f.Key]
		}
		c.Fields = append(c.Fields, f)
		c.fieldsByKey[f.Key] = f
		return true
	})
}

func parseField(item gjson.Result) *Field {
	f := &Field{
		Key:        item.Get("fieldKey").String(),
		Label:      item.Get("label").String(),
		Required:   item.Get("required").Bool(),
		Enabled:    item.Get("enabled").Bool(),
		StatusCode: item.Get("status").String(),
	}
	if f.Key == "" {
		f.Key = item.Get("key").String()
	}
	f.DisplayType = parseDisplayType(item.Get("inputType").String())
	f.Role = detectRole(f.Key)

	item.Get("options").ForEach(func(_, o gjson.Result) bool {
		opt := Option{Key: o.Get("optionKey").String(), Value: o.Get("value").String()}
		if opt.Key == "" && opt.Value == "" {
			// Plain string option lists are allowed too.
			opt.Key = o.String()
			opt.Value = o.String()
		}
		if opt.Value == "" {
			opt.Value = opt.Key
		}
		if opt.Key != "" || opt.Value != "" {
			f.Options = append(f.Options, opt)
		}
		return true
	})

	item.Get("rules").ForEach(func(_, r gjson.Result) bool {
		rt := parseRuleTree(r)
		if len(rt.Conditions) > 0 {
			f.Rules = append(f.Rules, rt)
		}
		return true
	})

	return f
}

func parseDisplayType(raw string) DisplayType {
	switch strings.ToUpper(raw) {
	case "SELECT", "MULTICHOICE", "DROPDOWN", "RADIO":
		return DisplaySelect
	case "DATE", "DATEPICKER":
		return DisplayDate
	case "LABEL", "INFO", "STATEMENT":
		return DisplayInfo
	default:
		return DisplayText
	}
}

func detectRole(key string) FieldRole {
	k := strings.ToLower(key)
	switch {
	case strings.Contains(k, "country"):
		return RoleCountry
	case strings.Contains(k, "state") || strings.Contains(k, "province") || strings.Contains(k, "region"):
		return RoleRegion
	case strings.Contains(k, "subject"):
		return RoleIdentity
	case strings.Contains(k, "request"):
		return RoleRequest
	default:
		return RoleCustom
	}
}

func parseRuleTree(r gjson.Result) RuleTree {
	rt := RuleTree{Operator: parseLogicOp(r.Get("operator").String())}
	r.Get("conditions").ForEach(func(_, cond gjson.Result) bool {
		c := Condition{
			FieldKey: cond.Get("fieldKey").String(),
			Operator: parseLogicOp(cond.Get("operator").String()),
		}
		cond.Get("subConditions").ForEach(func(_, sub gjson.Result) bool {
			sc := SubCondition{
				Operator: parseCompareOp(sub.Get("operator").String()),
				Value:    sub.Get("value").String(),
			}
			c.SubConditions = append(c.SubConditions, sc)
			return true
		})
		if c.FieldKey != "" && len(c.SubConditions) > 0 {
			rt.Conditions = append(rt.Conditions, c)
		}
		return true
	})
	return rt
}

func parseLogicOp(raw string) LogicOp {
	if strings.EqualFold(raw, "OR") {
		return LogicOr
	}
	return LogicAnd
}

func parseCompareOp(raw string) CompareOp {
	if strings.EqualFold(raw, "NOT_EQUALS") || strings.EqualFold(raw, "NOTEQUALS") {
		return OpNotEquals
	}
	return OpEquals
}

// parseWorkflows reads the rules section: a map of event type to workflow
// records. Each record's conditions object is keyed by target field, the
// value being one accepted value or an array of them.
func (c *Catalog) parseWorkflows(section gjson.Result) {
	if !section.IsObject() {
		return
	}
	section.ForEach(func(event, list gjson.Result) bool {
		list.ForEach(func(_, item gjson.Result) bool {
			w := &Workflow{
				Name:         item.Get("ruleName").String(),
				EventType:    event.String(),
				DeadlineDays: int(item.Get("actions.deadlineDays").Int()),
			}
			if w.Name == "" {
				w.Name = item.Get("name").String()
			}
			item.Get("conditions").ForEach(func(fieldKey, vals gjson.Result) bool {
				crit := c.parseCriterion(fieldKey.String(), vals)
				if len(crit.Values) > 0 {
					w.Criteria = append(w.Criteria, crit)
				}
				return true
			})
			if w.Name != "" {
				c.Workflows = append(c.Workflows, w)
			} else {
				utils.Log.Warnf("skipping unnamed workflow under event %q", event.String())
			}
			return true
		})
		return true
	})
}

func (c *Catalog) parseCriterion(fieldKey string, vals gjson.Result) Criterion {
	crit := Criterion{FieldKey: fieldKey}
	add := func(v string) {
		if v == "" {
			return
		}
		if IsDigest(v) {
			crit.Hashed = true
			v = strings.ToLower(v)
		} else {
			v = c.mapID(v)
		}
		crit.Values = append(crit.Values, v)
	}
	if vals.IsArray() {
		vals.ForEach(func(_, v gjson.Result) bool {
			add(v.String())
			return true
		})
	} else {
		add(vals.String())
	}
	return crit
}

// mapID swaps an opaque category id for its human-readable name when one
// of the side tables knows it.
func (c *Catalog) mapID(v string) string {
	if name, ok := c.RequestTypes[v]; ok {
		return name
	}
	if name, ok := c.SubjectTypes[v]; ok {
		return name
	}
	return v
}
