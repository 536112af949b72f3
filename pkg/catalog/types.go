// Package catalog parses a vendor-exported webform template into typed
// field, option, rule and workflow records. Parsing never fails on shape
// problems: unknown or missing sections yield empty collections.
package catalog

// DisplayType is the rendering category of a form field.
type DisplayType string

const (
	DisplaySelect DisplayType = "select"
	DisplayText   DisplayType = "text"
	DisplayDate   DisplayType = "date"
	DisplayInfo   DisplayType = "info"
)

// FieldRole tags what a field means to request routing. It is decided once
// during parsing, from the field's own key and metadata, so that later
// consumers never re-derive it from label text.
type FieldRole string

const (
	RoleIdentity FieldRole = "identity"
	RoleRequest  FieldRole = "request"
	RoleCountry  FieldRole = "country"
	RoleRegion   FieldRole = "region"
	RoleCustom   FieldRole = "custom"
)

// CompareOp is a subcondition comparison operator.
type CompareOp string

const (
	OpEquals    CompareOp = "EQUALS"
	OpNotEquals CompareOp = "NOT_EQUALS"
)

// LogicOp joins conditions or subconditions.
type LogicOp string

const (
	LogicAnd LogicOp = "AND"
	LogicOr  LogicOp = "OR"
)

// Option is a (key, display value) pair belonging to a select field.
type Option struct {
	Key   string
	Value string
}

// SubCondition compares the target field's selection against a literal.
type SubCondition struct {
	Operator CompareOp
	Value    string
}

// Condition references one target field and joins its subconditions with
// its own operator.
type Condition struct {
	FieldKey      string
	Operator      LogicOp
	SubConditions []SubCondition
}

// RuleTree is one visibility rule: conditions joined by Operator. A field
// may carry several rule trees; they are OR'd at the field level.
type RuleTree struct {
	Operator   LogicOp
	Conditions []Condition
}

// Field is a single form field definition. Immutable after parsing.
type Field struct {
	Key         string
	Label       string
	DisplayType DisplayType
	Role        FieldRole
	Required    bool

	// Two independent active signals; the field is usable only if both
	// indicate active.
	Enabled    bool
	StatusCode string

	Rules   []RuleTree
	Options []Option
}

// Active reports whether both active signals agree the field is usable.
func (f *Field) Active() bool {
	return f.Enabled && statusActive(f.StatusCode)
}

func statusActive(code string) bool {
	switch code {
	case "", "10", "ACTIVE", "active":
		return true
	}
	return false
}

// OptionValues returns the display values of the field's options, in
// catalog order.
func (f *Field) OptionValues() []string {
	vals := make([]string, 0, len(f.Options))
	for _, o := range f.Options {
		vals = append(vals, o.Value)
	}
	return vals
}

// Criterion is one field+value-set requirement of a workflow. Values are
// OR'd within a criterion.
type Criterion struct {
	FieldKey string
	Values   []string

	// Hashed marks values that arrived as one-way digests. Decrypted is set
	// once a digest was resolved back to plaintext; Inferred is set when the
	// plaintext was guessed from the workflow's own name instead.
	Hashed    bool
	Decrypted bool
	Inferred  bool
}

// Workflow is a routing rule: it triggers when every criterion matches.
type Workflow struct {
	Name      string
	EventType string
	Criteria  []Criterion

	// Action metadata, irrelevant to matching.
	DeadlineDays int
}
