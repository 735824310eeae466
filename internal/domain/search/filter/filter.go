package filter

import "fmt"

// Kind distinguishes the condition variants.
type Kind int

// Condition kinds.
const (
	// KindMatch tests field equality against one value, or set
	// membership when several values are given.
	KindMatch Kind = iota
	// KindContains tests a substring match.
	KindContains
	// KindRange tests a numeric field against inclusive bounds.
	KindRange
)

// Expression is a pure conjunction of conditions. An empty expression
// means "match everything"; disjunction exists only inside a single
// multi-value membership condition.
type Expression struct {
	conditions []Condition
}

// NewExpression creates a filter expression from conditions.
func NewExpression(conditions ...Condition) Expression {
	return Expression{conditions: conditions}
}

// Conditions returns the AND-joined conditions.
func (e Expression) Conditions() []Condition { return e.conditions }

// IsEmpty reports whether the expression constrains nothing. Callers
// must treat an empty expression as "match everything", never as
// "match nothing".
func (e Expression) IsEmpty() bool { return len(e.conditions) == 0 }

// And returns a new expression with the condition appended.
func (e Expression) And(c Condition) Expression {
	out := make([]Condition, 0, len(e.conditions)+1)
	out = append(out, e.conditions...)
	out = append(out, c)
	return Expression{conditions: out}
}

// Condition is a single filter clause.
type Condition struct {
	key    string
	kind   Kind
	values []string
	gte    *float64
	lte    *float64
}

// NewMatch creates an equality (single value) or membership (several
// values) condition.
func NewMatch(key string, values ...string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if len(values) == 0 {
		return Condition{}, fmt.Errorf("match values are required for key %q", key)
	}
	for _, v := range values {
		if v == "" {
			return Condition{}, fmt.Errorf("empty match value for key %q", key)
		}
	}
	return Condition{key: key, kind: KindMatch, values: values}, nil
}

// NewContains creates a substring condition.
func NewContains(key, substring string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if substring == "" {
		return Condition{}, fmt.Errorf("substring is required for key %q", key)
	}
	return Condition{key: key, kind: KindContains, values: []string{substring}}, nil
}

// NewRange creates a numeric range condition with inclusive bounds;
// either bound may be nil (open-ended). At least one bound is required.
func NewRange(key string, gte, lte *float64) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if gte == nil && lte == nil {
		return Condition{}, fmt.Errorf("at least one range bound is required for key %q", key)
	}
	return Condition{key: key, kind: KindRange, gte: gte, lte: lte}, nil
}

// Key returns the attribute name.
func (c Condition) Key() string { return c.key }

// Kind returns the condition variant.
func (c Condition) Kind() Kind { return c.kind }

// Values returns the match values (or the single substring).
func (c Condition) Values() []string { return c.values }

// GTE returns the inclusive lower bound.
func (c Condition) GTE() *float64 { return c.gte }

// LTE returns the inclusive upper bound.
func (c Condition) LTE() *float64 { return c.lte }
