// Package rules holds the declarative condition→action rule engine.
package rules

import (
	"strconv"
	"strings"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-intake/internal/model"
)

// Engine evaluates submissions against an ordered, in-memory rule set.
// Evaluation is a pure function of (rules, submission); the rule list is
// only mutated through AddRule/RemoveRule.
type Engine struct {
	mu    sync.RWMutex
	rules []model.Rule
}

// New creates an Engine from the given rules. Structural shape is
// validated up front: unknown condition fields and operators are
// rejected at load rather than silently evaluating to false later.
func New(ruleSet ...model.Rule) (*Engine, error) {
	seen := make(map[string]struct{}, len(ruleSet))
	for _, r := range ruleSet {
		if err := validateRule(r); err != nil {
			return nil, err
		}
		if _, dup := seen[r.ID]; dup {
			return nil, eris.Errorf("rules: duplicate rule id %q", r.ID)
		}
		seen[r.ID] = struct{}{}
	}

	return &Engine{rules: append([]model.Rule(nil), ruleSet...)}, nil
}

func validateRule(r model.Rule) error {
	if r.ID == "" {
		return eris.New("rules: rule id is required")
	}
	if r.Name == "" {
		return eris.Errorf("rules: rule %q has no name", r.ID)
	}
	for _, c := range r.Conditions {
		if _, err := model.ParseSubmissionField(string(c.Field)); err != nil {
			return eris.Wrap(err, "rules: rule "+r.ID)
		}
		if !c.Operator.Known() {
			return eris.Errorf("rules: rule %q has unknown operator %q", r.ID, c.Operator)
		}
	}
	for _, a := range r.Actions {
		switch a.Type {
		case model.ActionEmail:
			if a.Email == nil {
				return eris.Errorf("rules: rule %q email action has no config", r.ID)
			}
		case model.ActionSchedule:
			if a.Schedule == nil {
				return eris.Errorf("rules: rule %q schedule action has no config", r.ID)
			}
		default:
			return eris.Errorf("rules: rule %q has unknown action type %q", r.ID, a.Type)
		}
	}
	return nil
}

// AddRule appends a rule to the in-memory set. No persistence.
func (e *Engine) AddRule(r model.Rule) error {
	if err := validateRule(r); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, existing := range e.rules {
		if existing.ID == r.ID {
			return eris.Errorf("rules: duplicate rule id %q", r.ID)
		}
	}
	e.rules = append(e.rules, r)
	return nil
}

// RemoveRule drops the rule with the given id, if present.
func (e *Engine) RemoveRule(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.rules[:0]
	for _, r := range e.rules {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	e.rules = kept
}

// Rules returns a copy of the current rule list in stored order.
func (e *Engine) Rules() []model.Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]model.Rule(nil), e.rules...)
}

// Evaluate returns the ordered subset of enabled rules whose conditions
// all hold for the submission. A rule with no conditions matches.
func (e *Engine) Evaluate(sub model.Submission) []model.Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var matched []model.Rule
	for _, r := range e.rules {
		if !r.Enabled {
			continue
		}
		if ruleMatches(r, sub) {
			matched = append(matched, r)
		}
	}
	return matched
}

func ruleMatches(r model.Rule, sub model.Submission) bool {
	for _, c := range r.Conditions {
		if !conditionHolds(c, sub) {
			return false
		}
	}
	return true
}

// conditionHolds evaluates a single condition. Unknown operators are
// fail-closed: the condition is false, never an error.
func conditionHolds(c model.Condition, sub model.Submission) bool {
	fieldValue := c.Field.Value(sub)

	switch c.Operator {
	case model.OpEquals:
		return equalValues(fieldValue, c.Value)

	case model.OpContains:
		fs, fok := fieldValue.(string)
		cs, cok := c.Value.(string)
		return fok && cok && strings.Contains(strings.ToLower(fs), strings.ToLower(cs))

	case model.OpGreaterThan:
		f, fok := coerceNumber(fieldValue)
		v, vok := coerceNumber(c.Value)
		return fok && vok && f > v

	case model.OpLessThan:
		f, fok := coerceNumber(fieldValue)
		v, vok := coerceNumber(c.Value)
		return fok && vok && f < v

	case model.OpIn:
		return membership(fieldValue, c.Value)

	default:
		return false
	}
}

// equalValues is strict equality: no string-to-number coercion, but
// numeric values of different Go types compare by value.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, ok := strictNumber(a); ok {
		bf, ok := strictNumber(b)
		return ok && af == bf
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return false
}

// membership tests fieldValue against an array comparison value. A
// non-array value never matches.
func membership(fieldValue, condValue any) bool {
	switch vals := condValue.(type) {
	case []any:
		for _, v := range vals {
			if equalValues(fieldValue, v) {
				return true
			}
		}
	case []string:
		for _, v := range vals {
			if equalValues(fieldValue, v) {
				return true
			}
		}
	}
	return false
}

// strictNumber converts actual numeric types to float64.
func strictNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// coerceNumber additionally parses numeric strings, matching the
// loose-comparison semantics of greaterThan/lessThan. Anything that does
// not coerce makes the comparison false.
func coerceNumber(v any) (float64, bool) {
	if f, ok := strictNumber(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return f, true
		}
	}
	return 0, false
}
