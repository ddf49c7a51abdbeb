package model

// Operator is a rule condition comparison operator.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpContains    Operator = "contains"
	OpGreaterThan Operator = "greaterThan"
	OpLessThan    Operator = "lessThan"
	OpIn          Operator = "in"
)

// Known reports whether the operator is one the engine understands.
// Unknown operators evaluate to false (fail-closed), but rule load
// rejects them up front.
func (o Operator) Known() bool {
	switch o {
	case OpEquals, OpContains, OpGreaterThan, OpLessThan, OpIn:
		return true
	}
	return false
}

// Condition compares one submission field against a value. Every
// condition on a rule must hold for the rule to match.
type Condition struct {
	Field    SubmissionField `json:"field" yaml:"field"`
	Operator Operator        `json:"operator" yaml:"operator"`
	Value    any             `json:"value" yaml:"value"`
}

// ActionType tags a rule action.
type ActionType string

const (
	ActionEmail    ActionType = "email"
	ActionSchedule ActionType = "schedule"
)

// EmailConfig configures an email action. RequiresReview gates the send
// behind human review: the body is still generated but never sent.
type EmailConfig struct {
	Template       string `json:"template" yaml:"template"`
	Subject        string `json:"subject" yaml:"subject"`
	RequiresReview bool   `json:"requires_review" yaml:"requires_review"`
}

// ScheduleConfig configures a schedule action.
type ScheduleConfig struct {
	DurationMinutes int    `json:"duration_minutes" yaml:"duration_minutes"`
	MeetingType     string `json:"meeting_type" yaml:"meeting_type"`
	AutoSchedule    bool   `json:"auto_schedule" yaml:"auto_schedule"`
}

// Action is a typed, configured side-effecting step attached to a rule.
// Exactly one of Email or Schedule is set, matching Type.
type Action struct {
	Type     ActionType      `json:"type" yaml:"type"`
	Email    *EmailConfig    `json:"email,omitempty" yaml:"email,omitempty"`
	Schedule *ScheduleConfig `json:"schedule,omitempty" yaml:"schedule,omitempty"`
}

// Rule pairs a declarative condition set (logical AND) with an ordered
// action list controlling automated follow-up.
type Rule struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Conditions []Condition `json:"conditions" yaml:"conditions"`
	Actions    []Action    `json:"actions" yaml:"actions"`
	Enabled    bool        `json:"enabled" yaml:"enabled"`
}
