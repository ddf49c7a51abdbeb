package rules

import "github.com/sells-group/lead-intake/internal/model"

// DefaultRules returns the built-in rule set used when no rules file is
// configured.
func DefaultRules() []model.Rule {
	return []model.Rule{
		{
			ID:   "funding-needed",
			Name: "schedule-meeting",
			Conditions: []model.Condition{
				{
					Field:    model.FieldFundingStage,
					Operator: model.OpIn,
					Value:    []any{"series-a", "series-b"},
				},
				{
					Field:    model.FieldIndustry,
					Operator: model.OpIn,
					Value:    []any{"Technology", "Energy"},
				},
			},
			Actions: []model.Action{
				{
					Type: model.ActionEmail,
					Email: &model.EmailConfig{
						Template:       "high-priority",
						Subject:        "Partnership Opportunity - Immediate Review",
						RequiresReview: true,
					},
				},
				{
					Type: model.ActionSchedule,
					Schedule: &model.ScheduleConfig{
						DurationMinutes: 30,
						MeetingType:     "partnership-discussion",
						AutoSchedule:    true,
					},
				},
			},
			Enabled: true,
		},
	}
}
