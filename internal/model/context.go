package model

import "strings"

// MeetingContext is the structured briefing generated for an investor
// meeting. It is derived per submission and never persisted on its own;
// only the flattened text form lands on the lead record.
type MeetingContext struct {
	PersonalBackground string   `json:"personal_background"`
	CompanyInfo        string   `json:"company_info"`
	MeetingPurpose     string   `json:"meeting_purpose"`
	KeyInsights        []string `json:"key_insights"`
}

// FormatText flattens the context into labeled sections for storage on
// the lead record. Empty sections are omitted.
func (c MeetingContext) FormatText() string {
	var sections []string

	if c.PersonalBackground != "" {
		sections = append(sections, "PERSONAL BACKGROUND:\n"+c.PersonalBackground)
	}
	if c.CompanyInfo != "" {
		sections = append(sections, "COMPANY INFORMATION:\n"+c.CompanyInfo)
	}
	if c.MeetingPurpose != "" {
		sections = append(sections, "MEETING PURPOSE:\n"+c.MeetingPurpose)
	}
	if len(c.KeyInsights) > 0 {
		sections = append(sections, "KEY INSIGHTS:\n"+strings.Join(c.KeyInsights, "\n\n"))
	}

	return strings.Join(sections, "\n\n")
}
