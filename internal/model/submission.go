package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// FundingStage is the declared raise stage on an intake submission.
type FundingStage string

const (
	StagePreSeed FundingStage = "pre-seed"
	StageSeed    FundingStage = "seed"
	StageSeriesA FundingStage = "series-a"
	StageSeriesB FundingStage = "series-b"
	StageLater   FundingStage = "later-stage"
)

// Stages lists all known funding stages in ascending order.
var Stages = []FundingStage{StagePreSeed, StageSeed, StageSeriesA, StageSeriesB, StageLater}

// Valid reports whether s is one of the known funding stages.
func (s FundingStage) Valid() bool {
	for _, known := range Stages {
		if s == known {
			return true
		}
	}
	return false
}

// Submission is a single investor-outreach form submission.
// It is immutable once produced by the form boundary.
type Submission struct {
	FirstName      string       `json:"firstName"`
	LastName       string       `json:"lastName"`
	Email          string       `json:"email"`
	Company        string       `json:"company"`
	Position       string       `json:"position"`
	LinkedInURL    string       `json:"linkedinUrl,omitempty"`
	CompanyWebsite string       `json:"companyWebsite,omitempty"`
	Message        string       `json:"message"`
	FundingStage   FundingStage `json:"fundingStage"`
	FundingAmount  *int         `json:"fundingAmount,omitempty"`
	Industry       string       `json:"industry"`
	SubmittedAt    time.Time    `json:"submittedAt"`
}

// FullName returns "First Last".
func (s Submission) FullName() string {
	return s.FirstName + " " + s.LastName
}

// SubmissionField identifies a submission field that rule conditions may
// reference. The set is closed: unknown names are rejected at rule load
// rather than silently evaluating to nil.
type SubmissionField string

const (
	FieldFirstName      SubmissionField = "firstName"
	FieldLastName       SubmissionField = "lastName"
	FieldEmail          SubmissionField = "email"
	FieldCompany        SubmissionField = "company"
	FieldPosition       SubmissionField = "position"
	FieldLinkedInURL    SubmissionField = "linkedinUrl"
	FieldCompanyWebsite SubmissionField = "companyWebsite"
	FieldMessage        SubmissionField = "message"
	FieldFundingStage   SubmissionField = "fundingStage"
	FieldFundingAmount  SubmissionField = "fundingAmount"
	FieldIndustry       SubmissionField = "industry"
)

// fieldAccessors maps each known field to its typed extractor.
var fieldAccessors = map[SubmissionField]func(Submission) any{
	FieldFirstName:      func(s Submission) any { return s.FirstName },
	FieldLastName:       func(s Submission) any { return s.LastName },
	FieldEmail:          func(s Submission) any { return s.Email },
	FieldCompany:        func(s Submission) any { return s.Company },
	FieldPosition:       func(s Submission) any { return s.Position },
	FieldLinkedInURL:    func(s Submission) any { return s.LinkedInURL },
	FieldCompanyWebsite: func(s Submission) any { return s.CompanyWebsite },
	FieldMessage:        func(s Submission) any { return s.Message },
	FieldFundingStage:   func(s Submission) any { return string(s.FundingStage) },
	FieldFundingAmount: func(s Submission) any {
		if s.FundingAmount == nil {
			return nil
		}
		return *s.FundingAmount
	},
	FieldIndustry: func(s Submission) any { return s.Industry },
}

// ParseSubmissionField validates a condition field name against the
// closed field set.
func ParseSubmissionField(name string) (SubmissionField, error) {
	f := SubmissionField(name)
	if _, ok := fieldAccessors[f]; !ok {
		return "", eris.Errorf("model: unknown submission field %q", name)
	}
	return f, nil
}

// Value extracts the field's value from a submission. Unknown fields
// yield nil.
func (f SubmissionField) Value(s Submission) any {
	fn, ok := fieldAccessors[f]
	if !ok {
		return nil
	}
	return fn(s)
}

// LeadStatus tracks a lead record through the outreach funnel.
// A lead moves New → Contacted only via a matched-and-executed rule and
// never reverts.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "New"
	LeadStatusContacted LeadStatus = "Contacted"
	LeadStatusClosed    LeadStatus = "Closed"
)
