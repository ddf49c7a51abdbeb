// Package form validates raw intake payloads before they enter the
// pipeline.
package form

import (
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sells-group/lead-intake/internal/model"
)

// Input is the raw submit payload. FundingAmount accepts either a JSON
// number or shorthand like "10K" / "2M" / "1B".
type Input struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Company        string `json:"company"`
	Position       string `json:"position"`
	LinkedInURL    string `json:"linkedinUrl,omitempty"`
	CompanyWebsite string `json:"companyWebsite,omitempty"`
	Message        string `json:"message"`
	FundingStage   string `json:"fundingStage"`
	FundingAmount  any    `json:"fundingAmount,omitempty"`
	Industry       string `json:"industry"`
}

// FieldError ties a validation message to the offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates all field errors for a payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "form: invalid submission: " + strings.Join(msgs, "; ")
}

// Validate checks the payload and produces an immutable Submission
// stamped with now. All field errors are collected in one pass.
func Validate(in Input, now time.Time) (model.Submission, error) {
	var errs []FieldError
	add := func(field, message string) {
		errs = append(errs, FieldError{Field: field, Message: message})
	}

	if strings.TrimSpace(in.FirstName) == "" {
		add("firstName", "first name is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		add("lastName", "last name is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		add("email", "valid email is required")
	}
	if strings.TrimSpace(in.Company) == "" {
		add("company", "company name is required")
	}
	if strings.TrimSpace(in.Position) == "" {
		add("position", "position is required")
	}
	if len(strings.TrimSpace(in.Message)) < 10 {
		add("message", "please provide a detailed message (min 10 characters)")
	}

	stage := model.FundingStage(in.FundingStage)
	if !stage.Valid() {
		add("fundingStage", "unknown funding stage")
	}

	if in.LinkedInURL != "" && !validURL(in.LinkedInURL) {
		add("linkedinUrl", "must be a valid URL")
	}
	if in.CompanyWebsite != "" && !validURL(in.CompanyWebsite) {
		add("companyWebsite", "must be a valid URL")
	}

	if strings.TrimSpace(in.Industry) == "" {
		add("industry", "industry is required")
	}

	if len(errs) > 0 {
		return model.Submission{}, &ValidationError{Fields: errs}
	}

	return model.Submission{
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Email:          in.Email,
		Company:        strings.TrimSpace(in.Company),
		Position:       strings.TrimSpace(in.Position),
		LinkedInURL:    in.LinkedInURL,
		CompanyWebsite: in.CompanyWebsite,
		Message:        in.Message,
		FundingStage:   stage,
		FundingAmount:  NormalizeFundingAmount(in.FundingAmount),
		Industry:       strings.TrimSpace(in.Industry),
		SubmittedAt:    now,
	}, nil
}

func validURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// NormalizeFundingAmount converts a raw funding amount into a whole
// dollar figure. Shorthand suffixes K, M, and B multiply; empty or
// unparseable values normalize to nil, matching the form's lenient
// treatment of the optional field.
func NormalizeFundingAmount(v any) *int {
	switch n := v.(type) {
	case nil:
		return nil
	case int:
		return intPtr(n)
	case int64:
		return intPtr(int(n))
	case float64:
		return intPtr(int(math.Round(n)))
	case string:
		s := strings.ToUpper(strings.TrimSpace(n))
		if s == "" {
			return nil
		}

		multiplier := 1.0
		switch {
		case strings.HasSuffix(s, "K"):
			multiplier = 1e3
			s = strings.TrimSuffix(s, "K")
		case strings.HasSuffix(s, "M"):
			multiplier = 1e6
			s = strings.TrimSuffix(s, "M")
		case strings.HasSuffix(s, "B"):
			multiplier = 1e9
			s = strings.TrimSuffix(s, "B")
		}

		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return intPtr(int(math.Round(f * multiplier)))
	}
	return nil
}

func intPtr(n int) *int {
	return &n
}
