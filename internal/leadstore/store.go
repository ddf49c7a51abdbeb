// Package leadstore persists lead records in an external tabular store.
package leadstore

import (
	"context"

	"github.com/sells-group/lead-intake/internal/model"
)

// LeadUpdate is a partial update to a lead record. Only non-nil fields
// are written.
type LeadUpdate struct {
	AIContext      *string
	LinkedInData   *string
	OneLiner       *string
	LinkedInURL    *string
	CompanyWebsite *string
	RulesExecuted  *string
	Status         *model.LeadStatus
}

// Str returns a pointer to s, for building LeadUpdate literals.
func Str(s string) *string {
	return &s
}

// Status returns a pointer to st, for building LeadUpdate literals.
func Status(st model.LeadStatus) *model.LeadStatus {
	return &st
}

// Store defines the persistence operations the orchestrator needs.
type Store interface {
	// EnsureDatabase creates the lead table if it does not exist yet.
	// Idempotent: a no-op when the table is already present.
	EnsureDatabase(ctx context.Context) error

	// CreateLead creates a new lead record with Status=New and returns
	// its identifier.
	CreateLead(ctx context.Context, sub model.Submission) (string, error)

	// UpdateLead applies a partial update to an existing lead record.
	UpdateLead(ctx context.Context, leadID string, update LeadUpdate) error
}
