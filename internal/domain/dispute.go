package domain

import "time"

type DisputeType string

const (
	DisputeTypeConditionDisagreement DisputeType = "CONDITION_DISAGREEMENT"
	DisputeTypeCostDispute           DisputeType = "COST_DISPUTE"
	DisputeTypeProcedureViolation    DisputeType = "PROCEDURE_VIOLATION"
	DisputeTypeDamageAssessment      DisputeType = "DAMAGE_ASSESSMENT"
	DisputeTypeOther                 DisputeType = "OTHER"
)

type DisputeStatus string

const (
	DisputeStatusOpen        DisputeStatus = "OPEN"
	DisputeStatusUnderReview DisputeStatus = "UNDER_REVIEW"
	DisputeStatusResolved    DisputeStatus = "RESOLVED"
	DisputeStatusClosed      DisputeStatus = "CLOSED"
)

// Dispute is owned 1:N by an Inspection. Its lifecycle is independent of,
// but gates, the parent inspection's status: an active dispute forces the
// inspection into DISPUTED.
type Dispute struct {
	ID                int32         `json:"id"`
	InspectionID      int32         `json:"inspection_id"`
	Type              DisputeType   `json:"dispute_type"`
	Status            DisputeStatus `json:"status"`
	RaisedBy          int32         `json:"raised_by"`
	Reason            string        `json:"reason"`
	Evidence          string        `json:"evidence"`
	AgreedAmountCents *int32        `json:"agreed_amount_cents,omitempty"`
	ResolutionNotes   string        `json:"resolution_notes"`
	ResolvedBy        *int32        `json:"resolved_by,omitempty"`
	ResolvedAt        *time.Time    `json:"resolved_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// IsActive reports whether the dispute still blocks its parent inspection.
func (s DisputeStatus) IsActive() bool {
	return s == DisputeStatusOpen || s == DisputeStatusUnderReview
}

// IsTerminal reports whether the dispute accepts no further mutation.
func (s DisputeStatus) IsTerminal() bool {
	return s == DisputeStatusResolved || s == DisputeStatusClosed
}
