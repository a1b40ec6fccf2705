package domain

import "time"

type InspectionType string

const (
	InspectionTypePreRental           InspectionType = "PRE_RENTAL"
	InspectionTypePostRental          InspectionType = "POST_RENTAL"
	InspectionTypeDamageAssessment    InspectionType = "DAMAGE_ASSESSMENT"
	InspectionTypeMaintenanceCheck    InspectionType = "MAINTENANCE_CHECK"
	InspectionTypeQualityVerification InspectionType = "QUALITY_VERIFICATION"
)

type InspectionStatus string

const (
	InspectionStatusPending    InspectionStatus = "PENDING"
	InspectionStatusInProgress InspectionStatus = "IN_PROGRESS"
	InspectionStatusCompleted  InspectionStatus = "COMPLETED"
	InspectionStatusDisputed   InspectionStatus = "DISPUTED"
	InspectionStatusResolved   InspectionStatus = "RESOLVED"
)

type ItemCondition string

const (
	ItemConditionExcellent ItemCondition = "EXCELLENT"
	ItemConditionGood      ItemCondition = "GOOD"
	ItemConditionFair      ItemCondition = "FAIR"
	ItemConditionPoor      ItemCondition = "POOR"
	ItemConditionDamaged   ItemCondition = "DAMAGED"
)

type PhotoCategory string

const (
	PhotoCategoryGeneral   PhotoCategory = "GENERAL"
	PhotoCategoryDamage    PhotoCategory = "DAMAGE"
	PhotoCategoryCondition PhotoCategory = "CONDITION"
	PhotoCategoryBefore    PhotoCategory = "BEFORE"
	PhotoCategoryAfter     PhotoCategory = "AFTER"
)

// GeoPoint is a location capture attached to a submission. The workflow
// only requires presence; capture itself happens client-side.
type GeoPoint struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CapturedOn time.Time `json:"captured_on"`
}

// ConditionReport is the payload of an owner pre-inspection or renter
// post-inspection submission. Photos live in the photos collection; the
// report keeps the condition block.
type ConditionReport struct {
	Condition   ItemCondition `json:"condition"`
	Notes       string        `json:"notes"`
	Location    *GeoPoint     `json:"location,omitempty"`
	SubmittedBy int32         `json:"submitted_by"`
}

// DiscrepancyReport is the payload of a renter discrepancy report raised
// against the owner's pre-inspection.
type DiscrepancyReport struct {
	Issues []string `json:"issues"`
	Notes  string   `json:"notes"`
}

// Inspection is the aggregate root. All mutation goes through the workflow
// state machine; no other component writes status or workflow flags.
type Inspection struct {
	ID          int32          `json:"id"`
	ProductID   int32          `json:"product_id"`
	BookingID   int32          `json:"booking_id"`
	InspectorID *int32         `json:"inspector_id,omitempty"`
	// Denormalized from the booking at creation; role guards read these.
	OwnerID     int32          `json:"owner_id"`
	RenterID    int32          `json:"renter_id"`
	Type        InspectionType `json:"inspection_type"`

	Status         InspectionStatus `json:"status"`
	ScheduledAt    time.Time        `json:"scheduled_at"`
	Location       string           `json:"location"`
	Notes          string           `json:"notes"`
	InspectorNotes string           `json:"inspector_notes"`

	// Optimistic concurrency: every mutating request carries the last-seen
	// version; a mismatch fails with CONFLICT.
	Version int32 `json:"version"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Workflow metadata. Each flag pairs with a nullable timestamp; once the
	// inspection is terminal these become append-only audit fields.
	OwnerPreInspectionData          *ConditionReport   `json:"owner_pre_inspection_data,omitempty"`
	OwnerPreInspectionSubmittedAt   *time.Time         `json:"owner_pre_inspection_submitted_at,omitempty"`
	OwnerPreInspectionConfirmed     bool               `json:"owner_pre_inspection_confirmed"`
	OwnerPreInspectionConfirmedAt   *time.Time         `json:"owner_pre_inspection_confirmed_at,omitempty"`
	RenterPreReviewAccepted         bool               `json:"renter_pre_review_accepted"`
	RenterPreReviewedAt             *time.Time         `json:"renter_pre_reviewed_at,omitempty"`
	RenterDiscrepancyReported       bool               `json:"renter_discrepancy_reported"`
	RenterDiscrepancyReportedAt     *time.Time         `json:"renter_discrepancy_reported_at,omitempty"`
	RenterDiscrepancyData           *DiscrepancyReport `json:"renter_discrepancy_data,omitempty"`
	RenterPostInspectionData        *ConditionReport   `json:"renter_post_inspection_data,omitempty"`
	RenterPostInspectionSubmittedAt *time.Time         `json:"renter_post_inspection_submitted_at,omitempty"`
	RenterPostInspectionConfirmed   bool               `json:"renter_post_inspection_confirmed"`
	RenterPostInspectionConfirmedAt *time.Time         `json:"renter_post_inspection_confirmed_at,omitempty"`
	OwnerPostReviewAccepted         bool               `json:"owner_post_review_accepted"`
	OwnerPostReviewedAt             *time.Time         `json:"owner_post_reviewed_at,omitempty"`
	OwnerDisputeRaised              bool               `json:"owner_dispute_raised"`
	OwnerDisputeRaisedAt            *time.Time         `json:"owner_dispute_raised_at,omitempty"`

	Items    []InspectionItem  `json:"items,omitempty"`
	Photos   []InspectionPhoto `json:"photos,omitempty"`
	Disputes []Dispute         `json:"disputes,omitempty"`
}

// IsTerminal reports whether no further mutating event is accepted.
func (s InspectionStatus) IsTerminal() bool {
	return s == InspectionStatusResolved
}

// InspectionItem is one assessed component of the inspected product.
// Created and updated only while the inspection is PENDING or IN_PROGRESS.
type InspectionItem struct {
	ID                   int32         `json:"id"`
	InspectionID         int32         `json:"inspection_id"`
	ItemName             string        `json:"item_name"`
	Condition            ItemCondition `json:"condition"`
	Description          string        `json:"description"`
	RepairCostCents      int32         `json:"repair_cost_cents"`
	ReplacementCostCents int32         `json:"replacement_cost_cents"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// InspectionPhoto references an externally stored blob. Immutable once
// created except for deletion.
type InspectionPhoto struct {
	ID           int32         `json:"id"`
	InspectionID int32         `json:"inspection_id"`
	ItemID       *int32        `json:"item_id,omitempty"`
	URL          string        `json:"url"`
	Category     PhotoCategory `json:"category"`
	UploadedBy   int32         `json:"uploaded_by"`
	CreatedAt    time.Time     `json:"created_at"`
}

// CostSummary is the damage-cost rollup across inspection items.
// A read-model projection, never stored.
type CostSummary struct {
	TotalRepairCostCents      int32 `json:"total_repair_cost_cents"`
	TotalReplacementCostCents int32 `json:"total_replacement_cost_cents"`
}

// Timeline is the scheduled/started/completed projection of an inspection.
type Timeline struct {
	ScheduledAt     time.Time  `json:"scheduled_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	DurationMinutes *int32     `json:"duration_minutes,omitempty"`
}

// Participant is a resolved identity attached to the aggregate view.
type Participant struct {
	Role  string `json:"role"`
	ID    int32  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// InspectionView is the full aggregate plus its derived views, returned by
// every mutating gateway call so clients reconcile without a follow-up read.
type InspectionView struct {
	Inspection   *Inspection   `json:"inspection"`
	Costs        CostSummary   `json:"costs"`
	Timeline     Timeline      `json:"timeline"`
	Participants []Participant `json:"participants"`
}
