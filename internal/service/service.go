package service

import (
	"context"
	"time"

	"rentinspect-backend/internal/domain"
)

// SubmissionRequest carries a pre/post-inspection submission. Photos are
// references to blobs already handed to the storage collaborator: upload
// completion is a precondition for validation, not a side effect after it.
type SubmissionRequest struct {
	Condition domain.ItemCondition
	Notes     string
	Location  *domain.GeoPoint
	Confirmed bool
	Photos    []domain.InspectionPhoto
}

// CreateInspectionRequest creates the aggregate, optionally bundling the
// owner's first submission for the combined create-and-submit flow.
type CreateInspectionRequest struct {
	ProductID          int32
	BookingID          int32
	InspectorID        *int32
	Type               domain.InspectionType
	ScheduledAt        time.Time
	Location           string
	Notes              string
	OwnerPreInspection *SubmissionRequest
}

type DiscrepancyRequest struct {
	Issues []string
	Notes  string
	Photos []domain.InspectionPhoto
}

type OwnerPostReviewRequest struct {
	Accepted      bool
	DisputeRaised bool
	DisputeType   domain.DisputeType
	DisputeReason string
	Evidence      string
	Photos        []domain.InspectionPhoto
}

type RaiseDisputeRequest struct {
	Type     domain.DisputeType
	Reason   string
	Evidence string
	Photos   []domain.InspectionPhoto
}

type ItemRequest struct {
	ItemName             string
	Condition            domain.ItemCondition
	Description          string
	RepairCostCents      int32
	ReplacementCostCents int32
}

// InspectionService drives the workflow state machine. Every mutating call
// takes the acting identity and the caller's last-seen aggregate version,
// and returns the full updated aggregate view.
type InspectionService interface {
	CreateInspection(ctx context.Context, actor domain.Actor, req CreateInspectionRequest) (*domain.InspectionView, error)
	GetInspection(ctx context.Context, actor domain.Actor, id int32) (*domain.InspectionView, error)
	ListInspections(ctx context.Context, actor domain.Actor, status string, page, pageSize int32) ([]domain.Inspection, int32, error)
	ListByBooking(ctx context.Context, actor domain.Actor, bookingID int32) ([]domain.Inspection, error)

	Start(ctx context.Context, actor domain.Actor, id, version int32) (*domain.InspectionView, error)
	Complete(ctx context.Context, actor domain.Actor, id, version int32, inspectorNotes string) (*domain.InspectionView, error)

	SubmitOwnerPreInspection(ctx context.Context, actor domain.Actor, id, version int32, req SubmissionRequest) (*domain.InspectionView, error)
	ConfirmOwnerPreInspection(ctx context.Context, actor domain.Actor, id, version int32) (*domain.InspectionView, error)
	SubmitRenterPreReview(ctx context.Context, actor domain.Actor, id, version int32, accept bool) (*domain.InspectionView, error)
	ReportRenterDiscrepancy(ctx context.Context, actor domain.Actor, id, version int32, req DiscrepancyRequest) (*domain.InspectionView, error)
	SubmitRenterPostInspection(ctx context.Context, actor domain.Actor, id, version int32, req SubmissionRequest) (*domain.InspectionView, error)
	ConfirmRenterPostInspection(ctx context.Context, actor domain.Actor, id, version int32) (*domain.InspectionView, error)
	SubmitOwnerPostReview(ctx context.Context, actor domain.Actor, id, version int32, req OwnerPostReviewRequest) (*domain.InspectionView, error)

	AddItem(ctx context.Context, actor domain.Actor, inspectionID int32, req ItemRequest) (*domain.InspectionView, error)
	UpdateItem(ctx context.Context, actor domain.Actor, inspectionID, itemID int32, req ItemRequest) (*domain.InspectionView, error)
	DeleteItem(ctx context.Context, actor domain.Actor, inspectionID, itemID int32) (*domain.InspectionView, error)
	DeletePhoto(ctx context.Context, actor domain.Actor, inspectionID, photoID int32) (*domain.InspectionView, error)
}

// DisputeService drives the dispute sub-state-machine.
type DisputeService interface {
	RaiseDispute(ctx context.Context, actor domain.Actor, inspectionID, version int32, req RaiseDisputeRequest) (*domain.InspectionView, error)
	ReviewDispute(ctx context.Context, actor domain.Actor, inspectionID, disputeID int32) (*domain.Dispute, error)
	ResolveDispute(ctx context.Context, actor domain.Actor, inspectionID, disputeID, version int32, resolutionNotes string, agreedAmountCents *int32) (*domain.InspectionView, error)
	CloseDispute(ctx context.Context, actor domain.Actor, inspectionID, disputeID, version int32) (*domain.InspectionView, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

// EmailService is the outbound notification collaborator. Failures are
// never fatal to the aggregate write; the outbox job retries.
type EmailService interface {
	SendInspectionScheduledNotification(ctx context.Context, email, name string, inspectionID int32, scheduledAt time.Time) error
	SendWorkflowStepNotification(ctx context.Context, email, name, step, message string) error
	SendDisputeRaisedNotification(ctx context.Context, email, name string, disputeID int32, reason string) error
	SendDisputeResolvedNotification(ctx context.Context, email, name string, disputeID int32, resolutionNotes string) error
	SendInspectionReminder(ctx context.Context, email, name string, inspectionID int32, scheduledAt time.Time) error
}
