package repository

import (
	"context"
	"time"

	"rentinspect-backend/internal/domain"
)

// InspectionRepository persists the inspection aggregate. Mutating updates
// use optimistic concurrency: the write carries the last-seen version and
// fails with CONFLICT on a mismatch. Methods that pair the aggregate write
// with owned-collection writes run in a single transaction so a failed
// submission leaves no partial state.
type InspectionRepository interface {
	Create(ctx context.Context, insp *domain.Inspection) error
	CreateWithPhotos(ctx context.Context, insp *domain.Inspection, photos []domain.InspectionPhoto) error
	GetByID(ctx context.Context, id int32) (*domain.Inspection, error)
	Update(ctx context.Context, insp *domain.Inspection) error
	UpdateWithPhotos(ctx context.Context, insp *domain.Inspection, photos []domain.InspectionPhoto) error
	ListByBooking(ctx context.Context, bookingID int32) ([]domain.Inspection, error)
	ListByParticipant(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Inspection, int32, error)
	ListScheduledBetween(ctx context.Context, from, to time.Time) ([]domain.Inspection, error)

	CreateItem(ctx context.Context, item *domain.InspectionItem) error
	GetItemByID(ctx context.Context, id int32) (*domain.InspectionItem, error)
	UpdateItem(ctx context.Context, item *domain.InspectionItem) error
	DeleteItem(ctx context.Context, id int32) error

	DeletePhoto(ctx context.Context, id int32) error
}

// DisputeRepository persists disputes. The WithParent methods share one
// transaction with the parent inspection update, since opening or settling
// a dispute flips the parent's status under the same optimistic guard.
type DisputeRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Dispute, error)
	ListByInspection(ctx context.Context, inspectionID int32) ([]domain.Dispute, error)
	CountActiveByInspection(ctx context.Context, inspectionID int32) (int32, error)
	CreateWithParent(ctx context.Context, d *domain.Dispute, insp *domain.Inspection, photos []domain.InspectionPhoto) error
	UpdateWithParent(ctx context.Context, d *domain.Dispute, insp *domain.Inspection) error
	Update(ctx context.Context, d *domain.Dispute) error
}

// BookingRepository reads rental agreements owned by the booking system.
type BookingRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
}

// UserRepository reads participant identities for guards and projections.
type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// NotificationRepository is the outbox: notifications are committed with
// the aggregate write and delivered out-of-band by the scheduler.
type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
	ListPendingDelivery(ctx context.Context, maxAttempts, limit int32) ([]domain.Notification, error)
	MarkDelivery(ctx context.Context, id int32, status domain.DeliveryStatus, attempts int32) error
}
