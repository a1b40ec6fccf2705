package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"rentinspect-backend/internal/domain"
)

// MockInspectionRepo
type MockInspectionRepo struct {
	mock.Mock
}

func (m *MockInspectionRepo) Create(ctx context.Context, insp *domain.Inspection) error {
	args := m.Called(ctx, insp)
	return args.Error(0)
}
func (m *MockInspectionRepo) CreateWithPhotos(ctx context.Context, insp *domain.Inspection, photos []domain.InspectionPhoto) error {
	args := m.Called(ctx, insp, photos)
	return args.Error(0)
}
func (m *MockInspectionRepo) GetByID(ctx context.Context, id int32) (*domain.Inspection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inspection), args.Error(1)
}
func (m *MockInspectionRepo) Update(ctx context.Context, insp *domain.Inspection) error {
	args := m.Called(ctx, insp)
	return args.Error(0)
}
func (m *MockInspectionRepo) UpdateWithPhotos(ctx context.Context, insp *domain.Inspection, photos []domain.InspectionPhoto) error {
	args := m.Called(ctx, insp, photos)
	return args.Error(0)
}
func (m *MockInspectionRepo) ListByBooking(ctx context.Context, bookingID int32) ([]domain.Inspection, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.Inspection), args.Error(1)
}
func (m *MockInspectionRepo) ListByParticipant(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Inspection, int32, error) {
	args := m.Called(ctx, userID, status, page, pageSize)
	return args.Get(0).([]domain.Inspection), args.Get(1).(int32), args.Error(2)
}
func (m *MockInspectionRepo) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]domain.Inspection, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.Inspection), args.Error(1)
}
func (m *MockInspectionRepo) CreateItem(ctx context.Context, item *domain.InspectionItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockInspectionRepo) GetItemByID(ctx context.Context, id int32) (*domain.InspectionItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InspectionItem), args.Error(1)
}
func (m *MockInspectionRepo) UpdateItem(ctx context.Context, item *domain.InspectionItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockInspectionRepo) DeleteItem(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockInspectionRepo) DeletePhoto(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDisputeRepo
type MockDisputeRepo struct {
	mock.Mock
}

func (m *MockDisputeRepo) GetByID(ctx context.Context, id int32) (*domain.Dispute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dispute), args.Error(1)
}
func (m *MockDisputeRepo) ListByInspection(ctx context.Context, inspectionID int32) ([]domain.Dispute, error) {
	args := m.Called(ctx, inspectionID)
	return args.Get(0).([]domain.Dispute), args.Error(1)
}
func (m *MockDisputeRepo) CountActiveByInspection(ctx context.Context, inspectionID int32) (int32, error) {
	args := m.Called(ctx, inspectionID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockDisputeRepo) CreateWithParent(ctx context.Context, d *domain.Dispute, insp *domain.Inspection, photos []domain.InspectionPhoto) error {
	args := m.Called(ctx, d, insp, photos)
	return args.Error(0)
}
func (m *MockDisputeRepo) UpdateWithParent(ctx context.Context, d *domain.Dispute, insp *domain.Inspection) error {
	args := m.Called(ctx, d, insp)
	return args.Error(0)
}
func (m *MockDisputeRepo) Update(ctx context.Context, d *domain.Dispute) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
func (m *MockNotificationRepo) ListPendingDelivery(ctx context.Context, maxAttempts, limit int32) ([]domain.Notification, error) {
	args := m.Called(ctx, maxAttempts, limit)
	return args.Get(0).([]domain.Notification), args.Error(1)
}
func (m *MockNotificationRepo) MarkDelivery(ctx context.Context, id int32, status domain.DeliveryStatus, attempts int32) error {
	args := m.Called(ctx, id, status, attempts)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendInspectionScheduledNotification(ctx context.Context, email, name string, inspectionID int32, scheduledAt time.Time) error {
	args := m.Called(ctx, email, name, inspectionID, scheduledAt)
	return args.Error(0)
}
func (m *MockEmailService) SendWorkflowStepNotification(ctx context.Context, email, name, step, message string) error {
	args := m.Called(ctx, email, name, step, message)
	return args.Error(0)
}
func (m *MockEmailService) SendDisputeRaisedNotification(ctx context.Context, email, name string, disputeID int32, reason string) error {
	args := m.Called(ctx, email, name, disputeID, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendDisputeResolvedNotification(ctx context.Context, email, name string, disputeID int32, resolutionNotes string) error {
	args := m.Called(ctx, email, name, disputeID, resolutionNotes)
	return args.Error(0)
}
func (m *MockEmailService) SendInspectionReminder(ctx context.Context, email, name string, inspectionID int32, scheduledAt time.Time) error {
	args := m.Called(ctx, email, name, inspectionID, scheduledAt)
	return args.Error(0)
}
