package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentinspect-backend/internal/domain"
	"rentinspect-backend/internal/validation"
)

var (
	ownerActor  = domain.Actor{ID: 10, Role: domain.UserRoleMember}
	renterActor = domain.Actor{ID: 20, Role: domain.UserRoleMember}
)

type serviceMocks struct {
	inspRepo    *MockInspectionRepo
	disputeRepo *MockDisputeRepo
	bookingRepo *MockBookingRepo
	userRepo    *MockUserRepo
	noteRepo    *MockNotificationRepo
	email       *MockEmailService
}

func newServiceMocks() *serviceMocks {
	return &serviceMocks{
		inspRepo:    new(MockInspectionRepo),
		disputeRepo: new(MockDisputeRepo),
		bookingRepo: new(MockBookingRepo),
		userRepo:    new(MockUserRepo),
		noteRepo:    new(MockNotificationRepo),
		email:       new(MockEmailService),
	}
}

func (m *serviceMocks) inspectionService(policy DiscrepancyPolicy) InspectionService {
	return NewInspectionService(m.inspRepo, m.disputeRepo, m.bookingRepo, m.userRepo, m.noteRepo, m.email,
		validation.PhotoPolicy{MinPhotos: 2, MaxPhotos: 20, RequireLocation: true}, policy)
}

// allowNotifications stubs the whole outbox-and-email path so workflow
// tests do not have to care about delivery.
func (m *serviceMocks) allowNotifications() {
	m.noteRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.noteRepo.On("MarkDelivery", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.userRepo.On("GetByID", mock.Anything, mock.Anything).
		Return(&domain.User{ID: 1, Email: "user@example.com", Name: "User"}, nil)
	m.email.On("SendWorkflowStepNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.email.On("SendDisputeRaisedNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.email.On("SendDisputeResolvedNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func confirmedBooking(now time.Time) *domain.Booking {
	return &domain.Booking{
		ID:        3,
		ProductID: 2,
		OwnerID:   ownerActor.ID,
		RenterID:  renterActor.ID,
		Status:    domain.BookingStatusConfirmed,
		StartDate: now.Add(48 * time.Hour),
		EndDate:   now.Add(96 * time.Hour),
	}
}

func svcPendingInspection(version int32) *domain.Inspection {
	inspector := int32(30)
	return &domain.Inspection{
		ID:          1,
		ProductID:   2,
		BookingID:   3,
		InspectorID: &inspector,
		OwnerID:     ownerActor.ID,
		RenterID:    renterActor.ID,
		Type:        domain.InspectionTypePreRental,
		Status:      domain.InspectionStatusPending,
		ScheduledAt: time.Now().UTC().Add(24 * time.Hour),
		Version:     version,
	}
}

func validSubmission() SubmissionRequest {
	return SubmissionRequest{
		Condition: domain.ItemConditionGood,
		Notes:     "no visible damage",
		Location:  &domain.GeoPoint{Latitude: 52.52, Longitude: 13.405, CapturedOn: time.Now().UTC()},
		Confirmed: true,
		Photos: []domain.InspectionPhoto{
			{URL: "http://blobs/a.jpg"},
			{URL: "http://blobs/b.jpg"},
		},
	}
}

func TestCreateInspection(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("Success", func(t *testing.T) {
		m := newServiceMocks()
		m.allowNotifications()
		svc := m.inspectionService(DiscrepancyPolicyOpenDispute)

		m.bookingRepo.On("GetByID", ctx, int32(3)).Return(confirmedBooking(now), nil)
		m.inspRepo.On("Create", ctx, mock.Anything).
			Run(func(args mock.Arguments) {
				insp := args.Get(1).(*domain.Inspection)
				insp.ID = 1
				insp.Version = 1
			}).Return(nil)

		view, err := svc.CreateInspection(ctx, ownerActor, CreateInspectionRequest{
			BookingID:   3,
			Type:        domain.InspectionTypePreRental,
			ScheduledAt: now.Add(24 * time.Hour),
			Location:    "Berlin",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.InspectionStatusPending, view.Inspection.Status)
		assert.Equal(t, ownerActor.ID, view.Inspection.OwnerID)
		assert.Equal(t, renterActor.ID, view.Inspection.RenterID)
		m.noteRepo.AssertCalled(t, "Create", ctx, mock.Anything)
	})

	t.Run("UnconfirmedBookingMakesNoWrite", func(t *testing.T) {
		m := newServiceMocks()
		svc := m.inspectionService(DiscrepancyPolicyOpenDispute)

		booking := confirmedBooking(now)
		booking.Status = domain.BookingStatusPending
		m.bookingRepo.On("GetByID", ctx, int32(3)).Return(booking, nil)

		_, err := svc.CreateInspection(ctx, ownerActor, CreateInspectionRequest{
			BookingID:   3,
			Type:        domain.InspectionTypePreRental,
			ScheduledAt: now.Add(24 * time.Hour),
		})
		assert.Equal(t, domain.KindPreconditionFailed, domain.KindOf(err))
		m.inspRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ScheduleAfterRentalStartIsOutOfWindow", func(t *testing.T) {
		m := newServiceMocks()
		svc := m.inspectionService(DiscrepancyPolicyOpenDispute)

		m.bookingRepo.On("GetByID", ctx, int32(3)).Return(confirmedBooking(now), nil)

		_, err := svc.CreateInspection(ctx, ownerActor, CreateInspectionRequest{
			BookingID:   3,
			Type:        domain.InspectionTypePreRental,
			ScheduledAt: now.Add(72 * time.Hour),
		})
		assert.Equal(t, domain.KindOutOfWindow, domain.KindOf(err))
		m.inspRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ProductBookingMismatchRejected", func(t *testing.T) {
		m := newServiceMocks()
		svc := m.inspectionService(DiscrepancyPolicyOpenDispute)

		m.bookingRepo.On("GetByID", ctx, int32(3)).Return(confirmedBooking(now), nil)

		_, err := svc.CreateInspection(ctx, ownerActor, CreateInspectionRequest{
			ProductID:   999,
			BookingID:   3,
			Type:        domain.InspectionTypePreRental,
			ScheduledAt: now.Add(24 * time.Hour),
		})
		assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
	})

	t.Run("BundledSubmissionWritesRowAndPhotosTogether", func(t *testing.T) {
		m := newServiceMocks()
		m.allowNotifications()
		svc := m.inspectionService(DiscrepancyPolicyOpenDispute)

		m.bookingRepo.On("GetByID", ctx, int32(3)).Return(confirmedBooking(now), nil)
		m.inspRepo.On("CreateWithPhotos", ctx, mock.Anything, mock.MatchedBy(func(photos []domain.InspectionPhoto) bool {
			return len(photos) == 2 &&
				photos[0].Category == domain.PhotoCategoryBefore &&
				photos[0].UploadedBy == ownerActor.ID
		})).Run(func(args mock.Arguments) {
			insp := args.Get(1).(*domain.Inspection)
			insp.ID = 1
			insp.Version = 1
		}).Return(nil)

		sub := validSubmission()
		view, err := svc.CreateInspection(ctx, ownerActor, CreateInspectionRequest{
			BookingID:          3,
			Type:               domain.InspectionTypePreRental,
			ScheduledAt:        now.Add(24 * time.Hour),
			OwnerPreInspection: &sub,
		})
		require.NoError(t, err)
		require.NotNil(t, view.Inspection.OwnerPreInspectionData)
		assert.NotNil(t, view.Inspection.OwnerPreInspectionSubmittedAt)
		m.inspRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("BundledSubmissionPhotoFailureLeavesNoRow", func(t *testing.T) {
		m := newServiceMocks()
		svc := m.inspectionService(DiscrepancyPolicyOpenDispute)

		m.bookingRepo.On("GetByID", ctx, int32(3)).Return(confirmedBooking(now), nil)
		m.inspRepo.On("CreateWithPhotos", ctx, mock.Anything, mock.Anything).
			Return(errors.New("photo insert failed"))

		sub := validSubmission()
		_, err := svc.CreateInspection(ctx, ownerActor, CreateInspectionRequest{
			BookingID:          3,
			Type:               domain.InspectionTypePreRental,
			ScheduledAt:        now.Add(24 * time.Hour),
			OwnerPreInspection: &sub,
		})
		require.Error(t, err)
		m.inspRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		m.noteRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("BundledSubmissionBelowPhotoMinimumMakesNoWrite", func(t *testing.T) {
		m := newServiceMocks()
		svc := m.inspectionService(DiscrepancyPolicyOpenDispute)

		m.bookingRepo.On("GetByID", ctx, int32(3)).Return(confirmedBooking(now), nil)

		sub := validSubmission()
		sub.Photos = sub.Photos[:1]
		_, err := svc.CreateInspection(ctx, ownerActor, CreateInspectionRequest{
			BookingID:          3,
			Type:               domain.InspectionTypePreRental,
			ScheduledAt:        now.Add(24 * time.Hour),
			OwnerPreInspection: &sub,
		})
		assert.Equal(t, domain.KindIncompletePayload, domain.KindOf(err))
		m.inspRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestStart(t *testing.T) {
	ctx := context.Background()

	t.Run("StaleVersionIsConflictBeforeAnyGuard", func(t *testing.T) {
		m := newServiceMocks()
		svc := m.inspectionService(DiscrepancyPolicyOpenDispute)

		m.inspRepo.On("GetByID", ctx, int32(1)).Return(svcPendingInspection(5), nil)

		_, err := svc.Start(ctx, domain.Actor{ID: 30, Role: domain.UserRoleInspector}, 1, 4)
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
		m.inspRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("NotificationFailureDoesNotFailTheWrite", func(t *testing.T) {
		m := newServiceMocks()
		svc := m.inspectionService(DiscrepancyPolicyOpenDispute)

		m.inspRepo.On("GetByID", ctx, int32(1)).Return(svcPendingInspection(1), nil)
		m.inspRepo.On("Update", ctx, mock.Anything).Return(nil)
		m.noteRepo.On("Create", ctx, mock.Anything).Return(errors.New("notifications table unavailable"))
		m.userRepo.On("GetByID", mock.Anything, mock.Anything).
			Return(&domain.User{ID: 1, Email: "user@example.com"}, nil)

		view, err := svc.Start(ctx, domain.Actor{ID: 30, Role: domain.UserRoleInspector}, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.InspectionStatusInProgress, view.Inspection.Status)
		m.email.AssertNotCalled(t, "SendWorkflowStepNotification",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSubmitOwnerPreInspectionService(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		m := newServiceMocks()
		m.allowNotifications()
		svc := m.inspectionService(DiscrepancyPolicyOpenDispute)

		insp := svcPendingInspection(1)
		m.inspRepo.On("GetByID", ctx, int32(1)).Return(insp, nil)
		m.inspRepo.On("UpdateWithPhotos", ctx, insp, mock.MatchedBy(func(photos []domain.InspectionPhoto) bool {
			return len(photos) == 2 &&
				photos[0].Category == domain.PhotoCategoryBefore &&
				photos[0].UploadedBy == ownerActor.ID
		})).Return(nil)

		view, err := svc.SubmitOwnerPreInspection(ctx, ownerActor, 1, 1, validSubmission())
		require.NoError(t, err)
		require.NotNil(t, view.Inspection.OwnerPreInspectionData)
		assert.NotNil(t, view.Inspection.OwnerPreInspectionSubmittedAt)
	})

	t.Run("ShortPayloadMakesNoPartialWrite", func(t *testing.T) {
		m := newServiceMocks()
		svc := m.inspectionService(DiscrepancyPolicyOpenDispute)

		m.inspRepo.On("GetByID", ctx, int32(1)).Return(svcPendingInspection(1), nil)

		req := validSubmission()
		req.Photos = req.Photos[:1]
		_, err := svc.SubmitOwnerPreInspection(ctx, ownerActor, 1, 1, req)
		assert.Equal(t, domain.KindIncompletePayload, domain.KindOf(err))
		m.inspRepo.AssertNotCalled(t, "UpdateWithPhotos", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RenterCannotSubmitForTheOwner", func(t *testing.T) {
		m := newServiceMocks()
		svc := m.inspectionService(DiscrepancyPolicyOpenDispute)

		m.inspRepo.On("GetByID", ctx, int32(1)).Return(svcPendingInspection(1), nil)

		_, err := svc.SubmitOwnerPreInspection(ctx, renterActor, 1, 1, validSubmission())
		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	})
}

func TestReportRenterDiscrepancyService(t *testing.T) {
	ctx := context.Background()

	confirmedInspection := func() *domain.Inspection {
		now := time.Now().UTC()
		insp := svcPendingInspection(2)
		insp.OwnerPreInspectionData = &domain.ConditionReport{Condition: domain.ItemConditionGood, SubmittedBy: ownerActor.ID}
		insp.OwnerPreInspectionSubmittedAt = &now
		insp.OwnerPreInspectionConfirmed = true
		insp.OwnerPreInspectionConfirmedAt = &now
		return insp
	}

	t.Run("DefaultPolicyOpensDisputeAtomically", func(t *testing.T) {
		m := newServiceMocks()
		m.allowNotifications()
		svc := m.inspectionService(DiscrepancyPolicyOpenDispute)

		insp := confirmedInspection()
		m.inspRepo.On("GetByID", ctx, int32(1)).Return(insp, nil)
		m.disputeRepo.On("CountActiveByInspection", ctx, int32(1)).Return(int32(0), nil)
		m.disputeRepo.On("CreateWithParent", ctx, mock.MatchedBy(func(d *domain.Dispute) bool {
			return d.Type == domain.DisputeTypeConditionDisagreement &&
				d.Status == domain.DisputeStatusOpen &&
				d.RaisedBy == renterActor.ID
		}), insp, mock.Anything).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.Dispute).ID = 7 }).
			Return(nil)

		view, err := svc.ReportRenterDiscrepancy(ctx, renterActor, 1, 2, DiscrepancyRequest{
			Issues: []string{"scratch on lens"},
			Notes:  "not in the owner's report",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.InspectionStatusDisputed, view.Inspection.Status)
		assert.True(t, view.Inspection.RenterDiscrepancyReported)
		m.inspRepo.AssertNotCalled(t, "UpdateWithPhotos", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ActiveDisputeBlocksASecondEscalation", func(t *testing.T) {
		m := newServiceMocks()
		svc := m.inspectionService(DiscrepancyPolicyOpenDispute)

		m.inspRepo.On("GetByID", ctx, int32(1)).Return(confirmedInspection(), nil)
		m.disputeRepo.On("CountActiveByInspection", ctx, int32(1)).Return(int32(1), nil)

		_, err := svc.ReportRenterDiscrepancy(ctx, renterActor, 1, 2, DiscrepancyRequest{Issues: []string{"dent"}})
		assert.Equal(t, domain.KindPreconditionFailed, domain.KindOf(err))
		m.disputeRepo.AssertNotCalled(t, "CreateWithParent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ReinspectPolicyReopensTheOwnerSubmission", func(t *testing.T) {
		m := newServiceMocks()
		m.allowNotifications()
		svc := m.inspectionService(DiscrepancyPolicyReinspect)

		insp := confirmedInspection()
		m.inspRepo.On("GetByID", ctx, int32(1)).Return(insp, nil)
		m.inspRepo.On("UpdateWithPhotos", ctx, insp, mock.Anything).Return(nil)

		view, err := svc.ReportRenterDiscrepancy(ctx, renterActor, 1, 2, DiscrepancyRequest{
			Issues: []string{"scratch on lens"},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.InspectionStatusPending, view.Inspection.Status)
		assert.False(t, view.Inspection.OwnerPreInspectionConfirmed)
		assert.Nil(t, view.Inspection.OwnerPreInspectionConfirmedAt)
		assert.True(t, view.Inspection.RenterDiscrepancyReported)
		m.disputeRepo.AssertNotCalled(t, "CreateWithParent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestItemGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("RenterCannotRecordItems", func(t *testing.T) {
		m := newServiceMocks()
		svc := m.inspectionService(DiscrepancyPolicyOpenDispute)

		m.inspRepo.On("GetByID", ctx, int32(1)).Return(svcPendingInspection(1), nil)

		_, err := svc.AddItem(ctx, renterActor, 1, ItemRequest{ItemName: "Lens"})
		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	})

	t.Run("ResolvedInspectionAcceptsNoItems", func(t *testing.T) {
		m := newServiceMocks()
		svc := m.inspectionService(DiscrepancyPolicyOpenDispute)

		insp := svcPendingInspection(1)
		insp.Status = domain.InspectionStatusResolved
		m.inspRepo.On("GetByID", ctx, int32(1)).Return(insp, nil)

		_, err := svc.AddItem(ctx, ownerActor, 1, ItemRequest{ItemName: "Lens"})
		assert.Equal(t, domain.KindAlreadyFinalized, domain.KindOf(err))
	})
}
