package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentinspect-backend/internal/domain"
)

var moderatorActor = domain.Actor{ID: 50, Role: domain.UserRoleModerator}

func (m *serviceMocks) disputeService() DisputeService {
	return NewDisputeService(m.inspRepo, m.disputeRepo, m.userRepo, m.noteRepo, m.email)
}

func disputedInspection(version int32) *domain.Inspection {
	insp := svcPendingInspection(version)
	insp.Status = domain.InspectionStatusDisputed
	return insp
}

func underReviewDispute() *domain.Dispute {
	return &domain.Dispute{
		ID:           7,
		InspectionID: 1,
		Type:         domain.DisputeTypeConditionDisagreement,
		Status:       domain.DisputeStatusUnderReview,
		RaisedBy:     renterActor.ID,
		Reason:       "scratch not in the report",
	}
}

func TestRaiseDispute(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerOpensDisputeOnCompletedInspection", func(t *testing.T) {
		m := newServiceMocks()
		m.allowNotifications()
		svc := m.disputeService()

		insp := svcPendingInspection(3)
		insp.Status = domain.InspectionStatusCompleted
		m.inspRepo.On("GetByID", ctx, int32(1)).Return(insp, nil)
		m.disputeRepo.On("CountActiveByInspection", ctx, int32(1)).Return(int32(0), nil)
		m.disputeRepo.On("CreateWithParent", ctx, mock.MatchedBy(func(d *domain.Dispute) bool {
			return d.Type == domain.DisputeTypeOther &&
				d.Status == domain.DisputeStatusOpen &&
				d.RaisedBy == ownerActor.ID
		}), insp, mock.Anything).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.Dispute).ID = 7 }).
			Return(nil)

		view, err := svc.RaiseDispute(ctx, ownerActor, 1, 3, RaiseDisputeRequest{
			Reason: "item came back damaged",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.InspectionStatusDisputed, view.Inspection.Status)
	})

	t.Run("SecondActiveDisputeRejected", func(t *testing.T) {
		m := newServiceMocks()
		svc := m.disputeService()

		m.inspRepo.On("GetByID", ctx, int32(1)).Return(disputedInspection(3), nil)
		m.disputeRepo.On("CountActiveByInspection", ctx, int32(1)).Return(int32(1), nil)

		_, err := svc.RaiseDispute(ctx, ownerActor, 1, 3, RaiseDisputeRequest{Reason: "another one"})
		assert.Equal(t, domain.KindPreconditionFailed, domain.KindOf(err))
		m.disputeRepo.AssertNotCalled(t, "CreateWithParent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("OutsiderCannotRaise", func(t *testing.T) {
		m := newServiceMocks()
		svc := m.disputeService()

		m.inspRepo.On("GetByID", ctx, int32(1)).Return(svcPendingInspection(3), nil)

		_, err := svc.RaiseDispute(ctx, domain.Actor{ID: 77, Role: domain.UserRoleMember}, 1, 3,
			RaiseDisputeRequest{Reason: "not my rental but still"})
		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	})

	t.Run("MissingReasonRejected", func(t *testing.T) {
		m := newServiceMocks()
		svc := m.disputeService()

		m.inspRepo.On("GetByID", ctx, int32(1)).Return(svcPendingInspection(3), nil)

		_, err := svc.RaiseDispute(ctx, renterActor, 1, 3, RaiseDisputeRequest{})
		assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
	})
}

func TestReviewDisputeService(t *testing.T) {
	ctx := context.Background()

	t.Run("ModeratorMovesDisputeUnderReview", func(t *testing.T) {
		m := newServiceMocks()
		svc := m.disputeService()

		d := underReviewDispute()
		d.Status = domain.DisputeStatusOpen
		m.disputeRepo.On("GetByID", ctx, int32(7)).Return(d, nil)
		m.disputeRepo.On("Update", ctx, d).Return(nil)

		got, err := svc.ReviewDispute(ctx, moderatorActor, 1, 7)
		require.NoError(t, err)
		assert.Equal(t, domain.DisputeStatusUnderReview, got.Status)
	})

	t.Run("DisputeOfAnotherInspectionIsNotFound", func(t *testing.T) {
		m := newServiceMocks()
		svc := m.disputeService()

		d := underReviewDispute()
		d.InspectionID = 2
		m.disputeRepo.On("GetByID", ctx, int32(7)).Return(d, nil)

		_, err := svc.ReviewDispute(ctx, moderatorActor, 1, 7)
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
		m.disputeRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestResolveDispute(t *testing.T) {
	ctx := context.Background()

	t.Run("LastActiveDisputeResolvesTheParent", func(t *testing.T) {
		m := newServiceMocks()
		m.allowNotifications()
		svc := m.disputeService()

		insp := disputedInspection(5)
		m.inspRepo.On("GetByID", ctx, int32(1)).Return(insp, nil)
		m.disputeRepo.On("GetByID", ctx, int32(7)).Return(underReviewDispute(), nil)
		m.disputeRepo.On("CountActiveByInspection", ctx, int32(1)).Return(int32(1), nil)
		m.disputeRepo.On("UpdateWithParent", ctx, mock.MatchedBy(func(d *domain.Dispute) bool {
			return d.Status == domain.DisputeStatusResolved && d.ResolvedBy != nil
		}), mock.MatchedBy(func(parent *domain.Inspection) bool {
			return parent.Status == domain.InspectionStatusResolved
		})).Return(nil)

		amount := int32(2500)
		view, err := svc.ResolveDispute(ctx, moderatorActor, 1, 7, 5, "renter covers the repair", &amount)
		require.NoError(t, err)
		assert.Equal(t, domain.InspectionStatusResolved, view.Inspection.Status)
	})

	t.Run("StaleVersionIsConflict", func(t *testing.T) {
		m := newServiceMocks()
		svc := m.disputeService()

		m.inspRepo.On("GetByID", ctx, int32(1)).Return(disputedInspection(5), nil)

		_, err := svc.ResolveDispute(ctx, moderatorActor, 1, 7, 4, "stale", nil)
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
		m.disputeRepo.AssertNotCalled(t, "UpdateWithParent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MemberCannotResolve", func(t *testing.T) {
		m := newServiceMocks()
		svc := m.disputeService()

		m.inspRepo.On("GetByID", ctx, int32(1)).Return(disputedInspection(5), nil)
		m.disputeRepo.On("GetByID", ctx, int32(7)).Return(underReviewDispute(), nil)

		_, err := svc.ResolveDispute(ctx, renterActor, 1, 7, 5, "in my favor", nil)
		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	})
}

func TestCloseDisputeService(t *testing.T) {
	ctx := context.Background()
	adminActor := domain.Actor{ID: 99, Role: domain.UserRoleAdmin}

	t.Run("AdminCloseSettlesTheParent", func(t *testing.T) {
		m := newServiceMocks()
		m.allowNotifications()
		svc := m.disputeService()

		insp := disputedInspection(5)
		m.inspRepo.On("GetByID", ctx, int32(1)).Return(insp, nil)
		m.disputeRepo.On("GetByID", ctx, int32(7)).Return(underReviewDispute(), nil)
		m.disputeRepo.On("CountActiveByInspection", ctx, int32(1)).Return(int32(1), nil)
		m.disputeRepo.On("UpdateWithParent", ctx, mock.MatchedBy(func(d *domain.Dispute) bool {
			return d.Status == domain.DisputeStatusClosed
		}), mock.Anything).Return(nil)

		view, err := svc.CloseDispute(ctx, adminActor, 1, 7, 5)
		require.NoError(t, err)
		assert.Equal(t, domain.InspectionStatusResolved, view.Inspection.Status)
	})

	t.Run("ModeratorCannotClose", func(t *testing.T) {
		m := newServiceMocks()
		svc := m.disputeService()

		m.inspRepo.On("GetByID", ctx, int32(1)).Return(disputedInspection(5), nil)
		m.disputeRepo.On("GetByID", ctx, int32(7)).Return(underReviewDispute(), nil)

		_, err := svc.CloseDispute(ctx, moderatorActor, 1, 7, 5)
		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	})
}

func TestResolveTimestamps(t *testing.T) {
	ctx := context.Background()

	m := newServiceMocks()
	m.allowNotifications()
	svc := m.disputeService()

	before := time.Now().UTC()
	var saved *domain.Dispute
	m.inspRepo.On("GetByID", ctx, int32(1)).Return(disputedInspection(5), nil)
	m.disputeRepo.On("GetByID", ctx, int32(7)).Return(underReviewDispute(), nil)
	m.disputeRepo.On("CountActiveByInspection", ctx, int32(1)).Return(int32(1), nil)
	m.disputeRepo.On("UpdateWithParent", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Dispute) }).
		Return(nil)

	_, err := svc.ResolveDispute(ctx, moderatorActor, 1, 7, 5, "done", nil)
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.NotNil(t, saved.ResolvedAt)
	assert.False(t, saved.ResolvedAt.Before(before))
	assert.Equal(t, moderatorActor.ID, *saved.ResolvedBy)
}
