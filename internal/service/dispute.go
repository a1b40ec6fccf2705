package service

import (
	"context"
	"fmt"
	"time"

	"rentinspect-backend/internal/domain"
	"rentinspect-backend/internal/logger"
	"rentinspect-backend/internal/repository"
	"rentinspect-backend/internal/workflow"
)

type disputeService struct {
	inspRepo    repository.InspectionRepository
	disputeRepo repository.DisputeRepository
	userRepo    repository.UserRepository
	noteRepo    repository.NotificationRepository
	emailSvc    EmailService
}

func NewDisputeService(
	inspRepo repository.InspectionRepository,
	disputeRepo repository.DisputeRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
) DisputeService {
	return &disputeService{
		inspRepo:    inspRepo,
		disputeRepo: disputeRepo,
		userRepo:    userRepo,
		noteRepo:    noteRepo,
		emailSvc:    emailSvc,
	}
}

func (s *disputeService) RaiseDispute(ctx context.Context, actor domain.Actor, inspectionID, version int32, req RaiseDisputeRequest) (*domain.InspectionView, error) {
	insp, err := s.inspRepo.GetByID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if version != insp.Version {
		return nil, domain.NewError(domain.KindConflict,
			fmt.Sprintf("inspection %d is at version %d, request carried %d", inspectionID, insp.Version, version))
	}
	if actor.ID != insp.OwnerID && actor.ID != insp.RenterID && !actor.IsAdmin() {
		return nil, domain.NewError(domain.KindForbidden, "only a participant may raise a dispute")
	}
	if req.Reason == "" {
		return nil, domain.NewError(domain.KindInvalidArgument, "reason is required")
	}
	count, err := s.disputeRepo.CountActiveByInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.NewError(domain.KindPreconditionFailed,
			fmt.Sprintf("inspection %d already has an active dispute", inspectionID))
	}
	if err := workflow.MarkDisputed(insp); err != nil {
		return nil, err
	}
	disputeType := req.Type
	if disputeType == "" {
		disputeType = domain.DisputeTypeOther
	}
	dispute := &domain.Dispute{
		InspectionID: insp.ID,
		Type:         disputeType,
		Status:       domain.DisputeStatusOpen,
		RaisedBy:     actor.ID,
		Reason:       req.Reason,
		Evidence:     req.Evidence,
	}
	photos := defaultCategory(req.Photos, domain.PhotoCategoryDamage, actor.ID)
	if err := s.disputeRepo.CreateWithParent(ctx, dispute, insp, photos); err != nil {
		return nil, err
	}
	s.notifyDisputeRaised(ctx, insp, dispute, actor)
	return s.buildView(ctx, insp), nil
}

func (s *disputeService) ReviewDispute(ctx context.Context, actor domain.Actor, inspectionID, disputeID int32) (*domain.Dispute, error) {
	dispute, err := s.getForInspection(ctx, inspectionID, disputeID)
	if err != nil {
		return nil, err
	}
	if err := workflow.ReviewDispute(dispute, actor); err != nil {
		return nil, err
	}
	if err := s.disputeRepo.Update(ctx, dispute); err != nil {
		return nil, err
	}
	return dispute, nil
}

func (s *disputeService) ResolveDispute(ctx context.Context, actor domain.Actor, inspectionID, disputeID, version int32, resolutionNotes string, agreedAmountCents *int32) (*domain.InspectionView, error) {
	insp, err := s.inspRepo.GetByID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if version != insp.Version {
		return nil, domain.NewError(domain.KindConflict,
			fmt.Sprintf("inspection %d is at version %d, request carried %d", inspectionID, insp.Version, version))
	}
	dispute, err := s.getForInspection(ctx, inspectionID, disputeID)
	if err != nil {
		return nil, err
	}
	if err := workflow.ResolveDispute(dispute, actor, resolutionNotes, agreedAmountCents, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.settle(ctx, insp, dispute, "Dispute Resolved",
		fmt.Sprintf("Dispute %d on inspection %d was resolved: %s", dispute.ID, insp.ID, resolutionNotes))
}

func (s *disputeService) CloseDispute(ctx context.Context, actor domain.Actor, inspectionID, disputeID, version int32) (*domain.InspectionView, error) {
	insp, err := s.inspRepo.GetByID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if version != insp.Version {
		return nil, domain.NewError(domain.KindConflict,
			fmt.Sprintf("inspection %d is at version %d, request carried %d", inspectionID, insp.Version, version))
	}
	dispute, err := s.getForInspection(ctx, inspectionID, disputeID)
	if err != nil {
		return nil, err
	}
	if err := workflow.CloseDispute(dispute, actor, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.settle(ctx, insp, dispute, "Dispute Closed",
		fmt.Sprintf("Dispute %d on inspection %d was closed by an administrator", dispute.ID, insp.ID))
}

// settle persists a terminal dispute and, when no active dispute remains,
// moves the parent inspection to RESOLVED in the same transaction.
func (s *disputeService) settle(ctx context.Context, insp *domain.Inspection, dispute *domain.Dispute, title, message string) (*domain.InspectionView, error) {
	count, err := s.disputeRepo.CountActiveByInspection(ctx, insp.ID)
	if err != nil {
		return nil, err
	}
	// The settling dispute is still active in the database at this point.
	if count <= 1 && insp.Status == domain.InspectionStatusDisputed {
		if err := workflow.MarkResolved(insp); err != nil {
			return nil, err
		}
	}
	if err := s.disputeRepo.UpdateWithParent(ctx, dispute, insp); err != nil {
		return nil, err
	}
	for i := range insp.Disputes {
		if insp.Disputes[i].ID == dispute.ID {
			insp.Disputes[i] = *dispute
		}
	}

	s.notifySettled(ctx, insp.OwnerID, dispute, title, message)
	s.notifySettled(ctx, insp.RenterID, dispute, title, message)
	return s.buildView(ctx, insp), nil
}

func (s *disputeService) getForInspection(ctx context.Context, inspectionID, disputeID int32) (*domain.Dispute, error) {
	dispute, err := s.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if dispute.InspectionID != inspectionID {
		return nil, domain.NewError(domain.KindNotFound,
			fmt.Sprintf("dispute %d does not belong to inspection %d", disputeID, inspectionID))
	}
	return dispute, nil
}

func (s *disputeService) notifyDisputeRaised(ctx context.Context, insp *domain.Inspection, dispute *domain.Dispute, actor domain.Actor) {
	counterpart := insp.OwnerID
	if actor.ID == insp.OwnerID {
		counterpart = insp.RenterID
	}
	note := &domain.Notification{
		UserID:  counterpart,
		Title:   "Dispute Opened",
		Message: fmt.Sprintf("A %s dispute was opened on inspection %d", dispute.Type, insp.ID),
		Attributes: map[string]string{
			"type":          "DISPUTE_RAISED",
			"inspection_id": fmt.Sprintf("%d", insp.ID),
			"dispute_id":    fmt.Sprintf("%d", dispute.ID),
		},
		DeliveryStatus: domain.DeliveryStatusPending,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to record dispute notification", "user_id", counterpart, "error", err)
		return
	}
	user, err := s.userRepo.GetByID(ctx, counterpart)
	if err != nil {
		return
	}
	if err := s.emailSvc.SendDisputeRaisedNotification(ctx, user.Email, user.Name, dispute.ID, dispute.Reason); err != nil {
		logger.Warn("Email dispatch failed, notification left queued for retry", "user_id", counterpart, "error", err)
		return
	}
	_ = s.noteRepo.MarkDelivery(ctx, note.ID, domain.DeliveryStatusSent, note.Attempts+1)
}

func (s *disputeService) notifySettled(ctx context.Context, userID int32, dispute *domain.Dispute, title, message string) {
	note := &domain.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Attributes: map[string]string{
			"type":          "DISPUTE_SETTLED",
			"inspection_id": fmt.Sprintf("%d", dispute.InspectionID),
			"dispute_id":    fmt.Sprintf("%d", dispute.ID),
		},
		DeliveryStatus: domain.DeliveryStatusPending,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to record dispute notification", "user_id", userID, "error", err)
		return
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return
	}
	if err := s.emailSvc.SendDisputeResolvedNotification(ctx, user.Email, user.Name, dispute.ID, dispute.ResolutionNotes); err != nil {
		logger.Warn("Email dispatch failed, notification left queued for retry", "user_id", userID, "error", err)
		return
	}
	_ = s.noteRepo.MarkDelivery(ctx, note.ID, domain.DeliveryStatusSent, note.Attempts+1)
}

func (s *disputeService) buildView(ctx context.Context, insp *domain.Inspection) *domain.InspectionView {
	return buildInspectionView(ctx, s.userRepo, insp)
}
