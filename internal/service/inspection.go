package service

import (
	"context"
	"fmt"
	"time"

	"rentinspect-backend/internal/domain"
	"rentinspect-backend/internal/logger"
	"rentinspect-backend/internal/repository"
	"rentinspect-backend/internal/validation"
	"rentinspect-backend/internal/workflow"
)

// DiscrepancyPolicy decides what a renter discrepancy report triggers.
type DiscrepancyPolicy string

const (
	// DiscrepancyPolicyOpenDispute opens a condition-disagreement dispute
	// (the default).
	DiscrepancyPolicyOpenDispute DiscrepancyPolicy = "open_dispute"
	// DiscrepancyPolicyReinspect clears the owner's confirmation so the
	// pre-inspection is redone instead of escalating.
	DiscrepancyPolicyReinspect DiscrepancyPolicy = "reinspect"
)

type inspectionService struct {
	inspRepo    repository.InspectionRepository
	disputeRepo repository.DisputeRepository
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
	noteRepo    repository.NotificationRepository
	emailSvc    EmailService
	policy      validation.PhotoPolicy
	discrepancy DiscrepancyPolicy
}

func NewInspectionService(
	inspRepo repository.InspectionRepository,
	disputeRepo repository.DisputeRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	policy validation.PhotoPolicy,
	discrepancy DiscrepancyPolicy,
) InspectionService {
	if discrepancy == "" {
		discrepancy = DiscrepancyPolicyOpenDispute
	}
	return &inspectionService{
		inspRepo:    inspRepo,
		disputeRepo: disputeRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		noteRepo:    noteRepo,
		emailSvc:    emailSvc,
		policy:      policy,
		discrepancy: discrepancy,
	}
}

func (s *inspectionService) CreateInspection(ctx context.Context, actor domain.Actor, req CreateInspectionRequest) (*domain.InspectionView, error) {
	if req.BookingID == 0 {
		return nil, domain.NewError(domain.KindInvalidArgument, "booking_id is required")
	}
	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if req.ProductID != 0 && req.ProductID != booking.ProductID {
		return nil, domain.NewError(domain.KindInvalidArgument,
			fmt.Sprintf("product %d does not belong to booking %d", req.ProductID, req.BookingID))
	}

	if err := validation.CheckBookingPrecondition(req.Type, booking); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := validation.CheckSchedulingWindow(req.Type, req.ScheduledAt, booking, now); err != nil {
		return nil, err
	}

	insp := &domain.Inspection{
		ProductID:   booking.ProductID,
		BookingID:   booking.ID,
		InspectorID: req.InspectorID,
		OwnerID:     booking.OwnerID,
		RenterID:    booking.RenterID,
		Type:        req.Type,
		Status:      domain.InspectionStatusPending,
		ScheduledAt: req.ScheduledAt,
		Location:    req.Location,
		Notes:       req.Notes,
	}

	// Combined create-and-submit: the owner's first condition report rides
	// along with the create request.
	var initialPhotos []domain.InspectionPhoto
	if req.OwnerPreInspection != nil {
		sub := req.OwnerPreInspection
		if actor.ID != booking.OwnerID && !actor.IsAdmin() {
			return nil, domain.NewError(domain.KindForbidden, "only the item owner may submit the pre-inspection")
		}
		if err := validation.CheckSubmissionPayload(s.policy, validation.SubmissionPayload{
			PhotoCount: len(sub.Photos),
			Location:   sub.Location,
			Confirmed:  sub.Confirmed,
		}); err != nil {
			return nil, err
		}
		insp.OwnerPreInspectionData = &domain.ConditionReport{
			Condition:   sub.Condition,
			Notes:       sub.Notes,
			Location:    sub.Location,
			SubmittedBy: actor.ID,
		}
		insp.OwnerPreInspectionSubmittedAt = &now
		initialPhotos = defaultCategory(sub.Photos, domain.PhotoCategoryBefore, actor.ID)
	}

	if len(initialPhotos) > 0 {
		if err := s.inspRepo.CreateWithPhotos(ctx, insp, initialPhotos); err != nil {
			return nil, err
		}
	} else {
		if err := s.inspRepo.Create(ctx, insp); err != nil {
			return nil, err
		}
	}

	s.notify(ctx, insp.RenterID, "Inspection Scheduled",
		fmt.Sprintf("A %s inspection was scheduled for booking %d", insp.Type, insp.BookingID),
		eventAttrs("INSPECTION_CREATED", insp.ID))
	if insp.InspectorID != nil {
		s.notify(ctx, *insp.InspectorID, "Inspection Assigned",
			fmt.Sprintf("You were assigned inspection %d", insp.ID),
			eventAttrs("INSPECTION_ASSIGNED", insp.ID))
	}

	return s.buildView(ctx, insp), nil
}

func (s *inspectionService) GetInspection(ctx context.Context, actor domain.Actor, id int32) (*domain.InspectionView, error) {
	insp, err := s.inspRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isParticipant(insp, actor) && !actor.IsModerator() {
		return nil, domain.NewError(domain.KindForbidden, "not a participant of this inspection")
	}
	return s.buildView(ctx, insp), nil
}

func (s *inspectionService) ListInspections(ctx context.Context, actor domain.Actor, status string, page, pageSize int32) ([]domain.Inspection, int32, error) {
	return s.inspRepo.ListByParticipant(ctx, actor.ID, status, page, pageSize)
}

func (s *inspectionService) ListByBooking(ctx context.Context, actor domain.Actor, bookingID int32) ([]domain.Inspection, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actor.ID != booking.OwnerID && actor.ID != booking.RenterID && !actor.IsModerator() {
		return nil, domain.NewError(domain.KindForbidden, "not a participant of this booking")
	}
	return s.inspRepo.ListByBooking(ctx, bookingID)
}

// loadForUpdate fetches the aggregate and rejects stale versions before
// any guard runs; the repository re-checks the version at write time so a
// lost race still surfaces as CONFLICT.
func (s *inspectionService) loadForUpdate(ctx context.Context, id, version int32) (*domain.Inspection, error) {
	insp, err := s.inspRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if version != insp.Version {
		return nil, domain.NewError(domain.KindConflict,
			fmt.Sprintf("inspection %d is at version %d, request carried %d", id, insp.Version, version))
	}
	return insp, nil
}

func (s *inspectionService) Start(ctx context.Context, actor domain.Actor, id, version int32) (*domain.InspectionView, error) {
	insp, err := s.loadForUpdate(ctx, id, version)
	if err != nil {
		return nil, err
	}
	if err := workflow.Start(insp, actor, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.inspRepo.Update(ctx, insp); err != nil {
		return nil, err
	}
	s.notify(ctx, insp.OwnerID, "Inspection Started",
		fmt.Sprintf("Inspection %d is now in progress", insp.ID), eventAttrs("INSPECTION_STARTED", insp.ID))
	s.notify(ctx, insp.RenterID, "Inspection Started",
		fmt.Sprintf("Inspection %d is now in progress", insp.ID), eventAttrs("INSPECTION_STARTED", insp.ID))
	return s.buildView(ctx, insp), nil
}

func (s *inspectionService) Complete(ctx context.Context, actor domain.Actor, id, version int32, inspectorNotes string) (*domain.InspectionView, error) {
	insp, err := s.loadForUpdate(ctx, id, version)
	if err != nil {
		return nil, err
	}
	if err := workflow.Complete(insp, actor, time.Now().UTC()); err != nil {
		return nil, err
	}
	if inspectorNotes != "" {
		insp.InspectorNotes = inspectorNotes
	}
	if err := s.inspRepo.Update(ctx, insp); err != nil {
		return nil, err
	}
	s.notify(ctx, insp.OwnerID, "Inspection Completed",
		fmt.Sprintf("Inspection %d was completed", insp.ID), eventAttrs("INSPECTION_COMPLETED", insp.ID))
	s.notify(ctx, insp.RenterID, "Inspection Completed",
		fmt.Sprintf("Inspection %d was completed", insp.ID), eventAttrs("INSPECTION_COMPLETED", insp.ID))
	return s.buildView(ctx, insp), nil
}

func (s *inspectionService) SubmitOwnerPreInspection(ctx context.Context, actor domain.Actor, id, version int32, req SubmissionRequest) (*domain.InspectionView, error) {
	insp, err := s.loadForUpdate(ctx, id, version)
	if err != nil {
		return nil, err
	}
	if err := validation.CheckSubmissionPayload(s.policy, validation.SubmissionPayload{
		PhotoCount: len(req.Photos),
		Location:   req.Location,
		Confirmed:  req.Confirmed,
	}); err != nil {
		return nil, err
	}
	report := domain.ConditionReport{Condition: req.Condition, Notes: req.Notes, Location: req.Location}
	if err := workflow.SubmitOwnerPreInspection(insp, actor, report, time.Now().UTC()); err != nil {
		return nil, err
	}
	photos := defaultCategory(req.Photos, domain.PhotoCategoryBefore, actor.ID)
	if err := s.inspRepo.UpdateWithPhotos(ctx, insp, photos); err != nil {
		return nil, err
	}
	s.notify(ctx, insp.RenterID, "Pre-Inspection Submitted",
		fmt.Sprintf("The owner documented the item condition for inspection %d", insp.ID),
		eventAttrs("OWNER_PRE_INSPECTION_SUBMITTED", insp.ID))
	return s.buildView(ctx, insp), nil
}

func (s *inspectionService) ConfirmOwnerPreInspection(ctx context.Context, actor domain.Actor, id, version int32) (*domain.InspectionView, error) {
	insp, err := s.loadForUpdate(ctx, id, version)
	if err != nil {
		return nil, err
	}
	alreadyConfirmed := insp.OwnerPreInspectionConfirmed
	if err := workflow.ConfirmOwnerPreInspection(insp, actor, time.Now().UTC()); err != nil {
		return nil, err
	}
	if alreadyConfirmed {
		// Idempotent repeat: nothing changed, skip the write.
		return s.buildView(ctx, insp), nil
	}
	if err := s.inspRepo.Update(ctx, insp); err != nil {
		return nil, err
	}
	s.notify(ctx, insp.RenterID, "Pre-Inspection Ready for Review",
		fmt.Sprintf("Please review the owner's condition report for inspection %d", insp.ID),
		eventAttrs("OWNER_PRE_INSPECTION_CONFIRMED", insp.ID))
	return s.buildView(ctx, insp), nil
}

func (s *inspectionService) SubmitRenterPreReview(ctx context.Context, actor domain.Actor, id, version int32, accept bool) (*domain.InspectionView, error) {
	insp, err := s.loadForUpdate(ctx, id, version)
	if err != nil {
		return nil, err
	}
	if err := workflow.SubmitRenterPreReview(insp, actor, accept, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.inspRepo.Update(ctx, insp); err != nil {
		return nil, err
	}
	s.notify(ctx, insp.OwnerID, "Renter Reviewed Pre-Inspection",
		fmt.Sprintf("The renter reviewed the condition report for inspection %d", insp.ID),
		eventAttrs("RENTER_PRE_REVIEW_SUBMITTED", insp.ID))
	return s.buildView(ctx, insp), nil
}

func (s *inspectionService) ReportRenterDiscrepancy(ctx context.Context, actor domain.Actor, id, version int32, req DiscrepancyRequest) (*domain.InspectionView, error) {
	insp, err := s.loadForUpdate(ctx, id, version)
	if err != nil {
		return nil, err
	}
	report := domain.DiscrepancyReport{Issues: req.Issues, Notes: req.Notes}
	if err := workflow.ReportRenterDiscrepancy(insp, actor, report, time.Now().UTC()); err != nil {
		return nil, err
	}
	photos := defaultCategory(req.Photos, domain.PhotoCategoryCondition, actor.ID)

	switch s.discrepancy {
	case DiscrepancyPolicyReinspect:
		// The owner redoes the pre-inspection; the discrepancy stays on
		// record but nothing escalates.
		insp.OwnerPreInspectionConfirmed = false
		insp.OwnerPreInspectionConfirmedAt = nil
		if err := s.inspRepo.UpdateWithPhotos(ctx, insp, photos); err != nil {
			return nil, err
		}
		s.notify(ctx, insp.OwnerID, "Re-Inspection Requested",
			fmt.Sprintf("The renter reported a discrepancy on inspection %d, please redo the pre-inspection", insp.ID),
			eventAttrs("REINSPECTION_REQUESTED", insp.ID))
	default:
		if err := s.guardNoActiveDispute(ctx, insp.ID); err != nil {
			return nil, err
		}
		if err := workflow.MarkDisputed(insp); err != nil {
			return nil, err
		}
		dispute := &domain.Dispute{
			InspectionID: insp.ID,
			Type:         domain.DisputeTypeConditionDisagreement,
			Status:       domain.DisputeStatusOpen,
			RaisedBy:     actor.ID,
			Reason:       req.Notes,
			Evidence:     fmt.Sprintf("issues: %v", req.Issues),
		}
		if err := s.disputeRepo.CreateWithParent(ctx, dispute, insp, photos); err != nil {
			return nil, err
		}
		s.notify(ctx, insp.OwnerID, "Dispute Opened",
			fmt.Sprintf("The renter disputed the condition report for inspection %d", insp.ID),
			eventAttrs("DISPUTE_RAISED", insp.ID))
	}
	return s.buildView(ctx, insp), nil
}

func (s *inspectionService) SubmitRenterPostInspection(ctx context.Context, actor domain.Actor, id, version int32, req SubmissionRequest) (*domain.InspectionView, error) {
	insp, err := s.loadForUpdate(ctx, id, version)
	if err != nil {
		return nil, err
	}
	if err := validation.CheckSubmissionPayload(s.policy, validation.SubmissionPayload{
		PhotoCount: len(req.Photos),
		Location:   req.Location,
		Confirmed:  req.Confirmed,
	}); err != nil {
		return nil, err
	}
	report := domain.ConditionReport{Condition: req.Condition, Notes: req.Notes, Location: req.Location}
	if err := workflow.SubmitRenterPostInspection(insp, actor, report, time.Now().UTC()); err != nil {
		return nil, err
	}
	photos := defaultCategory(req.Photos, domain.PhotoCategoryAfter, actor.ID)
	if err := s.inspRepo.UpdateWithPhotos(ctx, insp, photos); err != nil {
		return nil, err
	}
	s.notify(ctx, insp.OwnerID, "Post-Inspection Submitted",
		fmt.Sprintf("The renter documented the returned item condition for inspection %d", insp.ID),
		eventAttrs("RENTER_POST_INSPECTION_SUBMITTED", insp.ID))
	return s.buildView(ctx, insp), nil
}

func (s *inspectionService) ConfirmRenterPostInspection(ctx context.Context, actor domain.Actor, id, version int32) (*domain.InspectionView, error) {
	insp, err := s.loadForUpdate(ctx, id, version)
	if err != nil {
		return nil, err
	}
	alreadyConfirmed := insp.RenterPostInspectionConfirmed
	if err := workflow.ConfirmRenterPostInspection(insp, actor, time.Now().UTC()); err != nil {
		return nil, err
	}
	if alreadyConfirmed {
		return s.buildView(ctx, insp), nil
	}
	if err := s.inspRepo.Update(ctx, insp); err != nil {
		return nil, err
	}
	s.notify(ctx, insp.OwnerID, "Post-Inspection Ready for Review",
		fmt.Sprintf("Please review the renter's return report for inspection %d", insp.ID),
		eventAttrs("RENTER_POST_INSPECTION_CONFIRMED", insp.ID))
	return s.buildView(ctx, insp), nil
}

func (s *inspectionService) SubmitOwnerPostReview(ctx context.Context, actor domain.Actor, id, version int32, req OwnerPostReviewRequest) (*domain.InspectionView, error) {
	insp, err := s.loadForUpdate(ctx, id, version)
	if err != nil {
		return nil, err
	}
	if req.DisputeRaised {
		if req.DisputeReason == "" {
			return nil, domain.NewError(domain.KindInvalidArgument, "dispute_reason is required when raising a dispute")
		}
		if err := s.guardNoActiveDispute(ctx, insp.ID); err != nil {
			return nil, err
		}
	}
	if err := workflow.SubmitOwnerPostReview(insp, actor, req.Accepted, req.DisputeRaised, time.Now().UTC()); err != nil {
		return nil, err
	}
	photos := defaultCategory(req.Photos, domain.PhotoCategoryAfter, actor.ID)

	if req.DisputeRaised {
		// The dispute row and the review land in one transaction.
		if err := workflow.MarkDisputed(insp); err != nil {
			return nil, err
		}
		disputeType := req.DisputeType
		if disputeType == "" {
			disputeType = domain.DisputeTypeDamageAssessment
		}
		dispute := &domain.Dispute{
			InspectionID: insp.ID,
			Type:         disputeType,
			Status:       domain.DisputeStatusOpen,
			RaisedBy:     actor.ID,
			Reason:       req.DisputeReason,
			Evidence:     req.Evidence,
		}
		if err := s.disputeRepo.CreateWithParent(ctx, dispute, insp, photos); err != nil {
			return nil, err
		}
		s.notify(ctx, insp.RenterID, "Dispute Opened",
			fmt.Sprintf("The owner disputed the return condition for inspection %d", insp.ID),
			eventAttrs("DISPUTE_RAISED", insp.ID))
		return s.buildView(ctx, insp), nil
	}

	if err := s.inspRepo.UpdateWithPhotos(ctx, insp, photos); err != nil {
		return nil, err
	}
	s.notify(ctx, insp.RenterID, "Post-Inspection Accepted",
		fmt.Sprintf("The owner accepted the return condition for inspection %d", insp.ID),
		eventAttrs("OWNER_POST_REVIEW_SUBMITTED", insp.ID))
	return s.buildView(ctx, insp), nil
}

func (s *inspectionService) AddItem(ctx context.Context, actor domain.Actor, inspectionID int32, req ItemRequest) (*domain.InspectionView, error) {
	insp, err := s.inspRepo.GetByID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if err := s.guardItemWrite(insp, actor); err != nil {
		return nil, err
	}
	item := &domain.InspectionItem{
		InspectionID:         insp.ID,
		ItemName:             req.ItemName,
		Condition:            req.Condition,
		Description:          req.Description,
		RepairCostCents:      req.RepairCostCents,
		ReplacementCostCents: req.ReplacementCostCents,
	}
	if err := s.inspRepo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	insp.Items = append(insp.Items, *item)
	return s.buildView(ctx, insp), nil
}

func (s *inspectionService) UpdateItem(ctx context.Context, actor domain.Actor, inspectionID, itemID int32, req ItemRequest) (*domain.InspectionView, error) {
	insp, err := s.inspRepo.GetByID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if err := s.guardItemWrite(insp, actor); err != nil {
		return nil, err
	}
	item, err := s.inspRepo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.InspectionID != inspectionID {
		return nil, domain.NewError(domain.KindNotFound,
			fmt.Sprintf("item %d does not belong to inspection %d", itemID, inspectionID))
	}
	item.ItemName = req.ItemName
	item.Condition = req.Condition
	item.Description = req.Description
	item.RepairCostCents = req.RepairCostCents
	item.ReplacementCostCents = req.ReplacementCostCents
	if err := s.inspRepo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return s.GetInspection(ctx, actor, inspectionID)
}

func (s *inspectionService) DeleteItem(ctx context.Context, actor domain.Actor, inspectionID, itemID int32) (*domain.InspectionView, error) {
	insp, err := s.inspRepo.GetByID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if err := s.guardItemWrite(insp, actor); err != nil {
		return nil, err
	}
	item, err := s.inspRepo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.InspectionID != inspectionID {
		return nil, domain.NewError(domain.KindNotFound,
			fmt.Sprintf("item %d does not belong to inspection %d", itemID, inspectionID))
	}
	if err := s.inspRepo.DeleteItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.GetInspection(ctx, actor, inspectionID)
}

func (s *inspectionService) DeletePhoto(ctx context.Context, actor domain.Actor, inspectionID, photoID int32) (*domain.InspectionView, error) {
	insp, err := s.inspRepo.GetByID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	var photo *domain.InspectionPhoto
	for i := range insp.Photos {
		if insp.Photos[i].ID == photoID {
			photo = &insp.Photos[i]
			break
		}
	}
	if photo == nil {
		return nil, domain.NewError(domain.KindNotFound,
			fmt.Sprintf("photo %d does not belong to inspection %d", photoID, inspectionID))
	}
	if photo.UploadedBy != actor.ID && !actor.IsAdmin() {
		return nil, domain.NewError(domain.KindForbidden, "only the uploader or an admin may delete a photo")
	}
	if insp.Status.IsTerminal() {
		return nil, domain.NewError(domain.KindAlreadyFinalized, "photos of a resolved inspection are part of the audit trail")
	}
	if err := s.inspRepo.DeletePhoto(ctx, photoID); err != nil {
		return nil, err
	}
	return s.GetInspection(ctx, actor, inspectionID)
}

func (s *inspectionService) guardItemWrite(insp *domain.Inspection, actor domain.Actor) error {
	assigned := insp.InspectorID != nil && *insp.InspectorID == actor.ID
	if !assigned && actor.ID != insp.OwnerID && !actor.IsAdmin() {
		return domain.NewError(domain.KindForbidden, "only the assigned inspector, the owner or an admin may record items")
	}
	if insp.Status != domain.InspectionStatusPending && insp.Status != domain.InspectionStatusInProgress {
		return domain.NewError(domain.KindAlreadyFinalized,
			fmt.Sprintf("items can only be recorded while pending or in progress, inspection is %s", insp.Status))
	}
	return nil
}

func (s *inspectionService) guardNoActiveDispute(ctx context.Context, inspectionID int32) error {
	count, err := s.disputeRepo.CountActiveByInspection(ctx, inspectionID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.NewError(domain.KindPreconditionFailed,
			fmt.Sprintf("inspection %d already has an active dispute", inspectionID))
	}
	return nil
}

func isParticipant(insp *domain.Inspection, actor domain.Actor) bool {
	if actor.ID == insp.OwnerID || actor.ID == insp.RenterID {
		return true
	}
	return insp.InspectorID != nil && *insp.InspectorID == actor.ID
}

func defaultCategory(photos []domain.InspectionPhoto, category domain.PhotoCategory, uploadedBy int32) []domain.InspectionPhoto {
	out := make([]domain.InspectionPhoto, len(photos))
	copy(out, photos)
	for i := range out {
		if out[i].Category == "" {
			out[i].Category = category
		}
		out[i].UploadedBy = uploadedBy
	}
	return out
}

func eventAttrs(eventType string, inspectionID int32) map[string]string {
	return map[string]string{
		"type":          eventType,
		"inspection_id": fmt.Sprintf("%d", inspectionID),
	}
}

// notify commits an outbox notification and attempts immediate email
// delivery. A downstream failure leaves the row pending for the retry job
// and never fails the caller's write.
func (s *inspectionService) notify(ctx context.Context, userID int32, title, message string, attrs map[string]string) {
	note := &domain.Notification{
		UserID:         userID,
		Title:          title,
		Message:        message,
		Attributes:     attrs,
		DeliveryStatus: domain.DeliveryStatusPending,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to record notification", "user_id", userID, "title", title, "error", err)
		return
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Warn("Failed to resolve notification recipient", "user_id", userID, "error", err)
		return
	}
	if err := s.emailSvc.SendWorkflowStepNotification(ctx, user.Email, user.Name, title, message); err != nil {
		logger.Warn("Email dispatch failed, notification left queued for retry", "user_id", userID, "error", err)
		return
	}
	_ = s.noteRepo.MarkDelivery(ctx, note.ID, domain.DeliveryStatusSent, note.Attempts+1)
}

func (s *inspectionService) buildView(ctx context.Context, insp *domain.Inspection) *domain.InspectionView {
	return buildInspectionView(ctx, s.userRepo, insp)
}
