// Package workflow implements the inspection state machine: the coarse
// status transition table, the fine-grained workflow events, and their
// guards. All functions mutate the aggregate in memory only; persistence
// and locking are the caller's concern.
package workflow

import (
	"fmt"
	"time"

	"rentinspect-backend/internal/domain"
)

// transitions is the only legal set of coarse status edges. Anything not
// listed here is rejected.
var transitions = map[domain.InspectionStatus][]domain.InspectionStatus{
	domain.InspectionStatusPending:    {domain.InspectionStatusInProgress, domain.InspectionStatusDisputed},
	domain.InspectionStatusInProgress: {domain.InspectionStatusCompleted, domain.InspectionStatusDisputed},
	domain.InspectionStatusCompleted:  {domain.InspectionStatusDisputed},
	domain.InspectionStatusDisputed:   {domain.InspectionStatusResolved},
}

// CanTransition reports whether the coarse status may move from one state
// to another.
func CanTransition(from, to domain.InspectionStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func transition(insp *domain.Inspection, to domain.InspectionStatus) error {
	if !CanTransition(insp.Status, to) {
		if insp.Status.IsTerminal() {
			return domain.NewError(domain.KindAlreadyFinalized,
				fmt.Sprintf("inspection %d is %s and accepts no further events", insp.ID, insp.Status))
		}
		return domain.NewError(domain.KindOutOfSequence,
			fmt.Sprintf("inspection %d cannot move from %s to %s", insp.ID, insp.Status, to))
	}
	insp.Status = to
	return nil
}

func guardNotFinalized(insp *domain.Inspection) error {
	if insp.Status.IsTerminal() {
		return domain.NewError(domain.KindAlreadyFinalized,
			fmt.Sprintf("inspection %d is %s and accepts no further events", insp.ID, insp.Status))
	}
	return nil
}

func guardOwner(insp *domain.Inspection, actor domain.Actor) error {
	if actor.ID != insp.OwnerID && !actor.IsAdmin() {
		return domain.NewError(domain.KindForbidden, "only the item owner may perform this step")
	}
	return nil
}

func guardRenter(insp *domain.Inspection, actor domain.Actor) error {
	if actor.ID != insp.RenterID && !actor.IsAdmin() {
		return domain.NewError(domain.KindForbidden, "only the renter may perform this step")
	}
	return nil
}

func outOfSequence(msg string) error {
	return domain.NewError(domain.KindOutOfSequence, msg)
}

// Start moves a pending inspection to IN_PROGRESS. Only the assigned
// inspector or an admin may start it.
func Start(insp *domain.Inspection, actor domain.Actor, now time.Time) error {
	if err := guardNotFinalized(insp); err != nil {
		return err
	}
	assigned := insp.InspectorID != nil && *insp.InspectorID == actor.ID
	if !assigned && !actor.IsAdmin() {
		return domain.NewError(domain.KindForbidden, "only the assigned inspector or an admin may start the inspection")
	}
	if err := transition(insp, domain.InspectionStatusInProgress); err != nil {
		return err
	}
	insp.StartedAt = &now
	return nil
}

// Complete moves an in-progress inspection to COMPLETED. All required
// items must be recorded before completion.
func Complete(insp *domain.Inspection, actor domain.Actor, now time.Time) error {
	if err := guardNotFinalized(insp); err != nil {
		return err
	}
	assigned := insp.InspectorID != nil && *insp.InspectorID == actor.ID
	if !assigned && !actor.IsAdmin() {
		return domain.NewError(domain.KindForbidden, "only the assigned inspector or an admin may complete the inspection")
	}
	if len(insp.Items) == 0 {
		return domain.NewError(domain.KindPreconditionFailed, "inspection has no recorded items")
	}
	if err := transition(insp, domain.InspectionStatusCompleted); err != nil {
		return err
	}
	insp.CompletedAt = &now
	return nil
}

// MarkDisputed forces the coarse status to DISPUTED when a dispute opens.
func MarkDisputed(insp *domain.Inspection) error {
	if insp.Status == domain.InspectionStatusDisputed {
		return nil
	}
	return transition(insp, domain.InspectionStatusDisputed)
}

// MarkResolved moves a disputed inspection to RESOLVED once its last
// active dispute is settled.
func MarkResolved(insp *domain.Inspection) error {
	return transition(insp, domain.InspectionStatusResolved)
}

// SubmitOwnerPreInspection stores the owner's condition report. It does
// not yet confirm; the owner reviews and confirms separately.
func SubmitOwnerPreInspection(insp *domain.Inspection, actor domain.Actor, report domain.ConditionReport, now time.Time) error {
	if err := guardNotFinalized(insp); err != nil {
		return err
	}
	if err := guardOwner(insp, actor); err != nil {
		return err
	}
	if insp.Status != domain.InspectionStatusPending {
		return outOfSequence("owner pre-inspection is only accepted while the inspection is pending")
	}
	if insp.OwnerPreInspectionConfirmed {
		return domain.NewError(domain.KindAlreadyFinalized, "owner pre-inspection is already confirmed")
	}
	report.SubmittedBy = actor.ID
	insp.OwnerPreInspectionData = &report
	insp.OwnerPreInspectionSubmittedAt = &now
	return nil
}

// ConfirmOwnerPreInspection locks in the owner's submission. Idempotent:
// a second confirmation leaves the original timestamp untouched.
func ConfirmOwnerPreInspection(insp *domain.Inspection, actor domain.Actor, now time.Time) error {
	if err := guardNotFinalized(insp); err != nil {
		return err
	}
	if err := guardOwner(insp, actor); err != nil {
		return err
	}
	if insp.OwnerPreInspectionData == nil {
		return outOfSequence("owner pre-inspection must be submitted before it can be confirmed")
	}
	if insp.OwnerPreInspectionConfirmed {
		return nil
	}
	insp.OwnerPreInspectionConfirmed = true
	insp.OwnerPreInspectionConfirmedAt = &now
	return nil
}

// SubmitRenterPreReview records the renter's acceptance of the owner's
// confirmed pre-inspection.
func SubmitRenterPreReview(insp *domain.Inspection, actor domain.Actor, accept bool, now time.Time) error {
	if err := guardNotFinalized(insp); err != nil {
		return err
	}
	if err := guardRenter(insp, actor); err != nil {
		return err
	}
	if !insp.OwnerPreInspectionConfirmed {
		return outOfSequence("owner pre-inspection must be confirmed before the renter review")
	}
	if insp.RenterPreReviewedAt != nil {
		return domain.NewError(domain.KindAlreadyFinalized, "renter pre-review is already recorded")
	}
	insp.RenterPreReviewAccepted = accept
	insp.RenterPreReviewedAt = &now
	return nil
}

// ReportRenterDiscrepancy is the renter's alternative to accepting the
// pre-review. What happens next (dispute vs re-inspection) is decided by
// the service-level discrepancy policy, not here.
func ReportRenterDiscrepancy(insp *domain.Inspection, actor domain.Actor, report domain.DiscrepancyReport, now time.Time) error {
	if err := guardNotFinalized(insp); err != nil {
		return err
	}
	if err := guardRenter(insp, actor); err != nil {
		return err
	}
	if !insp.OwnerPreInspectionConfirmed {
		return outOfSequence("owner pre-inspection must be confirmed before a discrepancy can be reported")
	}
	if insp.RenterDiscrepancyReported {
		return domain.NewError(domain.KindAlreadyFinalized, "a discrepancy is already reported")
	}
	insp.RenterDiscrepancyReported = true
	insp.RenterDiscrepancyReportedAt = &now
	insp.RenterDiscrepancyData = &report
	return nil
}

// SubmitRenterPostInspection stores the renter's condition report at
// rental return. Mirror of the owner pre-inspection submission.
func SubmitRenterPostInspection(insp *domain.Inspection, actor domain.Actor, report domain.ConditionReport, now time.Time) error {
	if err := guardNotFinalized(insp); err != nil {
		return err
	}
	if err := guardRenter(insp, actor); err != nil {
		return err
	}
	if !insp.RenterPreReviewAccepted && !insp.RenterDiscrepancyReported {
		return outOfSequence("the pre-inspection review must be completed before the post-inspection")
	}
	if insp.RenterPostInspectionConfirmed {
		return domain.NewError(domain.KindAlreadyFinalized, "renter post-inspection is already confirmed")
	}
	report.SubmittedBy = actor.ID
	insp.RenterPostInspectionData = &report
	insp.RenterPostInspectionSubmittedAt = &now
	return nil
}

// ConfirmRenterPostInspection locks in the renter's submission. Idempotent.
func ConfirmRenterPostInspection(insp *domain.Inspection, actor domain.Actor, now time.Time) error {
	if err := guardNotFinalized(insp); err != nil {
		return err
	}
	if err := guardRenter(insp, actor); err != nil {
		return err
	}
	if insp.RenterPostInspectionData == nil {
		return outOfSequence("renter post-inspection must be submitted before it can be confirmed")
	}
	if insp.RenterPostInspectionConfirmed {
		return nil
	}
	insp.RenterPostInspectionConfirmed = true
	insp.RenterPostInspectionConfirmedAt = &now
	return nil
}

// SubmitOwnerPostReview records the owner's verdict on the renter's
// post-inspection. When the owner raises a dispute the caller creates the
// dispute row atomically with this review and flips the status.
func SubmitOwnerPostReview(insp *domain.Inspection, actor domain.Actor, accepted, disputeRaised bool, now time.Time) error {
	if err := guardNotFinalized(insp); err != nil {
		return err
	}
	if err := guardOwner(insp, actor); err != nil {
		return err
	}
	if !insp.RenterPostInspectionConfirmed {
		return outOfSequence("renter post-inspection must be confirmed before the owner review")
	}
	if insp.OwnerPostReviewedAt != nil {
		return domain.NewError(domain.KindAlreadyFinalized, "owner post-review is already recorded")
	}
	insp.OwnerPostReviewAccepted = accepted
	insp.OwnerPostReviewedAt = &now
	if disputeRaised {
		insp.OwnerDisputeRaised = true
		insp.OwnerDisputeRaisedAt = &now
	}
	return nil
}
