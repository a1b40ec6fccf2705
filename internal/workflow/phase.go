package workflow

import "rentinspect-backend/internal/domain"

// Phase is the fine-grained workflow position, derived from the coarse
// status plus the flag set. Modeling it as one enum keeps illegal flag
// combinations out of the guard logic; the coarse status stays the
// externally visible projection.
type Phase string

const (
	PhaseAwaitingOwnerPreInspection     Phase = "AWAITING_OWNER_PRE_INSPECTION"
	PhaseAwaitingOwnerConfirmation      Phase = "AWAITING_OWNER_CONFIRMATION"
	PhaseAwaitingRenterPreReview        Phase = "AWAITING_RENTER_PRE_REVIEW"
	PhaseAwaitingExecution              Phase = "AWAITING_EXECUTION"
	PhaseExecutionInProgress            Phase = "EXECUTION_IN_PROGRESS"
	PhaseAwaitingRenterPostInspection   Phase = "AWAITING_RENTER_POST_INSPECTION"
	PhaseAwaitingRenterPostConfirmation Phase = "AWAITING_RENTER_POST_CONFIRMATION"
	PhaseAwaitingOwnerPostReview        Phase = "AWAITING_OWNER_POST_REVIEW"
	PhaseDisputed                       Phase = "DISPUTED"
	PhaseResolved                       Phase = "RESOLVED"
	PhaseClosed                         Phase = "CLOSED"
)

// PhaseOf derives the current phase of an inspection.
func PhaseOf(insp *domain.Inspection) Phase {
	switch insp.Status {
	case domain.InspectionStatusDisputed:
		return PhaseDisputed
	case domain.InspectionStatusResolved:
		return PhaseResolved
	}
	if insp.OwnerPreInspectionData == nil {
		return PhaseAwaitingOwnerPreInspection
	}
	if !insp.OwnerPreInspectionConfirmed {
		return PhaseAwaitingOwnerConfirmation
	}
	if !insp.RenterPreReviewAccepted && !insp.RenterDiscrepancyReported {
		return PhaseAwaitingRenterPreReview
	}
	switch insp.Status {
	case domain.InspectionStatusPending:
		return PhaseAwaitingExecution
	case domain.InspectionStatusInProgress:
		return PhaseExecutionInProgress
	}
	if insp.RenterPostInspectionData == nil {
		return PhaseAwaitingRenterPostInspection
	}
	if !insp.RenterPostInspectionConfirmed {
		return PhaseAwaitingRenterPostConfirmation
	}
	if insp.OwnerPostReviewedAt == nil {
		return PhaseAwaitingOwnerPostReview
	}
	return PhaseClosed
}
