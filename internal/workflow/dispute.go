package workflow

import (
	"fmt"
	"time"

	"rentinspect-backend/internal/domain"
)

// Dispute sub-state-machine: OPEN -> UNDER_REVIEW -> RESOLVED, with CLOSED
// reachable from any non-resolved state by administrative override.

func guardDisputeOpen(d *domain.Dispute) error {
	if d.Status.IsTerminal() {
		return domain.NewError(domain.KindAlreadyFinalized,
			fmt.Sprintf("dispute %d is %s and accepts no further events", d.ID, d.Status))
	}
	return nil
}

// ReviewDispute moves an open dispute under moderator review.
func ReviewDispute(d *domain.Dispute, actor domain.Actor) error {
	if err := guardDisputeOpen(d); err != nil {
		return err
	}
	if !actor.IsModerator() {
		return domain.NewError(domain.KindForbidden, "only a moderator may review a dispute")
	}
	if d.Status != domain.DisputeStatusOpen {
		return domain.NewError(domain.KindOutOfSequence,
			fmt.Sprintf("dispute %d is %s, only open disputes can move under review", d.ID, d.Status))
	}
	d.Status = domain.DisputeStatusUnderReview
	return nil
}

// ResolveDispute settles a dispute with the moderator's resolution.
func ResolveDispute(d *domain.Dispute, actor domain.Actor, resolutionNotes string, agreedAmountCents *int32, now time.Time) error {
	if err := guardDisputeOpen(d); err != nil {
		return err
	}
	if !actor.IsModerator() {
		return domain.NewError(domain.KindForbidden, "only a moderator may resolve a dispute")
	}
	d.Status = domain.DisputeStatusResolved
	d.ResolutionNotes = resolutionNotes
	d.AgreedAmountCents = agreedAmountCents
	d.ResolvedBy = &actor.ID
	d.ResolvedAt = &now
	return nil
}

// CloseDispute is the administrative override, reachable from any
// non-resolved state.
func CloseDispute(d *domain.Dispute, actor domain.Actor, now time.Time) error {
	if err := guardDisputeOpen(d); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return domain.NewError(domain.KindForbidden, "only an admin may close a dispute")
	}
	d.Status = domain.DisputeStatusClosed
	d.ResolvedBy = &actor.ID
	d.ResolvedAt = &now
	return nil
}
