package service

import (
	"context"

	"rentinspect-backend/internal/domain"
	"rentinspect-backend/internal/repository"
	"rentinspect-backend/internal/utils"
)

// buildInspectionView assembles the aggregate view returned by every
// mutating call. Participant lookups are best effort: a missing user row
// drops the participant from the view, it never fails the request.
func buildInspectionView(ctx context.Context, userRepo repository.UserRepository, insp *domain.Inspection) *domain.InspectionView {
	view := &domain.InspectionView{
		Inspection: insp,
		Costs:      utils.SummarizeCosts(insp.Items),
		Timeline:   utils.BuildTimeline(insp),
	}
	addParticipant := func(role string, id int32) {
		user, err := userRepo.GetByID(ctx, id)
		if err != nil {
			return
		}
		view.Participants = append(view.Participants, domain.Participant{
			Role: role, ID: user.ID, Name: user.Name, Email: user.Email,
		})
	}
	addParticipant("owner", insp.OwnerID)
	addParticipant("renter", insp.RenterID)
	if insp.InspectorID != nil {
		addParticipant("inspector", *insp.InspectorID)
	}
	return view
}
