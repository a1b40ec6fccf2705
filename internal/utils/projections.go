package utils

import "rentinspect-backend/internal/domain"

// SummarizeCosts rolls repair and replacement costs up across the
// inspection's items.
func SummarizeCosts(items []domain.InspectionItem) domain.CostSummary {
	var summary domain.CostSummary
	for _, item := range items {
		summary.TotalRepairCostCents += item.RepairCostCents
		summary.TotalReplacementCostCents += item.ReplacementCostCents
	}
	return summary
}

// BuildTimeline projects the scheduling lifecycle of an inspection.
// Duration is only present once the inspection both started and completed.
func BuildTimeline(insp *domain.Inspection) domain.Timeline {
	tl := domain.Timeline{
		ScheduledAt: insp.ScheduledAt,
		StartedAt:   insp.StartedAt,
		CompletedAt: insp.CompletedAt,
	}
	if insp.StartedAt != nil && insp.CompletedAt != nil {
		minutes := int32(insp.CompletedAt.Sub(*insp.StartedAt).Minutes())
		tl.DurationMinutes = &minutes
	}
	return tl
}
