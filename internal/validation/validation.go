// Package validation holds the pure checks invoked before any mutating
// workflow operation. The source of truth for scheduling windows and
// submission payload rules lives here and nowhere else.
package validation

import (
	"fmt"
	"time"

	"rentinspect-backend/internal/domain"
)

// PhotoPolicy is the canonical submission policy, loaded from config so the
// minimum is set in exactly one place.
type PhotoPolicy struct {
	MinPhotos       int
	MaxPhotos       int
	RequireLocation bool
}

// SubmissionPayload is what a pre/post-inspection submission must carry.
type SubmissionPayload struct {
	PhotoCount int
	Location   *domain.GeoPoint
	Confirmed  bool
}

// Sub-rule identifiers carried in IncompletePayload details.
const (
	RulePhotoCount   = "photo_count"
	RuleLocation     = "location"
	RuleConfirmation = "confirmation"
)

// CheckBookingPrecondition verifies that pre- and post-rental inspections
// reference a confirmed booking. Other inspection types have no booking
// state requirement beyond linkage.
func CheckBookingPrecondition(t domain.InspectionType, booking *domain.Booking) error {
	if t != domain.InspectionTypePreRental && t != domain.InspectionTypePostRental {
		return nil
	}
	if booking == nil {
		return domain.NewError(domain.KindPreconditionFailed, "inspection requires a linked booking")
	}
	if booking.Status != domain.BookingStatusConfirmed {
		return domain.NewErrorWithDetail(domain.KindPreconditionFailed,
			fmt.Sprintf("booking %d is %s, must be %s", booking.ID, booking.Status, domain.BookingStatusConfirmed),
			map[string]string{"booking_status": string(booking.Status)})
	}
	return nil
}

// CheckSchedulingWindow validates scheduledAt against the window rule keyed
// by inspection type. NO_VALID_WINDOW means no acceptable time exists at
// all; OUT_OF_WINDOW means the window exists but the requested time misses
// it. Errors carry the computed valid range so callers can self-correct.
func CheckSchedulingWindow(t domain.InspectionType, scheduledAt time.Time, booking *domain.Booking, now time.Time) error {
	switch t {
	case domain.InspectionTypePreRental:
		if booking.StartDate.Before(now) {
			return domain.NewErrorWithDetail(domain.KindNoValidWindow,
				"booking has already started, no valid pre-rental window exists",
				map[string]string{"booking_start": booking.StartDate.Format(time.RFC3339)})
		}
		if scheduledAt.Before(now) || scheduledAt.After(booking.StartDate) {
			return outOfWindow(now, &booking.StartDate)
		}
	case domain.InspectionTypePostRental:
		if scheduledAt.Before(booking.EndDate) {
			return outOfWindow(booking.EndDate, nil)
		}
	default:
		if scheduledAt.Before(now) {
			return outOfWindow(now, nil)
		}
	}
	return nil
}

// CheckSubmissionPayload enforces payload completeness for workflow
// submissions: photo count within policy bounds, a location capture when
// required, and an explicit acknowledgment.
func CheckSubmissionPayload(policy PhotoPolicy, p SubmissionPayload) error {
	if p.PhotoCount < policy.MinPhotos || p.PhotoCount > policy.MaxPhotos {
		return incomplete(RulePhotoCount,
			fmt.Sprintf("submission requires between %d and %d photos, got %d", policy.MinPhotos, policy.MaxPhotos, p.PhotoCount))
	}
	if policy.RequireLocation && p.Location == nil {
		return incomplete(RuleLocation, "submission requires a location capture")
	}
	if !p.Confirmed {
		return incomplete(RuleConfirmation, "submission requires an explicit confirmation")
	}
	return nil
}

func outOfWindow(earliest time.Time, latest *time.Time) error {
	detail := map[string]string{"valid_from": earliest.Format(time.RFC3339)}
	msg := fmt.Sprintf("scheduled time must be on or after %s", earliest.Format(time.RFC3339))
	if latest != nil {
		detail["valid_until"] = latest.Format(time.RFC3339)
		msg = fmt.Sprintf("scheduled time must be between %s and %s",
			earliest.Format(time.RFC3339), latest.Format(time.RFC3339))
	}
	return domain.NewErrorWithDetail(domain.KindOutOfWindow, msg, detail)
}

func incomplete(rule, msg string) error {
	return domain.NewErrorWithDetail(domain.KindIncompletePayload, msg, map[string]string{"rule": rule})
}
