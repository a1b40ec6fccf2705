package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rentinspect-backend/internal/domain"
)

func confirmedBooking(start, end time.Time) *domain.Booking {
	return &domain.Booking{
		ID:        1,
		ProductID: 2,
		OwnerID:   10,
		RenterID:  20,
		Status:    domain.BookingStatusConfirmed,
		StartDate: start,
		EndDate:   end,
	}
}

func TestCheckBookingPrecondition(t *testing.T) {
	now := time.Now().UTC()
	booking := confirmedBooking(now.Add(24*time.Hour), now.Add(72*time.Hour))

	t.Run("ConfirmedBookingAccepted", func(t *testing.T) {
		assert.NoError(t, CheckBookingPrecondition(domain.InspectionTypePreRental, booking))
	})

	t.Run("PendingBookingRejected", func(t *testing.T) {
		pending := *booking
		pending.Status = domain.BookingStatusPending
		err := CheckBookingPrecondition(domain.InspectionTypePreRental, &pending)
		assert.Equal(t, domain.KindPreconditionFailed, domain.KindOf(err))
		assert.Equal(t, string(domain.BookingStatusPending), domain.DetailOf(err)["booking_status"])
	})

	t.Run("MissingBookingRejected", func(t *testing.T) {
		err := CheckBookingPrecondition(domain.InspectionTypePostRental, nil)
		assert.Equal(t, domain.KindPreconditionFailed, domain.KindOf(err))
	})

	t.Run("MaintenanceCheckSkipsBookingState", func(t *testing.T) {
		cancelled := *booking
		cancelled.Status = domain.BookingStatusCancelled
		assert.NoError(t, CheckBookingPrecondition(domain.InspectionTypeMaintenanceCheck, &cancelled))
	})
}

func TestCheckSchedulingWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	booking := confirmedBooking(start, end)

	t.Run("PreRentalInsideWindow", func(t *testing.T) {
		err := CheckSchedulingWindow(domain.InspectionTypePreRental, start.Add(-2*time.Hour), booking, now)
		assert.NoError(t, err)
	})

	t.Run("PreRentalAfterStartIsOutOfWindow", func(t *testing.T) {
		err := CheckSchedulingWindow(domain.InspectionTypePreRental, start.Add(time.Hour), booking, now)
		assert.Equal(t, domain.KindOutOfWindow, domain.KindOf(err))
		detail := domain.DetailOf(err)
		assert.Equal(t, now.Format(time.RFC3339), detail["valid_from"])
		assert.Equal(t, start.Format(time.RFC3339), detail["valid_until"])
	})

	t.Run("PreRentalInThePastIsOutOfWindow", func(t *testing.T) {
		err := CheckSchedulingWindow(domain.InspectionTypePreRental, now.Add(-time.Hour), booking, now)
		assert.Equal(t, domain.KindOutOfWindow, domain.KindOf(err))
	})

	t.Run("BookingAlreadyStartedHasNoValidWindow", func(t *testing.T) {
		lateNow := start.Add(time.Hour)
		err := CheckSchedulingWindow(domain.InspectionTypePreRental, lateNow.Add(time.Hour), booking, lateNow)
		assert.Equal(t, domain.KindNoValidWindow, domain.KindOf(err))
	})

	t.Run("PostRentalBeforeEndIsOutOfWindow", func(t *testing.T) {
		err := CheckSchedulingWindow(domain.InspectionTypePostRental, end.Add(-time.Hour), booking, now)
		assert.Equal(t, domain.KindOutOfWindow, domain.KindOf(err))
		assert.Equal(t, end.Format(time.RFC3339), domain.DetailOf(err)["valid_from"])
	})

	t.Run("PostRentalAtReturnAccepted", func(t *testing.T) {
		assert.NoError(t, CheckSchedulingWindow(domain.InspectionTypePostRental, end, booking, now))
	})

	t.Run("DamageAssessmentOnlyNeedsFutureTime", func(t *testing.T) {
		assert.NoError(t, CheckSchedulingWindow(domain.InspectionTypeDamageAssessment, now.Add(time.Minute), booking, now))
		err := CheckSchedulingWindow(domain.InspectionTypeDamageAssessment, now.Add(-time.Minute), booking, now)
		assert.Equal(t, domain.KindOutOfWindow, domain.KindOf(err))
	})
}

func TestCheckSubmissionPayload(t *testing.T) {
	policy := PhotoPolicy{MinPhotos: 2, MaxPhotos: 20, RequireLocation: true}
	location := &domain.GeoPoint{Latitude: 52.52, Longitude: 13.405, CapturedOn: time.Now().UTC()}

	t.Run("OnePhotoBelowMinimumRejected", func(t *testing.T) {
		err := CheckSubmissionPayload(policy, SubmissionPayload{PhotoCount: 1, Location: location, Confirmed: true})
		assert.Equal(t, domain.KindIncompletePayload, domain.KindOf(err))
		assert.Equal(t, RulePhotoCount, domain.DetailOf(err)["rule"])
	})

	t.Run("TwoPhotosWithLocationAndConfirmationAccepted", func(t *testing.T) {
		err := CheckSubmissionPayload(policy, SubmissionPayload{PhotoCount: 2, Location: location, Confirmed: true})
		assert.NoError(t, err)
	})

	t.Run("TooManyPhotosRejected", func(t *testing.T) {
		err := CheckSubmissionPayload(policy, SubmissionPayload{PhotoCount: 21, Location: location, Confirmed: true})
		assert.Equal(t, RulePhotoCount, domain.DetailOf(err)["rule"])
	})

	t.Run("MissingLocationRejected", func(t *testing.T) {
		err := CheckSubmissionPayload(policy, SubmissionPayload{PhotoCount: 2, Confirmed: true})
		assert.Equal(t, RuleLocation, domain.DetailOf(err)["rule"])
	})

	t.Run("LocationOptionalWhenPolicyAllows", func(t *testing.T) {
		relaxed := PhotoPolicy{MinPhotos: 2, MaxPhotos: 20}
		err := CheckSubmissionPayload(relaxed, SubmissionPayload{PhotoCount: 2, Confirmed: true})
		assert.NoError(t, err)
	})

	t.Run("MissingConfirmationRejected", func(t *testing.T) {
		err := CheckSubmissionPayload(policy, SubmissionPayload{PhotoCount: 2, Location: location})
		assert.Equal(t, RuleConfirmation, domain.DetailOf(err)["rule"])
	})
}
