package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Booking is the rental agreement an inspection references. Owned by the
// booking/payments system; this service only reads it.
type Booking struct {
	ID        int32         `json:"id"`
	ProductID int32         `json:"product_id"`
	OwnerID   int32         `json:"owner_id"`
	RenterID  int32         `json:"renter_id"`
	Status    BookingStatus `json:"status"`
	StartDate time.Time     `json:"start_date"`
	EndDate   time.Time     `json:"end_date"`
	CreatedOn time.Time     `json:"created_on"`
}
