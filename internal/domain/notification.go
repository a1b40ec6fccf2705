package domain

type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "PENDING"
	DeliveryStatusSent    DeliveryStatus = "SENT"
	DeliveryStatusFailed  DeliveryStatus = "FAILED"
)

// Notification doubles as a domain event record and an outbox row: the
// aggregate write commits the notification in the same database, and a
// scheduled job delivers it out-of-band so a downstream outage never fails
// the user-visible submission.
type Notification struct {
	ID             int32             `json:"id"`
	UserID         int32             `json:"user_id"`
	Title          string            `json:"title"`
	Message        string            `json:"message"`
	IsRead         bool              `json:"is_read"`
	Attributes     map[string]string `json:"attributes"`
	DeliveryStatus DeliveryStatus    `json:"delivery_status"`
	Attempts       int32             `json:"attempts"`
	CreatedOn      string            `json:"created_on"`
}
