package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"rentinspect-backend/internal/domain"
	"rentinspect-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	b := &domain.Booking{}
	query := `SELECT id, product_id, owner_id, renter_id, status, start_date, end_date, created_on FROM bookings WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.ProductID, &b.OwnerID, &b.RenterID,
		&b.Status, &b.StartDate, &b.EndDate, &b.CreatedOn)
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.KindNotFound, fmt.Sprintf("booking %d not found", id))
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}
