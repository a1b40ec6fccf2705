package postgres

import (
	"database/sql"

	"rentinspect-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.InspectionRepository
	repository.DisputeRepository
	repository.BookingRepository
	repository.UserRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		InspectionRepository:   NewInspectionRepository(db),
		DisputeRepository:      NewDisputeRepository(db),
		BookingRepository:      NewBookingRepository(db),
		UserRepository:         NewUserRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
