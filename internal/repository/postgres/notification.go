package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"rentinspect-backend/internal/domain"
	"rentinspect-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	attrs, err := json.Marshal(n.Attributes)
	if err != nil {
		return err
	}
	if n.DeliveryStatus == "" {
		n.DeliveryStatus = domain.DeliveryStatusPending
	}
	query := `INSERT INTO notifications (user_id, title, message, is_read, attributes, delivery_status, attempts, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now().UTC().Format(time.RFC3339)
	return r.db.QueryRowContext(ctx, query,
		n.UserID, n.Title, n.Message, n.IsRead, attrs, n.DeliveryStatus, n.Attempts, now,
	).Scan(&n.ID)
}

func (r *notificationRepository) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	countQuery := `SELECT count(*) FROM notifications WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, user_id, title, message, is_read, attributes, delivery_status, attempts, created_on
	          FROM notifications WHERE user_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		notes = append(notes, *n)
	}
	return notes, count, rows.Err()
}

func scanNotification(row rowScanner) (*domain.Notification, error) {
	var n domain.Notification
	var attrs []byte
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &attrs,
		&n.DeliveryStatus, &n.Attempts, &n.CreatedOn); err != nil {
		return nil, err
	}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
			return nil, err
		}
	}
	return &n, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NewError(domain.KindNotFound, fmt.Sprintf("notification %d not found for user %d", id, userID))
	}
	return nil
}

func (r *notificationRepository) ListPendingDelivery(ctx context.Context, maxAttempts, limit int32) ([]domain.Notification, error) {
	query := `SELECT id, user_id, title, message, is_read, attributes, delivery_status, attempts, created_on
	          FROM notifications WHERE delivery_status = $1 AND attempts < $2 ORDER BY created_on LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, domain.DeliveryStatusPending, maxAttempts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

func (r *notificationRepository) MarkDelivery(ctx context.Context, id int32, status domain.DeliveryStatus, attempts int32) error {
	query := `UPDATE notifications SET delivery_status = $1, attempts = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, status, attempts, id)
	return err
}
