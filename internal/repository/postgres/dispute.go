package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"rentinspect-backend/internal/domain"
	"rentinspect-backend/internal/repository"
)

type disputeRepository struct {
	db *sql.DB
}

func NewDisputeRepository(db *sql.DB) repository.DisputeRepository {
	return &disputeRepository{db: db}
}

const disputeColumns = `id, inspection_id, dispute_type, status, raised_by, reason, evidence, agreed_amount_cents,
	resolution_notes, resolved_by, resolved_at, created_at, updated_at`

func scanDispute(row rowScanner) (*domain.Dispute, error) {
	d := &domain.Dispute{}
	err := row.Scan(&d.ID, &d.InspectionID, &d.Type, &d.Status, &d.RaisedBy, &d.Reason, &d.Evidence,
		&d.AgreedAmountCents, &d.ResolutionNotes, &d.ResolvedBy, &d.ResolvedAt, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *disputeRepository) GetByID(ctx context.Context, id int32) (*domain.Dispute, error) {
	query := fmt.Sprintf(`SELECT %s FROM disputes WHERE id = $1`, disputeColumns)
	d, err := scanDispute(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.KindNotFound, fmt.Sprintf("dispute %d not found", id))
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *disputeRepository) ListByInspection(ctx context.Context, inspectionID int32) ([]domain.Dispute, error) {
	query := fmt.Sprintf(`SELECT %s FROM disputes WHERE inspection_id = $1 ORDER BY id`, disputeColumns)
	rows, err := r.db.QueryContext(ctx, query, inspectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var disputes []domain.Dispute
	for rows.Next() {
		d, err := scanDispute(rows)
		if err != nil {
			return nil, err
		}
		disputes = append(disputes, *d)
	}
	return disputes, rows.Err()
}

func (r *disputeRepository) CountActiveByInspection(ctx context.Context, inspectionID int32) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM disputes WHERE inspection_id = $1 AND status IN ($2, $3)`
	err := r.db.QueryRowContext(ctx, query, inspectionID, domain.DisputeStatusOpen, domain.DisputeStatusUnderReview).Scan(&count)
	return count, err
}

func insertDispute(ctx context.Context, q rowQueryer, d *domain.Dispute) error {
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	query := `INSERT INTO disputes (inspection_id, dispute_type, status, raised_by, reason, evidence, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	return q.QueryRowContext(ctx, query,
		d.InspectionID, d.Type, d.Status, d.RaisedBy, d.Reason, d.Evidence, d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID)
}

func updateDispute(ctx context.Context, q execer, d *domain.Dispute) error {
	d.UpdatedAt = time.Now().UTC()
	query := `UPDATE disputes SET status=$1, agreed_amount_cents=$2, resolution_notes=$3, resolved_by=$4, resolved_at=$5, updated_at=$6 WHERE id=$7`
	_, err := q.ExecContext(ctx, query,
		d.Status, d.AgreedAmountCents, d.ResolutionNotes, d.ResolvedBy, d.ResolvedAt, d.UpdatedAt, d.ID)
	return err
}

// CreateWithParent inserts the dispute, any evidence photo references, and
// the parent inspection update in one transaction under the parent's
// optimistic version guard.
func (r *disputeRepository) CreateWithParent(ctx context.Context, d *domain.Dispute, insp *domain.Inspection, photos []domain.InspectionPhoto) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertDispute(ctx, tx, d); err != nil {
		return err
	}
	if err := insertPhotos(ctx, tx, insp.ID, photos); err != nil {
		return err
	}
	if err := updateInspection(ctx, tx, insp); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	insp.Disputes = append(insp.Disputes, *d)
	insp.Photos = append(insp.Photos, photos...)
	return nil
}

// UpdateWithParent settles the dispute and updates the parent inspection in
// one transaction.
func (r *disputeRepository) UpdateWithParent(ctx context.Context, d *domain.Dispute, insp *domain.Inspection) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := updateDispute(ctx, tx, d); err != nil {
		return err
	}
	if err := updateInspection(ctx, tx, insp); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *disputeRepository) Update(ctx context.Context, d *domain.Dispute) error {
	return updateDispute(ctx, r.db, d)
}
