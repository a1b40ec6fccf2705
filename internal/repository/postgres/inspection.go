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

type inspectionRepository struct {
	db *sql.DB
}

func NewInspectionRepository(db *sql.DB) repository.InspectionRepository {
	return &inspectionRepository{db: db}
}

const inspectionColumns = `id, product_id, booking_id, inspector_id, owner_id, renter_id, inspection_type, status,
	scheduled_at, location, notes, inspector_notes, version, created_at, updated_at, started_at, completed_at,
	owner_pre_data, owner_pre_submitted_at, owner_pre_confirmed, owner_pre_confirmed_at,
	renter_pre_review_accepted, renter_pre_reviewed_at,
	renter_discrepancy_reported, renter_discrepancy_reported_at, renter_discrepancy_data,
	renter_post_data, renter_post_submitted_at, renter_post_confirmed, renter_post_confirmed_at,
	owner_post_review_accepted, owner_post_reviewed_at, owner_dispute_raised, owner_dispute_raised_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInspection(row rowScanner) (*domain.Inspection, error) {
	insp := &domain.Inspection{}
	var ownerPreData, discrepancyData, renterPostData []byte
	err := row.Scan(
		&insp.ID, &insp.ProductID, &insp.BookingID, &insp.InspectorID, &insp.OwnerID, &insp.RenterID,
		&insp.Type, &insp.Status, &insp.ScheduledAt, &insp.Location, &insp.Notes, &insp.InspectorNotes,
		&insp.Version, &insp.CreatedAt, &insp.UpdatedAt, &insp.StartedAt, &insp.CompletedAt,
		&ownerPreData, &insp.OwnerPreInspectionSubmittedAt, &insp.OwnerPreInspectionConfirmed, &insp.OwnerPreInspectionConfirmedAt,
		&insp.RenterPreReviewAccepted, &insp.RenterPreReviewedAt,
		&insp.RenterDiscrepancyReported, &insp.RenterDiscrepancyReportedAt, &discrepancyData,
		&renterPostData, &insp.RenterPostInspectionSubmittedAt, &insp.RenterPostInspectionConfirmed, &insp.RenterPostInspectionConfirmedAt,
		&insp.OwnerPostReviewAccepted, &insp.OwnerPostReviewedAt, &insp.OwnerDisputeRaised, &insp.OwnerDisputeRaisedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(ownerPreData) > 0 {
		if err := json.Unmarshal(ownerPreData, &insp.OwnerPreInspectionData); err != nil {
			return nil, err
		}
	}
	if len(discrepancyData) > 0 {
		if err := json.Unmarshal(discrepancyData, &insp.RenterDiscrepancyData); err != nil {
			return nil, err
		}
	}
	if len(renterPostData) > 0 {
		if err := json.Unmarshal(renterPostData, &insp.RenterPostInspectionData); err != nil {
			return nil, err
		}
	}
	return insp, nil
}

func marshalNullable(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func insertInspection(ctx context.Context, q rowQueryer, insp *domain.Inspection) error {
	ownerPreData, err := marshalNullable(jsonOrNil(insp.OwnerPreInspectionData))
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	insp.CreatedAt = now
	insp.UpdatedAt = now
	insp.Version = 1
	query := `INSERT INTO inspections (product_id, booking_id, inspector_id, owner_id, renter_id, inspection_type, status,
	            scheduled_at, location, notes, version, created_at, updated_at, owner_pre_data, owner_pre_submitted_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	return q.QueryRowContext(ctx, query,
		insp.ProductID, insp.BookingID, insp.InspectorID, insp.OwnerID, insp.RenterID, insp.Type, insp.Status,
		insp.ScheduledAt, insp.Location, insp.Notes, insp.Version, insp.CreatedAt, insp.UpdatedAt,
		ownerPreData, insp.OwnerPreInspectionSubmittedAt,
	).Scan(&insp.ID)
}

func (r *inspectionRepository) Create(ctx context.Context, insp *domain.Inspection) error {
	return insertInspection(ctx, r.db, insp)
}

// CreateWithPhotos covers the combined create-and-submit flow: the new row
// and its photo references land in one transaction, like UpdateWithPhotos.
func (r *inspectionRepository) CreateWithPhotos(ctx context.Context, insp *domain.Inspection, photos []domain.InspectionPhoto) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertInspection(ctx, tx, insp); err != nil {
		return err
	}
	if err := insertPhotos(ctx, tx, insp.ID, photos); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	insp.Photos = append(insp.Photos, photos...)
	return nil
}

func (r *inspectionRepository) GetByID(ctx context.Context, id int32) (*domain.Inspection, error) {
	query := fmt.Sprintf(`SELECT %s FROM inspections WHERE id = $1`, inspectionColumns)
	insp, err := scanInspection(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.KindNotFound, fmt.Sprintf("inspection %d not found", id))
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadCollections(ctx, insp); err != nil {
		return nil, err
	}
	return insp, nil
}

func (r *inspectionRepository) loadCollections(ctx context.Context, insp *domain.Inspection) error {
	itemRows, err := r.db.QueryContext(ctx,
		`SELECT id, inspection_id, item_name, condition, description, repair_cost_cents, replacement_cost_cents, created_at, updated_at
		 FROM inspection_items WHERE inspection_id = $1 ORDER BY id`, insp.ID)
	if err != nil {
		return err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it domain.InspectionItem
		if err := itemRows.Scan(&it.ID, &it.InspectionID, &it.ItemName, &it.Condition, &it.Description,
			&it.RepairCostCents, &it.ReplacementCostCents, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return err
		}
		insp.Items = append(insp.Items, it)
	}

	photoRows, err := r.db.QueryContext(ctx,
		`SELECT id, inspection_id, item_id, url, category, uploaded_by, created_at
		 FROM inspection_photos WHERE inspection_id = $1 ORDER BY id`, insp.ID)
	if err != nil {
		return err
	}
	defer photoRows.Close()
	for photoRows.Next() {
		var p domain.InspectionPhoto
		if err := photoRows.Scan(&p.ID, &p.InspectionID, &p.ItemID, &p.URL, &p.Category, &p.UploadedBy, &p.CreatedAt); err != nil {
			return err
		}
		insp.Photos = append(insp.Photos, p)
	}

	disputeRows, err := r.db.QueryContext(ctx,
		`SELECT id, inspection_id, dispute_type, status, raised_by, reason, evidence, agreed_amount_cents,
		        resolution_notes, resolved_by, resolved_at, created_at, updated_at
		 FROM disputes WHERE inspection_id = $1 ORDER BY id`, insp.ID)
	if err != nil {
		return err
	}
	defer disputeRows.Close()
	for disputeRows.Next() {
		var d domain.Dispute
		if err := disputeRows.Scan(&d.ID, &d.InspectionID, &d.Type, &d.Status, &d.RaisedBy, &d.Reason, &d.Evidence,
			&d.AgreedAmountCents, &d.ResolutionNotes, &d.ResolvedBy, &d.ResolvedAt, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return err
		}
		insp.Disputes = append(insp.Disputes, d)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// updateInspection writes every mutable aggregate field guarded by the
// optimistic version; zero rows affected means the caller lost the race.
func updateInspection(ctx context.Context, q execer, insp *domain.Inspection) error {
	ownerPreData, err := marshalNullable(jsonOrNil(insp.OwnerPreInspectionData))
	if err != nil {
		return err
	}
	discrepancyData, err := marshalNullable(jsonOrNil(insp.RenterDiscrepancyData))
	if err != nil {
		return err
	}
	renterPostData, err := marshalNullable(jsonOrNil(insp.RenterPostInspectionData))
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	query := `UPDATE inspections SET
	            inspector_id=$1, status=$2, scheduled_at=$3, location=$4, notes=$5, inspector_notes=$6,
	            started_at=$7, completed_at=$8, updated_at=$9,
	            owner_pre_data=$10, owner_pre_submitted_at=$11, owner_pre_confirmed=$12, owner_pre_confirmed_at=$13,
	            renter_pre_review_accepted=$14, renter_pre_reviewed_at=$15,
	            renter_discrepancy_reported=$16, renter_discrepancy_reported_at=$17, renter_discrepancy_data=$18,
	            renter_post_data=$19, renter_post_submitted_at=$20, renter_post_confirmed=$21, renter_post_confirmed_at=$22,
	            owner_post_review_accepted=$23, owner_post_reviewed_at=$24, owner_dispute_raised=$25, owner_dispute_raised_at=$26,
	            version = version + 1
	          WHERE id=$27 AND version=$28`
	result, err := q.ExecContext(ctx, query,
		insp.InspectorID, insp.Status, insp.ScheduledAt, insp.Location, insp.Notes, insp.InspectorNotes,
		insp.StartedAt, insp.CompletedAt, now,
		ownerPreData, insp.OwnerPreInspectionSubmittedAt, insp.OwnerPreInspectionConfirmed, insp.OwnerPreInspectionConfirmedAt,
		insp.RenterPreReviewAccepted, insp.RenterPreReviewedAt,
		insp.RenterDiscrepancyReported, insp.RenterDiscrepancyReportedAt, discrepancyData,
		renterPostData, insp.RenterPostInspectionSubmittedAt, insp.RenterPostInspectionConfirmed, insp.RenterPostInspectionConfirmedAt,
		insp.OwnerPostReviewAccepted, insp.OwnerPostReviewedAt, insp.OwnerDisputeRaised, insp.OwnerDisputeRaisedAt,
		insp.ID, insp.Version)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NewError(domain.KindConflict,
			fmt.Sprintf("inspection %d was modified concurrently, re-fetch and retry", insp.ID))
	}
	insp.Version++
	insp.UpdatedAt = now
	return nil
}

// jsonOrNil converts typed nil report pointers into untyped nil so the
// database column stays NULL.
func jsonOrNil(v interface{}) interface{} {
	switch t := v.(type) {
	case *domain.ConditionReport:
		if t == nil {
			return nil
		}
	case *domain.DiscrepancyReport:
		if t == nil {
			return nil
		}
	}
	return v
}

func (r *inspectionRepository) Update(ctx context.Context, insp *domain.Inspection) error {
	return updateInspection(ctx, r.db, insp)
}

// UpdateWithPhotos groups the photo-reference writes and the metadata write
// in one transaction: a submission either lands whole or not at all.
func (r *inspectionRepository) UpdateWithPhotos(ctx context.Context, insp *domain.Inspection, photos []domain.InspectionPhoto) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := updateInspection(ctx, tx, insp); err != nil {
		return err
	}
	if err := insertPhotos(ctx, tx, insp.ID, photos); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	insp.Photos = append(insp.Photos, photos...)
	return nil
}

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func insertPhotos(ctx context.Context, q rowQueryer, inspectionID int32, photos []domain.InspectionPhoto) error {
	for i := range photos {
		photos[i].InspectionID = inspectionID
		photos[i].CreatedAt = time.Now().UTC()
		err := q.QueryRowContext(ctx,
			`INSERT INTO inspection_photos (inspection_id, item_id, url, category, uploaded_by, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			photos[i].InspectionID, photos[i].ItemID, photos[i].URL, photos[i].Category, photos[i].UploadedBy, photos[i].CreatedAt,
		).Scan(&photos[i].ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *inspectionRepository) ListByBooking(ctx context.Context, bookingID int32) ([]domain.Inspection, error) {
	query := fmt.Sprintf(`SELECT %s FROM inspections WHERE booking_id = $1 ORDER BY created_at`, inspectionColumns)
	return r.queryInspections(ctx, query, bookingID)
}

func (r *inspectionRepository) ListByParticipant(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Inspection, int32, error) {
	offset := (page - 1) * pageSize
	base := `FROM inspections WHERE (owner_id = $1 OR renter_id = $1 OR inspector_id = $1)`
	args := []interface{}{userID}
	argIdx := 2
	if status != "" {
		base += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) "+base, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		inspectionColumns, base, argIdx, argIdx+1)
	args = append(args, pageSize, offset)
	inspections, err := r.queryInspections(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return inspections, count, nil
}

func (r *inspectionRepository) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]domain.Inspection, error) {
	query := fmt.Sprintf(`SELECT %s FROM inspections WHERE status = $1 AND scheduled_at >= $2 AND scheduled_at < $3 ORDER BY scheduled_at`,
		inspectionColumns)
	return r.queryInspections(ctx, query, domain.InspectionStatusPending, from, to)
}

func (r *inspectionRepository) queryInspections(ctx context.Context, query string, args ...interface{}) ([]domain.Inspection, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inspections []domain.Inspection
	for rows.Next() {
		insp, err := scanInspection(rows)
		if err != nil {
			return nil, err
		}
		inspections = append(inspections, *insp)
	}
	return inspections, rows.Err()
}

func (r *inspectionRepository) CreateItem(ctx context.Context, item *domain.InspectionItem) error {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	query := `INSERT INTO inspection_items (inspection_id, item_name, condition, description, repair_cost_cents, replacement_cost_cents, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		item.InspectionID, item.ItemName, item.Condition, item.Description,
		item.RepairCostCents, item.ReplacementCostCents, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
}

func (r *inspectionRepository) GetItemByID(ctx context.Context, id int32) (*domain.InspectionItem, error) {
	it := &domain.InspectionItem{}
	query := `SELECT id, inspection_id, item_name, condition, description, repair_cost_cents, replacement_cost_cents, created_at, updated_at
	          FROM inspection_items WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&it.ID, &it.InspectionID, &it.ItemName, &it.Condition,
		&it.Description, &it.RepairCostCents, &it.ReplacementCostCents, &it.CreatedAt, &it.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.KindNotFound, fmt.Sprintf("inspection item %d not found", id))
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *inspectionRepository) UpdateItem(ctx context.Context, item *domain.InspectionItem) error {
	item.UpdatedAt = time.Now().UTC()
	query := `UPDATE inspection_items SET item_name=$1, condition=$2, description=$3, repair_cost_cents=$4, replacement_cost_cents=$5, updated_at=$6 WHERE id=$7`
	_, err := r.db.ExecContext(ctx, query, item.ItemName, item.Condition, item.Description,
		item.RepairCostCents, item.ReplacementCostCents, item.UpdatedAt, item.ID)
	return err
}

func (r *inspectionRepository) DeleteItem(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM inspection_items WHERE id = $1`, id)
	return err
}

func (r *inspectionRepository) DeletePhoto(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM inspection_photos WHERE id = $1`, id)
	return err
}
