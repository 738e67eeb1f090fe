package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/crucial707/asset-audit/internal/models"
)

// ErrNotFound is returned when an audit id does not exist.
var ErrNotFound = errors.New("audit not found")

const auditColumns = `id, asset_id, asset_tag, COALESCE(asset_name,''), COALESCE(sap_asset_number,''),
	expected_location_id, COALESCE(expected_location_name,''), actual_location_id, actual_location_name,
	status, COALESCE(notes,''), COALESCE(user_name,''), snipeit_audit_posted, created_at, resolved_at, resolved_by`

// AuditRepo persists audit records.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo returns a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Insert stores a new audit record and returns its server-assigned id.
// created_at is set by the database and never changes afterwards.
func (r *AuditRepo) Insert(ctx context.Context, rec models.AuditRecord) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO audits (asset_id, asset_tag, asset_name, sap_asset_number,
			expected_location_id, expected_location_name, actual_location_id, actual_location_name,
			status, notes, user_name, snipeit_audit_posted)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id`,
		rec.AssetID, rec.AssetTag, rec.AssetName, rec.SAPAssetNumber,
		rec.ExpectedLocationID, rec.ExpectedLocationName, rec.ActualLocationID, rec.ActualLocationName,
		rec.Status, rec.Notes, rec.UserName, rec.SnipeITAuditPosted,
	).Scan(&id)
	return id, err
}

// GetByID loads one audit record.
func (r *AuditRepo) GetByID(ctx context.Context, id int64) (models.AuditRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+auditColumns+` FROM audits WHERE id = $1`, id)
	rec, err := scanAudit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrNotFound
	}
	return rec, err
}

// ListAll returns all audit records, newest first.
func (r *AuditRepo) ListAll(ctx context.Context) ([]models.AuditRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+auditColumns+` FROM audits ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectAudits(rows)
}

// ListByUser returns one user's audit records, newest first.
func (r *AuditRepo) ListByUser(ctx context.Context, userName string) ([]models.AuditRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+auditColumns+` FROM audits WHERE user_name = $1 ORDER BY created_at DESC`,
		userName)
	if err != nil {
		return nil, err
	}
	return collectAudits(rows)
}

// MarkResolved flips a mismatch to resolved. The status guard in the WHERE
// clause keeps the operation idempotent even if callers race: a second
// attempt matches zero rows and reports ErrNotFound without touching the
// resolution fields set by the first.
func (r *AuditRepo) MarkResolved(ctx context.Context, id int64, resolvedBy string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE audits SET status = $2, resolved_at = $3, resolved_by = $4 WHERE id = $1 AND status = $5`,
		id, models.StatusResolved, at, resolvedBy, models.StatusMismatch)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an audit record.
func (r *AuditRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM audits WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAudit(row rowScanner) (models.AuditRecord, error) {
	var rec models.AuditRecord
	var expectedID sql.NullInt64
	var resolvedAt sql.NullTime
	var resolvedBy sql.NullString
	err := row.Scan(
		&rec.ID, &rec.AssetID, &rec.AssetTag, &rec.AssetName, &rec.SAPAssetNumber,
		&expectedID, &rec.ExpectedLocationName, &rec.ActualLocationID, &rec.ActualLocationName,
		&rec.Status, &rec.Notes, &rec.UserName, &rec.SnipeITAuditPosted,
		&rec.CreatedAt, &resolvedAt, &resolvedBy,
	)
	if err != nil {
		return rec, err
	}
	if expectedID.Valid {
		rec.ExpectedLocationID = &expectedID.Int64
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		rec.ResolvedAt = &t
	}
	if resolvedBy.Valid {
		rec.ResolvedBy = resolvedBy.String
	}
	return rec, nil
}

func collectAudits(rows *sql.Rows) ([]models.AuditRecord, error) {
	defer rows.Close()
	var out []models.AuditRecord
	for rows.Next() {
		rec, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
