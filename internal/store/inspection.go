package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pdihub/pdihub/internal/crypto"
	"github.com/pdihub/pdihub/internal/models"
)

// inspectionColumns lists the columns selected for inspection queries.
const inspectionColumns = `id, number, inspector_name, inspector_email,
	inspection_date, status, data_retention_days, revision, vehicle_info,
	location, barcode, photos, checklist, signatures, privacy_consent,
	created_at, updated_at`

// InspectionStore handles inspection record persistence. Writes always
// replace the full record; section-level merge logic lives in the service
// layer.
type InspectionStore struct {
	Base
}

// NewInspectionStore creates a new InspectionStore.
func NewInspectionStore(base Base) *InspectionStore {
	return &InspectionStore{Base: base}
}

// CreateInspection inserts a new inspection and returns the created record.
func (s *InspectionStore) CreateInspection(ctx context.Context, insp *models.Inspection) (*models.Inspection, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cols, err := s.marshalSections(ctx, insp)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO inspections (number, inspector_name, inspector_email,
			inspection_date, status, data_retention_days, vehicle_info, location,
			barcode, photos, checklist, signatures, privacy_consent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + inspectionColumns

	row := s.Pool.QueryRow(ctx, query,
		insp.Number,
		insp.InspectorName,
		models.NormalizeEmail(insp.InspectorEmail),
		insp.InspectionDate,
		insp.Status,
		retentionColumn(insp.RetentionDays),
		cols.vehicleInfo,
		cols.location,
		cols.barcode,
		cols.photos,
		cols.checklist,
		cols.signatures,
		insp.PrivacyConsent,
	)

	created, err := s.scanInspection(ctx, row.Scan)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("scanning created inspection: %w", err)
	}

	return created, nil
}

// GetInspection fetches a single inspection by ID.
func (s *InspectionStore) GetInspection(ctx context.Context, id string) (*models.Inspection, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, "SELECT "+inspectionColumns+" FROM inspections WHERE id = $1", id)

	insp, err := s.scanInspection(ctx, row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrInspectionNotFound
		}

		return nil, fmt.Errorf("scanning inspection: %w", err)
	}

	return insp, nil
}

// GetInspectionByNumber fetches a single inspection by its business number.
func (s *InspectionStore) GetInspectionByNumber(ctx context.Context, number string) (*models.Inspection, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, "SELECT "+inspectionColumns+" FROM inspections WHERE number = $1", number)

	insp, err := s.scanInspection(ctx, row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrInspectionNotFound
		}

		return nil, fmt.Errorf("scanning inspection: %w", err)
	}

	return insp, nil
}

// ReplaceInspection overwrites the full record for the given inspection ID
// and bumps the revision counter. The write is unconditional: a concurrent
// writer is not rejected on a stale revision (last writer wins).
func (s *InspectionStore) ReplaceInspection(ctx context.Context, insp *models.Inspection) (*models.Inspection, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cols, err := s.marshalSections(ctx, insp)
	if err != nil {
		return nil, err
	}

	query := `UPDATE inspections SET
			inspector_name = $2, inspector_email = $3, inspection_date = $4,
			status = $5, data_retention_days = $6, vehicle_info = $7,
			location = $8, barcode = $9, photos = $10, checklist = $11,
			signatures = $12, privacy_consent = $13,
			revision = revision + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + inspectionColumns

	row := s.Pool.QueryRow(ctx, query,
		insp.ID,
		insp.InspectorName,
		models.NormalizeEmail(insp.InspectorEmail),
		insp.InspectionDate,
		insp.Status,
		retentionColumn(insp.RetentionDays),
		cols.vehicleInfo,
		cols.location,
		cols.barcode,
		cols.photos,
		cols.checklist,
		cols.signatures,
		insp.PrivacyConsent,
	)

	updated, err := s.scanInspection(ctx, row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrInspectionNotFound
		}

		return nil, fmt.Errorf("scanning replaced inspection: %w", err)
	}

	return updated, nil
}

// ListInspections returns inspections matching the given filters, newest
// first. Returns inspections, hasMore flag, and any error.
func (s *InspectionStore) ListInspections(ctx context.Context, opts models.ListInspectionOpts) ([]models.Inspection, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var conditions []string

	var args []any

	argIdx := 1

	if opts.Status != "" {
		conditions = append(conditions, "status = $"+strconv.Itoa(argIdx))
		args = append(args, opts.Status)
		argIdx++
	}

	if opts.InspectorEmail != "" {
		conditions = append(conditions, "inspector_email = $"+strconv.Itoa(argIdx))
		args = append(args, models.NormalizeEmail(opts.InspectorEmail))
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := opts.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = 50
	}

	query := fmt.Sprintf(
		"SELECT %s FROM inspections %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		inspectionColumns, where, argIdx, argIdx+1,
	)
	args = append(args, limit+1, opts.Offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying inspections: %w", err)
	}
	defer rows.Close()

	var inspections []models.Inspection

	for rows.Next() {
		insp, err := s.scanInspection(ctx, rows.Scan)
		if err != nil {
			return nil, false, fmt.Errorf("scanning inspection row: %w", err)
		}

		inspections = append(inspections, *insp)
	}

	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating inspection rows: %w", err)
	}

	hasMore := len(inspections) > limit
	if hasMore {
		inspections = inspections[:limit]
	}

	return inspections, hasMore, nil
}

// ListCompleted returns all completed inspections with the fields needed to
// compute retention eligibility. Sections are not loaded.
func (s *InspectionStore) ListCompleted(ctx context.Context) ([]models.Inspection, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		`SELECT id, number, inspection_date, data_retention_days
		FROM inspections WHERE status = 'completed'`)
	if err != nil {
		return nil, fmt.Errorf("querying completed inspections: %w", err)
	}
	defer rows.Close()

	var inspections []models.Inspection

	for rows.Next() {
		var (
			insp      models.Inspection
			retention *int
		)

		if err := rows.Scan(&insp.ID, &insp.Number, &insp.InspectionDate, &retention); err != nil {
			return nil, fmt.Errorf("scanning completed inspection: %w", err)
		}

		if retention != nil {
			insp.RetentionDays = *retention
		}

		insp.Status = models.StatusCompleted
		inspections = append(inspections, insp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating completed inspections: %w", err)
	}

	return inspections, nil
}

// DeleteInspection removes a single inspection by ID.
func (s *InspectionStore) DeleteInspection(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, "DELETE FROM inspections WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting inspection: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrInspectionNotFound
	}

	return nil
}

// DeleteInspectionsByIDs removes the given inspections in one statement and
// returns the number of rows actually deleted. IDs that no longer exist are
// skipped, which keeps the retention sweep idempotent.
func (s *InspectionStore) DeleteInspectionsByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, "DELETE FROM inspections WHERE id = ANY($1)", ids)
	if err != nil {
		return 0, fmt.Errorf("deleting inspections batch: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// sectionColumns holds the marshaled JSONB section payloads plus the
// encrypted signatures text for one inspection row.
type sectionColumns struct {
	vehicleInfo []byte
	location    []byte
	barcode     []byte
	photos      []byte
	checklist   []byte
	signatures  *string
}

// marshalSections serializes the section fields for storage. Signatures are
// encrypted at rest; all other sections are stored as plain JSONB.
func (s *InspectionStore) marshalSections(ctx context.Context, insp *models.Inspection) (*sectionColumns, error) {
	var cols sectionColumns

	var err error

	if insp.VehicleInfo != nil {
		if cols.vehicleInfo, err = json.Marshal(insp.VehicleInfo); err != nil {
			return nil, fmt.Errorf("marshaling vehicle info: %w", err)
		}
	}

	if insp.Location != nil {
		if cols.location, err = json.Marshal(insp.Location); err != nil {
			return nil, fmt.Errorf("marshaling location: %w", err)
		}
	}

	if insp.Barcode != nil {
		if cols.barcode, err = json.Marshal(insp.Barcode); err != nil {
			return nil, fmt.Errorf("marshaling barcode: %w", err)
		}
	}

	if insp.Photos != nil {
		if cols.photos, err = json.Marshal(insp.Photos); err != nil {
			return nil, fmt.Errorf("marshaling photos: %w", err)
		}
	}

	if insp.Checklist != nil {
		if cols.checklist, err = json.Marshal(insp.Checklist); err != nil {
			return nil, fmt.Errorf("marshaling checklist: %w", err)
		}
	}

	if insp.Signatures != nil {
		plain, err := json.Marshal(insp.Signatures)
		if err != nil {
			return nil, fmt.Errorf("marshaling signatures: %w", err)
		}

		ciphertext, err := s.Crypto.Encrypt(ctx, crypto.ScopeSignatures, plain)
		if err != nil {
			return nil, fmt.Errorf("encrypting signatures: %w", err)
		}

		cols.signatures = &ciphertext
	}

	return &cols, nil
}

// scanInspection scans a single row into a models.Inspection, decrypting the
// signatures column.
func (s *InspectionStore) scanInspection(ctx context.Context, scan func(dest ...any) error) (*models.Inspection, error) {
	var (
		insp        models.Inspection
		retention   *int
		vehicleInfo []byte
		location    []byte
		barcode     []byte
		photos      []byte
		checklist   []byte
		signatures  *string
	)

	err := scan(
		&insp.ID,
		&insp.Number,
		&insp.InspectorName,
		&insp.InspectorEmail,
		&insp.InspectionDate,
		&insp.Status,
		&retention,
		&insp.Revision,
		&vehicleInfo,
		&location,
		&barcode,
		&photos,
		&checklist,
		&signatures,
		&insp.PrivacyConsent,
		&insp.CreatedAt,
		&insp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if retention != nil {
		insp.RetentionDays = *retention
	}

	if vehicleInfo != nil {
		if err := json.Unmarshal(vehicleInfo, &insp.VehicleInfo); err != nil {
			return nil, fmt.Errorf("unmarshaling vehicle info: %w", err)
		}
	}

	if location != nil {
		if err := json.Unmarshal(location, &insp.Location); err != nil {
			return nil, fmt.Errorf("unmarshaling location: %w", err)
		}
	}

	if barcode != nil {
		if err := json.Unmarshal(barcode, &insp.Barcode); err != nil {
			return nil, fmt.Errorf("unmarshaling barcode: %w", err)
		}
	}

	if photos != nil {
		if err := json.Unmarshal(photos, &insp.Photos); err != nil {
			return nil, fmt.Errorf("unmarshaling photos: %w", err)
		}
	}

	if checklist != nil {
		if err := json.Unmarshal(checklist, &insp.Checklist); err != nil {
			return nil, fmt.Errorf("unmarshaling checklist: %w", err)
		}
	}

	if signatures != nil && *signatures != "" {
		plain, err := s.Crypto.Decrypt(ctx, crypto.ScopeSignatures, *signatures)
		if err != nil {
			return nil, fmt.Errorf("decrypting signatures: %w", err)
		}

		if err := json.Unmarshal(plain, &insp.Signatures); err != nil {
			return nil, fmt.Errorf("unmarshaling signatures: %w", err)
		}
	}

	return &insp, nil
}

// retentionColumn maps the in-memory "0 means unset" convention to a NULL
// column value.
func retentionColumn(days int) *int {
	if days <= 0 {
		return nil
	}

	return &days
}
