// internal/store/spas.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/models"
)

// SpaColumns lists the columns produced by SpaSelectList, in scan order.
var SpaColumns = []string{
	"id", "reference_number", "name", "owner_name", "email", "phone", "address", "district",
	"status", "reject_reason", "verified_at", "verified_by", "blacklist_reason", "blacklisted_at",
	"blacklisted_by", "payment_status", "payment_reference", "certificate_docs", "facility_photos",
	"supporting_docs", "created_at", "updated_at",
}

// SpaSelectList is the select expression matching ScanSpa.
const SpaSelectList = `id, reference_number, name, COALESCE(owner_name, ''), email,
	COALESCE(phone, ''), COALESCE(address, ''), COALESCE(district, ''),
	status, reject_reason, verified_at, verified_by, blacklist_reason, blacklisted_at,
	blacklisted_by, payment_status, payment_reference, certificate_docs, facility_photos,
	supporting_docs, created_at, updated_at`

// spaStatusColumns are the columns a status change may set besides status itself.
var spaStatusColumns = []string{
	"reject_reason", "verified_at", "verified_by", "blacklist_reason", "blacklisted_at", "blacklisted_by",
}

// ScanSpa reads one row selected with SpaSelectList.
func ScanSpa(row Scanner) (*models.Spa, error) {
	var s models.Spa
	var certificates, photos, supporting *string
	err := row.Scan(
		&s.ID, &s.ReferenceNumber, &s.Name, &s.OwnerName, &s.Email, &s.Phone, &s.Address, &s.District,
		&s.Status, &s.RejectReason, &s.VerifiedAt, &s.VerifiedBy, &s.BlacklistReason, &s.BlacklistedAt,
		&s.BlacklistedBy, &s.PaymentStatus, &s.PaymentReference, &certificates, &photos,
		&supporting, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.CertificateDocs = models.ParseDocumentPaths(certificates)
	s.FacilityPhotos = models.ParseDocumentPaths(photos)
	s.SupportingDocs = models.ParseDocumentPaths(supporting)
	return &s, nil
}

// InsertSpa creates a pending registration and returns its id and reference number.
func InsertSpa(ctx context.Context, db DBTX, f models.SpaFields, docs models.SpaDocuments) (int64, string, error) {
	ref := newReference("SPA")
	var id int64
	err := db.QueryRowContext(ctx, `
		INSERT INTO spas (
			reference_number, name, owner_name, email, phone, address, district,
			status, payment_status, certificate_docs, facility_photos, supporting_docs
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		ref,
		strings.TrimSpace(f.Name),
		nullIfBlank(f.OwnerName),
		strings.TrimSpace(f.Email),
		nullIfBlank(f.Phone),
		nullIfBlank(f.Address),
		nullIfBlank(f.District),
		models.SpaStatusPending,
		models.PaymentStatusUnpaid,
		models.EncodeDocumentPaths(docs.CertificateDocs),
		models.EncodeDocumentPaths(docs.FacilityPhotos),
		models.EncodeDocumentPaths(docs.SupportingDocs),
	).Scan(&id)
	if err != nil {
		return 0, "", classifyWriteErr("insert spa", err)
	}
	return id, ref, nil
}

// GetSpa loads one spa or returns a NotFoundError.
func GetSpa(ctx context.Context, db DBTX, id int64) (*models.Spa, error) {
	row := db.QueryRowContext(ctx, `SELECT `+SpaSelectList+` FROM spas WHERE id = $1`, id)
	s, err := ScanSpa(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(models.EntitySpa, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get spa %d: %w", id, err)
	}
	return s, nil
}

// UpdateSpaStatus applies a status change with a compare-and-swap on the prior status.
// Zero affected rows means another writer got there first.
func UpdateSpaStatus(ctx context.Context, db DBTX, c models.StatusChange) error {
	return applyStatusChange(ctx, db, "spas", models.EntitySpa, spaStatusColumns, c)
}

// UpdateSpaDetails rewrites the editable fields. Document categories left empty keep
// their stored value.
func UpdateSpaDetails(ctx context.Context, db DBTX, id int64, f models.SpaFields, docs models.SpaDocuments) error {
	_, err := db.ExecContext(ctx, `
		UPDATE spas SET
			name = $1, owner_name = $2, email = $3, phone = $4, address = $5, district = $6,
			certificate_docs = COALESCE($7, certificate_docs),
			facility_photos = COALESCE($8, facility_photos),
			supporting_docs = COALESCE($9, supporting_docs),
			updated_at = NOW()
		WHERE id = $10`,
		strings.TrimSpace(f.Name),
		nullIfBlank(f.OwnerName),
		strings.TrimSpace(f.Email),
		nullIfBlank(f.Phone),
		nullIfBlank(f.Address),
		nullIfBlank(f.District),
		models.EncodeDocumentPaths(docs.CertificateDocs),
		models.EncodeDocumentPaths(docs.FacilityPhotos),
		models.EncodeDocumentPaths(docs.SupportingDocs),
		id,
	)
	if err != nil {
		return classifyWriteErr("update spa details", err)
	}
	return nil
}

func applyStatusChange(ctx context.Context, db DBTX, table, entity string, allowed []string, c models.StatusChange) error {
	if c.From == "" || c.To == "" {
		return apperrors.NewInternalError("status change without source or target state", nil)
	}

	args := []interface{}{c.To}
	sets := []string{"status = $1"}
	extra, args, err := setClause(allowed, c.Fields, args)
	if err != nil {
		return err
	}
	sets = append(sets, extra...)
	sets = append(sets, "updated_at = NOW()")

	args = append(args, c.EntityID, c.From)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d AND status = $%d",
		table, strings.Join(sets, ", "), len(args)-1, len(args))

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return classifyWriteErr("update "+entity+" status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s status: %w", entity, err)
	}
	if n == 0 {
		return apperrors.NewInvalidTransitionError(entity, c.EntityID,
			fmt.Sprintf("status is no longer %s", c.From))
	}
	return nil
}
