// internal/store/therapists.go
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

// TherapistColumns lists the columns produced by TherapistSelectList, in scan order.
var TherapistColumns = []string{
	"id", "spa_id", "reference_number", "first_name", "last_name", "nic", "email", "phone", "address",
	"specialization", "status", "reject_reason", "approved_date", "resign_date", "terminated_at",
	"termination_reason", "working_history", "nic_docs", "medical_docs", "profile_photo",
	"created_at", "updated_at",
}

// TherapistSelectList is the select expression matching ScanTherapist.
const TherapistSelectList = `id, spa_id, reference_number, first_name, last_name, COALESCE(nic, ''),
	COALESCE(email, ''), COALESCE(phone, ''), COALESCE(address, ''), COALESCE(specialization, ''),
	status, reject_reason, approved_date, resign_date, terminated_at, termination_reason,
	working_history, nic_docs, medical_docs, profile_photo, created_at, updated_at`

var therapistStatusColumns = []string{
	"reject_reason", "approved_date", "resign_date", "terminated_at", "termination_reason", "working_history",
}

// ScanTherapist reads one row selected with TherapistSelectList.
func ScanTherapist(row Scanner) (*models.Therapist, error) {
	var t models.Therapist
	var nicDocs, medicalDocs, photo *string
	err := row.Scan(
		&t.ID, &t.SpaID, &t.ReferenceNumber, &t.FirstName, &t.LastName, &t.NIC, &t.Email, &t.Phone, &t.Address,
		&t.Specialization, &t.Status, &t.RejectReason, &t.ApprovedDate, &t.ResignDate, &t.TerminatedAt,
		&t.TerminationReason, &t.WorkingHistoryRaw, &nicDocs, &medicalDocs, &photo,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.WorkingHistory = models.ParseWorkingHistory(t.WorkingHistoryRaw)
	t.NICDocs = models.ParseDocumentPaths(nicDocs)
	t.MedicalDocs = models.ParseDocumentPaths(medicalDocs)
	t.ProfilePhoto = models.FirstDocumentPath(photo)
	return &t, nil
}

// InsertTherapist creates a pending therapist under spaID with an empty working history.
func InsertTherapist(ctx context.Context, db DBTX, spaID int64, f models.TherapistFields, docs models.TherapistDocuments) (int64, string, error) {
	ref := newReference("THR")
	var id int64
	err := db.QueryRowContext(ctx, `
		INSERT INTO therapists (
			spa_id, reference_number, first_name, last_name, nic, email, phone, address,
			specialization, status, working_history, nic_docs, medical_docs, profile_photo
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`,
		spaID,
		ref,
		strings.TrimSpace(f.FirstName),
		strings.TrimSpace(f.LastName),
		nullIfBlank(f.NIC),
		nullIfBlank(f.Email),
		nullIfBlank(f.Phone),
		nullIfBlank(f.Address),
		nullIfBlank(f.Specialization),
		models.TherapistStatusPending,
		"[]",
		models.EncodeDocumentPaths(docs.NICDocs),
		models.EncodeDocumentPaths(docs.MedicalDocs),
		models.EncodeDocumentPaths(docs.ProfilePhoto),
	).Scan(&id)
	if err != nil {
		return 0, "", classifyWriteErr("insert therapist", err)
	}
	return id, ref, nil
}

// GetTherapist loads one therapist or returns a NotFoundError.
func GetTherapist(ctx context.Context, db DBTX, id int64) (*models.Therapist, error) {
	row := db.QueryRowContext(ctx, `SELECT `+TherapistSelectList+` FROM therapists WHERE id = $1`, id)
	t, err := ScanTherapist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(models.EntityTherapist, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get therapist %d: %w", id, err)
	}
	return t, nil
}

// UpdateTherapistStatus applies a status change with a compare-and-swap on the prior status.
func UpdateTherapistStatus(ctx context.Context, db DBTX, c models.StatusChange) error {
	return applyStatusChange(ctx, db, "therapists", models.EntityTherapist, therapistStatusColumns, c)
}

// UpdateTherapistDetails rewrites the editable fields. Document categories left
// empty keep their stored value.
func UpdateTherapistDetails(ctx context.Context, db DBTX, id int64, f models.TherapistFields, docs models.TherapistDocuments) error {
	_, err := db.ExecContext(ctx, `
		UPDATE therapists SET
			first_name = $1, last_name = $2, nic = $3, email = $4, phone = $5, address = $6,
			specialization = $7,
			nic_docs = COALESCE($8, nic_docs),
			medical_docs = COALESCE($9, medical_docs),
			profile_photo = COALESCE($10, profile_photo),
			updated_at = NOW()
		WHERE id = $11`,
		strings.TrimSpace(f.FirstName),
		strings.TrimSpace(f.LastName),
		nullIfBlank(f.NIC),
		nullIfBlank(f.Email),
		nullIfBlank(f.Phone),
		nullIfBlank(f.Address),
		nullIfBlank(f.Specialization),
		models.EncodeDocumentPaths(docs.NICDocs),
		models.EncodeDocumentPaths(docs.MedicalDocs),
		models.EncodeDocumentPaths(docs.ProfilePhoto),
		id,
	)
	if err != nil {
		return classifyWriteErr("update therapist details", err)
	}
	return nil
}
