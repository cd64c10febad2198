// internal/store/requests.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/models"
)

// TherapistRequestColumns lists the columns read by LatestTherapistRequest, in scan order.
var TherapistRequestColumns = []string{
	"id", "therapist_id", "spa_id", "request_type", "request_status", "spa_notes",
	"response_message", "response_date", "responded_by", "created_at",
}

// InsertTherapistRequest opens a pending review round.
func InsertTherapistRequest(ctx context.Context, db DBTX, therapistID, spaID int64, requestType string, spaNotes *string) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, `
		INSERT INTO therapist_requests (therapist_id, spa_id, request_type, request_status, spa_notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		therapistID, spaID, requestType, models.RequestStatusPending, spaNotes,
	).Scan(&id)
	if err != nil {
		return 0, classifyWriteErr("insert therapist request", err)
	}
	return id, nil
}

// RespondToOpenRequest moves the therapist's pending request to approved or rejected.
// It returns the number of rows moved; zero means there was no open request.
func RespondToOpenRequest(ctx context.Context, db DBTX, therapistID int64, status string, message *string, respondedBy string, at time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE therapist_requests
		SET request_status = $1, response_message = $2, response_date = $3, responded_by = $4
		WHERE therapist_id = $5 AND request_status = 'pending'`,
		status, message, at, nullIfBlank(respondedBy), therapistID,
	)
	if err != nil {
		return 0, fmt.Errorf("respond to therapist request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("respond to therapist request: %w", err)
	}
	return n, nil
}

// ReopenLatestRequest turns the most recent rejected request back into a pending
// resubmission and clears the previous response. Returns rows moved.
func ReopenLatestRequest(ctx context.Context, db DBTX, therapistID int64) (int64, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE therapist_requests
		SET request_type = 'resubmit', request_status = 'pending',
			response_message = NULL, response_date = NULL, responded_by = NULL
		WHERE id = (
			SELECT id FROM therapist_requests
			WHERE therapist_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) AND request_status = 'rejected'`,
		therapistID,
	)
	if err != nil {
		return 0, classifyWriteErr("reopen therapist request", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reopen therapist request: %w", err)
	}
	return n, nil
}

// LatestTherapistRequest returns the most recent review round for a therapist.
func LatestTherapistRequest(ctx context.Context, db DBTX, therapistID int64) (*models.TherapistRequest, error) {
	var r models.TherapistRequest
	err := db.QueryRowContext(ctx, `
		SELECT id, therapist_id, spa_id, request_type, request_status, spa_notes,
			response_message, response_date, responded_by, created_at
		FROM therapist_requests
		WHERE therapist_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		therapistID,
	).Scan(&r.ID, &r.TherapistID, &r.SpaID, &r.RequestType, &r.RequestStatus, &r.SpaNotes,
		&r.ResponseMessage, &r.ResponseDate, &r.RespondedBy, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("therapist_request", therapistID)
	}
	if err != nil {
		return nil, fmt.Errorf("latest therapist request: %w", err)
	}
	return &r, nil
}
