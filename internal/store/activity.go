// internal/store/activity.go
package store

import (
	"context"
	"fmt"

	"spa-registry/internal/models"
)

// InsertActivityLog appends one audit row. Audit rows are never updated or deleted.
func InsertActivityLog(ctx context.Context, db DBTX, a *models.ActivityLog) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, `
		INSERT INTO activity_logs (entity_type, entity_id, action, description, actor_type, actor_id, actor_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		a.EntityType, a.EntityID, a.Action, a.Description, a.ActorType,
		nullIfBlank(a.ActorID), nullIfBlank(a.ActorName),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert activity log: %w", err)
	}
	return id, nil
}

// ListActivityLogs returns the audit trail of one entity, oldest first.
func ListActivityLogs(ctx context.Context, db DBTX, entityType string, entityID int64) ([]models.ActivityLog, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, entity_type, entity_id, action, description, actor_type,
			COALESCE(actor_id, ''), COALESCE(actor_name, ''), created_at
		FROM activity_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at, id`,
		entityType, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()

	logs := []models.ActivityLog{}
	for rows.Next() {
		var a models.ActivityLog
		if err := rows.Scan(&a.ID, &a.EntityType, &a.EntityID, &a.Action, &a.Description, &a.ActorType,
			&a.ActorID, &a.ActorName, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		logs = append(logs, a)
	}
	return logs, rows.Err()
}
