// internal/store/notifications.go
package store

import (
	"context"
	"fmt"
	"strings"

	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/models"
)

// NotificationColumns lists the columns read by ListNotifications, in scan order.
var NotificationColumns = []string{
	"id", "recipient_type", "recipient_id", "title", "message", "type", "notification_type",
	"related_entity_type", "related_entity_id", "is_read", "created_at",
}

// InsertNotification stores one canonical notification row.
func InsertNotification(ctx context.Context, db DBTX, n *models.Notification) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, `
		INSERT INTO notifications (
			recipient_type, recipient_id, title, message, type, notification_type,
			related_entity_type, related_entity_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		n.RecipientType, n.RecipientID, n.Title, n.Message, n.Type, n.NotificationType,
		nullIfBlank(n.RelatedEntityType), n.RelatedEntityID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}
	return id, nil
}

// NotificationQuery selects an inbox. A nil RecipientID reads role-wide rows only;
// a set one also includes role-wide rows.
type NotificationQuery struct {
	RecipientType string
	RecipientID   *int64
	UnreadOnly    bool
	Limit         int
	Offset        int
}

// ListNotifications returns one page of an inbox, newest first, plus the total.
func ListNotifications(ctx context.Context, db DBTX, q NotificationQuery) ([]models.Notification, int, error) {
	where := []string{"recipient_type = $1"}
	args := []interface{}{q.RecipientType}
	if q.RecipientID != nil {
		args = append(args, *q.RecipientID)
		where = append(where, fmt.Sprintf("(recipient_id = $%d OR recipient_id IS NULL)", len(args)))
	} else {
		where = append(where, "recipient_id IS NULL")
	}
	if q.UnreadOnly {
		where = append(where, "is_read = FALSE")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notifications WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	pageArgs := append(append([]interface{}{}, args...), q.Limit, q.Offset)
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, recipient_type, recipient_id, title, message, type, notification_type,
			COALESCE(related_entity_type, ''), related_entity_id, is_read, created_at
		FROM notifications
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, cond, len(pageArgs)-1, len(pageArgs)),
		pageArgs...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	items := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.RecipientType, &n.RecipientID, &n.Title, &n.Message, &n.Type,
			&n.NotificationType, &n.RelatedEntityType, &n.RelatedEntityID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	return items, total, nil
}

// MarkNotificationRead flips is_read for a notification of the given recipient type.
// A notification that is already read yields InvalidTransitionError.
func MarkNotificationRead(ctx context.Context, db DBTX, id int64, recipientType string) error {
	res, err := db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE id = $1 AND recipient_type = $2 AND is_read = FALSE`,
		id, recipientType,
	)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if n == 1 {
		return nil
	}

	var exists bool
	if err := db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM notifications WHERE id = $1 AND recipient_type = $2)`,
		id, recipientType,
	).Scan(&exists); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !exists {
		return apperrors.NewNotFoundError("notification", id)
	}
	return apperrors.NewInvalidTransitionError("notification", id, "already read")
}
