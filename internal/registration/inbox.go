package registration

import (
	"context"
	"fmt"

	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/models"
	"spa-registry/internal/notification"
	"spa-registry/internal/query"
	"spa-registry/internal/store"
)

// Inbox selects the notifications of one recipient. A nil RecipientID reads the
// role-wide notifications only.
type Inbox struct {
	Role        string
	RecipientID *int64
	UnreadOnly  bool
}

func recipientType(role string) (string, error) {
	r, err := notification.ResolveRecipient(role)
	if err != nil {
		return "", apperrors.NewValidationError("unknown recipient",
			apperrors.FieldError{Field: "recipientType", Message: fmt.Sprintf("%q is not a recipient role", role)})
	}
	return r, nil
}

// ListNotifications pages through an inbox, newest first.
func (s *Service) ListNotifications(ctx context.Context, in Inbox, page, limit int) (*query.Page[models.Notification], error) {
	rt, err := recipientType(in.Role)
	if err != nil {
		return nil, err
	}

	pg := s.lister.Normalize(page, limit)
	items, total, err := store.ListNotifications(ctx, s.db, store.NotificationQuery{
		RecipientType: rt,
		RecipientID:   in.RecipientID,
		UnreadOnly:    in.UnreadOnly,
		Limit:         pg.Limit,
		Offset:        pg.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return &query.Page[models.Notification]{
		Items:      items,
		Total:      total,
		Page:       pg.Page,
		Limit:      pg.Limit,
		TotalPages: query.TotalPages(total, pg.Limit),
	}, nil
}

// MarkNotificationRead flips the read flag once; a second call is an invalid transition.
func (s *Service) MarkNotificationRead(ctx context.Context, id int64, role string) error {
	rt, err := recipientType(role)
	if err != nil {
		return err
	}
	return store.MarkNotificationRead(ctx, s.db, id, rt)
}
