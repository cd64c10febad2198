package marknotificationread

import (
	"context"
	stderrors "errors"
	"testing"

	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	read map[int64]bool
}

func (f *fakeService) MarkNotificationRead(_ context.Context, id int64, _ string) error {
	if f.read[id] {
		return apperrors.NewInvalidTransitionError("notification", id, "already read")
	}
	f.read[id] = true
	return nil
}

func TestRun_MarksOnce(t *testing.T) {
	h := NewHandler(LoadConfig(), &fakeService{read: map[int64]bool{}}, logger.NewTestLogger(t), observability.Noop())

	out, err := h.Run(context.Background(), `{"notificationId": 12, "recipientType": "admin"}`)
	require.NoError(t, err)
	assert.Equal(t, &Output{NotificationID: 12, IsRead: true}, out)

	_, err = h.Run(context.Background(), `{"notificationId": 12, "recipientType": "admin"}`)
	assert.True(t, stderrors.Is(err, apperrors.ErrInvalidTransition))
}

func TestExecute_RequiresID(t *testing.T) {
	h := NewHandler(LoadConfig(), &fakeService{read: map[int64]bool{}}, logger.NewTestLogger(t), observability.Noop())

	_, err := h.Execute(context.Background(), &Input{RecipientType: "admin"})
	assert.True(t, stderrors.Is(err, apperrors.ErrValidation))
}
