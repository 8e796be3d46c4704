package messaging

import (
	"testing"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutingKey(t *testing.T) {
	inApp, err := notification.NewNotification(uuid.New(), notification.ChannelInApp, notification.CategoryOrder, "s", "b")
	require.NoError(t, err)
	assert.Equal(t, "notification.inapp.order", routingKey(inApp))

	email, err := notification.NewNotification(uuid.New(), notification.ChannelEmail, notification.CategoryBilling, "s", "b")
	require.NoError(t, err)
	assert.Equal(t, "notification.email.billing", routingKey(email))
}

func TestNopPublisher(t *testing.T) {
	p := NewNopPublisher()

	n, err := notification.NewNotification(uuid.New(), notification.ChannelInApp, notification.CategoryShare, "s", "b")
	require.NoError(t, err)

	assert.NoError(t, p.PublishNotification(t.Context(), n))
	assert.NoError(t, p.Close())
}
