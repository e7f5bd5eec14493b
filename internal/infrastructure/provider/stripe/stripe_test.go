package stripe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/nursery-backend/internal/domain/provider"
)

func TestHandleWebhookRejectsUnverified(t *testing.T) {
	payload := []byte(`{"id":"evt_1","object":"event","type":"payment_intent.succeeded","data":{"object":{}}}`)

	t.Run("no webhook secret", func(t *testing.T) {
		p := NewStripeProvider("sk_test", "pk_test", "", zap.NewNop())

		event, err := p.HandleWebhook(context.Background(), payload, "t=1700000000,v1=deadbeef")
		assert.ErrorIs(t, err, provider.ErrSignatureMismatch)
		assert.Nil(t, event)
	})

	t.Run("bad signature", func(t *testing.T) {
		p := NewStripeProvider("sk_test", "pk_test", "whsec_test", zap.NewNop())

		event, err := p.HandleWebhook(context.Background(), payload, "t=1700000000,v1=deadbeef")
		assert.ErrorIs(t, err, provider.ErrSignatureMismatch)
		assert.Nil(t, event)
	})
}
