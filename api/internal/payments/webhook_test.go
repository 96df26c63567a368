package payments

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseWebhook_Succeeded(t *testing.T) {
	body := []byte(`{
		"type": "notification",
		"event": "payment.succeeded",
		"object": {
			"id": "2d9b1f9a-000f-5000-8000-1b5d9e7a1c2f",
			"status": "succeeded",
			"amount": {"value": "999.00", "currency": "RUB"},
			"metadata": {"tg_user_id": "123456789", "subscription_type": "monthly"}
		}
	}`)

	paid, err := ParseWebhook(body)
	require.NoError(t, err)
	require.NotNil(t, paid)
	require.Equal(t, int64(123456789), paid.UserID)
	require.Equal(t, "2d9b1f9a-000f-5000-8000-1b5d9e7a1c2f", paid.PaymentID)
	require.Equal(t, 999.0, paid.Amount)
	require.Equal(t, "RUB", paid.Currency)
	require.Equal(t, "monthly", paid.SubscriptionType)
}

func TestParseWebhook_OtherEventIgnored(t *testing.T) {
	body := []byte(`{
		"event": "payment.canceled",
		"object": {"id": "x", "status": "canceled", "metadata": {"tg_user_id": "1"}}
	}`)

	paid, err := ParseWebhook(body)
	require.NoError(t, err)
	require.Nil(t, paid)
}

func TestParseWebhook_PendingStatusIgnored(t *testing.T) {
	// event правильный, но объект ещё не succeeded — не начисляем
	body := []byte(`{
		"event": "payment.succeeded",
		"object": {"id": "x", "status": "pending", "metadata": {"tg_user_id": "1"}}
	}`)

	paid, err := ParseWebhook(body)
	require.NoError(t, err)
	require.Nil(t, paid)
}

func TestParseWebhook_MissingUserID(t *testing.T) {
	body := []byte(`{
		"event": "payment.succeeded",
		"object": {"id": "x", "status": "succeeded", "metadata": {}}
	}`)

	_, err := ParseWebhook(body)
	require.Error(t, err)
	require.Contains(t, err.Error(), "tg_user_id")
}

func TestParseWebhook_BadJSON(t *testing.T) {
	_, err := ParseWebhook([]byte("{not json"))
	require.Error(t, err)
}
