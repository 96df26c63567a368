package payments

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Notification — вебхук-уведомление YooKassa.
type Notification struct {
	Type   string `json:"type"`
	Event  string `json:"event"`
	Object struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Amount struct {
			Value    string `json:"value"`
			Currency string `json:"currency"`
		} `json:"amount"`
		Metadata map[string]string `json:"metadata"`
	} `json:"object"`
}

// Succeeded — разобранная успешная оплата.
type Succeeded struct {
	UserID           int64
	PaymentID        string
	Amount           float64
	Currency         string
	SubscriptionType string
}

// ParseWebhook разбирает тело вебхука. (nil, nil) — событие не
// payment.succeeded, такие просто подтверждаем и игнорируем.
func ParseWebhook(body []byte) (*Succeeded, error) {
	var n Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("yookassa webhook: bad JSON: %w", err)
	}
	if n.Event != "payment.succeeded" || n.Object.Status != "succeeded" {
		return nil, nil
	}

	rawID := n.Object.Metadata["tg_user_id"]
	if rawID == "" {
		return nil, fmt.Errorf("yookassa webhook: no tg_user_id in metadata")
	}
	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("yookassa webhook: bad tg_user_id %q", rawID)
	}

	amount, _ := strconv.ParseFloat(n.Object.Amount.Value, 64)
	subType := n.Object.Metadata["subscription_type"]
	if subType == "" {
		subType = "monthly"
	}
	return &Succeeded{
		UserID:           userID,
		PaymentID:        n.Object.ID,
		Amount:           amount,
		Currency:         n.Object.Amount.Currency,
		SubscriptionType: subType,
	}, nil
}
