package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const apiURL = "https://api.yookassa.ru/v3/payments"

// Условия месячной подписки.
const (
	SubscriptionDays     = 30
	SubscriptionAnalyses = 2
	SubscriptionMessages = 200
)

// Client — клиент YooKassa API (создание платежей).
type Client struct {
	ShopID    string
	SecretKey string
	Price     int
	Currency  string
	httpc     *http.Client
}

func New(shopID, secretKey string, price int, currency string) *Client {
	return &Client{
		ShopID:    shopID,
		SecretKey: secretKey,
		Price:     price,
		Currency:  currency,
		httpc:     &http.Client{Timeout: 30 * time.Second},
	}
}

// CreatePaymentURL создаёт платёж и возвращает URL подтверждения,
// на который отправляем пользователя. Idempotence-Key — uuid на каждый вызов.
func (c *Client) CreatePaymentURL(ctx context.Context, userID int64, returnURL string) (string, error) {
	if c.ShopID == "" || c.SecretKey == "" {
		return "", fmt.Errorf("YOOKASSA_SHOP_ID/YOOKASSA_SECRET_KEY not set")
	}

	amount := map[string]string{
		"value":    strconv.Itoa(c.Price) + ".00",
		"currency": c.Currency,
	}
	body := map[string]any{
		"amount": amount,
		"confirmation": map[string]string{
			"type":       "redirect",
			"return_url": returnURL,
		},
		"capture":     true,
		"description": fmt.Sprintf("Подписка на бота ND | Lookism для пользователя %d", userID),
		"metadata": map[string]string{
			"tg_user_id":        strconv.FormatInt(userID, 10),
			"subscription_type": "monthly",
		},
		"receipt": map[string]any{
			"customer": map[string]string{
				"email": fmt.Sprintf("user_%d@placeholder.com", userID),
			},
			"items": []any{
				map[string]any{
					"description": "Подписка на ND | Lookism (1 месяц)",
					"quantity":    "1.00",
					"amount":      amount,
					"vat_code":    "1", // без НДС
				},
			},
		},
	}
	payload, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotence-Key", uuid.NewString())
	req.SetBasicAuth(c.ShopID, c.SecretKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("yookassa create: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		x, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("yookassa create %d: %s", resp.StatusCode, strings.TrimSpace(string(x)))
	}

	var out struct {
		ID           string `json:"id"`
		Confirmation struct {
			ConfirmationURL string `json:"confirmation_url"`
		} `json:"confirmation"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Confirmation.ConfirmationURL == "" {
		return "", fmt.Errorf("yookassa create: no confirmation_url in response")
	}
	return out.Confirmation.ConfirmationURL, nil
}
