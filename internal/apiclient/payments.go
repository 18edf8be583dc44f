// internal/apiclient/payments.go
package apiclient

import (
	"context"

	"github.com/chapelstack/chapelhub/internal/domain/models"
)

type paymentsEnvelope struct {
	Payments []models.Payment `json:"payments"`
}

// FetchPayments lists all payment records.
func (c *Client) FetchPayments(ctx context.Context, token string) ([]models.Payment, error) {
	var env paymentsEnvelope
	if err := c.getJSON(ctx, token, "/payments", "payments", &env); err != nil {
		return nil, err
	}
	return env.Payments, nil
}

// CreatePayment records a payment. The draft may embed an encoded
// receipt file in ReceiptData.
func (c *Client) CreatePayment(ctx context.Context, token string, draft models.PaymentDraft) error {
	return c.postJSON(ctx, token, "/payments", draft)
}

// PaymentsPDF fetches the binary PDF export of payment records.
func (c *Client) PaymentsPDF(ctx context.Context, token string) ([]byte, string, error) {
	return c.getBinary(ctx, token, "/payments/pdf", "payments export")
}
