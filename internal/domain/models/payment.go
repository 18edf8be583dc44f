// internal/domain/models/payment.go
package models

// PaymentTypes are the accepted values for a payment's type field.
var PaymentTypes = []string{"tithe", "offering", "building_fund", "generator_fund", "other"}

var paymentTypeLabels = map[string]string{
	"tithe":          "Tithe",
	"offering":       "Offering",
	"building_fund":  "Building Fund",
	"generator_fund": "Generator Fund",
	"other":          "Other",
}

// PaymentTypeDisplay returns the human-readable label for a payment
// type, or the raw value if it is not one of the known types.
func PaymentTypeDisplay(t string) string {
	if label, ok := paymentTypeLabels[t]; ok {
		return label
	}
	return t
}

// Payment is one payment record as listed by GET /api/payments.
type Payment struct {
	ID             int     `json:"id"`
	Date           string  `json:"date"`
	PaymentType    string  `json:"payment_type"`
	Amount         float64 `json:"amount"`
	Description    string  `json:"description,omitempty"`
	AccountDetails string  `json:"account_details,omitempty"`
	ReceiptPath    string  `json:"receipt_path,omitempty"`
}

// PaymentDraft holds the uncommitted "Record Payment" form state.
// ReceiptData is the embeddable data-URL encoding of the uploaded
// receipt file, produced server-side from the multipart upload.
type PaymentDraft struct {
	Date            string `json:"date" validate:"required"`
	PaymentType     string `json:"payment_type" validate:"required,oneof=tithe offering building_fund generator_fund other"`
	Amount          string `json:"amount" validate:"required"`
	Description     string `json:"description"`
	AccountDetails  string `json:"account_details"`
	ReceiptData     string `json:"receipt_data,omitempty"`
	ReceiptFilename string `json:"receipt_filename,omitempty"`
}

// DefaultPaymentDraft returns the documented default shape of the
// payment form.
func DefaultPaymentDraft() PaymentDraft {
	return PaymentDraft{PaymentType: "tithe"}
}
