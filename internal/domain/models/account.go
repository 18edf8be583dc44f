// internal/domain/models/account.go
package models

// AccountDetail is one configured church bank account as listed by
// GET /api/account-details. These are read-only in this application.
type AccountDetail struct {
	ID            int    `json:"id"`
	AccountType   string `json:"account_type"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
	SortCode      string `json:"sort_code,omitempty"`
}

// Label is the display form used to identify the account in the
// payment form's account picker.
func (a AccountDetail) Label() string {
	return a.AccountName + " - " + a.AccountNumber
}
