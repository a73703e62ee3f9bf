package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request tracks one M-Pesa STK push attempt. A row exists only after the
// provider accepted initiation; the callback reconciler fills in the result.
type Request struct {
	ID                int64           `json:"id"`
	MerchantRequestID *string         `json:"merchant_request_id"`
	CheckoutRequestID string          `json:"checkout_request_id"`
	PhoneNumber       string          `json:"phone_number"`
	Amount            decimal.Decimal `json:"amount"`
	AccountReference  string          `json:"account_reference"`
	TransactionDesc   string          `json:"transaction_desc"`
	Status            Status          `json:"status"`
	ResultCode        *string         `json:"result_code"`
	ResultDesc        *string         `json:"result_desc"`
	MpesaReceipt      *string         `json:"mpesa_receipt_number"`
	TransactionDate   *time.Time      `json:"transaction_date"`
	DonationID        *int64          `json:"donation_id"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// ValidStatus reports whether s is one of the known payment statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the payment reached a final state.
func (r *Request) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed || r.Status == StatusCancelled
}

// IsSuccessful reports whether the payment completed with the provider's
// success result code.
func (r *Request) IsSuccessful() bool {
	return r.Status == StatusCompleted && r.ResultCode != nil && *r.ResultCode == "0"
}

// Result carries the outcome of one provider callback, already reduced to the
// fields the reconciler stores.
type Result struct {
	ResultCode      string
	ResultDesc      string
	MpesaReceipt    string     // empty when the prompt was not completed
	TransactionDate *time.Time // nil when the provider sent none
}

// Succeeded reports whether the provider result code means the payer paid.
func (res Result) Succeeded() bool { return res.ResultCode == "0" }

// ApplyResult records a provider result on the request. Code and description
// are stored unconditionally; receipt and transaction date only on success.
// The callback path and the admin override both go through here.
func (r *Request) ApplyResult(res Result) {
	code, desc := res.ResultCode, res.ResultDesc
	r.ResultCode = &code
	r.ResultDesc = &desc
	if res.Succeeded() {
		r.Status = StatusCompleted
		if res.MpesaReceipt != "" {
			receipt := res.MpesaReceipt
			r.MpesaReceipt = &receipt
		}
		if res.TransactionDate != nil {
			r.TransactionDate = res.TransactionDate
		}
	} else {
		r.Status = StatusFailed
	}
	r.UpdatedAt = time.Now()
}
