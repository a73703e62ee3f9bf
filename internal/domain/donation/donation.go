package donation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput marks validation failures on donor-supplied fields.
var ErrInvalidInput = errors.New("invalid donation")

// Donation records a single pledge, whatever channel pays for it.
type Donation struct {
	ID            int64           `json:"id"`
	DonorName     string          `json:"donor_name"`
	DonorEmail    string          `json:"donor_email"`
	DonorPhone    *string         `json:"donor_phone"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Type          Type            `json:"donation_type"`
	PaymentMethod Method          `json:"payment_method"`
	PaymentStatus Status          `json:"payment_status"`
	TransactionID *string         `json:"transaction_id"`
	Dedication    *string         `json:"dedication"`
	ProgramID     *int64          `json:"program_id"`
	IsAnonymous   bool            `json:"is_anonymous"`
	Notes         *string         `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

type Type string

const (
	TypeOneTime   Type = "one_time"
	TypeMonthly   Type = "monthly"
	TypeQuarterly Type = "quarterly"
	TypeYearly    Type = "yearly"
)

type Method string

const (
	MethodCreditCard   Method = "credit_card"
	MethodPayPal       Method = "paypal"
	MethodBankTransfer Method = "bank_transfer"
	MethodMobileMoney  Method = "mobile_money"
)

// New builds a pending donation with validation.
func New(donorName, donorEmail string, amount decimal.Decimal, dtype Type, method Method) (*Donation, error) {
	donorName = strings.TrimSpace(donorName)
	donorEmail = strings.TrimSpace(donorEmail)
	if donorName == "" {
		return nil, fmt.Errorf("%w: donor name is required", ErrInvalidInput)
	}
	if donorEmail == "" || !strings.Contains(donorEmail, "@") {
		return nil, fmt.Errorf("%w: a valid donor email is required", ErrInvalidInput)
	}
	if amount.LessThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: amount must be at least 1", ErrInvalidInput)
	}
	if dtype == "" {
		dtype = TypeOneTime
	}
	if !validType(dtype) {
		return nil, fmt.Errorf("%w: unknown donation type %q", ErrInvalidInput, dtype)
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, method)
	}
	now := time.Now()
	return &Donation{
		DonorName:     donorName,
		DonorEmail:    donorEmail,
		Amount:        amount,
		Currency:      "KES",
		Type:          dtype,
		PaymentMethod: method,
		PaymentStatus: StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// MarkCompleted transitions the donation to completed, optionally recording
// the upstream transaction reference.
func (d *Donation) MarkCompleted(transactionID string) {
	d.PaymentStatus = StatusCompleted
	if transactionID != "" {
		d.TransactionID = &transactionID
	}
	d.UpdatedAt = time.Now()
}

// MarkFailed transitions the donation to failed.
func (d *Donation) MarkFailed() {
	d.PaymentStatus = StatusFailed
	d.UpdatedAt = time.Now()
}

// ValidStatus reports whether s is a known donation payment status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

func validType(t Type) bool {
	switch t {
	case TypeOneTime, TypeMonthly, TypeQuarterly, TypeYearly:
		return true
	}
	return false
}

func validMethod(m Method) bool {
	switch m {
	case MethodCreditCard, MethodPayPal, MethodBankTransfer, MethodMobileMoney:
		return true
	}
	return false
}
