package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"chartitze/internal/domain/donation"
	"chartitze/internal/domain/payment"
	"chartitze/internal/metrics"
	"chartitze/internal/mpesa"
	"chartitze/internal/store"
)

// Store persists payment requests. Implementations return store.ErrNotFound
// for unknown checkout ids.
type Store interface {
	Create(ctx context.Context, req *payment.Request) error
	GetByCheckoutID(ctx context.Context, checkoutID string) (*payment.Request, error)
	GetByDonationID(ctx context.Context, donationID int64) (*payment.Request, error)
	SaveResult(ctx context.Context, req *payment.Request) error
}

// DonationStore is the slice of donation storage the reconciler needs.
type DonationStore interface {
	Get(ctx context.Context, id int64) (*donation.Donation, error)
	SetStatus(ctx context.Context, id int64, status donation.Status, transactionID string) error
}

// Gateway initiates pushes against the provider.
type Gateway interface {
	STKPush(ctx context.Context, req mpesa.STKPushRequest) (*mpesa.STKPushResponse, error)
}

// ValidationError rejects bad input before any network call.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	for f, msg := range e.Errors {
		return fmt.Sprintf("validation failed: %s: %s", f, msg)
	}
	return "validation failed"
}

// Service drives the STK push lifecycle: initiation, callback reconciliation,
// status queries and the admin override.
type Service struct {
	payments  Store
	donations DonationStore
	gateway   Gateway
}

func NewService(payments Store, donations DonationStore, gateway Gateway) *Service {
	return &Service{payments: payments, donations: donations, gateway: gateway}
}

const (
	defaultAccountRef      = "Donation"
	defaultTransactionDesc = "Chartitze Donation"
)

type InitiateInput struct {
	PhoneNumber      string
	Amount           decimal.Decimal
	DonationID       *int64
	AccountReference string
	TransactionDesc  string
}

type InitiateResult struct {
	Message           string
	CheckoutRequestID string
	MerchantRequestID string
	PaymentID         int64
}

// Initiate validates the input, asks the provider to push the prompt and, only
// when the provider accepted, records the pending payment. No row is written
// on any failure path.
func (s *Service) Initiate(ctx context.Context, in InitiateInput) (*InitiateResult, error) {
	errs := map[string]string{}
	phone, err := mpesa.NormalizePhone(in.PhoneNumber)
	if err != nil {
		errs["phone_number"] = err.Error()
	}
	if in.Amount.LessThan(decimal.NewFromInt(1)) {
		errs["amount"] = "amount must be at least 1"
	}
	if len(errs) > 0 {
		metrics.STKPushes.WithLabelValues("validation").Inc()
		return nil, &ValidationError{Errors: errs}
	}

	// Resolve the optional donation link before touching the provider. An
	// unknown id is silently dropped; a donation that already carries a
	// payment is rejected so no prompt is pushed for it.
	donationID := in.DonationID
	if donationID != nil {
		if _, err := s.donations.Get(ctx, *donationID); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				log.Warn().Err(err).Int64("donation_id", *donationID).
					Msg("donation lookup failed; recording payment unlinked")
			}
			donationID = nil
		} else if _, err := s.payments.GetByDonationID(ctx, *donationID); err == nil {
			metrics.STKPushes.WithLabelValues("validation").Inc()
			return nil, &ValidationError{Errors: map[string]string{
				"donation_id": "donation already has a payment",
			}}
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("checking for existing payment: %w", err)
		}
	}

	accountRef := in.AccountReference
	if accountRef == "" {
		accountRef = defaultAccountRef
	}
	desc := in.TransactionDesc
	if desc == "" {
		desc = defaultTransactionDesc
	}

	resp, err := s.gateway.STKPush(ctx, mpesa.STKPushRequest{
		PhoneNumber:      phone,
		Amount:           in.Amount.IntPart(), // Daraja takes whole shillings
		AccountReference: accountRef,
		TransactionDesc:  desc,
	})
	if err != nil {
		var me *mpesa.Error
		if errors.As(err, &me) {
			metrics.STKPushes.WithLabelValues(outcomeFor(me.Code)).Inc()
		} else {
			metrics.STKPushes.WithLabelValues("transport").Inc()
		}
		return nil, err
	}

	req := &payment.Request{
		CheckoutRequestID: resp.CheckoutRequestID,
		PhoneNumber:       phone,
		Amount:            in.Amount,
		AccountReference:  accountRef,
		TransactionDesc:   desc,
		Status:            payment.StatusPending,
		DonationID:        donationID,
	}
	if resp.MerchantRequestID != "" {
		mid := resp.MerchantRequestID
		req.MerchantRequestID = &mid
	}

	// The provider already accepted; if persisting fails, the whole call
	// fails so the client never sees a checkout id we cannot reconcile.
	if err := s.payments.Create(ctx, req); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// Lost a race for the donation's single payment slot.
			metrics.STKPushes.WithLabelValues("validation").Inc()
			return nil, &ValidationError{Errors: map[string]string{
				"donation_id": "donation already has a payment",
			}}
		}
		metrics.STKPushes.WithLabelValues("storage").Inc()
		return nil, fmt.Errorf("persisting pending payment: %w", err)
	}
	metrics.STKPushes.WithLabelValues("ok").Inc()

	msg := resp.CustomerMessage
	if msg == "" {
		msg = "STK Push sent successfully"
	}
	return &InitiateResult{
		Message:           msg,
		CheckoutRequestID: resp.CheckoutRequestID,
		MerchantRequestID: resp.MerchantRequestID,
		PaymentID:         req.ID,
	}, nil
}

// HandleCallback reconciles one provider callback with its pending payment.
// store.ErrNotFound means the checkout id is unknown; the HTTP layer still
// acknowledges those so the provider does not retry.
func (s *Service) HandleCallback(ctx context.Context, cb *mpesa.Callback) error {
	req, err := s.payments.GetByCheckoutID(ctx, cb.CheckoutRequestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.Callbacks.WithLabelValues("unknown").Inc()
			log.Warn().Str("checkout_request_id", cb.CheckoutRequestID).
				Msg("callback for unknown payment; acknowledging and dropping")
		}
		return err
	}

	res := payment.Result{
		ResultCode:      strconv.Itoa(cb.ResultCode),
		ResultDesc:      cb.ResultDesc,
		MpesaReceipt:    cb.Metadata.String("MpesaReceiptNumber"),
		TransactionDate: cb.Metadata.TransactionDate("TransactionDate"),
	}
	if err := s.applyResult(ctx, req, res); err != nil {
		metrics.Callbacks.WithLabelValues("error").Inc()
		return err
	}
	if res.Succeeded() {
		metrics.Callbacks.WithLabelValues("completed").Inc()
	} else {
		metrics.Callbacks.WithLabelValues("failed").Inc()
	}
	log.Info().
		Str("checkout_request_id", req.CheckoutRequestID).
		Str("status", string(req.Status)).
		Msg("payment reconciled")
	return nil
}

// applyResult is the single status-transition path; the callback reconciler
// and the admin override both land here.
func (s *Service) applyResult(ctx context.Context, req *payment.Request, res payment.Result) error {
	req.ApplyResult(res)
	if err := s.payments.SaveResult(ctx, req); err != nil {
		return fmt.Errorf("saving payment result: %w", err)
	}
	if req.DonationID == nil {
		return nil
	}
	if res.Succeeded() {
		return s.donations.SetStatus(ctx, *req.DonationID, donation.StatusCompleted, res.MpesaReceipt)
	}
	return s.donations.SetStatus(ctx, *req.DonationID, donation.StatusFailed, "")
}

// Status returns the full payment record for a checkout id.
func (s *Service) Status(ctx context.Context, checkoutID string) (*payment.Request, error) {
	return s.payments.GetByCheckoutID(ctx, checkoutID)
}

// Override lets an administrator force a payment to completed, failed or
// cancelled. It reuses the callback transition path rather than writing the
// status directly.
func (s *Service) Override(ctx context.Context, checkoutID string, status payment.Status) error {
	switch status {
	case payment.StatusCompleted, payment.StatusFailed, payment.StatusCancelled:
	default:
		return &ValidationError{Errors: map[string]string{"status": "must be completed, failed or cancelled"}}
	}

	req, err := s.payments.GetByCheckoutID(ctx, checkoutID)
	if err != nil {
		return err
	}

	res := payment.Result{ResultCode: "1", ResultDesc: "Marked " + string(status) + " by administrator"}
	if status == payment.StatusCompleted {
		res.ResultCode = "0"
		res.ResultDesc = "Marked completed by administrator"
	}
	if err := s.applyResult(ctx, req, res); err != nil {
		return err
	}
	if status == payment.StatusCancelled {
		req.Status = payment.StatusCancelled
		if err := s.payments.SaveResult(ctx, req); err != nil {
			return fmt.Errorf("saving cancelled status: %w", err)
		}
	}
	return nil
}

func outcomeFor(code string) string {
	switch code {
	case mpesa.ErrAuth:
		return "auth"
	case mpesa.ErrRejected:
		return "rejected"
	default:
		return "transport"
	}
}
