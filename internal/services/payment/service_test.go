package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"chartitze/internal/domain/donation"
	"chartitze/internal/domain/payment"
	"chartitze/internal/mpesa"
	"chartitze/internal/store"
)

type fakePaymentStore struct {
	created []*payment.Request
	saved   []*payment.Request
	byCkt   map[string]*payment.Request
	failOn  string // "create" or "save"
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{byCkt: map[string]*payment.Request{}}
}

func (f *fakePaymentStore) Create(ctx context.Context, req *payment.Request) error {
	switch f.failOn {
	case "create":
		return errors.New("db down")
	case "conflict":
		return store.ErrConflict
	}
	req.ID = int64(len(f.created) + 1)
	f.created = append(f.created, req)
	f.byCkt[req.CheckoutRequestID] = req
	return nil
}

func (f *fakePaymentStore) GetByCheckoutID(ctx context.Context, checkoutID string) (*payment.Request, error) {
	req, ok := f.byCkt[checkoutID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return req, nil
}

func (f *fakePaymentStore) GetByDonationID(ctx context.Context, donationID int64) (*payment.Request, error) {
	for _, req := range f.byCkt {
		if req.DonationID != nil && *req.DonationID == donationID {
			return req, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakePaymentStore) SaveResult(ctx context.Context, req *payment.Request) error {
	if f.failOn == "save" {
		return errors.New("db down")
	}
	f.saved = append(f.saved, req)
	return nil
}

type fakeDonationStore struct {
	donations map[int64]*donation.Donation
	statuses  []donation.Status
	receipts  []string
}

func newFakeDonationStore(ids ...int64) *fakeDonationStore {
	ds := &fakeDonationStore{donations: map[int64]*donation.Donation{}}
	for _, id := range ids {
		ds.donations[id] = &donation.Donation{ID: id, PaymentStatus: donation.StatusPending}
	}
	return ds
}

func (f *fakeDonationStore) Get(ctx context.Context, id int64) (*donation.Donation, error) {
	d, ok := f.donations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return d, nil
}

func (f *fakeDonationStore) SetStatus(ctx context.Context, id int64, status donation.Status, transactionID string) error {
	d, ok := f.donations[id]
	if !ok {
		return store.ErrNotFound
	}
	d.PaymentStatus = status
	f.statuses = append(f.statuses, status)
	f.receipts = append(f.receipts, transactionID)
	return nil
}

type fakeGateway struct {
	resp  *mpesa.STKPushResponse
	err   error
	calls int
}

func (f *fakeGateway) STKPush(ctx context.Context, req mpesa.STKPushRequest) (*mpesa.STKPushResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func acceptedGateway() *fakeGateway {
	return &fakeGateway{resp: &mpesa.STKPushResponse{
		MerchantRequestID: "29115-34620561-1",
		CheckoutRequestID: "ws_CO_191220191020363925",
		CustomerMessage:   "Success. Request accepted for processing",
	}}
}

func TestInitiateRecordsPendingPayment(t *testing.T) {
	ps := newFakePaymentStore()
	gw := acceptedGateway()
	svc := NewService(ps, newFakeDonationStore(), gw)

	out, err := svc.Initiate(context.Background(), InitiateInput{
		PhoneNumber: "0712345678",
		Amount:      decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if out.CheckoutRequestID != "ws_CO_191220191020363925" {
		t.Fatalf("checkout id = %q", out.CheckoutRequestID)
	}
	if out.MerchantRequestID != "29115-34620561-1" {
		t.Fatalf("merchant id = %q", out.MerchantRequestID)
	}

	if len(ps.created) != 1 {
		t.Fatalf("created %d rows, want 1", len(ps.created))
	}
	req := ps.created[0]
	if req.Status != payment.StatusPending {
		t.Fatalf("status = %s, want pending", req.Status)
	}
	if req.PhoneNumber != "254712345678" {
		t.Fatalf("phone = %q, want normalized", req.PhoneNumber)
	}
	if req.CheckoutRequestID != "ws_CO_191220191020363925" {
		t.Fatalf("stored checkout id = %q", req.CheckoutRequestID)
	}
	if req.MerchantRequestID == nil || *req.MerchantRequestID != "29115-34620561-1" {
		t.Fatal("stored merchant id does not match provider response")
	}
	if req.AccountReference != "Donation" || req.TransactionDesc != "Chartitze Donation" {
		t.Fatalf("defaults not applied: %q / %q", req.AccountReference, req.TransactionDesc)
	}
}

func TestInitiateValidationSkipsGateway(t *testing.T) {
	ps := newFakePaymentStore()
	gw := acceptedGateway()
	svc := NewService(ps, newFakeDonationStore(), gw)

	_, err := svc.Initiate(context.Background(), InitiateInput{
		PhoneNumber: "712345678",
		Amount:      decimal.Zero,
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := ve.Errors["phone_number"]; !ok {
		t.Error("expected phone_number error")
	}
	if _, ok := ve.Errors["amount"]; !ok {
		t.Error("expected amount error")
	}
	if gw.calls != 0 {
		t.Fatalf("gateway called %d times on invalid input", gw.calls)
	}
	if len(ps.created) != 0 {
		t.Fatal("payment row created on invalid input")
	}
}

func TestInitiateRejectionWritesNothing(t *testing.T) {
	ps := newFakePaymentStore()
	gw := &fakeGateway{err: &mpesa.Error{Code: mpesa.ErrRejected, Message: "Invalid Amount"}}
	svc := NewService(ps, newFakeDonationStore(), gw)

	_, err := svc.Initiate(context.Background(), InitiateInput{
		PhoneNumber: "0712345678",
		Amount:      decimal.NewFromInt(50),
	})
	var me *mpesa.Error
	if !errors.As(err, &me) || me.Code != mpesa.ErrRejected {
		t.Fatalf("expected rejection error, got %v", err)
	}
	if len(ps.created) != 0 {
		t.Fatal("payment row created despite provider rejection")
	}
}

func TestInitiateUnknownDonationUnlinked(t *testing.T) {
	ps := newFakePaymentStore()
	svc := NewService(ps, newFakeDonationStore(), acceptedGateway())

	missing := int64(99)
	_, err := svc.Initiate(context.Background(), InitiateInput{
		PhoneNumber: "0712345678",
		Amount:      decimal.NewFromInt(100),
		DonationID:  &missing,
	})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if ps.created[0].DonationID != nil {
		t.Fatal("unknown donation id should be dropped, not stored")
	}
}

func TestInitiateRejectsSecondPaymentForDonation(t *testing.T) {
	ps := newFakePaymentStore()
	gw := acceptedGateway()
	svc := NewService(ps, newFakeDonationStore(7), gw)

	id := int64(7)
	in := InitiateInput{
		PhoneNumber: "0712345678",
		Amount:      decimal.NewFromInt(100),
		DonationID:  &id,
	}
	if _, err := svc.Initiate(context.Background(), in); err != nil {
		t.Fatalf("first Initiate: %v", err)
	}

	_, err := svc.Initiate(context.Background(), in)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for a linked donation, got %v", err)
	}
	if _, ok := ve.Errors["donation_id"]; !ok {
		t.Fatalf("expected donation_id error, got %v", ve.Errors)
	}
	if gw.calls != 1 {
		t.Fatalf("gateway called %d times; the duplicate must be rejected before the push", gw.calls)
	}
	if len(ps.created) != 1 {
		t.Fatalf("created %d rows, want 1", len(ps.created))
	}
}

func TestInitiateCreateConflictBecomesValidationError(t *testing.T) {
	ps := newFakePaymentStore()
	ps.failOn = "conflict"
	svc := NewService(ps, newFakeDonationStore(7), acceptedGateway())

	id := int64(7)
	_, err := svc.Initiate(context.Background(), InitiateInput{
		PhoneNumber: "0712345678",
		Amount:      decimal.NewFromInt(100),
		DonationID:  &id,
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError on insert conflict, got %v", err)
	}
	if _, ok := ve.Errors["donation_id"]; !ok {
		t.Fatalf("expected donation_id error, got %v", ve.Errors)
	}
}

func seedPending(ps *fakePaymentStore, donationID *int64) *payment.Request {
	req := &payment.Request{
		ID:                1,
		CheckoutRequestID: "ws_CO_191220191020363925",
		PhoneNumber:       "254712345678",
		Amount:            decimal.NewFromInt(100),
		Status:            payment.StatusPending,
		DonationID:        donationID,
	}
	ps.byCkt[req.CheckoutRequestID] = req
	return req
}

func TestCallbackSuccessCompletesPaymentAndDonation(t *testing.T) {
	ps := newFakePaymentStore()
	ds := newFakeDonationStore(7)
	id := int64(7)
	req := seedPending(ps, &id)
	svc := NewService(ps, ds, acceptedGateway())

	when := time.Date(2019, 12, 19, 10, 21, 15, 0, time.FixedZone("EAT", 3*3600))
	err := svc.HandleCallback(context.Background(), &mpesa.Callback{
		CheckoutRequestID: req.CheckoutRequestID,
		ResultCode:        0,
		ResultDesc:        "The service request is processed successfully.",
		Metadata: mpesa.Metadata{
			"MpesaReceiptNumber": "ABC123",
			"TransactionDate":    "20191219102115",
		},
	})
	if err != nil {
		t.Fatalf("HandleCallback: %v", err)
	}

	if req.Status != payment.StatusCompleted {
		t.Fatalf("status = %s, want completed", req.Status)
	}
	if req.MpesaReceipt == nil || *req.MpesaReceipt != "ABC123" {
		t.Fatal("receipt not recorded")
	}
	if req.TransactionDate == nil || !req.TransactionDate.Equal(when) {
		t.Fatalf("transaction date = %v, want %v", req.TransactionDate, when)
	}
	if len(ps.saved) != 1 {
		t.Fatalf("saved %d times, want 1", len(ps.saved))
	}

	if ds.donations[7].PaymentStatus != donation.StatusCompleted {
		t.Fatalf("donation status = %s, want completed", ds.donations[7].PaymentStatus)
	}
	if len(ds.receipts) != 1 || ds.receipts[0] != "ABC123" {
		t.Fatalf("donation transaction id = %v", ds.receipts)
	}
}

func TestCallbackFailureMarksFailed(t *testing.T) {
	ps := newFakePaymentStore()
	ds := newFakeDonationStore(7)
	id := int64(7)
	req := seedPending(ps, &id)
	svc := NewService(ps, ds, acceptedGateway())

	err := svc.HandleCallback(context.Background(), &mpesa.Callback{
		CheckoutRequestID: req.CheckoutRequestID,
		ResultCode:        1032,
		ResultDesc:        "Request cancelled by user.",
	})
	if err != nil {
		t.Fatalf("HandleCallback: %v", err)
	}
	if req.Status != payment.StatusFailed {
		t.Fatalf("status = %s, want failed", req.Status)
	}
	if req.ResultCode == nil || *req.ResultCode != "1032" {
		t.Fatal("result code not recorded")
	}
	if req.MpesaReceipt != nil {
		t.Fatal("receipt recorded for a failed push")
	}
	if ds.donations[7].PaymentStatus != donation.StatusFailed {
		t.Fatalf("donation status = %s, want failed", ds.donations[7].PaymentStatus)
	}
}

func TestCallbackUnknownCheckout(t *testing.T) {
	ps := newFakePaymentStore()
	svc := NewService(ps, newFakeDonationStore(), acceptedGateway())

	err := svc.HandleCallback(context.Background(), &mpesa.Callback{
		CheckoutRequestID: "ws_CO_unknown",
		ResultCode:        0,
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(ps.created) != 0 || len(ps.saved) != 0 {
		t.Fatal("unknown callback must not write anything")
	}
}

func TestStatusNotFound(t *testing.T) {
	svc := NewService(newFakePaymentStore(), newFakeDonationStore(), acceptedGateway())
	_, err := svc.Status(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOverrideCompleted(t *testing.T) {
	ps := newFakePaymentStore()
	ds := newFakeDonationStore(7)
	id := int64(7)
	req := seedPending(ps, &id)
	svc := NewService(ps, ds, acceptedGateway())

	if err := svc.Override(context.Background(), req.CheckoutRequestID, payment.StatusCompleted); err != nil {
		t.Fatalf("Override: %v", err)
	}
	if req.Status != payment.StatusCompleted {
		t.Fatalf("status = %s, want completed", req.Status)
	}
	if req.ResultCode == nil || *req.ResultCode != "0" {
		t.Fatal("override should record the success result code")
	}
	if ds.donations[7].PaymentStatus != donation.StatusCompleted {
		t.Fatal("override should run the donation transition too")
	}
}

func TestOverrideCancelled(t *testing.T) {
	ps := newFakePaymentStore()
	req := seedPending(ps, nil)
	svc := NewService(ps, newFakeDonationStore(), acceptedGateway())

	if err := svc.Override(context.Background(), req.CheckoutRequestID, payment.StatusCancelled); err != nil {
		t.Fatalf("Override: %v", err)
	}
	if req.Status != payment.StatusCancelled {
		t.Fatalf("status = %s, want cancelled", req.Status)
	}
}

func TestOverrideInvalidStatus(t *testing.T) {
	svc := NewService(newFakePaymentStore(), newFakeDonationStore(), acceptedGateway())
	err := svc.Override(context.Background(), "x", payment.StatusPending)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
