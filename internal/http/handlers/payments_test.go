package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"chartitze/internal/domain/donation"
	"chartitze/internal/domain/payment"
	"chartitze/internal/mpesa"
	paymentsvc "chartitze/internal/services/payment"
	"chartitze/internal/store"
)

type memPayments struct {
	byCkt map[string]*payment.Request
}

func (m *memPayments) Create(ctx context.Context, req *payment.Request) error {
	req.ID = int64(len(m.byCkt) + 1)
	m.byCkt[req.CheckoutRequestID] = req
	return nil
}

func (m *memPayments) GetByCheckoutID(ctx context.Context, id string) (*payment.Request, error) {
	req, ok := m.byCkt[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return req, nil
}

func (m *memPayments) GetByDonationID(ctx context.Context, donationID int64) (*payment.Request, error) {
	for _, req := range m.byCkt {
		if req.DonationID != nil && *req.DonationID == donationID {
			return req, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memPayments) SaveResult(ctx context.Context, req *payment.Request) error { return nil }

type memDonations struct{}

func (memDonations) Get(ctx context.Context, id int64) (*donation.Donation, error) {
	return nil, store.ErrNotFound
}

func (memDonations) SetStatus(ctx context.Context, id int64, status donation.Status, transactionID string) error {
	return nil
}

type stubGateway struct {
	resp *mpesa.STKPushResponse
	err  error
}

func (g stubGateway) STKPush(ctx context.Context, req mpesa.STKPushRequest) (*mpesa.STKPushResponse, error) {
	return g.resp, g.err
}

func paymentRouter(svc *paymentsvc.Service) http.Handler {
	r := chi.NewRouter()
	r.Post("/payments/stk-push", InitiateSTKPush(svc))
	r.Post("/payments/callback", MpesaCallback(svc))
	r.Get("/payments/status/{checkout_id}", PaymentStatus(svc))
	return r
}

func decodeBody(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(res.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response %q: %v", res.Body.String(), err)
	}
	return out
}

func TestStkPushEndpoint(t *testing.T) {
	ps := &memPayments{byCkt: map[string]*payment.Request{}}
	svc := paymentsvc.NewService(ps, memDonations{}, stubGateway{
		resp: &mpesa.STKPushResponse{
			MerchantRequestID: "m1",
			CheckoutRequestID: "c1",
			CustomerMessage:   "Success. Request accepted for processing",
		},
	})
	h := paymentRouter(svc)

	req := httptest.NewRequest("POST", "/payments/stk-push",
		strings.NewReader(`{"phone_number":"0712345678","amount":100}`))
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", res.Code, res.Body.String())
	}
	out := decodeBody(t, res)
	if out["success"] != true {
		t.Fatalf("success = %v", out["success"])
	}
	if out["checkout_request_id"] != "c1" || out["merchant_request_id"] != "m1" {
		t.Fatalf("ids = %v / %v", out["checkout_request_id"], out["merchant_request_id"])
	}
}

func TestStkPushEndpointValidation(t *testing.T) {
	svc := paymentsvc.NewService(&memPayments{byCkt: map[string]*payment.Request{}}, memDonations{}, stubGateway{})
	h := paymentRouter(svc)

	req := httptest.NewRequest("POST", "/payments/stk-push",
		strings.NewReader(`{"phone_number":"712","amount":0}`))
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", res.Code)
	}
	out := decodeBody(t, res)
	if out["success"] != false {
		t.Fatalf("success = %v", out["success"])
	}
	if _, ok := out["errors"].(map[string]any); !ok {
		t.Fatalf("expected field errors, got %v", out)
	}
}

func TestStkPushEndpointRejection(t *testing.T) {
	svc := paymentsvc.NewService(&memPayments{byCkt: map[string]*payment.Request{}}, memDonations{},
		stubGateway{err: &mpesa.Error{Code: mpesa.ErrRejected, Message: "Invalid Amount"}})
	h := paymentRouter(svc)

	req := httptest.NewRequest("POST", "/payments/stk-push",
		strings.NewReader(`{"phone_number":"0712345678","amount":100}`))
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", res.Code)
	}
	out := decodeBody(t, res)
	if out["message"] != "Invalid Amount" {
		t.Fatalf("message = %v, want the provider message", out["message"])
	}
}

func TestStkPushEndpointAuthFailureHidesDetail(t *testing.T) {
	svc := paymentsvc.NewService(&memPayments{byCkt: map[string]*payment.Request{}}, memDonations{},
		stubGateway{err: &mpesa.Error{Code: mpesa.ErrAuth, Message: "auth failed: 401 Unauthorized"}})
	h := paymentRouter(svc)

	req := httptest.NewRequest("POST", "/payments/stk-push",
		strings.NewReader(`{"phone_number":"0712345678","amount":100}`))
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", res.Code)
	}
	out := decodeBody(t, res)
	if out["message"] != "Payment initiation failed. Please try again." {
		t.Fatalf("message = %v, internal detail must not leak", out["message"])
	}
}

func TestCallbackEndpointAlwaysAcks(t *testing.T) {
	ps := &memPayments{byCkt: map[string]*payment.Request{}}
	ps.byCkt["c1"] = &payment.Request{ID: 1, CheckoutRequestID: "c1", Status: payment.StatusPending, Amount: decimal.NewFromInt(100)}
	svc := paymentsvc.NewService(ps, memDonations{}, stubGateway{})
	h := paymentRouter(svc)

	cases := []struct {
		name     string
		body     string
		wantCode float64
	}{
		{"known checkout", `{"Body":{"stkCallback":{"CheckoutRequestID":"c1","ResultCode":0,"ResultDesc":"ok",
			"CallbackMetadata":{"Item":[{"Name":"MpesaReceiptNumber","Value":"ABC123"}]}}}}`, 0},
		{"unknown checkout", `{"Body":{"stkCallback":{"CheckoutRequestID":"ghost","ResultCode":0}}}`, 0},
		{"no checkout id", `{"Body":{"stkCallback":{"ResultCode":0,"ResultDesc":"ok"}}}`, 0},
		{"unparseable", `not json at all`, 1},
	}
	for _, c := range cases {
		req := httptest.NewRequest("POST", "/payments/callback", strings.NewReader(c.body))
		res := httptest.NewRecorder()
		h.ServeHTTP(res, req)

		if res.Code != http.StatusOK {
			t.Errorf("%s: http status = %d, want 200", c.name, res.Code)
			continue
		}
		out := decodeBody(t, res)
		if out["ResultCode"] != c.wantCode {
			t.Errorf("%s: ack ResultCode = %v, want %v", c.name, out["ResultCode"], c.wantCode)
		}
	}

	if ps.byCkt["c1"].Status != payment.StatusCompleted {
		t.Fatalf("payment status = %s, want completed", ps.byCkt["c1"].Status)
	}
}

func TestStatusEndpoint(t *testing.T) {
	ps := &memPayments{byCkt: map[string]*payment.Request{}}
	ps.byCkt["c1"] = &payment.Request{ID: 1, CheckoutRequestID: "c1", Status: payment.StatusPending, Amount: decimal.NewFromInt(100)}
	svc := paymentsvc.NewService(ps, memDonations{}, stubGateway{})
	h := paymentRouter(svc)

	req := httptest.NewRequest("GET", "/payments/status/c1", nil)
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d", res.Code)
	}
	out := decodeBody(t, res)
	pay, ok := out["payment"].(map[string]any)
	if !ok {
		t.Fatalf("payment missing in %v", out)
	}
	if pay["checkout_request_id"] != "c1" {
		t.Fatalf("checkout id = %v", pay["checkout_request_id"])
	}

	req = httptest.NewRequest("GET", "/payments/status/ghost", nil)
	res = httptest.NewRecorder()
	h.ServeHTTP(res, req)
	if res.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.Code)
	}
	out = decodeBody(t, res)
	if out["message"] != "Payment not found" {
		t.Fatalf("message = %v", out["message"])
	}
}
