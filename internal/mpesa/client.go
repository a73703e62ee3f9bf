package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"chartitze/internal/config"
)

// Error is a typed failure talking to Daraja. Code distinguishes the auth
// exchange, the transport, and a business-level rejection by the provider.
type Error struct {
	Code    string
	Message string
	Cause   error
	Raw     []byte // provider response body, when there was one
}

const (
	ErrAuth      = "upstream_auth"
	ErrTransport = "upstream_transport"
	ErrRejected  = "provider_rejected"
)

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Client talks to the Daraja OAuth and STK push endpoints.
type Client struct {
	cfg  config.MpesaCfg
	http *http.Client
}

func New(cfg config.MpesaCfg) *Client {
	return &Client{cfg: cfg, http: &http.Client{Timeout: 10 * time.Second}}
}

// eat is the provider's clock; timestamps and transaction dates are EAT.
var eat = time.FixedZone("EAT", 3*3600)

// timestamp formats t as the 14-digit Daraja timestamp.
func timestamp(t time.Time) string {
	return t.In(eat).Format("20060102150405")
}

// password derives the STK push password: base64(shortcode + passkey + ts).
func password(shortcode, passkey, ts string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortcode + passkey + ts))
}

// AccessToken fetches a fresh bearer token via the Basic-auth exchange. Every
// push re-fetches; Daraja tokens are short-lived and the extra round trip is
// accepted.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	req, _ := http.NewRequestWithContext(ctx, "GET", c.cfg.AuthURL, nil)
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)

	res, err := c.http.Do(req)
	if err != nil {
		return "", &Error{Code: ErrAuth, Message: "token request failed", Cause: err}
	}
	defer res.Body.Close()
	if res.StatusCode != 200 {
		b, _ := io.ReadAll(res.Body)
		return "", &Error{Code: ErrAuth, Message: "auth failed: " + res.Status, Raw: b}
	}
	var t struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   string `json:"expires_in"`
	}
	if err := json.NewDecoder(res.Body).Decode(&t); err != nil {
		return "", &Error{Code: ErrAuth, Message: "bad token response", Cause: err}
	}
	if t.AccessToken == "" {
		return "", &Error{Code: ErrAuth, Message: "token response without access_token"}
	}
	return t.AccessToken, nil
}

// STKPushRequest carries the pre-validated inputs for one push. PhoneNumber
// must already be normalized (2547XXXXXXXX).
type STKPushRequest struct {
	PhoneNumber      string
	Amount           int64 // whole shillings; Daraja takes integers
	AccountReference string
	TransactionDesc  string
}

// STKPushResponse is the provider's acceptance of an initiation.
type STKPushResponse struct {
	MerchantRequestID   string
	CheckoutRequestID   string
	ResponseDescription string
	CustomerMessage     string
}

// STKPush initiates a push prompt on the payer's phone. A nil error means the
// provider accepted the request (ResponseCode 0); anything else is a typed
// Error the caller can map onto its failure taxonomy.
func (c *Client) STKPush(ctx context.Context, r STKPushRequest) (*STKPushResponse, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	ts := timestamp(time.Now())
	payload := map[string]any{
		"BusinessShortCode": c.cfg.Shortcode,
		"Password":          password(c.cfg.Shortcode, c.cfg.Passkey, ts),
		"Timestamp":         ts,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            r.Amount,
		"PartyA":            r.PhoneNumber,
		"PartyB":            c.cfg.Shortcode,
		"PhoneNumber":       r.PhoneNumber,
		"CallBackURL":       c.cfg.CallbackURL,
		"AccountReference":  r.AccountReference,
		"TransactionDesc":   r.TransactionDesc,
	}

	b, _ := json.Marshal(payload)
	req, _ := http.NewRequestWithContext(ctx, "POST", c.cfg.STKPushURL, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Code: ErrTransport, Message: "stk push request failed", Cause: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &Error{Code: ErrTransport, Message: "reading stk push response", Cause: err}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// Daraja rejections carry errorMessage in the body
		var e struct {
			ErrorMessage string `json:"errorMessage"`
		}
		_ = json.Unmarshal(body, &e)
		msg := e.ErrorMessage
		if msg == "" {
			msg = "stk push failed: " + res.Status
		}
		return nil, &Error{Code: ErrRejected, Message: msg, Raw: body}
	}

	var out struct {
		MerchantRequestID   string `json:"MerchantRequestID"`
		CheckoutRequestID   string `json:"CheckoutRequestID"`
		ResponseCode        any    `json:"ResponseCode"`
		ResponseDescription string `json:"ResponseDescription"`
		CustomerMessage     string `json:"CustomerMessage"`
		ErrorMessage        string `json:"errorMessage"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &Error{Code: ErrTransport, Message: "bad stk push response", Cause: err, Raw: body}
	}

	if !responseCodeOK(out.ResponseCode) {
		msg := out.ErrorMessage
		if msg == "" {
			msg = out.ResponseDescription
		}
		if msg == "" {
			msg = "provider declined the request"
		}
		return nil, &Error{Code: ErrRejected, Message: msg, Raw: body}
	}

	return &STKPushResponse{
		MerchantRequestID:   out.MerchantRequestID,
		CheckoutRequestID:   out.CheckoutRequestID,
		ResponseDescription: out.ResponseDescription,
		CustomerMessage:     out.CustomerMessage,
	}, nil
}

// responseCodeOK accepts the provider's success code whether it arrives as
// the string "0" or a bare number.
func responseCodeOK(v any) bool {
	switch c := v.(type) {
	case string:
		return c == "0"
	case float64:
		return c == 0
	case json.Number:
		return c.String() == "0"
	}
	return false
}
