package mpesa

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNoCheckoutID marks a well-formed callback that carries no
// CheckoutRequestID. There is nothing to reconcile it against.
var ErrNoCheckoutID = errors.New("callback has no CheckoutRequestID")

// Callback is the reduced form of a Daraja STK callback.
type Callback struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	Metadata          Metadata
}

// Metadata is the CallbackMetadata.Item list flattened into a name→value
// lookup. Values keep the loose typing the provider sends (strings and
// json.Number); missing names are simply absent.
type Metadata map[string]any

// String returns the named item rendered as a string, or "" when absent.
func (m Metadata) String(name string) string {
	switch v := m[name].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return ""
}

// TransactionDate parses the provider-format (YYYYMMDDHHMMSS, EAT) item of
// the given name. Returns nil when absent or malformed.
func (m Metadata) TransactionDate(name string) *time.Time {
	raw := m.String(name)
	if raw == "" {
		return nil
	}
	t, err := time.ParseInLocation("20060102150405", raw, eat)
	if err != nil {
		return nil
	}
	return &t
}

// ParseCallback decodes the nested Body.stkCallback envelope. Payloads
// without a CheckoutRequestID are rejected with ErrNoCheckoutID.
func ParseCallback(body []byte) (*Callback, error) {
	var env struct {
		Body struct {
			StkCallback struct {
				MerchantRequestID string `json:"MerchantRequestID"`
				CheckoutRequestID string `json:"CheckoutRequestID"`
				ResultCode        int    `json:"ResultCode"`
				ResultDesc        string `json:"ResultDesc"`
				CallbackMetadata  struct {
					Item []struct {
						Name  string `json:"Name"`
						Value any    `json:"Value"`
					} `json:"Item"`
				} `json:"CallbackMetadata"`
			} `json:"stkCallback"`
		} `json:"Body"`
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("bad callback json: %w", err)
	}
	cb := env.Body.StkCallback
	if cb.CheckoutRequestID == "" {
		return nil, ErrNoCheckoutID
	}

	meta := make(Metadata, len(cb.CallbackMetadata.Item))
	for _, it := range cb.CallbackMetadata.Item {
		if it.Name != "" {
			meta[it.Name] = it.Value
		}
	}

	return &Callback{
		MerchantRequestID: cb.MerchantRequestID,
		CheckoutRequestID: cb.CheckoutRequestID,
		ResultCode:        cb.ResultCode,
		ResultDesc:        cb.ResultDesc,
		Metadata:          meta,
	}, nil
}

// Ack is the body Daraja expects back from a callback delivery.
type Ack struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

var (
	AckAccepted = Ack{ResultCode: 0, ResultDesc: "Accepted"}
	AckFailed   = Ack{ResultCode: 1, ResultDesc: "Failed"}
)
