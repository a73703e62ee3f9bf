package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"chartitze/internal/domain/payment"
	"chartitze/internal/metrics"
	"chartitze/internal/mpesa"
	paymentsvc "chartitze/internal/services/payment"
	"chartitze/internal/store"
)

type stkPushReq struct {
	PhoneNumber      string          `json:"phone_number"`
	Amount           decimal.Decimal `json:"amount"`
	DonationID       *int64          `json:"donation_id,omitempty"`
	AccountReference string          `json:"account_reference,omitempty"`
	TransactionDesc  string          `json:"transaction_desc,omitempty"`
}

func InitiateSTKPush(svc *paymentsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in stkPushReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		// Bounded context: token fetch plus push, each capped at 10s in
		// the client, must not hold the request open longer than this.
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		out, err := svc.Initiate(ctx, paymentsvc.InitiateInput{
			PhoneNumber:      in.PhoneNumber,
			Amount:           in.Amount,
			DonationID:       in.DonationID,
			AccountReference: in.AccountReference,
			TransactionDesc:  in.TransactionDesc,
		})
		if err != nil {
			var ve *paymentsvc.ValidationError
			if errors.As(err, &ve) {
				writeFieldErrors(w, ve.Errors)
				return
			}
			var me *mpesa.Error
			if errors.As(err, &me) {
				log.Error().Err(me.Cause).
					Str("code", me.Code).
					Str("phone", in.PhoneNumber).
					Str("raw", string(me.Raw)).
					Msg("STK push failed")
				if me.Code == mpesa.ErrRejected && me.Message != "" {
					writeError(w, http.StatusBadRequest, me.Message)
					return
				}
				writeError(w, http.StatusBadRequest, "Payment initiation failed. Please try again.")
				return
			}
			log.Error().Err(err).Msg("STK push persistence failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":             true,
			"message":             out.Message,
			"checkout_request_id": out.CheckoutRequestID,
			"merchant_request_id": out.MerchantRequestID,
			"payment_id":          out.PaymentID,
		})
	}
}

// MpesaCallback receives Daraja result callbacks. It always answers 200 with a
// provider acknowledgement; a non-200 here would only cause Daraja to retry a
// callback we cannot do anything more with.
func MpesaCallback(svc *paymentsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			writeJSON(w, http.StatusOK, mpesa.AckFailed)
			return
		}

		cb, err := mpesa.ParseCallback(body)
		if err != nil {
			if errors.Is(err, mpesa.ErrNoCheckoutID) {
				// Nothing to reconcile; acknowledge so Daraja stops retrying.
				metrics.Callbacks.WithLabelValues("unknown").Inc()
				log.Warn().Str("body", string(body)).Msg("M-Pesa callback without checkout id")
				writeJSON(w, http.StatusOK, mpesa.AckAccepted)
				return
			}
			metrics.Callbacks.WithLabelValues("invalid").Inc()
			log.Warn().Err(err).Str("body", string(body)).Msg("unparseable M-Pesa callback")
			writeJSON(w, http.StatusOK, mpesa.AckFailed)
			return
		}

		if err := svc.HandleCallback(r.Context(), cb); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Unknown checkout id: acknowledge so Daraja stops retrying.
				writeJSON(w, http.StatusOK, mpesa.AckAccepted)
				return
			}
			log.Error().Err(err).
				Str("checkout_request_id", cb.CheckoutRequestID).
				Msg("callback reconciliation failed")
			writeJSON(w, http.StatusOK, mpesa.AckFailed)
			return
		}
		writeJSON(w, http.StatusOK, mpesa.AckAccepted)
	}
}

func PaymentStatus(svc *paymentsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checkoutID := chi.URLParam(r, "checkout_id")
		req, err := svc.Status(r.Context(), checkoutID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Payment not found")
				return
			}
			log.Error().Err(err).Str("checkout_request_id", checkoutID).Msg("payment status lookup failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "payment": req})
	}
}

type overrideReq struct {
	Status payment.Status `json:"status"`
}

func OverridePayment(svc *paymentsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checkoutID := chi.URLParam(r, "checkout_id")
		var in overrideReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		if err := svc.Override(r.Context(), checkoutID, in.Status); err != nil {
			var ve *paymentsvc.ValidationError
			if errors.As(err, &ve) {
				writeFieldErrors(w, ve.Errors)
				return
			}
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Payment not found")
				return
			}
			log.Error().Err(err).Str("checkout_request_id", checkoutID).Msg("payment override failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		req, err := svc.Status(r.Context(), checkoutID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "payment": req})
	}
}
