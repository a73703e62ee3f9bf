package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"chartitze/internal/domain/donation"
	donationsvc "chartitze/internal/services/donation"
	"chartitze/internal/store"
)

type createDonationReq struct {
	DonorName   string          `json:"donor_name"`
	DonorEmail  string          `json:"donor_email"`
	DonorPhone  string          `json:"donor_phone,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Type        donation.Type   `json:"donation_type"`
	Method      donation.Method `json:"payment_method"`
	Dedication  string          `json:"dedication,omitempty"`
	ProgramID   *int64          `json:"program_id,omitempty"`
	IsAnonymous bool            `json:"is_anonymous,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

func CreateDonation(svc *donationsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in createDonationReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		d, err := svc.Create(r.Context(), donationsvc.CreateInput{
			DonorName:   in.DonorName,
			DonorEmail:  in.DonorEmail,
			DonorPhone:  in.DonorPhone,
			Amount:      in.Amount,
			Type:        in.Type,
			Method:      in.Method,
			Dedication:  in.Dedication,
			ProgramID:   in.ProgramID,
			IsAnonymous: in.IsAnonymous,
			Notes:       in.Notes,
		})
		if err != nil {
			if errors.Is(err, donation.ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			log.Error().Err(err).Msg("creating donation failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "donation": d})
	}
}

func ListDonations(svc *donationsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := donationsvc.ListFilter{
			Status: donation.Status(q.Get("status")),
			Method: donation.Method(q.Get("payment_method")),
		}
		if v := q.Get("program_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid program_id")
				return
			}
			f.ProgramID = &id
		}
		f.Limit, _ = strconv.Atoi(q.Get("limit"))
		f.Offset, _ = strconv.Atoi(q.Get("offset"))

		ds, err := svc.List(r.Context(), f)
		if err != nil {
			log.Error().Err(err).Msg("listing donations failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "donations": ds})
	}
}

func GetDonation(svc *donationsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid donation id")
			return
		}
		d, err := svc.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Donation not found")
				return
			}
			log.Error().Err(err).Int64("donation_id", id).Msg("donation lookup failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "donation": d})
	}
}

type donationStatusReq struct {
	Status        donation.Status `json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`
}

func UpdateDonationStatus(svc *donationsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid donation id")
			return
		}
		var in donationStatusReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		d, err := svc.UpdateStatus(r.Context(), id, in.Status, in.TransactionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Donation not found")
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "donation": d})
	}
}

func DonationSummary(svc *donationsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := svc.Summary(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("donation summary failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "summary": s})
	}
}
