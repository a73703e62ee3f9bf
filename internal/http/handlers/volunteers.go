package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"chartitze/internal/domain/volunteer"
	volunteersvc "chartitze/internal/services/volunteer"
	"chartitze/internal/store"
)

type volunteerApplyReq struct {
	Name            string               `json:"name"`
	Email           string               `json:"email"`
	Phone           string               `json:"phone"`
	Age             int                  `json:"age"`
	Occupation      string               `json:"occupation,omitempty"`
	Skills          string               `json:"skills"`
	Interests       []string             `json:"interests,omitempty"`
	Availability    []string             `json:"availability,omitempty"`
	PreferredTime   volunteer.Time       `json:"preferred_time,omitempty"`
	CommitmentLevel volunteer.Commitment `json:"commitment_level"`
	Motivation      string               `json:"motivation"`
}

func ApplyVolunteer(svc *volunteersvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in volunteerApplyReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		v, err := svc.Apply(r.Context(), volunteersvc.ApplyInput{
			Name:            in.Name,
			Email:           in.Email,
			Phone:           in.Phone,
			Age:             in.Age,
			Occupation:      in.Occupation,
			Skills:          in.Skills,
			Interests:       in.Interests,
			Availability:    in.Availability,
			PreferredTime:   in.PreferredTime,
			CommitmentLevel: in.CommitmentLevel,
			Motivation:      in.Motivation,
		})
		if err != nil {
			if errors.Is(err, volunteer.ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			log.Error().Err(err).Msg("saving volunteer application failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "volunteer": v})
	}
}

func ListVolunteers(svc *volunteersvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))

		vs, err := svc.List(r.Context(), volunteer.Status(q.Get("status")), limit, offset)
		if err != nil {
			log.Error().Err(err).Msg("listing volunteers failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "volunteers": vs})
	}
}

type volunteerReviewReq struct {
	Approve bool `json:"approve"`
}

func ReviewVolunteer(svc *volunteersvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid volunteer id")
			return
		}
		var in volunteerReviewReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		v, err := svc.Review(r.Context(), id, in.Approve)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Application not found")
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "volunteer": v})
	}
}

type volunteerActiveReq struct {
	Active bool `json:"active"`
}

func ActivateVolunteer(svc *volunteersvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid volunteer id")
			return
		}
		var in volunteerActiveReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		v, err := svc.SetActive(r.Context(), id, in.Active)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Volunteer not found")
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "volunteer": v})
	}
}
