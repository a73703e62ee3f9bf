package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"chartitze/internal/domain/program"
	programsvc "chartitze/internal/services/program"
	"chartitze/internal/store"
)

type programReq struct {
	Title            string           `json:"title"`
	Category         program.Category `json:"category"`
	ShortDescription string           `json:"short_description"`
	Description      string           `json:"description"`
	ImageURL         string           `json:"image_url,omitempty"`
	BannerImageURL   string           `json:"banner_image_url,omitempty"`
	StartDate        *time.Time       `json:"start_date,omitempty"`
	EndDate          *time.Time       `json:"end_date,omitempty"`
	Location         string           `json:"location,omitempty"`
	Status           program.Status   `json:"status,omitempty"`
	TargetAmount     *decimal.Decimal `json:"target_amount,omitempty"`
	Beneficiaries    int              `json:"beneficiaries_count,omitempty"`
	VolunteersNeeded int              `json:"volunteers_needed,omitempty"`
}

func (in programReq) input() programsvc.Input {
	return programsvc.Input{
		Title:            in.Title,
		Category:         in.Category,
		ShortDescription: in.ShortDescription,
		Description:      in.Description,
		ImageURL:         in.ImageURL,
		BannerImageURL:   in.BannerImageURL,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		Location:         in.Location,
		Status:           in.Status,
		TargetAmount:     in.TargetAmount,
		Beneficiaries:    in.Beneficiaries,
		VolunteersNeeded: in.VolunteersNeeded,
	}
}

func ListPrograms(svc *programsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := programsvc.ListFilter{
			Category: program.Category(q.Get("category")),
			Status:   program.Status(q.Get("status")),
		}
		f.Limit, _ = strconv.Atoi(q.Get("limit"))
		f.Offset, _ = strconv.Atoi(q.Get("offset"))

		ps, err := svc.List(r.Context(), f)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "programs": ps})
	}
}

func GetProgram(svc *programsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Program not found")
				return
			}
			log.Error().Err(err).Msg("program lookup failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "program": p})
	}
}

func CreateProgram(svc *programsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in programReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		p, err := svc.Create(r.Context(), in.input())
		if err != nil {
			if errors.Is(err, program.ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			log.Error().Err(err).Msg("creating program failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "program": p})
	}
}

func UpdateProgram(svc *programsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid program id")
			return
		}
		var in programReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		p, err := svc.Update(r.Context(), id, in.input())
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Program not found")
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "program": p})
	}
}

func DeleteProgram(svc *programsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid program id")
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Program not found")
				return
			}
			log.Error().Err(err).Int64("program_id", id).Msg("deleting program failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}
