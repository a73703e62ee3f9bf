package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"chartitze/internal/domain/gallery"
	gallerysvc "chartitze/internal/services/gallery"
	"chartitze/internal/store"
)

const maxUploadBytes = 50 << 20

func ListGalleryItems(svc *gallerysvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := gallerysvc.ListFilter{
			Type:          gallery.ItemType(q.Get("type")),
			FeaturedOnly:  q.Get("featured") == "true",
			PublishedOnly: true,
		}
		if v := q.Get("category_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid category_id")
				return
			}
			f.CategoryID = &id
		}
		f.Limit, _ = strconv.Atoi(q.Get("limit"))
		f.Offset, _ = strconv.Atoi(q.Get("offset"))

		items, err := svc.ListItems(r.Context(), f)
		if err != nil {
			log.Error().Err(err).Msg("listing gallery items failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "items": items})
	}
}

func ListGalleryCategories(svc *gallerysvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs, err := svc.ListCategories(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("listing gallery categories failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "categories": cs})
	}
}

type galleryCategoryReq struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func CreateGalleryCategory(svc *gallerysvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in galleryCategoryReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		c, err := svc.CreateCategory(r.Context(), in.Name, in.Description)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "category": c})
	}
}

// CreateGalleryItem accepts a multipart form: the media file under "media"
// plus item fields as form values.
func CreateGalleryItem(svc *gallerysvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		file, _, err := r.FormFile("media")
		if err != nil {
			writeError(w, http.StatusBadRequest, "media file is required")
			return
		}
		defer file.Close()

		in := gallerysvc.CreateItemInput{
			Title:        r.FormValue("title"),
			Description:  r.FormValue("description"),
			Type:         gallery.ItemType(r.FormValue("type")),
			Photographer: r.FormValue("photographer"),
			Location:     r.FormValue("location"),
			IsFeatured:   r.FormValue("is_featured") == "true",
			Media:        file,
		}
		if v := r.FormValue("category_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid category_id")
				return
			}
			in.CategoryID = &id
		}

		it, err := svc.CreateItem(r.Context(), in)
		if err != nil {
			if errors.Is(err, gallery.ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			log.Error().Err(err).Msg("creating gallery item failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "item": it})
	}
}

func GetGalleryItem(svc *gallerysvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid item id")
			return
		}
		it, err := svc.GetItem(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Gallery item not found")
				return
			}
			log.Error().Err(err).Int64("item_id", id).Msg("gallery item lookup failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "item": it})
	}
}

func DeleteGalleryItem(svc *gallerysvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid item id")
			return
		}
		if err := svc.DeleteItem(r.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Gallery item not found")
				return
			}
			log.Error().Err(err).Int64("item_id", id).Msg("deleting gallery item failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}
