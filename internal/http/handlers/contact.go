package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"chartitze/internal/domain/contact"
	contactsvc "chartitze/internal/services/contact"
	"chartitze/internal/store"
)

type contactReq struct {
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Phone    string           `json:"phone,omitempty"`
	Subject  string           `json:"subject"`
	Category contact.Category `json:"category,omitempty"`
	Message  string           `json:"message"`
}

func SubmitContact(svc *contactsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in contactReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		m, err := svc.Submit(r.Context(), contactsvc.MessageInput{
			Name:     in.Name,
			Email:    in.Email,
			Phone:    in.Phone,
			Subject:  in.Subject,
			Category: in.Category,
			Message:  in.Message,
		})
		if err != nil {
			if errors.Is(err, contact.ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			log.Error().Err(err).Msg("saving contact message failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message_id": m.ID})
	}
}

func ListContactMessages(svc *contactsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))

		ms, err := svc.ListMessages(r.Context(), contact.Status(q.Get("status")), limit, offset)
		if err != nil {
			log.Error().Err(err).Msg("listing contact messages failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "messages": ms})
	}
}

func GetContactMessage(svc *contactsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid message id")
			return
		}
		m, err := svc.GetMessage(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Message not found")
				return
			}
			log.Error().Err(err).Int64("message_id", id).Msg("message lookup failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": m})
	}
}

func MarkContactRead(svc *contactsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid message id")
			return
		}
		m, err := svc.MarkRead(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Message not found")
				return
			}
			log.Error().Err(err).Int64("message_id", id).Msg("marking message read failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": m})
	}
}

type contactReplyReq struct {
	Reply string `json:"reply"`
}

func ReplyContact(svc *contactsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid message id")
			return
		}
		var in contactReplyReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		m, err := svc.Reply(r.Context(), id, in.Reply)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Message not found")
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": m})
	}
}

type subscribeReq struct {
	Email string `json:"email"`
}

func SubscribeNewsletter(svc *contactsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in subscribeReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		sub, err := svc.Subscribe(r.Context(), in.Email)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "subscriber": sub})
	}
}

func UnsubscribeNewsletter(svc *contactsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		if err := svc.Unsubscribe(r.Context(), token); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Subscription not found")
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "You have been unsubscribed."})
	}
}
