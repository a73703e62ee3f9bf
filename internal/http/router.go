package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chartitze/internal/config"
	"chartitze/internal/http/handlers"
	middlewarex "chartitze/internal/http/middleware"
	contactsvc "chartitze/internal/services/contact"
	dashboardsvc "chartitze/internal/services/dashboard"
	donationsvc "chartitze/internal/services/donation"
	gallerysvc "chartitze/internal/services/gallery"
	paymentsvc "chartitze/internal/services/payment"
	programsvc "chartitze/internal/services/program"
	volunteersvc "chartitze/internal/services/volunteer"
)

// RouterDependencies holds all services the HTTP surface needs.
type RouterDependencies struct {
	Config     config.Cfg
	Payments   *paymentsvc.Service
	Donations  *donationsvc.Service
	Programs   *programsvc.Service
	Volunteers *volunteersvc.Service
	Gallery    *gallerysvc.Service
	Contact    *contactsvc.Service
	Dashboard  *dashboardsvc.Service
}

// NewRouter wires all routes. Public routes serve the charity site; /admin is
// guarded by the shared admin token.
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"service": deps.Config.App.SiteName,
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Payments: initiation and status are public, the callback is hit by
	// Daraja directly.
	r.Route("/payments", func(r chi.Router) {
		r.Post("/stk-push", handlers.InitiateSTKPush(deps.Payments))
		r.Post("/callback", handlers.MpesaCallback(deps.Payments))
		r.Get("/status/{checkout_id}", handlers.PaymentStatus(deps.Payments))
	})

	r.Route("/donations", func(r chi.Router) {
		r.Post("/", handlers.CreateDonation(deps.Donations))
		r.Get("/", handlers.ListDonations(deps.Donations))
		r.Get("/summary", handlers.DonationSummary(deps.Donations))
		r.Get("/{id}", handlers.GetDonation(deps.Donations))
	})

	r.Route("/programs", func(r chi.Router) {
		r.Get("/", handlers.ListPrograms(deps.Programs))
		r.Get("/{slug}", handlers.GetProgram(deps.Programs))
	})

	r.Post("/volunteers", handlers.ApplyVolunteer(deps.Volunteers))

	r.Route("/gallery", func(r chi.Router) {
		r.Get("/", handlers.ListGalleryItems(deps.Gallery))
		r.Get("/categories", handlers.ListGalleryCategories(deps.Gallery))
		r.Get("/{id}", handlers.GetGalleryItem(deps.Gallery))
	})

	r.Post("/contact", handlers.SubmitContact(deps.Contact))
	r.Post("/newsletter/subscribe", handlers.SubscribeNewsletter(deps.Contact))
	r.Get("/newsletter/unsubscribe/{token}", handlers.UnsubscribeNewsletter(deps.Contact))

	r.Route("/admin", func(r chi.Router) {
		r.Use(middlewarex.AdminAuth(deps.Config))

		r.Get("/dashboard/summary", handlers.DashboardSummary(deps.Dashboard))

		r.Post("/payments/{checkout_id}/override", handlers.OverridePayment(deps.Payments))

		r.Patch("/donations/{id}/status", handlers.UpdateDonationStatus(deps.Donations))

		r.Post("/programs", handlers.CreateProgram(deps.Programs))
		r.Put("/programs/{id}", handlers.UpdateProgram(deps.Programs))
		r.Delete("/programs/{id}", handlers.DeleteProgram(deps.Programs))

		r.Get("/volunteers", handlers.ListVolunteers(deps.Volunteers))
		r.Patch("/volunteers/{id}/review", handlers.ReviewVolunteer(deps.Volunteers))
		r.Patch("/volunteers/{id}/active", handlers.ActivateVolunteer(deps.Volunteers))

		r.Post("/gallery/categories", handlers.CreateGalleryCategory(deps.Gallery))
		r.Post("/gallery/items", handlers.CreateGalleryItem(deps.Gallery))
		r.Delete("/gallery/items/{id}", handlers.DeleteGalleryItem(deps.Gallery))

		r.Get("/contact", handlers.ListContactMessages(deps.Contact))
		r.Get("/contact/{id}", handlers.GetContactMessage(deps.Contact))
		r.Patch("/contact/{id}", handlers.MarkContactRead(deps.Contact))
		r.Post("/contact/{id}/reply", handlers.ReplyContact(deps.Contact))
	})

	return r
}
