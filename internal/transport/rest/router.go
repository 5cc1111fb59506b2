package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/course-platform/internal/admin"
	"github.com/frahmantamala/course-platform/internal/auth"
	"github.com/frahmantamala/course-platform/internal/checkout"
	"github.com/frahmantamala/course-platform/internal/course"
	"github.com/frahmantamala/course-platform/internal/entitlement"
	"github.com/frahmantamala/course-platform/internal/event"
	"github.com/frahmantamala/course-platform/internal/inquiry"
	"github.com/frahmantamala/course-platform/internal/receipt"
	"github.com/frahmantamala/course-platform/internal/testimonial"
	"github.com/frahmantamala/course-platform/internal/transport/middleware"
	"github.com/frahmantamala/course-platform/internal/transport/swagger"
)

type Handlers struct {
	Auth        *auth.Handler
	Course      *course.Handler
	Event       *event.Handler
	Checkout    *checkout.Handler
	Entitlement *entitlement.Handler
	Receipt     *receipt.Handler
	Testimonial *testimonial.Handler
	Inquiry     *inquiry.Handler
	Admin       *admin.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/register", h.Auth.Register)
				sr.Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
				sr.Post("/otp/send", h.Auth.SendOTP)
				sr.Post("/otp/verify", h.Auth.VerifyOTP)
			})
		}

		// Catalog routes work anonymously; a valid session upgrades the
		// course detail with purchase state and unlocked URLs.
		if h.Course != nil {
			r.Group(func(cr chi.Router) {
				if h.Auth != nil {
					cr.Use(h.Auth.OptionalAuthMiddleware)
				}
				cr.Get("/courses", h.Course.ListCourses)
				cr.Get("/courses/{id}", h.Course.GetCourse)
			})
		}

		if h.Event != nil {
			r.Get("/events", h.Event.ListEvents)
		}

		if h.Testimonial != nil {
			r.Get("/testimonials", h.Testimonial.ListApproved)
			r.Post("/testimonials", h.Testimonial.Submit)
		}

		if h.Inquiry != nil {
			r.Post("/inquiries", h.Inquiry.Submit)
		}

		if h.Checkout != nil {
			r.Post("/checkout/orders", h.Checkout.CreateOrder)
		}

		// Payment callbacks carry their own HMAC proof, so no session
		// is required here.
		if h.Entitlement != nil {
			r.Post("/checkout/verify", h.Entitlement.VerifyPayment)
		}

		// Receipt links authorize through the token in the URL.
		if h.Receipt != nil {
			r.Get("/receipts/{id}", h.Receipt.GetReceipt)
		}

		if h.Auth != nil {
			r.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)

				pr.Get("/users/me", h.Auth.GetCurrentUser)

				if h.Course != nil {
					pr.Post("/videos/{id}/progress", h.Course.SaveProgress)
					pr.Get("/courses/{id}/progress", h.Course.GetCourseProgress)
				}

				pr.Group(func(ar chi.Router) {
					ar.Use(h.Auth.RequireAdmin)

					if h.Course != nil {
						ar.Route("/admin/courses", func(acr chi.Router) {
							acr.Get("/", h.Course.AdminListCourses)
							acr.Post("/", h.Course.CreateCourse)
							acr.Patch("/{id}", h.Course.UpdateCourse)
							acr.Delete("/{id}", h.Course.DeleteCourse)
							acr.Post("/{id}/videos", h.Course.AddVideo)
						})
						ar.Delete("/admin/videos/{id}", h.Course.RemoveVideo)
					}

					if h.Event != nil {
						ar.Route("/admin/events", func(aer chi.Router) {
							aer.Get("/", h.Event.AdminListEvents)
							aer.Post("/", h.Event.CreateEvent)
							aer.Patch("/{id}", h.Event.UpdateEvent)
							aer.Delete("/{id}", h.Event.DeleteEvent)
							aer.Get("/{id}/registrations", h.Event.ListRegistrations)
						})
					}

					if h.Testimonial != nil {
						ar.Get("/admin/testimonials", h.Testimonial.AdminList)
						ar.Patch("/admin/testimonials/{id}", h.Testimonial.Approve)
						ar.Delete("/admin/testimonials/{id}", h.Testimonial.Delete)
					}

					if h.Inquiry != nil {
						ar.Get("/admin/inquiries", h.Inquiry.AdminList)
						ar.Patch("/admin/inquiries/{id}/resolve", h.Inquiry.Resolve)
					}

					if h.Admin != nil {
						ar.Get("/admin/revenue", h.Admin.Revenue)
						ar.Get("/admin/orders", h.Admin.Orders)
					}
				})
			})
		}
	})
}
