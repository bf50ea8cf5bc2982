package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prazodigital/prazos-backend/api/controllers"
	"github.com/prazodigital/prazos-backend/api/middleware"
	"github.com/prazodigital/prazos-backend/internal/dismissal"
	"github.com/prazodigital/prazos-backend/internal/notifications"
	"github.com/prazodigital/prazos-backend/internal/registry"
	"github.com/prazodigital/prazos-backend/internal/scan"
	"github.com/prazodigital/prazos-backend/pkg/config"
	"github.com/prazodigital/prazos-backend/pkg/db"
	"github.com/prazodigital/prazos-backend/pkg/logger"
	"github.com/prazodigital/prazos-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	protocolScanner *scan.ProtocolScanner,
	accountScanner *scan.AccountScanner,
	notificationsService notifications.Service,
	deadlineChecker *notifications.DeadlineChecker,
	dismissalStore *dismissal.Store,
	tenantWriter registry.Writer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	activationPolicy := middleware.NewRateLimitPolicy(
		"activation",
		cfg.RateLimit.ActivationWindow,
		cfg.RateLimit.ActivationIPLimit,
		cfg.RateLimit.ActivationIDLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    redisClient,
		}))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// The scheduler calls the bare /scan paths; /api/v1/scans mirrors them
	// for clients that stay on the versioned prefix.
	scanRoutes := func(r chi.Router) {
		r.Post("/protocol-deadlines", controllers.ScanProtocolDeadlines(protocolScanner, logg))
		r.Post("/account-deadlines", controllers.ScanAccountDeadlines(accountScanner, logg))
	}
	r.Route("/scan", scanRoutes)
	r.Route("/api/v1/scans", scanRoutes)

	r.Route("/api/v1/notifications", func(r chi.Router) {
		r.Use(middleware.RecipientContext(logg))
		r.Get("/", controllers.ListNotifications(notificationsService, logg))
		r.Get("/unread-count", controllers.UnreadCount(notificationsService, logg))
		r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
		r.Post("/{notificationID}/read", controllers.MarkNotificationRead(notificationsService, logg))
		r.Delete("/{notificationID}", controllers.DeleteNotification(notificationsService, logg))
		r.Post("/deadline-check", controllers.RunDeadlineCheck(deadlineChecker, logg))
	})

	r.Route("/api/v1/alerts/dismissals", func(r chi.Router) {
		r.Use(middleware.RecipientContext(logg))
		r.Get("/", controllers.ReadDismissals(dismissalStore, logg))
		r.Post("/", controllers.DismissAlert(dismissalStore, logg))
		r.Delete("/", controllers.ResetDismissals(dismissalStore, logg))
	})

	r.Route("/api/v1/tenants", func(r chi.Router) {
		r.With(middleware.RateLimit(activationPolicy, redisClient, logg)).
			Post("/{tenantID}/activate", controllers.ActivateTenant(tenantWriter, logg))
	})

	return r
}
