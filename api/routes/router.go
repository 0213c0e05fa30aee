package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/webtolk/amocrm-radicalmart/api/controllers"
	"github.com/webtolk/amocrm-radicalmart/api/middleware"
	"github.com/webtolk/amocrm-radicalmart/internal/leadsync"
	"github.com/webtolk/amocrm-radicalmart/pkg/config"
	"github.com/webtolk/amocrm-radicalmart/pkg/logger"
)

// Params carries the dependencies of the HTTP surface.
type Params struct {
	DB       controllers.Pinger
	Redis    controllers.Pinger
	Events   leadsync.Handler
	Guard    controllers.EventGuard
	Links    controllers.LeadLinker
	Gatherer prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, p Params) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": p.DB,
			"redis":    p.Redis,
		}))
	})

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/radicalmart", func(r chi.Router) {
		r.Post("/events", controllers.RadicalMartEvents(p.Events, cfg.Webhook.Secret, p.Guard, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.CORS(cfg.Integration.AdminCORSOrigins))
		r.Use(middleware.AdminAuth(cfg.JWT, logg))
		r.Route("/orders/{orderId}/amocrm-lead", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderLeadLink(p.Links, logg))
			r.Get("/field", controllers.AdminOrderLeadField(p.Links, logg))
		})
		r.Get("/forms/{formName}/extension", controllers.AdminFormExtension())
	})

	return r
}
