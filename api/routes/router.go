package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/pricing-engine/api/controllers"
	"github.com/angelmondragon/pricing-engine/api/middleware"
	"github.com/angelmondragon/pricing-engine/internal/pricelists"
	"github.com/angelmondragon/pricing-engine/pkg/config"
	"github.com/angelmondragon/pricing-engine/pkg/db"
	"github.com/angelmondragon/pricing-engine/pkg/logger"
	"github.com/angelmondragon/pricing-engine/pkg/metrics"
	"github.com/angelmondragon/pricing-engine/pkg/redis"
)

// NewRouter wires the HTTP surface. redisP and metricsHandler may be nil when the resolution
// cache or the metrics endpoint are disabled.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	resolver controllers.PriceResolver,
	priceListService pricelists.Service,
	pricingMetrics *metrics.PricingMetrics,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Tenant(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	deps := map[string]controllers.Pinger{}
	if dbP != nil {
		deps["db"] = dbP
	}
	if redisP != nil {
		deps["redis"] = redisP
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products/{productId}/price", controllers.ProductPrice(resolver, pricingMetrics, logg))

		r.Route("/price-lists", func(r chi.Router) {
			r.Post("/", controllers.PriceListCreate(priceListService, logg))
			r.Route("/{priceListId}", func(r chi.Router) {
				r.Get("/", controllers.PriceListGet(priceListService, logg))
				r.Delete("/", controllers.PriceListDelete(priceListService, logg))
				r.Patch("/status", controllers.PriceListUpdateStatus(priceListService, logg))
				r.Post("/entries", controllers.PriceListAddEntry(priceListService, logg))
				r.Delete("/entries/{entryId}", controllers.PriceListRemoveEntry(priceListService, logg))
				r.Post("/partners", controllers.PriceListAssignPartner(priceListService, logg))
				r.Delete("/partners/{partnerId}", controllers.PriceListUnassignPartner(priceListService, logg))
			})
		})
	})

	return r
}
