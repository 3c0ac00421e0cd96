package routes

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/casecraft-backend/api/controllers"
	"github.com/angelmondragon/casecraft-backend/api/controllers/sessions"
	"github.com/angelmondragon/casecraft-backend/api/middleware"
	"github.com/angelmondragon/casecraft-backend/internal/catalog"
	"github.com/angelmondragon/casecraft-backend/internal/designs"
	"github.com/angelmondragon/casecraft-backend/internal/orders"
	"github.com/angelmondragon/casecraft-backend/internal/pricing"
	"github.com/angelmondragon/casecraft-backend/internal/session"
	"github.com/angelmondragon/casecraft-backend/internal/uploads"
	"github.com/angelmondragon/casecraft-backend/pkg/config"
	"github.com/angelmondragon/casecraft-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/casecraft-backend/pkg/redis"
)

// Store is the redis surface the HTTP layer needs.
type Store interface {
	pkgredis.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	Ping(ctx context.Context) error
}

// Deps groups everything the router hands to controllers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Store    Store
	Catalog  catalog.Service
	Pricing  *pricing.Table
	Designs  designs.Service
	Orders   orders.Service
	Uploads  uploads.Service
	Sessions *session.Registry
	Gatherer prometheus.Gatherer
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

	idempotent := middleware.Idempotency(d.Store, cfg.RateLimit.IdempotencyTTL, logg)
	orderLimit := middleware.RateLimit(
		middleware.NewRateLimitPolicy("orders", cfg.RateLimit.OrderWindow, cfg.RateLimit.OrderLimit),
		d.Store, logg,
	)
	sessionLimit := middleware.RateLimit(
		middleware.NewRateLimitPolicy("sessions", cfg.RateLimit.SessionWindow, cfg.RateLimit.SessionLimit),
		d.Store, logg,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": d.DB,
			"redis":    d.Store,
		}))
	})

	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	if cfg.Media.UploadDir != "" {
		prefix := "/" + strings.Trim(cfg.Media.PublicPrefix, "/")
		files := http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.Media.UploadDir)))
		r.Handle(prefix+"/*", files)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/phone-models", controllers.PhoneModels(d.Catalog, logg))
		r.Get("/phone-models/popular", controllers.PopularPhoneModels(d.Catalog, logg))
		r.Get("/gallery", controllers.Gallery(d.Catalog, logg))
		r.Get("/gallery/category/{category}", controllers.GalleryByCategory(d.Catalog, logg))
		r.Get("/gallery/trending", controllers.TrendingGallery(d.Catalog, logg))

		r.Get("/pricing", controllers.PricingTable(d.Pricing))
		r.Get("/pricing/quote", controllers.PricingQuote(d.Pricing, logg))

		r.With(idempotent).Post("/create-design", controllers.CreateDesign(d.Designs, logg))
		r.Get("/design/{designId}", controllers.GetDesign(d.Designs, logg))
		r.With(orderLimit, idempotent).Post("/create-order", controllers.CreateOrder(d.Orders, d.Pricing, logg))
		r.Get("/order/{orderId}", controllers.GetOrder(d.Orders, logg))
		r.Post("/upload-image", controllers.UploadImage(d.Uploads, logg))
		r.Get("/stats", controllers.Stats(d.Designs, d.Orders, d.Catalog, d.Sessions, logg))

		r.Route("/sessions", func(r chi.Router) {
			r.With(sessionLimit).Post("/", sessions.Create(d.Sessions, logg))
			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", sessions.Get(d.Sessions, logg))
				r.Delete("/", sessions.Delete(d.Sessions, logg))
				r.Get("/events", sessions.Events(d.Sessions, logg))
				r.Post("/model", sessions.SelectModel(d.Sessions, d.Catalog, logg))
				r.Post("/design", sessions.SelectDesign(d.Sessions, d.Catalog, logg))
				r.Post("/upload", sessions.UploadDesign(d.Sessions, logg))
				r.Post("/placement", sessions.ApplyPlacement(d.Sessions, logg))
				r.Post("/placement/reset", sessions.ResetPlacement(d.Sessions, logg))
				r.Post("/undo", sessions.Undo(d.Sessions, logg))
				r.Post("/redo", sessions.Redo(d.Sessions, logg))
				r.Post("/lock", sessions.Lock(d.Sessions, logg))
				r.Post("/unlock", sessions.Unlock(d.Sessions, logg))
				r.Post("/pricing", sessions.SetPricing(d.Sessions, logg))
				r.Post("/step", sessions.EnterStep(d.Sessions, logg))
				r.With(idempotent).Post("/commit", sessions.Commit(d.Sessions, logg))
				r.With(orderLimit, idempotent).Post("/complete", sessions.Complete(d.Sessions, logg))
			})
		})
	})

	return r
}
