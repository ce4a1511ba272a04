package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rewear/rewear-backend/api/controllers"
	"github.com/rewear/rewear-backend/api/middleware"
	"github.com/rewear/rewear-backend/internal/auth"
	"github.com/rewear/rewear-backend/internal/items"
	"github.com/rewear/rewear-backend/internal/users"
	"github.com/rewear/rewear-backend/pkg/auth/session"
	"github.com/rewear/rewear-backend/pkg/config"
	"github.com/rewear/rewear-backend/pkg/db"
	"github.com/rewear/rewear-backend/pkg/logger"
	"github.com/rewear/rewear-backend/pkg/metrics"
	"github.com/rewear/rewear-backend/pkg/pagination"
	"github.com/rewear/rewear-backend/pkg/redis"
)

const itemImagesPrefix = "item"

// ImageStore saves uploads and serves them back.
type ImageStore interface {
	middleware.ImageStore
	controllers.FileOpener
}

// Metrics groups the collectors the router exposes and records into.
type Metrics struct {
	Gatherer    prometheus.Gatherer
	HTTP        *metrics.HTTPMetrics
	Marketplace *metrics.MarketplaceMetrics
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	images ImageStore,
	m Metrics,
	authService auth.Service,
	itemService items.Service,
	userService users.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(m.HTTP),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	listing := pagination.Options{DefaultLimit: cfg.Listing.DefaultLimit, MaxLimit: cfg.Listing.MaxLimit}
	requireAuth := middleware.Auth(cfg.JWT, sessionChecker, logg)
	optionalAuth := middleware.OptionalAuth(cfg.JWT, sessionChecker, logg)
	uploadImages := middleware.UploadImages(middleware.UploadPolicy{
		Field:      "images",
		Prefix:     itemImagesPrefix,
		PublicPath: cfg.Uploads.PublicPath,
		MaxBytes:   cfg.Uploads.MaxBytes(),
		MaxFiles:   cfg.Uploads.MaxFiles,
	}, images, m.Marketplace, logg)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	var limiter middleware.RateLimiterStore
	if redisClient != nil {
		limiter = redisClient
	}

	deps := []controllers.Dependency{{Name: "db", Pinger: dbP}}
	if redisClient != nil {
		deps = append(deps, controllers.Dependency{Name: "redis", Pinger: redisClient})
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps...))
	})
	if m.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(m.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Get(cfg.Uploads.PublicPath+"/{key}", controllers.ServeUpload(images, logg))

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, limiter, logg)).Post("/register", controllers.AuthRegister(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.With(requireAuth).Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", controllers.ItemList(itemService, listing, logg))
		r.Get("/featured", controllers.ItemFeatured(itemService, logg))
		r.With(optionalAuth).Get("/{id}", controllers.ItemDetail(itemService, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.With(uploadImages).Post("/", controllers.ItemCreate(itemService, logg))
			r.Put("/{id}", controllers.ItemUpdate(itemService, logg))
			r.Delete("/{id}", controllers.ItemDelete(itemService, logg))
			r.Post("/{id}/wishlist", controllers.ItemWishlistToggle(itemService, logg))
		})
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/search", controllers.UserSearch(userService, cfg.Listing.MaxLimit, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/profile", controllers.UserProfile(userService, logg))
			r.Get("/stats", controllers.UserStats(userService, logg))
			r.Put("/avatar", controllers.UserAvatar(userService, logg))
			r.Get("/{id}/wishlist", controllers.UserWishlist(userService, listing, logg))
		})

		r.Get("/{id}", controllers.UserPublicProfile(userService, logg))
		r.Get("/{id}/items", controllers.UserItems(userService, listing, logg))
	})

	return r
}
