package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velmarket/storefront-backend/api/controllers"
	cartcontrollers "github.com/velmarket/storefront-backend/api/controllers/cart"
	"github.com/velmarket/storefront-backend/api/middleware"
	addresssvc "github.com/velmarket/storefront-backend/internal/address"
	authsvc "github.com/velmarket/storefront-backend/internal/auth"
	cartdomain "github.com/velmarket/storefront-backend/internal/cart"
	ordersvc "github.com/velmarket/storefront-backend/internal/orders"
	productsvc "github.com/velmarket/storefront-backend/internal/products"
	userssvc "github.com/velmarket/storefront-backend/internal/users"
	"github.com/velmarket/storefront-backend/pkg/auth/session"
	"github.com/velmarket/storefront-backend/pkg/config"
	"github.com/velmarket/storefront-backend/pkg/db"
	"github.com/velmarket/storefront-backend/pkg/logger"
	"github.com/velmarket/storefront-backend/pkg/metrics"
	redisclient "github.com/velmarket/storefront-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs wired in.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redisclient.Client
	SessionChecker session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics
	Registry       prometheus.Gatherer

	AuthService    authsvc.Service
	UsersService   userssvc.Service
	ProductService productsvc.Service
	CartService    cartdomain.Service
	AddressService addresssvc.Service
	OrdersService  ordersvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(deps.UsersService, deps.AuthService, logg))
		r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, deps.SessionChecker, logg)).Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.ProductService, logg))
		r.Get("/featured", controllers.FeaturedProducts(deps.ProductService, logg))
		r.Get("/categories", controllers.CategoryList(deps.ProductService, logg))
		r.Get("/{slug}", controllers.ProductDetail(deps.ProductService, logg))
	})

	// Cart routes serve signed-in and guest shoppers alike: a valid bearer
	// token identifies the user cart, otherwise the anonymous session
	// cookie does.
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, deps.SessionChecker, logg))
		r.Use(middleware.AnonymousSession(cfg.Session, deps.Redis, logg))

		r.Get("/", cartcontrollers.Summary(deps.CartService, logg))
		r.Post("/items", cartcontrollers.Add(deps.CartService, logg))
		r.Patch("/items/{itemID}", cartcontrollers.UpdateItem(deps.CartService, logg))
		r.Delete("/items/{itemID}", cartcontrollers.RemoveItem(deps.CartService, logg))
		r.Delete("/", cartcontrollers.Clear(deps.CartService, logg))

		r.Route("/form", func(r chi.Router) {
			r.Post("/add", cartcontrollers.FormAdd(deps.CartService, logg))
			r.Post("/update", cartcontrollers.FormUpdate(deps.CartService, logg))
			r.Post("/remove", cartcontrollers.FormRemove(deps.CartService, logg))
			r.Post("/clear", cartcontrollers.FormClear(deps.CartService, logg))
		})
	})

	r.Route("/api/v1/account", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.Get("/dashboard", controllers.Dashboard(deps.UsersService, logg))
		r.Get("/profile", controllers.ProfileGet(deps.UsersService, logg))
		r.Put("/profile", controllers.ProfileUpdate(deps.UsersService, logg))

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(deps.AddressService, logg))
			r.Post("/", controllers.AddressCreate(deps.AddressService, logg))
			r.Put("/{addressID}", controllers.AddressUpdate(deps.AddressService, logg))
			r.Delete("/{addressID}", controllers.AddressDelete(deps.AddressService, logg))
			r.Post("/{addressID}/default", controllers.AddressSetDefault(deps.AddressService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(deps.OrdersService, logg))
			r.Get("/{orderNumber}", controllers.OrderDetail(deps.OrdersService, logg))
		})
	})

	return r
}
