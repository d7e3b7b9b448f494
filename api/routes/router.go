package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/devshop-kr/devshop-backend/api/controllers"
	"github.com/devshop-kr/devshop-backend/api/middleware"
	authsvc "github.com/devshop-kr/devshop-backend/internal/auth"
	cartsvc "github.com/devshop-kr/devshop-backend/internal/cart"
	catalogsvc "github.com/devshop-kr/devshop-backend/internal/catalog"
	"github.com/devshop-kr/devshop-backend/internal/identity"
	orderssvc "github.com/devshop-kr/devshop-backend/internal/orders"
	postssvc "github.com/devshop-kr/devshop-backend/internal/posts"
	reviewssvc "github.com/devshop-kr/devshop-backend/internal/reviews"
	userssvc "github.com/devshop-kr/devshop-backend/internal/users"
	"github.com/devshop-kr/devshop-backend/pkg/auth/session"
	"github.com/devshop-kr/devshop-backend/pkg/config"
	"github.com/devshop-kr/devshop-backend/pkg/enums"
	"github.com/devshop-kr/devshop-backend/pkg/logger"
	"github.com/devshop-kr/devshop-backend/pkg/metrics"
	"github.com/devshop-kr/devshop-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	Identity    identity.AccountResolver
	Auth        authsvc.Service
	Users       userssvc.Service
	Catalog     catalogsvc.Service
	Reviews     reviewssvc.Service
	Posts       postssvc.Service
	Cart        cartsvc.Service
	Orders      orderssvc.Service
	HTTPMetrics *metrics.HTTPMetrics
	Registry    prometheus.Gatherer
}

// NewRouter assembles the full route tree.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.Recoverer(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	authn := middleware.Auth(cfg.JWT, d.Sessions, d.Identity, logg)
	adminOnly := middleware.RequireRole(string(enums.UserRoleAdmin), logg)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.Live())
		r.Get("/ready", controllers.Ready(d.DB, d.Redis, logg))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(signupPolicy, d.Redis, logg)).Post("/signup", controllers.Signup(d.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.Login(d.Auth, logg))
			r.Post("/refresh", controllers.Refresh(d.Auth, logg))
			r.With(authn).Post("/logout", controllers.Logout(d.Auth, logg))
			r.With(authn).Get("/me", controllers.Me(d.Auth, logg))
		})

		r.Get("/products", controllers.ListProducts(d.Catalog, logg))
		r.Get("/products/{slug}", controllers.GetProduct(d.Catalog, logg))
		r.Get("/products/{slug}/reviews", controllers.ListProductReviews(d.Reviews, d.Catalog, logg))
		r.Get("/categories", controllers.ListCategories(d.Catalog, logg))
		r.Get("/posts", controllers.ListPosts(d.Posts, logg))

		r.Group(func(r chi.Router) {
			r.Use(authn)

			r.Post("/reviews", controllers.CreateReview(d.Reviews, logg))
			r.Post("/posts", controllers.CreatePost(d.Posts, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(d.Cart, logg))
				r.Post("/", controllers.AddCartItem(d.Cart, logg))
				r.Patch("/{itemID}", controllers.UpdateCartItem(d.Cart, logg))
				r.Delete("/{itemID}", controllers.RemoveCartItem(d.Cart, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.PlaceOrder(d.Orders, logg))
				r.Get("/", controllers.ListOrders(d.Orders, logg))
				r.Get("/{orderID}", controllers.GetOrder(d.Orders, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(authn)
		r.Use(adminOnly)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminListUsers(d.Users, logg))
			r.Patch("/{userID}/block", controllers.AdminSetUserBlocked(d.Users, logg))
			r.Patch("/{userID}/role", controllers.AdminSetUserRole(d.Users, logg))
			r.Delete("/{userID}", controllers.AdminDeleteUser(d.Users, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(d.Catalog, logg))
			r.Post("/", controllers.AdminCreateProduct(d.Catalog, logg))
			r.Patch("/{productID}", controllers.AdminUpdateProduct(d.Catalog, logg))
			r.Patch("/{productID}/status", controllers.AdminSetProductStatus(d.Catalog, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", controllers.AdminListReviews(d.Reviews, logg))
			r.Patch("/{reviewID}/status", controllers.AdminSetReviewStatus(d.Reviews, logg))
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", controllers.AdminListPosts(d.Posts, logg))
			r.Patch("/{postID}/status", controllers.AdminSetPostStatus(d.Posts, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(d.Orders, logg))
			r.Patch("/{orderID}/status", controllers.AdminSetOrderStatus(d.Orders, logg))
		})
	})

	return r
}
