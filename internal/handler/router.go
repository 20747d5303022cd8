package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ai4local/ai4local/internal/auth"
	"github.com/ai4local/ai4local/internal/middleware"
	"github.com/ai4local/ai4local/internal/ratelimit"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything the API router mounts.
type Handlers struct {
	Auth      *AuthHandler
	Customers *CustomerHandler
	Campaigns *CampaignHandler
	Products  *ProductHandler
	Courses   *CourseHandler
	Payments  *PaymentHandler
	Activity  *ActivityHandler
	AI        *AIHandler
	System    *SystemHandler
	GraphQL   http.Handler
}

type RouterOptions struct {
	Logger       *slog.Logger
	TokenManager *auth.TokenManager
	Limiter      ratelimit.Limiter
	CORSOrigins  []string
	// RequestTimeout is skipped for zero
	RequestTimeout time.Duration
}

// NewRouter builds the gateway's route tree.
func NewRouter(h Handlers, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	if opts.RequestTimeout > 0 {
		r.Use(chimw.Timeout(opts.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticate := middleware.AuthMiddleware(opts.TokenManager)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.System.Health)
		r.Get("/status", h.System.Status)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.Auth.SignupHandler)
			r.Post("/login", h.Auth.LoginHandler)
			r.Post("/refresh", h.Auth.RefreshHandler)
			r.With(authenticate).Get("/me", h.Auth.MeHandler)
		})

		// Tenant routes
		r.Route("/orgs/{org_id}", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireOrg("org_id"))

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", h.Customers.ListCustomers)
				r.Post("/", h.Customers.CreateCustomer)
				r.Post("/import", h.Customers.ImportCustomers)
				r.Get("/export", h.Customers.ExportCustomers)
				r.Get("/{id}", h.Customers.GetCustomer)
				r.Put("/{id}", h.Customers.UpdateCustomer)
				r.Delete("/{id}", h.Customers.DeleteCustomer)
			})

			r.Route("/campaigns", func(r chi.Router) {
				r.Get("/", h.Campaigns.ListCampaigns)
				r.Post("/", h.Campaigns.CreateCampaign)
				r.Get("/templates", h.Campaigns.Templates)
				r.Get("/{id}", h.Campaigns.GetCampaign)
				r.Put("/{id}", h.Campaigns.UpdateCampaign)
				r.Delete("/{id}", h.Campaigns.DeleteCampaign)
				r.Post("/{id}/generate-content", h.Campaigns.GenerateContent)
				r.Get("/{id}/preview", h.Campaigns.PreviewCampaign)
			})

			mountResource(r, "/products", h.Products)
			mountResource(r, "/courses", h.Courses)
			mountResource(r, "/payments", h.Payments)

			r.Get("/activity", h.Activity.ListActivity)
		})

		r.Route("/ai", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RateLimit(opts.Limiter, "ai"))

			r.Post("/generate-text", h.AI.GenerateText)
			r.Post("/embed", h.AI.Embed)
			r.Post("/semantic-search", h.AI.SemanticSearch)
			r.Post("/content-suggestions", h.AI.ContentSuggestions)
			r.Post("/optimize-content", h.AI.OptimizeContent)
			r.Get("/status", h.AI.Status)
		})

		r.NotFound(h.System.NotFound)
		r.MethodNotAllowed(h.System.NotFound)
	})

	if h.GraphQL != nil {
		r.Handle("/graphql", h.GraphQL)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(h.System.SPA)

	return r
}

type resourceRoutes interface {
	List(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Get(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

func mountResource(r chi.Router, pattern string, h resourceRoutes) {
	r.Route(pattern, func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
