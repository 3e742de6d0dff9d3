package web

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RouteDefinition describes one page route of the console
type RouteDefinition struct {
	Name        string
	Path        string
	Methods     []string
	Description string
	RequireAuth bool // unauthenticated requests are redirected to /login
	RateLimited bool
}

// Routes holds all page routes. Operational endpoints (/health, /metrics,
// /swagger, /api) are registered separately.
var Routes = []RouteDefinition{
	// Public routes
	{
		Name:        "root",
		Path:        "/",
		Methods:     []string{http.MethodGet},
		Description: "Redirects to the listing or to the login page",
	},
	{
		Name:        "login-form",
		Path:        "/login",
		Methods:     []string{http.MethodGet},
		Description: "Login page",
	},
	{
		Name:        "login",
		Path:        "/login",
		Methods:     []string{http.MethodPost},
		Description: "Credential submission",
		RateLimited: true,
	},

	// Authenticated routes
	{
		Name:        "logout",
		Path:        "/logout",
		Methods:     []string{http.MethodPost},
		Description: "Ends the session",
		RequireAuth: true,
	},
	{
		Name:        "products",
		Path:        "/products",
		Methods:     []string{http.MethodGet},
		Description: "Paginated, searchable product listing",
		RequireAuth: true,
	},
	{
		Name:        "product-create",
		Path:        "/products",
		Methods:     []string{http.MethodPost},
		Description: "Create product form submission",
		RequireAuth: true,
	},
	{
		Name:        "product-detail",
		Path:        "/products/{id:[0-9]+}",
		Methods:     []string{http.MethodGet},
		Description: "Product detail with image gallery",
		RequireAuth: true,
	},
	{
		Name:        "product-update",
		Path:        "/products/{id:[0-9]+}",
		Methods:     []string{http.MethodPost},
		Description: "Edit product form submission",
		RequireAuth: true,
	},
	{
		Name:        "product-delete",
		Path:        "/products/{id:[0-9]+}/delete",
		Methods:     []string{http.MethodPost},
		Description: "Delete product",
		RequireAuth: true,
	},
}

// registerPageRoutes registers Routes on router, applying the guard and the
// login rate limiter from each definition
func (s *Server) registerPageRoutes(router *mux.Router) {
	handlers := map[string]http.HandlerFunc{
		"root":           s.handleRoot,
		"login-form":     s.handleLoginForm,
		"login":          s.handleLogin,
		"logout":         s.handleLogout,
		"products":       s.handleListing,
		"product-create": s.handleCreate,
		"product-detail": s.handleDetail,
		"product-update": s.handleUpdate,
		"product-delete": s.handleDelete,
	}

	for _, route := range Routes {
		var h http.Handler = handlers[route.Name]
		if route.RateLimited && s.limiter != nil {
			h = s.limiter.Middleware(h)
		}
		if route.RequireAuth {
			h = RequireAuth(h)
		}
		router.Handle(route.Path, h).Methods(route.Methods...).Name(route.Name)
	}
}
