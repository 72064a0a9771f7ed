package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/capitalcare/care-console/internal/api/handler"
	"github.com/capitalcare/care-console/internal/api/middleware"
	"github.com/capitalcare/care-console/internal/cache"
	"github.com/capitalcare/care-console/internal/core/domain"
	"github.com/capitalcare/care-console/internal/core/ports"
	"github.com/capitalcare/care-console/internal/session"
)

// Deps carries everything the route table needs. Built once in main.
type Deps struct {
	Log      zerolog.Logger
	Store    ports.SessionStore
	Tokens   *session.TokenIssuer
	Auth     ports.AuthAPI
	Tickets  ports.TicketAPI
	Routers  ports.RouterAPI
	Users    ports.UserAPI
	Mirrors  *cache.Set
	Links    ports.SiteLinkRepository
	Activity ports.ActivityRecorder
	Redis    *redis.Client
	Mongo    *mongo.Database
}

// NewRouter builds and returns the Echo instance with all routes registered.
// The route table is the console's authorization ruleset: which role a path
// demands is decided here, at composition time, and nowhere else.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("console"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Store, deps.Auth, deps.Activity)
	ticketHandler := handler.NewTicketHandler(deps.Mirrors.Tickets, deps.Tickets, deps.Activity)
	clientHandler := handler.NewClientHandler(deps.Mirrors.Clients, deps.Activity)
	routerHandler := handler.NewRouterHandler(deps.Mirrors.Routers, deps.Routers, deps.Activity)
	siteHandler := handler.NewSiteHandler(deps.Mirrors.Sites, deps.Links, deps.Activity)
	userHandler := handler.NewUserHandler(deps.Mirrors.Users, deps.Users, deps.Activity)
	activityHandler := handler.NewActivityHandler(deps.Activity)

	// --- Probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Redis, deps.Mongo)

	e.GET("/healthz", healthHandler.Liveness)
	e.GET("/readyz", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Login entry point ---
	e.POST("/api/auth/login", authHandler.Login)

	// --- Authenticated surface (any role) ---
	authed := e.Group("/api", middleware.Auth(deps.Tokens, deps.Store))
	authed.POST("/auth/logout", authHandler.Logout)
	authed.GET("/profile", authHandler.GetProfile)
	authed.PUT("/profile", authHandler.UpdateProfile)
	authed.GET("/map/sites", siteHandler.Map)
	authed.POST("/map/links", siteHandler.AddLink)
	authed.DELETE("/map/links", siteHandler.RemoveLink)

	// --- Admin console ---
	admin := authed.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	registerTicketRoutes(admin, ticketHandler)
	registerClientRoutes(admin, clientHandler)
	registerRouterRoutes(admin, routerHandler)
	registerSiteRoutes(admin, siteHandler)
	admin.GET("/users", userHandler.List)
	admin.GET("/users/technicians", userHandler.Technicians)
	admin.POST("/users", userHandler.Create)
	admin.PUT("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)
	admin.GET("/activity", activityHandler.Recent)

	// --- Agent console ---
	agent := authed.Group("/agent", middleware.RequireRole(domain.RoleAgent))
	registerTicketRoutes(agent, ticketHandler)
	registerClientRoutes(agent, clientHandler)
	registerRouterRoutes(agent, routerHandler)
	registerSiteRoutes(agent, siteHandler)

	// --- Technician console: tickets only ---
	tech := authed.Group("/tech", middleware.RequireRole(domain.RoleTechnician))
	tech.GET("/tickets", ticketHandler.List)
	tech.PUT("/tickets/:id", ticketHandler.Update)
	tech.POST("/tickets/:id/comments", ticketHandler.AddComment)

	return e
}

func registerTicketRoutes(g *echo.Group, h *handler.TicketHandler) {
	g.GET("/tickets", h.List)
	g.POST("/tickets", h.Create)
	g.PUT("/tickets/:id", h.Update)
	g.DELETE("/tickets/:id", h.Delete)
	g.POST("/tickets/:id/comments", h.AddComment)
}

func registerClientRoutes(g *echo.Group, h *handler.ClientHandler) {
	g.GET("/clients", h.List)
	g.POST("/clients", h.Create)
	g.PUT("/clients/:id", h.Update)
	g.DELETE("/clients/:id", h.Delete)
}

func registerRouterRoutes(g *echo.Group, h *handler.RouterHandler) {
	g.GET("/routers", h.List)
	g.POST("/routers", h.Create)
	g.PUT("/routers/:id", h.Update)
	g.DELETE("/routers/:id", h.Delete)
	g.PUT("/routers/:id/status", h.SetStatus)
}

func registerSiteRoutes(g *echo.Group, h *handler.SiteHandler) {
	g.GET("/sites", h.List)
	g.POST("/sites", h.Create)
	g.PUT("/sites/:id", h.Update)
	g.DELETE("/sites/:id", h.Delete)
}
