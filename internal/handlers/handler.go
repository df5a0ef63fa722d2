package handlers

import (
	"embed"
	"html/template"

	_ "rental_market/docs"
	"rental_market/internal/logger"
	"rental_market/internal/models"
	"rental_market/internal/service"
	"rental_market/internal/session"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Config carries the HTTP-layer settings.
type Config struct {
	Session session.StoreOptions
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	cfg      Config
}

// NewHandler constructs a new HTTP handler with dependencies. A nil log discards output.
func NewHandler(services *service.Service, log *logger.Logger, cfg Config) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{services: services, log: log, cfg: cfg}
}

func parseTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)
	router.SetHTMLTemplate(parseTemplates())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	// Versioned API endpoints (bearer token, no cookie session)
	h.registerAPIRoutes(router)

	web := router.Group("/", session.Middleware(h.cfg.Session), session.Bind)
	h.registerAuthRoutes(web)
	h.registerListingRoutes(web)
	h.registerAdminRoutes(web)

	router.GET("/ws/listings", h.wsListings)

	router.NoRoute(func(c *gin.Context) {
		h.renderNotFound(c)
	})

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.RouterGroup) {
	r.GET("/", h.loginPage)
	r.POST("/", h.login)
	r.GET("/signup", h.signupPage)
	r.POST("/signup", h.signup)
	r.GET("/dashboard", h.dashboard)
	r.GET("/logout", h.logout)
}

func (h *Handler) registerListingRoutes(r *gin.RouterGroup) {
	r.GET("/listings", h.listingsPage)

	owner := r.Group("/", h.requireRole(models.RoleOwner))
	{
		owner.GET("/owner", h.ownerPage)
		owner.POST("/post", h.postListing)
	}
}

func (h *Handler) registerAdminRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin", h.requireRole(models.RoleAdmin))
	{
		admin.GET("", h.adminPage)
		admin.GET("/edit/:id", h.editListingPage)
		admin.POST("/edit/:id", h.editListing)
		admin.GET("/delete/:id", h.deleteListing)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.POST("/auth/sign-in", h.apiSignIn)
		api.GET("/listings", h.apiSearchListings)

		owner := api.Group("/listings", h.apiAuth, h.apiRequireRole(models.RoleOwner))
		{
			owner.GET("/mine", h.apiMyListings)
			owner.POST("", h.apiCreateListing)
		}
	}
}
