package routes

import (
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"shipment_backoffice/internal/config"
	"shipment_backoffice/internal/middleware"
	"shipment_backoffice/internal/pages"
	"shipment_backoffice/internal/services"
	"shipment_backoffice/internal/storage"
)

// Deps is everything the router hands out to handlers.
type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Services  *services.Services
	Images    *storage.ImageStore
	LogOutput io.Writer
}

func SetupRouter(d Deps) *gin.Engine {
	out := d.LogOutput
	if out == nil {
		out = os.Stdout
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(out),
		gin.RecoveryWithWriter(out),
		middleware.CORS(d.Config.AllowedOrigins),
	)
	r.SetHTMLTemplate(pages.Templates())
	r.Static(d.Config.UploadURLPrefix, d.Images.Dir)

	guard := authGuard(d.Config)

	HealthRoutes(r, d.DB)
	AuthRoutes(r, d.Config)

	api := r.Group("/api")
	TruckRoutes(api, d.Services, d.Images, guard)
	DriverRoutes(api, d.Services, guard)
	ShipmentRoutes(api, d.Services, guard)
	CustomerRoutes(api, d.Services, guard)
	DriverShipmentRoutes(api, d.Services, guard)

	PageRoutes(r, pages.NewHandler(d.Services, d.Images), guard)

	return r
}

// authGuard protects mutating routes when AUTH_ENABLED is set and lets
// everything through otherwise.
func authGuard(cfg *config.Config) gin.HandlerFunc {
	if !cfg.AuthEnabled {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.NewAuth(cfg.JWTSecret, cfg.JWTTTL).RequireAuth()
}
