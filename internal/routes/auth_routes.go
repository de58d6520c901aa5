package routes

import (
	"github.com/gin-gonic/gin"

	"shipment_backoffice/internal/config"
	"shipment_backoffice/internal/controllers"
	"shipment_backoffice/internal/middleware"
)

func AuthRoutes(r *gin.Engine, cfg *config.Config) {
	ac := controllers.NewAuthController(
		middleware.NewAuth(cfg.JWTSecret, cfg.JWTTTL),
		cfg.AdminEmail,
		cfg.AdminPasswordHash,
	)

	auth := r.Group("/auth")
	{
		auth.POST("/login", ac.Login)
	}
}
