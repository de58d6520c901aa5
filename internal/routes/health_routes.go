package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"shipment_backoffice/internal/controllers"
)

func HealthRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/health", controllers.NewHealthController(db).HealthCheck)
}
