package routes

import (
	"github.com/gin-gonic/gin"

	"shipment_backoffice/internal/pages"
)

func PageRoutes(r *gin.Engine, h *pages.Handler, guard gin.HandlerFunc) {
	r.GET("/", h.Home)
	r.GET("/Login", h.Login)

	truck := r.Group("/TruckPage")
	{
		truck.GET("/List", h.TruckList)
		truck.GET("/Details/:id", h.TruckDetails)
		truck.GET("/New", h.TruckNew)
		truck.POST("/Add", guard, h.TruckAdd)
		truck.GET("/Edit/:id", h.TruckEdit)
		truck.POST("/Update/:id", guard, h.TruckUpdate)
		truck.GET("/ConfirmDelete/:id", h.TruckConfirmDelete)
		truck.POST("/Delete/:id", guard, h.TruckDelete)
	}

	driver := r.Group("/DriverPage")
	{
		driver.GET("/List", h.DriverList)
		driver.GET("/Details/:id", h.DriverDetails)
		driver.GET("/New", h.DriverNew)
		driver.POST("/Add", guard, h.DriverAdd)
		driver.GET("/Edit/:id", h.DriverEdit)
		driver.POST("/Update/:id", guard, h.DriverUpdate)
		driver.GET("/ConfirmDelete/:id", h.DriverConfirmDelete)
		driver.POST("/Delete/:id", guard, h.DriverDelete)
	}

	shipment := r.Group("/ShipmentPage")
	{
		shipment.GET("/List", h.ShipmentList)
		shipment.GET("/Details/:id", h.ShipmentDetails)
		shipment.GET("/New", h.ShipmentNew)
		shipment.POST("/Add", guard, h.ShipmentAdd)
		shipment.GET("/Edit/:id", h.ShipmentEdit)
		shipment.POST("/Update/:id", guard, h.ShipmentUpdate)
		shipment.GET("/ConfirmDelete/:id", h.ShipmentConfirmDelete)
		shipment.POST("/Delete/:id", guard, h.ShipmentDelete)
		shipment.POST("/Assign/:id", guard, h.ShipmentAssign)
		shipment.POST("/Unassign/:id", guard, h.ShipmentUnassign)
		shipment.GET("/ForTruck/:truckId", h.ShipmentsForTruck)
		shipment.GET("/ForDriver/:driverId", h.ShipmentsForDriver)
	}
}
