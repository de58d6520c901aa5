package routes

import (
	"github.com/gin-gonic/gin"

	"shipment_backoffice/internal/controllers"
	"shipment_backoffice/internal/services"
	"shipment_backoffice/internal/storage"
)

// crudHandlers is the endpoint set every entity controller provides.
type crudHandlers interface {
	List(c *gin.Context)
	Find(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// registerCRUD mounts list/find/create/update/delete on g. Writes go
// through guard.
func registerCRUD(g *gin.RouterGroup, h crudHandlers, guard gin.HandlerFunc) {
	g.GET("/list", h.List)
	g.GET("/List", h.List)
	g.GET("/:id", h.Find)
	g.POST("/Create", guard, h.Create)
	g.PUT("/:id", guard, h.Update)
	g.DELETE("/:id", guard, h.Delete)
}

func TruckRoutes(api *gin.RouterGroup, svc *services.Services, images *storage.ImageStore, guard gin.HandlerFunc) {
	tc := controllers.NewTruckController(svc.Trucks, images)

	trucks := api.Group("/Trucks")
	{
		registerCRUD(trucks, tc, guard)
		trucks.GET("/:id/shipments", tc.Shipments)
		trucks.POST("/UploadImage/:id", guard, tc.UploadImage)
	}
}

func DriverRoutes(api *gin.RouterGroup, svc *services.Services, guard gin.HandlerFunc) {
	dc := controllers.NewDriverController(svc.Drivers, svc.Assignments)

	drivers := api.Group("/Drivers")
	{
		registerCRUD(drivers, dc, guard)
		drivers.GET("/:id/shipments", dc.Shipments)
		drivers.GET("/:id/truck", dc.Truck)
	}
}

func ShipmentRoutes(api *gin.RouterGroup, svc *services.Services, guard gin.HandlerFunc) {
	sc := controllers.NewShipmentController(svc.Shipments, svc.Assignments)

	shipments := api.Group("/Shipments")
	{
		registerCRUD(shipments, sc, guard)
		shipments.GET("/:id/drivers", sc.Drivers)
	}
}

func CustomerRoutes(api *gin.RouterGroup, svc *services.Services, guard gin.HandlerFunc) {
	registerCRUD(api.Group("/Customer"), controllers.NewCustomerController(svc.Customers), guard)
}

func DriverShipmentRoutes(api *gin.RouterGroup, svc *services.Services, guard gin.HandlerFunc) {
	dc := controllers.NewDriverShipmentController(svc.Assignments)

	assignments := api.Group("/DriverShipments")
	{
		registerCRUD(assignments, dc, guard)
		assignments.GET("/Find", dc.Pair)
		assignments.POST("/Assign", guard, dc.Assign)
		assignments.DELETE("/Unassign", guard, dc.Unassign)
	}
}
