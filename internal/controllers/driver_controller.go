package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shipment_backoffice/internal/services"
)

type DriverController struct {
	*CRUDController[services.DriverDTO]
	drivers     services.DriverService
	assignments services.AssignmentService
}

func NewDriverController(drivers services.DriverService, assignments services.AssignmentService) *DriverController {
	return &DriverController{
		CRUDController: NewCRUDController[services.DriverDTO](drivers, "/api/Drivers",
			func(d *services.DriverDTO) uint { return d.ID }),
		drivers:     drivers,
		assignments: assignments,
	}
}

func (dc *DriverController) Shipments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := dc.drivers.Find(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	shipments, err := dc.assignments.ListShipmentsForDriver(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipments)
}

// Truck answers 204 when the driver exists but drives no truck.
func (dc *DriverController) Truck(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	truck, err := dc.drivers.FindAssignedTruck(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if truck == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, truck)
}
