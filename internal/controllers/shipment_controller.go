package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shipment_backoffice/internal/services"
)

type ShipmentController struct {
	*CRUDController[services.ShipmentDTO]
	shipments   services.ShipmentService
	assignments services.AssignmentService
}

func NewShipmentController(shipments services.ShipmentService, assignments services.AssignmentService) *ShipmentController {
	return &ShipmentController{
		CRUDController: NewCRUDController[services.ShipmentDTO](shipments, "/api/Shipments",
			func(s *services.ShipmentDTO) uint { return s.ID }),
		shipments:   shipments,
		assignments: assignments,
	}
}

func (sc *ShipmentController) Drivers(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := sc.shipments.Find(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	drivers, err := sc.assignments.ListDriversForShipment(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}
