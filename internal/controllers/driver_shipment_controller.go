package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"shipment_backoffice/internal/services"
)

// assignmentResource lets the generic Create endpoint assign.
type assignmentResource struct {
	services.AssignmentService
}

func (r assignmentResource) Create(ctx context.Context, input services.AssignmentDTO) (*services.AssignmentDTO, error) {
	return r.Assign(ctx, input)
}

type DriverShipmentController struct {
	*CRUDController[services.AssignmentDTO]
	assignments services.AssignmentService
}

func NewDriverShipmentController(assignments services.AssignmentService) *DriverShipmentController {
	return &DriverShipmentController{
		CRUDController: NewCRUDController[services.AssignmentDTO](assignmentResource{assignments}, "/api/DriverShipments",
			func(a *services.AssignmentDTO) uint { return a.ID }),
		assignments: assignments,
	}
}

func (dc *DriverShipmentController) Assign(c *gin.Context) {
	dc.Create(c)
}

// Unassign removes the assignment named by driver_id and shipment_id.
func (dc *DriverShipmentController) Unassign(c *gin.Context) {
	driverID, ok := parseQueryID(c, "driver_id")
	if !ok {
		return
	}
	shipmentID, ok := parseQueryID(c, "shipment_id")
	if !ok {
		return
	}
	if err := dc.assignments.Unassign(c.Request.Context(), driverID, shipmentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Pair looks an assignment up by driver_id and shipment_id.
func (dc *DriverShipmentController) Pair(c *gin.Context) {
	driverID, ok := parseQueryID(c, "driver_id")
	if !ok {
		return
	}
	shipmentID, ok := parseQueryID(c, "shipment_id")
	if !ok {
		return
	}
	a, err := dc.assignments.FindPair(c.Request.Context(), driverID, shipmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Location", fmt.Sprintf("/api/DriverShipments/%d", a.ID))
	c.JSON(http.StatusOK, a)
}
