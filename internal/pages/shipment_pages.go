package pages

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shipment_backoffice/internal/apperrors"
	"shipment_backoffice/internal/services"
)

func (h *Handler) ShipmentList(c *gin.Context) {
	shipments, err := h.svc.Shipments.List(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "shipment_list", gin.H{"Title": "Shipments", "Shipments": shipments})
}

func (h *Handler) ShipmentsForTruck(c *gin.Context) {
	id, err := pathID(c, "truckId")
	if err != nil {
		h.renderError(c, err)
		return
	}
	ctx := c.Request.Context()
	truck, err := h.svc.Trucks.Find(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	shipments, err := h.svc.Shipments.ListForTruck(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "shipment_list", gin.H{
		"Title":     fmt.Sprintf("Shipments for truck %s", truck.Model),
		"Shipments": shipments,
	})
}

func (h *Handler) ShipmentsForDriver(c *gin.Context) {
	id, err := pathID(c, "driverId")
	if err != nil {
		h.renderError(c, err)
		return
	}
	ctx := c.Request.Context()
	driver, err := h.svc.Drivers.Find(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	shipments, err := h.svc.Shipments.ListForDriver(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "shipment_list", gin.H{
		"Title":     fmt.Sprintf("Shipments for %s", driver.Name),
		"Shipments": shipments,
	})
}

// ShipmentDetails lists the assigned drivers and offers the others for
// assignment.
func (h *Handler) ShipmentDetails(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.renderShipmentDetails(c, http.StatusOK, id, nil)
}

func (h *Handler) renderShipmentDetails(c *gin.Context, status int, id uint, messages []string) {
	ctx := c.Request.Context()
	shipment, err := h.svc.Shipments.Find(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	assigned, err := h.svc.Assignments.ListDriversForShipment(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	all, err := h.svc.Drivers.List(ctx)
	if err != nil {
		h.renderError(c, err)
		return
	}

	taken := make(map[uint]bool, len(assigned))
	for _, d := range assigned {
		taken[d.ID] = true
	}
	available := make([]services.DriverDTO, 0, len(all))
	for _, d := range all {
		if !taken[d.ID] {
			available = append(available, d)
		}
	}

	c.HTML(status, "shipment_details", gin.H{
		"Title":            fmt.Sprintf("Shipment %s to %s", shipment.Origin, shipment.Destination),
		"Shipment":         shipment,
		"AssignedDrivers":  assigned,
		"AvailableDrivers": available,
		"Errors":           messages,
	})
}

func (h *Handler) ShipmentAssign(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.renderError(c, err)
		return
	}
	driverID, err := formUint(c.PostForm("driver_id"))
	if err != nil {
		h.renderShipmentDetails(c, http.StatusBadRequest, id, []string{"Choose a driver to assign."})
		return
	}
	_, err = h.svc.Assignments.Assign(c.Request.Context(), services.AssignmentDTO{
		DriverID:   driverID,
		ShipmentID: id,
		Role:       optionalString(c.PostForm("role")),
	})
	if err != nil {
		h.assignmentError(c, id, err)
		return
	}
	redirect(c, fmt.Sprintf("/ShipmentPage/Details/%d", id))
}

func (h *Handler) ShipmentUnassign(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.renderError(c, err)
		return
	}
	driverID, err := formUint(c.PostForm("driver_id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	if err := h.svc.Assignments.Unassign(c.Request.Context(), driverID, id); err != nil {
		h.assignmentError(c, id, err)
		return
	}
	redirect(c, fmt.Sprintf("/ShipmentPage/Details/%d", id))
}

func (h *Handler) assignmentError(c *gin.Context, shipmentID uint, err error) {
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		h.renderError(c, err)
		return
	}
	h.renderShipmentDetails(c, status, shipmentID, apperrors.Messages(err))
}

func (h *Handler) ShipmentNew(c *gin.Context) {
	h.renderShipmentForm(c, http.StatusOK, "New shipment", "/ShipmentPage/Add", services.ShipmentDTO{Status: "Pending"}, nil)
}

func (h *Handler) ShipmentAdd(c *gin.Context) {
	input, err := shipmentFromForm(c)
	if err == nil {
		var created *services.ShipmentDTO
		if created, err = h.svc.Shipments.Create(c.Request.Context(), input); err == nil {
			redirect(c, fmt.Sprintf("/ShipmentPage/Details/%d", created.ID))
			return
		}
	}
	h.renderShipmentForm(c, 0, "New shipment", "/ShipmentPage/Add", input, err)
}

func (h *Handler) ShipmentEdit(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.renderError(c, err)
		return
	}
	shipment, err := h.svc.Shipments.Find(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.renderShipmentForm(c, http.StatusOK, "Edit shipment", fmt.Sprintf("/ShipmentPage/Update/%d", id), *shipment, nil)
}

func (h *Handler) ShipmentUpdate(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.renderError(c, err)
		return
	}
	input, err := shipmentFromForm(c)
	input.ID = id
	if err == nil {
		if err = h.svc.Shipments.Update(c.Request.Context(), id, input); err == nil {
			redirect(c, fmt.Sprintf("/ShipmentPage/Details/%d", id))
			return
		}
	}
	h.renderShipmentForm(c, 0, "Edit shipment", fmt.Sprintf("/ShipmentPage/Update/%d", id), input, err)
}

func (h *Handler) ShipmentConfirmDelete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.renderError(c, err)
		return
	}
	shipment, err := h.svc.Shipments.Find(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "shipment_delete", gin.H{"Title": "Delete shipment", "Shipment": shipment})
}

func (h *Handler) ShipmentDelete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.renderError(c, err)
		return
	}
	ctx := c.Request.Context()
	shipment, err := h.svc.Shipments.Find(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if err := h.svc.Shipments.Delete(ctx, id); err != nil {
		h.formError(c, err, "shipment_delete", gin.H{"Title": "Delete shipment", "Shipment": shipment})
		return
	}
	redirect(c, "/ShipmentPage/List")
}

func (h *Handler) renderShipmentForm(c *gin.Context, status int, title, action string, shipment services.ShipmentDTO, err error) {
	trucks, terr := h.svc.Trucks.List(c.Request.Context())
	if terr != nil {
		h.renderError(c, terr)
		return
	}
	data := gin.H{"Title": title, "Action": action, "Shipment": shipment, "Trucks": trucks}
	if err != nil {
		h.formError(c, err, "shipment_form", data)
		return
	}
	c.HTML(status, "shipment_form", data)
}

func shipmentFromForm(c *gin.Context) (services.ShipmentDTO, error) {
	var input services.ShipmentDTO
	if err := bindForm(c, &input); err != nil {
		return input, err
	}
	input.Origin = strings.TrimSpace(input.Origin)
	input.Destination = strings.TrimSpace(input.Destination)
	input.Status = strings.TrimSpace(input.Status)
	return input, nil
}
