package pages

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shipment_backoffice/internal/services"
)

func (h *Handler) DriverList(c *gin.Context) {
	drivers, err := h.svc.Drivers.List(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "driver_list", gin.H{"Title": "Drivers", "Drivers": drivers})
}

// DriverDetails shows the driver with the truck they drive and their
// shipments.
func (h *Handler) DriverDetails(c *gin.Context) {
	id, err := pathID(c, "id")
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
	truck, err := h.svc.Drivers.FindAssignedTruck(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	shipments, err := h.svc.Assignments.ListShipmentsForDriver(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "driver_details", gin.H{
		"Title":     "Driver " + driver.Name,
		"Driver":    driver,
		"Truck":     truck,
		"Shipments": shipments,
	})
}

func (h *Handler) DriverNew(c *gin.Context) {
	c.HTML(http.StatusOK, "driver_form", gin.H{
		"Title":  "New driver",
		"Action": "/DriverPage/Add",
		"Driver": services.DriverDTO{},
	})
}

func (h *Handler) DriverAdd(c *gin.Context) {
	input, err := driverFromForm(c)
	var created *services.DriverDTO
	if err == nil {
		created, err = h.svc.Drivers.Create(c.Request.Context(), input)
	}
	if err != nil {
		h.formError(c, err, "driver_form", gin.H{"Title": "New driver", "Action": "/DriverPage/Add", "Driver": input})
		return
	}
	redirect(c, fmt.Sprintf("/DriverPage/Details/%d", created.ID))
}

func (h *Handler) DriverEdit(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.renderError(c, err)
		return
	}
	driver, err := h.svc.Drivers.Find(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "driver_form", gin.H{
		"Title":  "Edit driver",
		"Action": fmt.Sprintf("/DriverPage/Update/%d", id),
		"Driver": driver,
	})
}

func (h *Handler) DriverUpdate(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.renderError(c, err)
		return
	}
	input, err := driverFromForm(c)
	input.ID = id
	if err == nil {
		err = h.svc.Drivers.Update(c.Request.Context(), id, input)
	}
	if err != nil {
		h.formError(c, err, "driver_form", gin.H{
			"Title":  "Edit driver",
			"Action": fmt.Sprintf("/DriverPage/Update/%d", id),
			"Driver": input,
		})
		return
	}
	redirect(c, fmt.Sprintf("/DriverPage/Details/%d", id))
}

func (h *Handler) DriverConfirmDelete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.renderError(c, err)
		return
	}
	driver, err := h.svc.Drivers.Find(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "driver_delete", gin.H{"Title": "Delete driver", "Driver": driver})
}

func (h *Handler) DriverDelete(c *gin.Context) {
	id, err := pathID(c, "id")
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
	if err := h.svc.Drivers.Delete(ctx, id); err != nil {
		h.formError(c, err, "driver_delete", gin.H{"Title": "Delete driver", "Driver": driver})
		return
	}
	redirect(c, "/DriverPage/List")
}

func driverFromForm(c *gin.Context) (services.DriverDTO, error) {
	var input services.DriverDTO
	if err := bindForm(c, &input); err != nil {
		return input, err
	}
	input.Name = strings.TrimSpace(input.Name)
	input.LicenseNumber = strings.TrimSpace(input.LicenseNumber)
	if input.ContactNumber != nil {
		input.ContactNumber = optionalString(*input.ContactNumber)
	}
	return input, nil
}
