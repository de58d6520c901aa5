package pages

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"shipment_backoffice/internal/services"
)

func (h *Handler) TruckList(c *gin.Context) {
	trucks, err := h.svc.Trucks.List(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "truck_list", gin.H{"Title": "Trucks", "Trucks": trucks})
}

func (h *Handler) TruckDetails(c *gin.Context) {
	id, err := pathID(c, "id")
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
	shipments, err := h.svc.Trucks.ListShipments(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "truck_details", gin.H{
		"Title":     "Truck " + truck.Model,
		"Truck":     truck,
		"Shipments": shipments,
	})
}

func (h *Handler) TruckNew(c *gin.Context) {
	h.renderTruckForm(c, http.StatusOK, "New truck", "/TruckPage/Add", services.TruckDTO{}, nil)
}

func (h *Handler) TruckAdd(c *gin.Context) {
	input, err := truckFromForm(c)
	if err != nil {
		h.renderTruckForm(c, http.StatusBadRequest, "New truck", "/TruckPage/Add", input, err)
		return
	}

	ctx := c.Request.Context()
	created, err := h.svc.Trucks.Create(ctx, input)
	if err != nil {
		h.renderTruckForm(c, 0, "New truck", "/TruckPage/Add", input, err)
		return
	}

	if file, ferr := c.FormFile("TruckPhoto"); ferr == nil {
		src, err := file.Open()
		if err == nil {
			defer src.Close()
			webPath, err := h.images.SaveTruckImage(created.ID, file.Filename, src)
			if err != nil {
				h.renderError(c, err)
				return
			}
			if _, err := h.svc.Trucks.SetImagePath(ctx, created.ID, webPath); err != nil {
				h.removeImage(webPath)
				h.renderError(c, err)
				return
			}
		}
	}
	redirect(c, fmt.Sprintf("/TruckPage/Details/%d", created.ID))
}

func (h *Handler) TruckEdit(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.renderError(c, err)
		return
	}
	truck, err := h.svc.Trucks.Find(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.renderTruckForm(c, http.StatusOK, "Edit truck", fmt.Sprintf("/TruckPage/Update/%d", id), *truck, nil)
}

// TruckUpdate saves the form. A new TruckPhoto replaces the stored one;
// without it the current photo is kept.
func (h *Handler) TruckUpdate(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.renderError(c, err)
		return
	}
	action := fmt.Sprintf("/TruckPage/Update/%d", id)
	ctx := c.Request.Context()

	current, err := h.svc.Trucks.Find(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	input, err := truckFromForm(c)
	input.ID = id
	input.TruckImagePath = current.TruckImagePath
	if err != nil {
		h.renderTruckForm(c, http.StatusBadRequest, "Edit truck", action, input, err)
		return
	}

	var newPath string
	if file, ferr := c.FormFile("TruckPhoto"); ferr == nil {
		src, err := file.Open()
		if err != nil {
			h.renderError(c, err)
			return
		}
		newPath, err = h.images.SaveTruckImage(id, file.Filename, src)
		src.Close()
		if err != nil {
			h.renderTruckForm(c, 0, "Edit truck", action, input, err)
			return
		}
	}

	if err := h.svc.Trucks.Update(ctx, id, input); err != nil {
		if newPath != "" {
			h.removeImage(newPath)
		}
		h.renderTruckForm(c, 0, "Edit truck", action, input, err)
		return
	}
	if newPath != "" {
		if _, err := h.svc.Trucks.SetImagePath(ctx, id, newPath); err != nil {
			h.removeImage(newPath)
			h.renderError(c, err)
			return
		}
		if current.TruckImagePath != nil {
			h.removeImage(*current.TruckImagePath)
		}
	}
	redirect(c, fmt.Sprintf("/TruckPage/Details/%d", id))
}

func (h *Handler) TruckConfirmDelete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.renderError(c, err)
		return
	}
	truck, err := h.svc.Trucks.Find(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "truck_delete", gin.H{"Title": "Delete truck", "Truck": truck})
}

func (h *Handler) TruckDelete(c *gin.Context) {
	id, err := pathID(c, "id")
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
	if err := h.svc.Trucks.Delete(ctx, id); err != nil {
		h.formError(c, err, "truck_delete", gin.H{"Title": "Delete truck", "Truck": truck})
		return
	}
	if truck.TruckImagePath != nil {
		h.removeImage(*truck.TruckImagePath)
	}
	redirect(c, "/TruckPage/List")
}

// renderTruckForm shows the truck form. A zero status takes the status from
// err.
func (h *Handler) renderTruckForm(c *gin.Context, status int, title, action string, truck services.TruckDTO, err error) {
	drivers, derr := h.svc.Drivers.List(c.Request.Context())
	if derr != nil {
		h.renderError(c, derr)
		return
	}
	data := gin.H{"Title": title, "Action": action, "Truck": truck, "Drivers": drivers}
	if err != nil {
		h.formError(c, err, "truck_form", data)
		return
	}
	c.HTML(status, "truck_form", data)
}

func (h *Handler) removeImage(webPath string) {
	if err := h.images.Remove(webPath); err != nil {
		logrus.WithError(err).WithField("path", webPath).Warn("could not remove truck image")
	}
}

func truckFromForm(c *gin.Context) (services.TruckDTO, error) {
	var input services.TruckDTO
	if err := bindForm(c, &input); err != nil {
		return input, err
	}
	input.Model = strings.TrimSpace(input.Model)
	input.LastMaintenanceDate = strings.TrimSpace(input.LastMaintenanceDate)
	input.AssignedDriverID = optionalID(input.AssignedDriverID)
	return input, nil
}
