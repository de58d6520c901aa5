package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"shipment_backoffice/internal/services"
	"shipment_backoffice/internal/storage"
)

type TruckController struct {
	*CRUDController[services.TruckDTO]
	trucks services.TruckService
	images *storage.ImageStore
}

func NewTruckController(trucks services.TruckService, images *storage.ImageStore) *TruckController {
	return &TruckController{
		CRUDController: NewCRUDController[services.TruckDTO](trucks, "/api/Trucks",
			func(t *services.TruckDTO) uint { return t.ID }),
		trucks: trucks,
		images: images,
	}
}

// Delete removes the truck and its stored photo.
func (tc *TruckController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	truck, err := tc.trucks.Find(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := tc.trucks.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	tc.removeImage(truck.TruckImagePath)
	c.Status(http.StatusNoContent)
}

func (tc *TruckController) Shipments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	shipments, err := tc.trucks.ListShipments(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipments)
}

// UploadImage stores the multipart "image" field as the truck's photo.
func (tc *TruckController) UploadImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	file, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "No image file was uploaded.")
		return
	}

	ctx := c.Request.Context()
	truck, err := tc.trucks.Find(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	src, err := file.Open()
	if err != nil {
		badRequest(c, "The uploaded file could not be read.")
		return
	}
	defer src.Close()

	webPath, err := tc.images.SaveTruckImage(id, file.Filename, src)
	if err != nil {
		respondError(c, err)
		return
	}
	updated, err := tc.trucks.SetImagePath(ctx, id, webPath)
	if err != nil {
		tc.removeImage(&webPath)
		respondError(c, err)
		return
	}
	tc.removeImage(truck.TruckImagePath)

	c.JSON(http.StatusOK, updated)
}

func (tc *TruckController) removeImage(webPath *string) {
	if webPath == nil || *webPath == "" {
		return
	}
	if err := tc.images.Remove(*webPath); err != nil {
		logrus.WithError(err).WithField("path", *webPath).Warn("could not remove truck image")
	}
}
