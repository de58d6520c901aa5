package pages

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"shipment_backoffice/internal/apperrors"
	"shipment_backoffice/internal/middleware"
	"shipment_backoffice/internal/services"
	"shipment_backoffice/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every page template. Each page defines its own name and
// pulls in the shared "header" and "footer".
func Templates() *template.Template {
	return template.Must(template.New("pages").Funcs(template.FuncMap{
		"derefStr":  derefStr,
		"derefUint": derefUint,
	}).ParseFS(templateFS, "templates/*.html"))
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefUint(u *uint) uint {
	if u == nil {
		return 0
	}
	return *u
}

// Handler serves the server-rendered back-office pages.
type Handler struct {
	svc    *services.Services
	images *storage.ImageStore
}

func NewHandler(svc *services.Services, images *storage.ImageStore) *Handler {
	return &Handler{svc: svc, images: images}
}

func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	trucks, err := h.svc.Trucks.List(ctx)
	if err != nil {
		h.renderError(c, err)
		return
	}
	drivers, err := h.svc.Drivers.List(ctx)
	if err != nil {
		h.renderError(c, err)
		return
	}
	shipments, err := h.svc.Shipments.List(ctx)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "home", gin.H{
		"Title":         "Shipment back office",
		"TruckCount":    len(trucks),
		"DriverCount":   len(drivers),
		"ShipmentCount": len(shipments),
	})
}

func (h *Handler) Login(c *gin.Context) {
	c.HTML(http.StatusOK, "login", gin.H{"Title": "Sign in"})
}

// renderError shows the error page with the status matching err.
func (h *Handler) renderError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)
	requestID := middleware.GetRequestID(c)
	if status == http.StatusInternalServerError {
		logrus.WithError(err).
			WithField("request_id", requestID).
			WithField("path", c.FullPath()).
			Error("page failed")
	}
	c.HTML(status, "error", gin.H{
		"Title":     "Error",
		"Status":    status,
		"Messages":  apperrors.Messages(err),
		"RequestID": requestID,
	})
}

// formError re-renders a form with its messages when err is the caller's
// fault, and falls back to the error page otherwise.
func (h *Handler) formError(c *gin.Context, err error, page string, data gin.H) {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation, apperrors.KindConflict, apperrors.KindConcurrency:
		data["Errors"] = apperrors.Messages(err)
		c.HTML(apperrors.StatusCode(err), page, data)
	default:
		h.renderError(c, err)
	}
}

func pathID(c *gin.Context, param string) (uint, error) {
	return formUint(c.Param(param))
}

func formUint(value string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("Invalid ID.")
	}
	return uint(id), nil
}

// bindForm maps the posted form, urlencoded or multipart, onto dst through
// its form tags. A value that does not parse (a non-numeric mileage or
// version) is a validation error.
func bindForm(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindWith(dst, binding.Form); err != nil {
		return apperrors.Validation("The form contains a value that is not a valid number.")
	}
	return nil
}

// Blank optional fields bind as pointers to zero values.
func optionalID(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
