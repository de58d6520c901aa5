package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"shipment_backoffice/internal/apperrors"
	"shipment_backoffice/internal/middleware"
)

// errorBody is the JSON shape of every failed API call.
type errorBody struct {
	Errors    []string `json:"errors"`
	RequestID string   `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)
	requestID := middleware.GetRequestID(c)
	if status == http.StatusInternalServerError {
		logrus.WithError(err).
			WithField("request_id", requestID).
			WithField("path", c.FullPath()).
			Error("request failed")
	}
	c.JSON(status, errorBody{Errors: apperrors.Messages(err), RequestID: requestID})
}

func badRequest(c *gin.Context, messages ...string) {
	c.JSON(http.StatusBadRequest, errorBody{Errors: messages, RequestID: middleware.GetRequestID(c)})
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		badRequest(c, "Invalid ID.")
		return 0, false
	}
	return uint(id), true
}

func parseQueryID(c *gin.Context, key string) (uint, bool) {
	id, err := strconv.ParseUint(c.Query(key), 10, 32)
	if err != nil || id == 0 {
		badRequest(c, key+" must be a positive integer.")
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "Invalid request body.")
		return false
	}
	return true
}
