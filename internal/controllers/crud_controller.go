package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Resource is the service contract every entity exposes.
type Resource[T any] interface {
	List(ctx context.Context) ([]T, error)
	Find(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, input T) (*T, error)
	Update(ctx context.Context, id uint, input T) error
	Delete(ctx context.Context, id uint) error
}

// CRUDController serves the list/find/create/update/delete endpoints shared
// by every entity under basePath.
type CRUDController[T any] struct {
	svc      Resource[T]
	basePath string
	idOf     func(*T) uint
}

func NewCRUDController[T any](svc Resource[T], basePath string, idOf func(*T) uint) *CRUDController[T] {
	return &CRUDController[T]{svc: svc, basePath: basePath, idOf: idOf}
}

func (cc *CRUDController[T]) List(c *gin.Context) {
	items, err := cc.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (cc *CRUDController[T]) Find(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := cc.svc.Find(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (cc *CRUDController[T]) Create(c *gin.Context) {
	var input T
	if !bindJSON(c, &input) {
		return
	}
	created, err := cc.svc.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("%s/%d", cc.basePath, cc.idOf(created)))
	c.JSON(http.StatusCreated, created)
}

func (cc *CRUDController[T]) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input T
	if !bindJSON(c, &input) {
		return
	}
	if err := cc.svc.Update(c.Request.Context(), id, input); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (cc *CRUDController[T]) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := cc.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
