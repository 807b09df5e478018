package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"ortoflow/internal/core/apperror"
	"ortoflow/internal/domain/catalogs/product"
	"ortoflow/internal/infrastructure/http/v1/dto"
)

// ProductLister reads the product catalog.
type ProductLister interface {
	ListAvailable(ctx context.Context) ([]*product.Product, error)
}

// ProductHandler serves the product catalog.
type ProductHandler struct {
	*BaseHandler
	service ProductLister
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service ProductLister) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service}
}

// List returns the products on sale, in catalog order.
// GET /api/v1/catalog/products
func (h *ProductHandler) List(c *gin.Context) {
	items, err := h.service.ListAvailable(c.Request.Context())
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	h.OK(c, dto.ListResponse{Items: items, Count: len(items)})
}
