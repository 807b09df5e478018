package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"ortoflow/internal/core/apperror"
	appctx "ortoflow/internal/core/context"
	"ortoflow/internal/domain/intake"
	"ortoflow/internal/domain/orderparse"
	"ortoflow/internal/infrastructure/http/v1/dto"
)

// IntakeService interprets incoming orders.
type IntakeService interface {
	Parse(ctx context.Context, req intake.Request) (orderparse.ParsedOrderResult, error)
	Recent(ctx context.Context, limit int) ([]intake.Record, error)
}

// OrderHandler handles free-text order parsing.
type OrderHandler struct {
	*BaseHandler
	service IntakeService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(base *BaseHandler, service IntakeService) *OrderHandler {
	return &OrderHandler{BaseHandler: base, service: service}
}

// Parse interprets an order. Degraded parses are still 200.
// POST /api/v1/orders/parse
func (h *OrderHandler) Parse(c *gin.Context) {
	var body dto.ParseOrderRequest
	if !h.BindJSON(c, &body) {
		return
	}
	req, err := body.ToDomain()
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()).WithDetail("field", "image"))
		return
	}

	ctx := appctx.WithSource(c.Request.Context(), &appctx.Source{Channel: req.Channel, ClientIP: c.ClientIP()})
	result, err := h.service.Parse(ctx, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// History returns the latest journaled parses.
// GET /api/v1/orders/parses?limit=50
func (h *OrderHandler) History(c *gin.Context) {
	records, err := h.service.Recent(c.Request.Context(), h.ParseIntQuery(c, "limit", 50))
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	h.OK(c, dto.ListResponse{Items: records, Count: len(records)})
}
