package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"ortoflow/internal/core/apperror"
	"ortoflow/internal/core/numerator"
	"ortoflow/internal/infrastructure/http/v1/dto"
)

// NumberingService issues and administers document numbers.
type NumberingService interface {
	NextNumber(ctx context.Context, docType numerator.DocumentType) (string, error)
	Current(ctx context.Context, docType numerator.DocumentType, year int) (int64, error)
	Reset(ctx context.Context, docType numerator.DocumentType, year int, value int64) error
}

// NumberingHandler handles document numbering requests.
type NumberingHandler struct {
	*BaseHandler
	service NumberingService
}

// NewNumberingHandler creates a new numbering handler.
func NewNumberingHandler(base *BaseHandler, service NumberingService) *NumberingHandler {
	return &NumberingHandler{BaseHandler: base, service: service}
}

// Next issues the next number for a document type.
// POST /api/v1/numbering/:type/next
func (h *NumberingHandler) Next(c *gin.Context) {
	docType, ok := h.docType(c)
	if !ok {
		return
	}

	number, err := h.service.NextNumber(c.Request.Context(), docType)
	if err != nil {
		h.Error(c, storeError(err, docType))
		return
	}
	h.OK(c, dto.NumberResponse{Number: number, DocumentType: string(docType)})
}

// Current returns the last issued value of a counter.
// GET /api/v1/numbering/:type/:year
func (h *NumberingHandler) Current(c *gin.Context) {
	docType, ok := h.docType(c)
	if !ok {
		return
	}
	year, ok := h.year(c)
	if !ok {
		return
	}

	n, err := h.service.Current(c.Request.Context(), docType, year)
	if err != nil {
		h.Error(c, storeError(err, docType))
		return
	}
	prefix, _ := docType.Prefix()
	h.OK(c, dto.CounterResponse{DocumentType: string(docType), Prefix: prefix, Year: year, LastValue: n})
}

// Reset sets a counter; the next number issued is value+1.
// PUT /api/v1/numbering/:type/:year
func (h *NumberingHandler) Reset(c *gin.Context) {
	docType, ok := h.docType(c)
	if !ok {
		return
	}
	year, ok := h.year(c)
	if !ok {
		return
	}
	var req dto.ResetCounterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Reset(c.Request.Context(), docType, year, *req.Value); err != nil {
		h.Error(c, storeError(err, docType))
		return
	}
	prefix, _ := docType.Prefix()
	h.OK(c, dto.CounterResponse{DocumentType: string(docType), Prefix: prefix, Year: year, LastValue: *req.Value})
}

func (h *NumberingHandler) docType(c *gin.Context) (numerator.DocumentType, bool) {
	t, err := numerator.ParseDocumentType(c.Param("type"))
	if err != nil {
		h.Error(c, apperror.NewValidation("unknown document type").
			WithDetail("documentType", c.Param("type")).
			WithDetail("allowed", numerator.DocumentTypes()))
		return "", false
	}
	return t, true
}

func (h *NumberingHandler) year(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 || year > 9999 {
		h.Error(c, apperror.NewValidation("invalid year").WithDetail("year", c.Param("year")))
		return 0, false
	}
	return year, true
}

// storeError maps retryable store failures to 503; other errors pass through.
func storeError(err error, docType numerator.DocumentType) error {
	if numerator.IsRetryable(err) {
		return apperror.NewStoreUnavailable(err).WithDetail("documentType", string(docType))
	}
	return err
}
