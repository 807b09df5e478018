// Package intake orchestrates one incoming order: read the catalog, interpret
// the text and journal the outcome.
package intake

import (
	"context"
	"strings"
	"time"

	"ortoflow/internal/core/apperror"
	appctx "ortoflow/internal/core/context"
	"ortoflow/internal/core/id"
	"ortoflow/internal/domain/orderparse"
	"ortoflow/pkg/logger"
)

// Catalog supplies the products an order is resolved against.
type Catalog interface {
	Snapshot(ctx context.Context) ([]orderparse.CatalogEntry, error)
}

// Parser is the order interpreter.
type Parser interface {
	Parse(ctx context.Context, rawText string, catalog []orderparse.CatalogEntry, image *orderparse.Image) orderparse.ParsedOrderResult
}

// Request is one order to interpret.
type Request struct {
	Text    string
	Image   *orderparse.Image
	Channel string
}

// MaxTextLength bounds the order text, in bytes.
const MaxTextLength = 16 * 1024

// Service handles order intake.
type Service struct {
	catalog Catalog
	parser  Parser
	journal Journal // optional
	now     func() time.Time
}

// NewService creates the intake service. journal may be nil.
func NewService(catalog Catalog, parser Parser, journal Journal) *Service {
	return &Service{
		catalog: catalog,
		parser:  parser,
		journal: journal,
		now:     time.Now,
	}
}

// Parse interprets one order. Only invalid requests return an error: an
// unreachable catalog or extractor yields a degraded result instead.
func (s *Service) Parse(ctx context.Context, req Request) (orderparse.ParsedOrderResult, error) {
	if strings.TrimSpace(req.Text) == "" && (req.Image == nil || len(req.Image.Data) == 0) {
		return orderparse.ParsedOrderResult{}, apperror.NewValidation("order text or image is required").
			WithDetail("field", "text")
	}
	if len(req.Text) > MaxTextLength {
		return orderparse.ParsedOrderResult{}, apperror.NewValidation("order text too long").
			WithDetail("field", "text").
			WithDetail("maxLength", MaxTextLength)
	}

	if req.Channel != "" && appctx.GetSource(ctx) == nil {
		ctx = appctx.WithSource(ctx, &appctx.Source{Channel: req.Channel})
	}

	var result orderparse.ParsedOrderResult
	catalog, err := s.catalog.Snapshot(ctx)
	if err != nil {
		logger.Warn(ctx, "catalog unavailable, returning raw text only", "error", err)
		result = orderparse.Degraded(req.Text)
	} else {
		result = s.parser.Parse(ctx, req.Text, catalog, req.Image)
	}

	s.record(ctx, req, result)
	return result, nil
}

// History page sizes.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

// Recent returns the latest journaled parses, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]Record, error) {
	if s.journal == nil {
		return []Record{}, nil
	}
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return s.journal.Recent(ctx, limit)
}

func (s *Service) record(ctx context.Context, req Request, result orderparse.ParsedOrderResult) {
	if s.journal == nil {
		return
	}
	rec := Record{
		ID:        id.New(),
		Channel:   req.Channel,
		RequestID: appctx.GetRequestID(ctx),
		RawText:   req.Text,
		Result:    result,
		CreatedAt: s.now().UTC(),
	}
	if err := s.journal.Record(ctx, rec); err != nil {
		logger.Error(ctx, "parse journal write failed", "error", err, "journal_id", rec.ID.String())
	}
}
