package orderparse

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"ortoflow/internal/core/types"
	"ortoflow/pkg/logger"
)

var tracer = otel.Tracer("ortoflow/orderparse")

// Interpreter converts free-text orders into resolved order lines.
// It is stateless; the catalog is supplied on every call.
type Interpreter struct {
	extractor Extractor
}

// NewInterpreter creates an interpreter backed by extractor.
func NewInterpreter(extractor Extractor) *Interpreter {
	return &Interpreter{extractor: extractor}
}

// Parse extracts raw items from rawText (and image, if any) and resolves each
// against catalog. It never fails: when extraction is unavailable the result
// carries no items, the raw text and Degraded set.
func (in *Interpreter) Parse(ctx context.Context, rawText string, catalog []CatalogEntry, image *Image) ParsedOrderResult {
	ctx, span := tracer.Start(ctx, "orderparse.parse")
	defer span.End()

	available := Available(catalog)
	names := make([]string, len(available))
	for i, e := range available {
		names[i] = e.Name
	}

	extraction, err := in.extract(ctx, ExtractRequest{
		Text:         rawText,
		Image:        image,
		CatalogNames: names,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		logger.Warn(ctx, "order extraction failed, returning raw text only", "error", err)
		return Degraded(rawText)
	}

	result := ParsedOrderResult{
		Items:        make([]ParsedOrderItem, 0, len(extraction.Items)),
		CustomerName: extraction.CustomerName,
		DeliveryDate: extraction.DeliveryDate,
		Notes:        extraction.Notes,
		RawText:      rawText,
	}
	for _, raw := range extraction.Items {
		result.Items = append(result.Items, Resolve(raw, available))
	}

	span.SetAttributes(
		attribute.Int("orderparse.items", len(result.Items)),
		attribute.Int("orderparse.matched", result.MatchedCount()),
	)
	logger.Debug(ctx, "order parsed", "items", len(result.Items), "matched", result.MatchedCount())
	return result
}

// Resolve turns one raw item into an order line, matching against every entry
// of catalog.
func Resolve(raw RawItem, catalog []CatalogEntry) ParsedOrderItem {
	item := ParsedOrderItem{
		ProductName: raw.ProductName,
		Quantity:    types.One,
		Unit:        raw.Unit,
		Confidence:  ConfidenceLow,
	}
	if raw.Quantity != nil {
		item.Quantity = *raw.Quantity
	}
	if entry, ok := Match(raw.ProductName, catalog); ok {
		id := entry.ID
		item.ProductID = &id
		item.Matched = true
		item.Confidence = ConfidenceHigh
	}
	return item
}

// Degraded returns the result used when nothing could be extracted.
func Degraded(rawText string) ParsedOrderResult {
	return ParsedOrderResult{
		Items:    []ParsedOrderItem{},
		RawText:  rawText,
		Degraded: true,
	}
}

func (in *Interpreter) extract(ctx context.Context, req ExtractRequest) (ext Extraction, err error) {
	if in == nil || in.extractor == nil {
		return Extraction{}, fmt.Errorf("no extractor configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extractor panic: %v", r)
		}
	}()
	return in.extractor.Extract(ctx, req)
}

// Available returns the entries that take part in matching, in catalog order.
func Available(catalog []CatalogEntry) []CatalogEntry {
	out := make([]CatalogEntry, 0, len(catalog))
	for _, e := range catalog {
		if e.Available {
			out = append(out, e)
		}
	}
	return out
}
