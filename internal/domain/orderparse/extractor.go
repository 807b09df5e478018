package orderparse

import "context"

// ExtractRequest is what the extraction capability receives.
type ExtractRequest struct {
	Text  string
	Image *Image

	// CatalogNames grounds the extraction in the products actually on sale.
	CatalogNames []string
}

// Extractor turns raw text (and optionally an image) into raw order lines.
// Implementations are backed by an external language model.
type Extractor interface {
	Extract(ctx context.Context, req ExtractRequest) (Extraction, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(ctx context.Context, req ExtractRequest) (Extraction, error)

// Extract implements Extractor.
func (f ExtractorFunc) Extract(ctx context.Context, req ExtractRequest) (Extraction, error) {
	return f(ctx, req)
}
