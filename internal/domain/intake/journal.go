package intake

import (
	"context"
	"time"

	"ortoflow/internal/core/id"
	"ortoflow/internal/domain/orderparse"
)

// Record is one journaled parse.
type Record struct {
	ID        id.ID                        `json:"id"`
	Channel   string                       `json:"channel"`
	RequestID string                       `json:"requestId,omitempty"`
	RawText   string                       `json:"rawText"`
	Result    orderparse.ParsedOrderResult `json:"result"`
	CreatedAt time.Time                    `json:"createdAt"`
}

// Journal persists parse outcomes for later review.
type Journal interface {
	Record(ctx context.Context, rec Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
}
