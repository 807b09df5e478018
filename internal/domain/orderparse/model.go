// Package orderparse turns free-text orders (chat messages, transcribed voice
// notes, scanned slips) into structured order lines resolved against the
// product catalog.
package orderparse

import (
	"encoding/base64"
	"fmt"
	"time"

	"ortoflow/internal/core/types"
)

// Unit is a unit-of-measure code.
type Unit string

const (
	UnitKilogram Unit = "KG"
	UnitGram     Unit = "G"
	UnitPiece    Unit = "PZ"    // pezzi
	UnitCrate    Unit = "CASSA" // cassa / cassetta
	UnitBunch    Unit = "MAZZO" // mazzo (herbs, asparagus)
	UnitPack     Unit = "CONF"  // confezione, vaschetta
	UnitLiter    Unit = "LT"
)

// Units lists the accepted unit codes.
func Units() []Unit {
	return []Unit{UnitKilogram, UnitGram, UnitPiece, UnitCrate, UnitBunch, UnitPack, UnitLiter}
}

// Valid reports whether u is a known unit code.
func (u Unit) Valid() bool {
	for _, known := range Units() {
		if u == known {
			return true
		}
	}
	return false
}

// Confidence is the coarse match indicator: a catalog entry was resolved, or not.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// CatalogEntry is a product eligible for matching.
type CatalogEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Unit      Unit   `json:"unit"`
	Available bool   `json:"available"`
}

// Image is an optional picture of the order (photo of a handwritten list,
// screenshot).
type Image struct {
	MIMEType string
	Data     []byte
}

// DataURI encodes the image as a data: URI.
func (img *Image) DataURI() string {
	mt := img.MIMEType
	if mt == "" {
		mt = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mt, base64.StdEncoding.EncodeToString(img.Data))
}

// RawItem is one line as produced by extraction, before catalog resolution.
type RawItem struct {
	ProductName string
	Quantity    *types.Quantity // nil when the text did not state one
	Unit        Unit
}

// Extraction is the structured output of the extraction step.
type Extraction struct {
	Items        []RawItem
	CustomerName *string
	DeliveryDate *time.Time
	Notes        *string
}

// ParsedOrderItem is a resolved order line.
type ParsedOrderItem struct {
	ProductName string         `json:"productName"`
	ProductID   *string        `json:"productId,omitempty"`
	Quantity    types.Quantity `json:"quantity"`
	Unit        Unit           `json:"unit"`
	Matched     bool           `json:"matched"`
	Confidence  Confidence     `json:"confidence"`
}

// ParsedOrderResult is the outcome of one Parse call.
type ParsedOrderResult struct {
	Items        []ParsedOrderItem `json:"items"`
	CustomerName *string           `json:"customerName,omitempty"`
	DeliveryDate *time.Time        `json:"deliveryDate,omitempty"`
	Notes        *string           `json:"notes,omitempty"`

	// RawText is the verbatim input, kept even when nothing could be parsed.
	RawText string `json:"rawText"`

	// Degraded is set when extraction failed and Items is empty for that reason.
	Degraded bool `json:"degraded"`
}

// MatchedCount returns how many items were resolved to a catalog entry.
func (r ParsedOrderResult) MatchedCount() int {
	n := 0
	for _, it := range r.Items {
		if it.Matched {
			n++
		}
	}
	return n
}
