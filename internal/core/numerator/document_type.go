// Package numerator provides domain contracts for document auto-numbering.
// Implementations live in infrastructure layer.
package numerator

import (
	"fmt"
	"strings"
)

// DocumentType is a business document kind that carries a human-readable
// sequential number.
type DocumentType string

const (
	DocumentOrder           DocumentType = "ORDER"
	DocumentDeliveryNote    DocumentType = "DELIVERY_NOTE" // DDT
	DocumentInvoice         DocumentType = "INVOICE"
	DocumentCustomer        DocumentType = "CUSTOMER"
	DocumentSupplier        DocumentType = "SUPPLIER"
	DocumentPurchaseOrder   DocumentType = "PURCHASE_ORDER"
	DocumentSupplierInvoice DocumentType = "SUPPLIER_INVOICE"
)

var prefixes = map[DocumentType]string{
	DocumentOrder:           "ORD",
	DocumentDeliveryNote:    "DDT",
	DocumentInvoice:         "FT",
	DocumentCustomer:        "CLI",
	DocumentSupplier:        "FOR",
	DocumentPurchaseOrder:   "OA",
	DocumentSupplierInvoice: "FT-FORN",
}

// DocumentTypes returns all known document types in a stable order.
func DocumentTypes() []DocumentType {
	return []DocumentType{
		DocumentOrder,
		DocumentDeliveryNote,
		DocumentInvoice,
		DocumentCustomer,
		DocumentSupplier,
		DocumentPurchaseOrder,
		DocumentSupplierInvoice,
	}
}

// Prefix returns the fixed number prefix for the document type.
func (t DocumentType) Prefix() (string, bool) {
	p, ok := prefixes[t]
	return p, ok
}

// Valid reports whether t is one of the known document types.
func (t DocumentType) Valid() bool {
	_, ok := prefixes[t]
	return ok
}

// ParseDocumentType accepts the canonical name in any case, with '-' or '_'
// separators ("delivery-note", "DELIVERY_NOTE").
func ParseDocumentType(s string) (DocumentType, error) {
	t := DocumentType(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if !t.Valid() {
		return "", fmt.Errorf("unknown document type %q", s)
	}
	return t, nil
}

// Key identifies one counter: a document type within a calendar year.
type Key struct {
	Type DocumentType
	Year int
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d", k.Type, k.Year)
}
