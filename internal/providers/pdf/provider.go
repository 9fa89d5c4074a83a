// Package pdf renders invoice documents.
package pdf

import (
	"context"
	"time"
)

// InvoiceData is the render-ready view of an invoice. All monetary values are
// pre-formatted display strings; the renderer does no arithmetic.
type InvoiceData struct {
	InvoiceNumber string
	IssueDate     string
	DueDate       string

	BillToName  string
	BillToEmail string

	Items []InvoiceItem

	Subtotal string
	Tax      string
	Total    string

	Notes string

	// Document metadata. Creation and modification stamps come from the
	// invoice's own timestamps so output depends only on invoice fields.
	Title      string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// InvoiceItem is one table row.
type InvoiceItem struct {
	Description string
	Quantity    int64
	UnitPrice   string
	LineTotal   string
}

// Provider renders an invoice into PDF bytes.
type Provider interface {
	GenerateInvoice(ctx context.Context, data InvoiceData) ([]byte, error)
}
