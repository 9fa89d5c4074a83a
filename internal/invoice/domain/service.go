package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoiced/internal/money"
)

// LineItemInput is a caller-supplied billable row before normalization.
type LineItemInput struct {
	Description string      `json:"description"`
	Quantity    int64       `json:"quantity"`
	UnitPrice   money.Money `json:"unitPrice"`
}

// CalculatedLineItem is a normalized row with its derived line total.
type CalculatedLineItem struct {
	Description string
	Quantity    int64
	UnitPrice   money.Money
	LineTotal   money.Money
}

// Calculation is the result of deriving totals from line items.
type Calculation struct {
	LineItems []CalculatedLineItem
	Subtotal  money.Money
	Tax       money.Money
	Total     money.Money
}

// CreateInvoiceRequest creates an invoice with calculated totals.
type CreateInvoiceRequest struct {
	InvoiceNumber string
	ClientID      snowflake.ID
	StatusCode    string
	IssueDate     time.Time
	DueDate       time.Time
	Notes         *string
	TaxRate       *money.Money
	LineItems     []LineItemInput
}

// UpdateInvoiceRequest is a partial update. Nil fields are left untouched;
// totals are recomputed only when LineItems or TaxRate is supplied.
type UpdateInvoiceRequest struct {
	InvoiceNumber *string
	ClientID      *snowflake.ID
	StatusCode    *string
	IssueDate     *time.Time
	DueDate       *time.Time
	Notes         *string
	TaxRate       *money.Money
	LineItems     []LineItemInput
}

// ListInvoiceRequest filters the invoice listing.
type ListInvoiceRequest struct {
	StatusCode *StatusCode
	ClientID   *snowflake.ID
}

// Service is the invoice lifecycle service.
type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (Invoice, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateInvoiceRequest) (Invoice, error)
	GetByID(ctx context.Context, id snowflake.ID) (Invoice, error)
	List(ctx context.Context, req ListInvoiceRequest) ([]Invoice, error)
	ListStatuses(ctx context.Context) ([]InvoiceStatus, error)
}

// CreateClientRequest creates a client.
type CreateClientRequest struct {
	Name  string
	Email string
}

// UpdateClientRequest is a partial client update.
type UpdateClientRequest struct {
	Name  *string
	Email *string
}

// ClientService manages billable customers.
type ClientService interface {
	Create(ctx context.Context, req CreateClientRequest) (Client, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateClientRequest) (Client, error)
	GetByID(ctx context.Context, id snowflake.ID) (Client, error)
	List(ctx context.Context) ([]Client, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

// SendEmailRequest asks for an invoice to be emailed.
type SendEmailRequest struct {
	Template       EmailTemplate
	RecipientEmail string
	Message        string
}

// EmailService dispatches invoice emails and exposes the attempt log.
type EmailService interface {
	Send(ctx context.Context, invoiceID snowflake.ID, req SendEmailRequest) (InvoiceEmailLog, error)
	Logs(ctx context.Context, invoiceID snowflake.ID) ([]InvoiceEmailLog, error)
}

// DocumentStore maps an invoice to its durable PDF artifact.
type DocumentStore interface {
	// EnsureDocument returns the artifact path, generating it on first use.
	// The cache is identity-keyed: an existing readable file is returned
	// unchanged even if the invoice has been edited since.
	EnsureDocument(ctx context.Context, inv Invoice) (string, error)
	// DownloadName is the client-facing filename for the artifact.
	DownloadName(inv Invoice) string
}
