// Package domain contains persistence models and contracts for invoicing.
package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoiced/internal/money"
)

// StatusCode identifies an invoice lifecycle stage.
type StatusCode string

const (
	StatusDraft   StatusCode = "DRAFT"
	StatusSent    StatusCode = "SENT"
	StatusPaid    StatusCode = "PAID"
	StatusOverdue StatusCode = "OVERDUE"
)

// DefaultStatusCode is applied when a create request omits a status.
const DefaultStatusCode = StatusDraft

// NormalizeStatusCode trims and upper-cases a caller-supplied code.
func NormalizeStatusCode(code string) StatusCode {
	return StatusCode(strings.ToUpper(strings.TrimSpace(code)))
}

// InvoiceStatus is a row in the closed status reference table.
type InvoiceStatus struct {
	Code      StatusCode `gorm:"primaryKey;type:text" json:"code"`
	Label     string     `gorm:"type:text;not null" json:"label"`
	SortOrder int        `gorm:"not null;default:0" json:"sortOrder"`
}

// TableName sets the database table name.
func (InvoiceStatus) TableName() string { return "invoice_statuses" }

// Client is a billable customer.
type Client struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Email     string       `gorm:"type:text;not null;uniqueIndex" json:"email"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }

// Invoice is a persisted invoice with its derived monetary totals.
//
// Invariant: Subtotal = round(sum of line totals), Tax = round(Subtotal * rate),
// Total = round(Subtotal + Tax), all at two decimals.
type Invoice struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	InvoiceNumber string            `gorm:"type:text;not null;uniqueIndex" json:"invoiceNumber"`
	ClientID      snowflake.ID      `gorm:"not null;index" json:"clientId"`
	Client        Client            `json:"client"`
	StatusCode    StatusCode        `gorm:"type:text;not null" json:"statusCode"`
	Status        InvoiceStatus     `gorm:"foreignKey:StatusCode;references:Code" json:"status"`
	IssueDate     time.Time         `gorm:"not null" json:"issueDate"`
	DueDate       time.Time         `gorm:"not null" json:"dueDate"`
	Notes         *string           `gorm:"type:text" json:"notes"`
	Subtotal      money.Money       `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax           money.Money       `gorm:"type:decimal(12,2);not null" json:"tax"`
	Total         money.Money       `gorm:"type:decimal(12,2);not null" json:"total"`
	LineItems     []InvoiceLineItem `json:"lineItems"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceLineItem is one billable row on an invoice.
type InvoiceLineItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID   snowflake.ID `gorm:"not null;index" json:"invoiceId"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Quantity    int64        `gorm:"not null" json:"quantity"`
	UnitPrice   money.Money  `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	LineTotal   money.Money  `gorm:"type:decimal(12,2);not null" json:"lineTotal"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// TableName sets the database table name.
func (InvoiceLineItem) TableName() string { return "invoice_line_items" }

// InvoiceEmailLog records one delivery attempt. Append-only; rows are never
// mutated or deleted.
type InvoiceEmailLog struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID      snowflake.ID `gorm:"not null;index" json:"invoiceId"`
	RecipientEmail string       `gorm:"type:text;not null" json:"recipientEmail"`
	TemplateName   string       `gorm:"type:text;not null" json:"templateName"`
	Subject        string       `gorm:"type:text;not null" json:"subject"`
	Success        bool         `gorm:"not null" json:"success"`
	ErrorMessage   *string      `gorm:"type:text" json:"errorMessage"`
	MessageID      *string      `gorm:"type:text" json:"messageId"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// TableName sets the database table name.
func (InvoiceEmailLog) TableName() string { return "invoice_email_logs" }
