package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/invoiced/internal/invoice/domain"
	"github.com/smallbiznis/invoiced/internal/money"
)

type lineItemPayload struct {
	Description string      `json:"description" binding:"required"`
	Quantity    int64       `json:"quantity" binding:"required"`
	UnitPrice   money.Money `json:"unitPrice"`
}

type createInvoicePayload struct {
	InvoiceNumber string            `json:"invoiceNumber" binding:"required"`
	ClientID      string            `json:"clientId" binding:"required"`
	StatusCode    string            `json:"statusCode"`
	IssueDate     string            `json:"issueDate" binding:"required"`
	DueDate       string            `json:"dueDate" binding:"required"`
	Notes         *string           `json:"notes"`
	TaxRate       *money.Money      `json:"taxRate"`
	LineItems     []lineItemPayload `json:"lineItems" binding:"required"`
}

type updateInvoicePayload struct {
	InvoiceNumber *string           `json:"invoiceNumber"`
	ClientID      *string           `json:"clientId"`
	StatusCode    *string           `json:"statusCode"`
	IssueDate     *string           `json:"issueDate"`
	DueDate       *string           `json:"dueDate"`
	Notes         *string           `json:"notes"`
	TaxRate       *money.Money      `json:"taxRate"`
	LineItems     []lineItemPayload `json:"lineItems"`
}

func (s *Server) ListInvoices(c *gin.Context) {
	req := domain.ListInvoiceRequest{}

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		code := domain.NormalizeStatusCode(status)
		req.StatusCode = &code
	}
	if raw := strings.TrimSpace(c.Query("clientId")); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, domain.ErrInvalidRequest)
			return
		}
		req.ClientID = &id
	}

	invoices, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoices})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	inv, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var payload createInvoicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, domain.ErrInvalidRequest)
		return
	}

	clientID, err := snowflake.ParseString(payload.ClientID)
	if err != nil {
		AbortWithError(c, domain.ErrInvalidRequest)
		return
	}

	issueDate, ok := parseDate(c, payload.IssueDate)
	if !ok {
		return
	}
	dueDate, ok := parseDate(c, payload.DueDate)
	if !ok {
		return
	}

	req := domain.CreateInvoiceRequest{
		InvoiceNumber: payload.InvoiceNumber,
		ClientID:      clientID,
		StatusCode:    payload.StatusCode,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		Notes:         payload.Notes,
		TaxRate:       payload.TaxRate,
		LineItems:     toLineItemInputs(payload.LineItems),
	}

	inv, err := s.invoiceSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": inv})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var payload updateInvoicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, domain.ErrInvalidRequest)
		return
	}

	req := domain.UpdateInvoiceRequest{
		InvoiceNumber: payload.InvoiceNumber,
		StatusCode:    payload.StatusCode,
		Notes:         payload.Notes,
		TaxRate:       payload.TaxRate,
	}

	if payload.ClientID != nil {
		clientID, err := snowflake.ParseString(*payload.ClientID)
		if err != nil {
			AbortWithError(c, domain.ErrInvalidRequest)
			return
		}
		req.ClientID = &clientID
	}
	if payload.IssueDate != nil {
		issueDate, ok := parseDate(c, *payload.IssueDate)
		if !ok {
			return
		}
		req.IssueDate = &issueDate
	}
	if payload.DueDate != nil {
		dueDate, ok := parseDate(c, *payload.DueDate)
		if !ok {
			return
		}
		req.DueDate = &dueDate
	}
	if payload.LineItems != nil {
		req.LineItems = toLineItemInputs(payload.LineItems)
	}

	inv, err := s.invoiceSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) ListInvoiceStatuses(c *gin.Context) {
	statuses, err := s.invoiceSvc.ListStatuses(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": statuses})
}

func (s *Server) DownloadInvoicePDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	inv, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	path, err := s.documents.EnsureDocument(c.Request.Context(), inv)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.FileAttachment(path, s.documents.DownloadName(inv))
}

func toLineItemInputs(items []lineItemPayload) []domain.LineItemInput {
	out := make([]domain.LineItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, domain.LineItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return out
}

func parseID(c *gin.Context) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, domain.ErrInvalidRequest)
		return 0, false
	}
	return id, true
}

// parseDate accepts a date-only value or a full RFC 3339 timestamp.
func parseDate(c *gin.Context, raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", trimmed); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t, true
	}
	AbortWithError(c, domain.ErrInvalidRequest)
	return time.Time{}, false
}
