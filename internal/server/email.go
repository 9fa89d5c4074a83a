package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/invoiced/internal/invoice/domain"
)

type sendEmailPayload struct {
	Template       string `json:"template"`
	RecipientEmail string `json:"recipientEmail"`
	Message        string `json:"message"`
}

func (s *Server) SendInvoiceEmail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var payload sendEmailPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, domain.ErrInvalidRequest)
		return
	}

	// Unknown template names are rejected here, before the dispatcher runs.
	tmpl, err := domain.ParseEmailTemplate(payload.Template)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	entry, err := s.emailSvc.Send(c.Request.Context(), id, domain.SendEmailRequest{
		Template:       tmpl,
		RecipientEmail: payload.RecipientEmail,
		Message:        payload.Message,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entry})
}

func (s *Server) ListInvoiceEmailLogs(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	logs, err := s.emailSvc.Logs(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": logs})
}
