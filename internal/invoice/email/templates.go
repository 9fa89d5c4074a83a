// Package email selects, renders and dispatches invoice emails.
package email

import (
	"strings"

	"github.com/smallbiznis/invoiced/internal/invoice/domain"
	"github.com/smallbiznis/invoiced/internal/money"
)

// Rendered is a template output ready for the transport.
type Rendered struct {
	Subject string
	Text    string
}

// renderer is a pure function over invoice and optional message data.
type renderer func(inv domain.Invoice, message string) Rendered

var renderers = map[domain.EmailTemplate]renderer{
	domain.TemplateInvoiceIssued:   renderIssued,
	domain.TemplateInvoiceReminder: renderReminder,
}

// Render produces the subject and body for a template. Unknown templates are
// rejected; parsing at the boundary normally catches this first.
func Render(tmpl domain.EmailTemplate, inv domain.Invoice, message string) (Rendered, error) {
	fn, ok := renderers[tmpl]
	if !ok {
		return Rendered{}, domain.ErrUnsupportedTemplate
	}
	return fn(inv, message), nil
}

const longDateLayout = "January 2, 2006"

func renderIssued(inv domain.Invoice, message string) Rendered {
	total := displayAmount(inv.Total)
	dueDate := inv.DueDate.Format(longDateLayout)

	lines := []string{
		"Hello " + inv.Client.Name + ",",
		"",
		"Please find invoice " + inv.InvoiceNumber + " attached. The total amount due is " + total + ".",
		"The payment is due on " + dueDate + ".",
		"",
	}

	return Rendered{
		Subject: "Invoice " + inv.InvoiceNumber + " from Invoicing System",
		Text:    applyCommonFooter(lines, message),
	}
}

func renderReminder(inv domain.Invoice, message string) Rendered {
	total := displayAmount(inv.Total)
	dueDate := inv.DueDate.Format(longDateLayout)

	lines := []string{
		"Hello " + inv.Client.Name + ",",
		"",
		"This is a friendly reminder that invoice " + inv.InvoiceNumber + " totaling " + total + " was due on " + dueDate + ".",
		"Please review the attached invoice and let us know if you have any questions.",
		"",
	}

	return Rendered{
		Subject: "Reminder: Invoice " + inv.InvoiceNumber + " is overdue",
		Text:    applyCommonFooter(lines, message),
	}
}

func applyCommonFooter(lines []string, message string) string {
	if trimmed := strings.TrimSpace(message); trimmed != "" {
		lines = append(lines, trimmed, "")
	}
	lines = append(lines, "Best regards,", "Invoicing System")
	return strings.Join(lines, "\n")
}

func displayAmount(m money.Money) string {
	return money.Lenient(m.String()).Format()
}
