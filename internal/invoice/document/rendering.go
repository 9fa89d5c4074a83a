package document

import (
	"github.com/smallbiznis/invoiced/internal/invoice/domain"
	"github.com/smallbiznis/invoiced/internal/money"
	"github.com/smallbiznis/invoiced/internal/providers/pdf"
)

const dateLayout = "2006-01-02"

// BuildInvoiceData maps a persisted invoice onto the render-ready view.
// Monetary fields pass through a lenient re-parse so a malformed stored value
// renders as $0.00 instead of aborting the document.
func BuildInvoiceData(inv domain.Invoice) pdf.InvoiceData {
	items := make([]pdf.InvoiceItem, 0, len(inv.LineItems))
	for _, li := range inv.LineItems {
		items = append(items, pdf.InvoiceItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   displayAmount(li.UnitPrice),
			LineTotal:   displayAmount(li.LineTotal),
		})
	}

	notes := ""
	if inv.Notes != nil {
		notes = *inv.Notes
	}

	return pdf.InvoiceData{
		InvoiceNumber: inv.InvoiceNumber,
		IssueDate:     inv.IssueDate.Format(dateLayout),
		DueDate:       inv.DueDate.Format(dateLayout),
		BillToName:    inv.Client.Name,
		BillToEmail:   inv.Client.Email,
		Items:         items,
		Subtotal:      displayAmount(inv.Subtotal),
		Tax:           displayAmount(inv.Tax),
		Total:         displayAmount(inv.Total),
		Notes:         notes,
		Title:         "Invoice " + inv.InvoiceNumber,
		CreatedAt:     inv.IssueDate,
		ModifiedAt:    inv.UpdatedAt,
	}
}

func displayAmount(m money.Money) string {
	return money.Lenient(m.String()).Format()
}
