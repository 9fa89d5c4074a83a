package pdf

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// MarotoProvider renders a fixed-layout single-page invoice.
type MarotoProvider struct{}

// New builds the maroto-backed provider.
func New() Provider {
	return &MarotoProvider{}
}

func (p *MarotoProvider) GenerateInvoice(ctx context.Context, data InvoiceData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithAuthor("Invoicing System", true).
		WithCreator("Invoicing System", true).
		WithTitle(data.Title, true).
		WithSubject(data.Title, true).
		WithCreationDate(data.CreatedAt).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(12, "Invoice", props.Text{
			Size:  22,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(22,
		col.New(12).Add(
			text.New("Invoice Number: "+data.InvoiceNumber, props.Text{Size: 11, Top: 0}),
			text.New("Issue Date: "+data.IssueDate, props.Text{Size: 11, Top: 6}),
			text.New("Due Date: "+data.DueDate, props.Text{Size: 11, Top: 12}),
		),
	)

	m.AddRow(20,
		col.New(12).Add(
			text.New("Bill To", props.Text{Size: 11, Style: fontstyle.Bold}),
			text.New(data.BillToName, props.Text{Size: 11, Top: 6}),
			text.New(data.BillToEmail, props.Text{Size: 11, Top: 12}),
		),
	)

	m.AddRow(8,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
		text.NewCol(2, "Unit Price", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
		text.NewCol(2, "Line Total", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)
	m.AddRow(2, line.NewCol(12))

	for _, item := range data.Items {
		m.AddRow(8,
			text.NewCol(6, item.Description, props.Text{Size: 10}),
			text.NewCol(2, fmt.Sprintf("%d", item.Quantity), props.Text{Size: 10, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 10, Align: align.Right}),
			text.NewCol(2, item.LineTotal, props.Text{Size: 10, Align: align.Right}),
		)
	}

	m.AddRow(4, col.New(6), line.NewCol(6))

	m.AddRow(7,
		col.New(6),
		text.NewCol(3, "Subtotal", props.Text{Size: 10, Align: align.Right}),
		text.NewCol(3, data.Subtotal, props.Text{Size: 10, Align: align.Right}),
	)
	m.AddRow(7,
		col.New(6),
		text.NewCol(3, "Tax", props.Text{Size: 10, Align: align.Right}),
		text.NewCol(3, data.Tax, props.Text{Size: 10, Align: align.Right}),
	)
	m.AddRow(7,
		col.New(6),
		text.NewCol(3, "Total", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(3, data.Total, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)

	if data.Notes != "" {
		m.AddRow(8,
			text.NewCol(12, "Notes", props.Text{Size: 11, Style: fontstyle.Bold, Top: 4}),
		)
		m.AddRow(12,
			text.NewCol(12, data.Notes, props.Text{Size: 10}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return doc.GetBytes(), nil
}
