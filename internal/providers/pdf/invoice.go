package pdf

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type MarotoRenderer struct{}

func NewRenderer() Renderer {
	return &MarotoRenderer{}
}

func (r *MarotoRenderer) RenderInvoice(ctx context.Context, format string, doc InvoiceDocument) ([]byte, error) {
	m, err := newDocument(format)
	if err != nil {
		return nil, err
	}

	title := "Invoice"
	if doc.IsWarranty {
		title = "Warranty Invoice"
	}

	m.AddRow(12,
		text.NewCol(12, title, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(16,
		col.New(6).Add(
			text.New("Invoice number: "+doc.InvoiceNumber, props.Text{Top: 0}),
			text.New("Date of issue: "+doc.IssueDate, props.Text{Top: 4}),
		),
		col.New(6),
	)

	m.AddRow(30,
		col.New(6).Add(
			text.New(doc.CompanyName, props.Text{Style: fontstyle.Bold}),
			text.New(doc.BranchName, props.Text{Top: 5}),
			text.New(doc.BranchAddress, props.Text{Top: 9}),
			text.New(doc.BranchPhone, props.Text{Top: 13}),
		),
		col.New(6).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold}),
			text.New(doc.CustomerName, props.Text{Top: 5}),
			text.New(doc.CustomerPhone, props.Text{Top: 9}),
		),
	)

	if len(doc.Lines) > 0 {
		m.AddRow(8,
			text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		)
		for _, line := range doc.Lines {
			m.AddRow(10,
				text.NewCol(6, line.Description, props.Text{Size: 9}),
				text.NewCol(2, fmt.Sprintf("%d", line.Quantity), props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, line.UnitPrice, props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, line.Amount, props.Text{Size: 9, Align: align.Right}),
			)
		}
	}

	addTotalRow(m, "Total", doc.Total, false)
	addTotalRow(m, "Paid", doc.Paid, false)
	addTotalRow(m, "Balance due", doc.Balance, true)

	m.AddRow(8,
		text.NewCol(12, "Status: "+doc.Status, props.Text{Size: 9}),
	)

	if doc.Notes != "" {
		m.AddRow(16,
			text.NewCol(12, doc.Notes, props.Text{Size: 8, Top: 4}),
		)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return out.GetBytes(), nil
}

func addTotalRow(m core.Maroto, label, amount string, bold bool) {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, label, props.Text{Size: 9, Style: style}),
		text.NewCol(2, amount, props.Text{Size: 9, Style: style, Align: align.Right}),
	)
}

// newDocument picks page geometry per format. Thermal uses a narrow roll
// width so counter printers do not scale the page down.
func newDocument(format string) (core.Maroto, error) {
	switch format {
	case "", FormatA4:
		cfg := config.NewBuilder().
			WithPageNumber(props.PageNumber{
				Pattern: "Page {current} of {total}",
				Place:   props.RightBottom,
			}).
			Build()
		return maroto.New(cfg), nil
	case FormatThermal:
		cfg := config.NewBuilder().
			WithDimensions(80, 200).
			WithLeftMargin(4).
			WithRightMargin(4).
			WithTopMargin(4).
			Build()
		return maroto.New(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
}
