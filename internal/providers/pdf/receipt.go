package pdf

import (
	"context"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

func (r *MarotoRenderer) RenderReceipt(ctx context.Context, format string, doc ReceiptDocument) ([]byte, error) {
	m, err := newDocument(format)
	if err != nil {
		return nil, err
	}

	m.AddRow(12,
		text.NewCol(12, "Payment Receipt", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(16,
		col.New(6).Add(
			text.New("Invoice number: "+doc.InvoiceNumber, props.Text{Top: 0}),
			text.New("Date paid: "+doc.PaidDate, props.Text{Top: 4}),
		),
		col.New(6),
	)

	m.AddRow(24,
		col.New(6).Add(
			text.New(doc.CompanyName, props.Text{Style: fontstyle.Bold}),
			text.New(doc.BranchName, props.Text{Top: 5}),
			text.New(doc.BranchAddress, props.Text{Top: 9}),
		),
		col.New(6).Add(
			text.New("Received from", props.Text{Style: fontstyle.Bold}),
			text.New(doc.CustomerName, props.Text{Top: 5}),
			text.New(doc.CustomerPhone, props.Text{Top: 9}),
		),
	)

	m.AddRow(10,
		text.NewCol(6, "Amount received", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(6, doc.PaymentAmount, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)
	m.AddRow(8,
		text.NewCol(6, "Payment method", props.Text{Size: 9}),
		text.NewCol(6, doc.PaymentMethod, props.Text{Size: 9, Align: align.Right}),
	)

	addTotalRow(m, "Total", doc.Total, false)
	addTotalRow(m, "Paid to date", doc.Paid, false)
	addTotalRow(m, "Balance due", doc.Balance, true)

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return out.GetBytes(), nil
}
