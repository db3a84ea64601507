package service

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"
	orderdomain "github.com/tablewiselabs/tablewise/internal/order/domain"
	tenantdomain "github.com/tablewiselabs/tablewise/internal/tenant/domain"
	"go.uber.org/zap"
)

// Invoice renders the A4 invoice for a settled order.
func (r *Renderer) Invoice(order *orderdomain.Order, tenant *tenantdomain.Tenant) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(12).
		Build()
	m := maroto.New(cfg)

	header := headerFor(tenant)

	m.AddRow(10, text.NewCol(12, header.Name, props.Text{
		Size: 16, Style: fontstyle.Bold, Align: align.Center,
	}))
	m.AddRow(5, text.NewCol(12, header.Address, props.Text{Size: 9, Align: align.Center}))
	if header.TaxID != "" {
		m.AddRow(5, text.NewCol(12, "GSTIN: "+header.TaxID, props.Text{Size: 9, Align: align.Center}))
	}
	m.AddRow(3, line.NewCol(12))

	m.AddRow(8, text.NewCol(12, "TAX INVOICE", props.Text{
		Size: 12, Style: fontstyle.Bold, Align: align.Center,
	}))

	m.AddRow(5,
		text.NewCol(6, "Invoice No: "+order.OrderNumber, props.Text{Size: 9}),
		text.NewCol(6, "Date: "+order.CreatedAt.Format("02 Jan 2006 15:04"), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(5,
		text.NewCol(6, "Bill To: "+billToLabel(order), props.Text{Size: 9}),
		text.NewCol(6, "Payment: "+string(order.PaymentStatus), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(3, line.NewCol(12))

	m.AddRow(6,
		text.NewCol(6, "Item", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, "Qty", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Rate", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, item := range order.Lines {
		m.AddRow(5,
			text.NewCol(6, item.Name, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", item.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice.String(), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.LineSubtotal.String(), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(3, line.NewCol(12))

	cgst, sgst := order.TaxAmount.SplitHalf()
	totalRows := []struct {
		label string
		value string
		bold  bool
	}{
		{"Subtotal", order.Subtotal.String(), false},
		{"CGST", cgst.String(), false},
		{"SGST", sgst.String(), false},
		{"Discount", "-" + order.DiscountAmount.String(), false},
		{"Total", order.TotalAmount.String(), true},
	}
	for _, tr := range totalRows {
		style := fontstyle.Normal
		size := 9.0
		if tr.bold {
			style = fontstyle.Bold
			size = 11
		}
		m.AddRow(5,
			text.NewCol(8, "", props.Text{}),
			text.NewCol(2, tr.label, props.Text{Size: size, Style: style, Align: align.Right}),
			text.NewCol(2, tr.value, props.Text{Size: size, Style: style, Align: align.Right}),
		)
	}

	m.AddRow(3, line.NewCol(12))
	m.AddRow(8, text.NewCol(12, "Thank you for dining with us.", props.Text{
		Size: 9, Style: fontstyle.Italic, Align: align.Center,
	}))

	doc, err := m.Generate()
	if err != nil {
		r.log.Error("invoice render failed",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return nil, err
	}
	r.metrics.DocumentsRendered.WithLabelValues("invoice").Inc()
	return doc.GetBytes(), nil
}
