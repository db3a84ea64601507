package service

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	orderdomain "github.com/tablewiselabs/tablewise/internal/order/domain"
	tenantdomain "github.com/tablewiselabs/tablewise/internal/tenant/domain"
	"go.uber.org/zap"
)

// 80mm thermal roll (226pt printable width), generous length; printers
// cut at the end of content.
const (
	receiptWidthMM  = 80
	receiptHeightMM = 297
)

// Receipt renders the narrow thermal receipt for a settled order. Same
// financial rows as the invoice, condensed typography.
func (r *Renderer) Receipt(order *orderdomain.Order, tenant *tenantdomain.Tenant) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(receiptWidthMM, receiptHeightMM).
		WithLeftMargin(4).
		WithRightMargin(4).
		WithTopMargin(4).
		Build()
	m := maroto.New(cfg)

	header := headerFor(tenant)

	m.AddRow(6, text.NewCol(12, header.Name, props.Text{
		Size: 10, Style: fontstyle.Bold, Align: align.Center,
	}))
	m.AddRow(4, text.NewCol(12, header.Address, props.Text{Size: 6, Align: align.Center}))
	if header.Phone != "" {
		m.AddRow(3, text.NewCol(12, "Ph: "+header.Phone, props.Text{Size: 6, Align: align.Center}))
	}
	m.AddRow(2, line.NewCol(12))

	m.AddRow(4,
		text.NewCol(7, order.OrderNumber, props.Text{Size: 7, Style: fontstyle.Bold}),
		text.NewCol(5, order.CreatedAt.Format("02/01/06 15:04"), props.Text{Size: 7, Align: align.Right}),
	)
	m.AddRow(4, text.NewCol(12, billToLabel(order), props.Text{Size: 7}))
	m.AddRow(2, line.NewCol(12))

	for _, item := range order.Lines {
		m.AddRow(4,
			text.NewCol(7, fmt.Sprintf("%s x%d", item.Name, item.Quantity), props.Text{Size: 7}),
			text.NewCol(5, item.LineSubtotal.String(), props.Text{Size: 7, Align: align.Right}),
		)
	}
	m.AddRow(2, line.NewCol(12))

	cgst, sgst := order.TaxAmount.SplitHalf()
	rows := []struct {
		label string
		value string
		bold  bool
	}{
		{"Subtotal", order.Subtotal.String(), false},
		{"CGST", cgst.String(), false},
		{"SGST", sgst.String(), false},
		{"Discount", "-" + order.DiscountAmount.String(), false},
		{"TOTAL", order.TotalAmount.String(), true},
	}
	for _, tr := range rows {
		style := fontstyle.Normal
		size := 7.0
		if tr.bold {
			style = fontstyle.Bold
			size = 9
		}
		m.AddRow(4,
			text.NewCol(7, tr.label, props.Text{Size: size, Style: style}),
			text.NewCol(5, tr.value, props.Text{Size: size, Style: style, Align: align.Right}),
		)
	}

	m.AddRow(2, line.NewCol(12))
	m.AddRow(5, text.NewCol(12, "Thank you! Visit again.", props.Text{
		Size: 7, Align: align.Center,
	}))

	doc, err := m.Generate()
	if err != nil {
		r.log.Error("receipt render failed",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return nil, err
	}
	r.metrics.DocumentsRendered.WithLabelValues("receipt").Inc()
	return doc.GetBytes(), nil
}
