package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-api/internal/domain/billing"
	"github.com/jhoicas/invoice-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0.00":        "0.00",
		"999.99":      "999.99",
		"1000.00":     "1,000.00",
		"25000.00":    "25,000.00",
		"1234567.50":  "1,234,567.50",
		"-1234567.50": "-1,234,567.50",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(in), in)
	}
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "2", formatQuantity(2))
	assert.Equal(t, "1.5", formatQuantity(1.5))
	assert.Equal(t, "0.125", formatQuantity(0.125), "la cantidad no se redondea como importe")
	assert.Equal(t, "2.675", formatQuantity(2.675))
}

func TestGenerateInvoicePDF(t *testing.T) {
	inv := &entity.Invoice{
		InvoiceNumber: "INV-000123",
		IssueDate:     time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2024, 4, 4, 0, 0, 0, 0, time.UTC),
		FromCompany:   "Acme Corp",
		FromEmail:     "billing@acme.test",
		ToCompany:     "Globex",
		ToAddress:     "742 Evergreen Terrace",
		Items: []billing.LineItem{
			{ID: "1", Description: "Consulting", Quantity: 10, Rate: 150},
			{ID: "2", Description: "Hosting", Quantity: 1, Rate: 49.99},
		},
		TaxRate: 8.5,
		Notes:   "Thank you for your business.\nPayment within 30 days.",
		Status:  entity.InvoiceStatusFinal,
	}

	gen := NewMarotoPDFGenerator("")
	out, err := gen.GenerateInvoicePDF(context.Background(), inv, inv.Totals().Rounded())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida debe ser un PDF")
}

func TestGenerateInvoicePDF_FacturaNil(t *testing.T) {
	_, err := NewMarotoPDFGenerator("€").GenerateInvoicePDF(context.Background(), nil, billing.RoundedTotals{})
	assert.Error(t, err)
}
