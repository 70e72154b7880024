package billing

import (
	"context"

	domainbilling "github.com/jhoicas/invoice-api/internal/domain/billing"
	"github.com/jhoicas/invoice-api/internal/domain/entity"
	"github.com/jhoicas/invoice-api/internal/domain/repository"
)

// InvoiceTxRunner ejecuta fn dentro de una transacción con un repositorio atado a ella.
type InvoiceTxRunner interface {
	RunInvoices(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}

// InvoicePDFGenerator genera la representación PDF de una factura.
// totals llega ya calculado y redondeado a 2 decimales.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, totals domainbilling.RoundedTotals) ([]byte, error)
}

// EventRecorder recibe eventos de negocio para métricas. Lo implementa *metrics.Collector.
type EventRecorder interface {
	InvoiceSaved(status string)
	PDFRendered()
}

type nopRecorder struct{}

func (nopRecorder) InvoiceSaved(string) {}
func (nopRecorder) PDFRendered()        {}
