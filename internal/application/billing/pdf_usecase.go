package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/invoice-api/internal/domain"
	"github.com/jhoicas/invoice-api/internal/domain/repository"
)

// PDFUseCase genera la representación PDF de una factura del usuario.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	generator   InvoicePDFGenerator
	recorder    EventRecorder
}

// NewPDFUseCase construye el caso de uso. recorder puede ser nil.
func NewPDFUseCase(invoiceRepo repository.InvoiceRepository, generator InvoicePDFGenerator, recorder EventRecorder) *PDFUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &PDFUseCase{invoiceRepo: invoiceRepo, generator: generator, recorder: recorder}
}

// DownloadInvoicePDF carga la factura, recalcula los totales y los entrega
// redondeados al generador.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrForbidden        si la factura pertenece a otro usuario.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, userID, invoiceID string) (pdfBytes []byte, filename string, err error) {
	if userID == "" {
		return nil, "", domain.ErrUnauthorized
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.UserID != userID {
		return nil, "", domain.ErrForbidden
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, inv.Totals().Rounded())
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	uc.recorder.PDFRendered()

	return pdfBytes, PDFFilename(inv.InvoiceNumber), nil
}

// PDFFilename "invoice-<número>.pdf"; caracteres fuera de [A-Za-z0-9._-] se
// reemplazan por "_" para que el nombre sea seguro en Content-Disposition.
func PDFFilename(number string) string {
	if number == "" {
		number = "draft"
	}
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, number)
	return "invoice-" + safe + ".pdf"
}
