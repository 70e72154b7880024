package repository

import (
	"context"

	"github.com/jhoicas/invoice-api/internal/domain/entity"
)

// Columnas por las que se puede ordenar un listado (siempre descendente).
const (
	SortIssueDate     = "issue_date"
	SortDueDate       = "due_date"
	SortAmount        = "amount"
	SortInvoiceNumber = "invoice_number"
)

// InvoiceListFilter parámetros de listado ya normalizados por el caso de uso.
// Status vacío = todos.
type InvoiceListFilter struct {
	Status string
	Sort   string
	Limit  int
	Offset int
}

// InvoiceRepository define el puerto de persistencia para facturas y líneas.
type InvoiceRepository interface {
	// Create persiste cabecera y líneas (en orden).
	Create(ctx context.Context, invoice *entity.Invoice) error
	// Update reescribe la cabecera y reemplaza todas las líneas. Solo afecta
	// borradores: ErrConflict si la factura ya no lo es, ErrNotFound si no existe.
	Update(ctx context.Context, invoice *entity.Invoice) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	ListByUser(ctx context.Context, userID string, filter InvoiceListFilter) ([]*entity.InvoiceSummary, error)
	CountByStatus(ctx context.Context, userID string) (map[string]int, error)
	// Delete elimina un borrador, con los mismos errores que Update.
	Delete(ctx context.Context, id string) error
}
