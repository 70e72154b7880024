package entity

import (
	"time"

	"github.com/jhoicas/invoice-api/internal/domain/billing"
)

// Estados de una factura. Guardar solo acepta draft o final; el resto
// existen para filtrar listados.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusFinal     = "final"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice es el agregado factura: cabecera, emisor, receptor y líneas.
type Invoice struct {
	ID            string
	UserID        string
	InvoiceNumber string
	IssueDate     time.Time
	DueDate       time.Time
	FromCompany   string
	FromAddress   string
	FromEmail     string
	FromPhone     string
	ToCompany     string
	ToAddress     string
	ToEmail       string
	Items         []billing.LineItem
	Notes         string
	TaxRate       float64
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Totals recalcula subtotal, impuesto y total desde las líneas actuales.
func (i *Invoice) Totals() billing.Totals {
	return billing.ComputeTotals(i.Items, i.TaxRate)
}

// IsEditable informa si la factura admite cambios (solo borradores).
func (i *Invoice) IsEditable() bool {
	return i.Status == InvoiceStatusDraft
}

// IsSavableStatus informa si status es un estado válido al guardar.
func IsSavableStatus(status string) bool {
	return status == InvoiceStatusDraft || status == InvoiceStatusFinal
}

// IsKnownStatus informa si status es cualquiera de los estados conocidos.
func IsKnownStatus(status string) bool {
	switch status {
	case InvoiceStatusDraft, InvoiceStatusFinal, InvoiceStatusSent,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}
