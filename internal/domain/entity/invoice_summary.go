package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceSummary es la vista ligera de una factura para listados.
// Total es la copia persistida en el último guardado.
type InvoiceSummary struct {
	ID            string
	InvoiceNumber string
	Status        string
	FromCompany   string
	ToCompany     string
	IssueDate     time.Time
	DueDate       time.Time
	Total         decimal.Decimal
}
