package dto

import "time"

// InvoiceRequest body para POST/PUT /api/invoices.
// Campos vacíos de número y fechas se completan con los valores por defecto.
type InvoiceRequest struct {
	InvoiceNumber string               `json:"invoice_number" validate:"max=64"`
	IssueDate     string               `json:"issue_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate       string               `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	FromCompany   string               `json:"from_company" validate:"max=200"`
	FromAddress   string               `json:"from_address" validate:"max=500"`
	FromEmail     string               `json:"from_email" validate:"omitempty,email"`
	FromPhone     string               `json:"from_phone" validate:"max=50"`
	ToCompany     string               `json:"to_company" validate:"max=200"`
	ToAddress     string               `json:"to_address" validate:"max=500"`
	ToEmail       string               `json:"to_email" validate:"omitempty,email"`
	Items         []InvoiceItemRequest `json:"items" validate:"max=200,dive"`
	Notes         string               `json:"notes" validate:"max=2000"`
	TaxRate       *float64             `json:"tax_rate" validate:"omitempty,gte=0"`
}

// InvoiceItemRequest línea tal como la envía el cliente. Quantity y Rate
// admiten cualquier valor; los no numéricos caen a 1 y 0.
type InvoiceItemRequest struct {
	ID          string       `json:"id" validate:"max=64"`
	Description string       `json:"description" validate:"max=500"`
	Quantity    NumericInput `json:"quantity"`
	Rate        NumericInput `json:"rate"`
}

// InvoiceItemResponse línea con su importe derivado.
type InvoiceItemResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

// TotalsResponse importes derivados: crudos y redondeados a 2 decimales para mostrar.
type TotalsResponse struct {
	Subtotal         float64 `json:"subtotal"`
	TaxAmount        float64 `json:"tax_amount"`
	Total            float64 `json:"total"`
	SubtotalDisplay  string  `json:"subtotal_display"`
	TaxAmountDisplay string  `json:"tax_amount_display"`
	TotalDisplay     string  `json:"total_display"`
}

// InvoiceResponse factura completa para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	IssueDate     string                `json:"issue_date"`
	DueDate       string                `json:"due_date"`
	FromCompany   string                `json:"from_company"`
	FromAddress   string                `json:"from_address"`
	FromEmail     string                `json:"from_email"`
	FromPhone     string                `json:"from_phone"`
	ToCompany     string                `json:"to_company"`
	ToAddress     string                `json:"to_address"`
	ToEmail       string                `json:"to_email"`
	Items         []InvoiceItemResponse `json:"items"`
	Notes         string                `json:"notes"`
	TaxRate       float64               `json:"tax_rate"`
	Status        string                `json:"status"`
	StatusLabel   string                `json:"status_label"`
	Totals        TotalsResponse        `json:"totals"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// InvoiceListRequest query de GET /api/invoices.
type InvoiceListRequest struct {
	Search string `json:"search" query:"search" validate:"max=200"`
	Status string `json:"status" query:"status" validate:"omitempty,oneof=all draft final sent paid overdue cancelled"`
	Sort   string `json:"sort" query:"sort" validate:"omitempty,oneof=issue_date due_date amount invoice_number"`
	PageRequest
}

// InvoiceSummaryResponse tarjeta de listado.
type InvoiceSummaryResponse struct {
	ID            string `json:"id"`
	InvoiceNumber string `json:"invoice_number"`
	Status        string `json:"status"`
	StatusLabel   string `json:"status_label"`
	FromCompany   string `json:"from_company"`
	ToCompany     string `json:"to_company"`
	IssueDate     string `json:"issue_date"`
	DueDate       string `json:"due_date"`
	Amount        string `json:"amount"`
}

// InvoiceListResponse listado con el conteo antes y después de la búsqueda.
type InvoiceListResponse struct {
	Invoices []InvoiceSummaryResponse `json:"invoices"`
	Count    int                      `json:"count"`  // tras filtrar por búsqueda
	Loaded   int                      `json:"loaded"` // cargadas antes de la búsqueda
	Filtered bool                     `json:"filtered"`
	Page     PageResponse             `json:"page"`
}

// InvoiceStatsResponse contadores del tablero.
type InvoiceStatsResponse struct {
	Total int `json:"total"`
	Draft int `json:"draft"`
	Final int `json:"final"`
}

// PreviewRequest body para POST /api/invoices/preview.
type PreviewRequest struct {
	Items   []InvoiceItemRequest `json:"items" validate:"max=200,dive"`
	TaxRate *float64             `json:"tax_rate" validate:"omitempty,gte=0"`
}

// PreviewResponse líneas normalizadas y totales.
type PreviewResponse struct {
	Items   []InvoiceItemResponse `json:"items"`
	TaxRate float64               `json:"tax_rate"`
	Totals  TotalsResponse        `json:"totals"`
}
