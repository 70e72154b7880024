package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-api/internal/domain"
	"github.com/jhoicas/invoice-api/internal/domain/billing"
	"github.com/jhoicas/invoice-api/internal/domain/entity"
	"github.com/jhoicas/invoice-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// orderBy columnas permitidas para ordenar; nunca se interpola texto del cliente.
var orderBy = map[string]string{
	repository.SortIssueDate:     "issue_date DESC, created_at DESC",
	repository.SortDueDate:       "due_date DESC, created_at DESC",
	repository.SortAmount:        "total DESC, created_at DESC",
	repository.SortInvoiceNumber: "invoice_number DESC, created_at DESC",
}

const insertItemSQL = `
	INSERT INTO invoice_items (invoice_id, id, position, description, quantity, rate, amount)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste cabecera y líneas. Los importes se recalculan aquí: lo que se
// guarda en amount/subtotal/tax_amount/total es siempre derivado.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	totals := invoice.Totals()
	query := `
		INSERT INTO invoices (id, user_id, invoice_number, issue_date, due_date,
		                      from_company, from_address, from_email, from_phone,
		                      to_company, to_address, to_email, notes, tax_rate, status,
		                      subtotal, tax_amount, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.UserID, invoice.InvoiceNumber, invoice.IssueDate, invoice.DueDate,
		invoice.FromCompany, invoice.FromAddress, invoice.FromEmail, invoice.FromPhone,
		invoice.ToCompany, invoice.ToAddress, invoice.ToEmail, invoice.Notes,
		numeric(invoice.TaxRate), invoice.Status,
		numeric(totals.Subtotal), numeric(totals.TaxAmount), numeric(totals.Total),
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice already exists: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return r.insertItems(ctx, invoice.ID, invoice.Items)
}

// Update reescribe la cabecera y reemplaza las líneas completas.
func (r *InvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	totals := invoice.Totals()
	query := `
		UPDATE invoices
		SET invoice_number = $2, issue_date = $3, due_date = $4,
		    from_company = $5, from_address = $6, from_email = $7, from_phone = $8,
		    to_company = $9, to_address = $10, to_email = $11, notes = $12,
		    tax_rate = $13, status = $14,
		    subtotal = $15, tax_amount = $16, total = $17,
		    updated_at = $18
		WHERE id = $1 AND status = 'draft'`
	tag, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.InvoiceNumber, invoice.IssueDate, invoice.DueDate,
		invoice.FromCompany, invoice.FromAddress, invoice.FromEmail, invoice.FromPhone,
		invoice.ToCompany, invoice.ToAddress, invoice.ToEmail, invoice.Notes,
		numeric(invoice.TaxRate), invoice.Status,
		numeric(totals.Subtotal), numeric(totals.TaxAmount), numeric(totals.Total),
		invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.notDraft(ctx, invoice.ID)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoice.ID); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	return r.insertItems(ctx, invoice.ID, invoice.Items)
}

// insertItems escribe las líneas en un batch conservando su posición.
func (r *InvoiceRepo) insertItems(ctx context.Context, invoiceID string, items []billing.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, li := range items {
		batch.Queue(insertItemSQL, invoiceID, li.ID, i, li.Description,
			numeric(li.Quantity), numeric(li.Rate), numeric(li.Amount()))
	}
	br := r.q.SendBatch(ctx, batch)
	for range items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if isUniqueViolation(err) {
				return fmt.Errorf("duplicate invoice item id: %w", domain.ErrDuplicate)
			}
			return fmt.Errorf("insert invoice item: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("insert invoice items: %w", err)
	}
	return nil
}

// GetByID obtiene la factura con sus líneas ordenadas por posición.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	query := `
		SELECT id, user_id, invoice_number, issue_date, due_date,
		       from_company, from_address, from_email, from_phone,
		       to_company, to_address, to_email, notes, tax_rate, status,
		       created_at, updated_at
		FROM invoices WHERE id = $1`
	var inv entity.Invoice
	var taxRate decimal.Decimal
	err := r.q.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.UserID, &inv.InvoiceNumber, &inv.IssueDate, &inv.DueDate,
		&inv.FromCompany, &inv.FromAddress, &inv.FromEmail, &inv.FromPhone,
		&inv.ToCompany, &inv.ToAddress, &inv.ToEmail, &inv.Notes, &taxRate, &inv.Status,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.TaxRate = taxRate.InexactFloat64()

	items, err := r.getItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return &inv, nil
}

func (r *InvoiceRepo) getItems(ctx context.Context, invoiceID string) ([]billing.LineItem, error) {
	query := `
		SELECT id, description, quantity, rate
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	defer rows.Close()
	var list []billing.LineItem
	for rows.Next() {
		var li billing.LineItem
		var qty, rate decimal.Decimal
		if err := rows.Scan(&li.ID, &li.Description, &qty, &rate); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		li.Quantity = qty.InexactFloat64()
		li.Rate = rate.InexactFloat64()
		list = append(list, li)
	}
	return list, rows.Err()
}

// ListByUser lista resúmenes del usuario, filtrados por estado y ordenados de forma descendente.
func (r *InvoiceRepo) ListByUser(ctx context.Context, userID string, filter repository.InvoiceListFilter) ([]*entity.InvoiceSummary, error) {
	order, ok := orderBy[filter.Sort]
	if !ok {
		order = orderBy[repository.SortIssueDate]
	}
	query := `
		SELECT id, invoice_number, status, from_company, to_company, issue_date, due_date, total
		FROM invoices
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY ` + order + `
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, userID, filter.Status, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.InvoiceSummary, 0, filter.Limit)
	for rows.Next() {
		var s entity.InvoiceSummary
		if err := rows.Scan(&s.ID, &s.InvoiceNumber, &s.Status, &s.FromCompany, &s.ToCompany,
			&s.IssueDate, &s.DueDate, &s.Total); err != nil {
			return nil, fmt.Errorf("scan invoice summary: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// CountByStatus cuenta las facturas del usuario agrupadas por estado.
func (r *InvoiceRepo) CountByStatus(ctx context.Context, userID string) (map[string]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM invoices WHERE user_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, fmt.Errorf("count invoices: %w", err)
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan invoice count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// Delete elimina un borrador; las líneas caen por ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1 AND status = 'draft'`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.notDraft(ctx, id)
	}
	return nil
}

// notDraft explica por qué un UPDATE/DELETE condicionado a draft no tocó filas.
func (r *InvoiceRepo) notDraft(ctx context.Context, id string) error {
	var status string
	err := r.q.QueryRow(ctx, `SELECT status FROM invoices WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get invoice status: %w", err)
	}
	return fmt.Errorf("%w: la factura está en estado %s", domain.ErrConflict, status)
}

// numeric convierte a NUMERIC; los valores no finitos no tienen representación y se guardan como 0.
func numeric(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
