package billing_test

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-api/internal/domain"
	domainbilling "github.com/jhoicas/invoice-api/internal/domain/billing"
	"github.com/jhoicas/invoice-api/internal/domain/entity"
	"github.com/jhoicas/invoice-api/internal/domain/repository"
)

// memInvoiceRepo implementación en memoria de repository.InvoiceRepository.
type memInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[string]*entity.Invoice
	order    []string
	// afterGet corre tras cada GetByID; simula escrituras concurrentes.
	afterGet func(id string)
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{invoices: map[string]*entity.Invoice{}}
}

func clone(inv *entity.Invoice) *entity.Invoice {
	cp := *inv
	cp.Items = append([]domainbilling.LineItem(nil), inv.Items...)
	return &cp
}

func (r *memInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[inv.ID] = clone(inv)
	r.order = append(r.order, inv.ID)
	return nil
}

// checkDraft reproduce el WHERE status = 'draft' del adaptador PostgreSQL.
func (r *memInvoiceRepo) checkDraft(id string) error {
	cur, ok := r.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	if !cur.IsEditable() {
		return fmt.Errorf("%w: la factura está en estado %s", domain.ErrConflict, cur.Status)
	}
	return nil
}

func (r *memInvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkDraft(inv.ID); err != nil {
		return err
	}
	r.invoices[inv.ID] = clone(inv)
	return nil
}

func (r *memInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.mu.Lock()
	inv, ok := r.invoices[id]
	var out *entity.Invoice
	if ok {
		out = clone(inv)
	}
	r.mu.Unlock()
	if r.afterGet != nil {
		r.afterGet(id)
	}
	return out, nil
}

// setStatus cambia el estado guardado sin pasar por el caso de uso.
func (r *memInvoiceRepo) setStatus(id, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[id].Status = status
}

func (r *memInvoiceRepo) ListByUser(_ context.Context, userID string, f repository.InvoiceListFilter) ([]*entity.InvoiceSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.InvoiceSummary
	for _, id := range r.order {
		inv, ok := r.invoices[id]
		if !ok || inv.UserID != userID {
			continue
		}
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		out = append(out, &entity.InvoiceSummary{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Status:        inv.Status,
			FromCompany:   inv.FromCompany,
			ToCompany:     inv.ToCompany,
			IssueDate:     inv.IssueDate,
			DueDate:       inv.DueDate,
			Total:         decimal.NewFromFloat(inv.Totals().Total),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		switch f.Sort {
		case repository.SortAmount:
			return out[i].Total.GreaterThan(out[j].Total)
		case repository.SortInvoiceNumber:
			return out[i].InvoiceNumber > out[j].InvoiceNumber
		case repository.SortDueDate:
			return out[i].DueDate.After(out[j].DueDate)
		default:
			return out[i].IssueDate.After(out[j].IssueDate)
		}
	})
	if f.Offset >= len(out) {
		return []*entity.InvoiceSummary{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *memInvoiceRepo) CountByStatus(_ context.Context, userID string) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int{}
	for _, inv := range r.invoices {
		if inv.UserID == userID {
			counts[inv.Status]++
		}
	}
	return counts, nil
}

func (r *memInvoiceRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkDraft(id); err != nil {
		return err
	}
	delete(r.invoices, id)
	return nil
}

// memTxRunner ejecuta fn sobre el mismo repo en memoria; si fn falla no hay rollback
// real, alcanza para los casos de uso que validan antes de escribir.
type memTxRunner struct {
	repo  *memInvoiceRepo
	calls int
}

func (t *memTxRunner) RunInvoices(_ context.Context, fn func(repository.InvoiceRepository) error) error {
	t.calls++
	return fn(t.repo)
}

type countingRecorder struct {
	saved    map[string]int
	rendered int
}

func (c *countingRecorder) InvoiceSaved(status string) {
	if c.saved == nil {
		c.saved = map[string]int{}
	}
	c.saved[status]++
}

func (c *countingRecorder) PDFRendered() { c.rendered++ }

type fakePDFGenerator struct {
	gotInvoice *entity.Invoice
	gotTotals  domainbilling.RoundedTotals
	err        error
}

func (g *fakePDFGenerator) GenerateInvoicePDF(_ context.Context, inv *entity.Invoice, totals domainbilling.RoundedTotals) ([]byte, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.gotInvoice = inv
	g.gotTotals = totals
	return []byte("%PDF-1.3 fake"), nil
}

type failingTx struct{ err error }

func (f failingTx) RunInvoices(context.Context, func(repository.InvoiceRepository) error) error {
	return f.err
}
