package http_test

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-api/internal/domain"
	domainbilling "github.com/jhoicas/invoice-api/internal/domain/billing"
	"github.com/jhoicas/invoice-api/internal/domain/entity"
	"github.com/jhoicas/invoice-api/internal/domain/repository"
)

type memInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[string]*entity.Invoice
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{invoices: map[string]*entity.Invoice{}}
}

func (r *memInvoiceRepo) put(inv *entity.Invoice) {
	cp := *inv
	cp.Items = append([]domainbilling.LineItem(nil), inv.Items...)
	r.invoices[inv.ID] = &cp
}

func (r *memInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(inv)
	return nil
}

func (r *memInvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkDraft(inv.ID); err != nil {
		return err
	}
	r.put(inv)
	return nil
}

func (r *memInvoiceRepo) checkDraft(id string) error {
	cur, ok := r.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	if !cur.IsEditable() {
		return domain.ErrConflict
	}
	return nil
}

func (r *memInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *memInvoiceRepo) ListByUser(_ context.Context, userID string, f repository.InvoiceListFilter) ([]*entity.InvoiceSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.InvoiceSummary{}
	for _, inv := range r.invoices {
		if inv.UserID != userID || (f.Status != "" && inv.Status != f.Status) {
			continue
		}
		out = append(out, &entity.InvoiceSummary{
			ID: inv.ID, InvoiceNumber: inv.InvoiceNumber, Status: inv.Status,
			FromCompany: inv.FromCompany, ToCompany: inv.ToCompany,
			IssueDate: inv.IssueDate, DueDate: inv.DueDate,
			Total: decimal.NewFromFloat(inv.Totals().Total),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceNumber > out[j].InvoiceNumber })
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

type memTxRunner struct{ repo *memInvoiceRepo }

func (t memTxRunner) RunInvoices(_ context.Context, fn func(repository.InvoiceRepository) error) error {
	return fn(t.repo)
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type fakePDF struct{}

func (fakePDF) GenerateInvoicePDF(context.Context, *entity.Invoice, domainbilling.RoundedTotals) ([]byte, error) {
	return []byte("%PDF-1.3\n%fake"), nil
}
