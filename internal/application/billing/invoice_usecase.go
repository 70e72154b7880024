package billing

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/jhoicas/invoice-api/internal/application/dto"
	"github.com/jhoicas/invoice-api/internal/domain"
	domainbilling "github.com/jhoicas/invoice-api/internal/domain/billing"
	"github.com/jhoicas/invoice-api/internal/domain/entity"
	"github.com/jhoicas/invoice-api/internal/domain/repository"
	"github.com/jhoicas/invoice-api/pkg/logger"
)

// InvoiceConfig valores por defecto del caso de uso.
type InvoiceConfig struct {
	DueDays      int
	MaxListLimit int
}

// InvoiceUseCase crea, edita, consulta y lista facturas de un usuario.
type InvoiceUseCase struct {
	txRunner    InvoiceTxRunner
	invoiceRepo repository.InvoiceRepository
	recorder    EventRecorder
	log         *logger.Logger
	cfg         InvoiceConfig
	now         func() time.Time
}

// NewInvoiceUseCase construye el caso de uso. recorder y log pueden ser nil.
func NewInvoiceUseCase(
	txRunner InvoiceTxRunner,
	invoiceRepo repository.InvoiceRepository,
	recorder EventRecorder,
	log *logger.Logger,
	cfg InvoiceConfig,
) *InvoiceUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if cfg.DueDays <= 0 {
		cfg.DueDays = 30
	}
	if cfg.MaxListLimit <= 0 {
		cfg.MaxListLimit = 100
	}
	return &InvoiceUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		recorder:    recorder,
		log:         log,
		cfg:         cfg,
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *InvoiceUseCase) WithClock(now func() time.Time) *InvoiceUseCase {
	uc.now = now
	return uc
}

// Save persiste una factura nueva con estado draft o final.
func (uc *InvoiceUseCase) Save(ctx context.Context, userID string, in dto.InvoiceRequest, status string) (*dto.InvoiceResponse, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if !entity.IsSavableStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	now := uc.now()
	inv, err := uc.buildInvoice(in, now)
	if err != nil {
		return nil, err
	}
	inv.ID = uuid.New().String()
	inv.UserID = userID
	inv.Status = status
	inv.CreatedAt = now
	inv.UpdatedAt = now

	err = uc.txRunner.RunInvoices(ctx, func(repo repository.InvoiceRepository) error {
		return repo.Create(ctx, inv)
	})
	if err != nil {
		uc.log.Error().Err(err).Str("user_id", userID).Str("status", status).Msg("guardar factura")
		return nil, err
	}
	uc.recorder.InvoiceSaved(status)
	uc.log.Info().Str("invoice_id", inv.ID).Str("status", status).Int("items", len(inv.Items)).Msg("factura guardada")
	return toInvoiceResponse(inv), nil
}

// Update reemplaza cabecera y líneas de una factura del usuario. Solo los
// borradores son editables; una factura final devuelve ErrConflict.
func (uc *InvoiceUseCase) Update(ctx context.Context, userID, id string, in dto.InvoiceRequest, status string) (*dto.InvoiceResponse, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if !entity.IsSavableStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	now := uc.now()
	next, err := uc.buildInvoice(in, now)
	if err != nil {
		return nil, err
	}

	var saved *entity.Invoice
	err = uc.txRunner.RunInvoices(ctx, func(repo repository.InvoiceRepository) error {
		current, err := uc.ownedInvoice(ctx, repo, userID, id)
		if err != nil {
			return err
		}
		if !current.IsEditable() {
			return fmt.Errorf("%w: la factura está en estado %s", domain.ErrConflict, current.Status)
		}
		next.ID = current.ID
		next.UserID = current.UserID
		next.CreatedAt = current.CreatedAt
		next.UpdatedAt = now
		next.Status = status
		if err := repo.Update(ctx, next); err != nil {
			return err
		}
		saved = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.InvoiceSaved(status)
	return toInvoiceResponse(saved), nil
}

// Get devuelve la factura con líneas y totales recalculados.
func (uc *InvoiceUseCase) Get(ctx context.Context, userID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.ownedInvoice(ctx, uc.invoiceRepo, userID, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// Delete elimina un borrador del usuario. El repositorio vuelve a exigir
// status draft en el DELETE, así que un paso concurrente a final gana.
func (uc *InvoiceUseCase) Delete(ctx context.Context, userID, id string) error {
	return uc.txRunner.RunInvoices(ctx, func(repo repository.InvoiceRepository) error {
		inv, err := uc.ownedInvoice(ctx, repo, userID, id)
		if err != nil {
			return err
		}
		if !inv.IsEditable() {
			return fmt.Errorf("%w: solo se eliminan borradores", domain.ErrConflict)
		}
		return repo.Delete(ctx, inv.ID)
	})
}

// List carga hasta Limit facturas ordenadas (descendente) y filtradas por
// estado; la búsqueda de texto se aplica sobre ese lote.
func (uc *InvoiceUseCase) List(ctx context.Context, userID string, in dto.InvoiceListRequest) (*dto.InvoiceListResponse, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	status := in.Status
	if status == "all" {
		status = ""
	}
	if status != "" && !entity.IsKnownStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	sortBy := in.Sort
	switch sortBy {
	case "":
		sortBy = repository.SortIssueDate
	case repository.SortIssueDate, repository.SortDueDate, repository.SortAmount, repository.SortInvoiceNumber:
	default:
		return nil, domain.ErrInvalidInput
	}
	page := in.PageRequest
	page.DefaultPage(uc.cfg.MaxListLimit)
	if page.Limit > uc.cfg.MaxListLimit {
		page.Limit = uc.cfg.MaxListLimit
	}

	list, err := uc.invoiceRepo.ListByUser(ctx, userID, repository.InvoiceListFilter{
		Status: status,
		Sort:   sortBy,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}

	term := strings.TrimSpace(in.Search)
	out := &dto.InvoiceListResponse{
		Invoices: make([]dto.InvoiceSummaryResponse, 0, len(list)),
		Loaded:   len(list),
		Filtered: term != "" || status != "",
		Page:     dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, s := range list {
		if matchesSearch(s, term) {
			out.Invoices = append(out.Invoices, toSummaryResponse(s))
		}
	}
	out.Count = len(out.Invoices)
	return out, nil
}

// Stats cuenta las facturas del usuario: total, borradores y finales.
func (uc *InvoiceUseCase) Stats(ctx context.Context, userID string) (*dto.InvoiceStatsResponse, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	counts, err := uc.invoiceRepo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceStatsResponse{
		Draft: counts[entity.InvoiceStatusDraft],
		Final: counts[entity.InvoiceStatusFinal],
	}
	for _, n := range counts {
		out.Total += n
	}
	return out, nil
}

// Preview normaliza las líneas y calcula totales sin persistir nada.
// Importes que desbordan float64 devuelven ErrInvalidInput.
func (uc *InvoiceUseCase) Preview(in dto.PreviewRequest) (*dto.PreviewResponse, error) {
	items := buildItems(in.Items)
	taxRate := taxRateOrZero(in.TaxRate)
	totals := items.Totals(taxRate)
	if err := checkFinite(totals); err != nil {
		return nil, err
	}
	return &dto.PreviewResponse{
		Items:   toItemResponses(items.List()),
		TaxRate: taxRate,
		Totals:  toTotalsResponse(totals),
	}, nil
}

func (uc *InvoiceUseCase) ownedInvoice(ctx context.Context, repo repository.InvoiceRepository, userID, id string) (*entity.Invoice, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	inv, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

// buildInvoice arma el agregado (sin ID, dueño ni estado) completando
// número y fechas por defecto.
func (uc *InvoiceUseCase) buildInvoice(in dto.InvoiceRequest, now time.Time) (*entity.Invoice, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	issue := today
	if in.IssueDate != "" {
		d, err := time.Parse(dateLayout, in.IssueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: issue_date", domain.ErrInvalidInput)
		}
		issue = d
	}
	due := issue.AddDate(0, 0, uc.cfg.DueDays)
	if in.DueDate != "" {
		d, err := time.Parse(dateLayout, in.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: due_date", domain.ErrInvalidInput)
		}
		due = d
	}
	taxRate := taxRateOrZero(in.TaxRate)
	if taxRate < 0 {
		return nil, fmt.Errorf("%w: tax_rate", domain.ErrInvalidInput)
	}

	number := strings.TrimSpace(in.InvoiceNumber)
	if number == "" {
		number = DefaultInvoiceNumber(now)
	}

	items := buildItems(in.Items)
	if err := checkFinite(items.Totals(taxRate)); err != nil {
		return nil, err
	}

	return &entity.Invoice{
		InvoiceNumber: number,
		IssueDate:     issue,
		DueDate:       due,
		FromCompany:   in.FromCompany,
		FromAddress:   in.FromAddress,
		FromEmail:     in.FromEmail,
		FromPhone:     in.FromPhone,
		ToCompany:     in.ToCompany,
		ToAddress:     in.ToAddress,
		ToEmail:       in.ToEmail,
		Items:         items.List(),
		Notes:         in.Notes,
		TaxRate:       taxRate,
	}, nil
}

// DefaultInvoiceNumber "INV-" + últimos 6 dígitos del epoch en milisegundos.
func DefaultInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%06d", now.UnixMilli()%1_000_000)
}

// buildItems convierte las líneas del cliente en la colección del dominio.
// Cantidad y tarifa pasan por billing.NewLineItem, que aplica los valores
// por defecto; la colección resultante nunca está vacía.
func buildItems(in []dto.InvoiceItemRequest) *domainbilling.Items {
	list := make([]domainbilling.LineItem, 0, len(in))
	for _, it := range in {
		list = append(list, domainbilling.NewLineItem(it.ID, it.Description, it.Quantity.Raw, it.Rate.Raw))
	}
	return domainbilling.ItemsFrom(list)
}

// checkFinite rechaza totales que desbordaron a ±Inf o NaN; no se pueden
// persistir como NUMERIC ni serializar en JSON.
func checkFinite(t domainbilling.Totals) error {
	for _, v := range []float64{t.Subtotal, t.TaxAmount, t.Total} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("%w: importe fuera de rango", domain.ErrInvalidInput)
		}
	}
	return nil
}

func taxRateOrZero(rate *float64) float64 {
	if rate == nil {
		return 0
	}
	return *rate
}

// matchesSearch compara sin distinguir mayúsculas (case folding Unicode)
// contra número, emisor y receptor.
func matchesSearch(s *entity.InvoiceSummary, term string) bool {
	if term == "" {
		return true
	}
	fold := cases.Fold()
	needle := fold.String(term)
	for _, field := range []string{s.InvoiceNumber, s.FromCompany, s.ToCompany} {
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}
