package billing

import (
	"github.com/jhoicas/invoice-api/internal/application/dto"
	domainbilling "github.com/jhoicas/invoice-api/internal/domain/billing"
	"github.com/jhoicas/invoice-api/internal/domain/entity"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const dateLayout = "2006-01-02"

// StatusLabel etiqueta legible del estado ("draft" → "Draft").
// cases.Caser guarda estado, por eso se crea uno por llamada.
func StatusLabel(status string) string {
	return cases.Title(language.English).String(status)
}

func toItemResponses(items []domainbilling.LineItem) []dto.InvoiceItemResponse {
	out := make([]dto.InvoiceItemResponse, 0, len(items))
	for _, li := range items {
		out = append(out, dto.InvoiceItemResponse{
			ID:          li.ID,
			Description: li.Description,
			Quantity:    li.Quantity,
			Rate:        li.Rate,
			Amount:      li.Amount(),
		})
	}
	return out
}

func toTotalsResponse(t domainbilling.Totals) dto.TotalsResponse {
	r := t.Rounded()
	return dto.TotalsResponse{
		Subtotal:         t.Subtotal,
		TaxAmount:        t.TaxAmount,
		Total:            t.Total,
		SubtotalDisplay:  r.Subtotal.StringFixed(2),
		TaxAmountDisplay: r.TaxAmount.StringFixed(2),
		TotalDisplay:     r.Total.StringFixed(2),
	}
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		IssueDate:     inv.IssueDate.Format(dateLayout),
		DueDate:       inv.DueDate.Format(dateLayout),
		FromCompany:   inv.FromCompany,
		FromAddress:   inv.FromAddress,
		FromEmail:     inv.FromEmail,
		FromPhone:     inv.FromPhone,
		ToCompany:     inv.ToCompany,
		ToAddress:     inv.ToAddress,
		ToEmail:       inv.ToEmail,
		Items:         toItemResponses(inv.Items),
		Notes:         inv.Notes,
		TaxRate:       inv.TaxRate,
		Status:        inv.Status,
		StatusLabel:   StatusLabel(inv.Status),
		Totals:        toTotalsResponse(inv.Totals()),
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func toSummaryResponse(s *entity.InvoiceSummary) dto.InvoiceSummaryResponse {
	return dto.InvoiceSummaryResponse{
		ID:            s.ID,
		InvoiceNumber: s.InvoiceNumber,
		Status:        s.Status,
		StatusLabel:   StatusLabel(s.Status),
		FromCompany:   s.FromCompany,
		ToCompany:     s.ToCompany,
		IssueDate:     s.IssueDate.Format(dateLayout),
		DueDate:       s.DueDate.Format(dateLayout),
		Amount:        s.Total.Round(2).StringFixed(2),
	}
}
