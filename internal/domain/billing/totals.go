package billing

import "math"

// Totals agrupa los importes derivados de una factura. No se cachea:
// se recalcula en cada lectura a partir de las líneas.
type Totals struct {
	Subtotal  float64
	TaxAmount float64
	Total     float64
}

// ComputeTotals suma los importes de izquierda a derecha y aplica el
// porcentaje de impuesto. Una secuencia vacía da ceros; una tasa no finita
// se trata como 0. Se cumple siempre Total == Subtotal + TaxAmount.
func ComputeTotals(items []LineItem, taxRate float64) Totals {
	var subtotal float64
	for _, it := range items {
		subtotal += it.Amount()
	}
	if math.IsNaN(taxRate) || math.IsInf(taxRate, 0) {
		taxRate = 0
	}
	taxAmount := subtotal * (taxRate / 100)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal + taxAmount,
	}
}

// Rounded devuelve los totales redondeados a dos decimales para mostrar.
func (t Totals) Rounded() RoundedTotals {
	return RoundedTotals{
		Subtotal:  RoundMoney(t.Subtotal),
		TaxAmount: RoundMoney(t.TaxAmount),
		Total:     RoundMoney(t.Total),
	}
}
