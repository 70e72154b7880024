package billing

import (
	"math"

	"github.com/shopspring/decimal"
)

// RoundedTotals son los totales listos para mostrar o renderizar.
// Cada campo se redondea por separado a partir del valor sin redondear,
// así no se acumula error entre subtotal → impuesto → total.
type RoundedTotals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// RoundMoney redondea a dos decimales, mitad hacia arriba (half away from
// zero para negativos). Parte de la representación decimal más corta del
// float64, de modo que 2.675 → 2.68 y no 2.67.
func RoundMoney(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Round(2)
}

// FormatMoney devuelve el importe con exactamente dos decimales ("1234.50").
func FormatMoney(v float64) string {
	return RoundMoney(v).StringFixed(2)
}
