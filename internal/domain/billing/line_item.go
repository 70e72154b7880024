// Package billing contiene el cálculo de importes de una factura:
// importe por línea, subtotal, impuesto y total. Son funciones puras,
// sin estado ni I/O; el llamador es dueño de la colección de líneas.
package billing

import (
	"math"
	"strconv"
	"strings"
)

// Valores que sustituyen a una cantidad o tarifa no numérica.
const (
	DefaultQuantity = 1.0
	DefaultRate     = 0.0
)

// LineItem es una fila facturable. El importe no se almacena: Amount lo
// deriva siempre de Quantity y Rate.
type LineItem struct {
	ID          string
	Description string
	Quantity    float64
	Rate        float64
}

// Amount devuelve Quantity × Rate.
func (li LineItem) Amount() float64 {
	return ComputeLineAmount(li.Quantity, li.Rate)
}

// ComputeLineAmount devuelve quantity * rate con la precisión de float64.
// Los argumentos deben venir ya validados (ver ParseQuantity / ParseRate).
func ComputeLineAmount(quantity, rate float64) float64 {
	return quantity * rate
}

// ParseQuantity interpreta una cantidad. ok=false si el texto no es un número
// finito y no negativo; el llamador decide qué valor usar en ese caso.
func ParseQuantity(raw string) (float64, bool) {
	return parseNonNegative(raw)
}

// ParseRate interpreta una tarifa con las mismas reglas que ParseQuantity.
func ParseRate(raw string) (float64, bool) {
	return parseNonNegative(raw)
}

func parseNonNegative(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

// NewLineItem construye una línea a partir de la entrada cruda del usuario.
// Cantidad y tarifa pasan por quantityOrDefault / rateOrDefault.
func NewLineItem(id, description, rawQuantity, rawRate string) LineItem {
	return LineItem{
		ID:          id,
		Description: description,
		Quantity:    quantityOrDefault(rawQuantity),
		Rate:        rateOrDefault(rawRate),
	}
}

// quantityOrDefault y rateOrDefault son el único punto donde se aplican los
// valores por defecto: cantidad inválida → DefaultQuantity, tarifa inválida →
// DefaultRate.
func quantityOrDefault(raw string) float64 {
	if q, ok := ParseQuantity(raw); ok {
		return q
	}
	return DefaultQuantity
}

func rateOrDefault(raw string) float64 {
	if r, ok := ParseRate(raw); ok {
		return r
	}
	return DefaultRate
}
