package dto

import (
	"bytes"
	"encoding/json"
)

// NumericInput conserva el texto crudo de un campo numérico del cliente.
// Acepta número JSON, string numérico, null o cualquier otro valor; la
// interpretación (y el valor por defecto) se decide en el dominio.
type NumericInput struct {
	Raw string
	Set bool
}

// NewNumericInput construye una entrada a partir de texto.
func NewNumericInput(raw string) NumericInput {
	return NumericInput{Raw: raw, Set: true}
}

// UnmarshalJSON nunca falla: lo que no sea número o string queda como texto
// no numérico y acabará en el valor por defecto.
func (n *NumericInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = NumericInput{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*n = NumericInput{Raw: s, Set: true}
			return nil
		}
	}
	*n = NumericInput{Raw: string(b), Set: true}
	return nil
}

// MarshalJSON emite el número tal cual si es válido como JSON numérico; si no, como string.
func (n NumericInput) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	var num json.Number
	if err := json.Unmarshal([]byte(n.Raw), &num); err == nil {
		return []byte(num.String()), nil
	}
	return json.Marshal(n.Raw)
}
