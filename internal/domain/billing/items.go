package billing

import "github.com/google/uuid"

// ItemField identifica el campo editable de una línea.
type ItemField string

const (
	FieldDescription ItemField = "description"
	FieldQuantity    ItemField = "quantity"
	FieldRate        ItemField = "rate"
)

// Items es la colección ordenada de líneas de una factura en edición.
// Nunca queda vacía: se crea con una fila y Remove no borra la última.
// No es segura para uso concurrente; el dueño serializa las mutaciones.
type Items struct {
	list  []LineItem
	newID func() string
}

// NewItems crea una colección con una línea por defecto.
func NewItems() *Items {
	c := &Items{newID: uuid.NewString}
	c.Add()
	return c
}

// ItemsFrom crea una colección a partir de líneas existentes respetando su
// orden. IDs vacíos o repetidos se reemplazan por uno nuevo. Si list está
// vacía se agrega una línea por defecto.
func ItemsFrom(list []LineItem) *Items {
	c := &Items{newID: uuid.NewString, list: make([]LineItem, 0, len(list))}
	seen := make(map[string]struct{}, len(list))
	for _, li := range list {
		if _, dup := seen[li.ID]; li.ID == "" || dup {
			li.ID = c.newID()
		}
		seen[li.ID] = struct{}{}
		c.list = append(c.list, li)
	}
	if len(c.list) == 0 {
		c.Add()
	}
	return c
}

// Add agrega al final una línea con cantidad 1 y tarifa 0.
func (c *Items) Add() LineItem {
	li := LineItem{ID: c.newID(), Quantity: DefaultQuantity, Rate: DefaultRate}
	c.list = append(c.list, li)
	return li
}

// Update modifica un campo de la línea id. Los campos numéricos pasan por
// el mismo parseo y valores por defecto que NewLineItem. Devuelve false si
// la línea o el campo no existen.
func (c *Items) Update(id string, field ItemField, raw string) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	li := &c.list[i]
	switch field {
	case FieldDescription:
		li.Description = raw
	case FieldQuantity:
		li.Quantity = quantityOrDefault(raw)
	case FieldRate:
		li.Rate = rateOrDefault(raw)
	default:
		return false
	}
	return true
}

// Remove elimina la línea id. Es un no-op (false) si no existe o si es la
// única que queda.
func (c *Items) Remove(id string) bool {
	if len(c.list) <= 1 {
		return false
	}
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.list = append(c.list[:i], c.list[i+1:]...)
	return true
}

// List devuelve una copia de las líneas en orden de inserción.
func (c *Items) List() []LineItem {
	out := make([]LineItem, len(c.list))
	copy(out, c.list)
	return out
}

// Len número de líneas.
func (c *Items) Len() int { return len(c.list) }

// Totals calcula los totales actuales con la tasa indicada.
func (c *Items) Totals(taxRate float64) Totals {
	return ComputeTotals(c.list, taxRate)
}

func (c *Items) indexOf(id string) int {
	for i := range c.list {
		if c.list[i].ID == id {
			return i
		}
	}
	return -1
}
