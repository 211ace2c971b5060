package dto

import "github.com/jhoicas/site-logger/internal/application/validation"

// SaveInventoryRequest body para POST /api/save-inventory.
type SaveInventoryRequest struct {
	// UserEmail declarado por el cliente; la identidad del proveedor siempre tiene prioridad.
	UserEmail string              `json:"userEmail"`
	Items     []InventoryItemJSON `json:"items"`
	Notify    bool                `json:"notify,omitempty"`
}

// InventoryItemJSON fila de inventario tal como llega del cliente.
type InventoryItemJSON struct {
	Location   FlexString `json:"location"`
	WeekEnding string     `json:"weekEnding"`
	Material   string     `json:"material"`
	Quantity   FlexString `json:"quantity"`
	// Tons alias heredado; se usa solo cuando quantity viene vacío.
	Tons FlexString `json:"tons,omitempty"`
	Unit string     `json:"unit"`
}

// Form convierte la fila al formulario crudo del validador.
func (i InventoryItemJSON) Form() validation.InventoryForm {
	q := i.Quantity
	if q == "" {
		q = i.Tons
	}
	return validation.InventoryForm{
		Location:   i.Location.String(),
		WeekEnding: i.WeekEnding,
		Material:   i.Material,
		Quantity:   q.String(),
		Unit:       i.Unit,
	}
}

// InventoryForms convierte todas las filas en orden.
func InventoryForms(items []InventoryItemJSON) []validation.InventoryForm {
	out := make([]validation.InventoryForm, len(items))
	for i, it := range items {
		out[i] = it.Form()
	}
	return out
}

// SaveSystemHoursRequest body para POST /api/save-system-hours.
type SaveSystemHoursRequest struct {
	UserEmail string          `json:"userEmail"`
	Items     []HoursItemJSON `json:"items"`
	Notify    bool            `json:"notify,omitempty"`
}

// HoursItemJSON fila de horas de sistema.
type HoursItemJSON struct {
	Location FlexString `json:"location"`
	Date     string     `json:"date"`
	Metric   string     `json:"metric"`
	Hours    FlexString `json:"hours"`
}

// Form convierte la fila al formulario crudo del validador.
func (i HoursItemJSON) Form() validation.HoursForm {
	return validation.HoursForm{
		Location: i.Location.String(),
		Date:     i.Date,
		Metric:   i.Metric,
		Hours:    i.Hours.String(),
	}
}

// HoursForms convierte todas las filas en orden.
func HoursForms(items []HoursItemJSON) []validation.HoursForm {
	out := make([]validation.HoursForm, len(items))
	for i, it := range items {
		out[i] = it.Form()
	}
	return out
}
