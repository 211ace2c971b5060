// Package validation valida una entrada candidata contra el catálogo antes de que pueda
// agregarse al área de preparación. Cada campo se evalúa por separado; no hay reglas cruzadas.
package validation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/site-logger/internal/domain"
	"github.com/jhoicas/site-logger/internal/domain/catalog"
	"github.com/jhoicas/site-logger/internal/domain/entity"
)

// Nombres de campo tal como viajan en JSON y en los formularios.
const (
	FieldLocation   = "location"
	FieldWeekEnding = "weekEnding"
	FieldMaterial   = "material"
	FieldQuantity   = "quantity"
	FieldUnit       = "unit"
	FieldDate       = "date"
	FieldMetric     = "metric"
	FieldHours      = "hours"
)

// InventoryForm valores crudos del formulario de inventario.
type InventoryForm struct {
	Location   string
	WeekEnding string
	Material   string
	Quantity   string
	Unit       string
}

// HoursForm valores crudos del formulario de horas de sistema.
type HoursForm struct {
	Location string
	Date     string
	Metric   string
	Hours    string
}

// Validator validador puro sobre un catálogo fijo.
type Validator struct {
	cat *catalog.Catalog
}

// New construye el validador. Si cat es nil usa el catálogo embebido.
func New(cat *catalog.Catalog) *Validator {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Validator{cat: cat}
}

// Catalog devuelve el catálogo usado por el validador.
func (v *Validator) Catalog() *catalog.Catalog { return v.cat }

// Inventory valida el formulario de inventario. El error, si existe, es domain.FieldErrors.
func (v *Validator) Inventory(f InventoryForm) (entity.InventoryEntry, error) {
	var errs domain.FieldErrors
	var out entity.InventoryEntry

	out.Location = v.choice(&errs, FieldLocation, f.Location, v.cat.HasSite)
	out.WeekEnding = date(&errs, FieldWeekEnding, f.WeekEnding)
	out.Material = v.choice(&errs, FieldMaterial, f.Material, v.cat.HasMaterial)
	out.Quantity = positive(&errs, FieldQuantity, f.Quantity)
	out.Unit = v.choice(&errs, FieldUnit, f.Unit, v.cat.HasUnit)

	if len(errs) > 0 {
		return entity.InventoryEntry{}, errs
	}
	return out, nil
}

// Hours valida el formulario de horas de sistema.
func (v *Validator) Hours(f HoursForm) (entity.HoursEntry, error) {
	var errs domain.FieldErrors
	var out entity.HoursEntry

	out.Location = v.choice(&errs, FieldLocation, f.Location, v.cat.HasSite)
	out.Date = date(&errs, FieldDate, f.Date)
	out.Metric = v.choice(&errs, FieldMetric, f.Metric, v.cat.HasMetric)
	out.Hours = positive(&errs, FieldHours, f.Hours)

	if len(errs) > 0 {
		return entity.HoursEntry{}, errs
	}
	return out, nil
}

func (v *Validator) choice(errs *domain.FieldErrors, field, raw string, allowed func(string) bool) string {
	val := strings.TrimSpace(raw)
	if !allowed(val) {
		*errs = append(*errs, domain.FieldError{Field: field, Err: domain.ErrInvalidChoice})
		return ""
	}
	return val
}

func positive(errs *domain.FieldErrors, field, raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !d.IsPositive() {
		*errs = append(*errs, domain.FieldError{Field: field, Err: domain.ErrInvalidNumber})
		return decimal.Zero
	}
	return d
}

func date(errs *domain.FieldErrors, field, raw string) time.Time {
	t, ok := ParseDate(raw)
	if !ok {
		*errs = append(*errs, domain.FieldError{Field: field, Err: domain.ErrInvalidDate})
		return time.Time{}
	}
	return t
}

// ParseDate acepta "2006-01-02" o un timestamp RFC 3339 (el cliente web envía toISOString)
// y devuelve la fecha calendario a medianoche UTC.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC), true
}
