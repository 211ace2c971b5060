package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/site-logger/internal/application/validation"
)

// record fila del CSV con su número de línea y las columnas por nombre normalizado.
type record struct {
	line   int
	fields map[string]string
}

func (r record) get(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r.fields[k]); v != "" {
			return v
		}
	}
	return ""
}

func (r record) inventoryForm() validation.InventoryForm {
	return validation.InventoryForm{
		Location:   r.get("location"),
		WeekEnding: r.get("weekending"),
		Material:   r.get("material"),
		Quantity:   r.get("quantity", "tons"),
		Unit:       r.get("unit"),
	}
}

func (r record) hoursForm() validation.HoursForm {
	return validation.HoursForm{
		Location: r.get("location"),
		Date:     r.get("date"),
		Metric:   r.get("metric"),
		Hours:    r.get("hours"),
	}
}

// headerAliases nombres alternativos que aparecen en exportaciones de planilla.
var headerAliases = map[string]string{
	"site":       "location",
	"sitio":      "location",
	"weekend":    "weekending",
	"semana":     "weekending",
	"ton":        "tons",
	"toneladas":  "tons",
	"cantidad":   "quantity",
	"unidad":     "unit",
	"fecha":      "date",
	"metrica":    "metric",
	"horas":      "hours",
	"systemhour": "hours",
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
	if alias, ok := headerAliases[h]; ok {
		return alias
	}
	return h
}

// sourceEncoding codificación del archivo de entrada.
func sourceEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		// Las exportaciones de Excel suelen traer BOM.
		return unicode.UTF8BOM, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1, nil
	}
	return nil, fmt.Errorf("codificación no soportada: %q", name)
}

// readRecords lee el CSV completo. La primera fila es el encabezado.
func readRecords(r io.Reader, enc string, delim rune) ([]record, error) {
	e, err := sourceEncoding(enc)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(transform.NewReader(r, e.NewDecoder()))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("archivo vacío")
	}
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = normalizeHeader(h)
	}

	var out []record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("leer CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)
		rec := record{line: line, fields: make(map[string]string, len(cols))}
		blank := true
		for i, v := range row {
			if i < len(cols) {
				rec.fields[cols[i]] = v
			}
			if strings.TrimSpace(v) != "" {
				blank = false
			}
		}
		if !blank {
			out = append(out, rec)
		}
	}
}
