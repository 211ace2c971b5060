package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/site-logger/internal/application/validation"
)

func TestReadRecords_EncabezadosYAlias(t *testing.T) {
	in := "Site;Week_Ending;Material;Tons;Unit\n" +
		"1004;2024-06-08;Wood;12.5;TN\n" +
		";;;;\n" +
		"1042; 2024-06-08 ;Concrete;3;YD\n"

	recs, err := readRecords(strings.NewReader(in), "utf-8", ';')
	require.NoError(t, err)
	require.Len(t, recs, 2, "las filas en blanco se ignoran")

	assert.Equal(t, 2, recs[0].line)
	assert.Equal(t, 4, recs[1].line)

	want := validation.InventoryForm{Location: "1004", WeekEnding: "2024-06-08", Material: "Wood", Quantity: "12.5", Unit: "TN"}
	if diff := cmp.Diff(want, recs[0].inventoryForm()); diff != "" {
		t.Errorf("inventoryForm (-want +got):\n%s", diff)
	}
	assert.Equal(t, "2024-06-08", recs[1].inventoryForm().WeekEnding)
	assert.Equal(t, "Concrete", recs[1].inventoryForm().Material)
}

func TestReadRecords_QuantityTienePrioridadSobreTons(t *testing.T) {
	in := "location,weekEnding,material,quantity,tons,unit\n1004,2024-06-08,Wood,4,9,TN\n"
	recs, err := readRecords(strings.NewReader(in), "", ',')
	require.NoError(t, err)
	assert.Equal(t, "4", recs[0].inventoryForm().Quantity)
}

func TestReadRecords_Windows1252(t *testing.T) {
	// "Métrica" y "Añadido" codificados en Windows-1252.
	raw := []byte("location,date,M\xe9trica,hours,nota\n1042,2024-06-03,System Runtime,8,A\xf1adido\n")

	recs, err := readRecords(bytes.NewReader(raw), "windows-1252", ',')
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Añadido", recs[0].fields["nota"])
	assert.Equal(t, "System Runtime", recs[0].get("métrica"))
}

func TestReadRecords_BOMUTF8(t *testing.T) {
	raw := "\ufefflocation,date,metric,hours\n1042,2024-06-03,System Runtime,8\n"

	recs, err := readRecords(strings.NewReader(raw), "utf-8", ',')
	require.NoError(t, err)
	want := validation.HoursForm{Location: "1042", Date: "2024-06-03", Metric: "System Runtime", Hours: "8"}
	assert.Equal(t, want, recs[0].hoursForm())
}

func TestReadRecords_Errores(t *testing.T) {
	_, err := readRecords(strings.NewReader(""), "utf-8", ',')
	assert.Error(t, err)

	_, err = readRecords(strings.NewReader("a\n1\n"), "ebcdic", ',')
	assert.ErrorContains(t, err, "codificación")
}
