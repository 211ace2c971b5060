package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/site-logger/internal/domain/catalog"
)

func TestDefault_ContieneValoresDeAmbosFormularios(t *testing.T) {
	c := catalog.Default()

	assert.True(t, c.HasSite("1004"))
	assert.True(t, c.HasSite("1042"))
	assert.True(t, c.HasSite("4055"))
	assert.True(t, c.HasMaterial("Wood"))
	assert.True(t, c.HasMaterial("C&D Residue"))
	assert.True(t, c.HasUnit(catalog.UnitTons))
	assert.True(t, c.HasUnit(catalog.UnitYards))
	assert.True(t, c.HasMetric(catalog.MetricMechanicalDowntime))
	assert.Len(t, c.Materials, 15)
	assert.Len(t, c.Metrics, 3)
}

func TestDefault_MembresiaExacta(t *testing.T) {
	c := catalog.Default()

	assert.False(t, c.HasMaterial("wood"), "la comparación distingue mayúsculas")
	assert.False(t, c.HasSite("9999"))
	assert.False(t, c.HasUnit("KG"))
	assert.False(t, c.HasMetric(""))
}

func TestParse_RechazaDuplicados(t *testing.T) {
	_, err := catalog.Parse([]byte(`
sites: ["1", "1"]
materials: [Wood]
units: [TN]
metrics: [System Runtime]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicado")
}

func TestParse_RechazaListaVacia(t *testing.T) {
	_, err := catalog.Parse([]byte(`
sites: ["1"]
materials: []
units: [TN]
metrics: [System Runtime]
`))
	require.Error(t, err)
}
