// Package catalog define los valores enumerados (sitios, materiales, unidades, métricas)
// que comparten el validador de formularios y el mapeo de filas persistidas.
// El catálogo se embebe en el binario: es conocido en tiempo de compilación.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultYAML []byte

// Unidades de medida de inventario.
const (
	UnitTons  = "TN"
	UnitYards = "YD"
)

// Métricas de horas de sistema.
const (
	MetricSystemRuntime       = "System Runtime"
	MetricOperationalDowntime = "Operational Downtime"
	MetricMechanicalDowntime  = "Mechanical Downtime"
)

// Catalog conjunto de valores permitidos. Los slices conservan el orden de presentación.
type Catalog struct {
	Sites     []string `yaml:"sites" json:"sites"`
	Materials []string `yaml:"materials" json:"materials"`
	Units     []string `yaml:"units" json:"units"`
	Metrics   []string `yaml:"metrics" json:"metrics"`
	Industry  string   `yaml:"industry" json:"industry"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default devuelve el catálogo embebido. Panic si el YAML embebido es inválido (error de build).
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultYAML)
		if err != nil {
			panic("catálogo embebido inválido: " + err.Error())
		}
		defaultCat = c
	})
	return defaultCat
}

// Parse lee un catálogo YAML y verifica que ninguna lista esté vacía ni tenga duplicados.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: parsear yaml: %w", err)
	}
	lists := map[string][]string{
		"sites":     c.Sites,
		"materials": c.Materials,
		"units":     c.Units,
		"metrics":   c.Metrics,
	}
	for name, values := range lists {
		if len(values) == 0 {
			return nil, fmt.Errorf("catalog: lista %q vacía", name)
		}
		seen := make(map[string]struct{}, len(values))
		for _, v := range values {
			if _, dup := seen[v]; dup {
				return nil, fmt.Errorf("catalog: valor duplicado %q en %q", v, name)
			}
			seen[v] = struct{}{}
		}
	}
	return &c, nil
}

func (c *Catalog) HasSite(v string) bool     { return slices.Contains(c.Sites, v) }
func (c *Catalog) HasMaterial(v string) bool { return slices.Contains(c.Materials, v) }
func (c *Catalog) HasUnit(v string) bool     { return slices.Contains(c.Units, v) }
func (c *Catalog) HasMetric(v string) bool   { return slices.Contains(c.Metrics, v) }
