package routing

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

// El despacho atribuye cada línea de pedido a un proveedor siguiendo
// producto → categoría → proveedor, emparejando por nombre. El emparejamiento
// por nombre es un paliativo heredado (riesgo de calidad de datos); el desempate
// con nombres duplicados es determinista: gana el id más bajo, productos
// sincronizados antes que los manuales.

// Fold normaliza un nombre para comparación: minúsculas y sin marcas
// diacríticas ("Azúcar" y "azucar" son el mismo producto).
func Fold(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Match es el resultado de resolver un nombre contra el catálogo del tenant.
type Match struct {
	ProductID  string // id interno del producto sincronizado; vacío si es custom
	ExternalID int64  // ingredient_id upstream; 0 si es custom
	CustomSeq  int64  // secuencia del producto custom; 0 si es sincronizado
	CategoryID string // vacío = sin categoría
}

// Matcher resuelve nombres de líneas de pedido contra el catálogo combinado.
type Matcher struct {
	index map[string]Match
}

// NewMatcher construye el índice de nombres normalizados. Ante nombres
// duplicados la primera inserción gana: sincronizados por ExternalID
// ascendente, luego customs por Seq ascendente.
func NewMatcher(products []*entity.Product, customs []*entity.CustomProduct) *Matcher {
	sorted := make([]*entity.Product, len(products))
	copy(sorted, products)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ExternalID < sorted[j].ExternalID })

	sortedCustoms := make([]*entity.CustomProduct, len(customs))
	copy(sortedCustoms, customs)
	sort.Slice(sortedCustoms, func(i, j int) bool { return sortedCustoms[i].Seq < sortedCustoms[j].Seq })

	index := make(map[string]Match, len(sorted)+len(sortedCustoms))
	for _, p := range sorted {
		key := Fold(p.Name)
		if _, ok := index[key]; ok {
			continue
		}
		index[key] = Match{ProductID: p.ID, ExternalID: p.ExternalID, CategoryID: p.CategoryID}
	}
	for _, c := range sortedCustoms {
		key := Fold(c.Name)
		if _, ok := index[key]; ok {
			continue
		}
		index[key] = Match{CustomSeq: c.Seq, CategoryID: c.CategoryID}
	}
	return &Matcher{index: index}
}

// Match resuelve un nombre; ok=false si no hay producto con ese nombre.
func (m *Matcher) Match(name string) (Match, bool) {
	match, ok := m.index[Fold(name)]
	return match, ok
}
