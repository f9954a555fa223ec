package routing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/domain/routing"
)

func TestFold_MinusculasYAcentos(t *testing.T) {
	assert.Equal(t, "azucar", routing.Fold("Azúcar"))
	assert.Equal(t, "leche entera", routing.Fold("  LECHE ENTERA "))
	assert.Equal(t, "jalapeno", routing.Fold("Jalapeño"))
}

func TestMatcher_EmparejaPorNombreInsensible(t *testing.T) {
	m := routing.NewMatcher([]*entity.Product{
		{ID: "p1", ExternalID: 99, Name: "Azúcar", CategoryID: "cat1"},
	}, nil)

	match, ok := m.Match("azucar")
	require.True(t, ok)
	assert.Equal(t, "p1", match.ProductID)
	assert.Equal(t, int64(99), match.ExternalID)
	assert.Equal(t, "cat1", match.CategoryID)
}

// Con nombres duplicados gana el id externo más bajo (desempate determinista,
// no depende del orden de entrada).
func TestMatcher_DesempateIdMasBajo(t *testing.T) {
	m := routing.NewMatcher([]*entity.Product{
		{ID: "p-alto", ExternalID: 500, Name: "Harina", CategoryID: "catB"},
		{ID: "p-bajo", ExternalID: 12, Name: "harina", CategoryID: "catA"},
	}, nil)

	match, ok := m.Match("Harina")
	require.True(t, ok)
	assert.Equal(t, "p-bajo", match.ProductID)
	assert.Equal(t, "catA", match.CategoryID)
}

// Un producto sincronizado con el mismo nombre que un custom tiene precedencia.
func TestMatcher_SincronizadoAntesQueCustom(t *testing.T) {
	m := routing.NewMatcher(
		[]*entity.Product{{ID: "p1", ExternalID: 7, Name: "Leche", CategoryID: "catS"}},
		[]*entity.CustomProduct{{Seq: 1, Name: "Leche", CategoryID: "catC"}},
	)

	match, ok := m.Match("leche")
	require.True(t, ok)
	assert.Equal(t, "p1", match.ProductID)
	assert.Zero(t, match.CustomSeq)
}

func TestMatcher_CustomResuelve(t *testing.T) {
	m := routing.NewMatcher(nil, []*entity.CustomProduct{
		{Seq: 15, Name: "Servilletas", CategoryID: "catC"},
	})

	match, ok := m.Match("SERVILLETAS")
	require.True(t, ok)
	assert.Equal(t, int64(15), match.CustomSeq)
	assert.Empty(t, match.ProductID)
}

func TestMatcher_SinCoincidencia(t *testing.T) {
	m := routing.NewMatcher(nil, nil)
	_, ok := m.Match("inexistente")
	assert.False(t, ok)
}
