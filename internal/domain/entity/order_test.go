package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

func newPendingOrder() *entity.Order {
	o := &entity.Order{
		ID:       "o1",
		TenantID: "t1",
		Status:   entity.OrderStatusPending,
		Items: []entity.OrderItem{
			{Name: "Leche", Quantity: decimal.NewFromInt(5), Unit: "l"},
		},
	}
	o.RecomputeTotals()
	return o
}

// ──────────────────────────────────────────────────────────────────────────────
// Totales derivados: para cualquier secuencia de create/modify,
// TotalQuantity == suma de cantidades de las líneas.
// ──────────────────────────────────────────────────────────────────────────────

func TestOrder_TotalesDerivadosDeItems(t *testing.T) {
	o := newPendingOrder()
	assert.Equal(t, 1, o.TotalItems)
	assert.True(t, o.TotalQuantity.Equal(decimal.NewFromInt(5)))

	ok := o.AppendItems([]entity.OrderItem{
		{Name: "Harina", Quantity: decimal.NewFromInt(3), Unit: "kg"},
		{Name: "Azúcar", Quantity: decimal.RequireFromString("1.5"), Unit: "kg"},
	}, "agregado por staff")
	require.True(t, ok)

	assert.Equal(t, 3, o.TotalItems)
	assert.True(t, o.TotalQuantity.Equal(decimal.RequireFromString("9.5")))
	assert.True(t, o.Modified)
	assert.Equal(t, "agregado por staff", o.Note)
}

func TestOrder_AppendPermitidoEnSent(t *testing.T) {
	o := newPendingOrder()
	require.True(t, o.MarkSent(time.Now()))

	ok := o.AppendItems([]entity.OrderItem{{Name: "Sal", Quantity: decimal.NewFromInt(1), Unit: "kg"}}, "")
	assert.True(t, ok)
	assert.Equal(t, 2, o.TotalItems)
}

func TestOrder_AppendRechazadoEnDelivered(t *testing.T) {
	o := newPendingOrder()
	require.True(t, o.MarkSent(time.Now()))
	require.True(t, o.MarkDelivered(time.Now(), nil))

	ok := o.AppendItems([]entity.OrderItem{{Name: "Sal", Quantity: decimal.NewFromInt(1), Unit: "kg"}}, "")
	assert.False(t, ok)
	assert.Equal(t, 1, o.TotalItems)
}

// ──────────────────────────────────────────────────────────────────────────────
// Monotonía del estado: solo pending → sent → delivered.
// ──────────────────────────────────────────────────────────────────────────────

func TestOrder_MonotoniaDeEstados(t *testing.T) {
	o := newPendingOrder()

	assert.True(t, o.CanTransition(entity.OrderStatusSent))
	require.True(t, o.MarkSent(time.Now()))
	assert.Equal(t, entity.OrderStatusSent, o.Status)
	require.NotNil(t, o.SentAt)

	// Re-despachar un pedido ya enviado no transiciona de nuevo
	assert.False(t, o.MarkSent(time.Now()))

	require.True(t, o.MarkDelivered(time.Now(), nil))
	assert.Equal(t, entity.OrderStatusDelivered, o.Status)

	// delivered es terminal: ni sent ni delivered de nuevo
	assert.False(t, o.CanTransition(entity.OrderStatusSent))
	assert.False(t, o.MarkDelivered(time.Now(), nil))
}

func TestOrder_EntregaDirectaDesdePending(t *testing.T) {
	o := newPendingOrder()
	assert.True(t, o.CanTransition(entity.OrderStatusDelivered))
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario del flujo completo: pedido de 5 l de leche, entregado con 4.
// El total sigue reflejando lo solicitado (5); actual_quantity registra 4.
// ──────────────────────────────────────────────────────────────────────────────

func TestOrder_EscenarioLeche5Entregan4(t *testing.T) {
	o := newPendingOrder()
	require.True(t, o.MarkSent(time.Now()))

	ok := o.MarkDelivered(time.Now(), map[int]decimal.Decimal{0: decimal.NewFromInt(4)})
	require.True(t, ok)

	assert.Equal(t, entity.OrderStatusDelivered, o.Status)
	assert.True(t, o.TotalQuantity.Equal(decimal.NewFromInt(5)), "el total sigue siendo lo solicitado")
	require.NotNil(t, o.Items[0].ActualQuantity)
	assert.True(t, o.Items[0].ActualQuantity.Equal(decimal.NewFromInt(4)))
}

func TestOrder_EntregaConIndiceInvalidoNoTocaNada(t *testing.T) {
	o := newPendingOrder()
	require.True(t, o.MarkSent(time.Now()))

	ok := o.MarkDelivered(time.Now(), map[int]decimal.Decimal{5: decimal.NewFromInt(1)})
	assert.False(t, ok)
	assert.Equal(t, entity.OrderStatusSent, o.Status)
	assert.Nil(t, o.Items[0].ActualQuantity)
}

func TestOrder_EntregaConCantidadNegativaRechazada(t *testing.T) {
	o := newPendingOrder()
	require.True(t, o.MarkSent(time.Now()))

	ok := o.MarkDelivered(time.Now(), map[int]decimal.Decimal{0: decimal.NewFromInt(-1)})
	assert.False(t, ok)
	assert.Equal(t, entity.OrderStatusSent, o.Status)
}

func TestOrderItem_Valid(t *testing.T) {
	assert.True(t, entity.OrderItem{Name: "Leche", Quantity: decimal.NewFromInt(5), Unit: "l"}.Valid())
	assert.False(t, entity.OrderItem{Name: "", Quantity: decimal.NewFromInt(5), Unit: "l"}.Valid())
	assert.False(t, entity.OrderItem{Name: "Leche", Quantity: decimal.Zero, Unit: "l"}.Valid())
	assert.False(t, entity.OrderItem{Name: "Leche", Quantity: decimal.NewFromInt(-2), Unit: "l"}.Valid())
	assert.False(t, entity.OrderItem{Name: "Leche", Quantity: decimal.NewFromInt(5), Unit: ""}.Valid())
}
