package poster_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/infrastructure/poster"
)

func TestGetStorages_DecodificaSobre(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/storage.getStorages", r.URL.Path)
		assert.Equal(t, "tok-r1", r.URL.Query().Get("token"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response": []map[string]any{
				{"storage_id": 3, "storage_name": "Cocina", "storage_emoji": "🍳"},
			},
		})
	}))
	defer srv.Close()

	c := poster.NewClient(srv.URL, 5*time.Second)
	storages, err := c.GetStorages(context.Background(), "tok-r1")
	require.NoError(t, err)
	require.Len(t, storages, 1)
	assert.Equal(t, int64(3), storages[0].StorageID)
	assert.Equal(t, "Cocina", storages[0].Name)
}

func TestGetStorageLeftovers_CantidadComoString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("storage_id"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response": []map[string]any{
				{"ingredient_id": 99, "ingredient_left": "3.5", "ingredient_unit": "kg"},
			},
		})
	}))
	defer srv.Close()

	c := poster.NewClient(srv.URL, 5*time.Second)
	leftovers, err := c.GetStorageLeftovers(context.Background(), "tok", 7)
	require.NoError(t, err)
	require.Len(t, leftovers, 1)
	assert.True(t, leftovers[0].Left.Equal(decimal.RequireFromString("3.5")))
}

func TestCall_SobreDeErrorEsRechazo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 32, "message": "wrong supplier_id"},
		})
	}))
	defer srv.Close()

	c := poster.NewClient(srv.URL, 5*time.Second)
	_, err := c.GetSuppliers(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamRejected))
	assert.Contains(t, err.Error(), "wrong supplier_id")
}

func TestCall_HTTP500EsNoDisponible(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := poster.NewClient(srv.URL, 5*time.Second)
	_, err := c.GetIngredients(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamUnavailable))
}

func TestCall_ContextoCanceladoAborta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	c := poster.NewClient(srv.URL, 5*time.Second)
	_, err := c.GetStorages(ctx, "tok")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamUnavailable))
}

func TestCreateSupply_EnviaBodyYDevuelveID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var supply poster.Supply
		require.NoError(t, json.NewDecoder(r.Body).Decode(&supply))
		assert.Equal(t, int64(4), supply.SupplierID)
		require.Len(t, supply.Ingredients, 1)
		_ = json.NewEncoder(w).Encode(map[string]any{"response": 1234})
	}))
	defer srv.Close()

	c := poster.NewClient(srv.URL, 5*time.Second)
	id, err := c.CreateSupply(context.Background(), "tok", poster.Supply{
		SupplierID: 4,
		StorageID:  7,
		Date:       "2025-01-10 12:00:00",
		Ingredients: []poster.SupplyIngredient{
			{ID: 99, Num: decimal.NewFromInt(4), Sum: decimal.NewFromInt(120)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1234), id)
}
