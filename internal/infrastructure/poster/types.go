package poster

import "github.com/shopspring/decimal"

// Tipos de payload del proveedor POS. El POS es la fuente de verdad para
// almacenes, catálogo de ingredientes y existencias en vivo; cada llamada se
// autentica con el token por tenant.

// Storage es un almacén físico del POS (se mapea 1:1 a una Section local).
type Storage struct {
	StorageID int64  `json:"storage_id"`
	Name      string `json:"storage_name"`
	Emoji     string `json:"storage_emoji"`
}

// Ingredient es una entrada del catálogo con su categoría opcional.
type Ingredient struct {
	IngredientID int64  `json:"ingredient_id"`
	Name         string `json:"ingredient_name"`
	Unit         string `json:"ingredient_unit"`
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name"`
}

// Leftover es la existencia de un ingrediente en un almacén.
// El POS serializa cantidades como string ("3.5"); decimal acepta ambas formas.
type Leftover struct {
	IngredientID int64           `json:"ingredient_id"`
	Left         decimal.Decimal `json:"ingredient_left"`
	Unit         string          `json:"ingredient_unit"`
}

// Supplier es un proveedor registrado en el POS.
type Supplier struct {
	SupplierID int64  `json:"supplier_id"`
	Name       string `json:"supplier_name"`
	Phone      string `json:"supplier_phone"`
	Address    string `json:"supplier_adr"`
}

// SupplyIngredient es una línea del registro de entrada de mercancía.
type SupplyIngredient struct {
	ID  int64           `json:"id"`  // ingredient_id upstream
	Num decimal.Decimal `json:"num"` // cantidad recibida
	Sum decimal.Decimal `json:"sum"` // precio total de la línea
}

// Supply es el registro de mercancía recibida que reconcilia un pedido
// entregado con el stock del POS.
type Supply struct {
	SupplierID  int64              `json:"supplier_id"`
	StorageID   int64              `json:"storage_id"`
	Date        string             `json:"date"` // YYYY-MM-DD HH:MM:SS
	Ingredients []SupplyIngredient `json:"ingredient"`
}
