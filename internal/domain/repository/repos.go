package repository

// Repos agrupa los repositorios con scope de tenant que un TxRunner ata a una
// misma transacción (con app.tenant_id ya fijado para las políticas RLS).
type Repos struct {
	Sections       SectionRepository
	Categories     CategoryRepository
	Suppliers      SupplierRepository
	Products       ProductRepository
	CustomProducts CustomProductRepository
	Leftovers      LeftoverRepository
	Orders         OrderRepository
	SupplierOrders SupplierOrderRepository
}
