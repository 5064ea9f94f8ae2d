package fulfilments

// Link records that one warehouse is permitted to fulfil one product for one
// store. Links are append-only history; they are never updated or removed,
// so archived warehouses may keep their historical links.
type Link struct {
	StoreID                   int64  `json:"storeId"`
	ProductID                 int64  `json:"productId"`
	WarehouseBusinessUnitCode string `json:"warehouseBusinessUnitCode"`
}

// Fan-out ceilings enforced on assignment.
const (
	maxWarehousesPerStoreProduct = 2
	maxWarehousesPerStore        = 3
	maxProductsPerWarehouse      = 5
)
