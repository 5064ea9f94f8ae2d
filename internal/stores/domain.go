package stores

// Store is a retail outlet that can be fulfilled from warehouses.
type Store struct {
	ID                      int64  `json:"id,omitempty"`
	Name                    string `json:"name"`
	QuantityProductsInStock int    `json:"quantityProductsInStock"`
}
