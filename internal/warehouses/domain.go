package warehouses

import "time"

// Warehouse is a fulfilment warehouse identified by its business unit code.
// One business unit code may have many historical records; at most one of
// them is active (ArchivedAt nil) and only the active record participates in
// constraint calculations.
//
// Capacity and Stock are pointers because payloads may omit them; the
// lifecycle engine rejects absent values before anything is persisted.
// Historical rows with absent capacity contribute zero to location sums.
type Warehouse struct {
	BusinessUnitCode string     `json:"businessUnitCode"`
	Location         string     `json:"location"`
	Capacity         *int       `json:"capacity,omitempty"`
	Stock            *int       `json:"stock,omitempty"`
	CreatedAt        time.Time  `json:"createdAt,omitzero"`
	ArchivedAt       *time.Time `json:"archivedAt,omitempty"`
}

// Active reports whether the record is the live one for its code.
func (w Warehouse) Active() bool {
	return w.ArchivedAt == nil
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func totalCapacity(warehouses []Warehouse) int {
	sum := 0
	for _, w := range warehouses {
		sum += intValue(w.Capacity)
	}
	return sum
}
