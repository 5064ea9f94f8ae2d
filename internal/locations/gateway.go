// Package locations serves the location reference data consumed by the
// warehouse constraint checks. Limits are resolved fresh on every operation
// and never cached across operations.
package locations

import (
	"context"
	"errors"
)

// Location describes the limits enforced at one fulfilment location.
type Location struct {
	Identification        string `json:"identification"`
	MaxNumberOfWarehouses int    `json:"maxNumberOfWarehouses"`
	MaxCapacity           int    `json:"maxCapacity"`
}

// ErrUnknownLocation indicates the identifier has no reference entry.
var ErrUnknownLocation = errors.New("unknown location")

// Resolver resolves a location identifier to its limits.
type Resolver interface {
	ResolveByIdentifier(ctx context.Context, identifier string) (Location, error)
}

// Gateway resolves locations from the static reference set.
type Gateway struct {
	byIdentifier map[string]Location
}

// NewGateway builds a Gateway seeded with the known locations.
func NewGateway() *Gateway {
	known := []Location{
		{Identification: "ZWOLLE-001", MaxNumberOfWarehouses: 1, MaxCapacity: 40},
		{Identification: "ZWOLLE-002", MaxNumberOfWarehouses: 2, MaxCapacity: 50},
		{Identification: "AMSTERDAM-001", MaxNumberOfWarehouses: 5, MaxCapacity: 100},
		{Identification: "AMSTERDAM-002", MaxNumberOfWarehouses: 3, MaxCapacity: 75},
		{Identification: "TILBURG-001", MaxNumberOfWarehouses: 2, MaxCapacity: 40},
		{Identification: "HELMOND-001", MaxNumberOfWarehouses: 1, MaxCapacity: 45},
		{Identification: "EINDHOVEN-001", MaxNumberOfWarehouses: 2, MaxCapacity: 70},
	}
	byIdentifier := make(map[string]Location, len(known))
	for _, loc := range known {
		byIdentifier[loc.Identification] = loc
	}
	return &Gateway{byIdentifier: byIdentifier}
}

// ResolveByIdentifier returns the location limits for the identifier.
func (g *Gateway) ResolveByIdentifier(_ context.Context, identifier string) (Location, error) {
	loc, ok := g.byIdentifier[identifier]
	if !ok {
		return Location{}, ErrUnknownLocation
	}
	return loc, nil
}
