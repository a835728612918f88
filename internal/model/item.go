package model

import "github.com/shopspring/decimal"

// RetailItem is a product found by a retail search, with the pack size and
// volume extracted from its free-form name.
type RetailItem struct {
	Name  string
	Price decimal.Decimal

	// UnitCount is at least 1. CountFound reports whether it came from the
	// name or is the default.
	UnitCount  int
	CountFound bool

	// VolumeMl is 0 when VolumeFound is false.
	VolumeMl    int
	VolumeFound bool

	UnitPrice decimal.Decimal
}
