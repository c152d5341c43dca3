package service

import "errors"

var (
	// ErrDuplicateName is returned when a create or rename collides with an
	// existing record's unique name.
	ErrDuplicateName = errors.New("a record with this name already exists")

	// ErrDuplicateAssignment is returned when an option is already assigned
	// to the equipment type.
	ErrDuplicateAssignment = errors.New("option is already assigned to this equipment type")

	// ErrColourNotAvailable is returned by the pricing calculation when the
	// requested colour is neither the material's base colour nor a configured
	// surcharge colour.
	ErrColourNotAvailable = errors.New("colour is not available for this material")

	// ErrNoShippingRate is returned when no rate band covers the requested
	// carrier, zone and computed weight.
	ErrNoShippingRate = errors.New("no shipping rate matches the carrier, zone and weight")

	// ErrInvalidQuantity is returned when a pricing request or order line
	// carries a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrOrderHasNoLines is returned when an order is created without lines.
	ErrOrderHasNoLines = errors.New("order must have at least one line")
)
