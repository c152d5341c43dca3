package service

import "errors"

// Errors surfaced by the template and export services. Routers map these to
// HTTP status codes; everything else is treated as an internal failure.
var (
	// ErrBadWorkbook means the uploaded file could not be parsed into the
	// expected Amazon flat-file shape (missing Template sheet or no
	// recognizable field columns).
	ErrBadWorkbook = errors.New("workbook does not match the expected template layout")

	// ErrDuplicateValue means a valid value already exists on the field
	// (case-sensitive exact match).
	ErrDuplicateValue = errors.New("value already exists for this field")

	// ErrValueNotAllowed means a selected value is not one of the field's
	// valid values.
	ErrValueNotAllowed = errors.New("value is not in the field's valid values")

	// ErrDuplicateLink means the equipment type is already linked to the
	// product type.
	ErrDuplicateLink = errors.New("equipment type is already linked to this product type")

	// ErrNoModels means an export was requested with no resolvable models.
	ErrNoModels = errors.New("no models selected for export")

	// ErrNoTemplateLink means a model's equipment type has no product type
	// linked, so no template can be resolved for it.
	ErrNoTemplateLink = errors.New("no product type linked to the model's equipment type")

	// ErrMixedTemplates means the selected models resolve to more than one
	// product type; exports cover exactly one template at a time.
	ErrMixedTemplates = errors.New("selected models resolve to different product types")

	// ErrListingTypeUnsupported means the listing type is recognized but not
	// implemented (parent/child listings).
	ErrListingTypeUnsupported = errors.New("listing type is not supported yet")
)
