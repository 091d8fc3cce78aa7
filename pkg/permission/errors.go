package permission

import "errors"

var (
	// ErrDuplicatePermission is returned when a catalog lists the same id twice.
	ErrDuplicatePermission = errors.New("permission.duplicate_permission")

	// ErrInvalidCategory is returned when a permission uses a category outside the closed set.
	ErrInvalidCategory = errors.New("permission.invalid_category")

	// ErrEmptyID is returned when a permission has a blank id.
	ErrEmptyID = errors.New("permission.empty_id")

	// ErrFailedToParseCatalog is returned when a catalog document cannot be decoded.
	ErrFailedToParseCatalog = errors.New("permission.failed_to_parse_catalog")
)
