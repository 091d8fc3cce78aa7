package tenant

import "errors"

var (
	// ErrAssociationNotFound is returned when no association matches the identifier.
	ErrAssociationNotFound = errors.New("tenant.association_not_found")

	// ErrInvalidIdentifier is returned when the identifier cannot be extracted.
	ErrInvalidIdentifier = errors.New("tenant.invalid_identifier")

	// ErrNoAssociationInContext is returned when the context carries no association.
	ErrNoAssociationInContext = errors.New("tenant.no_association_in_context")

	// ErrInactiveAssociation is returned for suspended or closed associations.
	ErrInactiveAssociation = errors.New("tenant.association_inactive")
)
