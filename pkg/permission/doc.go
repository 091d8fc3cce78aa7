// Package permission provides the tenant-scoped permission catalog used by
// the rbac engine.
//
// A Catalog is a closed, ordered set of Permission entries. Every permission
// id that enters the system (role definitions, member overrides, guard checks)
// is validated against the catalog of its association, so a typo is rejected
// at the mutation boundary instead of silently resolving to "denied".
//
// Permissions are grouped by Category. The set of categories is fixed:
//
//   - finances
//   - membres
//   - administration
//   - documents
//   - evenements
//
// Basic usage:
//
//	catalog := permission.DefaultCatalog()
//
//	if !catalog.Has(permission.ValidateExpenses) {
//	    // unknown permission
//	}
//
//	unknown := catalog.Unknown([]permission.ID{"view_finances", "typo"})
//	// unknown == []permission.ID{"typo"}
//
// Catalogs can also be loaded from YAML at tenant bootstrap:
//
//	catalog, err := permission.LoadYAML(file)
//
// A Catalog is immutable after construction and safe for concurrent use.
package permission
