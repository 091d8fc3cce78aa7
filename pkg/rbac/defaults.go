package rbac

import (
	"slices"

	"github.com/assokit/assokit/pkg/permission"
)

// Identifiers of the default bureau roles.
const (
	RolePresident  = "president"
	RoleTresorier  = "tresorier"
	RoleSecretaire = "secretaire"
	RoleMembre     = "membre"
)

// RoleSeed is a role with a fixed id, used to bootstrap a tenant.
type RoleSeed struct {
	ID string `json:"id" yaml:"id"`
	RoleInput `yaml:",inline"`
}

// DefaultRoles returns the standard association bureau. Permissions missing
// from catalog are dropped so the seed always validates.
func DefaultRoles(catalog *permission.Catalog) []RoleSeed {
	seeds := []RoleSeed{
		{ID: RolePresident, RoleInput: RoleInput{
			Name:        "Président",
			Description: "Représente l'association et préside le bureau",
			Permissions: []permission.ID{
				permission.ViewFinances, permission.ValidateExpenses, permission.ViewMembers,
				permission.ManageMembers, permission.InviteMembers, permission.ManageRoles,
				permission.ManageSettings, permission.ViewAuditLog, permission.ViewDocuments,
				permission.UploadDocuments, permission.ViewEvents, permission.ManageEvents,
			},
			IsUnique:    true,
			IsMandatory: true,
			Color:       "#1D4ED8",
			Icon:        "crown",
		}},
		{ID: RoleTresorier, RoleInput: RoleInput{
			Name:        "Trésorier",
			Description: "Tient les comptes et valide les dépenses",
			Permissions: []permission.ID{
				permission.ViewFinances, permission.ManageFinances, permission.ValidateExpenses,
				permission.ValidateCotisations, permission.ExportFinances, permission.ViewMembers,
				permission.ViewDocuments,
			},
			IsUnique:    true,
			IsMandatory: true,
			Color:       "#059669",
			Icon:        "wallet",
		}},
		{ID: RoleSecretaire, RoleInput: RoleInput{
			Name:        "Secrétaire",
			Description: "Gère les adhérents, les documents et les événements",
			Permissions: []permission.ID{
				permission.ViewMembers, permission.ManageMembers, permission.InviteMembers,
				permission.ViewDocuments, permission.UploadDocuments, permission.DeleteDocuments,
				permission.ViewEvents, permission.ManageEvents,
			},
			IsUnique:    true,
			IsMandatory: true,
			Color:       "#D97706",
			Icon:        "feather",
		}},
		{ID: RoleMembre, RoleInput: RoleInput{
			Name:         "Membre",
			Description:  "Adhérent de l'association",
			Permissions:  []permission.ID{permission.ViewDocuments, permission.ViewEvents},
			CanBeRenamed: true,
			Icon:         "user",
		}},
	}

	for i := range seeds {
		seeds[i].Permissions = slices.DeleteFunc(seeds[i].Permissions, func(id permission.ID) bool {
			return !catalog.Has(id)
		})
	}
	return seeds
}

// TenantSeed describes a new tenant for Engine.Bootstrap.
type TenantSeed struct {
	AssociationID string
	// Catalog defaults to permission.DefaultCatalog.
	Catalog *permission.Catalog
	// Roles defaults to DefaultRoles(Catalog).
	Roles []RoleSeed
	// Admin is registered as the first member, active and administrator.
	Admin MemberInput
}
