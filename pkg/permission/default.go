package permission

// Default association permissions.
const (
	ViewFinances        ID = "view_finances"
	ManageFinances      ID = "manage_finances"
	ValidateExpenses    ID = "validate_expenses"
	ValidateCotisations ID = "validate_cotisations"
	ExportFinances      ID = "export_finances"

	ViewMembers   ID = "view_members"
	ManageMembers ID = "manage_members"
	InviteMembers ID = "invite_members"

	ManageRoles    ID = "manage_roles"
	ManageSettings ID = "manage_settings"
	ViewAuditLog   ID = "view_audit_log"

	ViewDocuments   ID = "view_documents"
	UploadDocuments ID = "upload_documents"
	DeleteDocuments ID = "delete_documents"

	ViewEvents   ID = "view_events"
	ManageEvents ID = "manage_events"
)

// DefaultPermissions returns the catalog entries every new association starts with.
func DefaultPermissions() []Permission {
	return []Permission{
		{ID: ViewFinances, Name: "Consulter les finances", Category: CategoryFinances},
		{ID: ManageFinances, Name: "Gérer les finances", Category: CategoryFinances},
		{ID: ValidateExpenses, Name: "Valider les dépenses", Category: CategoryFinances},
		{ID: ValidateCotisations, Name: "Valider les cotisations", Category: CategoryFinances},
		{ID: ExportFinances, Name: "Exporter les finances", Category: CategoryFinances},

		{ID: ViewMembers, Name: "Consulter les membres", Category: CategoryMembres},
		{ID: ManageMembers, Name: "Gérer les membres", Category: CategoryMembres},
		{ID: InviteMembers, Name: "Inviter des membres", Category: CategoryMembres},

		{ID: ManageRoles, Name: "Gérer les rôles", Category: CategoryAdministration},
		{ID: ManageSettings, Name: "Gérer les paramètres", Category: CategoryAdministration},
		{ID: ViewAuditLog, Name: "Consulter le journal d'audit", Category: CategoryAdministration},

		{ID: ViewDocuments, Name: "Consulter les documents", Category: CategoryDocuments},
		{ID: UploadDocuments, Name: "Déposer des documents", Category: CategoryDocuments},
		{ID: DeleteDocuments, Name: "Supprimer des documents", Category: CategoryDocuments},

		{ID: ViewEvents, Name: "Consulter les événements", Category: CategoryEvenements},
		{ID: ManageEvents, Name: "Gérer les événements", Category: CategoryEvenements},
	}
}

// DefaultCatalog returns a catalog built from DefaultPermissions.
func DefaultCatalog() *Catalog {
	return MustCatalog(DefaultPermissions()...)
}
