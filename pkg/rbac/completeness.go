package rbac

// CompletenessReport lists mandatory roles without an active holder.
type CompletenessReport struct {
	AssociationID string                 `json:"association_id"`
	Vacant        []MandatoryRoleWarning `json:"vacant"`
}

// Complete reports whether every mandatory role has an active holder.
func (r CompletenessReport) Complete() bool {
	return len(r.Vacant) == 0
}

// Completeness computes the report in role catalog order.
func (t *Tenant) Completeness() CompletenessReport {
	report := CompletenessReport{AssociationID: t.AssociationID}
	for _, role := range t.Roles.Roles {
		if role.IsMandatory && len(t.activeHolders(role.ID, "")) == 0 {
			report.Vacant = append(report.Vacant, MandatoryRoleWarning{RoleID: role.ID, RoleName: role.Name})
		}
	}
	return report
}
