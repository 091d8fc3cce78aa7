package rbac

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// rolesDocument is the on-disk layout of a role seed file:
//
//	roles:
//	  - id: tresorier
//	    name: Trésorier
//	    permissions: [view_finances, manage_finances]
//	    is_unique: true
//	    is_mandatory: true
type rolesDocument struct {
	Roles []RoleSeed `yaml:"roles"`
}

// LoadRoleSeedsYAML decodes a role seed document. Role contents are validated
// later, when Bootstrap creates the roles against the tenant catalog.
func LoadRoleSeedsYAML(r io.Reader) ([]RoleSeed, error) {
	var doc rolesDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Join(ErrFailedToParseRoles, err)
	}

	seen := make(map[string]bool, len(doc.Roles))
	for i, rs := range doc.Roles {
		id := strings.TrimSpace(rs.ID)
		if id == "" {
			return nil, errors.Join(ErrFailedToParseRoles, fmt.Errorf("role #%d has no id", i+1))
		}
		if seen[id] {
			return nil, errors.Join(ErrFailedToParseRoles, fmt.Errorf("role %q is declared twice", id))
		}
		seen[id] = true
		doc.Roles[i].ID = id
	}
	return doc.Roles, nil
}
