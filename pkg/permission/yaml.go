package permission

import (
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// catalogDocument is the on-disk layout of a catalog file:
//
//	permissions:
//	  - id: view_finances
//	    name: Consulter les finances
//	    category: finances
type catalogDocument struct {
	Permissions []Permission `yaml:"permissions"`
}

// LoadYAML decodes a catalog document and validates it with NewCatalog.
func LoadYAML(r io.Reader) (*Catalog, error) {
	var doc catalogDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Join(ErrFailedToParseCatalog, err)
	}
	return NewCatalog(doc.Permissions...)
}
