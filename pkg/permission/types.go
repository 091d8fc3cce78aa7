package permission

// ID identifies a permission within an association catalog.
type ID string

func (id ID) String() string {
	return string(id)
}

// Category groups permissions for display and reporting.
type Category string

const (
	CategoryFinances       Category = "finances"
	CategoryMembres        Category = "membres"
	CategoryAdministration Category = "administration"
	CategoryDocuments      Category = "documents"
	CategoryEvenements     Category = "evenements"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryFinances,
		CategoryMembres,
		CategoryAdministration,
		CategoryDocuments,
		CategoryEvenements,
	}
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryFinances, CategoryMembres, CategoryAdministration, CategoryDocuments, CategoryEvenements:
		return true
	}
	return false
}

// Permission is an immutable catalog entry.
type Permission struct {
	ID          ID       `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Category    Category `json:"category" yaml:"category"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// IDs converts plain strings into permission ids.
func IDs(values ...string) []ID {
	ids := make([]ID, len(values))
	for i, v := range values {
		ids[i] = ID(v)
	}
	return ids
}
