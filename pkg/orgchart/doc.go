// Package orgchart manages descriptive titles shown on an association's
// organisation chart ("responsable communication", "référent section Nord").
//
// Titles carry no permissions and are never consulted when authorizing a
// member: use package rbac roles for that. The only invariant is that a
// title assigned to someone points at an existing member of the same
// association, which the Manager checks through a MemberLookup.
//
//	chart := orgchart.NewManager(orgchart.NewMemoryStorage(), engine)
//	title, err := chart.Create(ctx, "asso-1", orgchart.Input{Name: "Référent jeunesse"})
//	title, err = chart.Assign(ctx, "asso-1", title.ID, memberID)
package orgchart
