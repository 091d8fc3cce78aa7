package rbac

// transferAdmin moves the administrator designation from one member to
// another. Both sides change in the same commit because the designation is a
// single field of the aggregate.
func (t *Tenant) transferAdmin(fromID, toID string) ([]Event, error) {
	if _, ok := t.Members[fromID]; !ok {
		return nil, notFound(KindMember, fromID)
	}
	to, ok := t.Members[toID]
	if !ok {
		return nil, notFound(KindMember, toID)
	}

	switch {
	case fromID == toID:
		return nil, invalidState("cannot transfer administration to the same member")
	case t.AdminMemberID != fromID:
		return nil, invalidState("member %q is not the administrator", fromID)
	case t.AdminMemberID == toID:
		return nil, invalidState("member %q is already the administrator", toID)
	case !to.Active():
		return nil, invalidState("member %q is %s and cannot become administrator", toID, to.Status)
	}

	t.AdminMemberID = toID
	t.adminChanged = true

	return []Event{{Type: EventAdminTransferred, FromMemberID: fromID, ToMemberID: toID}}, nil
}

// assignInitialAdmin designates the first administrator of a tenant that has none.
func (t *Tenant) assignInitialAdmin(memberID string) ([]Event, error) {
	m, ok := t.Members[memberID]
	if !ok {
		return nil, notFound(KindMember, memberID)
	}
	if t.AdminMemberID != "" {
		return nil, invalidState("association already has administrator %q", t.AdminMemberID)
	}
	if !m.Active() {
		return nil, invalidState("member %q is %s and cannot become administrator", memberID, m.Status)
	}

	t.AdminMemberID = memberID
	t.adminChanged = true

	return []Event{{Type: EventAdminTransferred, ToMemberID: memberID}}, nil
}
