// Package audit records who changed what inside an association.
//
// A Logger builds Event values, fills the association and actor from the
// request context through extractors, validates them and hands them to a
// Storage. A Reader queries stored events with Criteria.
//
//	storage := audit.NewMemoryStorage()
//	log := audit.NewLogger(storage,
//	    audit.WithAssociationIDExtractor(tenant.IDFromContext),
//	    audit.WithActorIDExtractor(rbac.MemberIDFromContext),
//	)
//	_ = log.Log(ctx, "role.created", audit.WithResource("role", roleID))
//
// Events can carry a SHA-256 checksum of their content (WithHasher) so that
// tampering with stored rows can be detected with Verify.
package audit
