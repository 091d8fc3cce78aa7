// Package logger builds log/slog loggers with functional options and
// context-driven attributes.
//
// New returns a *slog.Logger whose handler runs ContextExtractor callbacks on
// each record, so request-scoped values such as the association or member id
// are added without threading them through every call:
//
//	log := logger.New(
//	    append(logger.FromConfig(cfg.Log),
//	        logger.WithContextExtractors(tenant.LoggerExtractor(), rbac.LoggerExtractor()),
//	    )...,
//	)
//	log.InfoContext(ctx, "Role created", logger.RoleID(id))
//
// Attribute helpers (AssociationID, MemberID, RoleID, PermissionID, Error and
// others) keep key names consistent. Helpers for optional values return an
// empty slog.Attr, which slog drops, when the value is empty.
package logger
