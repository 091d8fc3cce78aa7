package rbac

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/assokit/assokit/pkg/audit"
	"github.com/assokit/assokit/pkg/broadcast"
	"github.com/assokit/assokit/pkg/logger"
)

// AuditListener records committed events in an audit log. Use it directly as
// an EventPublisher or run Listen on a broadcast subscription.
type AuditListener struct {
	audit  *audit.Logger
	logger *slog.Logger
}

func NewAuditListener(a *audit.Logger, log *slog.Logger) *AuditListener {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &AuditListener{audit: a, logger: log.With(logger.Component("rbac.audit"))}
}

func (l *AuditListener) Publish(ctx context.Context, ev Event) error {
	return l.audit.Log(ctx, string(ev.Type), auditOptions(ev)...)
}

// Listen consumes sub until ctx is done or the subscription closes.
// Failed writes are logged and do not stop the loop.
func (l *AuditListener) Listen(ctx context.Context, sub broadcast.Subscriber[Event]) {
	ch := sub.Receive(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := l.Publish(ctx, msg.Data); err != nil {
				l.logger.ErrorContext(ctx, "Failed to write audit event",
					logger.AssociationID(msg.Data.AssociationID),
					logger.EventType(string(msg.Data.Type)),
					logger.Error(err),
				)
			}
		}
	}
}

func auditOptions(ev Event) []audit.EventOption {
	opts := []audit.EventOption{
		audit.WithID(ev.ID),
		audit.WithAssociation(ev.AssociationID),
		audit.WithTime(ev.OccurredAt),
		audit.WithActor(ev.ActorID),
		audit.WithMetadata("version", strconv.FormatInt(ev.Version, 10)),
		audit.WithMetadata("role_id", ev.RoleID),
		audit.WithMetadata("member_id", ev.MemberID),
		audit.WithMetadata("permission_id", string(ev.PermissionID)),
		audit.WithMetadata("from_member_id", ev.FromMemberID),
		audit.WithMetadata("to_member_id", ev.ToMemberID),
		audit.WithMetadata("from_status", string(ev.FromStatus)),
		audit.WithMetadata("to_status", string(ev.ToStatus)),
	}

	switch ev.Type {
	case EventRoleCreated, EventRoleUpdated, EventRoleDeleted:
		opts = append(opts, audit.WithResource("role", ev.RoleID))
	case EventAdminTransferred:
		opts = append(opts, audit.WithResource("association", ev.AssociationID))
	default:
		opts = append(opts, audit.WithResource("member", ev.MemberID))
	}
	return opts
}
