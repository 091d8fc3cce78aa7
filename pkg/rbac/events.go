package rbac

import (
	"context"
	"errors"
	"time"

	"github.com/assokit/assokit/pkg/broadcast"
	"github.com/assokit/assokit/pkg/permission"
)

// EventType names a role-change event.
type EventType string

const (
	EventRoleCreated         EventType = "role.created"
	EventRoleUpdated         EventType = "role.updated"
	EventRoleDeleted         EventType = "role.deleted"
	EventRoleDetached        EventType = "role.detached"
	EventRoleAssigned        EventType = "role.assigned"
	EventRoleRemoved         EventType = "role.removed"
	EventPermissionGranted   EventType = "permission.granted"
	EventPermissionRevoked   EventType = "permission.revoked"
	EventPermissionCleared   EventType = "permission.cleared"
	EventAdminTransferred    EventType = "admin.transferred"
	EventMemberAdded         EventType = "member.added"
	EventMemberStatusChanged EventType = "member.status_changed"
)

// Event is emitted after a mutation is committed, one per discrete change.
type Event struct {
	ID            string        `json:"id"`
	Type          EventType     `json:"type"`
	AssociationID string        `json:"association_id"`
	MemberID      string        `json:"member_id,omitempty"`
	RoleID        string        `json:"role_id,omitempty"`
	PermissionID  permission.ID `json:"permission_id,omitempty"`
	FromMemberID  string        `json:"from_member_id,omitempty"`
	ToMemberID    string        `json:"to_member_id,omitempty"`
	FromStatus    MemberStatus  `json:"from_status,omitempty"`
	ToStatus      MemberStatus  `json:"to_status,omitempty"`
	// ActorID is the member whose request caused the change, when known.
	ActorID string `json:"actor_id,omitempty"`
	// Version is the aggregate version produced by the commit.
	Version    int64     `json:"version"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher receives committed events. Publish errors are logged by the
// engine and never undo the commit.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// PublisherFunc adapts a function to EventPublisher.
type PublisherFunc func(ctx context.Context, event Event) error

func (f PublisherFunc) Publish(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// BroadcastPublisher fans events out through a broadcaster.
type BroadcastPublisher struct {
	Broadcaster broadcast.Broadcaster[Event]
}

func (p BroadcastPublisher) Publish(ctx context.Context, event Event) error {
	return p.Broadcaster.Broadcast(ctx, broadcast.Message[Event]{Data: event})
}

// MultiPublisher publishes to every publisher and joins their errors.
type MultiPublisher []EventPublisher

func (mp MultiPublisher) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range mp {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }
