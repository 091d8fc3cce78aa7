package audit

import (
	"context"
	"fmt"
	"time"
)

// Result represents the outcome of an audited action.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
	ResultError   Result = "error"
)

// Event is a single audit log entry.
type Event struct {
	ID            string         `json:"id"`
	AssociationID string         `json:"association_id"`
	ActorID       string         `json:"actor_id,omitempty"`
	Action        string         `json:"action"`
	Resource      string         `json:"resource,omitempty"`
	ResourceID    string         `json:"resource_id,omitempty"`
	Result        Result         `json:"result"`
	Error         string         `json:"error,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Checksum      string         `json:"checksum,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Validate checks the required fields.
func (e *Event) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrEventValidation)
	}
	if e.AssociationID == "" {
		return fmt.Errorf("%w: association id is required", ErrEventValidation)
	}
	return nil
}

// EventOption applies configuration to an Event during creation.
type EventOption func(*Event)

// Criteria filters events in Storage.Query. Zero fields match everything.
type Criteria struct {
	AssociationID string
	ActorID       string
	Action        string
	Resource      string
	ResourceID    string
	Result        Result
	StartTime     time.Time
	EndTime       time.Time
	Limit         int
	Offset        int
}

// Matches reports whether e satisfies every non-zero field of c.
func (c Criteria) Matches(e Event) bool {
	switch {
	case c.AssociationID != "" && e.AssociationID != c.AssociationID,
		c.ActorID != "" && e.ActorID != c.ActorID,
		c.Action != "" && e.Action != c.Action,
		c.Resource != "" && e.Resource != c.Resource,
		c.ResourceID != "" && e.ResourceID != c.ResourceID,
		c.Result != "" && e.Result != c.Result,
		!c.StartTime.IsZero() && e.CreatedAt.Before(c.StartTime),
		!c.EndTime.IsZero() && !e.CreatedAt.Before(c.EndTime):
		return false
	}
	return true
}

// Storage persists and queries audit events.
type Storage interface {
	Store(ctx context.Context, events ...Event) error
	Query(ctx context.Context, criteria Criteria) ([]Event, error)
}

// StorageCounter is implemented by storages able to count without loading rows.
type StorageCounter interface {
	Count(ctx context.Context, criteria Criteria) (int64, error)
}
