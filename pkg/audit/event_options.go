package audit

import "time"

// WithResource sets the resource type and ID.
func WithResource(resource, id string) EventOption {
	return func(e *Event) {
		e.Resource = resource
		e.ResourceID = id
	}
}

// WithMetadata adds metadata to the event. Empty values are skipped.
func WithMetadata(key string, value any) EventOption {
	return func(e *Event) {
		if value == nil || value == "" {
			return
		}
		if e.Metadata == nil {
			e.Metadata = make(map[string]any)
		}
		e.Metadata[key] = value
	}
}

func WithResult(result Result) EventOption {
	return func(e *Event) {
		e.Result = result
	}
}

// WithAssociation overrides the association taken from context.
func WithAssociation(id string) EventOption {
	return func(e *Event) {
		if id != "" {
			e.AssociationID = id
		}
	}
}

// WithActor overrides the actor taken from context.
func WithActor(id string) EventOption {
	return func(e *Event) {
		if id != "" {
			e.ActorID = id
		}
	}
}

// WithID sets the event id instead of generating one.
func WithID(id string) EventOption {
	return func(e *Event) {
		if id != "" {
			e.ID = id
		}
	}
}

// WithTime sets the event time instead of using the logger clock.
func WithTime(t time.Time) EventOption {
	return func(e *Event) {
		if !t.IsZero() {
			e.CreatedAt = t
		}
	}
}
