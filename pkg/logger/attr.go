package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records err under the key "error". A nil err yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// AssociationID records the tenant under the key "association_id".
func AssociationID(id string) slog.Attr {
	return optionalString("association_id", id)
}

// MemberID records the member under the key "member_id".
func MemberID(id string) slog.Attr {
	return optionalString("member_id", id)
}

// UserID records the user under the key "user_id".
func UserID(id string) slog.Attr {
	return optionalString("user_id", id)
}

// RoleID records the role under the key "role_id".
func RoleID(id string) slog.Attr {
	return optionalString("role_id", id)
}

// PermissionID records a permission under the key "permission_id".
func PermissionID[T ~string](id T) slog.Attr {
	return optionalString("permission_id", string(id))
}

// Operation names the mutation being performed under the key "operation".
func Operation(name string) slog.Attr {
	return slog.String("operation", name)
}

// Version records an aggregate version under the key "version".
func Version(v int64) slog.Attr {
	return slog.Int64("version", v)
}

// EventType records the event type under the key "event_type".
func EventType(eventType string) slog.Attr {
	return slog.String("event_type", eventType)
}

// RetryCount records the retry count under the key "retry_count".
func RetryCount(count int) slog.Attr {
	return slog.Int("retry_count", count)
}

func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func optionalString(key, value string) slog.Attr {
	if value == "" {
		return slog.Attr{}
	}
	return slog.String(key, value)
}
