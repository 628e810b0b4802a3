package ports

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit actions recorded for the user lifecycle.
const (
	AuditUserRegistered  = "user_registered"
	AuditUserUpdated     = "user_updated"
	AuditUserDeactivated = "user_deactivated"
)

// AuditEntry is one immutable lifecycle event for a user record.
type AuditEntry struct {
	UserID primitive.ObjectID
	Action string
	At     time.Time
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry AuditEntry) error
}
