package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teamforge/identity-service/internal/core/ports"
)

const collectionUserAudit = "user_audit"

// AuditRepository persists user lifecycle audit entries. Entries are
// append-only; nothing in the service reads them back.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionUserAudit)}
}

type auditDoc struct {
	UserID primitive.ObjectID `bson:"user_id"`
	Action string             `bson:"action"`
	At     time.Time          `bson:"at"`
}

func (r *AuditRepository) Insert(ctx context.Context, entry ports.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, auditDoc{
		UserID: entry.UserID,
		Action: entry.Action,
		At:     entry.At,
	})
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
