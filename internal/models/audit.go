package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AuditActionDeleteUser = "delete_user"
)

// AuditEntry records a privileged admin operation, best-effort.
type AuditEntry struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ActorID  string             `bson:"actor_id" json:"actor_id"`
	Action   string             `bson:"action" json:"action"`
	TargetID string             `bson:"target_id" json:"target_id"`
	Success  bool               `bson:"success" json:"success"`
	Error    string             `bson:"error,omitempty" json:"error,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
