package models

import "time"

// Anonymous actor identity recorded when no session can be resolved.
const (
	AnonymousActorID    = "anonymous"
	AnonymousActorEmail = "anonymous@system"
)

// AuditEntry is a single append-only audit log record. Entries are never
// updated or deleted by the application.
type AuditEntry struct {
	ID         int64          `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	ActorID    string         `json:"actor_id"`
	ActorEmail string         `json:"actor_email"`
	ActorName  string         `json:"actor_name,omitempty"`
	Detail     map[string]any `json:"detail,omitempty"`
	IP         string         `json:"ip"`
	UserAgent  string         `json:"user_agent"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AuditQueryOpts holds filters for querying the audit log.
type AuditQueryOpts struct {
	EntityType string
	EntityID   string
	Action     string
	ActorEmail string
	Since      *time.Time
	Limit      int
	Offset     int
}

// Dot-namespaced audit actions for every privileged mutation.
const (
	ActionUserCreated       = "user.created"
	ActionUserUpdated       = "user.updated"
	ActionUserDeactivated   = "user.deactivated"
	ActionInspectionCreated = "inspection.created"
	ActionInspectionUpdated = "inspection.updated"
	ActionInspectionDeleted = "inspection.deleted"
	ActionRetentionSweep    = "inspection.retention_sweep"
)
