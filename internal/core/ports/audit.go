package ports

import (
	"context"
	"time"
)

// Audit actions.
const (
	AuditAccountCreated = "account.created"
	AuditAccountUpdated = "account.updated"
	AuditAccountDeleted = "account.deleted"
	AuditLoginSucceeded = "login.succeeded"
	AuditLoginRejected  = "login.rejected"
	AuditAttendance     = "attendance.recorded"
)

// AuditEntry is one record of the account audit trail. Fields holds attribute
// names only, never values.
type AuditEntry struct {
	Action    string
	AccountID string
	ActorID   string
	Email     string
	Fields    []string
	Reason    string
	At        time.Time
}

// AuditRecorder accepts audit entries without blocking the caller.
type AuditRecorder interface {
	Record(entry AuditEntry)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry AuditEntry) error
}

// LoginLimiter counts failed logins per email.
type LoginLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
