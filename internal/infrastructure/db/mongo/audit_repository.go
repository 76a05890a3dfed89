package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tbp-ucsd/membership-api/internal/core/ports"
)

const (
	auditCollection = "account_audit"
	loginCollection = "login_records"
)

// AuditRepository implements ports.AuditRepository. Login attempts go to
// login_records, everything else to account_audit.
type AuditRepository struct {
	audit  *mongo.Collection
	logins *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{
		audit:  db.Collection(auditCollection),
		logins: db.Collection(loginCollection),
	}
}

type auditDoc struct {
	Action    string    `bson:"action"`
	AccountID string    `bson:"account_id,omitempty"`
	ActorID   string    `bson:"actor_id,omitempty"`
	Email     string    `bson:"email,omitempty"`
	Fields    []string  `bson:"fields,omitempty"`
	Reason    string    `bson:"reason,omitempty"`
	At        time.Time `bson:"at"`
}

// Insert stores one audit entry. A zero At is replaced with the current time.
func (r *AuditRepository) Insert(ctx context.Context, entry ports.AuditEntry) error {
	doc := toAuditDoc(entry)

	coll := r.audit
	if isLoginAction(entry.Action) {
		coll = r.logins
	}

	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert %s entry: %w", coll.Name(), err)
	}
	return nil
}

func toAuditDoc(e ports.AuditEntry) auditDoc {
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	return auditDoc{
		Action:    e.Action,
		AccountID: e.AccountID,
		ActorID:   e.ActorID,
		Email:     strings.ToLower(e.Email),
		Fields:    e.Fields,
		Reason:    e.Reason,
		At:        at.UTC(),
	}
}

func isLoginAction(action string) bool {
	return strings.HasPrefix(action, "login.")
}
