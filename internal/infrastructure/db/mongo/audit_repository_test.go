package mongo

import (
	"testing"
	"time"

	"github.com/tbp-ucsd/membership-api/internal/core/ports"
)

func TestToAuditDoc(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("PST", -8*3600))
	doc := toAuditDoc(ports.AuditEntry{
		Action:    ports.AuditAccountUpdated,
		AccountID: "acc-1",
		ActorID:   "admin-1",
		Email:     "Ada@Example.com",
		Fields:    []string{"email", "role"},
		At:        at,
	})

	if doc.Email != "ada@example.com" {
		t.Errorf("email not normalised: %q", doc.Email)
	}
	if doc.At.Location() != time.UTC || !doc.At.Equal(at) {
		t.Errorf("expected UTC timestamp equal to input, got %v", doc.At)
	}
	if len(doc.Fields) != 2 {
		t.Errorf("fields = %v", doc.Fields)
	}

	if toAuditDoc(ports.AuditEntry{Action: ports.AuditLoginRejected}).At.IsZero() {
		t.Error("zero At must default to now")
	}
}

func TestIsLoginAction(t *testing.T) {
	tests := map[string]bool{
		ports.AuditLoginSucceeded: true,
		ports.AuditLoginRejected:  true,
		ports.AuditAccountCreated: false,
		ports.AuditAttendance:     false,
	}
	for action, want := range tests {
		if got := isLoginAction(action); got != want {
			t.Errorf("isLoginAction(%q) = %v, want %v", action, got, want)
		}
	}
}
