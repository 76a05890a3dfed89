package ports

import (
	"context"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
)

// EventRepository reads events and records attendance.
type EventRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	ListTypes(ctx context.Context) ([]*domain.EventType, error)
	ListAttendedBy(ctx context.Context, accountID string) ([]*domain.Event, error)
	ListChairedBy(ctx context.Context, accountID string) ([]*domain.Event, error)
	ListAttendees(ctx context.Context, eventID string) ([]*domain.Account, error)

	// RecordAttendance inserts an attendance row. Returns domain.ErrAlreadyAttended
	// when the (account, event) pair already exists.
	RecordAttendance(ctx context.Context, rec domain.AttendanceRecord) error
}
