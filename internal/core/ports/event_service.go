package ports

import (
	"context"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
)

// EventEmbeds selects which relations GetEvent loads.
type EventEmbeds struct {
	Officer   bool
	Attendees bool
}

// EventDetail is an event plus the relations requested through EventEmbeds.
type EventDetail struct {
	Event     *domain.Event
	Officer   *domain.Account
	Attendees []*domain.Account
}

// CheckInInput records that the member holding Barcode attended EventID.
type CheckInInput struct {
	EventID string
	Barcode string
	Actor   Actor
}

// CheckInResult is returned by CheckIn.
type CheckInResult struct {
	Record domain.AttendanceRecord
	// AlreadyRecorded is true when the member had already been checked in.
	AlreadyRecorded bool
}

type EventService interface {
	GetEvent(ctx context.Context, id string, embeds EventEmbeds) (*EventDetail, error)
	ListEventTypes(ctx context.Context) ([]*domain.EventType, error)
	CheckIn(ctx context.Context, in CheckInInput) (*CheckInResult, error)
}
