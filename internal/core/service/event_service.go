package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
	"github.com/tbp-ucsd/membership-api/internal/core/ports"
)

// EventService reads events and records attendance.
type EventService struct {
	events   ports.EventRepository
	accounts ports.AccountRepository
	audit    ports.AuditRecorder
	log      zerolog.Logger
}

func NewEventService(
	events ports.EventRepository,
	accounts ports.AccountRepository,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *EventService {
	return &EventService{
		events:   events,
		accounts: accounts,
		audit:    audit,
		log:      log,
	}
}

func (s *EventService) GetEvent(ctx context.Context, id string, embeds ports.EventEmbeds) (*ports.EventDetail, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ports.EventDetail{Event: event}

	// A chair whose account was deleted leaves the event without an officer.
	if embeds.Officer && event.OfficerID != "" {
		officer, err := s.accounts.FindByID(ctx, event.OfficerID)
		switch {
		case err == nil:
			detail.Officer = officer
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}

	if embeds.Attendees {
		if detail.Attendees, err = s.events.ListAttendees(ctx, id); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

func (s *EventService) ListEventTypes(ctx context.Context) ([]*domain.EventType, error) {
	return s.events.ListTypes(ctx)
}

// CheckIn records attendance for the member holding the barcode. Officers and
// admins only. Repeating a check-in is not an error.
func (s *EventService) CheckIn(ctx context.Context, in ports.CheckInInput) (*ports.CheckInResult, error) {
	actor, err := currentActor(ctx, s.accounts, in.Actor)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleOfficer && actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	event, err := s.events.FindByID(ctx, in.EventID)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByBarcode(ctx, in.Barcode)
	if err != nil {
		return nil, err
	}

	rec := domain.AttendanceRecord{
		AccountID:  account.ID,
		EventID:    event.ID,
		RecordedAt: time.Now().UTC(),
	}
	if err := s.events.RecordAttendance(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrAlreadyAttended) {
			s.log.Debug().Str("account_id", account.ID).Str("event_id", event.ID).Msg("attendance already recorded")
			return &ports.CheckInResult{Record: rec, AlreadyRecorded: true}, nil
		}
		return nil, err
	}

	s.audit.Record(ports.AuditEntry{
		Action:    ports.AuditAttendance,
		AccountID: account.ID,
		ActorID:   in.Actor.AccountID,
		Email:     account.Email,
		Reason:    event.ID,
	})
	s.log.Info().Str("account_id", account.ID).Str("event_id", event.ID).Msg("attendance recorded")

	return &ports.CheckInResult{Record: rec}, nil
}
