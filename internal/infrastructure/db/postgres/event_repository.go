package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
)

// EventRepository implements ports.EventRepository with GORM.
type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	uid, err := parseID(id, domain.ErrEventNotFound)
	if err != nil {
		return nil, err
	}

	var row eventRow
	err = r.db.WithContext(ctx).Joins("EventType").Where("events.id = ?", uid).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, domain.Operational("find event", err)
	}
	return row.toDomain(), nil
}

func (r *EventRepository) ListTypes(ctx context.Context) ([]*domain.EventType, error) {
	var rows []eventTypeRow
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, domain.Operational("list event types", err)
	}
	out := make([]*domain.EventType, 0, len(rows))
	for _, row := range rows {
		out = append(out, &domain.EventType{ID: row.ID, Name: row.Name})
	}
	return out, nil
}

// ListAttendedBy returns the events the account checked in to, newest first.
func (r *EventRepository) ListAttendedBy(ctx context.Context, accountID string) ([]*domain.Event, error) {
	uid, err := parseID(accountID, domain.ErrAccountNotFound)
	if err != nil {
		return nil, err
	}
	return r.listEvents("list attended events", r.db.WithContext(ctx).
		Joins("JOIN attendance_records ar ON ar.event_id = events.id").
		Where("ar.account_id = ?", uid))
}

// ListChairedBy returns the events the account is the officer of, newest first.
func (r *EventRepository) ListChairedBy(ctx context.Context, accountID string) ([]*domain.Event, error) {
	uid, err := parseID(accountID, domain.ErrAccountNotFound)
	if err != nil {
		return nil, err
	}
	return r.listEvents("list chaired events", r.db.WithContext(ctx).Where("events.officer_id = ?", uid))
}

func (r *EventRepository) listEvents(op string, q *gorm.DB) ([]*domain.Event, error) {
	var rows []eventRow
	if err := q.Joins("EventType").Order("events.starts_at DESC").Find(&rows).Error; err != nil {
		return nil, domain.Operational(op, err)
	}
	out := make([]*domain.Event, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// ListAttendees returns the accounts checked in to the event, in check-in order.
func (r *EventRepository) ListAttendees(ctx context.Context, eventID string) ([]*domain.Account, error) {
	uid, err := parseID(eventID, domain.ErrEventNotFound)
	if err != nil {
		return nil, err
	}

	var rows []accountRow
	err = r.db.WithContext(ctx).
		Joins("Role").
		Joins("JOIN attendance_records ar ON ar.account_id = users.id").
		Where("ar.event_id = ?", uid).
		Order("ar.recorded_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, domain.Operational("list attendees", err)
	}

	out := make([]*domain.Account, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// RecordAttendance inserts the (account, event) pair. An existing pair is left
// untouched and reported as domain.ErrAlreadyAttended.
func (r *EventRepository) RecordAttendance(ctx context.Context, rec domain.AttendanceRecord) error {
	accountID, err := uuid.Parse(rec.AccountID)
	if err != nil {
		return domain.ErrAccountNotFound
	}
	eventID, err := uuid.Parse(rec.EventID)
	if err != nil {
		return domain.ErrEventNotFound
	}

	row := attendanceRow{AccountID: accountID, EventID: eventID, RecordedAt: rec.RecordedAt}
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		return domain.Operational("record attendance", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAlreadyAttended
	}
	return nil
}
