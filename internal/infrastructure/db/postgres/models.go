package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
)

// Unique index names. Violations are mapped back to domain errors by name.
const (
	idxUsersEmail   = "idx_users_email"
	idxUsersBarcode = "idx_users_barcode"
)

type roleRow struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:32;not null;uniqueIndex"`
}

func (roleRow) TableName() string { return "roles" }

type accountRow struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email                 string    `gorm:"size:254;not null;uniqueIndex:idx_users_email"`
	PasswordHash          string    `gorm:"size:72;not null;default:''"`
	FirstName             string    `gorm:"size:100;not null"`
	LastName              string    `gorm:"size:100;not null"`
	Barcode               *string   `gorm:"size:64;uniqueIndex:idx_users_barcode"`
	House                 string    `gorm:"size:64;not null;default:''"`
	RoleID                uint      `gorm:"not null;index"`
	Role                  roleRow   `gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT"`
	Valid                 bool      `gorm:"column:valid;not null;default:false"`
	EmailVerificationCode string    `gorm:"size:64;not null;default:''"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (accountRow) TableName() string { return "users" }

// BeforeCreate assigns the primary key.
func (a *accountRow) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *accountRow) toDomain() *domain.Account {
	out := &domain.Account{
		ID:                    a.ID.String(),
		Email:                 a.Email,
		PasswordHash:          a.PasswordHash,
		FirstName:             a.FirstName,
		LastName:              a.LastName,
		House:                 a.House,
		RoleID:                a.RoleID,
		IsValid:               a.Valid,
		EmailVerificationCode: a.EmailVerificationCode,
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
	}
	if a.Barcode != nil {
		out.Barcode = *a.Barcode
	}
	if a.Role.ID != 0 {
		out.Role = &domain.Role{ID: a.Role.ID, Name: a.Role.Name}
	}
	return out
}

type eventTypeRow struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:32;not null;uniqueIndex"`
}

func (eventTypeRow) TableName() string { return "event_types" }

type eventRow struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Name        string       `gorm:"size:200;not null"`
	Description string       `gorm:"type:text;not null;default:''"`
	Location    string       `gorm:"size:200;not null;default:''"`
	EventTypeID uint         `gorm:"not null;index"`
	EventType   eventTypeRow `gorm:"foreignKey:EventTypeID;constraint:OnDelete:RESTRICT"`
	OfficerID   *uuid.UUID   `gorm:"type:uuid;index"`
	Officer     *accountRow  `gorm:"foreignKey:OfficerID;constraint:OnDelete:SET NULL"`
	StartsAt    time.Time    `gorm:"not null;index"`
	EndsAt      time.Time    `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (eventRow) TableName() string { return "events" }

// BeforeCreate assigns the primary key.
func (e *eventRow) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e *eventRow) toDomain() *domain.Event {
	out := &domain.Event{
		ID:          e.ID.String(),
		Name:        e.Name,
		Description: e.Description,
		Location:    e.Location,
		EventTypeID: e.EventTypeID,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
	}
	if e.EventType.ID != 0 {
		out.EventType = &domain.EventType{ID: e.EventType.ID, Name: e.EventType.Name}
	}
	if e.OfficerID != nil {
		out.OfficerID = e.OfficerID.String()
	}
	return out
}

// attendanceRow is one (account, event) pair. The composite primary key
// makes a repeated check-in a conflict.
type attendanceRow struct {
	AccountID  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Account    accountRow `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	EventID    uuid.UUID  `gorm:"type:uuid;primaryKey;index"`
	Event      eventRow   `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	RecordedAt time.Time  `gorm:"not null"`
}

func (attendanceRow) TableName() string { return "attendance_records" }
