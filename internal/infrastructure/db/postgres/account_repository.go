package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
	"github.com/tbp-ucsd/membership-api/internal/core/ports"
)

// AccountRepository implements ports.AccountRepository with GORM.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	uid, err := parseID(id, domain.ErrAccountNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, "users.id = ?", uid)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, "users.email = ?", email)
}

func (r *AccountRepository) FindByBarcode(ctx context.Context, barcode string) (*domain.Account, error) {
	if barcode == "" {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, "users.barcode = ?", barcode)
}

func (r *AccountRepository) findOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var row accountRow
	err := r.db.WithContext(ctx).Joins("Role").Where(query, arg).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, domain.Operational("find account", err)
	}
	return row.toDomain(), nil
}

// List returns one page of accounts ordered by creation time, with the total
// number of matches.
func (r *AccountRepository) List(ctx context.Context, f ports.AccountFilter) ([]*domain.Account, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&accountRow{}).Scopes(accountFilter(f)).Count(&total).Error; err != nil {
		return nil, 0, domain.Operational("count accounts", err)
	}

	var rows []accountRow
	err := r.db.WithContext(ctx).
		Scopes(accountFilter(f)).
		Joins("Role").
		Order("users.created_at ASC, users.id ASC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, domain.Operational("list accounts", err)
	}

	out := make([]*domain.Account, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, total, nil
}

// accountFilter applies the exact-match filters of f.
func accountFilter(f ports.AccountFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.Email != "" {
			q = q.Where("users.email = ?", f.Email)
		}
		if f.FirstName != "" {
			q = q.Where("users.first_name = ?", f.FirstName)
		}
		if f.LastName != "" {
			q = q.Where("users.last_name = ?", f.LastName)
		}
		if f.House != "" {
			q = q.Where("users.house = ?", f.House)
		}
		return q
	}
}

// Create inserts a gated change. The change must carry a resolved RoleID.
func (r *AccountRepository) Create(ctx context.Context, change domain.AccountChange) (*domain.Account, error) {
	if change.RoleID == nil {
		return nil, domain.Operational("create account", errors.New("role not resolved"))
	}

	row := accountRow{RoleID: *change.RoleID}
	applyChange(&row, change)

	if err := r.db.WithContext(ctx).Omit("Role").Create(&row).Error; err != nil {
		return nil, mapWriteError("create account", err)
	}
	return r.FindByID(ctx, row.ID.String())
}

// Update applies a gated change. Only the fields present in the change are
// written, plus the validity flag.
func (r *AccountRepository) Update(ctx context.Context, id string, change domain.AccountChange) (*domain.Account, error) {
	uid, err := parseID(id, domain.ErrAccountNotFound)
	if err != nil {
		return nil, err
	}

	res := r.db.WithContext(ctx).
		Model(&accountRow{}).
		Where("id = ?", uid).
		Updates(updateColumns(change))
	if res.Error != nil {
		return nil, mapWriteError("update account", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	uid, err := parseID(id, domain.ErrAccountNotFound)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Where("id = ?", uid).Delete(&accountRow{})
	if res.Error != nil {
		return domain.Operational("delete account", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func applyChange(row *accountRow, c domain.AccountChange) {
	if c.Email != nil {
		row.Email = *c.Email
	}
	if c.PasswordHash != nil {
		row.PasswordHash = *c.PasswordHash
	}
	if c.FirstName != nil {
		row.FirstName = *c.FirstName
	}
	if c.LastName != nil {
		row.LastName = *c.LastName
	}
	if c.Barcode != nil {
		row.Barcode = nullable(*c.Barcode)
	}
	if c.House != nil {
		row.House = *c.House
	}
	if c.RoleID != nil {
		row.RoleID = *c.RoleID
	}
	if c.IsValid != nil {
		row.Valid = *c.IsValid
	}
}

// updateColumns maps a change to the column set GORM writes. A map is used so
// that empty strings and false are written rather than skipped.
func updateColumns(c domain.AccountChange) map[string]any {
	cols := map[string]any{"updated_at": time.Now().UTC()}
	if c.Email != nil {
		cols["email"] = *c.Email
	}
	if c.PasswordHash != nil {
		cols["password_hash"] = *c.PasswordHash
	}
	if c.FirstName != nil {
		cols["first_name"] = *c.FirstName
	}
	if c.LastName != nil {
		cols["last_name"] = *c.LastName
	}
	if c.Barcode != nil {
		cols["barcode"] = nullable(*c.Barcode)
	}
	if c.House != nil {
		cols["house"] = *c.House
	}
	if c.RoleID != nil {
		cols["role_id"] = *c.RoleID
	}
	if c.IsValid != nil {
		cols["valid"] = *c.IsValid
	}
	return cols
}

// nullable stores an empty barcode as NULL so it does not collide in the
// unique index.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// mapWriteError turns unique index violations into conflict errors.
func mapWriteError(op string, err error) error {
	if name, ok := uniqueViolation(err); ok {
		switch name {
		case idxUsersEmail:
			return domain.ErrEmailTaken
		case idxUsersBarcode:
			return domain.ErrBarcodeTaken
		default:
			return domain.ErrConflict
		}
	}
	return domain.Operational(op, err)
}
