package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
)

// RoleRepository implements ports.RoleRepository with GORM.
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// FindByName looks a role up by its exact name.
func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var row roleRow
	err := r.db.WithContext(ctx).Where("name = ?", name).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, domain.Operational("find role", err)
	}
	return &domain.Role{ID: row.ID, Name: row.Name}, nil
}
