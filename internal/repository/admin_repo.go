package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/placement-portal-api/internal/models"
)

// AdminRepository persists placement cell administrators.
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id uint) (models.Admin, error)
	GetByUsername(ctx context.Context, username string) (models.Admin, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository constructs the admin repository.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepository) GetByID(ctx context.Context, id uint) (models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		return models.Admin{}, err
	}
	return admin, nil
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&admin).Error
	if err != nil {
		return models.Admin{}, err
	}
	return admin, nil
}

func (r *adminRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	tx := r.db.WithContext(ctx).Model(&models.Admin{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
