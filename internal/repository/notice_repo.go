package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/placement-portal-api/internal/models"
)

// NoticeRepository stores placement notices.
type NoticeRepository interface {
	Create(ctx context.Context, notice *models.Notice) error
	GetByID(ctx context.Context, id uint) (models.Notice, error)
	List(ctx context.Context) ([]models.Notice, error)
	Delete(ctx context.Context, id uint) error
	ListCompanyNames(ctx context.Context) ([]string, error)
}

type noticeRepository struct {
	db *gorm.DB
}

// NewNoticeRepository constructs a notice repository.
func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	return r.db.WithContext(ctx).Create(notice).Error
}

func (r *noticeRepository) GetByID(ctx context.Context, id uint) (models.Notice, error) {
	var notice models.Notice
	if err := r.db.WithContext(ctx).First(&notice, id).Error; err != nil {
		return models.Notice{}, err
	}
	return notice, nil
}

func (r *noticeRepository) List(ctx context.Context) ([]models.Notice, error) {
	var notices []models.Notice
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&notices).Error
	return notices, err
}

func (r *noticeRepository) Delete(ctx context.Context, id uint) error {
	tx := r.db.WithContext(ctx).Delete(&models.Notice{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *noticeRepository) ListCompanyNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&models.Notice{}).
		Distinct().
		Pluck("company_name", &names).Error
	return names, err
}
