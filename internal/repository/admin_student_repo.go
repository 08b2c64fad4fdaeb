package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/placement-portal-api/internal/models"
)

// AdminStudentFilter defines filters for listing students from the admin panel.
type AdminStudentFilter struct {
	Search   string
	Branch   string
	Semester int
	Status   string
	Sort     string
	Page     int
	PageSize int
}

// AdminStudentRepository exposes persistence helpers for admin student operations.
type AdminStudentRepository interface {
	List(ctx context.Context, filter AdminStudentFilter) ([]models.Student, int64, error)
	GetByUSN(ctx context.Context, usn string) (models.Student, error)
	UpdateByUSN(ctx context.Context, usn string, updates map[string]interface{}) (models.Student, error)
}

type adminStudentRepository struct {
	db *gorm.DB
}

// NewAdminStudentRepository constructs the admin student repository.
func NewAdminStudentRepository(db *gorm.DB) AdminStudentRepository {
	return &adminStudentRepository{db: db}
}

func (r *adminStudentRepository) List(ctx context.Context, filter AdminStudentFilter) ([]models.Student, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(usn) LIKE ?", like, like, like)
	}

	if filter.Branch != "" {
		query = query.Where("branch = ?", filter.Branch)
	}

	if filter.Semester > 0 {
		query = query.Where("semester = ?", filter.Semester)
	}

	if filter.Status != "" {
		query = query.Where("placement_status = ?", filter.Status)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := filter.Sort
	if sort == "" {
		sort = "created_at DESC, id DESC"
	}
	query = query.Order(sort)

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var students []models.Student
	if err := query.Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *adminStudentRepository) GetByUSN(ctx context.Context, usn string) (models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Where("usn = ?", strings.ToUpper(strings.TrimSpace(usn))).
		First(&student).Error
	if err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *adminStudentRepository) UpdateByUSN(ctx context.Context, usn string, updates map[string]interface{}) (models.Student, error) {
	normalized := strings.ToUpper(strings.TrimSpace(usn))
	if len(updates) > 0 {
		tx := r.db.WithContext(ctx).Model(&models.Student{}).
			Where("usn = ?", normalized).
			Updates(updates)
		if tx.Error != nil {
			return models.Student{}, tx.Error
		}
		if tx.RowsAffected == 0 {
			return models.Student{}, gorm.ErrRecordNotFound
		}
	}

	return r.GetByUSN(ctx, normalized)
}
