package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/placement-portal-api/internal/models"
)

// StudentRepository provides access to student records.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uint) (models.Student, error)
	GetByUSN(ctx context.Context, usn string) (models.Student, error)
	IdentifierExists(ctx context.Context, usn string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Student, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return studentConflict(r.db.WithContext(ctx).Create(student).Error)
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) GetByUSN(ctx context.Context, usn string) (models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Where("usn = ?", strings.ToUpper(strings.TrimSpace(usn))).
		First(&student).Error
	if err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) IdentifierExists(ctx context.Context, usn string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("usn = ?", strings.ToUpper(strings.TrimSpace(usn))).
		Count(&count).Error
	return count > 0, err
}

func (r *studentRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

func (r *studentRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Student, error) {
	if len(updates) > 0 {
		tx := r.db.WithContext(ctx).Model(&models.Student{}).Where("id = ?", id).Updates(updates)
		if tx.Error != nil {
			return models.Student{}, studentConflict(tx.Error)
		}
		if tx.RowsAffected == 0 {
			return models.Student{}, gorm.ErrRecordNotFound
		}
	}

	return r.GetByID(ctx, id)
}
