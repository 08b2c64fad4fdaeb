package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/placement-portal-api/internal/models"
	"github.com/noah-isme/placement-portal-api/internal/placement"
)

// StatisticsRepository supplies the raw rows behind placement statistics.
type StatisticsRepository interface {
	ListPlacements(ctx context.Context) ([]placement.Placement, error)
	ListOffers(ctx context.Context) ([]placement.Offer, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

// NewStatisticsRepository constructs the statistics repository.
func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) ListPlacements(ctx context.Context) ([]placement.Placement, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Select("id", "placement_status", "placed_company").
		Find(&students).Error
	if err != nil {
		return nil, err
	}

	placements := make([]placement.Placement, 0, len(students))
	for _, student := range students {
		placements = append(placements, student.Placement())
	}
	return placements, nil
}

func (r *statisticsRepository) ListOffers(ctx context.Context) ([]placement.Offer, error) {
	var notices []models.Notice
	err := r.db.WithContext(ctx).
		Model(&models.Notice{}).
		Select("id", "package_offered", "job_type").
		Find(&notices).Error
	if err != nil {
		return nil, err
	}

	offers := make([]placement.Offer, 0, len(notices))
	for _, notice := range notices {
		offers = append(offers, notice.Offer())
	}
	return offers, nil
}
