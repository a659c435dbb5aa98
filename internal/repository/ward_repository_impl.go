package repository

import (
	"hospital-management-api/internal/domain/entity"
	domainRepo "hospital-management-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type wardRepository struct{}

func NewWardRepository() domainRepo.WardRepository {
	return &wardRepository{}
}

func (r *wardRepository) Create(db *gorm.DB, ward *entity.Ward) error {
	return db.Create(ward).Error
}

func (r *wardRepository) FindSummaryByID(db *gorm.DB, id uuid.UUID) (*entity.WardSummary, error) {
	var summaries []entity.WardSummary
	if err := r.summaryQuery(db).Where("wards.id = ?", id).Scan(&summaries).Error; err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, nil
	}
	return &summaries[0], nil
}

func (r *wardRepository) FindAllSummaries(db *gorm.DB) ([]entity.WardSummary, error) {
	var summaries []entity.WardSummary
	if err := r.summaryQuery(db).Order("wards.name").Scan(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

// summaryQuery derives capacity and availability from the beds table
func (r *wardRepository) summaryQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&entity.Ward{}).
		Select(`
			wards.*,
			COUNT(beds.id) AS capacity,
			COUNT(CASE WHEN beds.status = ? THEN 1 END) AS available_beds
		`, entity.BedStatusAvailable).
		Joins("LEFT JOIN beds ON beds.ward_id = wards.id").
		Group("wards.id")
}
