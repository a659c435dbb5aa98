package repository

import (
	"hospital-management-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WardRepository interface {
	Create(db *gorm.DB, ward *entity.Ward) error
	FindSummaryByID(db *gorm.DB, id uuid.UUID) (*entity.WardSummary, error)
	FindAllSummaries(db *gorm.DB) ([]entity.WardSummary, error)
}
