package repository

import (
	"hospital-management-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BedRequestRepository interface {
	Create(db *gorm.DB, request *entity.BedRequest) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.BedRequest, error)
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.BedRequest, error)
	FindAll(db *gorm.DB, status *entity.BedRequestStatus) ([]entity.BedRequest, error)
	// Decide moves a PENDING request to a terminal status. Returns affected rows.
	Decide(db *gorm.DB, id uuid.UUID, status entity.BedRequestStatus, allocationID *uuid.UUID) (int64, error)
}
