package repository

import (
	"hospital-management-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BedRepository interface {
	Create(db *gorm.DB, bed *entity.Bed) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Bed, error)
	FindAll(db *gorm.DB, filter entity.BedFilter) ([]entity.Bed, error)
	// MarkOccupied flips an active AVAILABLE bed to OCCUPIED.
	// Returns affected rows: 1 = claimed, 0 = bed missing or not available.
	MarkOccupied(db *gorm.DB, id uuid.UUID) (int64, error)
	MarkAvailable(db *gorm.DB, id uuid.UUID) (int64, error)
	// SetStatus changes the status of a bed that is not OCCUPIED
	SetStatus(db *gorm.DB, id uuid.UUID, status entity.BedStatus) (int64, error)
	// Delete removes a bed that is not OCCUPIED
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
