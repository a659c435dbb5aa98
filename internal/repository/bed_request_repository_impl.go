package repository

import (
	"errors"

	"hospital-management-api/internal/domain/entity"
	domainRepo "hospital-management-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type bedRequestRepository struct{}

func NewBedRequestRepository() domainRepo.BedRequestRepository {
	return &bedRequestRepository{}
}

func (r *bedRequestRepository) Create(db *gorm.DB, request *entity.BedRequest) error {
	return db.Create(request).Error
}

func (r *bedRequestRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.BedRequest, error) {
	return r.findOne(db.Where("id = ?", id))
}

func (r *bedRequestRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.BedRequest, error) {
	return r.findOne(db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

func (r *bedRequestRepository) FindAll(db *gorm.DB, status *entity.BedRequestStatus) ([]entity.BedRequest, error) {
	query := db.Model(&entity.BedRequest{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var requests []entity.BedRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Decide atomically resolves a request ONLY while it is PENDING.
// Returns affected rows: 1 = decided, 0 = missing or already decided.
func (r *bedRequestRepository) Decide(db *gorm.DB, id uuid.UUID, status entity.BedRequestStatus, allocationID *uuid.UUID) (int64, error) {
	result := db.Model(&entity.BedRequest{}).
		Where("id = ? AND status = ?", id, entity.BedRequestStatusPending).
		Updates(map[string]interface{}{
			"status":        status,
			"allocation_id": allocationID,
		})
	return result.RowsAffected, result.Error
}

func (r *bedRequestRepository) findOne(query *gorm.DB) (*entity.BedRequest, error) {
	var request entity.BedRequest
	err := query.First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}
