package repository

import (
	"errors"

	"hospital-management-api/internal/domain/entity"
	domainRepo "hospital-management-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bedRepository struct{}

func NewBedRepository() domainRepo.BedRepository {
	return &bedRepository{}
}

func (r *bedRepository) Create(db *gorm.DB, bed *entity.Bed) error {
	return db.Create(bed).Error
}

func (r *bedRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Bed, error) {
	var bed entity.Bed
	err := db.Where("id = ?", id).First(&bed).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bed, nil
}

func (r *bedRepository) FindAll(db *gorm.DB, filter entity.BedFilter) ([]entity.Bed, error) {
	query := db.Model(&entity.Bed{})
	if filter.WardID != nil {
		query = query.Where("ward_id = ?", *filter.WardID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var beds []entity.Bed
	if err := query.Order("bed_number").Find(&beds).Error; err != nil {
		return nil, err
	}
	return beds, nil
}

// MarkOccupied is the compare-and-set guarding admissions: of two concurrent
// callers only one sees RowsAffected = 1.
func (r *bedRepository) MarkOccupied(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.Bed{}).
		Where("id = ? AND status = ? AND is_active = ?", id, entity.BedStatusAvailable, true).
		Update("status", entity.BedStatusOccupied)
	return result.RowsAffected, result.Error
}

func (r *bedRepository) MarkAvailable(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.Bed{}).
		Where("id = ? AND status = ?", id, entity.BedStatusOccupied).
		Update("status", entity.BedStatusAvailable)
	return result.RowsAffected, result.Error
}

func (r *bedRepository) SetStatus(db *gorm.DB, id uuid.UUID, status entity.BedStatus) (int64, error) {
	result := db.Model(&entity.Bed{}).
		Where("id = ? AND status <> ?", id, entity.BedStatusOccupied).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *bedRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ? AND status <> ?", id, entity.BedStatusOccupied).
		Delete(&entity.Bed{})
	return result.RowsAffected, result.Error
}
