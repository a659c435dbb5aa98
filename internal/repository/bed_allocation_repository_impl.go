package repository

import (
	"errors"
	"time"

	"hospital-management-api/internal/domain/entity"
	domainRepo "hospital-management-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bedAllocationRepository struct{}

func NewBedAllocationRepository() domainRepo.BedAllocationRepository {
	return &bedAllocationRepository{}
}

func (r *bedAllocationRepository) Create(db *gorm.DB, allocation *entity.BedAllocation) error {
	return db.Create(allocation).Error
}

func (r *bedAllocationRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.BedAllocation, error) {
	return r.findOne(db.Where("id = ?", id))
}

func (r *bedAllocationRepository) FindAll(db *gorm.DB, status *entity.AllocationStatus) ([]entity.BedAllocation, error) {
	query := db.Model(&entity.BedAllocation{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var allocations []entity.BedAllocation
	if err := query.Order("admission_date DESC").Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

func (r *bedAllocationRepository) FindLatestUnpaidByPatient(db *gorm.DB, patientID uuid.UUID) (*entity.BedAllocation, error) {
	return r.findOne(db.
		Where("patient_id = ? AND payment_status = ? AND status IN ?",
			patientID,
			entity.AllocationPaymentPending,
			[]entity.AllocationStatus{entity.AllocationStatusActive, entity.AllocationStatusDischarged},
		).
		Order("admission_date DESC"))
}

// Discharge atomically closes an allocation ONLY if it is still ACTIVE.
// Returns affected rows: 1 = discharged, 0 = missing or already discharged.
func (r *bedAllocationRepository) Discharge(db *gorm.DB, id uuid.UUID, dischargeDate time.Time) (int64, error) {
	result := db.Model(&entity.BedAllocation{}).
		Where("id = ? AND status = ?", id, entity.AllocationStatusActive).
		Updates(map[string]interface{}{
			"status":         entity.AllocationStatusDischarged,
			"discharge_date": dischargeDate,
		})
	return result.RowsAffected, result.Error
}

func (r *bedAllocationRepository) MarkPaid(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.BedAllocation{}).
		Where("id = ? AND payment_status = ?", id, entity.AllocationPaymentPending).
		Update("payment_status", entity.AllocationPaymentPaid)
	return result.RowsAffected, result.Error
}

func (r *bedAllocationRepository) findOne(query *gorm.DB) (*entity.BedAllocation, error) {
	var allocation entity.BedAllocation
	err := query.First(&allocation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &allocation, nil
}
