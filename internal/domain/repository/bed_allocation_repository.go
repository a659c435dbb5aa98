package repository

import (
	"time"

	"hospital-management-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BedAllocationRepository interface {
	Create(db *gorm.DB, allocation *entity.BedAllocation) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.BedAllocation, error)
	FindAll(db *gorm.DB, status *entity.AllocationStatus) ([]entity.BedAllocation, error)
	// FindLatestUnpaidByPatient returns the most recent ACTIVE or DISCHARGED
	// allocation whose stay has not been paid yet
	FindLatestUnpaidByPatient(db *gorm.DB, patientID uuid.UUID) (*entity.BedAllocation, error)
	// Discharge closes an ACTIVE allocation. Returns affected rows.
	Discharge(db *gorm.DB, id uuid.UUID, dischargeDate time.Time) (int64, error)
	MarkPaid(db *gorm.DB, id uuid.UUID) (int64, error)
}
