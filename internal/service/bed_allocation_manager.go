package service

import (
	"fmt"
	"time"

	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/internal/domain/repository"
	"hospital-management-api/internal/infrastructure/database"
	"hospital-management-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrBedNotFound              = apperror.NotFound("bed not found")
	ErrBedNotAvailable          = apperror.Conflict("bed is not available")
	ErrBedOccupied              = apperror.Conflict("bed is occupied")
	ErrBedHasHistory            = apperror.Conflict("bed has allocation history and cannot be deleted")
	ErrBedStatusNotSettable     = apperror.Conflict("OCCUPIED can only be set by admitting a patient")
	ErrInvalidBedStatus         = apperror.Validation("invalid bed status")
	ErrAllocationNotFound       = apperror.NotFound("active bed allocation not found")
	ErrDischargeBeforeAdmission = apperror.Validation("discharge date cannot be before admission date")
	ErrPatientNotFound          = apperror.NotFound("patient not found")
)

// BedAllocationManager owns bed occupancy transitions. Every method runs
// on the caller's transaction handle so it composes into larger units of work.
type BedAllocationManager interface {
	Admit(tx *gorm.DB, bedID, patientID uuid.UUID, reason, notes string) (*entity.BedAllocation, error)
	Discharge(tx *gorm.DB, allocationID uuid.UUID, dischargeDate time.Time) (*entity.BedAllocation, error)
	DeleteBed(tx *gorm.DB, bedID uuid.UUID) error
	SetBedStatus(tx *gorm.DB, bedID uuid.UUID, status entity.BedStatus) (*entity.Bed, error)
}

type bedAllocationManager struct {
	log            *logrus.Logger
	bedRepo        repository.BedRepository
	allocationRepo repository.BedAllocationRepository
	now            func() time.Time
}

func NewBedAllocationManager(
	log *logrus.Logger,
	bedRepo repository.BedRepository,
	allocationRepo repository.BedAllocationRepository,
) BedAllocationManager {
	return &bedAllocationManager{
		log:            log,
		bedRepo:        bedRepo,
		allocationRepo: allocationRepo,
		now:            time.Now,
	}
}

// Admit claims an AVAILABLE bed and opens an ACTIVE allocation for the patient.
//
// The bed is claimed with a compare-and-set UPDATE, so of two concurrent
// admissions only one can succeed; the partial unique index on active
// allocations backs this up at the database level.
func (m *bedAllocationManager) Admit(tx *gorm.DB, bedID, patientID uuid.UUID, reason, notes string) (*entity.BedAllocation, error) {
	rows, err := m.bedRepo.MarkOccupied(tx, bedID)
	if err != nil {
		m.log.Warnf("Failed to claim bed %s: %+v", bedID, err)
		return nil, fmt.Errorf("claim bed: %w", err)
	}
	if rows == 0 {
		bed, err := m.bedRepo.FindByID(tx, bedID)
		if err != nil {
			m.log.Warnf("Failed to find bed %s: %+v", bedID, err)
			return nil, fmt.Errorf("find bed: %w", err)
		}
		if bed == nil {
			return nil, ErrBedNotFound
		}
		return nil, ErrBedNotAvailable
	}

	allocation := &entity.BedAllocation{
		BedID:         bedID,
		PatientID:     patientID,
		AdmissionDate: m.now(),
		Reason:        reason,
		Status:        entity.AllocationStatusActive,
		PaymentStatus: entity.AllocationPaymentPending,
		Notes:         notes,
	}

	if err := m.allocationRepo.Create(tx, allocation); err != nil {
		if database.IsUniqueViolation(err, database.ConstraintActiveBedAllocation) {
			return nil, ErrBedNotAvailable
		}
		if database.IsForeignKeyViolation(err, database.ConstraintAllocationPatient) {
			return nil, ErrPatientNotFound
		}
		m.log.Warnf("Failed to create allocation for bed %s: %+v", bedID, err)
		return nil, fmt.Errorf("create allocation: %w", err)
	}

	m.log.Infof("Patient admitted: allocation=%s, bed=%s, patient=%s", allocation.ID, bedID, patientID)
	return allocation, nil
}

// Discharge closes an ACTIVE allocation and frees its bed.
// The allocation payment status is left alone: unpaid stays stay billable.
func (m *bedAllocationManager) Discharge(tx *gorm.DB, allocationID uuid.UUID, dischargeDate time.Time) (*entity.BedAllocation, error) {
	allocation, err := m.allocationRepo.FindByID(tx, allocationID)
	if err != nil {
		m.log.Warnf("Failed to find allocation %s: %+v", allocationID, err)
		return nil, fmt.Errorf("find allocation: %w", err)
	}
	if allocation == nil || !allocation.IsActive() {
		return nil, ErrAllocationNotFound
	}
	if dischargeDate.Before(allocation.AdmissionDate) {
		return nil, ErrDischargeBeforeAdmission
	}

	rows, err := m.allocationRepo.Discharge(tx, allocationID, dischargeDate)
	if err != nil {
		m.log.Warnf("Failed to discharge allocation %s: %+v", allocationID, err)
		return nil, fmt.Errorf("discharge allocation: %w", err)
	}
	if rows == 0 {
		// Discharged concurrently
		return nil, ErrAllocationNotFound
	}

	rows, err = m.bedRepo.MarkAvailable(tx, allocation.BedID)
	if err != nil {
		m.log.Warnf("Failed to release bed %s: %+v", allocation.BedID, err)
		return nil, fmt.Errorf("release bed: %w", err)
	}
	if rows == 0 {
		m.log.Warnf("Bed %s was not OCCUPIED while discharging allocation %s", allocation.BedID, allocationID)
	}

	allocation.Status = entity.AllocationStatusDischarged
	allocation.DischargeDate = &dischargeDate

	m.log.Infof("Patient discharged: allocation=%s, bed=%s", allocationID, allocation.BedID)
	return allocation, nil
}

// DeleteBed removes a bed that is not OCCUPIED
func (m *bedAllocationManager) DeleteBed(tx *gorm.DB, bedID uuid.UUID) error {
	rows, err := m.bedRepo.Delete(tx, bedID)
	if err != nil {
		if database.IsForeignKeyViolation(err, "") {
			return ErrBedHasHistory
		}
		m.log.Warnf("Failed to delete bed %s: %+v", bedID, err)
		return fmt.Errorf("delete bed: %w", err)
	}
	if rows > 0 {
		m.log.Infof("Bed deleted: id=%s", bedID)
		return nil
	}

	bed, err := m.bedRepo.FindByID(tx, bedID)
	if err != nil {
		m.log.Warnf("Failed to find bed %s: %+v", bedID, err)
		return fmt.Errorf("find bed: %w", err)
	}
	if bed == nil {
		return ErrBedNotFound
	}
	return ErrBedOccupied
}

// SetBedStatus moves a bed that is not OCCUPIED between AVAILABLE,
// MAINTENANCE and CLEANING
func (m *bedAllocationManager) SetBedStatus(tx *gorm.DB, bedID uuid.UUID, status entity.BedStatus) (*entity.Bed, error) {
	switch status {
	case entity.BedStatusAvailable, entity.BedStatusMaintenance, entity.BedStatusCleaning:
	case entity.BedStatusOccupied:
		return nil, ErrBedStatusNotSettable
	default:
		return nil, ErrInvalidBedStatus
	}

	rows, err := m.bedRepo.SetStatus(tx, bedID, status)
	if err != nil {
		m.log.Warnf("Failed to set status of bed %s: %+v", bedID, err)
		return nil, fmt.Errorf("set bed status: %w", err)
	}

	bed, err := m.bedRepo.FindByID(tx, bedID)
	if err != nil {
		m.log.Warnf("Failed to find bed %s: %+v", bedID, err)
		return nil, fmt.Errorf("find bed: %w", err)
	}
	if bed == nil {
		return nil, ErrBedNotFound
	}
	if rows == 0 {
		return nil, ErrBedOccupied
	}
	return bed, nil
}
