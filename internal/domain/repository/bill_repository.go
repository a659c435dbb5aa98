package repository

import (
	"hospital-management-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BillRepository interface {
	Create(db *gorm.DB, bill *entity.Bill) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Bill, error)
	// FindByIDForUpdate locks the bill row until the transaction ends
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Bill, error)
	FindActiveByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.Bill, error)
	FindAll(db *gorm.DB, filter entity.BillFilter) ([]entity.Bill, error)
	FindBilledVisitsByPatient(db *gorm.DB, patientID uuid.UUID) ([]entity.BilledVisit, error)
	UpdatePayment(db *gorm.DB, bill *entity.Bill) error
	Cancel(db *gorm.DB, id uuid.UUID) (int64, error)
}
