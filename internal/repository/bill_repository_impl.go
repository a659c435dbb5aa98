package repository

import (
	"errors"

	"hospital-management-api/internal/domain/entity"
	domainRepo "hospital-management-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type billRepository struct{}

func NewBillRepository() domainRepo.BillRepository {
	return &billRepository{}
}

func (r *billRepository) Create(db *gorm.DB, bill *entity.Bill) error {
	return db.Create(bill).Error
}

func (r *billRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Bill, error) {
	return r.findOne(db.Where("id = ?", id))
}

// FindByIDForUpdate takes a row lock (SELECT ... FOR UPDATE) so concurrent
// payments on the same bill serialize instead of losing updates.
func (r *billRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Bill, error) {
	return r.findOne(db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

func (r *billRepository) FindActiveByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.Bill, error) {
	return r.findOne(db.Where("appointment_id = ? AND payment_status <> ?", appointmentID, entity.BillStatusCancelled))
}

func (r *billRepository) FindAll(db *gorm.DB, filter entity.BillFilter) ([]entity.Bill, error) {
	query := db.Model(&entity.Bill{})
	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.Status != nil {
		query = query.Where("payment_status = ?", *filter.Status)
	}

	var bills []entity.Bill
	if err := query.Order("created_at DESC").Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *billRepository) FindBilledVisitsByPatient(db *gorm.DB, patientID uuid.UUID) ([]entity.BilledVisit, error) {
	var visits []entity.BilledVisit
	err := db.Model(&entity.Bill{}).
		Select("bills.id AS bill_id, bills.appointment_id, bills.patient_id, appointments.appointment_date").
		Joins("JOIN appointments ON appointments.id = bills.appointment_id").
		Where("bills.patient_id = ? AND bills.payment_status <> ?", patientID, entity.BillStatusCancelled).
		Order("appointments.appointment_date DESC").
		Scan(&visits).Error
	if err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *billRepository) UpdatePayment(db *gorm.DB, bill *entity.Bill) error {
	return db.Model(&entity.Bill{}).
		Where("id = ?", bill.ID).
		Updates(map[string]interface{}{
			"paid_amount":    bill.PaidAmount,
			"payment_method": bill.PaymentMethod,
			"payment_status": bill.PaymentStatus,
		}).Error
}

// Cancel atomically voids a bill ONLY while it is still PENDING.
// Returns affected rows: 1 = cancelled, 0 = missing, paid or already cancelled.
func (r *billRepository) Cancel(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.Bill{}).
		Where("id = ? AND payment_status = ?", id, entity.BillStatusPending).
		Update("payment_status", entity.BillStatusCancelled)
	return result.RowsAffected, result.Error
}

func (r *billRepository) findOne(query *gorm.DB) (*entity.Bill, error) {
	var bill entity.Bill
	err := query.First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}
