package inmemory

import (
	"sort"

	"hospital-management-api/internal/domain/entity"
	domainRepo "hospital-management-api/internal/domain/repository"
	"hospital-management-api/internal/infrastructure/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type billRepository struct{ s *Store }

func (s *Store) Bills() domainRepo.BillRepository { return &billRepository{s: s} }

func (r *billRepository) Create(_ *gorm.DB, bill *entity.Bill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("bills.Create"); err != nil {
		return err
	}
	if bill.PaymentStatus == "" {
		bill.PaymentStatus = entity.BillStatusPending
	}
	for _, existing := range r.s.data.bills {
		if existing.InvoiceNumber == bill.InvoiceNumber {
			return uniqueViolation(database.ConstraintInvoiceNumber)
		}
		if existing.AppointmentID == bill.AppointmentID && !existing.IsCancelled() && !bill.IsCancelled() {
			return uniqueViolation(database.ConstraintActiveBill)
		}
	}
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	bill.CreatedAt = r.s.stamp()
	bill.UpdatedAt = bill.CreatedAt
	r.s.data.bills[bill.ID] = *bill
	return nil
}

func (r *billRepository) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Bill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("bills.FindByID"); err != nil {
		return nil, err
	}
	bill, ok := r.s.data.bills[id]
	if !ok {
		return nil, nil
	}
	return &bill, nil
}

// FindByIDForUpdate relies on the transactor serializing units of work
func (r *billRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Bill, error) {
	return r.FindByID(db, id)
}

func (r *billRepository) FindActiveByAppointmentID(_ *gorm.DB, appointmentID uuid.UUID) (*entity.Bill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, bill := range r.s.data.bills {
		if bill.AppointmentID == appointmentID && !bill.IsCancelled() {
			return &bill, nil
		}
	}
	return nil, nil
}

func (r *billRepository) FindAll(_ *gorm.DB, filter entity.BillFilter) ([]entity.Bill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var bills []entity.Bill
	for _, bill := range r.s.data.bills {
		if filter.PatientID != nil && bill.PatientID != *filter.PatientID {
			continue
		}
		if filter.Status != nil && bill.PaymentStatus != *filter.Status {
			continue
		}
		bills = append(bills, bill)
	}
	sort.Slice(bills, func(i, j int) bool { return bills[i].CreatedAt.After(bills[j].CreatedAt) })
	return bills, nil
}

func (r *billRepository) FindBilledVisitsByPatient(_ *gorm.DB, patientID uuid.UUID) ([]entity.BilledVisit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("bills.FindBilledVisitsByPatient"); err != nil {
		return nil, err
	}
	var visits []entity.BilledVisit
	for _, bill := range r.s.data.bills {
		if bill.PatientID != patientID || bill.IsCancelled() {
			continue
		}
		appointment, ok := r.s.data.appointments[bill.AppointmentID]
		if !ok {
			continue
		}
		visits = append(visits, entity.BilledVisit{
			BillID:          bill.ID,
			AppointmentID:   bill.AppointmentID,
			PatientID:       bill.PatientID,
			AppointmentDate: appointment.AppointmentDate,
		})
	}
	sort.Slice(visits, func(i, j int) bool { return visits[i].AppointmentDate.After(visits[j].AppointmentDate) })
	return visits, nil
}

func (r *billRepository) UpdatePayment(_ *gorm.DB, bill *entity.Bill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("bills.UpdatePayment"); err != nil {
		return err
	}
	stored, ok := r.s.data.bills[bill.ID]
	if !ok {
		return nil
	}
	stored.PaidAmount = bill.PaidAmount
	stored.PaymentMethod = bill.PaymentMethod
	stored.PaymentStatus = bill.PaymentStatus
	stored.UpdatedAt = r.s.stamp()
	r.s.data.bills[bill.ID] = stored
	return nil
}

func (r *billRepository) Cancel(_ *gorm.DB, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	bill, ok := r.s.data.bills[id]
	if !ok || !bill.IsPending() {
		return 0, nil
	}
	bill.PaymentStatus = entity.BillStatusCancelled
	bill.UpdatedAt = r.s.stamp()
	r.s.data.bills[id] = bill
	return 1, nil
}
