package inmemory

import (
	"slices"

	"hospital-management-api/internal/domain/entity"
	domainRepo "hospital-management-api/internal/domain/repository"
	"hospital-management-api/internal/infrastructure/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{ s *Store }

func (s *Store) Appointments() domainRepo.AppointmentRepository {
	return &appointmentRepository{s: s}
}

func (r *appointmentRepository) Create(_ *gorm.DB, appointment *entity.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("appointments.Create"); err != nil {
		return err
	}
	if _, ok := r.s.data.users[appointment.PatientID]; !ok {
		return foreignKeyViolation("appointments_patient_id_fkey")
	}
	if _, ok := r.s.data.users[appointment.DoctorID]; !ok {
		return foreignKeyViolation("appointments_doctor_id_fkey")
	}
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	if appointment.Status == "" {
		appointment.Status = entity.AppointmentStatusPending
	}
	if appointment.CaseType == "" {
		appointment.CaseType = entity.CaseTypeNew
	}
	appointment.CreatedAt = r.s.stamp()
	appointment.UpdatedAt = appointment.CreatedAt
	r.s.data.appointments[appointment.ID] = *appointment
	return nil
}

func (r *appointmentRepository) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("appointments.FindByID"); err != nil {
		return nil, err
	}
	appointment, ok := r.s.data.appointments[id]
	if !ok {
		return nil, nil
	}
	return &appointment, nil
}

func (r *appointmentRepository) UpdateStatus(_ *gorm.DB, id uuid.UUID, to entity.AppointmentStatus, from ...entity.AppointmentStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("appointments.UpdateStatus"); err != nil {
		return 0, err
	}
	appointment, ok := r.s.data.appointments[id]
	if !ok || !slices.Contains(from, appointment.Status) {
		return 0, nil
	}
	appointment.Status = to
	appointment.UpdatedAt = r.s.stamp()
	r.s.data.appointments[id] = appointment
	return 1, nil
}

func (r *appointmentRepository) UpdateCaseType(_ *gorm.DB, id uuid.UUID, caseType entity.CaseType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("appointments.UpdateCaseType"); err != nil {
		return err
	}
	if appointment, ok := r.s.data.appointments[id]; ok {
		appointment.CaseType = caseType
		r.s.data.appointments[id] = appointment
	}
	return nil
}

type prescriptionRepository struct{ s *Store }

func (s *Store) Prescriptions() domainRepo.PrescriptionRepository {
	return &prescriptionRepository{s: s}
}

func (r *prescriptionRepository) Create(_ *gorm.DB, prescription *entity.Prescription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("prescriptions.Create"); err != nil {
		return err
	}
	for _, p := range r.s.data.prescriptions {
		if p.AppointmentID == prescription.AppointmentID {
			return uniqueViolation(database.ConstraintPrescription)
		}
	}
	if prescription.ID == uuid.Nil {
		prescription.ID = uuid.New()
	}
	prescription.CreatedAt = r.s.stamp()
	prescription.UpdatedAt = prescription.CreatedAt
	r.s.data.prescriptions[prescription.ID] = *prescription
	return nil
}

func (r *prescriptionRepository) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Prescription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prescription, ok := r.s.data.prescriptions[id]
	if !ok {
		return nil, nil
	}
	return &prescription, nil
}

func (r *prescriptionRepository) FindByAppointmentID(_ *gorm.DB, appointmentID uuid.UUID) (*entity.Prescription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.data.prescriptions {
		if p.AppointmentID == appointmentID {
			return &p, nil
		}
	}
	return nil, nil
}
