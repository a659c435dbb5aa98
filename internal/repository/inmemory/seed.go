package inmemory

import (
	"fmt"
	"time"

	"hospital-management-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddUser registers an active user with the given role and returns its id
func (s *Store) AddUser(roleID int, fullName string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := true
	id := uuid.New()
	s.data.users[id] = entity.User{
		ID:       id,
		RoleID:   roleID,
		Email:    fmt.Sprintf("%s@hospital.test", id.String()[:8]),
		FullName: fullName,
		IsActive: &active,
	}
	return id
}

// AddDoctor registers a doctor with a consultation fee. A nil fee models a
// doctor whose fee has not been configured.
func (s *Store) AddDoctor(fee *decimal.Decimal) uuid.UUID {
	id := s.AddUser(entity.RoleIDDoctor, "Dr. Test")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.doctors[id] = entity.DoctorProfile{
		UserID:          id,
		STRNumber:       "STR-" + id.String()[:8],
		Specialization:  "General Medicine",
		ConsultationFee: fee,
	}
	return id
}

func (s *Store) AddPatient() uuid.UUID {
	id := s.AddUser(entity.RoleIDPatient, "Test Patient")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.patients[id] = entity.PatientProfile{
		UserID:      id,
		UHID:        "UH" + id.String()[:8],
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Gender:      entity.GenderFemale,
	}
	return id
}

// AddAppointment stores a copy of appointment, assigning an id when missing
func (s *Store) AddAppointment(appointment entity.Appointment) entity.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	if appointment.CaseType == "" {
		appointment.CaseType = entity.CaseTypeNew
	}
	appointment.CreatedAt = s.stamp()
	appointment.UpdatedAt = appointment.CreatedAt
	s.data.appointments[appointment.ID] = appointment
	return appointment
}

// AddBill stores a copy of bill as-is, assigning an id when missing
func (s *Store) AddBill(bill entity.Bill) entity.Bill {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	if bill.InvoiceNumber == "" {
		bill.InvoiceNumber = "SEED-" + bill.ID.String()
	}
	bill.CreatedAt = s.stamp()
	bill.UpdatedAt = bill.CreatedAt
	s.data.bills[bill.ID] = bill
	return bill
}

func (s *Store) AddWard(name string, wardType entity.WardType) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.data.wards[id] = entity.Ward{
		ID:          id,
		Name:        name,
		WardType:    wardType,
		FloorNumber: "1",
		CreatedAt:   s.stamp(),
	}
	return id
}

// AddBed stores an active AVAILABLE bed in ward
func (s *Store) AddBed(wardID uuid.UUID, bedNumber string, pricePerDay decimal.Decimal) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.data.beds[id] = entity.Bed{
		ID:          id,
		WardID:      wardID,
		BedNumber:   bedNumber,
		BedType:     entity.BedTypeStandard,
		PricePerDay: pricePerDay,
		Status:      entity.BedStatusAvailable,
		IsActive:    true,
		CreatedAt:   s.stamp(),
	}
	return id
}

// AddAllocation stores a copy of allocation as-is, assigning an id when missing.
// The bed status is not touched.
func (s *Store) AddAllocation(allocation entity.BedAllocation) entity.BedAllocation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if allocation.ID == uuid.Nil {
		allocation.ID = uuid.New()
	}
	allocation.CreatedAt = s.stamp()
	s.data.allocations[allocation.ID] = allocation
	return allocation
}

// SetBedStatus overwrites a bed status without any guard
func (s *Store) SetBedStatus(bedID uuid.UUID, status entity.BedStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bed := s.data.beds[bedID]
	bed.Status = status
	s.data.beds[bedID] = bed
}

// NotificationsFor returns every notification addressed to userID, oldest first
func (s *Store) NotificationsFor(userID uuid.UUID) []entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []entity.Notification
	for _, n := range s.data.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result
}
