package usecase

import (
	"errors"
	"testing"

	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/entity"

	"github.com/google/uuid"
)

func intPtr(v int) *int {
	return &v
}

func TestPrescriptionUsecase_CreateWithBedRequest(t *testing.T) {
	f := newFixture(t)
	patientID := f.store.AddPatient()
	doctorID := f.store.AddDoctor(decPtr("500"))
	appointment := f.visit(patientID, doctorID, day(2026, 3, 15), entity.AppointmentStatusApproved)

	prescription, err := f.prescriptions.Create(as(doctorID, entity.RoleIDDoctor), &dto.CreatePrescriptionRequest{
		AppointmentID:   appointment.ID,
		Diagnosis:       "Pneumonia",
		Medications:     "Amoxicillin 500mg",
		FollowUpDate:    "2026-03-29",
		BedRequired:     true,
		ExpectedBedDays: intPtr(4),
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if prescription.BedRequest == nil || prescription.BedRequest.ExpectedBedDays != 4 {
		t.Fatalf("BedRequest = %+v, want 4 day request", prescription.BedRequest)
	}
	if prescription.BedRequest.Status != string(entity.BedRequestStatusPending) {
		t.Errorf("BedRequest status = %s, want PENDING", prescription.BedRequest.Status)
	}
	if prescription.FollowUpDate == nil || *prescription.FollowUpDate != "2026-03-29" {
		t.Errorf("FollowUpDate = %v, want 2026-03-29", prescription.FollowUpDate)
	}

	stored, _ := f.store.Appointments().FindByID(nil, appointment.ID)
	if stored.Status != entity.AppointmentStatusVisited {
		t.Errorf("appointment status = %s, want VISITED", stored.Status)
	}
	if titles := f.titles(patientID); len(titles) != 1 || titles[0] != entity.NotificationNewPrescription {
		t.Errorf("patient notifications = %v", titles)
	}

	// the visit is now billable
	if _, err := f.billing.CreateFromAppointment(f.asStaff(), &dto.CreateBillRequest{AppointmentID: appointment.ID}); err != nil {
		t.Errorf("billing the visited appointment: %v", err)
	}
}

func TestPrescriptionUsecase_CreateWithoutBed(t *testing.T) {
	f := newFixture(t)
	patientID := f.store.AddPatient()
	doctorID := f.store.AddDoctor(decPtr("500"))
	appointment := f.visit(patientID, doctorID, day(2026, 3, 15), entity.AppointmentStatusApproved)

	prescription, err := f.prescriptions.Create(as(doctorID, entity.RoleIDDoctor), &dto.CreatePrescriptionRequest{
		AppointmentID: appointment.ID,
		Diagnosis:     "Seasonal flu",
		Medications:   "Paracetamol",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if prescription.BedRequest != nil || prescription.ExpectedBedDays != nil {
		t.Errorf("unexpected bed data: %+v", prescription)
	}

	requests, _ := f.bedRequests.List(f.asStaff(), "")
	if requests.Total != 0 {
		t.Errorf("bed requests = %d, want 0", requests.Total)
	}

	byAppointment, err := f.prescriptions.GetByAppointment(as(patientID, entity.RoleIDPatient), appointment.ID)
	if err != nil || byAppointment.ID != prescription.ID {
		t.Errorf("GetByAppointment() = %+v, %v", byAppointment, err)
	}
	_, err = f.prescriptions.Get(as(f.store.AddPatient(), entity.RoleIDPatient), prescription.ID)
	assertErrorIs(t, err, ErrPrescriptionNotViewable)
	_, err = f.prescriptions.Get(f.asStaff(), uuid.New())
	assertErrorIs(t, err, ErrPrescriptionNotFound)
}

func TestPrescriptionUsecase_CreateErrors(t *testing.T) {
	f := newFixture(t)
	patientID := f.store.AddPatient()
	doctorID := f.store.AddDoctor(decPtr("500"))
	otherDoctorID := f.store.AddDoctor(decPtr("500"))
	approved := f.visit(patientID, doctorID, day(2026, 3, 15), entity.AppointmentStatusApproved)
	pending := f.visit(patientID, doctorID, day(2026, 3, 16), entity.AppointmentStatusPending)

	valid := func(appointmentID uuid.UUID) dto.CreatePrescriptionRequest {
		return dto.CreatePrescriptionRequest{AppointmentID: appointmentID, Diagnosis: "Flu", Medications: "Rest"}
	}
	withBed := func(days *int) dto.CreatePrescriptionRequest {
		req := valid(approved.ID)
		req.BedRequired = true
		req.ExpectedBedDays = days
		return req
	}
	badFollowUp := valid(approved.ID)
	badFollowUp.FollowUpDate = "next week"

	tests := []struct {
		name   string
		doctor uuid.UUID
		req    dto.CreatePrescriptionRequest
		want   error
	}{
		{"missing appointment", doctorID, valid(uuid.New()), ErrAppointmentNotFound},
		{"other doctor", otherDoctorID, valid(approved.ID), ErrPrescriptionNotAllowed},
		{"not approved", doctorID, valid(pending.ID), ErrAppointmentNotApproved},
		{"bed without days", doctorID, withBed(nil), ErrInvalidExpectedBedDays},
		{"bed with zero days", doctorID, withBed(intPtr(0)), ErrInvalidExpectedBedDays},
		{"bad follow-up", doctorID, badFollowUp, ErrInvalidFollowUpDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.prescriptions.Create(as(tt.doctor, entity.RoleIDDoctor), &tt.req)
			assertErrorIs(t, err, tt.want)
		})
	}

	first := valid(approved.ID)
	if _, err := f.prescriptions.Create(as(doctorID, entity.RoleIDDoctor), &first); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	_, err := f.prescriptions.Create(as(doctorID, entity.RoleIDDoctor), &first)
	assertErrorIs(t, err, ErrPrescriptionExists)
}

func TestPrescriptionUsecase_RollsBackWhenBedRequestFails(t *testing.T) {
	f := newFixture(t)
	patientID := f.store.AddPatient()
	doctorID := f.store.AddDoctor(decPtr("500"))
	appointment := f.visit(patientID, doctorID, day(2026, 3, 15), entity.AppointmentStatusApproved)

	f.store.FailOn("bedRequests.Create", errors.New("disk full"))

	_, err := f.prescriptions.Create(as(doctorID, entity.RoleIDDoctor), &dto.CreatePrescriptionRequest{
		AppointmentID:   appointment.ID,
		Diagnosis:       "Fracture",
		Medications:     "Analgesics",
		BedRequired:     true,
		ExpectedBedDays: intPtr(2),
	})
	if err == nil {
		t.Fatal("expected error")
	}

	stored, _ := f.store.Appointments().FindByID(nil, appointment.ID)
	if stored.Status != entity.AppointmentStatusApproved {
		t.Errorf("appointment status after rollback = %s, want APPROVED", stored.Status)
	}
	if p, _ := f.store.Prescriptions().FindByAppointmentID(nil, appointment.ID); p != nil {
		t.Error("prescription persisted despite rollback")
	}
}
