package usecase

import (
	"testing"

	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/entity"
)

func TestNotificationUsecase_ListAndMarkRead(t *testing.T) {
	f := newFixture(t)
	patientID := f.store.AddPatient()
	doctorID := f.store.AddDoctor(decPtr("500"))
	appointment := f.visit(patientID, doctorID, day(2026, 3, 15), entity.AppointmentStatusVisited)
	if _, err := f.billing.CreateFromAppointment(f.asStaff(), &dto.CreateBillRequest{AppointmentID: appointment.ID}); err != nil {
		t.Fatalf("CreateFromAppointment() error: %v", err)
	}

	patient := as(patientID, entity.RoleIDPatient)
	list, err := f.notifications.ListMine(patient)
	if err != nil {
		t.Fatalf("ListMine() error: %v", err)
	}
	if list.Total != 1 || list.Unread != 1 {
		t.Fatalf("list = %d total / %d unread, want 1/1", list.Total, list.Unread)
	}

	id := list.Notifications[0].ID

	// someone else's notification looks missing
	err = f.notifications.MarkRead(as(doctorID, entity.RoleIDDoctor), id)
	assertErrorIs(t, err, ErrNotificationNotFound)

	if err := f.notifications.MarkRead(patient, id); err != nil {
		t.Fatalf("MarkRead() error: %v", err)
	}
	list, _ = f.notifications.ListMine(patient)
	if list.Unread != 0 {
		t.Errorf("unread after MarkRead = %d, want 0", list.Unread)
	}
}

func TestNotificationUsecase_RequiresIdentity(t *testing.T) {
	f := newFixture(t)

	_, err := f.notifications.ListMine(t.Context())
	assertErrorIs(t, err, ErrUnauthenticated)
}
