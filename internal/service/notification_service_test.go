package service

import (
	"context"
	"errors"
	"testing"

	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/internal/repository/inmemory"

	"gorm.io/gorm"
)

func TestNotificationService_NotifyRole(t *testing.T) {
	store := inmemory.NewStore()
	svc := NewNotificationService(testLogger(), store.Notifications(), store.Users())

	admin1 := store.AddUser(entity.RoleIDAdmin, "Admin One")
	admin2 := store.AddUser(entity.RoleIDAdmin, "Admin Two")
	staff := store.AddUser(entity.RoleIDStaff, "Front Desk")

	err := store.Transactor().WithinTransaction(context.Background(), func(tx *gorm.DB) error {
		return svc.NotifyRole(tx, entity.RoleIDAdmin, entity.NotificationPaymentReceived, "Payment received")
	})
	if err != nil {
		t.Fatalf("NotifyRole() error: %v", err)
	}

	if got := len(store.NotificationsFor(admin1)); got != 1 {
		t.Errorf("admin1 notifications = %d, want 1", got)
	}
	if got := len(store.NotificationsFor(admin2)); got != 1 {
		t.Errorf("admin2 notifications = %d, want 1", got)
	}
	if got := len(store.NotificationsFor(staff)); got != 0 {
		t.Errorf("staff notifications = %d, want 0", got)
	}
}

func TestNotificationService_FailureRollsBackTransaction(t *testing.T) {
	store := inmemory.NewStore()
	svc := NewNotificationService(testLogger(), store.Notifications(), store.Users())
	patient := store.AddPatient()

	store.FailOn("notifications.Create", errors.New("connection reset"))

	err := store.Transactor().WithinTransaction(context.Background(), func(tx *gorm.DB) error {
		return svc.Notify(tx, patient, entity.NotificationInvoiceGenerated, "Invoice generated")
	})
	if err == nil {
		t.Fatal("expected Notify() to fail")
	}
	if got := len(store.NotificationsFor(patient)); got != 0 {
		t.Errorf("notifications = %d, want 0", got)
	}
}
