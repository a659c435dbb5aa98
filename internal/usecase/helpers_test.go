package usecase

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"hospital-management-api/internal/delivery/http/middleware"
	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/internal/repository/inmemory"
	"hospital-management-api/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// fixedNow is the billing clock of every fixture
var fixedNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store *inmemory.Store
	redis *miniredis.Miniredis

	billing       BillingUsecase
	beds          BedUsecase
	bedRequests   BedRequestUsecase
	appointments  AppointmentUsecase
	prescriptions PrescriptionUsecase
	notifications NotificationUsecase

	adminID uuid.UUID
	staffID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	store := inmemory.NewStore()
	transactor := store.Transactor()

	notificationService := service.NewNotificationService(log, store.Notifications(), store.Users())
	bedManager := service.NewBedAllocationManager(log, store.Beds(), store.BedAllocations())
	feeCalculator := service.NewFeeCalculator(service.NewDiscountPolicy())
	invoiceGenerator := service.NewInvoiceNumberGenerator(redisClient, log, "INV")

	billing := NewBillingUsecase(transactor, log, store.Bills(), store.Appointments(), store.DoctorProfiles(),
		store.BedAllocations(), store.Beds(), feeCalculator, invoiceGenerator, notificationService)
	billing.(*billingUsecase).now = func() time.Time { return fixedNow }

	// admissions are stamped with the real clock, so discharges default to it too
	beds := NewBedUsecase(transactor, log, store.Wards(), store.Beds(), store.BedAllocations(), store.PatientProfiles(), bedManager, notificationService)

	return &fixture{
		store:         store,
		redis:         mr,
		billing:       billing,
		beds:          beds,
		bedRequests:   NewBedRequestUsecase(transactor, log, store.BedRequests(), store.Appointments(), store.Beds(), bedManager, notificationService),
		appointments:  NewAppointmentUsecase(transactor, log, store.Appointments(), store.DoctorProfiles(), notificationService),
		prescriptions: NewPrescriptionUsecase(transactor, log, store.Prescriptions(), store.Appointments(), store.BedRequests(), notificationService),
		notifications: NewNotificationUsecase(transactor, log, store.Notifications()),
		adminID:       store.AddUser(entity.RoleIDAdmin, "Admin"),
		staffID:       store.AddUser(entity.RoleIDStaff, "Front Desk"),
	}
}

func as(userID uuid.UUID, roleID int) context.Context {
	return middleware.ContextWithIdentity(context.Background(), userID, roleID)
}

func (f *fixture) asStaff() context.Context {
	return as(f.staffID, entity.RoleIDStaff)
}

// visit seeds an appointment of patient with doctor in the given status
func (f *fixture) visit(patientID, doctorID uuid.UUID, on time.Time, status entity.AppointmentStatus) entity.Appointment {
	return f.store.AddAppointment(entity.Appointment{
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentDate: on,
		AppointmentTime: "09:30",
		Reason:          "Checkup",
		Status:          status,
	})
}

func (f *fixture) titles(userID uuid.UUID) []string {
	var titles []string
	for _, n := range f.store.NotificationsFor(userID) {
		titles = append(titles, n.Title)
	}
	return titles
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got.String(), want)
	}
}

func assertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}
