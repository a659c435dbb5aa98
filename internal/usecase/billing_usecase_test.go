package usecase

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/internal/infrastructure/database"
	"hospital-management-api/internal/service"
	"hospital-management-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

func (f *fixture) createBill(t *testing.T, appointmentID uuid.UUID) *dto.BillResponse {
	t.Helper()
	bill, err := f.billing.CreateFromAppointment(f.asStaff(), &dto.CreateBillRequest{AppointmentID: appointmentID})
	if err != nil {
		t.Fatalf("CreateFromAppointment(%s) error: %v", appointmentID, err)
	}
	return bill
}

func (f *fixture) pay(t *testing.T, billID uuid.UUID, amount string) *dto.PaymentResponse {
	t.Helper()
	payment, err := f.billing.RecordPayment(f.asStaff(), billID, &dto.RecordPaymentRequest{Amount: dec(amount), PaymentMethod: "CASH"})
	if err != nil {
		t.Fatalf("RecordPayment(%s) error: %v", amount, err)
	}
	return payment
}

func TestBillingUsecase_FirstVisitWithoutBed(t *testing.T) {
	f := newFixture(t)
	patientID := f.store.AddPatient()
	doctorID := f.store.AddDoctor(decPtr("500"))
	appointment := f.visit(patientID, doctorID, day(2026, 3, 15), entity.AppointmentStatusVisited)

	preview, err := f.billing.CalculateFees(f.asStaff(), appointment.ID)
	if err != nil {
		t.Fatalf("CalculateFees() error: %v", err)
	}
	assertDecimal(t, "preview final", preview.FinalAmount, "550")

	bill := f.createBill(t, appointment.ID)

	assertDecimal(t, "DoctorFee", bill.DoctorFee, "500")
	assertDecimal(t, "HospitalCharge", bill.HospitalCharge, "50")
	assertDecimal(t, "BedCharge", bill.BedCharge, "0")
	assertDecimal(t, "GrossAmount", bill.GrossAmount, "550")
	assertDecimal(t, "DiscountAmount", bill.DiscountAmount, "0")
	assertDecimal(t, "FinalAmount", bill.FinalAmount, "550")
	assertDecimal(t, "PaidAmount", bill.PaidAmount, "0")
	if bill.CaseType != string(entity.CaseTypeNew) {
		t.Errorf("CaseType = %s, want NEW", bill.CaseType)
	}
	if bill.PaymentStatus != string(entity.BillStatusPending) {
		t.Errorf("PaymentStatus = %s, want PENDING", bill.PaymentStatus)
	}
	if bill.InvoiceNumber != "INV-20260315-000001" {
		t.Errorf("InvoiceNumber = %s, want INV-20260315-000001", bill.InvoiceNumber)
	}
	if bill.BedAllocationID != nil {
		t.Errorf("BedAllocationID = %v, want nil", bill.BedAllocationID)
	}

	titles := f.titles(patientID)
	if len(titles) != 1 || titles[0] != entity.NotificationInvoiceGenerated {
		t.Errorf("patient notifications = %v, want [%s]", titles, entity.NotificationInvoiceGenerated)
	}
}

// repeatVisitWithBed seeds a billed first visit, a discharged three day stay
// at 200/day and a second visit 60 days after the first
func (f *fixture) repeatVisitWithBed(t *testing.T) (patientID uuid.UUID, allocation entity.BedAllocation, second entity.Appointment) {
	t.Helper()
	patientID = f.store.AddPatient()
	doctorID := f.store.AddDoctor(decPtr("500"))

	first := f.visit(patientID, doctorID, day(2026, 1, 14), entity.AppointmentStatusVisited)
	f.createBill(t, first.ID)

	wardID := f.store.AddWard("General A", entity.WardTypeGeneral)
	bedID := f.store.AddBed(wardID, "A-101", dec("200"))
	discharged := time.Date(2026, 3, 13, 10, 0, 0, 0, time.UTC)
	allocation = f.store.AddAllocation(entity.BedAllocation{
		BedID:         bedID,
		PatientID:     patientID,
		AdmissionDate: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		DischargeDate: &discharged,
		Status:        entity.AllocationStatusDischarged,
		PaymentStatus: entity.AllocationPaymentPending,
	})

	second = f.visit(patientID, doctorID, day(2026, 3, 15), entity.AppointmentStatusVisited)
	return patientID, allocation, second
}

func TestBillingUsecase_RepeatVisitWithBedStay(t *testing.T) {
	f := newFixture(t)
	patientID, allocation, second := f.repeatVisitWithBed(t)

	bill := f.createBill(t, second.ID)

	assertDecimal(t, "DoctorFee", bill.DoctorFee, "500")
	assertDecimal(t, "HospitalCharge", bill.HospitalCharge, "50")
	assertDecimal(t, "BedCharge", bill.BedCharge, "600")
	assertDecimal(t, "GrossAmount", bill.GrossAmount, "1150")
	assertDecimal(t, "DiscountAmount", bill.DiscountAmount, "287.5")
	assertDecimal(t, "FinalAmount", bill.FinalAmount, "862.5")
	if bill.BedDays != 3 {
		t.Errorf("BedDays = %d, want 3", bill.BedDays)
	}
	if bill.CaseType != string(entity.CaseTypeOld) || bill.DiscountPercentage != 25 {
		t.Errorf("case = %s/%d%%, want OLD/25%%", bill.CaseType, bill.DiscountPercentage)
	}
	if bill.BedAllocationID == nil || *bill.BedAllocationID != allocation.ID {
		t.Errorf("BedAllocationID = %v, want %s", bill.BedAllocationID, allocation.ID)
	}
	if bill.InvoiceNumber != "INV-20260315-000002" {
		t.Errorf("InvoiceNumber = %s, want INV-20260315-000002", bill.InvoiceNumber)
	}

	stored, _ := f.store.Appointments().FindByID(nil, second.ID)
	if stored.CaseType != entity.CaseTypeOld {
		t.Errorf("appointment CaseType = %s, want OLD", stored.CaseType)
	}

	titles := f.titles(patientID)
	want := []string{entity.NotificationInvoiceGenerated, entity.NotificationInvoiceGenerated, entity.NotificationDiscountApplied}
	if strings.Join(titles, "|") != strings.Join(want, "|") {
		t.Errorf("patient notifications = %v, want %v", titles, want)
	}
}

func TestBillingUsecase_FullPaymentSettlesBillAndStay(t *testing.T) {
	f := newFixture(t)
	patientID, allocation, second := f.repeatVisitWithBed(t)
	bill := f.createBill(t, second.ID)

	payment := f.pay(t, bill.ID, "862.5")

	if !payment.Success || payment.Message != "Payment completed successfully" {
		t.Errorf("payment = %+v, want success with completion message", payment)
	}
	if payment.PaymentStatus != string(entity.BillStatusPaid) {
		t.Errorf("PaymentStatus = %s, want PAID", payment.PaymentStatus)
	}
	assertDecimal(t, "PaidAmount", payment.Bill.PaidAmount, "862.5")
	assertDecimal(t, "Balance", payment.Bill.Balance, "0")
	if payment.Bill.PaymentMethod == nil || *payment.Bill.PaymentMethod != "CASH" {
		t.Errorf("PaymentMethod = %v, want CASH", payment.Bill.PaymentMethod)
	}

	stay, _ := f.store.BedAllocations().FindByID(nil, allocation.ID)
	if stay.PaymentStatus != entity.AllocationPaymentPaid {
		t.Errorf("allocation PaymentStatus = %s, want PAID", stay.PaymentStatus)
	}

	titles := f.titles(patientID)
	if titles[len(titles)-1] != entity.NotificationPaymentSuccess {
		t.Errorf("last patient notification = %s, want %s", titles[len(titles)-1], entity.NotificationPaymentSuccess)
	}
	adminTitles := f.titles(f.adminID)
	if len(adminTitles) != 1 || adminTitles[0] != entity.NotificationPaymentReceived {
		t.Errorf("admin notifications = %v, want [%s]", adminTitles, entity.NotificationPaymentReceived)
	}
	if len(f.titles(f.staffID)) != 0 {
		t.Error("staff should not receive payment notifications")
	}
}

func TestBillingUsecase_PartialPaymentsAccumulate(t *testing.T) {
	f := newFixture(t)
	_, allocation, second := f.repeatVisitWithBed(t)
	bill := f.createBill(t, second.ID)

	first := f.pay(t, bill.ID, "300")
	if first.PaymentStatus != string(entity.BillStatusPending) {
		t.Errorf("after 300: status = %s, want PENDING", first.PaymentStatus)
	}
	if first.Message != "Partial payment recorded. Remaining balance: ₹562.50" {
		t.Errorf("after 300: message = %q", first.Message)
	}

	secondPayment := f.pay(t, bill.ID, "300")
	assertDecimal(t, "paid after 600", secondPayment.Bill.PaidAmount, "600")
	assertDecimal(t, "balance after 600", secondPayment.Bill.Balance, "262.5")

	stay, _ := f.store.BedAllocations().FindByID(nil, allocation.ID)
	if stay.PaymentStatus != entity.AllocationPaymentPending {
		t.Errorf("allocation settled before the bill: %s", stay.PaymentStatus)
	}

	last := f.pay(t, bill.ID, "262.5")
	if last.PaymentStatus != string(entity.BillStatusPaid) {
		t.Errorf("after full amount: status = %s, want PAID", last.PaymentStatus)
	}

	_, err := f.billing.RecordPayment(f.asStaff(), bill.ID, &dto.RecordPaymentRequest{Amount: dec("1"), PaymentMethod: "CASH"})
	assertErrorIs(t, err, ErrBillAlreadyPaid)
	if !errors.Is(err, apperror.ErrInvalidState) {
		t.Errorf("paying a paid bill should be InvalidState, got %v", err)
	}
}

func TestBillingUsecase_OverpaymentSettles(t *testing.T) {
	f := newFixture(t)
	patientID := f.store.AddPatient()
	doctorID := f.store.AddDoctor(decPtr("500"))
	appointment := f.visit(patientID, doctorID, day(2026, 3, 15), entity.AppointmentStatusApproved)
	bill := f.createBill(t, appointment.ID)

	payment := f.pay(t, bill.ID, "600")

	if payment.PaymentStatus != string(entity.BillStatusPaid) {
		t.Errorf("PaymentStatus = %s, want PAID", payment.PaymentStatus)
	}
	assertDecimal(t, "PaidAmount", payment.Bill.PaidAmount, "600")
	assertDecimal(t, "Balance", payment.Bill.Balance, "0")
}

func TestBillingUsecase_ConcurrentPaymentsAllApply(t *testing.T) {
	f := newFixture(t)
	patientID := f.store.AddPatient()
	doctorID := f.store.AddDoctor(decPtr("1000"))
	appointment := f.visit(patientID, doctorID, day(2026, 3, 15), entity.AppointmentStatusVisited)
	bill := f.createBill(t, appointment.ID)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.billing.RecordPayment(f.asStaff(), bill.ID, &dto.RecordPaymentRequest{Amount: dec("100"), PaymentMethod: "UPI"})
		}()
	}
	wg.Wait()

	stored, _ := f.store.Bills().FindByID(nil, bill.ID)
	assertDecimal(t, "PaidAmount", stored.PaidAmount, "1000")
	if stored.PaymentStatus != entity.BillStatusPending {
		t.Errorf("PaymentStatus = %s, want PENDING with 100 left", stored.PaymentStatus)
	}
}

func TestBillingUsecase_RecordPaymentErrors(t *testing.T) {
	f := newFixture(t)
	patientID := f.store.AddPatient()
	doctorID := f.store.AddDoctor(decPtr("500"))
	appointment := f.visit(patientID, doctorID, day(2026, 3, 15), entity.AppointmentStatusVisited)
	bill := f.createBill(t, appointment.ID)

	tests := []struct {
		name   string
		billID uuid.UUID
		req    dto.RecordPaymentRequest
		want   error
	}{
		{"zero amount", bill.ID, dto.RecordPaymentRequest{Amount: dec("0"), PaymentMethod: "CASH"}, ErrInvalidPaymentAmount},
		{"negative amount", bill.ID, dto.RecordPaymentRequest{Amount: dec("-5"), PaymentMethod: "CASH"}, ErrInvalidPaymentAmount},
		{"unknown method", bill.ID, dto.RecordPaymentRequest{Amount: dec("10"), PaymentMethod: "CHEQUE"}, ErrInvalidPaymentMethod},
		{"missing bill", uuid.New(), dto.RecordPaymentRequest{Amount: dec("10"), PaymentMethod: "CARD"}, ErrBillNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.billing.RecordPayment(f.asStaff(), tt.billID, &tt.req)
			assertErrorIs(t, err, tt.want)
		})
	}

	if _, err := f.billing.CancelBill(f.asStaff(), bill.ID); err != nil {
		t.Fatalf("CancelBill() error: %v", err)
	}
	_, err := f.billing.RecordPayment(f.asStaff(), bill.ID, &dto.RecordPaymentRequest{Amount: dec("10"), PaymentMethod: "CASH"})
	assertErrorIs(t, err, ErrBillCancelled)

	stored, _ := f.store.Bills().FindByID(nil, bill.ID)
	assertDecimal(t, "PaidAmount", stored.PaidAmount, "0")
}

func TestBillingUsecase_OneActiveBillPerAppointment(t *testing.T) {
	f := newFixture(t)
	patientID := f.store.AddPatient()
	doctorID := f.store.AddDoctor(decPtr("500"))
	appointment := f.visit(patientID, doctorID, day(2026, 3, 15), entity.AppointmentStatusVisited)

	first := f.createBill(t, appointment.ID)

	_, err := f.billing.CreateFromAppointment(f.asStaff(), &dto.CreateBillRequest{AppointmentID: appointment.ID})
	assertErrorIs(t, err, ErrBillAlreadyExists)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate bill should be a Conflict, got %v", err)
	}

	if _, err := f.billing.CancelBill(f.asStaff(), first.ID); err != nil {
		t.Fatalf("CancelBill() error: %v", err)
	}

	replacement := f.createBill(t, appointment.ID)
	if replacement.ID == first.ID {
		t.Error("expected a new bill after cancelling the first")
	}
}

func TestBillingUsecase_ConcurrentCreatesYieldOneBill(t *testing.T) {
	f := newFixture(t)
	patientID := f.store.AddPatient()
	doctorID := f.store.AddDoctor(decPtr("500"))
	appointment := f.visit(patientID, doctorID, day(2026, 3, 15), entity.AppointmentStatusVisited)

	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.billing.CreateFromAppointment(f.asStaff(), &dto.CreateBillRequest{AppointmentID: appointment.ID})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		switch {
		case err == nil:
			created++
		case !errors.Is(err, ErrBillAlreadyExists):
			t.Errorf("unexpected error: %v", err)
		}
	}
	if created != 1 {
		t.Errorf("created %d bills, want 1", created)
	}
}

func TestBillingUsecase_UniqueIndexRaceMapsToDuplicate(t *testing.T) {
	f := newFixture(t)
	patientID := f.store.AddPatient()
	doctorID := f.store.AddDoctor(decPtr("500"))
	appointment := f.visit(patientID, doctorID, day(2026, 3, 15), entity.AppointmentStatusVisited)

	f.store.FailOn("bills.Create", &pgconn.PgError{Code: "23505", ConstraintName: database.ConstraintActiveBill})

	_, err := f.billing.CreateFromAppointment(f.asStaff(), &dto.CreateBillRequest{AppointmentID: appointment.ID})
	assertErrorIs(t, err, ErrBillAlreadyExists)

	if titles := f.titles(patientID); len(titles) != 0 {
		t.Errorf("notifications written for a failed bill: %v", titles)
	}
}

func TestBillingUsecase_CreateRollsBackOnNotificationFailure(t *testing.T) {
	f := newFixture(t)
	patientID := f.store.AddPatient()
	doctorID := f.store.AddDoctor(decPtr("500"))
	appointment := f.visit(patientID, doctorID, day(2026, 3, 15), entity.AppointmentStatusVisited)

	f.store.FailOn("notifications.Create", errors.New("connection reset"))

	if _, err := f.billing.CreateFromAppointment(f.asStaff(), &dto.CreateBillRequest{AppointmentID: appointment.ID}); err == nil {
		t.Fatal("expected error")
	}

	bills, _ := f.store.Bills().FindAll(nil, entity.BillFilter{})
	if len(bills) != 0 {
		t.Errorf("bills after rollback = %d, want 0", len(bills))
	}
}

func TestBillingUsecase_CreateErrors(t *testing.T) {
	f := newFixture(t)
	patientID := f.store.AddPatient()
	doctorID := f.store.AddDoctor(decPtr("500"))
	unpricedDoctorID := f.store.AddDoctor(nil)

	pending := f.visit(patientID, doctorID, day(2026, 3, 15), entity.AppointmentStatusPending)
	unpriced := f.visit(patientID, unpricedDoctorID, day(2026, 3, 15), entity.AppointmentStatusVisited)

	tests := []struct {
		name          string
		appointmentID uuid.UUID
		want          error
	}{
		{"missing appointment", uuid.New(), ErrAppointmentNotFound},
		{"not billable", pending.ID, service.ErrAppointmentNotBillable},
		{"fee not configured", unpriced.ID, service.ErrDoctorFeeMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.billing.CreateFromAppointment(f.asStaff(), &dto.CreateBillRequest{AppointmentID: tt.appointmentID})
			assertErrorIs(t, err, tt.want)

			_, err = f.billing.CalculateFees(f.asStaff(), tt.appointmentID)
			assertErrorIs(t, err, tt.want)
		})
	}
}

func TestBillingUsecase_SettlementOnlyPaysBilledStay(t *testing.T) {
	f := newFixture(t)
	patientID := f.store.AddPatient()
	doctorID := f.store.AddDoctor(decPtr("500"))
	wardID := f.store.AddWard("General A", entity.WardTypeGeneral)
	bedID := f.store.AddBed(wardID, "A-101", dec("200"))

	olderDischarge := time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)
	older := f.store.AddAllocation(entity.BedAllocation{
		BedID: bedID, PatientID: patientID,
		AdmissionDate: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC), DischargeDate: &olderDischarge,
		Status: entity.AllocationStatusDischarged, PaymentStatus: entity.AllocationPaymentPending,
	})
	latest := f.store.AddAllocation(entity.BedAllocation{
		BedID: bedID, PatientID: patientID,
		AdmissionDate: time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC),
		Status:        entity.AllocationStatusActive, PaymentStatus: entity.AllocationPaymentPending,
	})

	appointment := f.visit(patientID, doctorID, day(2026, 3, 15), entity.AppointmentStatusVisited)
	bill := f.createBill(t, appointment.ID)
	if bill.BedAllocationID == nil || *bill.BedAllocationID != latest.ID {
		t.Fatalf("BedAllocationID = %v, want latest stay %s", bill.BedAllocationID, latest.ID)
	}
	// still admitted: 2 days up to the fixed clock
	if bill.BedDays != 2 {
		t.Errorf("BedDays = %d, want 2", bill.BedDays)
	}

	f.pay(t, bill.ID, bill.FinalAmount.String())

	paid, _ := f.store.BedAllocations().FindByID(nil, latest.ID)
	untouched, _ := f.store.BedAllocations().FindByID(nil, older.ID)
	if paid.PaymentStatus != entity.AllocationPaymentPaid {
		t.Errorf("billed stay = %s, want PAID", paid.PaymentStatus)
	}
	if untouched.PaymentStatus != entity.AllocationPaymentPending {
		t.Errorf("unbilled stay = %s, want PENDING", untouched.PaymentStatus)
	}
}

func TestBillingUsecase_CancelOnlyPending(t *testing.T) {
	f := newFixture(t)
	patientID := f.store.AddPatient()
	doctorID := f.store.AddDoctor(decPtr("500"))
	appointment := f.visit(patientID, doctorID, day(2026, 3, 15), entity.AppointmentStatusVisited)
	bill := f.createBill(t, appointment.ID)
	f.pay(t, bill.ID, "550")

	_, err := f.billing.CancelBill(f.asStaff(), bill.ID)
	assertErrorIs(t, err, ErrBillNotCancellable)

	_, err = f.billing.CancelBill(f.asStaff(), uuid.New())
	assertErrorIs(t, err, ErrBillNotFound)
}

func TestBillingUsecase_PatientsSeeOnlyTheirBills(t *testing.T) {
	f := newFixture(t)
	doctorID := f.store.AddDoctor(decPtr("500"))
	alice := f.store.AddPatient()
	bob := f.store.AddPatient()
	aliceBill := f.createBill(t, f.visit(alice, doctorID, day(2026, 3, 15), entity.AppointmentStatusVisited).ID)
	f.createBill(t, f.visit(bob, doctorID, day(2026, 3, 15), entity.AppointmentStatusVisited).ID)

	list, err := f.billing.ListBills(as(alice, entity.RoleIDPatient), dto.BillListQuery{PatientID: &bob})
	if err != nil {
		t.Fatalf("ListBills() error: %v", err)
	}
	if list.Total != 1 || list.Bills[0].ID != aliceBill.ID {
		t.Errorf("patient listing = %+v, want only own bill", list.Bills)
	}

	all, err := f.billing.ListBills(f.asStaff(), dto.BillListQuery{})
	if err != nil {
		t.Fatalf("ListBills() error: %v", err)
	}
	if all.Total != 2 {
		t.Errorf("staff listing total = %d, want 2", all.Total)
	}

	_, err = f.billing.GetBill(as(bob, entity.RoleIDPatient), aliceBill.ID)
	assertErrorIs(t, err, ErrBillNotOwned)

	if _, err := f.billing.GetBill(as(alice, entity.RoleIDPatient), aliceBill.ID); err != nil {
		t.Errorf("GetBill() own bill error: %v", err)
	}

	_, err = f.billing.ListBills(f.asStaff(), dto.BillListQuery{Status: "REFUNDED"})
	assertErrorIs(t, err, ErrInvalidBillStatus)
}

func TestBillingUsecase_DoctorsSeeNoBills(t *testing.T) {
	f := newFixture(t)
	treatingDoctor := f.store.AddDoctor(decPtr("500"))
	otherDoctor := f.store.AddDoctor(decPtr("700"))
	patientID := f.store.AddPatient()
	bill := f.createBill(t, f.visit(patientID, treatingDoctor, day(2026, 3, 15), entity.AppointmentStatusVisited).ID)

	for _, doctorID := range []uuid.UUID{treatingDoctor, otherDoctor} {
		list, err := f.billing.ListBills(as(doctorID, entity.RoleIDDoctor), dto.BillListQuery{})
		if err != nil {
			t.Fatalf("ListBills() error: %v", err)
		}
		if list.Total != 0 || len(list.Bills) != 0 {
			t.Errorf("doctor listing = %+v, want none", list.Bills)
		}

		_, err = f.billing.GetBill(as(doctorID, entity.RoleIDDoctor), bill.ID)
		assertErrorIs(t, err, ErrBillNotOwned)
	}
}

func TestBillingUsecase_PreviewMatchesCreatedBill(t *testing.T) {
	f := newFixture(t)
	_, _, second := f.repeatVisitWithBed(t)

	preview, err := f.billing.CalculateFees(f.asStaff(), second.ID)
	if err != nil {
		t.Fatalf("CalculateFees() error: %v", err)
	}
	again, err := f.billing.CalculateFees(f.asStaff(), second.ID)
	if err != nil {
		t.Fatalf("CalculateFees() error: %v", err)
	}
	if !preview.FinalAmount.Equal(again.FinalAmount) || preview.CaseType != again.CaseType {
		t.Errorf("preview not stable: %+v vs %+v", preview, again)
	}

	bill := f.createBill(t, second.ID)
	if !bill.FinalAmount.Equal(preview.FinalAmount) || bill.CaseType != preview.CaseType {
		t.Errorf("bill %s/%s differs from preview %s/%s", bill.FinalAmount, bill.CaseType, preview.FinalAmount, preview.CaseType)
	}

	// the bill of this very appointment is not a prior visit
	after, err := f.billing.CalculateFees(f.asStaff(), second.ID)
	if err != nil {
		t.Fatalf("CalculateFees() error: %v", err)
	}
	if !after.FinalAmount.Equal(preview.FinalAmount) {
		t.Errorf("preview after billing = %s, want %s", after.FinalAmount, preview.FinalAmount)
	}
}

func TestBillingUsecase_CalculateFeesPropagatesReadFailure(t *testing.T) {
	f := newFixture(t)
	patientID := f.store.AddPatient()
	doctorID := f.store.AddDoctor(decPtr("500"))
	appointment := f.visit(patientID, doctorID, day(2026, 3, 15), entity.AppointmentStatusVisited)

	readErr := errors.New("read timeout")
	f.store.FailOn("bills.FindBilledVisitsByPatient", readErr)

	_, err := f.billing.CalculateFees(f.asStaff(), appointment.ID)
	if !errors.Is(err, readErr) {
		t.Errorf("error = %v, want wrapped %v", err, readErr)
	}
}

func TestBillingUsecase_InvoiceFallbackWithoutRedis(t *testing.T) {
	f := newFixture(t)
	f.redis.Close()

	patientID := f.store.AddPatient()
	doctorID := f.store.AddDoctor(decPtr("500"))
	appointment := f.visit(patientID, doctorID, day(2026, 3, 15), entity.AppointmentStatusVisited)

	bill := f.createBill(t, appointment.ID)
	if !strings.HasPrefix(bill.InvoiceNumber, "INV-20260315-R") {
		t.Errorf("InvoiceNumber = %s, want random fallback", bill.InvoiceNumber)
	}
}
