package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hospital-management-api/internal/converter"
	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/internal/domain/repository"
	"hospital-management-api/internal/infrastructure/database"
	"hospital-management-api/internal/service"
	"hospital-management-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrBillNotFound         = apperror.NotFound("bill not found")
	ErrBillAlreadyExists    = apperror.Conflict("a bill already exists for this appointment")
	ErrInvoiceNumberTaken   = apperror.Conflict("invoice number already in use, please retry")
	ErrInvalidPaymentAmount = apperror.Validation("payment amount must be greater than zero")
	ErrInvalidPaymentMethod = apperror.Validation("payment method must be one of CASH, CARD, UPI, INSURANCE")
	ErrInvalidBillStatus    = apperror.Validation("status must be one of PENDING, PAID, CANCELLED")
	ErrBillCancelled        = apperror.InvalidState("bill is cancelled")
	ErrBillAlreadyPaid      = apperror.InvalidState("bill is already paid")
	ErrBillNotCancellable   = apperror.InvalidState("only pending bills can be cancelled")
	ErrBillNotOwned         = apperror.Forbidden("bill does not belong to you")
)

type BillingUsecase interface {
	CalculateFees(ctx context.Context, appointmentID uuid.UUID) (*dto.FeeBreakdownResponse, error)
	CreateFromAppointment(ctx context.Context, req *dto.CreateBillRequest) (*dto.BillResponse, error)
	RecordPayment(ctx context.Context, billID uuid.UUID, req *dto.RecordPaymentRequest) (*dto.PaymentResponse, error)
	CancelBill(ctx context.Context, billID uuid.UUID) (*dto.BillResponse, error)
	GetBill(ctx context.Context, billID uuid.UUID) (*dto.BillResponse, error)
	ListBills(ctx context.Context, query dto.BillListQuery) (*dto.BillListResponse, error)
}

type billingUsecase struct {
	transactor          repository.Transactor
	log                 *logrus.Logger
	billRepo            repository.BillRepository
	appointmentRepo     repository.AppointmentRepository
	doctorProfileRepo   repository.DoctorProfileRepository
	allocationRepo      repository.BedAllocationRepository
	bedRepo             repository.BedRepository
	feeCalculator       service.FeeCalculator
	invoiceGenerator    service.InvoiceNumberGenerator
	notificationService service.NotificationService
	now                 func() time.Time
}

func NewBillingUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	billRepo repository.BillRepository,
	appointmentRepo repository.AppointmentRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	allocationRepo repository.BedAllocationRepository,
	bedRepo repository.BedRepository,
	feeCalculator service.FeeCalculator,
	invoiceGenerator service.InvoiceNumberGenerator,
	notificationService service.NotificationService,
) BillingUsecase {
	return &billingUsecase{
		transactor:          transactor,
		log:                 log,
		billRepo:            billRepo,
		appointmentRepo:     appointmentRepo,
		doctorProfileRepo:   doctorProfileRepo,
		allocationRepo:      allocationRepo,
		bedRepo:             bedRepo,
		feeCalculator:       feeCalculator,
		invoiceGenerator:    invoiceGenerator,
		notificationService: notificationService,
		now:                 time.Now,
	}
}

// CalculateFees previews the bill of an appointment without persisting anything.
// The three inputs are independent reads, so they are fetched concurrently.
func (u *billingUsecase) CalculateFees(ctx context.Context, appointmentID uuid.UUID) (*dto.FeeBreakdownResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.transactor.DB(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	input := service.FeeInput{Appointment: *appointment, AsOf: u.now()}

	var (
		doctorFee  *decimal.Decimal
		allocation *entity.BedAllocation
		bedPrice   decimal.Decimal
		priorBills []entity.BilledVisit
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		doctorFee, err = u.doctorFee(u.transactor.DB(gctx), appointment.DoctorID)
		return err
	})
	g.Go(func() error {
		var err error
		allocation, bedPrice, err = u.billableStay(u.transactor.DB(gctx), appointment.PatientID)
		return err
	})
	g.Go(func() error {
		var err error
		priorBills, err = u.priorVisits(u.transactor.DB(gctx), appointment)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	input.DoctorFee = doctorFee
	input.Allocation = allocation
	input.BedPricePerDay = bedPrice
	input.PriorBills = priorBills

	breakdown, err := u.feeCalculator.Calculate(input)
	if err != nil {
		return nil, err
	}

	return converter.FeeBreakdownToResponse(breakdown), nil
}

// CreateFromAppointment raises the bill of an appointment.
//
// Flow (one transaction):
// 1. Load the appointment and reject a second non-cancelled bill
// 2. Compute the breakdown server-side
// 3. Take the next invoice number from the Redis sequence
// 4. Insert the bill; the partial unique index settles concurrent creates
// 5. Record the case type on the appointment and notify the patient
func (u *billingUsecase) CreateFromAppointment(ctx context.Context, req *dto.CreateBillRequest) (*dto.BillResponse, error) {
	var bill *entity.Bill

	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		appointment, err := u.appointmentRepo.FindByID(tx, req.AppointmentID)
		if err != nil {
			u.log.Warnf("Failed to find appointment %s: %+v", req.AppointmentID, err)
			return fmt.Errorf("find appointment: %w", err)
		}
		if appointment == nil {
			return ErrAppointmentNotFound
		}

		existing, err := u.billRepo.FindActiveByAppointmentID(tx, appointment.ID)
		if err != nil {
			u.log.Warnf("Failed to check existing bill for appointment %s: %+v", appointment.ID, err)
			return fmt.Errorf("find existing bill: %w", err)
		}
		if existing != nil {
			return ErrBillAlreadyExists
		}

		now := u.now()
		input, err := u.loadFeeInput(tx, appointment, now)
		if err != nil {
			return err
		}

		breakdown, err := u.feeCalculator.Calculate(input)
		if err != nil {
			return err
		}

		bill = &entity.Bill{
			AppointmentID:      appointment.ID,
			PatientID:          appointment.PatientID,
			BedAllocationID:    breakdown.BedAllocationID,
			InvoiceNumber:      u.invoiceGenerator.Next(ctx, now),
			DoctorFee:          breakdown.DoctorFee,
			HospitalCharge:     breakdown.HospitalCharge,
			BedCharge:          breakdown.BedCharge,
			BedDays:            breakdown.BedDays,
			BedChargePerDay:    breakdown.BedChargePerDay,
			DiscountPercentage: breakdown.DiscountPercentage,
			DiscountAmount:     breakdown.DiscountAmount,
			GrossAmount:        breakdown.GrossAmount,
			FinalAmount:        breakdown.FinalAmount,
			PaidAmount:         decimal.Zero,
			PaymentStatus:      entity.BillStatusPending,
			CaseType:           breakdown.CaseType,
			Notes:              req.Notes,
		}

		if err := u.billRepo.Create(tx, bill); err != nil {
			if database.IsUniqueViolation(err, database.ConstraintActiveBill) {
				return ErrBillAlreadyExists
			}
			if database.IsUniqueViolation(err, database.ConstraintInvoiceNumber) {
				u.log.Warnf("Invoice number %s collided for appointment %s", bill.InvoiceNumber, appointment.ID)
				return ErrInvoiceNumberTaken
			}
			u.log.Warnf("Failed to create bill for appointment %s: %+v", appointment.ID, err)
			return fmt.Errorf("create bill: %w", err)
		}

		if err := u.appointmentRepo.UpdateCaseType(tx, appointment.ID, breakdown.CaseType); err != nil {
			u.log.Warnf("Failed to update case type of appointment %s: %+v", appointment.ID, err)
			return fmt.Errorf("update case type: %w", err)
		}

		message := fmt.Sprintf("Invoice %s has been generated for %s.", bill.InvoiceNumber, rupees(bill.FinalAmount))
		if err := u.notificationService.Notify(tx, bill.PatientID, entity.NotificationInvoiceGenerated, message); err != nil {
			return err
		}

		if bill.DiscountPercentage > 0 {
			message := fmt.Sprintf("A %d%% loyalty discount of %s was applied to invoice %s.",
				bill.DiscountPercentage, rupees(bill.DiscountAmount), bill.InvoiceNumber)
			if err := u.notificationService.Notify(tx, bill.PatientID, entity.NotificationDiscountApplied, message); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Bill created: id=%s, invoice=%s, appointment=%s, final=%s",
		bill.ID, bill.InvoiceNumber, bill.AppointmentID, bill.FinalAmount.StringFixed(2))
	return converter.BillToResponse(bill), nil
}

// RecordPayment adds one payment to a bill. The bill row stays locked for
// the whole transaction so concurrent payments apply one after another.
func (u *billingUsecase) RecordPayment(ctx context.Context, billID uuid.UUID, req *dto.RecordPaymentRequest) (*dto.PaymentResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidPaymentAmount
	}
	method := entity.PaymentMethod(req.PaymentMethod)
	if !method.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}

	var (
		bill    *entity.Bill
		settled bool
	)

	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		bill, err = u.billRepo.FindByIDForUpdate(tx, billID)
		if err != nil {
			u.log.Warnf("Failed to lock bill %s: %+v", billID, err)
			return fmt.Errorf("find bill: %w", err)
		}
		if bill == nil {
			return ErrBillNotFound
		}
		if bill.IsCancelled() {
			return ErrBillCancelled
		}
		if bill.IsPaid() {
			return ErrBillAlreadyPaid
		}

		settled = bill.ApplyPayment(req.Amount, method)

		if err := u.billRepo.UpdatePayment(tx, bill); err != nil {
			u.log.Warnf("Failed to update payment of bill %s: %+v", billID, err)
			return fmt.Errorf("update payment: %w", err)
		}

		if !settled {
			return nil
		}

		if bill.BedAllocationID != nil {
			rows, err := u.allocationRepo.MarkPaid(tx, *bill.BedAllocationID)
			if err != nil {
				u.log.Warnf("Failed to mark allocation %s paid: %+v", *bill.BedAllocationID, err)
				return fmt.Errorf("mark allocation paid: %w", err)
			}
			if rows == 0 {
				u.log.Warnf("Allocation %s of bill %s was already paid", *bill.BedAllocationID, billID)
			}
		}

		message := fmt.Sprintf("Payment of %s for invoice %s was successful.", rupees(bill.PaidAmount), bill.InvoiceNumber)
		if err := u.notificationService.Notify(tx, bill.PatientID, entity.NotificationPaymentSuccess, message); err != nil {
			return err
		}

		message = fmt.Sprintf("Invoice %s has been paid in full (%s via %s).", bill.InvoiceNumber, rupees(bill.PaidAmount), method)
		return u.notificationService.NotifyRole(tx, entity.RoleIDAdmin, entity.NotificationPaymentReceived, message)
	})
	if err != nil {
		return nil, err
	}

	message := "Payment completed successfully"
	if !settled {
		message = fmt.Sprintf("Partial payment recorded. Remaining balance: %s", rupees(bill.Balance()))
	}

	u.log.Infof("Payment recorded: bill=%s, amount=%s, method=%s, status=%s",
		billID, req.Amount.StringFixed(2), method, bill.PaymentStatus)

	return &dto.PaymentResponse{
		Success:       true,
		Message:       message,
		PaymentStatus: string(bill.PaymentStatus),
		Bill:          converter.BillToResponse(bill),
	}, nil
}

// CancelBill voids a PENDING bill, freeing its appointment for a new bill
func (u *billingUsecase) CancelBill(ctx context.Context, billID uuid.UUID) (*dto.BillResponse, error) {
	var bill *entity.Bill

	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		rows, err := u.billRepo.Cancel(tx, billID)
		if err != nil {
			u.log.Warnf("Failed to cancel bill %s: %+v", billID, err)
			return fmt.Errorf("cancel bill: %w", err)
		}

		bill, err = u.billRepo.FindByID(tx, billID)
		if err != nil {
			u.log.Warnf("Failed to find bill %s: %+v", billID, err)
			return fmt.Errorf("find bill: %w", err)
		}
		if bill == nil {
			return ErrBillNotFound
		}
		if rows == 0 {
			return ErrBillNotCancellable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Bill cancelled: id=%s, invoice=%s", bill.ID, bill.InvoiceNumber)
	return converter.BillToResponse(bill), nil
}

func (u *billingUsecase) GetBill(ctx context.Context, billID uuid.UUID) (*dto.BillResponse, error) {
	c, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	bill, err := u.billRepo.FindByID(u.transactor.DB(ctx), billID)
	if err != nil {
		u.log.Warnf("Failed to find bill %s: %+v", billID, err)
		return nil, fmt.Errorf("find bill: %w", err)
	}
	if bill == nil {
		return nil, ErrBillNotFound
	}
	if !c.canSeeBillsOf(bill.PatientID) {
		return nil, ErrBillNotOwned
	}

	return converter.BillToResponse(bill), nil
}

// ListBills returns bills newest first. Patients are always limited to their own,
// other clinical roles see none.
func (u *billingUsecase) ListBills(ctx context.Context, query dto.BillListQuery) (*dto.BillListResponse, error) {
	c, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !c.isBackOffice() && !c.isPatient() {
		return &dto.BillListResponse{Bills: []dto.BillResponse{}}, nil
	}

	filter := entity.BillFilter{PatientID: query.PatientID}
	if c.isPatient() {
		filter.PatientID = &c.userID
	}
	if query.Status != "" {
		status := entity.BillStatus(query.Status)
		switch status {
		case entity.BillStatusPending, entity.BillStatusPaid, entity.BillStatusCancelled:
		default:
			return nil, ErrInvalidBillStatus
		}
		filter.Status = &status
	}

	bills, err := u.billRepo.FindAll(u.transactor.DB(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list bills: %+v", err)
		return nil, fmt.Errorf("list bills: %w", err)
	}

	return &dto.BillListResponse{
		Bills: converter.BillsToResponses(bills),
		Total: len(bills),
	}, nil
}

// loadFeeInput reads the fee inputs one after another on a transaction handle
func (u *billingUsecase) loadFeeInput(tx *gorm.DB, appointment *entity.Appointment, asOf time.Time) (service.FeeInput, error) {
	input := service.FeeInput{Appointment: *appointment, AsOf: asOf}

	doctorFee, err := u.doctorFee(tx, appointment.DoctorID)
	if err != nil {
		return input, err
	}
	allocation, bedPrice, err := u.billableStay(tx, appointment.PatientID)
	if err != nil {
		return input, err
	}
	priorBills, err := u.priorVisits(tx, appointment)
	if err != nil {
		return input, err
	}

	input.DoctorFee = doctorFee
	input.Allocation = allocation
	input.BedPricePerDay = bedPrice
	input.PriorBills = priorBills
	return input, nil
}

// doctorFee returns nil when the doctor has no profile or no fee configured
func (u *billingUsecase) doctorFee(db *gorm.DB, doctorID uuid.UUID) (*decimal.Decimal, error) {
	profile, err := u.doctorProfileRepo.FindByUserID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile %s: %+v", doctorID, err)
		return nil, fmt.Errorf("find doctor profile: %w", err)
	}
	if profile == nil {
		return nil, nil
	}
	return profile.ConsultationFee, nil
}

// billableStay returns the patient's latest unpaid allocation and its bed price
func (u *billingUsecase) billableStay(db *gorm.DB, patientID uuid.UUID) (*entity.BedAllocation, decimal.Decimal, error) {
	allocation, err := u.allocationRepo.FindLatestUnpaidByPatient(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find unpaid allocation of patient %s: %+v", patientID, err)
		return nil, decimal.Zero, fmt.Errorf("find unpaid allocation: %w", err)
	}
	if allocation == nil {
		return nil, decimal.Zero, nil
	}

	bed, err := u.bedRepo.FindByID(db, allocation.BedID)
	if err != nil {
		u.log.Warnf("Failed to find bed %s: %+v", allocation.BedID, err)
		return nil, decimal.Zero, fmt.Errorf("find bed: %w", err)
	}
	if bed == nil {
		return nil, decimal.Zero, errors.New("allocated bed no longer exists")
	}

	return allocation, bed.PricePerDay, nil
}

// priorVisits returns the patient's billed visits other than this appointment
func (u *billingUsecase) priorVisits(db *gorm.DB, appointment *entity.Appointment) ([]entity.BilledVisit, error) {
	visits, err := u.billRepo.FindBilledVisitsByPatient(db, appointment.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find billed visits of patient %s: %+v", appointment.PatientID, err)
		return nil, fmt.Errorf("find billed visits: %w", err)
	}

	prior := visits[:0]
	for _, visit := range visits {
		if visit.AppointmentID != appointment.ID {
			prior = append(prior, visit)
		}
	}
	return prior, nil
}
