package usecase

import (
	"context"
	"fmt"
	"strings"

	"hospital-management-api/internal/converter"
	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/internal/domain/repository"
	"hospital-management-api/internal/service"
	"hospital-management-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AdmissionReasonPrescription is recorded on allocations opened from a bed request
const AdmissionReasonPrescription = "Prescription Requirement"

var (
	ErrBedRequestNotFound      = apperror.NotFound("bed request not found")
	ErrBedRequestNotPending    = apperror.InvalidState("bed request has already been decided")
	ErrInvalidExpectedBedDays  = apperror.Validation("expected_bed_days must be greater than zero")
	ErrInvalidBedRequestStatus = apperror.Validation("status must be one of PENDING, APPROVED, REJECTED")
	ErrPatientMismatch         = apperror.Validation("patient_id does not match the appointment")
)

type BedRequestUsecase interface {
	Create(ctx context.Context, req *dto.CreateBedRequestRequest) (*dto.BedRequestResponse, error)
	Approve(ctx context.Context, requestID uuid.UUID, req *dto.ApproveBedRequestRequest) (*dto.BedRequestResponse, error)
	Reject(ctx context.Context, requestID uuid.UUID) (*dto.BedRequestResponse, error)
	List(ctx context.Context, status string) (*dto.BedRequestListResponse, error)
}

type bedRequestUsecase struct {
	transactor          repository.Transactor
	log                 *logrus.Logger
	bedRequestRepo      repository.BedRequestRepository
	appointmentRepo     repository.AppointmentRepository
	bedRepo             repository.BedRepository
	bedManager          service.BedAllocationManager
	notificationService service.NotificationService
}

func NewBedRequestUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	bedRequestRepo repository.BedRequestRepository,
	appointmentRepo repository.AppointmentRepository,
	bedRepo repository.BedRepository,
	bedManager service.BedAllocationManager,
	notificationService service.NotificationService,
) BedRequestUsecase {
	return &bedRequestUsecase{
		transactor:          transactor,
		log:                 log,
		bedRequestRepo:      bedRequestRepo,
		appointmentRepo:     appointmentRepo,
		bedRepo:             bedRepo,
		bedManager:          bedManager,
		notificationService: notificationService,
	}
}

// Create raises a PENDING bed request on behalf of the treating doctor
func (u *bedRequestUsecase) Create(ctx context.Context, req *dto.CreateBedRequestRequest) (*dto.BedRequestResponse, error) {
	c, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req.ExpectedBedDays <= 0 {
		return nil, ErrInvalidExpectedBedDays
	}

	appointment, err := u.appointmentRepo.FindByID(u.transactor.DB(ctx), req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", req.AppointmentID, err)
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.DoctorID != c.userID {
		return nil, ErrAppointmentNotOwned
	}
	if appointment.PatientID != req.PatientID {
		return nil, ErrPatientMismatch
	}

	request := &entity.BedRequest{
		PatientID:       appointment.PatientID,
		DoctorID:        appointment.DoctorID,
		AppointmentID:   appointment.ID,
		ExpectedBedDays: req.ExpectedBedDays,
		Status:          entity.BedRequestStatusPending,
	}

	if err := u.bedRequestRepo.Create(u.transactor.DB(ctx), request); err != nil {
		u.log.Warnf("Failed to create bed request for appointment %s: %+v", appointment.ID, err)
		return nil, fmt.Errorf("create bed request: %w", err)
	}

	u.log.Infof("Bed request created: id=%s, patient=%s, days=%d", request.ID, request.PatientID, request.ExpectedBedDays)
	return converter.BedRequestToResponse(request), nil
}

// Approve assigns a bed and approves the request as one unit of work.
//
// Flow:
// 1. Lock the request and check it is still PENDING
// 2. Admit the patient to the chosen bed
// 3. Move the request PENDING -> APPROVED with the new allocation
// 4. Notify the patient
//
// Any failure rolls everything back and the request stays PENDING.
func (u *bedRequestUsecase) Approve(ctx context.Context, requestID uuid.UUID, req *dto.ApproveBedRequestRequest) (*dto.BedRequestResponse, error) {
	var (
		request    *entity.BedRequest
		allocation *entity.BedAllocation
	)

	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		request, err = u.bedRequestRepo.FindByIDForUpdate(tx, requestID)
		if err != nil {
			u.log.Warnf("Failed to lock bed request %s: %+v", requestID, err)
			return fmt.Errorf("find bed request: %w", err)
		}
		if request == nil {
			return ErrBedRequestNotFound
		}
		if !request.IsPending() {
			return ErrBedRequestNotPending
		}

		notes := strings.TrimSpace(fmt.Sprintf("Expected stay: %d days. %s", request.ExpectedBedDays, req.Notes))
		allocation, err = u.bedManager.Admit(tx, req.BedID, request.PatientID, AdmissionReasonPrescription, notes)
		if err != nil {
			return err
		}

		rows, err := u.bedRequestRepo.Decide(tx, requestID, entity.BedRequestStatusApproved, &allocation.ID)
		if err != nil {
			u.log.Warnf("Failed to approve bed request %s: %+v", requestID, err)
			return fmt.Errorf("approve bed request: %w", err)
		}
		if rows == 0 {
			return ErrBedRequestNotPending
		}
		request.Status = entity.BedRequestStatusApproved
		request.AllocationID = &allocation.ID

		return notifyBedAssigned(tx, u.log, u.bedRepo, u.notificationService, allocation)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Bed request approved: id=%s, allocation=%s, bed=%s", requestID, allocation.ID, allocation.BedID)

	response := converter.BedRequestToResponse(request)
	response.Allocation = converter.BedAllocationToResponse(allocation)
	return response, nil
}

func (u *bedRequestUsecase) Reject(ctx context.Context, requestID uuid.UUID) (*dto.BedRequestResponse, error) {
	var request *entity.BedRequest

	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		request, err = u.bedRequestRepo.FindByIDForUpdate(tx, requestID)
		if err != nil {
			u.log.Warnf("Failed to lock bed request %s: %+v", requestID, err)
			return fmt.Errorf("find bed request: %w", err)
		}
		if request == nil {
			return ErrBedRequestNotFound
		}
		if !request.IsPending() {
			return ErrBedRequestNotPending
		}

		rows, err := u.bedRequestRepo.Decide(tx, requestID, entity.BedRequestStatusRejected, nil)
		if err != nil {
			u.log.Warnf("Failed to reject bed request %s: %+v", requestID, err)
			return fmt.Errorf("reject bed request: %w", err)
		}
		if rows == 0 {
			return ErrBedRequestNotPending
		}
		request.Status = entity.BedRequestStatusRejected

		message := fmt.Sprintf("Your request for a bed (%d days) could not be accommodated.", request.ExpectedBedDays)
		return u.notificationService.Notify(tx, request.PatientID, entity.NotificationBedRequestDenied, message)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Bed request rejected: id=%s", requestID)
	return converter.BedRequestToResponse(request), nil
}

func (u *bedRequestUsecase) List(ctx context.Context, status string) (*dto.BedRequestListResponse, error) {
	var filter *entity.BedRequestStatus
	if status != "" {
		requestStatus := entity.BedRequestStatus(status)
		switch requestStatus {
		case entity.BedRequestStatusPending, entity.BedRequestStatusApproved, entity.BedRequestStatusRejected:
		default:
			return nil, ErrInvalidBedRequestStatus
		}
		filter = &requestStatus
	}

	requests, err := u.bedRequestRepo.FindAll(u.transactor.DB(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list bed requests: %+v", err)
		return nil, fmt.Errorf("list bed requests: %w", err)
	}

	return &dto.BedRequestListResponse{
		Requests: converter.BedRequestsToResponses(requests),
		Total:    len(requests),
	}, nil
}
