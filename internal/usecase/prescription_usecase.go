package usecase

import (
	"context"
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
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPrescriptionNotFound    = apperror.NotFound("prescription not found")
	ErrPrescriptionExists      = apperror.Conflict("a prescription already exists for this appointment")
	ErrAppointmentNotApproved  = apperror.InvalidState("appointment must be APPROVED to write a prescription")
	ErrInvalidFollowUpDate     = apperror.Validation("follow_up_date must be YYYY-MM-DD")
	ErrPrescriptionNotAllowed  = apperror.Forbidden("only the appointment's doctor can write its prescription")
	ErrPrescriptionNotViewable = apperror.Forbidden("prescription does not belong to you")
)

type PrescriptionUsecase interface {
	Create(ctx context.Context, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error)
	Get(ctx context.Context, prescriptionID uuid.UUID) (*dto.PrescriptionResponse, error)
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.PrescriptionResponse, error)
}

type prescriptionUsecase struct {
	transactor          repository.Transactor
	log                 *logrus.Logger
	prescriptionRepo    repository.PrescriptionRepository
	appointmentRepo     repository.AppointmentRepository
	bedRequestRepo      repository.BedRequestRepository
	notificationService service.NotificationService
}

func NewPrescriptionUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	prescriptionRepo repository.PrescriptionRepository,
	appointmentRepo repository.AppointmentRepository,
	bedRequestRepo repository.BedRequestRepository,
	notificationService service.NotificationService,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		transactor:          transactor,
		log:                 log,
		prescriptionRepo:    prescriptionRepo,
		appointmentRepo:     appointmentRepo,
		bedRequestRepo:      bedRequestRepo,
		notificationService: notificationService,
	}
}

// Create records the doctor's prescription for an approved appointment.
//
// Flow (one transaction):
// 1. Check the appointment, its doctor and its status
// 2. Insert the prescription
// 3. Move the appointment APPROVED -> VISITED
// 4. Raise a bed request when a bed is required
// 5. Notify the patient
func (u *prescriptionUsecase) Create(ctx context.Context, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	c, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if req.BedRequired && (req.ExpectedBedDays == nil || *req.ExpectedBedDays <= 0) {
		return nil, ErrInvalidExpectedBedDays
	}

	var followUp *time.Time
	if req.FollowUpDate != "" {
		date, err := time.Parse("2006-01-02", req.FollowUpDate)
		if err != nil {
			return nil, ErrInvalidFollowUpDate
		}
		followUp = &date
	}

	var (
		prescription *entity.Prescription
		bedRequest   *entity.BedRequest
	)

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		appointment, err := u.appointmentRepo.FindByID(tx, req.AppointmentID)
		if err != nil {
			u.log.Warnf("Failed to find appointment %s: %+v", req.AppointmentID, err)
			return fmt.Errorf("find appointment: %w", err)
		}
		if appointment == nil {
			return ErrAppointmentNotFound
		}
		if appointment.DoctorID != c.userID {
			return ErrPrescriptionNotAllowed
		}

		existing, err := u.prescriptionRepo.FindByAppointmentID(tx, appointment.ID)
		if err != nil {
			u.log.Warnf("Failed to check prescription of appointment %s: %+v", appointment.ID, err)
			return fmt.Errorf("find prescription: %w", err)
		}
		if existing != nil {
			return ErrPrescriptionExists
		}
		if appointment.Status != entity.AppointmentStatusApproved {
			return ErrAppointmentNotApproved
		}

		prescription = &entity.Prescription{
			AppointmentID: appointment.ID,
			PatientID:     appointment.PatientID,
			DoctorID:      appointment.DoctorID,
			Diagnosis:     req.Diagnosis,
			Medications:   req.Medications,
			Instructions:  req.Instructions,
			FollowUpDate:  followUp,
			BedRequired:   req.BedRequired,
		}
		if req.BedRequired {
			prescription.ExpectedBedDays = req.ExpectedBedDays
		}

		if err := u.prescriptionRepo.Create(tx, prescription); err != nil {
			if database.IsUniqueViolation(err, database.ConstraintPrescription) {
				return ErrPrescriptionExists
			}
			u.log.Warnf("Failed to create prescription for appointment %s: %+v", appointment.ID, err)
			return fmt.Errorf("create prescription: %w", err)
		}

		rows, err := u.appointmentRepo.UpdateStatus(tx, appointment.ID, entity.AppointmentStatusVisited, entity.AppointmentStatusApproved)
		if err != nil {
			u.log.Warnf("Failed to mark appointment %s visited: %+v", appointment.ID, err)
			return fmt.Errorf("mark appointment visited: %w", err)
		}
		if rows == 0 {
			return ErrAppointmentNotApproved
		}

		if req.BedRequired {
			bedRequest = &entity.BedRequest{
				PatientID:       appointment.PatientID,
				DoctorID:        appointment.DoctorID,
				AppointmentID:   appointment.ID,
				ExpectedBedDays: *req.ExpectedBedDays,
				Status:          entity.BedRequestStatusPending,
			}
			if err := u.bedRequestRepo.Create(tx, bedRequest); err != nil {
				u.log.Warnf("Failed to create bed request for appointment %s: %+v", appointment.ID, err)
				return fmt.Errorf("create bed request: %w", err)
			}
		}

		message := fmt.Sprintf("Your doctor has written a prescription for your visit on %s.",
			appointment.AppointmentDate.Format("2006-01-02"))
		if bedRequest != nil {
			message += fmt.Sprintf(" A bed has been requested for %d days.", bedRequest.ExpectedBedDays)
		}
		return u.notificationService.Notify(tx, appointment.PatientID, entity.NotificationNewPrescription, message)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Prescription created: id=%s, appointment=%s, bed_required=%t", prescription.ID, prescription.AppointmentID, prescription.BedRequired)

	response := converter.PrescriptionToResponse(prescription)
	if bedRequest != nil {
		response.BedRequest = converter.BedRequestToResponse(bedRequest)
	}
	return response, nil
}

func (u *prescriptionUsecase) Get(ctx context.Context, prescriptionID uuid.UUID) (*dto.PrescriptionResponse, error) {
	prescription, err := u.prescriptionRepo.FindByID(u.transactor.DB(ctx), prescriptionID)
	if err != nil {
		u.log.Warnf("Failed to find prescription %s: %+v", prescriptionID, err)
		return nil, fmt.Errorf("find prescription: %w", err)
	}
	return u.visible(ctx, prescription)
}

func (u *prescriptionUsecase) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.PrescriptionResponse, error) {
	prescription, err := u.prescriptionRepo.FindByAppointmentID(u.transactor.DB(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find prescription of appointment %s: %+v", appointmentID, err)
		return nil, fmt.Errorf("find prescription: %w", err)
	}
	return u.visible(ctx, prescription)
}

// visible hides prescriptions from patients and doctors who are not party to them
func (u *prescriptionUsecase) visible(ctx context.Context, prescription *entity.Prescription) (*dto.PrescriptionResponse, error) {
	c, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}
	if !c.isBackOffice() && prescription.PatientID != c.userID && prescription.DoctorID != c.userID {
		return nil, ErrPrescriptionNotViewable
	}
	return converter.PrescriptionToResponse(prescription), nil
}
