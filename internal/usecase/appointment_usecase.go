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
	ErrAppointmentNotFound      = apperror.NotFound("appointment not found")
	ErrDoctorNotFound           = apperror.NotFound("doctor not found")
	ErrInvalidAppointmentDate   = apperror.Validation("appointment_date must be YYYY-MM-DD")
	ErrInvalidAppointmentTime   = apperror.Validation("appointment_time must be HH:MM")
	ErrAppointmentNotPending    = apperror.InvalidState("appointment is no longer pending")
	ErrAppointmentNotCancelable = apperror.InvalidState("only pending or approved appointments can be cancelled")
	ErrAppointmentNotOwned      = apperror.Forbidden("appointment does not belong to you")
)

type AppointmentUsecase interface {
	Book(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	Approve(ctx context.Context, appointmentID uuid.UUID, req *dto.AppointmentDecisionRequest) (*dto.AppointmentResponse, error)
	Reject(ctx context.Context, appointmentID uuid.UUID, req *dto.AppointmentDecisionRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	Get(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	transactor          repository.Transactor
	log                 *logrus.Logger
	appointmentRepo     repository.AppointmentRepository
	doctorProfileRepo   repository.DoctorProfileRepository
	notificationService service.NotificationService
}

func NewAppointmentUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	notificationService service.NotificationService,
) AppointmentUsecase {
	return &appointmentUsecase{
		transactor:          transactor,
		log:                 log,
		appointmentRepo:     appointmentRepo,
		doctorProfileRepo:   doctorProfileRepo,
		notificationService: notificationService,
	}
}

// Book creates a PENDING appointment for the logged-in patient
func (u *appointmentUsecase) Book(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	c, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	appointmentDate, err := time.Parse("2006-01-02", req.AppointmentDate)
	if err != nil {
		return nil, ErrInvalidAppointmentDate
	}
	if _, err := time.Parse("15:04", req.AppointmentTime); err != nil {
		return nil, ErrInvalidAppointmentTime
	}

	appointment := &entity.Appointment{
		PatientID:       c.userID,
		DoctorID:        req.DoctorID,
		AppointmentDate: appointmentDate,
		AppointmentTime: req.AppointmentTime,
		Reason:          req.Reason,
		Status:          entity.AppointmentStatusPending,
		CaseType:        entity.CaseTypeNew,
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		doctor, err := u.doctorProfileRepo.FindByUserID(tx, req.DoctorID)
		if err != nil {
			u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
			return fmt.Errorf("find doctor: %w", err)
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}

		if err := u.appointmentRepo.Create(tx, appointment); err != nil {
			if database.IsForeignKeyViolation(err, "") {
				return ErrDoctorNotFound
			}
			u.log.Warnf("Failed to create appointment: %+v", err)
			return fmt.Errorf("create appointment: %w", err)
		}

		message := fmt.Sprintf("New appointment request for %s at %s.", req.AppointmentDate, req.AppointmentTime)
		return u.notificationService.Notify(tx, appointment.DoctorID, entity.NotificationAppointment, message)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Appointment booked: id=%s, patient=%s, doctor=%s", appointment.ID, appointment.PatientID, appointment.DoctorID)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) Approve(ctx context.Context, appointmentID uuid.UUID, req *dto.AppointmentDecisionRequest) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, appointmentID, entity.AppointmentStatusApproved, req.Notes, canDecide, ErrAppointmentNotPending,
		entity.AppointmentStatusPending)
}

func (u *appointmentUsecase) Reject(ctx context.Context, appointmentID uuid.UUID, req *dto.AppointmentDecisionRequest) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, appointmentID, entity.AppointmentStatusRejected, req.Notes, canDecide, ErrAppointmentNotPending,
		entity.AppointmentStatusPending)
}

func (u *appointmentUsecase) Cancel(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, appointmentID, entity.AppointmentStatusCancelled, "", canCancel, ErrAppointmentNotCancelable,
		entity.AppointmentStatusPending, entity.AppointmentStatusApproved)
}

func (u *appointmentUsecase) Get(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	c, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	appointment, err := u.appointmentRepo.FindByID(u.transactor.DB(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !canView(c, appointment) {
		return nil, ErrAppointmentNotOwned
	}

	return converter.AppointmentToResponse(appointment), nil
}

// transition moves an appointment to status `to` with a compare-and-set on
// `from`, so a concurrent transition makes this one fail with invalid.
// The party on the other side of the appointment is notified.
func (u *appointmentUsecase) transition(
	ctx context.Context,
	appointmentID uuid.UUID,
	to entity.AppointmentStatus,
	notes string,
	allowed func(caller, *entity.Appointment) bool,
	invalid error,
	from ...entity.AppointmentStatus,
) (*dto.AppointmentResponse, error) {
	c, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var appointment *entity.Appointment

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		appointment, err = u.appointmentRepo.FindByID(tx, appointmentID)
		if err != nil {
			u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
			return fmt.Errorf("find appointment: %w", err)
		}
		if appointment == nil {
			return ErrAppointmentNotFound
		}
		if !allowed(c, appointment) {
			return ErrAppointmentNotOwned
		}

		rows, err := u.appointmentRepo.UpdateStatus(tx, appointmentID, to, from...)
		if err != nil {
			u.log.Warnf("Failed to move appointment %s to %s: %+v", appointmentID, to, err)
			return fmt.Errorf("update appointment status: %w", err)
		}
		if rows == 0 {
			return invalid
		}
		appointment.Status = to

		recipient := appointment.PatientID
		if c.userID == appointment.PatientID {
			recipient = appointment.DoctorID
		}
		message := fmt.Sprintf("Appointment on %s at %s is now %s.",
			appointment.AppointmentDate.Format("2006-01-02"), appointment.AppointmentTime, to)
		if notes != "" {
			message += " Notes: " + notes
		}
		return u.notificationService.Notify(tx, recipient, entity.NotificationAppointment, message)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Appointment %s moved to %s by %s", appointmentID, to, c.userID)
	return converter.AppointmentToResponse(appointment), nil
}

// canDecide lets the appointment's doctor or an admin approve or reject
func canDecide(c caller, appointment *entity.Appointment) bool {
	return c.isAdmin() || (c.isDoctor() && appointment.DoctorID == c.userID)
}

// canCancel lets the booking patient or an admin cancel
func canCancel(c caller, appointment *entity.Appointment) bool {
	return c.isAdmin() || (c.isPatient() && appointment.PatientID == c.userID)
}

func canView(c caller, appointment *entity.Appointment) bool {
	if c.isBackOffice() {
		return true
	}
	return appointment.PatientID == c.userID || appointment.DoctorID == c.userID
}
