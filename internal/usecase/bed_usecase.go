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
	ErrWardNotFound            = apperror.NotFound("ward not found")
	ErrBedNumberTaken          = apperror.Conflict("bed number already exists in this ward")
	ErrInvalidBedPrice         = apperror.Validation("price_per_day cannot be negative")
	ErrInvalidDischargeDate    = apperror.Validation("discharge_date must be RFC 3339 or YYYY-MM-DD")
	ErrInvalidAllocationStatus = apperror.Validation("status must be ACTIVE or DISCHARGED")
	ErrPatientNotFound         = apperror.NotFound("patient not found")
)

type BedUsecase interface {
	CreateWard(ctx context.Context, req *dto.CreateWardRequest) (*dto.WardResponse, error)
	GetWard(ctx context.Context, wardID uuid.UUID) (*dto.WardResponse, error)
	ListWards(ctx context.Context) (*dto.WardListResponse, error)
	CreateBed(ctx context.Context, req *dto.CreateBedRequest) (*dto.BedResponse, error)
	ListBeds(ctx context.Context, query dto.BedListQuery) (*dto.BedListResponse, error)
	SetBedStatus(ctx context.Context, bedID uuid.UUID, req *dto.UpdateBedStatusRequest) (*dto.BedResponse, error)
	DeleteBed(ctx context.Context, bedID uuid.UUID) error
	AdmitPatient(ctx context.Context, req *dto.AdmitPatientRequest) (*dto.BedAllocationResponse, error)
	DischargePatient(ctx context.Context, allocationID uuid.UUID, req *dto.DischargePatientRequest) (*dto.BedAllocationResponse, error)
	ListAllocations(ctx context.Context, status string) (*dto.BedAllocationListResponse, error)
}

type bedUsecase struct {
	transactor          repository.Transactor
	log                 *logrus.Logger
	wardRepo            repository.WardRepository
	bedRepo             repository.BedRepository
	allocationRepo      repository.BedAllocationRepository
	patientProfileRepo  repository.PatientProfileRepository
	bedManager          service.BedAllocationManager
	notificationService service.NotificationService
	now                 func() time.Time
}

func NewBedUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	wardRepo repository.WardRepository,
	bedRepo repository.BedRepository,
	allocationRepo repository.BedAllocationRepository,
	patientProfileRepo repository.PatientProfileRepository,
	bedManager service.BedAllocationManager,
	notificationService service.NotificationService,
) BedUsecase {
	return &bedUsecase{
		transactor:          transactor,
		log:                 log,
		wardRepo:            wardRepo,
		bedRepo:             bedRepo,
		allocationRepo:      allocationRepo,
		patientProfileRepo:  patientProfileRepo,
		bedManager:          bedManager,
		notificationService: notificationService,
		now:                 time.Now,
	}
}

func (u *bedUsecase) CreateWard(ctx context.Context, req *dto.CreateWardRequest) (*dto.WardResponse, error) {
	ward := &entity.Ward{
		Name:        req.Name,
		WardType:    entity.WardType(req.WardType),
		FloorNumber: req.FloorNumber,
		Description: req.Description,
	}

	if err := u.wardRepo.Create(u.transactor.DB(ctx), ward); err != nil {
		u.log.Warnf("Failed to create ward %s: %+v", req.Name, err)
		return nil, fmt.Errorf("create ward: %w", err)
	}

	u.log.Infof("Ward created: id=%s, name=%s", ward.ID, ward.Name)
	return converter.WardSummaryToResponse(&entity.WardSummary{Ward: *ward}), nil
}

func (u *bedUsecase) GetWard(ctx context.Context, wardID uuid.UUID) (*dto.WardResponse, error) {
	summary, err := u.wardRepo.FindSummaryByID(u.transactor.DB(ctx), wardID)
	if err != nil {
		u.log.Warnf("Failed to find ward %s: %+v", wardID, err)
		return nil, fmt.Errorf("find ward: %w", err)
	}
	if summary == nil {
		return nil, ErrWardNotFound
	}

	return converter.WardSummaryToResponse(summary), nil
}

func (u *bedUsecase) ListWards(ctx context.Context) (*dto.WardListResponse, error) {
	summaries, err := u.wardRepo.FindAllSummaries(u.transactor.DB(ctx))
	if err != nil {
		u.log.Warnf("Failed to list wards: %+v", err)
		return nil, fmt.Errorf("list wards: %w", err)
	}

	return &dto.WardListResponse{
		Wards: converter.WardSummariesToResponses(summaries),
		Total: len(summaries),
	}, nil
}

func (u *bedUsecase) CreateBed(ctx context.Context, req *dto.CreateBedRequest) (*dto.BedResponse, error) {
	if req.PricePerDay.IsNegative() {
		return nil, ErrInvalidBedPrice
	}

	bedType := entity.BedType(req.BedType)
	if bedType == "" {
		bedType = entity.BedTypeStandard
	}

	bed := &entity.Bed{
		WardID:      req.WardID,
		BedNumber:   req.BedNumber,
		BedType:     bedType,
		PricePerDay: req.PricePerDay.Round(2),
		Status:      entity.BedStatusAvailable,
		IsActive:    true,
	}

	if err := u.bedRepo.Create(u.transactor.DB(ctx), bed); err != nil {
		if database.IsForeignKeyViolation(err, database.ConstraintBedWard) {
			return nil, ErrWardNotFound
		}
		if database.IsUniqueViolation(err, database.ConstraintWardBedNumber) {
			return nil, ErrBedNumberTaken
		}
		u.log.Warnf("Failed to create bed %s in ward %s: %+v", req.BedNumber, req.WardID, err)
		return nil, fmt.Errorf("create bed: %w", err)
	}

	u.log.Infof("Bed created: id=%s, ward=%s, number=%s", bed.ID, bed.WardID, bed.BedNumber)
	return converter.BedToResponse(bed), nil
}

func (u *bedUsecase) ListBeds(ctx context.Context, query dto.BedListQuery) (*dto.BedListResponse, error) {
	filter := entity.BedFilter{WardID: query.WardID}
	if query.Status != "" {
		status := entity.BedStatus(query.Status)
		filter.Status = &status
	}

	beds, err := u.bedRepo.FindAll(u.transactor.DB(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list beds: %+v", err)
		return nil, fmt.Errorf("list beds: %w", err)
	}

	return &dto.BedListResponse{
		Beds:  converter.BedsToResponses(beds),
		Total: len(beds),
	}, nil
}

func (u *bedUsecase) SetBedStatus(ctx context.Context, bedID uuid.UUID, req *dto.UpdateBedStatusRequest) (*dto.BedResponse, error) {
	var bed *entity.Bed

	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		bed, err = u.bedManager.SetBedStatus(tx, bedID, entity.BedStatus(req.Status))
		return err
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Bed %s status set to %s", bedID, bed.Status)
	return converter.BedToResponse(bed), nil
}

func (u *bedUsecase) DeleteBed(ctx context.Context, bedID uuid.UUID) error {
	return u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		return u.bedManager.DeleteBed(tx, bedID)
	})
}

// AdmitPatient assigns a bed directly, outside the bed request flow
func (u *bedUsecase) AdmitPatient(ctx context.Context, req *dto.AdmitPatientRequest) (*dto.BedAllocationResponse, error) {
	var allocation *entity.BedAllocation

	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		patient, err := u.patientProfileRepo.FindByUserID(tx, req.PatientID)
		if err != nil {
			u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
			return fmt.Errorf("find patient: %w", err)
		}
		if patient == nil {
			return ErrPatientNotFound
		}

		allocation, err = u.bedManager.Admit(tx, req.BedID, req.PatientID, req.Reason, req.Notes)
		if err != nil {
			return err
		}
		return u.notifyBedAssigned(tx, allocation)
	})
	if err != nil {
		return nil, err
	}

	return converter.BedAllocationToResponse(allocation), nil
}

func (u *bedUsecase) DischargePatient(ctx context.Context, allocationID uuid.UUID, req *dto.DischargePatientRequest) (*dto.BedAllocationResponse, error) {
	dischargeDate, err := parseDischargeDate(req.DischargeDate, u.now)
	if err != nil {
		return nil, err
	}

	var allocation *entity.BedAllocation

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		allocation, err = u.bedManager.Discharge(tx, allocationID, dischargeDate)
		return err
	})
	if err != nil {
		return nil, err
	}

	return converter.BedAllocationToResponse(allocation), nil
}

func (u *bedUsecase) ListAllocations(ctx context.Context, status string) (*dto.BedAllocationListResponse, error) {
	var filter *entity.AllocationStatus
	if status != "" {
		allocationStatus := entity.AllocationStatus(status)
		if allocationStatus != entity.AllocationStatusActive && allocationStatus != entity.AllocationStatusDischarged {
			return nil, ErrInvalidAllocationStatus
		}
		filter = &allocationStatus
	}

	allocations, err := u.allocationRepo.FindAll(u.transactor.DB(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list allocations: %+v", err)
		return nil, fmt.Errorf("list allocations: %w", err)
	}

	return &dto.BedAllocationListResponse{
		Allocations: converter.BedAllocationsToResponses(allocations),
		Total:       len(allocations),
	}, nil
}

func (u *bedUsecase) notifyBedAssigned(tx *gorm.DB, allocation *entity.BedAllocation) error {
	return notifyBedAssigned(tx, u.log, u.bedRepo, u.notificationService, allocation)
}

// notifyBedAssigned tells the patient which bed they were admitted to
func notifyBedAssigned(
	tx *gorm.DB,
	log *logrus.Logger,
	bedRepo repository.BedRepository,
	notificationService service.NotificationService,
	allocation *entity.BedAllocation,
) error {
	bed, err := bedRepo.FindByID(tx, allocation.BedID)
	if err != nil {
		log.Warnf("Failed to find bed %s: %+v", allocation.BedID, err)
		return fmt.Errorf("find bed: %w", err)
	}

	message := "You have been admitted to a bed."
	if bed != nil {
		message = fmt.Sprintf("You have been admitted to bed %s (%s per day).", bed.BedNumber, rupees(bed.PricePerDay))
	}
	return notificationService.Notify(tx, allocation.PatientID, entity.NotificationBedAssigned, message)
}

// parseDischargeDate accepts an RFC 3339 instant or a plain date. A plain
// date means the end of that day; an empty value means now.
func parseDischargeDate(value string, now func() time.Time) (time.Time, error) {
	if value == "" {
		return now(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	day, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDischargeDate
	}
	return day.AddDate(0, 0, 1).Add(-time.Second), nil
}
