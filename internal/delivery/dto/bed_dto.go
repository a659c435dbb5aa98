package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateWardRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	WardType    string `json:"ward_type" validate:"required,oneof=GENERAL ICU PRIVATE SEMI_PRIVATE EMERGENCY MATERNITY PEDIATRIC"`
	FloorNumber string `json:"floor_number" validate:"required,max=10"`
	Description string `json:"description" validate:"max=1000"`
}

type CreateBedRequest struct {
	WardID      uuid.UUID       `json:"ward_id" validate:"required"`
	BedNumber   string          `json:"bed_number" validate:"required,max=20"`
	BedType     string          `json:"bed_type" validate:"omitempty,oneof=STANDARD ADJUSTABLE ICU VENTILATOR PEDIATRIC"`
	PricePerDay decimal.Decimal `json:"price_per_day"`
}

type UpdateBedStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=AVAILABLE OCCUPIED MAINTENANCE CLEANING"`
}

type BedListQuery struct {
	WardID *uuid.UUID
	Status string `validate:"omitempty,oneof=AVAILABLE OCCUPIED MAINTENANCE CLEANING"`
}

type AdmitPatientRequest struct {
	BedID     uuid.UUID `json:"bed_id" validate:"required"`
	PatientID uuid.UUID `json:"patient_id" validate:"required"`
	Reason    string    `json:"reason" validate:"max=1000"`
	Notes     string    `json:"notes" validate:"max=1000"`
}

// DischargePatientRequest accepts RFC 3339 or YYYY-MM-DD. Empty means now.
type DischargePatientRequest struct {
	DischargeDate string `json:"discharge_date"`
}

// Response DTOs

type WardResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	WardType      string    `json:"ward_type"`
	FloorNumber   string    `json:"floor_number"`
	Description   string    `json:"description,omitempty"`
	Capacity      int       `json:"capacity"`
	AvailableBeds int       `json:"available_beds"`
	CreatedAt     time.Time `json:"created_at"`
}

type WardListResponse struct {
	Wards []WardResponse `json:"wards"`
	Total int            `json:"total"`
}

type BedResponse struct {
	ID          uuid.UUID       `json:"id"`
	WardID      uuid.UUID       `json:"ward_id"`
	BedNumber   string          `json:"bed_number"`
	BedType     string          `json:"bed_type"`
	PricePerDay decimal.Decimal `json:"price_per_day"`
	Status      string          `json:"status"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type BedListResponse struct {
	Beds  []BedResponse `json:"beds"`
	Total int           `json:"total"`
}

type BedAllocationResponse struct {
	ID            uuid.UUID  `json:"id"`
	BedID         uuid.UUID  `json:"bed_id"`
	PatientID     uuid.UUID  `json:"patient_id"`
	AdmissionDate time.Time  `json:"admission_date"`
	DischargeDate *time.Time `json:"discharge_date,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"payment_status"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type BedAllocationListResponse struct {
	Allocations []BedAllocationResponse `json:"allocations"`
	Total       int                     `json:"total"`
}
