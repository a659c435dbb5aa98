package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// CreateBedRequestRequest is submitted by the treating doctor.
// ExpectedBedDays must be positive; the usecase enforces it.
type CreateBedRequestRequest struct {
	PatientID       uuid.UUID `json:"patient_id" validate:"required"`
	AppointmentID   uuid.UUID `json:"appointment_id" validate:"required"`
	ExpectedBedDays int       `json:"expected_bed_days"`
}

type ApproveBedRequestRequest struct {
	BedID uuid.UUID `json:"bed_id" validate:"required"`
	Notes string    `json:"notes" validate:"max=1000"`
}

// Response DTOs

type BedRequestResponse struct {
	ID              uuid.UUID              `json:"id"`
	PatientID       uuid.UUID              `json:"patient_id"`
	DoctorID        uuid.UUID              `json:"doctor_id"`
	AppointmentID   uuid.UUID              `json:"appointment_id"`
	ExpectedBedDays int                    `json:"expected_bed_days"`
	Status          string                 `json:"status"`
	AllocationID    *uuid.UUID             `json:"allocation_id,omitempty"`
	Allocation      *BedAllocationResponse `json:"allocation,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

type BedRequestListResponse struct {
	Requests []BedRequestResponse `json:"requests"`
	Total    int                  `json:"total"`
}
