package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePrescriptionRequest struct {
	AppointmentID   uuid.UUID `json:"appointment_id" validate:"required"`
	Diagnosis       string    `json:"diagnosis" validate:"required"`
	Medications     string    `json:"medications" validate:"required"`
	Instructions    string    `json:"instructions"`
	FollowUpDate    string    `json:"follow_up_date"` // optional, YYYY-MM-DD
	BedRequired     bool      `json:"bed_required"`
	ExpectedBedDays *int      `json:"expected_bed_days"`
}

// Response DTOs

type PrescriptionResponse struct {
	ID              uuid.UUID           `json:"id"`
	AppointmentID   uuid.UUID           `json:"appointment_id"`
	PatientID       uuid.UUID           `json:"patient_id"`
	DoctorID        uuid.UUID           `json:"doctor_id"`
	Diagnosis       string              `json:"diagnosis"`
	Medications     string              `json:"medications"`
	Instructions    string              `json:"instructions,omitempty"`
	FollowUpDate    *string             `json:"follow_up_date,omitempty"`
	BedRequired     bool                `json:"bed_required"`
	ExpectedBedDays *int                `json:"expected_bed_days,omitempty"`
	BedRequest      *BedRequestResponse `json:"bed_request,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}
