package entity

import (
	"time"

	"github.com/google/uuid"
)

// BedRequestStatus represents the admin decision on a bed request
type BedRequestStatus string

const (
	BedRequestStatusPending  BedRequestStatus = "PENDING"
	BedRequestStatusApproved BedRequestStatus = "APPROVED"
	BedRequestStatusRejected BedRequestStatus = "REJECTED"
)

// BedRequest is raised by a prescription that needs a bed and waits for
// an admin to assign one. APPROVED and REJECTED are terminal.
type BedRequest struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AppointmentID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"appointment_id"`
	ExpectedBedDays int              `gorm:"not null" json:"expected_bed_days"`
	Status          BedRequestStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	AllocationID    *uuid.UUID       `gorm:"type:uuid" json:"allocation_id,omitempty"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BedRequest) TableName() string {
	return "bed_requests"
}

// IsPending checks if the request still awaits a decision
func (r *BedRequest) IsPending() bool {
	return r.Status == BedRequestStatusPending
}
