package entity

import (
	"time"

	"github.com/google/uuid"
)

// AllocationStatus tracks whether a patient still occupies the bed
type AllocationStatus string

const (
	AllocationStatusActive     AllocationStatus = "ACTIVE"
	AllocationStatusDischarged AllocationStatus = "DISCHARGED"
)

// AllocationPaymentStatus tracks whether the stay has been billed and paid
type AllocationPaymentStatus string

const (
	AllocationPaymentPending AllocationPaymentStatus = "PENDING"
	AllocationPaymentPaid    AllocationPaymentStatus = "PAID"
)

// BedAllocation links a patient to a bed for a stay interval.
// DischargeDate is nil while the patient is still admitted.
type BedAllocation struct {
	ID            uuid.UUID               `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BedID         uuid.UUID               `gorm:"type:uuid;not null;index" json:"bed_id"`
	PatientID     uuid.UUID               `gorm:"type:uuid;not null;index" json:"patient_id"`
	AdmissionDate time.Time               `gorm:"not null" json:"admission_date"`
	DischargeDate *time.Time              `json:"discharge_date,omitempty"`
	Reason        string                  `gorm:"type:text" json:"reason,omitempty"`
	Status        AllocationStatus        `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`
	PaymentStatus AllocationPaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"payment_status"`
	Notes         string                  `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time               `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time               `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BedAllocation) TableName() string {
	return "bed_allocations"
}

// IsActive checks if the patient has not been discharged yet
func (a *BedAllocation) IsActive() bool {
	return a.Status == AllocationStatusActive
}

// StayDays returns the whole days between admission and discharge, or
// between admission and asOf while still admitted. Never less than 1.
func (a *BedAllocation) StayDays(asOf time.Time) int {
	end := asOf
	if a.DischargeDate != nil {
		end = *a.DischargeDate
	}
	days := int(end.Sub(a.AdmissionDate) / (24 * time.Hour))
	if days < 1 {
		days = 1
	}
	return days
}
