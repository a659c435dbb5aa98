package entity

import (
	"time"

	"github.com/google/uuid"
)

// Prescription is written once per appointment by the treating doctor
type Prescription struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AppointmentID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"appointment_id"`
	PatientID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Diagnosis       string     `gorm:"type:text;not null" json:"diagnosis"`
	Medications     string     `gorm:"type:text;not null" json:"medications"`
	Instructions    string     `gorm:"type:text" json:"instructions,omitempty"`
	FollowUpDate    *time.Time `gorm:"type:date" json:"follow_up_date,omitempty"`
	BedRequired     bool       `gorm:"not null;default:false" json:"bed_required"`
	ExpectedBedDays *int       `json:"expected_bed_days,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}
