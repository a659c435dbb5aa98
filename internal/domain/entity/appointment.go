package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusApproved  AppointmentStatus = "APPROVED"
	AppointmentStatusRejected  AppointmentStatus = "REJECTED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusVisited   AppointmentStatus = "VISITED"
)

// CaseType is the billing classification of a visit
type CaseType string

const (
	CaseTypeNew CaseType = "NEW"
	CaseTypeOld CaseType = "OLD"
)

// Appointment is a patient visit booked with a doctor
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AppointmentDate time.Time         `gorm:"type:date;not null;index" json:"appointment_date"`
	AppointmentTime string            `gorm:"type:time;not null" json:"appointment_time"`
	Reason          string            `gorm:"type:text;not null" json:"reason"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	CaseType        CaseType          `gorm:"type:varchar(3);not null;default:'NEW'" json:"case_type"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsPending checks if appointment is waiting for a decision
func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

// IsTerminal reports whether no further transition is allowed
func (a *Appointment) IsTerminal() bool {
	return a.Status == AppointmentStatusCancelled || a.Status == AppointmentStatusRejected
}

// IsBillable reports whether a consultation took place, so a bill may be raised
func (a *Appointment) IsBillable() bool {
	return a.Status == AppointmentStatusVisited || a.Status == AppointmentStatusApproved
}
