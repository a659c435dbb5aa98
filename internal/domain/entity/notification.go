package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an in-app message addressed to a single user
type Notification struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Notification titles
const (
	NotificationInvoiceGenerated = "Invoice Generated"
	NotificationDiscountApplied  = "Loyalty Discount Applied"
	NotificationPaymentSuccess   = "Payment Successful"
	NotificationPaymentReceived  = "Payment Received"
	NotificationNewPrescription  = "New Prescription"
	NotificationBedAssigned      = "Bed Assigned"
	NotificationBedRequestDenied = "Bed Request Rejected"
	NotificationAppointment      = "Appointment Update"
)
