package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillStatus represents the payment lifecycle of a bill
type BillStatus string

const (
	BillStatusPending   BillStatus = "PENDING"
	BillStatusPaid      BillStatus = "PAID"
	BillStatusCancelled BillStatus = "CANCELLED"
)

// PaymentMethod is the tender used for a payment
type PaymentMethod string

const (
	PaymentMethodCash      PaymentMethod = "CASH"
	PaymentMethodCard      PaymentMethod = "CARD"
	PaymentMethodUPI       PaymentMethod = "UPI"
	PaymentMethodInsurance PaymentMethod = "INSURANCE"
)

// IsValid checks the method against the accepted tenders
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI, PaymentMethodInsurance:
		return true
	}
	return false
}

// Bill is the invoice raised for one appointment. The fee breakdown is
// fixed at creation; only payment bookkeeping changes afterwards.
type Bill struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AppointmentID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"appointment_id"`
	PatientID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	BedAllocationID    *uuid.UUID      `gorm:"type:uuid" json:"bed_allocation_id,omitempty"`
	InvoiceNumber      string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"invoice_number"`
	DoctorFee          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"doctor_fee"`
	HospitalCharge     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"hospital_charge"`
	BedCharge          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"bed_charge"`
	BedDays            int             `gorm:"not null;default:0" json:"bed_days"`
	BedChargePerDay    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"bed_charge_per_day"`
	DiscountPercentage int             `gorm:"not null;default:0" json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discount_amount"`
	GrossAmount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"gross_amount"`
	FinalAmount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"final_amount"`
	PaidAmount         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"paid_amount"`
	PaymentMethod      *PaymentMethod  `gorm:"type:varchar(10)" json:"payment_method,omitempty"`
	PaymentStatus      BillStatus      `gorm:"type:varchar(10);not null;default:'PENDING';index" json:"payment_status"`
	CaseType           CaseType        `gorm:"type:varchar(3);not null" json:"case_type"`
	Notes              string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Bill) TableName() string {
	return "bills"
}

// IsPending checks if the bill still accepts payments
func (b *Bill) IsPending() bool {
	return b.PaymentStatus == BillStatusPending
}

// IsPaid checks if the bill has been settled
func (b *Bill) IsPaid() bool {
	return b.PaymentStatus == BillStatusPaid
}

// IsCancelled checks if the bill was voided
func (b *Bill) IsCancelled() bool {
	return b.PaymentStatus == BillStatusCancelled
}

// Balance returns what is still owed, never negative
func (b *Bill) Balance() decimal.Decimal {
	balance := b.FinalAmount.Sub(b.PaidAmount)
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

// ApplyPayment adds amount to the paid total and settles the bill once the
// paid total reaches the final amount. Overpayment is recorded as paid.
// Returns true when this payment settled the bill.
func (b *Bill) ApplyPayment(amount decimal.Decimal, method PaymentMethod) bool {
	b.PaidAmount = b.PaidAmount.Add(amount)
	b.PaymentMethod = &method
	if b.PaidAmount.GreaterThanOrEqual(b.FinalAmount) {
		b.PaymentStatus = BillStatusPaid
		return true
	}
	return false
}

// BillFilter narrows bill listings
type BillFilter struct {
	PatientID *uuid.UUID
	Status    *BillStatus
}

// BilledVisit is a non-cancelled bill joined with its appointment date.
// It is the input of the repeat-case discount decision.
type BilledVisit struct {
	BillID          uuid.UUID `json:"bill_id"`
	AppointmentID   uuid.UUID `json:"appointment_id"`
	PatientID       uuid.UUID `json:"patient_id"`
	AppointmentDate time.Time `json:"appointment_date"`
}
