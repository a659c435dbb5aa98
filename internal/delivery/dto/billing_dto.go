package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateBillRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" validate:"required"`
	Notes         string    `json:"notes" validate:"max=1000"`
}

// RecordPaymentRequest carries one payment. Amount positivity is a domain
// rule checked by the usecase.
type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=CASH CARD UPI INSURANCE"`
}

type BillListQuery struct {
	PatientID *uuid.UUID
	Status    string `validate:"omitempty,oneof=PENDING PAID CANCELLED"`
}

// Response DTOs

type FeeBreakdownResponse struct {
	AppointmentID      uuid.UUID       `json:"appointment_id"`
	PatientID          uuid.UUID       `json:"patient_id"`
	DoctorFee          decimal.Decimal `json:"doctor_fee"`
	HospitalCharge     decimal.Decimal `json:"hospital_charge"`
	BedAllocationID    *uuid.UUID      `json:"bed_allocation_id,omitempty"`
	BedDays            int             `json:"bed_days"`
	BedChargePerDay    decimal.Decimal `json:"bed_charge_per_day"`
	BedCharge          decimal.Decimal `json:"bed_charge"`
	GrossAmount        decimal.Decimal `json:"gross_amount"`
	CaseType           string          `json:"case_type"`
	DiscountPercentage int             `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	FinalAmount        decimal.Decimal `json:"final_amount"`
}

type BillResponse struct {
	ID                 uuid.UUID       `json:"id"`
	InvoiceNumber      string          `json:"invoice_number"`
	AppointmentID      uuid.UUID       `json:"appointment_id"`
	PatientID          uuid.UUID       `json:"patient_id"`
	BedAllocationID    *uuid.UUID      `json:"bed_allocation_id,omitempty"`
	DoctorFee          decimal.Decimal `json:"doctor_fee"`
	HospitalCharge     decimal.Decimal `json:"hospital_charge"`
	BedDays            int             `json:"bed_days"`
	BedChargePerDay    decimal.Decimal `json:"bed_charge_per_day"`
	BedCharge          decimal.Decimal `json:"bed_charge"`
	GrossAmount        decimal.Decimal `json:"gross_amount"`
	CaseType           string          `json:"case_type"`
	DiscountPercentage int             `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	FinalAmount        decimal.Decimal `json:"final_amount"`
	PaidAmount         decimal.Decimal `json:"paid_amount"`
	Balance            decimal.Decimal `json:"balance"`
	PaymentMethod      *string         `json:"payment_method,omitempty"`
	PaymentStatus      string          `json:"payment_status"`
	Notes              string          `json:"notes,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type BillListResponse struct {
	Bills []BillResponse `json:"bills"`
	Total int            `json:"total"`
}

type PaymentResponse struct {
	Success       bool          `json:"success"`
	Message       string        `json:"message"`
	PaymentStatus string        `json:"payment_status"`
	Bill          *BillResponse `json:"bill"`
}
