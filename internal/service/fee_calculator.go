package service

import (
	"time"

	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrAppointmentNotBillable = apperror.Validation("appointment must be VISITED or APPROVED to be billed")
	ErrDoctorFeeMissing       = apperror.Validation("doctor consultation fee is not configured")
	ErrDoctorFeeNegative      = apperror.Validation("doctor consultation fee cannot be negative")
	ErrBedPriceNegative       = apperror.Validation("bed price per day cannot be negative")
)

var (
	hospitalChargeRate = decimal.NewFromInt(10).Div(decimal.NewFromInt(100))
	hundred            = decimal.NewFromInt(100)
)

// FeeInput is everything a fee breakdown depends on. AsOf stands in for
// "now" when an allocation has not been discharged yet.
type FeeInput struct {
	Appointment    entity.Appointment
	DoctorFee      *decimal.Decimal
	Allocation     *entity.BedAllocation
	BedPricePerDay decimal.Decimal
	PriorBills     []entity.BilledVisit
	AsOf           time.Time
}

// FeeBreakdown is the computed invoice of one appointment
type FeeBreakdown struct {
	AppointmentID      uuid.UUID       `json:"appointment_id"`
	PatientID          uuid.UUID       `json:"patient_id"`
	DoctorFee          decimal.Decimal `json:"doctor_fee"`
	HospitalCharge     decimal.Decimal `json:"hospital_charge"`
	BedAllocationID    *uuid.UUID      `json:"bed_allocation_id,omitempty"`
	BedDays            int             `json:"bed_days"`
	BedChargePerDay    decimal.Decimal `json:"bed_charge_per_day"`
	BedCharge          decimal.Decimal `json:"bed_charge"`
	GrossAmount        decimal.Decimal `json:"gross_amount"`
	CaseType           entity.CaseType `json:"case_type"`
	DiscountPercentage int             `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	FinalAmount        decimal.Decimal `json:"final_amount"`
}

// FeeCalculator turns a billable appointment into a FeeBreakdown.
// It has no side effects: equal inputs always give equal outputs.
type FeeCalculator interface {
	Calculate(input FeeInput) (*FeeBreakdown, error)
}

type feeCalculator struct {
	discountPolicy DiscountPolicy
}

func NewFeeCalculator(discountPolicy DiscountPolicy) FeeCalculator {
	return &feeCalculator{discountPolicy: discountPolicy}
}

func (c *feeCalculator) Calculate(input FeeInput) (*FeeBreakdown, error) {
	appointment := input.Appointment
	if !appointment.IsBillable() {
		return nil, ErrAppointmentNotBillable
	}
	if input.DoctorFee == nil {
		return nil, ErrDoctorFeeMissing
	}
	if input.DoctorFee.IsNegative() {
		return nil, ErrDoctorFeeNegative
	}

	doctorFee := input.DoctorFee.Round(2)
	hospitalCharge := doctorFee.Mul(hospitalChargeRate).Round(2)

	breakdown := &FeeBreakdown{
		AppointmentID:   appointment.ID,
		PatientID:       appointment.PatientID,
		DoctorFee:       doctorFee,
		HospitalCharge:  hospitalCharge,
		BedChargePerDay: decimal.Zero,
		BedCharge:       decimal.Zero,
	}

	if input.Allocation != nil {
		if input.BedPricePerDay.IsNegative() {
			return nil, ErrBedPriceNegative
		}
		allocationID := input.Allocation.ID
		breakdown.BedAllocationID = &allocationID
		breakdown.BedDays = input.Allocation.StayDays(input.AsOf)
		breakdown.BedChargePerDay = input.BedPricePerDay.Round(2)
		breakdown.BedCharge = breakdown.BedChargePerDay.Mul(decimal.NewFromInt(int64(breakdown.BedDays)))
	}

	breakdown.GrossAmount = doctorFee.Add(hospitalCharge).Add(breakdown.BedCharge)

	breakdown.CaseType = c.discountPolicy.CaseType(appointment.PatientID, appointment.AppointmentDate, input.PriorBills)
	breakdown.DiscountPercentage = c.discountPolicy.DiscountPercentage(breakdown.CaseType)
	breakdown.DiscountAmount = breakdown.GrossAmount.
		Mul(decimal.NewFromInt(int64(breakdown.DiscountPercentage))).
		Div(hundred).
		Round(2)
	breakdown.FinalAmount = breakdown.GrossAmount.Sub(breakdown.DiscountAmount)

	return breakdown, nil
}
