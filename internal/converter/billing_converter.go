package converter

import (
	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/internal/service"
)

// FeeBreakdownToResponse converts a computed FeeBreakdown to its response DTO
func FeeBreakdownToResponse(breakdown *service.FeeBreakdown) *dto.FeeBreakdownResponse {
	if breakdown == nil {
		return nil
	}

	return &dto.FeeBreakdownResponse{
		AppointmentID:      breakdown.AppointmentID,
		PatientID:          breakdown.PatientID,
		DoctorFee:          breakdown.DoctorFee,
		HospitalCharge:     breakdown.HospitalCharge,
		BedAllocationID:    breakdown.BedAllocationID,
		BedDays:            breakdown.BedDays,
		BedChargePerDay:    breakdown.BedChargePerDay,
		BedCharge:          breakdown.BedCharge,
		GrossAmount:        breakdown.GrossAmount,
		CaseType:           string(breakdown.CaseType),
		DiscountPercentage: breakdown.DiscountPercentage,
		DiscountAmount:     breakdown.DiscountAmount,
		FinalAmount:        breakdown.FinalAmount,
	}
}

// BillToResponse converts a Bill entity to BillResponse DTO
func BillToResponse(bill *entity.Bill) *dto.BillResponse {
	if bill == nil {
		return nil
	}

	response := &dto.BillResponse{
		ID:                 bill.ID,
		InvoiceNumber:      bill.InvoiceNumber,
		AppointmentID:      bill.AppointmentID,
		PatientID:          bill.PatientID,
		BedAllocationID:    bill.BedAllocationID,
		DoctorFee:          bill.DoctorFee,
		HospitalCharge:     bill.HospitalCharge,
		BedDays:            bill.BedDays,
		BedChargePerDay:    bill.BedChargePerDay,
		BedCharge:          bill.BedCharge,
		GrossAmount:        bill.GrossAmount,
		CaseType:           string(bill.CaseType),
		DiscountPercentage: bill.DiscountPercentage,
		DiscountAmount:     bill.DiscountAmount,
		FinalAmount:        bill.FinalAmount,
		PaidAmount:         bill.PaidAmount,
		Balance:            bill.Balance(),
		PaymentStatus:      string(bill.PaymentStatus),
		Notes:              bill.Notes,
		CreatedAt:          bill.CreatedAt,
		UpdatedAt:          bill.UpdatedAt,
	}

	if bill.PaymentMethod != nil {
		method := string(*bill.PaymentMethod)
		response.PaymentMethod = &method
	}

	return response
}

// BillsToResponses converts a slice of Bill entities to slice of BillResponse DTOs
func BillsToResponses(bills []entity.Bill) []dto.BillResponse {
	responses := make([]dto.BillResponse, len(bills))
	for i := range bills {
		responses[i] = *BillToResponse(&bills[i])
	}
	return responses
}
