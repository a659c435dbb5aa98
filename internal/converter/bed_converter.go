package converter

import (
	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/entity"
)

// WardSummaryToResponse converts a ward with its derived counts to WardResponse DTO
func WardSummaryToResponse(summary *entity.WardSummary) *dto.WardResponse {
	if summary == nil {
		return nil
	}

	return &dto.WardResponse{
		ID:            summary.ID,
		Name:          summary.Name,
		WardType:      string(summary.WardType),
		FloorNumber:   summary.FloorNumber,
		Description:   summary.Description,
		Capacity:      summary.Capacity,
		AvailableBeds: summary.AvailableBeds,
		CreatedAt:     summary.CreatedAt,
	}
}

func WardSummariesToResponses(summaries []entity.WardSummary) []dto.WardResponse {
	responses := make([]dto.WardResponse, len(summaries))
	for i := range summaries {
		responses[i] = *WardSummaryToResponse(&summaries[i])
	}
	return responses
}

// BedToResponse converts a Bed entity to BedResponse DTO
func BedToResponse(bed *entity.Bed) *dto.BedResponse {
	if bed == nil {
		return nil
	}

	return &dto.BedResponse{
		ID:          bed.ID,
		WardID:      bed.WardID,
		BedNumber:   bed.BedNumber,
		BedType:     string(bed.BedType),
		PricePerDay: bed.PricePerDay,
		Status:      string(bed.Status),
		IsActive:    bed.IsActive,
		CreatedAt:   bed.CreatedAt,
		UpdatedAt:   bed.UpdatedAt,
	}
}

func BedsToResponses(beds []entity.Bed) []dto.BedResponse {
	responses := make([]dto.BedResponse, len(beds))
	for i := range beds {
		responses[i] = *BedToResponse(&beds[i])
	}
	return responses
}

// BedAllocationToResponse converts a BedAllocation entity to BedAllocationResponse DTO
func BedAllocationToResponse(allocation *entity.BedAllocation) *dto.BedAllocationResponse {
	if allocation == nil {
		return nil
	}

	return &dto.BedAllocationResponse{
		ID:            allocation.ID,
		BedID:         allocation.BedID,
		PatientID:     allocation.PatientID,
		AdmissionDate: allocation.AdmissionDate,
		DischargeDate: allocation.DischargeDate,
		Reason:        allocation.Reason,
		Status:        string(allocation.Status),
		PaymentStatus: string(allocation.PaymentStatus),
		Notes:         allocation.Notes,
		CreatedAt:     allocation.CreatedAt,
	}
}

func BedAllocationsToResponses(allocations []entity.BedAllocation) []dto.BedAllocationResponse {
	responses := make([]dto.BedAllocationResponse, len(allocations))
	for i := range allocations {
		responses[i] = *BedAllocationToResponse(&allocations[i])
	}
	return responses
}

// BedRequestToResponse converts a BedRequest entity to BedRequestResponse DTO
func BedRequestToResponse(request *entity.BedRequest) *dto.BedRequestResponse {
	if request == nil {
		return nil
	}

	return &dto.BedRequestResponse{
		ID:              request.ID,
		PatientID:       request.PatientID,
		DoctorID:        request.DoctorID,
		AppointmentID:   request.AppointmentID,
		ExpectedBedDays: request.ExpectedBedDays,
		Status:          string(request.Status),
		AllocationID:    request.AllocationID,
		CreatedAt:       request.CreatedAt,
		UpdatedAt:       request.UpdatedAt,
	}
}

func BedRequestsToResponses(requests []entity.BedRequest) []dto.BedRequestResponse {
	responses := make([]dto.BedRequestResponse, len(requests))
	for i := range requests {
		responses[i] = *BedRequestToResponse(&requests[i])
	}
	return responses
}
