package converter

import (
	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/entity"
)

// PrescriptionToResponse converts a Prescription entity to PrescriptionResponse DTO
func PrescriptionToResponse(prescription *entity.Prescription) *dto.PrescriptionResponse {
	if prescription == nil {
		return nil
	}

	response := &dto.PrescriptionResponse{
		ID:              prescription.ID,
		AppointmentID:   prescription.AppointmentID,
		PatientID:       prescription.PatientID,
		DoctorID:        prescription.DoctorID,
		Diagnosis:       prescription.Diagnosis,
		Medications:     prescription.Medications,
		Instructions:    prescription.Instructions,
		BedRequired:     prescription.BedRequired,
		ExpectedBedDays: prescription.ExpectedBedDays,
		CreatedAt:       prescription.CreatedAt,
	}

	if prescription.FollowUpDate != nil {
		followUp := prescription.FollowUpDate.Format("2006-01-02")
		response.FollowUpDate = &followUp
	}

	return response
}
