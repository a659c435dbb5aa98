package handler

import (
	"net/http"

	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/usecase"
	"hospital-management-api/pkg/response"
	"hospital-management-api/pkg/validator"
)

type BedHandler struct {
	bedUsecase usecase.BedUsecase
	validator  *validator.CustomValidator
}

func NewBedHandler(bedUsecase usecase.BedUsecase, validator *validator.CustomValidator) *BedHandler {
	return &BedHandler{
		bedUsecase: bedUsecase,
		validator:  validator,
	}
}

func (h *BedHandler) CreateWard(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWardRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	ward, err := h.bedUsecase.CreateWard(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create ward")
		return
	}

	response.Success(w, http.StatusCreated, "Ward created successfully", ward)
}

func (h *BedHandler) GetWard(w http.ResponseWriter, r *http.Request) {
	wardID, ok := pathUUID(w, r, "id", "ward ID")
	if !ok {
		return
	}

	ward, err := h.bedUsecase.GetWard(r.Context(), wardID)
	if err != nil {
		writeError(w, err, "Failed to get ward")
		return
	}

	response.Success(w, http.StatusOK, "Ward retrieved successfully", ward)
}

func (h *BedHandler) ListWards(w http.ResponseWriter, r *http.Request) {
	wards, err := h.bedUsecase.ListWards(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get wards")
		return
	}

	response.Success(w, http.StatusOK, "Wards retrieved successfully", wards)
}

func (h *BedHandler) CreateBed(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBedRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	bed, err := h.bedUsecase.CreateBed(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create bed")
		return
	}

	response.Success(w, http.StatusCreated, "Bed created successfully", bed)
}

func (h *BedHandler) ListBeds(w http.ResponseWriter, r *http.Request) {
	wardID, ok := queryUUID(w, r, "ward_id", "ward ID")
	if !ok {
		return
	}

	query := dto.BedListQuery{
		WardID: wardID,
		Status: r.URL.Query().Get("status"),
	}
	if err := h.validator.Validate(&query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	beds, err := h.bedUsecase.ListBeds(r.Context(), query)
	if err != nil {
		writeError(w, err, "Failed to get beds")
		return
	}

	response.Success(w, http.StatusOK, "Beds retrieved successfully", beds)
}

func (h *BedHandler) SetBedStatus(w http.ResponseWriter, r *http.Request) {
	bedID, ok := pathUUID(w, r, "id", "bed ID")
	if !ok {
		return
	}

	var req dto.UpdateBedStatusRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	bed, err := h.bedUsecase.SetBedStatus(r.Context(), bedID, &req)
	if err != nil {
		writeError(w, err, "Failed to update bed status")
		return
	}

	response.Success(w, http.StatusOK, "Bed status updated successfully", bed)
}

func (h *BedHandler) DeleteBed(w http.ResponseWriter, r *http.Request) {
	bedID, ok := pathUUID(w, r, "id", "bed ID")
	if !ok {
		return
	}

	if err := h.bedUsecase.DeleteBed(r.Context(), bedID); err != nil {
		writeError(w, err, "Failed to delete bed")
		return
	}

	response.Success(w, http.StatusOK, "Bed deleted successfully", nil)
}

func (h *BedHandler) AdmitPatient(w http.ResponseWriter, r *http.Request) {
	var req dto.AdmitPatientRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	allocation, err := h.bedUsecase.AdmitPatient(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to admit patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient admitted successfully", allocation)
}

func (h *BedHandler) DischargePatient(w http.ResponseWriter, r *http.Request) {
	allocationID, ok := pathUUID(w, r, "id", "allocation ID")
	if !ok {
		return
	}

	// an empty body discharges now
	var req dto.DischargePatientRequest
	if !decodeOptional(w, r, h.validator, &req) {
		return
	}

	allocation, err := h.bedUsecase.DischargePatient(r.Context(), allocationID, &req)
	if err != nil {
		writeError(w, err, "Failed to discharge patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient discharged successfully", allocation)
}

func (h *BedHandler) ListAllocations(w http.ResponseWriter, r *http.Request) {
	allocations, err := h.bedUsecase.ListAllocations(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err, "Failed to get allocations")
		return
	}

	response.Success(w, http.StatusOK, "Allocations retrieved successfully", allocations)
}
