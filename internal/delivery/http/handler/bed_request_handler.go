package handler

import (
	"net/http"

	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/usecase"
	"hospital-management-api/pkg/response"
	"hospital-management-api/pkg/validator"
)

type BedRequestHandler struct {
	bedRequestUsecase usecase.BedRequestUsecase
	validator         *validator.CustomValidator
}

func NewBedRequestHandler(bedRequestUsecase usecase.BedRequestUsecase, validator *validator.CustomValidator) *BedRequestHandler {
	return &BedRequestHandler{
		bedRequestUsecase: bedRequestUsecase,
		validator:         validator,
	}
}

func (h *BedRequestHandler) CreateBedRequest(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBedRequestRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	request, err := h.bedRequestUsecase.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create bed request")
		return
	}

	response.Success(w, http.StatusCreated, "Bed request created successfully", request)
}

func (h *BedRequestHandler) ApproveBedRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathUUID(w, r, "id", "bed request ID")
	if !ok {
		return
	}

	var req dto.ApproveBedRequestRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	request, err := h.bedRequestUsecase.Approve(r.Context(), requestID, &req)
	if err != nil {
		writeError(w, err, "Failed to approve bed request")
		return
	}

	response.Success(w, http.StatusOK, "Bed request approved and bed assigned successfully", request)
}

func (h *BedRequestHandler) RejectBedRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathUUID(w, r, "id", "bed request ID")
	if !ok {
		return
	}

	request, err := h.bedRequestUsecase.Reject(r.Context(), requestID)
	if err != nil {
		writeError(w, err, "Failed to reject bed request")
		return
	}

	response.Success(w, http.StatusOK, "Bed request rejected", request)
}

func (h *BedRequestHandler) ListBedRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.bedRequestUsecase.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err, "Failed to get bed requests")
		return
	}

	response.Success(w, http.StatusOK, "Bed requests retrieved successfully", requests)
}
