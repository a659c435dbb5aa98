package handler

import (
	"net/http"

	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/usecase"
	"hospital-management-api/pkg/response"
	"hospital-management-api/pkg/validator"
)

type BillingHandler struct {
	billingUsecase usecase.BillingUsecase
	validator      *validator.CustomValidator
}

func NewBillingHandler(billingUsecase usecase.BillingUsecase, validator *validator.CustomValidator) *BillingHandler {
	return &BillingHandler{
		billingUsecase: billingUsecase,
		validator:      validator,
	}
}

// CalculateFees previews the fee breakdown of an appointment without persisting anything
func (h *BillingHandler) CalculateFees(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := queryUUID(w, r, "appointment_id", "appointment ID")
	if !ok {
		return
	}
	if appointmentID == nil {
		response.Error(w, http.StatusBadRequest, "appointment_id is required", nil)
		return
	}

	breakdown, err := h.billingUsecase.CalculateFees(r.Context(), *appointmentID)
	if err != nil {
		writeError(w, err, "Failed to calculate fees")
		return
	}

	response.Success(w, http.StatusOK, "Fees calculated successfully", breakdown)
}

func (h *BillingHandler) CreateBill(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBillRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	bill, err := h.billingUsecase.CreateFromAppointment(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create bill")
		return
	}

	response.Success(w, http.StatusCreated, "Bill created successfully", bill)
}

func (h *BillingHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	billID, ok := pathUUID(w, r, "id", "bill ID")
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	payment, err := h.billingUsecase.RecordPayment(r.Context(), billID, &req)
	if err != nil {
		writeError(w, err, "Failed to record payment")
		return
	}

	response.Success(w, http.StatusOK, payment.Message, payment)
}

func (h *BillingHandler) CancelBill(w http.ResponseWriter, r *http.Request) {
	billID, ok := pathUUID(w, r, "id", "bill ID")
	if !ok {
		return
	}

	bill, err := h.billingUsecase.CancelBill(r.Context(), billID)
	if err != nil {
		writeError(w, err, "Failed to cancel bill")
		return
	}

	response.Success(w, http.StatusOK, "Bill cancelled successfully", bill)
}

func (h *BillingHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	billID, ok := pathUUID(w, r, "id", "bill ID")
	if !ok {
		return
	}

	bill, err := h.billingUsecase.GetBill(r.Context(), billID)
	if err != nil {
		writeError(w, err, "Failed to get bill")
		return
	}

	response.Success(w, http.StatusOK, "Bill retrieved successfully", bill)
}

func (h *BillingHandler) ListBills(w http.ResponseWriter, r *http.Request) {
	patientID, ok := queryUUID(w, r, "patient_id", "patient ID")
	if !ok {
		return
	}

	query := dto.BillListQuery{
		PatientID: patientID,
		Status:    r.URL.Query().Get("status"),
	}
	if err := h.validator.Validate(&query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	bills, err := h.billingUsecase.ListBills(r.Context(), query)
	if err != nil {
		writeError(w, err, "Failed to get bills")
		return
	}

	response.Success(w, http.StatusOK, "Bills retrieved successfully", bills)
}
