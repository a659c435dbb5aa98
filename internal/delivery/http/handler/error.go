package handler

import (
	"errors"
	"net/http"

	"hospital-management-api/internal/usecase"
	"hospital-management-api/pkg/apperror"
	"hospital-management-api/pkg/response"
)

var kindStatus = map[apperror.Kind]int{
	apperror.KindValidation:   http.StatusBadRequest,
	apperror.KindConflict:     http.StatusConflict,
	apperror.KindNotFound:     http.StatusNotFound,
	apperror.KindInvalidState: http.StatusUnprocessableEntity,
	apperror.KindForbidden:    http.StatusForbidden,
}

// writeError translates a usecase error into the response envelope.
// Unclassified errors are reported as fallback without leaking their text.
func writeError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, usecase.ErrUnauthenticated) {
		response.Unauthorized(w, "")
		return
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		if status, ok := kindStatus[appErr.Kind]; ok {
			response.Error(w, status, appErr.Message, nil)
			return
		}
	}

	response.InternalServerError(w, fallback)
}
