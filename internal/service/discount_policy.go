package service

import (
	"time"

	"hospital-management-api/internal/domain/entity"

	"github.com/google/uuid"
)

const (
	// RepeatCaseWindowDays is the trailing window, in calendar days, in which
	// a prior billed visit makes the current visit an OLD case
	RepeatCaseWindowDays = 90

	// RepeatCaseDiscountPercentage is granted to OLD cases
	RepeatCaseDiscountPercentage = 25
)

// DiscountPolicy decides the billing case type of a visit
type DiscountPolicy interface {
	IsRepeatCase(patientID uuid.UUID, appointmentDate time.Time, priorBills []entity.BilledVisit) bool
	CaseType(patientID uuid.UUID, appointmentDate time.Time, priorBills []entity.BilledVisit) entity.CaseType
	DiscountPercentage(caseType entity.CaseType) int
}

type discountPolicy struct{}

func NewDiscountPolicy() DiscountPolicy {
	return &discountPolicy{}
}

// IsRepeatCase reports whether priorBills holds a visit of the same patient
// dated within [appointmentDate - 90 days, appointmentDate). Dates are
// compared as calendar days. Missing data means NEW.
func (p *discountPolicy) IsRepeatCase(patientID uuid.UUID, appointmentDate time.Time, priorBills []entity.BilledVisit) bool {
	current := calendarDay(appointmentDate)
	windowStart := current.AddDate(0, 0, -RepeatCaseWindowDays)

	for _, visit := range priorBills {
		if visit.PatientID != patientID {
			continue
		}
		prior := calendarDay(visit.AppointmentDate)
		if !prior.Before(windowStart) && prior.Before(current) {
			return true
		}
	}
	return false
}

func (p *discountPolicy) CaseType(patientID uuid.UUID, appointmentDate time.Time, priorBills []entity.BilledVisit) entity.CaseType {
	if p.IsRepeatCase(patientID, appointmentDate, priorBills) {
		return entity.CaseTypeOld
	}
	return entity.CaseTypeNew
}

func (p *discountPolicy) DiscountPercentage(caseType entity.CaseType) int {
	if caseType == entity.CaseTypeOld {
		return RepeatCaseDiscountPercentage
	}
	return 0
}

// calendarDay drops the clock part, keeping the date as seen in t's location
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
