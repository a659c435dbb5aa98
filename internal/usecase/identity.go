package usecase

import (
	"context"
	"errors"

	"hospital-management-api/internal/delivery/http/middleware"
	"hospital-management-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrUnauthenticated = errors.New("user not found in context")

// caller is the authenticated user a request acts for
type caller struct {
	userID uuid.UUID
	roleID int
}

func callerFromContext(ctx context.Context) (caller, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return caller{}, ErrUnauthenticated
	}
	roleID, ok := middleware.GetRoleIDFromContext(ctx)
	if !ok {
		return caller{}, ErrUnauthenticated
	}
	return caller{userID: userID, roleID: roleID}, nil
}

func (c caller) isBackOffice() bool {
	return entity.IsBackOffice(c.roleID)
}

func (c caller) isAdmin() bool {
	return c.roleID == entity.RoleIDAdmin
}

func (c caller) isPatient() bool {
	return c.roleID == entity.RoleIDPatient
}

// canSeeBillsOf reports whether the caller may read bills of patientID
func (c caller) canSeeBillsOf(patientID uuid.UUID) bool {
	return c.isBackOffice() || (c.isPatient() && patientID == c.userID)
}

func (c caller) isDoctor() bool {
	return c.roleID == entity.RoleIDDoctor
}

// rupees formats an amount the way notification messages show money
func rupees(amount decimal.Decimal) string {
	return "₹" + amount.StringFixed(2)
}
