package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("insert bill: %w", &pgconn.PgError{Code: "23505", ConstraintName: ConstraintActiveBill})

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"matching constraint", wrapped, ConstraintActiveBill, true},
		{"any constraint", wrapped, "", true},
		{"other constraint", wrapped, ConstraintInvoiceNumber, false},
		{"foreign key code", &pgconn.PgError{Code: "23503", ConstraintName: ConstraintActiveBill}, ConstraintActiveBill, false},
		{"plain error", errors.New("boom"), "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err, tt.constraint); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23503", ConstraintName: ConstraintAllocationPatient}

	if !IsForeignKeyViolation(err, ConstraintAllocationPatient) {
		t.Error("expected foreign key violation to match")
	}
	if IsForeignKeyViolation(err, ConstraintBedWard) {
		t.Error("expected other constraint not to match")
	}
}
