package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Constraint names declared in migrations/000001_init.up.sql
const (
	ConstraintActiveBedAllocation = "uq_bed_allocations_active_bed"
	ConstraintActiveBill          = "uq_bills_active_appointment"
	ConstraintInvoiceNumber       = "uq_bills_invoice_number"
	ConstraintPrescription        = "uq_prescriptions_appointment"
	ConstraintWardBedNumber       = "uq_beds_ward_bed_number"
	ConstraintAllocationPatient   = "fk_bed_allocations_patient"
	ConstraintAllocationBed       = "fk_bed_allocations_bed"
	ConstraintBedWard             = "fk_beds_ward"
)

// IsUniqueViolation reports whether err is a unique violation on constraint.
// An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	return isPgError(err, uniqueViolation, constraint)
}

// IsForeignKeyViolation reports whether err is a foreign key violation on constraint.
// An empty constraint matches any foreign key violation.
func IsForeignKeyViolation(err error, constraint string) bool {
	return isPgError(err, foreignKeyViolation, constraint)
}

func isPgError(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
