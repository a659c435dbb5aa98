package validator

import "testing"

type sample struct {
	Name   string `validate:"required"`
	Status string `validate:"omitempty,oneof=PENDING PAID"`
	Days   int    `validate:"gt=0"`
}

func TestFormatValidationErrors(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sample{Status: "LOST"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	got := v.FormatValidationErrors(err)
	want := map[string]string{
		"Name":   "Name is required",
		"Status": "Status must be one of PENDING, PAID",
		"Days":   "Days must be greater than 0",
	}
	for field, message := range want {
		if got[field] != message {
			t.Errorf("%s = %q, want %q", field, got[field], message)
		}
	}

	if err := v.Validate(&sample{Name: "x", Days: 1}); err != nil {
		t.Errorf("valid struct rejected: %v", err)
	}
}
