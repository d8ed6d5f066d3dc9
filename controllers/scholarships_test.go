package controllers

import (
	"testing"

	"eschool_go/models"
	"eschool_go/services"
)

func sampleScholarship() models.Scholarship {
	return models.Scholarship{
		Name:            "Merit Award",
		ScholarshipType: "merit",
		Description:     "Top performers",
		Amount:          10000,
		Criteria:        "Top 5% of class",
		Active:          true,
	}
}

func TestApplyScholarshipUpdatePartial(t *testing.T) {
	s := sampleScholarship()
	amount := 500.0

	if err := applyScholarshipUpdate(&s, ScholarshipUpdateRequest{Amount: &amount}); err != nil {
		t.Fatalf("amount-only update rejected: %v", err)
	}

	if s.Amount != 500 {
		t.Errorf("Amount = %v, want 500", s.Amount)
	}
	if s.Name != "Merit Award" || s.Criteria != "Top 5% of class" || s.ScholarshipType != "merit" {
		t.Errorf("untouched fields changed: %+v", s)
	}
}

func TestApplyScholarshipUpdateEmptyBody(t *testing.T) {
	s := sampleScholarship()

	if err := applyScholarshipUpdate(&s, ScholarshipUpdateRequest{}); err != nil {
		t.Fatalf("empty update rejected: %v", err)
	}
	want := sampleScholarship()
	if s.Name != want.Name || s.ScholarshipType != want.ScholarshipType ||
		s.Description != want.Description || s.Amount != want.Amount ||
		s.Criteria != want.Criteria || s.Active != want.Active {
		t.Errorf("empty update changed fields: %+v", s)
	}
}

func TestApplyScholarshipUpdateRejections(t *testing.T) {
	badType := "imaginary"
	emptyName := ""
	negative := -1.0

	tests := []struct {
		name string
		req  ScholarshipUpdateRequest
	}{
		{"invalid type", ScholarshipUpdateRequest{ScholarshipType: &badType}},
		{"empty name", ScholarshipUpdateRequest{Name: &emptyName}},
		{"negative amount", ScholarshipUpdateRequest{Amount: &negative}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleScholarship()
			err := applyScholarshipUpdate(&s, tt.req)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !services.IsValidationError(err) {
				t.Errorf("expected ValidationError, got %T: %v", err, err)
			}
		})
	}
}
