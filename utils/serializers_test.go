package utils

import (
	"testing"
	"time"

	"eschool_go/models"
	"eschool_go/services"
)

func TestToAwardDTOResolvesScholarshipName(t *testing.T) {
	award := models.StudentScholarship{
		StudentID:     7,
		ScholarshipID: 3,
		AwardDate:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		AmountAwarded: 1500,
		AcademicYear:  "2025-2026",
		Active:        true,
		Scholarship: models.Scholarship{
			Name:            "Merit Award",
			ScholarshipType: "merit",
		},
	}
	award.Scholarship.ID = 3

	dto := ToAwardDTO(award)

	if dto.ScholarshipName != "Merit Award" {
		t.Fatalf("expected scholarship name resolved from the catalog, got %q", dto.ScholarshipName)
	}
	if dto.ScholarshipType != "merit" {
		t.Fatalf("expected merit type, got %q", dto.ScholarshipType)
	}
	if dto.AwardDate != "2025-06-01" {
		t.Fatalf("expected formatted award date, got %q", dto.AwardDate)
	}
}

func TestToAwardDTORenamedCatalogEntry(t *testing.T) {
	// the stored award carries no name of its own; renames in the catalog
	// must show up on the next read
	award := models.StudentScholarship{
		ScholarshipID: 3,
		AwardDate:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Scholarship:   models.Scholarship{Name: "Merit Award (renamed)"},
	}

	if got := ToAwardDTO(award).ScholarshipName; got != "Merit Award (renamed)" {
		t.Fatalf("expected renamed scholarship, got %q", got)
	}
}

func TestToPaymentDTOOverdueDerivation(t *testing.T) {
	now := time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		status      string
		dueDate     time.Time
		wantOverdue bool
	}{
		{
			name:        "past due pending",
			status:      "pending",
			dueDate:     time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
			wantOverdue: true,
		},
		{
			name:        "paid is never overdue",
			status:      "paid",
			dueDate:     time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
			wantOverdue: false,
		},
		{
			name:        "future due date",
			status:      "pending",
			dueDate:     time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
			wantOverdue: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p := models.Payment{
				StudentID:   1,
				PaymentType: "tuition",
				Amount:      4000,
				TotalAmount: 4000,
				DueDate:     tc.dueDate,
				Status:      tc.status,
			}
			dto := ToPaymentDTO(p, now)
			if dto.IsOverdue != tc.wantOverdue {
				t.Fatalf("expected overdue=%v, got %v", tc.wantOverdue, dto.IsOverdue)
			}
			if tc.wantOverdue && dto.DaysOverdue <= 0 {
				t.Fatalf("expected positive days overdue, got %d", dto.DaysOverdue)
			}
		})
	}
}

func TestToPaymentDTOOverdueLocalDayBoundary(t *testing.T) {
	// Evening in a UTC-5 deployment: it is already the next day in UTC, but
	// the fee is due today in local time. The DTO flag must agree with
	// DeriveStatus, which compares against local midnight.
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2025, 9, 1, 22, 0, 0, 0, loc)
	due := time.Date(2025, 9, 1, 0, 0, 0, 0, loc)

	p := models.Payment{
		Amount:      4000,
		TotalAmount: 4000,
		DueDate:     due,
		Status:      services.DeriveStatus(4000, 0, due, now),
	}
	if p.Status != "pending" {
		t.Fatalf("fee due today should still be pending, got %q", p.Status)
	}

	dto := ToPaymentDTO(p, now)
	if dto.IsOverdue {
		t.Fatal("DTO flags a fee due today as overdue; day boundary disagrees with the stored status")
	}
}

func TestToPaymentDTOOutstanding(t *testing.T) {
	p := models.Payment{
		Amount:      5000,
		TotalAmount: 5000,
		AmountPaid:  1200,
		DueDate:     time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		Status:      "partial",
	}
	dto := ToPaymentDTO(p, time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC))
	if dto.Outstanding != 3800 {
		t.Fatalf("expected outstanding 3800, got %v", dto.Outstanding)
	}
}
