package services

import (
	"testing"
	"time"

	"eschool_go/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDeriveStatus(t *testing.T) {
	now := date(2025, 6, 15)

	tests := []struct {
		name     string
		total    float64
		paid     float64
		dueDate  time.Time
		expected string
	}{
		{
			name:     "nothing paid before due date",
			total:    4000,
			paid:     0,
			dueDate:  date(2025, 6, 30),
			expected: "pending",
		},
		{
			name:     "fully paid",
			total:    4000,
			paid:     4000,
			dueDate:  date(2025, 6, 30),
			expected: "paid",
		},
		{
			name:     "fully paid stays paid after due date",
			total:    4000,
			paid:     4000,
			dueDate:  date(2025, 5, 30),
			expected: "paid",
		},
		{
			name:     "partly paid before due date",
			total:    4000,
			paid:     1000,
			dueDate:  date(2025, 6, 30),
			expected: "partial",
		},
		{
			name:     "nothing paid past due date",
			total:    4000,
			paid:     0,
			dueDate:  date(2025, 5, 30),
			expected: "overdue",
		},
		{
			name:     "partly paid past due date is overdue",
			total:    4000,
			paid:     1000,
			dueDate:  date(2025, 5, 30),
			expected: "overdue",
		},
		{
			name:     "due today is not yet overdue",
			total:    4000,
			paid:     0,
			dueDate:  date(2025, 6, 15),
			expected: "pending",
		},
		{
			name:     "two decimal payment completes the item",
			total:    99.99,
			paid:     99.99,
			dueDate:  date(2025, 6, 30),
			expected: "paid",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveStatus(tc.total, tc.paid, tc.dueDate, now)
			if got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestDeriveStatusIdempotent(t *testing.T) {
	now := date(2025, 6, 15)
	due := date(2025, 5, 30)
	first := DeriveStatus(4000, 1500, due, now)
	second := DeriveStatus(4000, 1500, due, now)
	if first != second {
		t.Fatalf("expected identical status on repeat, got %s then %s", first, second)
	}
}

func TestRecordPaymentRejectsNegativeAmount(t *testing.T) {
	ps := NewPaymentService(nil)
	_, err := ps.RecordPayment(1, -50, date(2025, 5, 20), "cash", "")
	if err == nil {
		t.Fatalf("expected error for negative amount")
	}
	if !IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func item(total, paid float64, due time.Time, status string) models.Payment {
	return models.Payment{
		Amount:      total,
		TotalAmount: total,
		AmountPaid:  paid,
		DueDate:     due,
		Status:      status,
	}
}

func TestSummarizeFullyPaid(t *testing.T) {
	items := []models.Payment{
		item(4000, 4000, date(2025, 5, 30), "paid"),
		item(1200, 1200, date(2025, 5, 30), "paid"),
	}

	s := Summarize(items, nil, nil)

	if s.TotalDue != 5200 {
		t.Errorf("total_due: expected 5200, got %v", s.TotalDue)
	}
	if s.TotalPaid != 5200 {
		t.Errorf("total_paid: expected 5200, got %v", s.TotalPaid)
	}
	if s.PaymentRate != 100 {
		t.Errorf("payment_rate: expected 100, got %v", s.PaymentRate)
	}
	if s.PendingPayments != 0 || s.OverduePayments != 0 {
		t.Errorf("expected no pending/overdue, got %d/%d", s.PendingPayments, s.OverduePayments)
	}
}

func TestSummarizeEmptyHasZeroRate(t *testing.T) {
	s := Summarize(nil, nil, nil)
	if s.PaymentRate != 0 {
		t.Fatalf("expected payment_rate 0 for empty schedule, got %v", s.PaymentRate)
	}
	if s.TotalDue != 0 || s.TotalPaid != 0 || s.TotalOverdue != 0 {
		t.Fatalf("expected zero totals, got %+v", s)
	}
}

func TestSummarizeMixedStatuses(t *testing.T) {
	items := []models.Payment{
		item(4000, 4000, date(2025, 4, 30), "paid"),
		item(4000, 1000, date(2025, 5, 30), "overdue"),
		item(1200, 0, date(2025, 7, 30), "pending"),
		item(800, 200, date(2025, 7, 30), "partial"),
	}

	s := Summarize(items, nil, nil)

	if s.TotalDue != 10000 {
		t.Errorf("total_due: expected 10000, got %v", s.TotalDue)
	}
	if s.TotalPaid != 5200 {
		t.Errorf("total_paid: expected 5200, got %v", s.TotalPaid)
	}
	if s.TotalOverdue != 3000 {
		t.Errorf("total_overdue: expected 3000, got %v", s.TotalOverdue)
	}
	if s.PendingPayments != 3 {
		t.Errorf("pending_payments: expected 3, got %d", s.PendingPayments)
	}
	if s.OverduePayments != 1 {
		t.Errorf("overdue_payments: expected 1, got %d", s.OverduePayments)
	}
	if s.PaymentRate != 52 {
		t.Errorf("payment_rate: expected 52, got %v", s.PaymentRate)
	}
}

func TestSummarizeDateRange(t *testing.T) {
	items := []models.Payment{
		item(4000, 4000, date(2025, 4, 30), "paid"),
		item(1200, 0, date(2025, 6, 30), "pending"),
		item(900, 0, date(2025, 8, 30), "pending"),
	}

	from := date(2025, 5, 1)
	to := date(2025, 7, 31)
	s := Summarize(items, &from, &to)

	if s.TotalDue != 1200 {
		t.Errorf("total_due: expected 1200 inside range, got %v", s.TotalDue)
	}
	if s.PendingPayments != 1 {
		t.Errorf("pending_payments: expected 1, got %d", s.PendingPayments)
	}
}

func TestSummarizeIdempotent(t *testing.T) {
	items := []models.Payment{
		item(4000, 1000, date(2025, 5, 30), "overdue"),
		item(1200, 1200, date(2025, 5, 30), "paid"),
	}

	first := Summarize(items, nil, nil)
	second := Summarize(items, nil, nil)
	if first != second {
		t.Fatalf("expected identical summaries, got %+v then %+v", first, second)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in       float64
		expected float64
	}{
		{10.456, 10.46},
		{10.454, 10.45},
		{0, 0},
		{-2.556, -2.56},
	}
	for _, tc := range tests {
		if got := Round2(tc.in); got != tc.expected {
			t.Errorf("Round2(%v): expected %v, got %v", tc.in, tc.expected, got)
		}
	}
}
