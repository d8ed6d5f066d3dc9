package services

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eschool_go/models"
)

// amountEpsilon absorbs float drift when comparing currency values that are
// only meaningful to two decimal places.
const amountEpsilon = 0.005

// PaymentSummary is the computed-on-demand view over a student's fee items.
// It is never persisted.
type PaymentSummary struct {
	TotalDue        float64 `json:"total_due"`
	TotalPaid       float64 `json:"total_paid"`
	TotalOverdue    float64 `json:"total_overdue"`
	PendingPayments int     `json:"pending_payments"`
	OverduePayments int     `json:"overdue_payments"`
	PaymentRate     float64 `json:"payment_rate"`
}

// PaymentService carries the fee schedule domain logic. Status derivation and
// summary reduction are pure; RecordPayment serializes concurrent writers at
// the row level.
type PaymentService struct {
	db *gorm.DB
}

// NewPaymentService creates a PaymentService bound to the given DB handle
func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

// DeriveStatus computes a fee item status from its amounts and due date.
// Idempotent: same inputs always produce the same status. A fully paid item is
// "paid" no matter the due date; an unpaid item past its due date is
// "overdue"; a partly paid item still inside its window is "partial".
func DeriveStatus(totalAmount, amountPaid float64, dueDate, now time.Time) string {
	if amountPaid+amountEpsilon >= totalAmount {
		return "paid"
	}
	if dueDate.Before(StartOfDay(now)) {
		return "overdue"
	}
	if amountPaid > amountEpsilon {
		return "partial"
	}
	return "pending"
}

// StartOfDay is the day boundary used everywhere a due date is compared
// against "today". Local midnight of t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RecordPayment applies a payment of amount against the fee item. The row is
// locked for the duration of the transaction so two concurrent payments on the
// same item cannot push amount_paid past total_amount.
func (ps *PaymentService) RecordPayment(id uint, amount float64, paymentDate time.Time, method, transactionID string) (*models.Payment, error) {
	if amount < 0 {
		return nil, NewValidationError("amount", "payment amount must not be negative")
	}

	var payment models.Payment
	err := ps.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&payment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if Round2(payment.AmountPaid+amount) > Round2(payment.TotalAmount)+amountEpsilon {
			return NewValidationError("amount", "payment would exceed total amount due")
		}

		payment.AmountPaid = Round2(payment.AmountPaid + amount)
		payment.PaymentDate = &paymentDate
		if method != "" {
			payment.PaymentMethod = method
		}
		if transactionID != "" {
			payment.TransactionID = transactionID
		}
		payment.Status = DeriveStatus(payment.TotalAmount, payment.AmountPaid, payment.DueDate, time.Now())

		return tx.Save(&payment).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Summarize reduces fee items to the aggregate view. Pure function of its
// inputs: no side effects, safe to call repeatedly and concurrently. Items
// whose due date falls outside [from, to] are skipped when bounds are given.
func Summarize(items []models.Payment, from, to *time.Time) PaymentSummary {
	var s PaymentSummary
	for _, p := range items {
		if from != nil && p.DueDate.Before(*from) {
			continue
		}
		if to != nil && p.DueDate.After(*to) {
			continue
		}
		s.TotalDue += p.TotalAmount
		s.TotalPaid += p.AmountPaid
		if p.Status != "paid" {
			s.PendingPayments++
		}
		if p.Status == "overdue" {
			s.TotalOverdue += p.Outstanding()
			s.OverduePayments++
		}
	}
	s.TotalDue = Round2(s.TotalDue)
	s.TotalPaid = Round2(s.TotalPaid)
	s.TotalOverdue = Round2(s.TotalOverdue)
	if s.TotalDue > 0 {
		s.PaymentRate = Round2(s.TotalPaid / s.TotalDue * 100)
	}
	return s
}

// Round2 rounds a currency amount to minor units
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
