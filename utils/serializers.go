package utils

import (
	"time"

	"eschool_go/models"
	"eschool_go/services"
)

// Compact representations used across APIs

type AwardDTO struct {
	ID              uint      `json:"id"`
	StudentID       uint      `json:"student_id"`
	StudentName     string    `json:"student_name,omitempty"`
	StudentNumber   string    `json:"student_number,omitempty"`
	ScholarshipID   uint      `json:"scholarship_id"`
	ScholarshipName string    `json:"scholarship_name"`
	ScholarshipType string    `json:"scholarship_type,omitempty"`
	AwardDate       string    `json:"award_date"`
	AmountAwarded   float64   `json:"amount_awarded"`
	AcademicYear    string    `json:"academic_year"`
	Active          bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToAwardDTO maps a StudentScholarship to its API shape. The scholarship and
// student names are resolved at read time; caller must have preloaded both.
func ToAwardDTO(a models.StudentScholarship) AwardDTO {
	dto := AwardDTO{
		ID:              a.ID,
		StudentID:       a.StudentID,
		ScholarshipID:   a.ScholarshipID,
		ScholarshipName: a.Scholarship.Name,
		ScholarshipType: a.Scholarship.ScholarshipType,
		AwardDate:       a.AwardDate.Format("2006-01-02"),
		AmountAwarded:   a.AmountAwarded,
		AcademicYear:    a.AcademicYear,
		Active:          a.Active,
		CreatedAt:       a.CreatedAt,
	}
	if a.Student.ID != 0 {
		dto.StudentName = a.Student.FirstName + " " + a.Student.LastName
		dto.StudentNumber = a.Student.StudentNumber
	}
	return dto
}

// ToAwardDTOs maps a slice of awards
func ToAwardDTOs(awards []models.StudentScholarship) []AwardDTO {
	out := make([]AwardDTO, 0, len(awards))
	for _, a := range awards {
		out = append(out, ToAwardDTO(a))
	}
	return out
}

type PaymentDTO struct {
	ID            uint       `json:"id"`
	StudentID     uint       `json:"student_id"`
	PaymentType   string     `json:"payment_type"`
	Amount        float64    `json:"amount"`
	LateFee       float64    `json:"late_fee"`
	Discount      float64    `json:"discount"`
	TotalAmount   float64    `json:"total_amount"`
	AmountPaid    float64    `json:"amount_paid"`
	Outstanding   float64    `json:"outstanding"`
	DueDate       string     `json:"due_date"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
	AcademicYear  string     `json:"academic_year,omitempty"`
	Description   string     `json:"description,omitempty"`
	IsOverdue     bool       `json:"is_overdue"`
	DaysOverdue   int        `json:"days_overdue"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToPaymentDTO maps a Payment to its API shape. Overdue fields are derived
// against the supplied clock so handlers and tests agree on "today".
func ToPaymentDTO(p models.Payment, now time.Time) PaymentDTO {
	overdue := p.Status != "paid" && p.DueDate.Before(services.StartOfDay(now))
	days := 0
	if overdue {
		days = int(now.Sub(p.DueDate).Hours() / 24)
	}
	return PaymentDTO{
		ID:            p.ID,
		StudentID:     p.StudentID,
		PaymentType:   p.PaymentType,
		Amount:        p.Amount,
		LateFee:       p.LateFee,
		Discount:      p.Discount,
		TotalAmount:   p.TotalAmount,
		AmountPaid:    p.AmountPaid,
		Outstanding:   p.Outstanding(),
		DueDate:       p.DueDate.Format("2006-01-02"),
		PaymentDate:   p.PaymentDate,
		Status:        p.Status,
		PaymentMethod: p.PaymentMethod,
		TransactionID: p.TransactionID,
		AcademicYear:  p.AcademicYear,
		Description:   p.Description,
		IsOverdue:     overdue,
		DaysOverdue:   days,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToPaymentDTOs maps a slice of payments
func ToPaymentDTOs(payments []models.Payment, now time.Time) []PaymentDTO {
	out := make([]PaymentDTO, 0, len(payments))
	for _, p := range payments {
		out = append(out, ToPaymentDTO(p, now))
	}
	return out
}
