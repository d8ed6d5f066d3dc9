package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// User model
type User struct {
	BaseModel
	Username string `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password string `json:"-" gorm:"size:255;not null"`
	Email    string `json:"email" gorm:"size:255;uniqueIndex"`
	Phone    string `json:"phone" gorm:"size:20"`
	Role     string `json:"role" gorm:"size:50;not null;default:'student';type:enum('admin','accountant','teacher','parent','student')"` // admin, accountant, teacher, parent, student
	Status   string `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive','suspended')"`                  // active, inactive, suspended
	Avatar   string `json:"avatar" gorm:"size:500"`

	// Relationships
	Student *Student `json:"student,omitempty" gorm:"foreignKey:UserID"`
}

// Student model
type Student struct {
	BaseModel
	UserID        uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	StudentNumber string     `json:"student_number" gorm:"size:50;not null;uniqueIndex"`
	FirstName     string     `json:"first_name" gorm:"size:100"`
	LastName      string     `json:"last_name" gorm:"size:100"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	Gender        string     `json:"gender" gorm:"size:20"`
	Address       string     `json:"address" gorm:"size:500"`
	GradeLevel    string     `json:"grade_level" gorm:"size:50"`
	ParentName    string     `json:"parent_name" gorm:"size:200"`
	ParentPhone   string     `json:"parent_phone" gorm:"size:20"`
	ParentUserID  *uint      `json:"parent_user_id"`
	AcademicYear  string     `json:"academic_year" gorm:"size:20"`
	Active        bool       `json:"active" gorm:"default:true"`

	// Relationships
	User         User                 `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Scholarships []StudentScholarship `json:"scholarships,omitempty" gorm:"foreignKey:StudentID"`
	Payments     []Payment            `json:"payments,omitempty" gorm:"foreignKey:StudentID"`
}

// Scholarship catalog entry
type Scholarship struct {
	BaseModel
	Name            string  `json:"name" gorm:"size:200;not null"`
	ScholarshipType string  `json:"scholarship_type" gorm:"size:50;not null;type:enum('merit','need','sports','academic','cultural','special')"` // merit, need, sports, academic, cultural, special
	Description     string  `json:"description" gorm:"type:text;not null"`
	Amount          float64 `json:"amount" gorm:"not null;type:decimal(10,2)"`
	Criteria        string  `json:"criteria" gorm:"type:text;not null"`
	Active          bool    `json:"is_active" gorm:"default:true"`

	// Relationships
	Awards []StudentScholarship `json:"awards,omitempty" gorm:"foreignKey:ScholarshipID"`
}

// StudentScholarship records a scholarship awarded to one student for one academic year
type StudentScholarship struct {
	BaseModel
	StudentID     uint      `json:"student_id" gorm:"not null;index"`
	ScholarshipID uint      `json:"scholarship_id" gorm:"not null;index"`
	AwardDate     time.Time `json:"award_date" gorm:"not null;type:date"`
	AmountAwarded float64   `json:"amount_awarded" gorm:"not null;type:decimal(10,2)"`
	AcademicYear  string    `json:"academic_year" gorm:"size:20;not null"`
	Active        bool      `json:"is_active" gorm:"default:true"`

	// Relationships
	Student     Student     `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Scholarship Scholarship `json:"scholarship,omitempty" gorm:"foreignKey:ScholarshipID"`
}

// Payment is one recurring charge owed by a student (tuition, transport, ...)
type Payment struct {
	BaseModel
	StudentID     uint       `json:"student_id" gorm:"not null;index"`
	PaymentType   string     `json:"payment_type" gorm:"size:50;not null;type:enum('tuition','transport','activities','other')"` // tuition, transport, activities, other
	Amount        float64    `json:"amount" gorm:"not null;type:decimal(10,2)"`
	LateFee       float64    `json:"late_fee" gorm:"type:decimal(10,2);default:0"`
	Discount      float64    `json:"discount" gorm:"type:decimal(10,2);default:0"`
	TotalAmount   float64    `json:"total_amount" gorm:"type:decimal(10,2)"`
	AmountPaid    float64    `json:"amount_paid" gorm:"type:decimal(10,2);default:0"`
	DueDate       time.Time  `json:"due_date" gorm:"not null;index;type:date"`
	PaymentDate   *time.Time `json:"payment_date" gorm:"type:date"`
	Status        string     `json:"status" gorm:"size:50;not null;default:'pending';index;type:enum('pending','paid','partial','overdue')"` // pending, paid, partial, overdue
	PaymentMethod string     `json:"payment_method" gorm:"size:50"`
	TransactionID string     `json:"transaction_id" gorm:"size:100;index"`
	RowUID        string     `json:"-" gorm:"size:500"`
	AcademicYear  string     `json:"academic_year" gorm:"size:20"`
	Description   string     `json:"description" gorm:"type:text"`

	// Relationships
	Student Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// BeforeSave keeps the charged total consistent with its components.
func (p *Payment) BeforeSave(tx *gorm.DB) error {
	p.TotalAmount = p.Amount + p.LateFee - p.Discount
	return nil
}

// Outstanding returns the amount still owed on this charge.
func (p *Payment) Outstanding() float64 {
	rem := p.TotalAmount - p.AmountPaid
	if rem < 0 {
		return 0
	}
	return rem
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Notification model
type Notification struct {
	BaseModel
	UserID  uint       `json:"user_id" gorm:"not null"`
	Title   string     `json:"title" gorm:"size:255;not null"`
	Message string     `json:"message" gorm:"type:text;not null"`
	Type    string     `json:"type" gorm:"size:50;not null;type:enum('info','warning','error','success')"` // info, warning, error, success
	Read    bool       `json:"read" gorm:"default:false"`
	ReadAt  *time.Time `json:"read_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// ReportArchive tracks finance/activity exports shipped to S3
type ReportArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','failed')"` // pending, completed, failed
	Error       string    `json:"error" gorm:"type:text"`
}
