package controllers

import (
	"strconv"
	"time"

	"eschool_go/database"
	"eschool_go/middleware"
	"eschool_go/models"
	"eschool_go/services"
	"eschool_go/services/notifications"
	"eschool_go/storage"
	"eschool_go/utils"

	"github.com/gofiber/fiber/v2"
)

type PaymentController struct{}

// PaymentRequest represents the create request body for a fee item
type PaymentRequest struct {
	StudentID    uint    `json:"student_id" validate:"required"`
	PaymentType  string  `json:"payment_type" validate:"required"`
	Amount       float64 `json:"amount" validate:"gte=0"`
	LateFee      float64 `json:"late_fee" validate:"gte=0"`
	Discount     float64 `json:"discount" validate:"gte=0"`
	DueDate      string  `json:"due_date" validate:"required"`
	AcademicYear string  `json:"academic_year"`
	Description  string  `json:"description"`
}

// RecordPaymentRequest represents the body of a pay request
type RecordPaymentRequest struct {
	Amount        float64 `json:"amount" validate:"required"`
	PaymentDate   string  `json:"payment_date"`
	PaymentMethod string  `json:"payment_method"`
	TransactionID string  `json:"transaction_id"`
}

// viewerAllowed reports whether user may read student's records. Staff roles
// pass; students and parents only see their own.
func viewerAllowed(user *models.User, student *models.Student) bool {
	switch user.Role {
	case "student":
		return student.UserID == user.ID
	case "parent":
		return student.ParentUserID != nil && *student.ParentUserID == user.ID
	}
	return true
}

// studentForViewer loads the requested student and enforces that students and
// parents only read their own records.
func studentForViewer(c *fiber.Ctx, studentID uint) (*models.Student, int, string) {
	var student models.Student
	if err := database.DB.First(&student, studentID).Error; err != nil {
		return nil, fiber.StatusNotFound, "Student not found"
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return nil, fiber.StatusUnauthorized, "User not found"
	}

	if !viewerAllowed(user, &student) {
		return nil, fiber.StatusForbidden, "Access denied"
	}

	return &student, 0, ""
}

// CreatePayment creates a new fee item for a student
func (pc *PaymentController) CreatePayment(c *fiber.Ctx) error {
	var req PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if !utils.IsValidPaymentType(req.PaymentType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment type",
		})
	}

	if req.AcademicYear != "" && !utils.IsValidAcademicYear(req.AcademicYear) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid academic year format",
		})
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid due date, expected YYYY-MM-DD",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, req.StudentID).Error; err != nil {
		return respondServiceError(c, services.ErrNotFound, "Student not found")
	}

	payment := models.Payment{
		StudentID:    req.StudentID,
		PaymentType:  req.PaymentType,
		Amount:       req.Amount,
		LateFee:      req.LateFee,
		Discount:     req.Discount,
		DueDate:      dueDate,
		AcademicYear: req.AcademicYear,
		Description:  req.Description,
	}
	payment.Status = services.DeriveStatus(req.Amount+req.LateFee-req.Discount, 0, dueDate, time.Now())

	if err := database.DB.Create(&payment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create payment",
		})
	}

	middleware.LogActivity(c, "CREATE", "payments", payment.ID, fiber.Map{
		"student_id":   payment.StudentID,
		"payment_type": payment.PaymentType,
		"total_amount": payment.TotalAmount,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Payment created successfully",
		"payment": utils.ToPaymentDTO(payment, time.Now()),
	})
}

// GetPayments returns fee items with pagination and filters
func (pc *PaymentController) GetPayments(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var payments []models.Payment
	var total int64

	query := database.DB.Model(&models.Payment{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if pt := c.Query("payment_type"); pt != "" {
		query = query.Where("payment_type = ?", pt)
	}

	if year := c.Query("academic_year"); year != "" {
		query = query.Where("academic_year = ?", year)
	}

	query.Count(&total)

	if err := query.Preload("Student").
		Order("due_date DESC").Offset(offset).Limit(limit).Find(&payments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch payments",
		})
	}

	return c.JSON(fiber.Map{
		"payments": utils.ToPaymentDTOs(payments, time.Now()),
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetPayment returns a specific fee item by ID
func (pc *PaymentController) GetPayment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment ID",
		})
	}

	var payment models.Payment
	if err := database.DB.Preload("Student").First(&payment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment not found",
		})
	}

	if _, code, msg := studentForViewer(c, payment.StudentID); code != 0 {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}

	return c.JSON(fiber.Map{
		"payment": utils.ToPaymentDTO(payment, time.Now()),
	})
}

// dueDateWindow resolves the optional year and month query filters into a
// half-open [start, end) range over due dates. A month on its own is an error
// rather than a silently ignored filter.
func dueDateWindow(yearStr, monthStr string) (start, end time.Time, windowed bool, err error) {
	if yearStr == "" {
		if monthStr != "" {
			return time.Time{}, time.Time{}, false, services.NewValidationError("month", "requires year")
		}
		return time.Time{}, time.Time{}, false, nil
	}

	year, convErr := strconv.Atoi(yearStr)
	if convErr != nil {
		return time.Time{}, time.Time{}, false, services.NewValidationError("year", "invalid year")
	}

	if monthStr == "" {
		start = time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0), true, nil
	}

	month, convErr := strconv.Atoi(monthStr)
	if convErr != nil || month < 1 || month > 12 {
		return time.Time{}, time.Time{}, false, services.NewValidationError("month", "invalid month")
	}
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0), true, nil
}

// GetStudentPayments returns one student's fee items, optionally narrowed to
// a year and month of the due date.
func (pc *PaymentController) GetStudentPayments(c *fiber.Ctx) error {
	studentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	student, code, msg := studentForViewer(c, uint(studentID))
	if code != 0 {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}

	query := database.DB.Where("student_id = ?", student.ID)

	start, end, windowed, err := dueDateWindow(c.Query("year"), c.Query("month"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if windowed {
		query = query.Where("due_date >= ? AND due_date < ?", start, end)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var payments []models.Payment
	if err := query.Order("due_date ASC").Find(&payments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch payments",
		})
	}

	return c.JSON(fiber.Map{
		"student_id": student.ID,
		"payments":   utils.ToPaymentDTOs(payments, time.Now()),
	})
}

// GetStudentPaymentSummary aggregates one student's fee items into totals
func (pc *PaymentController) GetStudentPaymentSummary(c *fiber.Ctx) error {
	studentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	student, code, msg := studentForViewer(c, uint(studentID))
	if code != 0 {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}

	var from, to *time.Time
	if fromStr := c.Query("from"); fromStr != "" {
		t, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid from date, expected YYYY-MM-DD",
			})
		}
		from = &t
	}
	if toStr := c.Query("to"); toStr != "" {
		t, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid to date, expected YYYY-MM-DD",
			})
		}
		to = &t
	}

	var payments []models.Payment
	if err := database.DB.Where("student_id = ?", student.ID).Find(&payments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch payments",
		})
	}

	summary := services.Summarize(payments, from, to)

	return c.JSON(fiber.Map{
		"student_id": student.ID,
		"summary":    summary,
	})
}

// RecordPayment applies money received against a fee item
func (pc *PaymentController) RecordPayment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment ID",
		})
	}

	var req RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	paymentDate := time.Now()
	if req.PaymentDate != "" {
		paymentDate, err = time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid payment date, expected YYYY-MM-DD",
			})
		}
	}

	svc := services.NewPaymentService(database.DB)
	payment, err := svc.RecordPayment(uint(id), req.Amount, paymentDate, req.PaymentMethod, req.TransactionID)
	if err != nil {
		status := statusForServiceError(err)
		msg := err.Error()
		switch status {
		case fiber.StatusNotFound:
			msg = "Payment not found"
		case fiber.StatusInternalServerError:
			msg = "Failed to record payment"
		}
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	middleware.LogActivity(c, "UPDATE", "payments", payment.ID, fiber.Map{
		"amount_received": req.Amount,
		"amount_paid":     payment.AmountPaid,
		"status":          payment.Status,
	})

	if payment.Status == "paid" {
		var student models.Student
		if err := database.DB.First(&student, payment.StudentID).Error; err == nil {
			userIDs := []uint{student.UserID}
			if student.ParentUserID != nil {
				userIDs = append(userIDs, *student.ParentUserID)
			}
			notifySvc := notifications.NewService()
			notifySvc.EnqueueOrCreate(userIDs, notifications.QueuedWithData(
				"Payment completed",
				"Your "+payment.PaymentType+" fee has been fully paid.",
				"success",
				map[string]interface{}{
					"payment_id":   payment.ID,
					"total_amount": payment.TotalAmount,
				},
			))
		}
	}

	return c.JSON(fiber.Map{
		"message": "Payment recorded successfully",
		"payment": utils.ToPaymentDTO(*payment, time.Now()),
	})
}

// UploadReceipt attaches a receipt file to a fee item
func (pc *PaymentController) UploadReceipt(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment ID",
		})
	}

	var payment models.Payment
	if err := database.DB.First(&payment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment not found",
		})
	}

	file, err := c.FormFile("receipt")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	storageService, err := storage.NewStorageService()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Storage service initialization failed",
		})
	}

	receiptURL, err := storageService.UploadReceipt(file, payment.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload receipt",
		})
	}

	middleware.LogActivity(c, "UPDATE", "payments", payment.ID, fiber.Map{
		"action":  "receipt_upload",
		"receipt": receiptURL,
	})

	return c.JSON(fiber.Map{
		"message": "Receipt uploaded successfully",
		"receipt": receiptURL,
	})
}

// DeletePayment removes a fee item that has no money applied to it
func (pc *PaymentController) DeletePayment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment ID",
		})
	}

	var payment models.Payment
	if err := database.DB.First(&payment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment not found",
		})
	}

	if payment.AmountPaid > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cannot delete a payment that has recorded amounts",
		})
	}

	if err := database.DB.Delete(&payment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete payment",
		})
	}

	middleware.LogActivity(c, "DELETE", "payments", payment.ID, fiber.Map{
		"student_id": payment.StudentID,
	})

	return c.JSON(fiber.Map{
		"message": "Payment deleted successfully",
	})
}
