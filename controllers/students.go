package controllers

import (
	"strconv"

	"eschool_go/database"
	"eschool_go/middleware"
	"eschool_go/models"
	"eschool_go/utils"

	"github.com/gofiber/fiber/v2"
)

type StudentController struct{}

// GetStudents returns all students with pagination
func (sc *StudentController) GetStudents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	var students []models.Student
	var total int64

	query := database.DB.Model(&models.Student{})

	if gradeLevel := c.Query("grade_level"); gradeLevel != "" {
		query = query.Where("grade_level = ?", gradeLevel)
	}

	if year := c.Query("academic_year"); year != "" {
		query = query.Where("academic_year = ?", year)
	}

	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	query.Count(&total)

	if err := query.Preload("User").
		Offset(offset).Limit(limit).Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch students",
		})
	}

	return c.JSON(fiber.Map{
		"students": students,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetStudent returns a specific student by ID
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	viewed, code, msg := studentForViewer(c, uint(id))
	if code != 0 {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}

	var student models.Student
	if err := database.DB.Preload("User").Preload("Scholarships").
		First(&student, viewed.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	return c.JSON(fiber.Map{
		"student": student,
	})
}

// CreateStudent creates a new student profile
func (sc *StudentController) CreateStudent(c *fiber.Ctx) error {
	var student models.Student
	if err := c.BodyParser(&student); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if student.UserID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID is required",
		})
	}

	if student.StudentNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Student number is required",
		})
	}

	if student.AcademicYear != "" && !utils.IsValidAcademicYear(student.AcademicYear) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid academic year format",
		})
	}

	var user models.User
	if err := database.DB.Where("id = ? AND role = ?", student.UserID, "student").
		First(&user).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User not found or not a student",
		})
	}

	var existingStudent models.Student
	if err := database.DB.Where("user_id = ? OR student_number = ?", student.UserID, student.StudentNumber).
		First(&existingStudent).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Student profile already exists",
		})
	}

	if student.ParentUserID != nil {
		var parent models.User
		if err := database.DB.Where("id = ? AND role = ?", *student.ParentUserID, "parent").
			First(&parent).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Parent user not found or not a parent",
			})
		}
	}

	if err := database.DB.Create(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create student profile",
		})
	}

	database.DB.Preload("User").First(&student, student.ID)

	middleware.LogActivity(c, "CREATE", "students", student.ID, fiber.Map{
		"student_number": student.StudentNumber,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Student created successfully",
		"student": student,
	})
}

// UpdateStudent updates an existing student profile
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var updates models.Student
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if updates.AcademicYear != "" && !utils.IsValidAcademicYear(updates.AcademicYear) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid academic year format",
		})
	}

	// Identity fields stay immutable
	updates.ID = student.ID
	updates.UserID = student.UserID
	updates.StudentNumber = student.StudentNumber

	if err := database.DB.Model(&student).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update student",
		})
	}

	database.DB.Preload("User").First(&student, student.ID)

	middleware.LogActivity(c, "UPDATE", "students", student.ID, fiber.Map{
		"student_number": student.StudentNumber,
	})

	return c.JSON(fiber.Map{
		"message": "Student updated successfully",
		"student": student,
	})
}

// DeleteStudent removes a student profile unless financial records reference it
func (sc *StudentController) DeleteStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var paymentCount, awardCount int64
	database.DB.Model(&models.Payment{}).Where("student_id = ?", student.ID).Count(&paymentCount)
	database.DB.Model(&models.StudentScholarship{}).Where("student_id = ?", student.ID).Count(&awardCount)

	if paymentCount > 0 || awardCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":    "Cannot delete student with existing payments or scholarship awards",
			"payments": paymentCount,
			"awards":   awardCount,
		})
	}

	if err := database.DB.Delete(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete student",
		})
	}

	middleware.LogActivity(c, "DELETE", "students", student.ID, fiber.Map{
		"student_number": student.StudentNumber,
	})

	return c.JSON(fiber.Map{
		"message": "Student deleted successfully",
	})
}
