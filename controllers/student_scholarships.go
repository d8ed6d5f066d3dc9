package controllers

import (
	"strconv"
	"time"

	"eschool_go/database"
	"eschool_go/middleware"
	"eschool_go/models"
	"eschool_go/services"
	"eschool_go/services/notifications"
	"eschool_go/utils"

	"github.com/gofiber/fiber/v2"
)

type StudentScholarshipController struct{}

// AwardRequest represents the create/update request body for an award.
// AmountAwarded is a pointer so an explicit zero award is distinct from an
// omitted amount, which falls back to the catalog amount.
type AwardRequest struct {
	StudentID     uint     `json:"student_id" validate:"required"`
	ScholarshipID uint     `json:"scholarship_id" validate:"required"`
	AwardDate     string   `json:"award_date" validate:"required"`
	AmountAwarded *float64 `json:"amount_awarded" validate:"omitempty,gte=0"`
	AcademicYear  string   `json:"academic_year" validate:"required"`
	Active        *bool    `json:"is_active"`
}

// awardAmount resolves the amount to grant: the requested amount when the
// caller sent one, the catalog amount otherwise.
func awardAmount(requested *float64, catalogAmount float64) float64 {
	if requested == nil {
		return catalogAmount
	}
	return *requested
}

// GetAwards returns all awards with pagination
func (ssc *StudentScholarshipController) GetAwards(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var awards []models.StudentScholarship
	var total int64

	query := database.DB.Model(&models.StudentScholarship{})

	if year := c.Query("academic_year"); year != "" {
		query = query.Where("academic_year = ?", year)
	}

	if sid := c.Query("scholarship_id"); sid != "" {
		query = query.Where("scholarship_id = ?", sid)
	}

	query.Count(&total)

	if err := query.Preload("Scholarship").Preload("Student").
		Order("award_date DESC").Offset(offset).Limit(limit).Find(&awards).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch awards",
		})
	}

	return c.JSON(fiber.Map{
		"awards": utils.ToAwardDTOs(awards),
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetStudentAwards returns the awards of one student, enriched with the
// scholarship name, optionally filtered by academic year.
func (ssc *StudentScholarshipController) GetStudentAwards(c *fiber.Ctx) error {
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

	query := database.DB.Preload("Scholarship").
		Where("student_id = ?", student.ID)

	if year := c.Query("academic_year"); year != "" {
		query = query.Where("academic_year = ?", year)
	}

	var awards []models.StudentScholarship
	if err := query.Order("award_date DESC").Find(&awards).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch awards",
		})
	}

	var totalAwarded float64
	for _, a := range awards {
		if a.Active {
			totalAwarded += a.AmountAwarded
		}
	}

	return c.JSON(fiber.Map{
		"student_id":    student.ID,
		"awards":        utils.ToAwardDTOs(awards),
		"total_awarded": totalAwarded,
	})
}

// CreateAward grants a scholarship to a student
func (ssc *StudentScholarshipController) CreateAward(c *fiber.Ctx) error {
	var req AwardRequest
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

	if !utils.IsValidAcademicYear(req.AcademicYear) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid academic year format",
		})
	}

	awardDate, err := time.Parse("2006-01-02", req.AwardDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid award date, expected YYYY-MM-DD",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, req.StudentID).Error; err != nil {
		return respondServiceError(c, services.ErrNotFound, "Student not found")
	}

	var scholarship models.Scholarship
	if err := database.DB.First(&scholarship, req.ScholarshipID).Error; err != nil {
		return respondServiceError(c, services.ErrNotFound, "Scholarship not found")
	}

	if !scholarship.Active {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Scholarship is not active",
		})
	}

	var existing models.StudentScholarship
	if err := database.DB.Where("student_id = ? AND scholarship_id = ? AND academic_year = ?",
		req.StudentID, req.ScholarshipID, req.AcademicYear).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Student already holds this scholarship for the academic year",
		})
	}

	award := models.StudentScholarship{
		StudentID:     req.StudentID,
		ScholarshipID: req.ScholarshipID,
		AwardDate:     awardDate,
		AmountAwarded: awardAmount(req.AmountAwarded, scholarship.Amount),
		AcademicYear:  req.AcademicYear,
		Active:        true,
	}
	if req.Active != nil {
		award.Active = *req.Active
	}

	if err := database.DB.Create(&award).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create award",
		})
	}

	database.DB.Preload("Scholarship").Preload("Student").First(&award, award.ID)

	middleware.LogActivity(c, "CREATE", "student_scholarships", award.ID, fiber.Map{
		"student_id":     award.StudentID,
		"scholarship_id": award.ScholarshipID,
		"amount_awarded": award.AmountAwarded,
	})

	notifySvc := notifications.NewService()
	userIDs := []uint{student.UserID}
	if student.ParentUserID != nil {
		userIDs = append(userIDs, *student.ParentUserID)
	}
	notifySvc.EnqueueOrCreate(userIDs, notifications.QueuedWithData(
		"Scholarship awarded",
		"You have been awarded the "+scholarship.Name+" scholarship.",
		"success",
		map[string]interface{}{
			"award_id":       award.ID,
			"scholarship_id": scholarship.ID,
			"amount_awarded": award.AmountAwarded,
		},
	))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Award created successfully",
		"award":   utils.ToAwardDTO(award),
	})
}

// UpdateAward changes the amount, dates or active flag of an award
func (ssc *StudentScholarshipController) UpdateAward(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid award ID",
		})
	}

	var award models.StudentScholarship
	if err := database.DB.First(&award, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Award not found",
		})
	}

	var req struct {
		AwardDate     string   `json:"award_date"`
		AmountAwarded *float64 `json:"amount_awarded" validate:"omitempty,gte=0"`
		AcademicYear  string   `json:"academic_year"`
		Active        *bool    `json:"is_active"`
	}
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

	if req.AwardDate != "" {
		awardDate, err := time.Parse("2006-01-02", req.AwardDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid award date, expected YYYY-MM-DD",
			})
		}
		award.AwardDate = awardDate
	}
	if req.AmountAwarded != nil {
		award.AmountAwarded = *req.AmountAwarded
	}
	if req.AcademicYear != "" {
		if !utils.IsValidAcademicYear(req.AcademicYear) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid academic year format",
			})
		}
		award.AcademicYear = req.AcademicYear
	}
	if req.Active != nil {
		award.Active = *req.Active
	}

	if err := database.DB.Save(&award).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update award",
		})
	}

	database.DB.Preload("Scholarship").Preload("Student").First(&award, award.ID)

	middleware.LogActivity(c, "UPDATE", "student_scholarships", award.ID, fiber.Map{
		"student_id":     award.StudentID,
		"scholarship_id": award.ScholarshipID,
	})

	return c.JSON(fiber.Map{
		"message": "Award updated successfully",
		"award":   utils.ToAwardDTO(award),
	})
}

// DeleteAward revokes an award
func (ssc *StudentScholarshipController) DeleteAward(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid award ID",
		})
	}

	var award models.StudentScholarship
	if err := database.DB.First(&award, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Award not found",
		})
	}

	if err := database.DB.Delete(&award).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete award",
		})
	}

	middleware.LogActivity(c, "DELETE", "student_scholarships", award.ID, fiber.Map{
		"student_id":     award.StudentID,
		"scholarship_id": award.ScholarshipID,
	})

	return c.JSON(fiber.Map{
		"message": "Award deleted successfully",
	})
}
