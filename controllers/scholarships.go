package controllers

import (
	"strconv"

	"eschool_go/database"
	"eschool_go/middleware"
	"eschool_go/models"
	"eschool_go/services"
	"eschool_go/utils"

	"github.com/gofiber/fiber/v2"
)

type ScholarshipController struct{}

// ScholarshipRequest represents the create/update request body
type ScholarshipRequest struct {
	Name            string  `json:"name" validate:"required,max=200"`
	ScholarshipType string  `json:"scholarship_type" validate:"required"`
	Description     string  `json:"description" validate:"required"`
	Amount          float64 `json:"amount" validate:"gte=0"`
	Criteria        string  `json:"criteria" validate:"required"`
	Active          *bool   `json:"is_active"`
}

// ScholarshipUpdateRequest carries a partial update; absent fields keep their
// stored values.
type ScholarshipUpdateRequest struct {
	Name            *string  `json:"name" validate:"omitempty,max=200"`
	ScholarshipType *string  `json:"scholarship_type"`
	Description     *string  `json:"description"`
	Amount          *float64 `json:"amount" validate:"omitempty,gte=0"`
	Criteria        *string  `json:"criteria"`
	Active          *bool    `json:"is_active"`
}

// applyScholarshipUpdate validates the fields present in req and copies them
// onto the catalog entry.
func applyScholarshipUpdate(s *models.Scholarship, req ScholarshipUpdateRequest) error {
	if err := utils.ValidateStruct(&req); err != nil {
		return services.NewValidationError("", err.Error())
	}
	if req.Name != nil {
		if *req.Name == "" {
			return services.NewValidationError("name", "must not be empty")
		}
		s.Name = utils.SanitizeString(*req.Name)
	}
	if req.ScholarshipType != nil {
		if !utils.IsValidScholarshipType(*req.ScholarshipType) {
			return services.NewValidationError("scholarship_type", "invalid scholarship type")
		}
		s.ScholarshipType = *req.ScholarshipType
	}
	if req.Description != nil {
		s.Description = *req.Description
	}
	if req.Amount != nil {
		s.Amount = *req.Amount
	}
	if req.Criteria != nil {
		s.Criteria = *req.Criteria
	}
	if req.Active != nil {
		s.Active = *req.Active
	}
	return nil
}

// GetScholarships returns catalog entries with pagination
func (sc *ScholarshipController) GetScholarships(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var scholarships []models.Scholarship
	var total int64

	query := database.DB.Model(&models.Scholarship{})

	if st := c.Query("scholarship_type"); st != "" {
		query = query.Where("scholarship_type = ?", st)
	}

	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	query.Count(&total)

	if err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&scholarships).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch scholarships",
		})
	}

	return c.JSON(fiber.Map{
		"scholarships": scholarships,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetScholarship returns a specific catalog entry by ID
func (sc *ScholarshipController) GetScholarship(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid scholarship ID",
		})
	}

	var scholarship models.Scholarship
	if err := database.DB.First(&scholarship, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Scholarship not found",
		})
	}

	return c.JSON(fiber.Map{
		"scholarship": scholarship,
	})
}

// CreateScholarship adds a new catalog entry
func (sc *ScholarshipController) CreateScholarship(c *fiber.Ctx) error {
	var req ScholarshipRequest
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

	if !utils.IsValidScholarshipType(req.ScholarshipType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid scholarship type",
		})
	}

	scholarship := models.Scholarship{
		Name:            utils.SanitizeString(req.Name),
		ScholarshipType: req.ScholarshipType,
		Description:     req.Description,
		Amount:          req.Amount,
		Criteria:        req.Criteria,
		Active:          true,
	}
	if req.Active != nil {
		scholarship.Active = *req.Active
	}

	if err := database.DB.Create(&scholarship).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create scholarship",
		})
	}

	middleware.LogActivity(c, "CREATE", "scholarships", scholarship.ID, fiber.Map{
		"name": scholarship.Name,
		"type": scholarship.ScholarshipType,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Scholarship created successfully",
		"scholarship": scholarship,
	})
}

// UpdateScholarship updates an existing catalog entry
func (sc *ScholarshipController) UpdateScholarship(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid scholarship ID",
		})
	}

	var scholarship models.Scholarship
	if err := database.DB.First(&scholarship, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Scholarship not found",
		})
	}

	var req ScholarshipUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := applyScholarshipUpdate(&scholarship, req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := database.DB.Save(&scholarship).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update scholarship",
		})
	}

	middleware.LogActivity(c, "UPDATE", "scholarships", scholarship.ID, fiber.Map{
		"name": scholarship.Name,
	})

	return c.JSON(fiber.Map{
		"message":     "Scholarship updated successfully",
		"scholarship": scholarship,
	})
}

// DeleteScholarship removes a catalog entry unless awards reference it
func (sc *ScholarshipController) DeleteScholarship(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid scholarship ID",
		})
	}

	var scholarship models.Scholarship
	if err := database.DB.First(&scholarship, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Scholarship not found",
		})
	}

	var awardCount int64
	database.DB.Model(&models.StudentScholarship{}).Where("scholarship_id = ?", scholarship.ID).Count(&awardCount)

	if awardCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  "Cannot delete scholarship with existing awards",
			"awards": awardCount,
		})
	}

	if err := database.DB.Delete(&scholarship).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete scholarship",
		})
	}

	middleware.LogActivity(c, "DELETE", "scholarships", scholarship.ID, fiber.Map{
		"name": scholarship.Name,
	})

	return c.JSON(fiber.Map{
		"message": "Scholarship deleted successfully",
	})
}
