package controllers

import (
	"errors"
	"strconv"
	"time"

	"eschool_go/database"
	"eschool_go/middleware"
	"eschool_go/models"
	"eschool_go/services"

	"github.com/gofiber/fiber/v2"
)

// ReportController exposes finance exports and school-wide aggregates.
type ReportController struct {
	archive *services.ReportArchiveService
}

func NewReportController(archive *services.ReportArchiveService) *ReportController {
	return &ReportController{archive: archive}
}

// GetFinancialSummary aggregates every fee item in the school, optionally
// narrowed by academic year or due date range.
func (rc *ReportController) GetFinancialSummary(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Payment{})

	if year := c.Query("academic_year"); year != "" {
		query = query.Where("academic_year = ?", year)
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
	if err := query.Find(&payments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch payments",
		})
	}

	summary := services.Summarize(payments, from, to)

	byType := map[string]float64{}
	for _, p := range payments {
		byType[p.PaymentType] += p.TotalAmount
	}

	return c.JSON(fiber.Map{
		"summary": summary,
		"by_type": byType,
	})
}

// GetArchives lists recorded exports
func (rc *ReportController) GetArchives(c *fiber.Ctx) error {
	archives, err := rc.archive.GetArchives()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch archives",
		})
	}

	return c.JSON(fiber.Map{
		"archives": archives,
	})
}

// DownloadArchive streams an archive from S3
func (rc *ReportController) DownloadArchive(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid archive ID",
		})
	}

	reader, fileName, err := rc.archive.DownloadArchive(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Archive not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to download archive",
		})
	}

	c.Set("Content-Type", "application/zip")
	c.Set("Content-Disposition", "attachment; filename="+fileName)
	return c.SendStream(reader)
}

// ExportLedger triggers a ledger export for the given year and month
func (rc *ReportController) ExportLedger(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid year",
		})
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid month",
		})
	}

	if err := rc.archive.ExportMonthlyLedger(year, time.Month(month)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	middleware.LogActivity(c, "CREATE", "report_archives", 0, fiber.Map{
		"year":  year,
		"month": month,
	})

	return c.JSON(fiber.Map{
		"message": "Ledger export started",
	})
}

// RunOverdueSweep flips past-due pending and partial fee items to overdue now
func (rc *ReportController) RunOverdueSweep(c *fiber.Ctx) error {
	scheduler := services.NewOverdueScheduler()
	count, err := scheduler.SweepOverdue(time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Overdue sweep failed",
		})
	}

	middleware.LogActivity(c, "UPDATE", "payments", 0, fiber.Map{
		"action":  "overdue_sweep",
		"flipped": count,
	})

	return c.JSON(fiber.Map{
		"message": "Overdue sweep completed",
		"flipped": count,
	})
}
