package controllers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"eschool_go/database"
	"eschool_go/models"
	"eschool_go/services"
	"eschool_go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// PaymentsImportController imports fee schedules exported from the school's
// accounting system as CSV or XLSX.
type PaymentsImportController struct{}

// POST /api/import/payments
// Multipart form with file field: file
func (pic *PaymentsImportController) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	var rows [][]string
	filename := strings.ToLower(fh.Filename)
	if strings.HasSuffix(filename, ".csv") {
		f, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot open file"})
		}
		defer f.Close()
		rows, err = readCSVSimple(f)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	} else if strings.HasSuffix(filename, ".xlsx") || strings.HasSuffix(filename, ".xls") {
		// buffer to temp path for excelize
		tmpDir, _ := os.MkdirTemp("", "es-payments-")
		tmp := filepath.Join(tmpDir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), sanitizeFilename(fh.Filename)))
		if err := c.SaveFile(fh, tmp); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to buffer upload"})
		}
		var rerr error
		rows, rerr = readXLSXSimple(tmp)
		_ = os.Remove(tmp)
		if rerr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": rerr.Error()})
		}
	} else {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported file type (csv,xlsx)"})
	}

	if len(rows) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is empty"})
	}

	header := rows[0]
	col := mapHeaderIndexes(header)
	for _, required := range []string{"Student Number", "Payment Type", "Amount", "Due Date"} {
		if _, ok := col[required]; !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing column: " + required})
		}
	}

	inserted := 0
	skipped := 0
	duplicates := 0
	errorsList := []string{}
	now := time.Now()

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// student numbers resolve once per file, most rows repeat them
		studentIDs := map[string]uint{}

		for i := 1; i < len(rows); i++ {
			r := rows[i]
			get := func(key string) string {
				if idx, ok := col[key]; ok && idx < len(r) {
					return strings.TrimSpace(r[idx])
				}
				return ""
			}

			studentNumber := get("Student Number")
			if studentNumber == "" {
				skipped++
				continue
			}

			studentID, ok := studentIDs[studentNumber]
			if !ok {
				var student models.Student
				if err := tx.Where("student_number = ?", studentNumber).First(&student).Error; err != nil {
					errorsList = append(errorsList, fmt.Sprintf("row %d: unknown student number %s", i+1, studentNumber))
					skipped++
					continue
				}
				studentID = student.ID
				studentIDs[studentNumber] = studentID
			}

			paymentType := strings.ToLower(get("Payment Type"))
			if !utils.IsValidPaymentType(paymentType) {
				errorsList = append(errorsList, fmt.Sprintf("row %d: invalid payment type %q", i+1, get("Payment Type")))
				skipped++
				continue
			}

			dueDate := parseDate(get("Due Date"))
			if dueDate == nil {
				errorsList = append(errorsList, fmt.Sprintf("row %d: invalid due date %q", i+1, get("Due Date")))
				skipped++
				continue
			}

			amountPtr := parseFloatPtr(get("Amount"))
			if amountPtr == nil || *amountPtr < 0 {
				errorsList = append(errorsList, fmt.Sprintf("row %d: invalid amount %q", i+1, get("Amount")))
				skipped++
				continue
			}

			lateFee := floatOrZero(parseFloatPtr(get("Late Fee")))
			discount := floatOrZero(parseFloatPtr(get("Discount")))
			amountPaid := floatOrZero(parseFloatPtr(get("Amount Paid")))
			paidDate := parseDate(get("Payment Date"))

			// dedup across repeated imports of the same export
			rowUID := strings.Join([]string{
				studentNumber,
				paymentType,
				get("Due Date"),
				get("Amount"),
				get("Academic Year"),
			}, "|")

			var existing models.Payment
			if err := tx.Where("row_uid = ?", rowUID).First(&existing).Error; err == nil {
				duplicates++
				skipped++
				continue
			}

			total := *amountPtr + lateFee - discount
			payment := models.Payment{
				StudentID:     studentID,
				PaymentType:   paymentType,
				Amount:        *amountPtr,
				LateFee:       lateFee,
				Discount:      discount,
				AmountPaid:    services.Round2(amountPaid),
				DueDate:       *dueDate,
				PaymentDate:   paidDate,
				Status:        services.DeriveStatus(total, amountPaid, *dueDate, now),
				PaymentMethod: detectPaymentMethod(get("Payment Method"), get("Notes")),
				RowUID:        rowUID,
				AcademicYear:  get("Academic Year"),
				Description:   get("Description"),
			}

			if err := tx.Create(&payment).Error; err != nil {
				errorsList = append(errorsList, fmt.Sprintf("row %d: %v", i+1, err))
				continue
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"file_name":    fh.Filename,
		"data_rows":    len(rows) - 1,
		"inserted":     inserted,
		"skipped":      skipped,
		"duplicates":   duplicates,
		"errors_count": len(errorsList),
		"errors":       errorsList,
	})
}

// Helpers (localized to this controller to avoid cross-file imports)

func readCSVSimple(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func readXLSXSimple(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sht := f.GetSheetName(0)
	if sht == "" {
		sht = "Sheet1"
	}
	data, err := f.GetRows(sht)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func mapHeaderIndexes(header []string) map[string]int {
	m := map[string]int{}
	for i, h := range header {
		m[strings.TrimSpace(h)] = i
	}
	return m
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	layouts := []string{"2006-01-02", "1/2/2006", "01/02/2006", "02/01/2006", time.RFC3339}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return &t
		}
	}
	if t, err := time.Parse("1/2/06", s); err == nil {
		return &t
	}
	return nil
}

func parseFloatPtr(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return &v
	}
	return nil
}

func floatOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func detectPaymentMethod(method, notes string) string {
	chk := strings.ToLower(method + " " + notes)
	if strings.Contains(chk, "cash") {
		return "cash"
	}
	if strings.Contains(chk, "debit") {
		return "debit_card"
	}
	if strings.Contains(chk, "credit") {
		return "credit_card"
	}
	if strings.Contains(chk, "transfer") || strings.Contains(chk, "bank") {
		return "transfer"
	}
	if strings.Contains(chk, "cheque") || strings.Contains(chk, "check") {
		return "cheque"
	}
	return ""
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
