package utils

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a password with its hash
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateRandomString generates a random string of specified length
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// IsValidRole checks if a role is valid
func IsValidRole(role string) bool {
	validRoles := []string{"admin", "accountant", "teacher", "parent", "student"}
	for _, validRole := range validRoles {
		if role == validRole {
			return true
		}
	}
	return false
}

// IsValidStatus checks if a user status is valid
func IsValidStatus(status string) bool {
	validStatuses := []string{"active", "inactive", "suspended"}
	for _, validStatus := range validStatuses {
		if status == validStatus {
			return true
		}
	}
	return false
}

// IsValidScholarshipType checks if a scholarship type is valid
func IsValidScholarshipType(t string) bool {
	validTypes := []string{"merit", "need", "sports", "academic", "cultural", "special"}
	for _, validType := range validTypes {
		if t == validType {
			return true
		}
	}
	return false
}

// IsValidPaymentType checks if a fee item payment type is valid
func IsValidPaymentType(t string) bool {
	validTypes := []string{"tuition", "transport", "activities", "other"}
	for _, validType := range validTypes {
		if t == validType {
			return true
		}
	}
	return false
}

// IsValidPaymentStatus checks if a fee item status is valid
func IsValidPaymentStatus(status string) bool {
	validStatuses := []string{"pending", "paid", "partial", "overdue"}
	for _, validStatus := range validStatuses {
		if status == validStatus {
			return true
		}
	}
	return false
}

var academicYearPattern = regexp.MustCompile(`^\d{4}(-\d{4})?$`)

// IsValidAcademicYear accepts year tokens like "2024" or "2024-2025"
func IsValidAcademicYear(year string) bool {
	return academicYearPattern.MatchString(strings.TrimSpace(year))
}

// SanitizeString removes dangerous characters from string
func SanitizeString(input string) string {
	// Remove null bytes and control characters
	input = strings.ReplaceAll(input, "\x00", "")

	// Trim whitespace
	input = strings.TrimSpace(input)

	return input
}
