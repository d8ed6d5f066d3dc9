package controllers

import (
	"fmt"
	"testing"

	"eschool_go/services"

	"github.com/gofiber/fiber/v2"
)

func TestStatusForServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", services.NewValidationError("amount", "must be positive"), fiber.StatusBadRequest},
		{"not found", services.ErrNotFound, fiber.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load student: %w", services.ErrNotFound), fiber.StatusNotFound},
		{"referenced", services.ErrReferenced, fiber.StatusConflict},
		{"unknown", fmt.Errorf("connection reset"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForServiceError(tt.err); got != tt.want {
				t.Errorf("statusForServiceError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
