package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatalf("hash must not equal the plain password")
	}

	if err := CheckPassword("s3cret-pass", hash); err != nil {
		t.Fatalf("expected matching password to verify: %v", err)
	}
	if err := CheckPassword("wrong", hash); err == nil {
		t.Fatalf("expected mismatch error for wrong password")
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{"admin", "accountant", "teacher", "parent", "student"} {
		if !IsValidRole(role) {
			t.Fatalf("expected %q to be a valid role", role)
		}
	}
	for _, role := range []string{"", "owner", "Admin", "superuser"} {
		if IsValidRole(role) {
			t.Fatalf("expected %q to be invalid", role)
		}
	}
}

func TestIsValidPaymentType(t *testing.T) {
	for _, pt := range []string{"tuition", "transport", "activities", "other"} {
		if !IsValidPaymentType(pt) {
			t.Fatalf("expected %q to be a valid payment type", pt)
		}
	}
	if IsValidPaymentType("meals") {
		t.Fatalf("expected meals to be invalid")
	}
}

func TestIsValidAcademicYear(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "2024", want: true},
		{input: "2024-2025", want: true},
		{input: " 2024 ", want: true},
		{input: "24-25", want: false},
		{input: "2024/2025", want: false},
		{input: "", want: false},
	}

	for _, tc := range tests {
		if got := IsValidAcademicYear(tc.input); got != tc.want {
			t.Fatalf("IsValidAcademicYear(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  Merit Award\x00  "); got != "Merit Award" {
		t.Fatalf("expected sanitized string, got %q", got)
	}
}

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := GenerateRandomString(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != 16 {
		t.Fatalf("expected length 16, got %d", len(a))
	}
	if a == b {
		t.Fatalf("expected two random strings to differ")
	}
}
