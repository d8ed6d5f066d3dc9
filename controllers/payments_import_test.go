package controllers

import "testing"

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "iso date", input: "2025-09-01", want: "2025-09-01"},
		{name: "slash date", input: "9/1/2025", want: "2025-09-01"},
		{name: "padded slash date", input: "09/01/2025", want: "2025-09-01"},
		{name: "short year", input: "9/1/25", want: "2025-09-01"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := parseDate(tc.input)
			if got == nil {
				t.Fatalf("expected a date, got nil")
			}
			if got.Format("2006-01-02") != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got.Format("2006-01-02"))
			}
		})
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "not-a-date"} {
		if got := parseDate(input); got != nil {
			t.Fatalf("expected nil for %q, got %v", input, got)
		}
	}
}

func TestParseFloatPtr(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		nilOK bool
	}{
		{name: "plain", input: "4000", want: 4000},
		{name: "decimal", input: "1200.50", want: 1200.50},
		{name: "thousands separator", input: "5,200.00", want: 5200},
		{name: "empty", input: "", nilOK: true},
		{name: "garbage", input: "abc", nilOK: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := parseFloatPtr(tc.input)
			if tc.nilOK {
				if got != nil {
					t.Fatalf("expected nil, got %v", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %v, got nil", tc.want)
			}
			if *got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, *got)
			}
		})
	}
}

func TestDetectPaymentMethod(t *testing.T) {
	tests := []struct {
		name   string
		method string
		notes  string
		want   string
	}{
		{name: "cash", method: "Cash", want: "cash"},
		{name: "transfer keyword in notes", notes: "bank transfer ref 1234", want: "transfer"},
		{name: "credit card", method: "Credit Card", want: "credit_card"},
		{name: "cheque", method: "Cheque", want: "cheque"},
		{name: "unknown", method: "voucher", want: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := detectPaymentMethod(tc.method, tc.notes); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestMapHeaderIndexes(t *testing.T) {
	header := []string{"Student Number", " Payment Type ", "Amount"}
	col := mapHeaderIndexes(header)

	if col["Student Number"] != 0 {
		t.Fatalf("expected index 0 for Student Number, got %d", col["Student Number"])
	}
	if col["Payment Type"] != 1 {
		t.Fatalf("expected trimmed header at index 1, got %d", col["Payment Type"])
	}
	if col["Amount"] != 2 {
		t.Fatalf("expected index 2 for Amount, got %d", col["Amount"])
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "fees 2025.xlsx", want: "fees_2025.xlsx"},
		{input: "../../etc/passwd", want: "passwd"},
		{input: "report-09_final.csv", want: "report-09_final.csv"},
	}

	for _, tc := range tests {
		if got := sanitizeFilename(tc.input); got != tc.want {
			t.Fatalf("sanitizeFilename(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
