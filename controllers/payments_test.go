package controllers

import (
	"testing"
	"time"

	"eschool_go/models"
)

func TestViewerAllowed(t *testing.T) {
	ownerID := uint(10)
	parentID := uint(20)
	student := &models.Student{
		BaseModel:    models.BaseModel{ID: 1},
		UserID:       ownerID,
		ParentUserID: &parentID,
	}
	orphan := &models.Student{
		BaseModel: models.BaseModel{ID: 2},
		UserID:    ownerID,
	}

	tests := []struct {
		name    string
		user    models.User
		student *models.Student
		want    bool
	}{
		{"owning student", models.User{BaseModel: models.BaseModel{ID: ownerID}, Role: "student"}, student, true},
		{"other student", models.User{BaseModel: models.BaseModel{ID: 99}, Role: "student"}, student, false},
		{"owning parent", models.User{BaseModel: models.BaseModel{ID: parentID}, Role: "parent"}, student, true},
		{"other parent", models.User{BaseModel: models.BaseModel{ID: 99}, Role: "parent"}, student, false},
		{"parent of student without parent link", models.User{BaseModel: models.BaseModel{ID: parentID}, Role: "parent"}, orphan, false},
		{"accountant", models.User{BaseModel: models.BaseModel{ID: 99}, Role: "accountant"}, student, true},
		{"teacher", models.User{BaseModel: models.BaseModel{ID: 99}, Role: "teacher"}, student, true},
		{"admin", models.User{BaseModel: models.BaseModel{ID: 99}, Role: "admin"}, student, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := viewerAllowed(&tt.user, tt.student); got != tt.want {
				t.Errorf("viewerAllowed(%s %d) = %v, want %v", tt.user.Role, tt.user.ID, got, tt.want)
			}
		})
	}
}

func TestDueDateWindow(t *testing.T) {
	start, end, windowed, err := dueDateWindow("2025", "9")
	if err != nil || !windowed {
		t.Fatalf("year+month: windowed=%v err=%v", windowed, err)
	}
	if !start.Equal(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}

	start, end, windowed, err = dueDateWindow("2025", "")
	if err != nil || !windowed {
		t.Fatalf("year only: windowed=%v err=%v", windowed, err)
	}
	if !start.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) || !end.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("year window = [%v, %v)", start, end)
	}

	if _, _, windowed, err = dueDateWindow("", ""); err != nil || windowed {
		t.Errorf("no filters: windowed=%v err=%v", windowed, err)
	}
}

func TestDueDateWindowRejections(t *testing.T) {
	tests := []struct {
		name  string
		year  string
		month string
	}{
		{"month without year", "", "9"},
		{"bad year", "twenty", "9"},
		{"bad month", "2025", "13"},
		{"zero month", "2025", "0"},
		{"non-numeric month", "2025", "sep"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := dueDateWindow(tt.year, tt.month); err == nil {
				t.Errorf("dueDateWindow(%q, %q) accepted, want error", tt.year, tt.month)
			}
		})
	}
}
