package models

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewFireTimeRoundTrip(t *testing.T) {
	habitID := uuid.New().String()

	ft, err := NewFireTime(habitID, 12, 55)
	if err != nil {
		t.Fatalf("failed to create fire time: %v", err)
	}

	if ft.Hour != 12 || ft.Minute != 55 {
		t.Errorf("expected 12:55, got %02d:%02d", ft.Hour, ft.Minute)
	}
	if ft.HabitID != habitID {
		t.Errorf("expected habit id %s, got %s", habitID, ft.HabitID)
	}
	if ft.ID == "" {
		t.Error("expected a generated id")
	}
	if got := ft.String(); got != "12:55" {
		t.Errorf("expected string 12:55, got %q", got)
	}
}

func TestNewFireTimeInvalidComponents(t *testing.T) {
	tests := []struct {
		name   string
		hour   int
		minute int
	}{
		{"hour too large", 24, 0},
		{"hour negative", -1, 30},
		{"minute too large", 12, 60},
		{"minute negative", 12, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFireTime(uuid.New().String(), tt.hour, tt.minute)
			if !errors.Is(err, ErrInvalidTimeComponents) {
				t.Errorf("expected ErrInvalidTimeComponents, got %v", err)
			}
		})
	}
}

func TestFireTimeBoundaryComponents(t *testing.T) {
	for _, tod := range []TimeOfDay{{0, 0}, {23, 59}} {
		if err := tod.Validate(); err != nil {
			t.Errorf("expected %02d:%02d to be valid, got %v", tod.Hour, tod.Minute, err)
		}
	}
}

func TestHabitValidate(t *testing.T) {
	h := Habit{ID: uuid.New().String(), Name: "guitar"}
	if err := h.Validate(); err != nil {
		t.Errorf("expected valid habit, got %v", err)
	}

	h.Name = "  "
	if err := h.Validate(); err == nil {
		t.Error("expected error for blank habit name")
	}
}
