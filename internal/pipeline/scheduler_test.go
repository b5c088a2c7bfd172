package pipeline

import (
	"testing"
	"time"
)

func TestGate_ShouldRun(t *testing.T) {
	gate := NewGate(time.Sunday)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"anchor day", time.Date(2024, 5, 5, 9, 0, 0, 0, time.UTC), true},
		{"day before", time.Date(2024, 5, 4, 9, 0, 0, 0, time.UTC), false},
		{"day after", time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC), false},
		{"late on anchor day", time.Date(2024, 5, 5, 23, 59, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gate.ShouldRun(tt.now); got != tt.want {
				t.Errorf("ShouldRun(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}

	t.Run("non-default anchor", func(t *testing.T) {
		friday := NewGate(time.Friday)
		if !friday.ShouldRun(time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)) {
			t.Error("expected Friday gate to admit a Friday run")
		}
	})
}
