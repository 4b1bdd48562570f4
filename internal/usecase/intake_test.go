//go:build !integration

package usecase_test

import (
	"testing"

	"tripsmith/internal/domain/model"
	"tripsmith/internal/usecase"
)

func TestGenerateConstraints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		prefs       map[string]any
		wantPace    string
		wantWalking float64
	}{
		{"no tags", map[string]any{}, "balanced", 6.0},
		{"relaxed string tag", map[string]any{"tags": "museums, Relaxed"}, "relaxed", 3.0},
		{"packed list tag", map[string]any{"tags": []any{"food", "packed"}}, "packed", 10.0},
		{"packed beats relaxed", map[string]any{"tags": "relaxed,packed"}, "packed", 10.0},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := usecase.GenerateConstraints(&model.Trip{Preferences: tc.prefs})
			if c.Pace != tc.wantPace {
				t.Errorf("pace = %q, want %q", c.Pace, tc.wantPace)
			}
			if c.WalkingToleranceKmPerDay != tc.wantWalking {
				t.Errorf("walking = %v, want %v", c.WalkingToleranceKmPerDay, tc.wantWalking)
			}
			if c.MaxDailyActivityHours != 8 || c.MaxDailyCommuteHours != 2 || c.MaxTransferCount != 2 {
				t.Errorf("caps wrong: %+v", c)
			}
		})
	}
}
