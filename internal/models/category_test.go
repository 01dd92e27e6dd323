package models

import "testing"

func TestCategoryValidate(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		wantErr  bool
	}{
		{"valid", Category{Name: "Casa"}, false},
		{"empty name", Category{Name: ""}, true},
		{"whitespace name", Category{Name: "  "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.category.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTaskStatsComputePercentage(t *testing.T) {
	tests := []struct {
		name  string
		stats TaskStats
		want  int
	}{
		{"empty set", TaskStats{Total: 0, Completed: 0}, 0},
		{"one of four", TaskStats{Total: 4, Completed: 1}, 25},
		{"all done", TaskStats{Total: 3, Completed: 3}, 100},
		{"rounds down", TaskStats{Total: 3, Completed: 1}, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.stats.ComputePercentage()
			if tt.stats.Percentage != tt.want {
				t.Errorf("expected %d%%, got %d%%", tt.want, tt.stats.Percentage)
			}
		})
	}
}
