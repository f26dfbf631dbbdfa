package streak

import "testing"

const today = 100

func TestCalculate(t *testing.T) {
	tests := []struct {
		name    string
		days    []int
		current int
		max     int
	}{
		{"empty history", nil, 0, 0},
		{"three days ending today", []int{100, 99, 98}, 3, 3},
		{"gap before today", []int{100, 98}, 1, 1},
		{"ended yesterday, grace window", []int{99, 98, 97}, 3, 3},
		{"single old completion", []int{95}, 0, 1},
		{"single completion today", []int{100}, 1, 1},
		{"single completion yesterday", []int{99}, 1, 1},
		{"current shorter than historic run", []int{100, 99, 95, 94, 93}, 2, 3},
		{"broken two days ago", []int{98, 97, 96}, 0, 3},
		{"unordered input", []int{98, 100, 99}, 3, 3},
		{"duplicates ignored", []int{100, 100, 99, 99, 98}, 3, 3},
		{"historic run only", []int{50, 49, 48, 47}, 0, 4},
		{"several runs", []int{100, 90, 89, 88, 87, 80, 79}, 1, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Calculate(tc.days, today)
			if got.Current != tc.current {
				t.Errorf("Current = %d, want %d", got.Current, tc.current)
			}
			if got.Max != tc.max {
				t.Errorf("Max = %d, want %d", got.Max, tc.max)
			}
		})
	}
}

func TestMaxNeverBelowCurrent(t *testing.T) {
	histories := [][]int{
		{100}, {99}, {100, 99}, {100, 99, 98, 97},
		{100, 99, 50, 49, 48}, {99, 98, 97, 96, 95, 10},
	}
	for _, days := range histories {
		got := Calculate(days, today)
		if got.Max < got.Current {
			t.Errorf("days %v: Max %d < Current %d", days, got.Max, got.Current)
		}
	}
}

func TestCalculateDoesNotMutateInput(t *testing.T) {
	days := []int{98, 100, 99}
	Calculate(days, today)
	if days[0] != 98 || days[1] != 100 || days[2] != 99 {
		t.Errorf("input slice mutated: %v", days)
	}
}
