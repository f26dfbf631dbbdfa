// Package streak computes consecutive-day completion runs for a habit.
package streak

import "sort"

// Result holds the streak figures derived from one habit's history.
type Result struct {
	Current int `json:"currentStreak"`
	Max     int `json:"maxStreak"`
}

// Calculate derives the current and longest runs of consecutive days from an
// unordered set of completion day numbers.
//
// The current streak is anchored at today with a one-day grace window: a run
// whose most recent day is yesterday still counts, since today's completion
// may simply not have been recorded yet. Anything older means the streak is
// broken and the current streak is 0.
//
// The max streak is the longest consecutive run anywhere in the history and
// is always >= the current streak.
func Calculate(days []int, today int) Result {
	if len(days) == 0 {
		return Result{}
	}

	sorted := dedupeDescending(days)

	current := 0
	if sorted[0] == today || sorted[0] == today-1 {
		current = 1
		for i := 1; i < len(sorted); i++ {
			if sorted[i] != sorted[i-1]-1 {
				break
			}
			current++
		}
	}

	max := 1
	run := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1]-1 {
			run++
		} else {
			run = 1
		}
		if run > max {
			max = run
		}
	}
	// The current run is itself a candidate run; taking the max here keeps
	// the Max >= Current invariant without a second scan.
	if current > max {
		max = current
	}

	return Result{Current: current, Max: max}
}

// dedupeDescending returns a copy of days sorted newest-first with
// duplicates removed. Duplicate days cannot normally exist (the store
// enforces one completion per habit per day) but the computation must not
// depend on that.
func dedupeDescending(days []int) []int {
	sorted := make([]int, len(days))
	copy(sorted, days)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	out := sorted[:1]
	for _, d := range sorted[1:] {
		if d != out[len(out)-1] {
			out = append(out, d)
		}
	}
	return out
}
