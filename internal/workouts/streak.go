package workouts

// Streaks holds the consecutive-day workout runs of a user.
type Streaks struct {
	// Current is the run ending today or yesterday, 0 if the last workout is older.
	Current int `json:"current_streak"`
	// Longest is the longest run found anywhere in the history.
	Longest int `json:"longest_streak"`
}

// CalculateStreaks computes the current and the longest streak.
//
// dates must be distinct and sorted descending (most recent first), which is what
// Repo.WorkoutDates returns; the input is neither sorted nor de-duplicated here.
// Only a difference of exactly one day between neighbours counts as consecutive.
// today is passed in so a single request never sees two different days.
func CalculateStreaks(dates []Date, today Date) Streaks {
	if len(dates) == 0 {
		return Streaks{}
	}

	return Streaks{
		Current: currentStreak(dates, today),
		Longest: longestStreak(dates),
	}
}

func currentStreak(dates []Date, today Date) int {
	if today.DaysSince(dates[0]) > 1 {
		return 0
	}

	streak := 1
	for i := 0; i < len(dates)-1; i++ {
		if dates[i].DaysSince(dates[i+1]) != 1 {
			break
		}
		streak++
	}
	return streak
}

func longestStreak(dates []Date) int {
	longest, run := 1, 1
	for i := 0; i < len(dates)-1; i++ {
		if dates[i].DaysSince(dates[i+1]) == 1 {
			run++
			longest = max(longest, run)
		} else {
			run = 1
		}
	}
	return longest
}
