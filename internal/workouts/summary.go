package workouts

import "strconv"

// Summary aggregates a finished workout. Free-form set values that do
// not parse as numbers count as zero.
type Summary struct {
	WorkoutID      int     `json:"workoutId"`
	ExercisesCount int     `json:"exercisesCount"`
	TotalSets      int     `json:"totalSets"`
	TotalReps      int     `json:"totalReps"`
	TotalVolume    float64 `json:"totalVolume"`
}

func Summarize(workout *Workout) Summary {
	summary := Summary{
		WorkoutID:      workout.ID,
		ExercisesCount: len(workout.Exercises),
	}
	for _, ex := range workout.Exercises {
		summary.TotalSets += len(ex.Sets)
		for _, set := range ex.Sets {
			reps, err := strconv.Atoi(set.Reps)
			if err != nil {
				reps = 0
			}
			weight, err := strconv.ParseFloat(set.Weight, 64)
			if err != nil {
				weight = 0
			}
			summary.TotalReps += reps
			summary.TotalVolume += weight * float64(reps)
		}
	}
	return summary
}
