package workouts

import "time"

// Workout is a finished, immutable log of a training session. Each
// workout belongs to exactly one user and is never visible to others.
type Workout struct {
	ID          int           `json:"id"`
	UserID      int           `json:"-"`
	RoutineID   *int          `json:"routineId,omitempty"`
	RoutineName string        `json:"routineName,omitempty"`
	Exercises   []ExerciseLog `json:"exercises"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// ExerciseLog is one exercise performed during a workout, with the
// planned targets it was started from (when it came from a routine).
type ExerciseLog struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Sets        []SetRecord `json:"sets"`
	PlannedSets int         `json:"plannedSets,omitempty"`
	PlannedReps string      `json:"plannedReps,omitempty"`
	Rest        string      `json:"rest,omitempty"`
	Day         string      `json:"day,omitempty"`
}

// SetRecord is a single performed set. Weight and reps stay free-form
// strings, whatever the user typed mid-workout is kept as is.
type SetRecord struct {
	ID     string `json:"id"`
	Weight string `json:"weight"`
	Reps   string `json:"reps"`
}
