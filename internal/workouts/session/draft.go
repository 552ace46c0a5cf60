package session

import (
	"time"

	"github.com/lclasicoaj/Fitness-app-project-1/internal/routines"
	"github.com/lclasicoaj/Fitness-app-project-1/internal/workouts"
)

// Draft is the single in-progress workout of one user. At most one
// draft exists per user at any time. It lives in the draft store until
// the workout is finished or cancelled.
type Draft struct {
	ID          string                 `json:"id"`
	RoutineID   *int                   `json:"routineId,omitempty"`
	RoutineName string                 `json:"routineName,omitempty"`
	Exercises   []workouts.ExerciseLog `json:"exercises"`
	StartedAt   time.Time              `json:"startedAt"`
}

// HasSets tells whether any exercise of the draft has at least one
// recorded set.
func (d *Draft) HasSets() bool {
	for _, ex := range d.Exercises {
		if len(ex.Sets) > 0 {
			return true
		}
	}
	return false
}

// NewBlankDraft starts a draft with no exercises and no source routine.
func NewBlankDraft(newID func() string, now time.Time) *Draft {
	return &Draft{
		ID:        newID(),
		Exercises: make([]workouts.ExerciseLog, 0),
		StartedAt: now,
	}
}

// ExpandRoutine converts a routine into a fresh draft: one exercise
// log per plan, same order, sets empty, planned fields carried over.
// Every log gets a new id, the routine keeps a reference via id and a
// name snapshot. Pure apart from the injected id generator.
func ExpandRoutine(routine *routines.Routine, newID func() string, now time.Time) *Draft {
	draft := &Draft{
		ID:          newID(),
		RoutineID:   &routine.ID,
		RoutineName: routine.Name,
		Exercises:   make([]workouts.ExerciseLog, 0, len(routine.Exercises)),
		StartedAt:   now,
	}
	for _, plan := range routine.Exercises {
		draft.Exercises = append(draft.Exercises, workouts.ExerciseLog{
			ID:          newID(),
			Name:        plan.Name,
			Sets:        make([]workouts.SetRecord, 0),
			PlannedSets: plan.Sets,
			PlannedReps: plan.Reps,
			Rest:        plan.Rest,
			Day:         plan.Day,
		})
	}
	return draft
}
