package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lclasicoaj/Fitness-app-project-1/internal/routines"
	"github.com/lclasicoaj/Fitness-app-project-1/internal/telemetry/tracing"
	"github.com/lclasicoaj/Fitness-app-project-1/internal/workouts"
	"github.com/lclasicoaj/Fitness-app-project-1/pkg"
)

var (
	ErrNoActiveWorkout = errors.New("no active workout")

	// user-facing finish validation messages, checked in this order,
	// first failure wins
	ErrNoExercises = errors.New("Add at least one exercise to save the workout")
	ErrNoSets      = errors.New("Add at least one set to save the workout")
)

type workoutsInserter interface {
	Add(ctx context.Context, workout workouts.Workout) (*workouts.Workout, error)
}

// Editor drives the lifecycle of a user's draft workout: started
// blank or expanded from a routine, mutated exercise by exercise and
// set by set, then either committed as a Workout or cancelled. Every
// mutation is flushed to the draft store before it returns, so a
// crashed or reloaded client picks up exactly where it left off.
//
// A failed commit leaves the draft untouched, the user retries;
// nothing is ever cleared until the insert has succeeded.
type Editor struct {
	store    Store
	workouts workoutsInserter

	// injectable for tests
	NowFunc   func() time.Time
	NewIDFunc func() string
}

func NewEditor(store Store, workoutsRepo workoutsInserter) *Editor {
	return &Editor{
		store:     store,
		workouts:  workoutsRepo,
		NowFunc:   time.Now,
		NewIDFunc: pkg.NewScaffoldID,
	}
}

// HasDraft is the entry guard for pages that need an active workout.
func (e *Editor) HasDraft(ctx context.Context, userID int) (bool, error) {
	draft, err := e.store.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return draft != nil, nil
}

func (e *Editor) Current(ctx context.Context, userID int) (*Draft, error) {
	draft, err := e.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, ErrNoActiveWorkout
	}
	return draft, nil
}

// StartBlank begins an empty draft. An existing draft is replaced,
// the newest start wins.
func (e *Editor) StartBlank(ctx context.Context, userID int) (*Draft, error) {
	draft := NewBlankDraft(e.NewIDFunc, e.NowFunc())
	if err := e.store.Set(ctx, userID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// StartFromRoutine begins a draft expanded from the given routine.
func (e *Editor) StartFromRoutine(ctx context.Context, userID int, routine *routines.Routine) (*Draft, error) {
	draft := ExpandRoutine(routine, e.NewIDFunc, e.NowFunc())
	if err := e.store.Set(ctx, userID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// AddExercise appends an exercise with the given name and no sets.
// A blank name changes nothing.
func (e *Editor) AddExercise(ctx context.Context, userID int, name string) (*Draft, error) {
	name = strings.TrimSpace(name)
	draft, err := e.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return draft, nil
	}

	draft.Exercises = append(draft.Exercises, workouts.ExerciseLog{
		ID:   e.NewIDFunc(),
		Name: name,
		Sets: make([]workouts.SetRecord, 0),
	})
	if err := e.store.Set(ctx, userID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// UpdateExercise replaces the exercise with the given id wholesale.
// The id itself cannot be changed. Unknown ids change nothing.
func (e *Editor) UpdateExercise(ctx context.Context, userID int, exerciseID string, updated workouts.ExerciseLog) (*Draft, error) {
	return e.mutate(ctx, userID, func(draft *Draft) {
		for i := range draft.Exercises {
			if draft.Exercises[i].ID == exerciseID {
				updated.ID = exerciseID
				if updated.Sets == nil {
					updated.Sets = make([]workouts.SetRecord, 0)
				}
				draft.Exercises[i] = updated
				return
			}
		}
	})
}

func (e *Editor) DeleteExercise(ctx context.Context, userID int, exerciseID string) (*Draft, error) {
	return e.mutate(ctx, userID, func(draft *Draft) {
		for i := range draft.Exercises {
			if draft.Exercises[i].ID == exerciseID {
				draft.Exercises = append(draft.Exercises[:i], draft.Exercises[i+1:]...)
				return
			}
		}
	})
}

// AddSet appends a set with blank weight and reps to the given
// exercise.
func (e *Editor) AddSet(ctx context.Context, userID int, exerciseID string) (*Draft, error) {
	return e.mutate(ctx, userID, func(draft *Draft) {
		for i := range draft.Exercises {
			if draft.Exercises[i].ID == exerciseID {
				draft.Exercises[i].Sets = append(draft.Exercises[i].Sets, workouts.SetRecord{
					ID: e.NewIDFunc(),
				})
				return
			}
		}
	})
}

func (e *Editor) UpdateSet(ctx context.Context, userID int, exerciseID, setID string, updated workouts.SetRecord) (*Draft, error) {
	return e.mutate(ctx, userID, func(draft *Draft) {
		for i := range draft.Exercises {
			if draft.Exercises[i].ID != exerciseID {
				continue
			}
			for j := range draft.Exercises[i].Sets {
				if draft.Exercises[i].Sets[j].ID == setID {
					updated.ID = setID
					draft.Exercises[i].Sets[j] = updated
					return
				}
			}
			return
		}
	})
}

func (e *Editor) DeleteSet(ctx context.Context, userID int, exerciseID, setID string) (*Draft, error) {
	return e.mutate(ctx, userID, func(draft *Draft) {
		for i := range draft.Exercises {
			if draft.Exercises[i].ID != exerciseID {
				continue
			}
			for j := range draft.Exercises[i].Sets {
				if draft.Exercises[i].Sets[j].ID == setID {
					draft.Exercises[i].Sets = append(draft.Exercises[i].Sets[:j], draft.Exercises[i].Sets[j+1:]...)
					return
				}
			}
			return
		}
	})
}

// Finish validates the draft, inserts it as a Workout and clears the
// slot. Validation failures and insert failures both leave the draft
// exactly as it was. The workout's creation time is the commit time,
// not the session start.
func (e *Editor) Finish(ctx context.Context, userID int) (_ *workouts.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.editor.finish")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	draft, err := e.Current(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(draft.Exercises) == 0 {
		return nil, ErrNoExercises
	}
	if !draft.HasSets() {
		return nil, ErrNoSets
	}

	saved, err := e.workouts.Add(ctx, workouts.Workout{
		UserID:      userID,
		RoutineID:   draft.RoutineID,
		RoutineName: draft.RoutineName,
		Exercises:   draft.Exercises,
		CreatedAt:   e.NowFunc(),
	})
	if err != nil {
		return nil, err
	}

	if err := e.store.Clear(ctx, userID); err != nil {
		return nil, err
	}
	return saved, nil
}

// Cancel discards the draft unconditionally. An empty slot cancels
// just fine, the post-state is the same either way.
func (e *Editor) Cancel(ctx context.Context, userID int) error {
	return e.store.Clear(ctx, userID)
}

func (e *Editor) mutate(ctx context.Context, userID int, apply func(draft *Draft)) (*Draft, error) {
	draft, err := e.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	apply(draft)
	if err := e.store.Set(ctx, userID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}
