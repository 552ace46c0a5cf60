package routines

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/lclasicoaj/Fitness-app-project-1/pkg"
)

// User-facing validation messages, surfaced verbatim by the handler.
var (
	ErrNameMissing = errors.New("Please enter a routine name")
	ErrNoExercises = errors.New("Please add at least one exercise")
)

// PlanField names an editable field of an exercise plan.
type PlanField string

const (
	PlanFieldName PlanField = "name"
	PlanFieldSets PlanField = "sets"
	PlanFieldReps PlanField = "reps"
	PlanFieldRest PlanField = "rest"
	PlanFieldDay  PlanField = "day"
)

type MoveDirection int

const (
	MoveUp   MoveDirection = -1
	MoveDown MoveDirection = 1
)

type routinesWriter interface {
	Add(ctx context.Context, routine Routine) (*Routine, error)
	Update(ctx context.Context, routine *Routine) error
}

// Editor holds the in-progress state of a routine being created or
// edited. Nothing touches the database until Save.
type Editor struct {
	routineID int // 0 until the routine is persisted
	name      string
	exercises []ExercisePlan

	// NewIDFunc generates scaffold ids for fresh exercise plans,
	// replaceable in tests
	NewIDFunc func() string
}

// NewEditor returns an editor seeded from an existing routine, or a
// blank one when routine is nil.
func NewEditor(routine *Routine) *Editor {
	e := &Editor{
		NewIDFunc: pkg.NewScaffoldID,
		exercises: make([]ExercisePlan, 0),
	}
	if routine != nil {
		e.routineID = routine.ID
		e.name = routine.Name
		e.exercises = append(e.exercises, routine.Exercises...)
	}
	return e
}

func (e *Editor) Name() string {
	return e.name
}

func (e *Editor) SetName(name string) {
	e.name = name
}

// Exercises returns a copy of the current plan list, in order.
func (e *Editor) Exercises() []ExercisePlan {
	out := make([]ExercisePlan, len(e.exercises))
	copy(out, e.exercises)
	return out
}

// AddExercise appends a plan with the given name. A blank or
// whitespace-only name is ignored.
func (e *Editor) AddExercise(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	e.exercises = append(e.exercises, ExercisePlan{
		ID:   e.NewIDFunc(),
		Name: name,
	})
}

func (e *Editor) DeleteExercise(id string) {
	for i := range e.exercises {
		if e.exercises[i].ID == id {
			e.exercises = append(e.exercises[:i], e.exercises[i+1:]...)
			return
		}
	}
}

// MoveExercise swaps the plan at index with its neighbour in the given
// direction. Moves past either end are no-ops, the list never
// reorders non-adjacent entries.
func (e *Editor) MoveExercise(index int, direction MoveDirection) {
	target := index + int(direction)
	if index < 0 || index >= len(e.exercises) {
		return
	}
	if target < 0 || target >= len(e.exercises) {
		return
	}
	e.exercises[index], e.exercises[target] = e.exercises[target], e.exercises[index]
}

// UpdateField sets one field of the plan with the given id. Unknown
// ids and unknown fields are ignored. A sets value that does not
// parse as a number clears the field.
func (e *Editor) UpdateField(id string, field PlanField, value string) {
	for i := range e.exercises {
		if e.exercises[i].ID != id {
			continue
		}
		switch field {
		case PlanFieldName:
			e.exercises[i].Name = value
		case PlanFieldSets:
			sets, err := strconv.Atoi(value)
			if err != nil {
				sets = 0
			}
			e.exercises[i].Sets = sets
		case PlanFieldReps:
			e.exercises[i].Reps = value
		case PlanFieldRest:
			e.exercises[i].Rest = value
		case PlanFieldDay:
			e.exercises[i].Day = value
		}
		return
	}
}

// Validate checks the editor state the same way Save does, without
// writing anything.
func (e *Editor) Validate() error {
	if strings.TrimSpace(e.name) == "" {
		return ErrNameMissing
	}
	if len(e.exercises) == 0 {
		return ErrNoExercises
	}
	return nil
}

// Save validates the routine and performs exactly one write: an insert
// for a new routine, an update for an existing one. On success the
// returned routine carries the authoritative id.
func (e *Editor) Save(ctx context.Context, repo routinesWriter) (*Routine, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	routine := Routine{
		ID:        e.routineID,
		Name:      e.name,
		Exercises: e.Exercises(),
	}

	if e.routineID == 0 {
		saved, err := repo.Add(ctx, routine)
		if err != nil {
			return nil, err
		}
		e.routineID = saved.ID
		return saved, nil
	}

	if err := repo.Update(ctx, &routine); err != nil {
		return nil, err
	}
	return &routine, nil
}
