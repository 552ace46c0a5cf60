package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lclasicoaj/Fitness-app-project-1/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrWorkoutNotFound = errors.New("workout not found")

// Repo stores finished workouts. Every read and delete is scoped by
// the owning user id, one user can never touch another's workouts.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", workout.UserID))

	exercisesJson, err := json.Marshal(workout.Exercises)
	if err != nil {
		return nil, fmt.Errorf("marshal exercises: %w", err)
	}

	if workout.CreatedAt.IsZero() {
		workout.CreatedAt = time.Now()
	}

	var id int
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO workouts (user_id, routine_id, routine_name, exercises, created_at)
			VALUES ($1, $2, $3, $4, $5)
		RETURNING id;`,
		workout.UserID, workout.RoutineID, workout.RoutineName, exercisesJson, workout.CreatedAt,
	).Scan(&id)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("workout.id", id))

	workout.ID = id
	return &workout, nil
}

func (r *Repo) Get(ctx context.Context, userID, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.Int("workout.id", id),
	)

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, routine_id, routine_name, exercises, created_at
			FROM workouts
			WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	all, err := r.rows2workouts(rows)
	if err != nil {
		return nil, err
	}

	if len(all) != 1 {
		return nil, ErrWorkoutNotFound
	}

	return &all[0], nil
}

// List returns the user's workouts, newest first.
func (r *Repo) List(ctx context.Context, userID int) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, routine_id, routine_name, exercises, created_at
			FROM workouts
			WHERE user_id = $1
			ORDER BY created_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	all, err := r.rows2workouts(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2workouts: %w", err)
	}
	return all, nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.Int("workout.id", id),
	)

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workouts WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

func (r *Repo) rows2workouts(rows pgx.Rows) ([]Workout, error) {
	var all []Workout
	for rows.Next() {
		var id, userID int
		var routineID *int
		var routineName *string
		var exercisesBytes []byte
		var createdAt time.Time
		if err := rows.Scan(&id, &userID, &routineID, &routineName, &exercisesBytes, &createdAt); err != nil {
			return nil, err
		}

		workout := Workout{
			ID:        id,
			UserID:    userID,
			RoutineID: routineID,
			CreatedAt: createdAt,
		}
		if routineName != nil {
			workout.RoutineName = *routineName
		}

		if len(exercisesBytes) > 0 {
			if err := json.Unmarshal(exercisesBytes, &workout.Exercises); err != nil {
				return nil, fmt.Errorf("unmarshal exercises for workout %d: %w", id, err)
			}
		}
		if workout.Exercises == nil {
			workout.Exercises = make([]ExerciseLog, 0)
		}

		all = append(all, workout)
	}

	if all == nil {
		all = make([]Workout, 0)
	}

	return all, nil
}
