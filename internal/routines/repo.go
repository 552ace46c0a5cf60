package routines

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

var ErrRoutineNotFound = errors.New("routine not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, routine Routine) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	exercisesJson, err := json.Marshal(routine.Exercises)
	if err != nil {
		return nil, fmt.Errorf("marshal exercises: %w", err)
	}

	if routine.CreatedAt.IsZero() {
		routine.CreatedAt = time.Now()
	}

	var id int
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO routines (name, exercises, created_at)
			VALUES ($1, $2, $3)
		RETURNING id;`,
		routine.Name, exercisesJson, routine.CreatedAt,
	).Scan(&id)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("routine.id", id))

	// the authoritative id assigned by the backend replaces whatever
	// scaffold the caller was holding
	routine.ID = id
	return &routine, nil
}

func (r *Repo) Update(ctx context.Context, routine *Routine) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("routine.id", routine.ID))

	exercisesJson, err := json.Marshal(routine.Exercises)
	if err != nil {
		return fmt.Errorf("marshal exercises: %w", err)
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE routines SET name = $1, exercises = $2 WHERE id = $3;`,
		routine.Name, exercisesJson, routine.ID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrRoutineNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("routine.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM routines WHERE id = $1;`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRoutineNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("routine.id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, exercises, created_at FROM routines WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	all, err := r.rows2routines(rows)
	if err != nil {
		return nil, err
	}

	if len(all) != 1 {
		return nil, ErrRoutineNotFound
	}

	return &all[0], nil
}

// List returns all routines, newest first.
func (r *Repo) List(ctx context.Context) (_ []Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, exercises, created_at FROM routines ORDER BY created_at DESC;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	all, err := r.rows2routines(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2routines: %w", err)
	}
	return all, nil
}

func (r *Repo) rows2routines(rows pgx.Rows) ([]Routine, error) {
	var all []Routine
	for rows.Next() {
		var id int
		var name string
		var exercisesBytes []byte
		var createdAt time.Time
		if err := rows.Scan(&id, &name, &exercisesBytes, &createdAt); err != nil {
			return nil, err
		}

		routine := Routine{
			ID:        id,
			Name:      name,
			CreatedAt: createdAt,
		}

		if len(exercisesBytes) > 0 {
			if err := json.Unmarshal(exercisesBytes, &routine.Exercises); err != nil {
				return nil, fmt.Errorf("unmarshal exercises for routine %d: %w", id, err)
			}
		}
		if routine.Exercises == nil {
			routine.Exercises = make([]ExercisePlan, 0)
		}

		all = append(all, routine)
	}

	if all == nil {
		all = make([]Routine, 0)
	}

	return all, nil
}
