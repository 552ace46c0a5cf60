package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lclasicoaj/Fitness-app-project-1/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already taken")
)

const uniqueViolationCode = "23505"

type UsersRepo struct {
	db *pgxpool.Pool
}

func NewUsersRepo(db *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{
		db: db,
	}
}

func (r *UsersRepo) Create(ctx context.Context, email, passwordHash string) (_ *Principal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	createdAt := time.Now()
	var id int
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO users (email, password_hash, created_at)
			VALUES ($1, $2, $3)
		RETURNING id;`,
		email, passwordHash, createdAt,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	span.SetAttributes(attribute.Int("user.id", id))

	return &Principal{
		ID:        id,
		Email:     email,
		CreatedAt: createdAt,
	}, nil
}

// GetByEmail returns the principal together with its stored password hash.
func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (_ *Principal, passwordHash string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByEmail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var p Principal
	err = r.db.QueryRow(
		ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = $1;`,
		email,
	).Scan(&p.ID, &p.Email, &passwordHash, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", ErrUserNotFound
	}
	if err != nil {
		return nil, "", err
	}

	return &p, passwordHash, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int) (_ *Principal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByID")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", id))

	var p Principal
	err = r.db.QueryRow(
		ctx,
		`SELECT id, email, created_at FROM users WHERE id = $1;`,
		id,
	).Scan(&p.ID, &p.Email, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}
