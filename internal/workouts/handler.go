package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/lclasicoaj/Fitness-app-project-1/internal/middleware"
	"github.com/lclasicoaj/Fitness-app-project-1/internal/telemetry/tracing"
	"github.com/lclasicoaj/Fitness-app-project-1/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=workouts_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	Get(ctx context.Context, userID, id int) (*Workout, error)
	List(ctx context.Context, userID int) ([]Workout, error)
	Delete(ctx context.Context, userID, id int) error
}

type DeleteWorkoutResponse struct {
	DeletedID int `json:"deletedId"`
}

type Handler struct {
	repo workoutsRepo
}

func NewHandler(repo workoutsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	all, err := handler.repo.List(ctx, userID)
	if err != nil {
		log.Errorf("failed to list workouts for user %d: %s", userID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	workoutsJson, err := json.Marshal(all)
	if err != nil {
		log.Errorf("failed to marshal workouts: %s", err)
		http.Error(w, "failed to list workouts", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, workoutsJson, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	id, ok := workoutID(w, r)
	if !ok {
		return
	}

	workout, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get workout %d for user %d: %s", id, userID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	workoutJson, err := json.Marshal(workout)
	if err != nil {
		log.Errorf("failed to marshal workout: %s", err)
		http.Error(w, "failed to get workout", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, workoutJson, http.StatusOK)
}

func (handler *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.summary")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	id, ok := workoutID(w, r)
	if !ok {
		return
	}

	workout, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get workout %d for user %d: %s", id, userID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	summaryJson, err := json.Marshal(Summarize(workout))
	if err != nil {
		log.Errorf("failed to marshal workout summary: %s", err)
		http.Error(w, "failed to get workout summary", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, summaryJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	id, ok := workoutID(w, r)
	if !ok {
		return
	}

	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete workout %d for user %d: %s", id, userID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteWorkoutResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, deleteRespJson, http.StatusOK)
}

func workoutID(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
