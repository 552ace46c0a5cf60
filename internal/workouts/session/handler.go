package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lclasicoaj/Fitness-app-project-1/internal/middleware"
	"github.com/lclasicoaj/Fitness-app-project-1/internal/routines"
	"github.com/lclasicoaj/Fitness-app-project-1/internal/telemetry/metrics"
	"github.com/lclasicoaj/Fitness-app-project-1/internal/telemetry/tracing"
	"github.com/lclasicoaj/Fitness-app-project-1/internal/workouts"
	"github.com/lclasicoaj/Fitness-app-project-1/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=session_mocks_test.go -package=session_test

type routinesGetter interface {
	Get(ctx context.Context, id int) (*routines.Routine, error)
}

type StartWorkoutRequest struct {
	RoutineID *int `json:"routineId,omitempty"`
}

type AddExerciseRequest struct {
	Name string `json:"name"`
}

type Handler struct {
	editor         *Editor
	routines       routinesGetter
	metricsManager *metrics.Manager
}

func NewHandler(editor *Editor, routinesRepo routinesGetter, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		editor:         editor,
		routines:       routinesRepo,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activeworkout.get")
	defer span.End()

	userID, ok := userID(ctx, w)
	if !ok {
		return
	}

	draft, err := handler.editor.Current(ctx, userID)
	if err != nil {
		handler.writeEditorError(w, err, "failed to get active workout")
		return
	}
	handler.writeDraft(w, draft, http.StatusOK)
}

// HandleStart begins a draft: expanded from a routine when the request
// names one, blank otherwise.
func (handler *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activeworkout.start")
	defer span.End()

	userID, ok := userID(ctx, w)
	if !ok {
		return
	}

	var req StartWorkoutRequest
	if r.Body != nil && r.Body != http.NoBody {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Errorf("start workout, unmarshal json params: %s", err)
			http.Error(w, "start workout failed", http.StatusBadRequest)
			return
		}
	}

	var draft *Draft
	var err error
	if req.RoutineID != nil {
		var routine *routines.Routine
		routine, err = handler.routines.Get(ctx, *req.RoutineID)
		if err != nil {
			if errors.Is(err, routines.ErrRoutineNotFound) {
				http.Error(w, "routine not found", http.StatusNotFound)
				return
			}
			log.Errorf("start workout, get routine %d: %s", *req.RoutineID, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		draft, err = handler.editor.StartFromRoutine(ctx, userID, routine)
	} else {
		draft, err = handler.editor.StartBlank(ctx, userID)
	}
	if err != nil {
		log.Errorf("failed to start workout for user %d: %s", userID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	handler.writeDraft(w, draft, http.StatusCreated)
}

func (handler *Handler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activeworkout.addexercise")
	defer span.End()

	userID, ok := userID(ctx, w)
	if !ok {
		return
	}

	var req AddExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("add exercise, unmarshal json params: %s", err)
		http.Error(w, "add exercise failed", http.StatusBadRequest)
		return
	}

	draft, err := handler.editor.AddExercise(ctx, userID, req.Name)
	if err != nil {
		handler.writeEditorError(w, err, "add exercise failed")
		return
	}
	handler.writeDraft(w, draft, http.StatusOK)
}

func (handler *Handler) HandleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activeworkout.updateexercise")
	defer span.End()

	userID, ok := userID(ctx, w)
	if !ok {
		return
	}

	var updated workouts.ExerciseLog
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		log.Errorf("update exercise, unmarshal json params: %s", err)
		http.Error(w, "update exercise failed", http.StatusBadRequest)
		return
	}

	draft, err := handler.editor.UpdateExercise(ctx, userID, mux.Vars(r)["exerciseId"], updated)
	if err != nil {
		handler.writeEditorError(w, err, "update exercise failed")
		return
	}
	handler.writeDraft(w, draft, http.StatusOK)
}

func (handler *Handler) HandleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activeworkout.deleteexercise")
	defer span.End()

	userID, ok := userID(ctx, w)
	if !ok {
		return
	}

	draft, err := handler.editor.DeleteExercise(ctx, userID, mux.Vars(r)["exerciseId"])
	if err != nil {
		handler.writeEditorError(w, err, "delete exercise failed")
		return
	}
	handler.writeDraft(w, draft, http.StatusOK)
}

func (handler *Handler) HandleAddSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activeworkout.addset")
	defer span.End()

	userID, ok := userID(ctx, w)
	if !ok {
		return
	}

	draft, err := handler.editor.AddSet(ctx, userID, mux.Vars(r)["exerciseId"])
	if err != nil {
		handler.writeEditorError(w, err, "add set failed")
		return
	}
	handler.writeDraft(w, draft, http.StatusOK)
}

func (handler *Handler) HandleUpdateSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activeworkout.updateset")
	defer span.End()

	userID, ok := userID(ctx, w)
	if !ok {
		return
	}

	var updated workouts.SetRecord
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		log.Errorf("update set, unmarshal json params: %s", err)
		http.Error(w, "update set failed", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	draft, err := handler.editor.UpdateSet(ctx, userID, vars["exerciseId"], vars["setId"], updated)
	if err != nil {
		handler.writeEditorError(w, err, "update set failed")
		return
	}
	handler.writeDraft(w, draft, http.StatusOK)
}

func (handler *Handler) HandleDeleteSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activeworkout.deleteset")
	defer span.End()

	userID, ok := userID(ctx, w)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	draft, err := handler.editor.DeleteSet(ctx, userID, vars["exerciseId"], vars["setId"])
	if err != nil {
		handler.writeEditorError(w, err, "delete set failed")
		return
	}
	handler.writeDraft(w, draft, http.StatusOK)
}

func (handler *Handler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activeworkout.finish")
	defer span.End()

	userID, ok := userID(ctx, w)
	if !ok {
		return
	}

	saved, err := handler.editor.Finish(ctx, userID)
	if err != nil {
		handler.writeEditorError(w, err, "failed to save workout")
		return
	}

	handler.metricsManager.CounterWorkoutsSaved.Inc()
	log.Debugf("workout %d saved for user %d", saved.ID, userID)

	savedJson, err := json.Marshal(saved)
	if err != nil {
		log.Errorf("failed to marshal saved workout: %s", err)
		http.Error(w, "failed to save workout", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, savedJson, http.StatusCreated)
}

func (handler *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activeworkout.cancel")
	defer span.End()

	userID, ok := userID(ctx, w)
	if !ok {
		return
	}

	if err := handler.editor.Cancel(ctx, userID); err != nil {
		handler.writeEditorError(w, err, "cancel workout failed")
		return
	}

	handler.metricsManager.CounterWorkoutsCancelled.Inc()
	pkg.WriteTextResponseOK(w, "cancelled")
}

func (handler *Handler) writeDraft(w http.ResponseWriter, draft *Draft, statusCode int) {
	draftJson, err := json.Marshal(draft)
	if err != nil {
		log.Errorf("failed to marshal draft: %s", err)
		http.Error(w, "failed to marshal active workout", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, draftJson, statusCode)
}

func (handler *Handler) writeEditorError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNoActiveWorkout):
		http.Error(w, ErrNoActiveWorkout.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNoExercises), errors.Is(err, ErrNoSets):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		// backend failures travel to the user as-is
		log.Errorf("%s: %s", fallback, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func userID(ctx context.Context, w http.ResponseWriter) (int, bool) {
	id, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return 0, false
	}
	return id, true
}
