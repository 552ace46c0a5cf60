package routines

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/lclasicoaj/Fitness-app-project-1/internal/telemetry/tracing"
	"github.com/lclasicoaj/Fitness-app-project-1/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=routines_mocks_test.go -package=routines_test

type routinesRepo interface {
	Add(ctx context.Context, routine Routine) (*Routine, error)
	Get(ctx context.Context, id int) (*Routine, error)
	List(ctx context.Context) ([]Routine, error)
	Update(ctx context.Context, routine *Routine) error
	Delete(ctx context.Context, id int) error
}

type SaveRoutineRequest struct {
	Name      string         `json:"name"`
	Exercises []ExercisePlan `json:"exercises"`
}

type DeleteRoutineResponse struct {
	DeletedID int `json:"deletedId"`
}

type Handler struct {
	repo routinesRepo
}

func NewHandler(repo routinesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.list")
	defer span.End()

	all, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("failed to list routines: %s", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	routinesJson, err := json.Marshal(all)
	if err != nil {
		log.Errorf("failed to marshal routines: %s", err)
		http.Error(w, "failed to list routines", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, routinesJson, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.get")
	defer span.End()

	id, ok := routineID(w, r)
	if !ok {
		return
	}

	routine, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRoutineNotFound) {
			http.Error(w, "routine not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get routine %d: %s", id, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	routineJson, err := json.Marshal(routine)
	if err != nil {
		log.Errorf("failed to marshal routine: %s", err)
		http.Error(w, "failed to get routine", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, routineJson, http.StatusOK)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.add")
	defer span.End()

	editor, ok := handler.editorFromRequest(w, r, 0)
	if !ok {
		return
	}

	saved, err := editor.Save(ctx, handler.repo)
	if err != nil {
		handler.writeSaveError(w, err)
		return
	}

	log.Debugf("new routine added: [%s]: %d", saved.Name, saved.ID)

	savedJson, err := json.Marshal(saved)
	if err != nil {
		log.Errorf("failed to marshal saved routine: %s", err)
		http.Error(w, "failed to save routine", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, savedJson, http.StatusCreated)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.update")
	defer span.End()

	id, ok := routineID(w, r)
	if !ok {
		return
	}

	editor, ok := handler.editorFromRequest(w, r, id)
	if !ok {
		return
	}

	saved, err := editor.Save(ctx, handler.repo)
	if err != nil {
		handler.writeSaveError(w, err)
		return
	}

	savedJson, err := json.Marshal(saved)
	if err != nil {
		log.Errorf("failed to marshal updated routine: %s", err)
		http.Error(w, "failed to save routine", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, savedJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.delete")
	defer span.End()

	id, ok := routineID(w, r)
	if !ok {
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrRoutineNotFound) {
			http.Error(w, "routine not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete routine %d: %s", id, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteRoutineResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, deleteRespJson, http.StatusOK)
}

func (handler *Handler) editorFromRequest(w http.ResponseWriter, r *http.Request, id int) (*Editor, bool) {
	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return nil, false
	}

	var req SaveRoutineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("save routine, unmarshal json params: %s", err)
		http.Error(w, "save routine failed", http.StatusBadRequest)
		return nil, false
	}

	editor := NewEditor(&Routine{
		ID:        id,
		Name:      req.Name,
		Exercises: req.Exercises,
	})

	// plans scaffolded elsewhere may come without ids
	for i, ex := range editor.exercises {
		if ex.ID == "" {
			editor.exercises[i].ID = editor.NewIDFunc()
		}
	}

	return editor, true
}

func (handler *Handler) writeSaveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNameMissing), errors.Is(err, ErrNoExercises):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrRoutineNotFound):
		http.Error(w, "routine not found", http.StatusNotFound)
	default:
		// backend failures travel to the user as-is
		log.Errorf("failed to save routine: %s", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func routineID(w http.ResponseWriter, r *http.Request) (int, bool) {
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
