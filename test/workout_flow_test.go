package test

import (
	"context"
	"net/http"

	"github.com/lclasicoaj/Fitness-app-project-1/internal/routines"
	"github.com/lclasicoaj/Fitness-app-project-1/internal/workouts"
	"github.com/lclasicoaj/Fitness-app-project-1/internal/workouts/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestRoutines() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := signUp(ctx, t, "routines-test@example.com", "testpass")

	// validation failures first
	resp := doRequest(ctx, t, token, "POST", "/routines", routines.SaveRoutineRequest{
		Exercises: []routines.ExercisePlan{{Name: "Squat"}},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(ctx, t, token, "POST", "/routines", routines.SaveRoutineRequest{
		Name: "Leg Day",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var saved routines.Routine
	resp = doRequest(ctx, t, token, "POST", "/routines", routines.SaveRoutineRequest{
		Name: "Leg Day",
		Exercises: []routines.ExercisePlan{
			{Name: "Squat", Sets: 5, Reps: "5"},
			{Name: "Leg Press", Sets: 3, Reps: "10-12"},
		},
	}, &saved)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotZero(t, saved.ID)
	require.Len(t, saved.Exercises, 2)

	// routines are shared, another user sees them too
	otherToken := signUp(ctx, t, "routines-test-2@example.com", "testpass")
	var listed []routines.Routine
	resp = doRequest(ctx, t, otherToken, "GET", "/routines", nil, &listed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, listed)

	// update
	saved.Name = "Leg Day v2"
	var updated routines.Routine
	resp = doRequest(ctx, t, token, "PUT", routinePath(saved.ID), routines.SaveRoutineRequest{
		Name:      saved.Name,
		Exercises: saved.Exercises,
	}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Leg Day v2", updated.Name)

	// delete, then it is gone
	resp = doRequest(ctx, t, token, "DELETE", routinePath(saved.ID), nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doRequest(ctx, t, token, "GET", routinePath(saved.ID), nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestActiveWorkoutFlow() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := signUp(ctx, t, "workout-flow-test@example.com", "testpass")

	var routine routines.Routine
	resp := doRequest(ctx, t, token, "POST", "/routines", routines.SaveRoutineRequest{
		Name: "Push Day",
		Exercises: []routines.ExercisePlan{
			{Name: "Bench", Sets: 4, Reps: "8-10"},
		},
	}, &routine)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// no draft yet
	resp = doRequest(ctx, t, token, "GET", "/workout/active", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// start from the routine
	var draft session.Draft
	resp = doRequest(ctx, t, token, "POST", "/workout/active", session.StartWorkoutRequest{
		RoutineID: &routine.ID,
	}, &draft)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, draft.Exercises, 1)
	assert.Equal(t, "Bench", draft.Exercises[0].Name)
	assert.Empty(t, draft.Exercises[0].Sets)
	exerciseID := draft.Exercises[0].ID

	// finishing without sets fails and keeps the draft
	resp = doRequest(ctx, t, token, "POST", "/workout/active/finish", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = doRequest(ctx, t, token, "GET", "/workout/active", nil, &draft)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// record a set
	resp = doRequest(ctx, t, token, "POST", "/workout/active/exercises/"+exerciseID+"/sets", nil, &draft)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, draft.Exercises[0].Sets, 1)
	setID := draft.Exercises[0].Sets[0].ID

	resp = doRequest(ctx, t, token, "PUT", "/workout/active/exercises/"+exerciseID+"/sets/"+setID,
		workouts.SetRecord{Weight: "60", Reps: "10"}, &draft)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "60", draft.Exercises[0].Sets[0].Weight)

	// finish commits the workout and clears the draft
	var savedWorkout workouts.Workout
	resp = doRequest(ctx, t, token, "POST", "/workout/active/finish", nil, &savedWorkout)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotZero(t, savedWorkout.ID)
	require.NotNil(t, savedWorkout.RoutineID)
	assert.Equal(t, routine.ID, *savedWorkout.RoutineID)
	assert.Equal(t, "Push Day", savedWorkout.RoutineName)

	resp = doRequest(ctx, t, token, "GET", "/workout/active", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// the workout shows up in history with a summary
	var history []workouts.Workout
	resp = doRequest(ctx, t, token, "GET", "/workouts", nil, &history)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, history, 1)

	var summary workouts.Summary
	resp = doRequest(ctx, t, token, "GET", workoutPath(savedWorkout.ID)+"/summary", nil, &summary)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, summary.ExercisesCount)
	assert.Equal(t, 1, summary.TotalSets)
	assert.Equal(t, 10, summary.TotalReps)
	assert.InDelta(t, 600, summary.TotalVolume, 0.001)

	// workouts are private, another user sees nothing
	otherToken := signUp(ctx, t, "workout-flow-test-2@example.com", "testpass")
	var otherHistory []workouts.Workout
	resp = doRequest(ctx, t, otherToken, "GET", "/workouts", nil, &otherHistory)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, otherHistory)
	resp = doRequest(ctx, t, otherToken, "GET", workoutPath(savedWorkout.ID), nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestCancelWorkout() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := signUp(ctx, t, "cancel-test@example.com", "testpass")

	var draft session.Draft
	resp := doRequest(ctx, t, token, "POST", "/workout/active", nil, &draft)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(ctx, t, token, "POST", "/workout/active/exercises",
		session.AddExerciseRequest{Name: "Deadlift"}, &draft)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(ctx, t, token, "POST", "/workout/active/cancel", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// draft gone, nothing committed
	resp = doRequest(ctx, t, token, "GET", "/workout/active", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// cancelling again is harmless
	resp = doRequest(ctx, t, token, "POST", "/workout/active/cancel", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var history []workouts.Workout
	resp = doRequest(ctx, t, token, "GET", "/workouts", nil, &history)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, history)
}
