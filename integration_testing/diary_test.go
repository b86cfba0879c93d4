package integration_testing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/liftdiary/internal/diary"
)

func (s *IntegrationTestSuite) createWorkout(ctx context.Context, token, name, startedAt string) diary.Workout {
	t := s.T()
	t.Helper()

	body := fmt.Sprintf(`{"name":%q,"startedAt":%q}`, name, startedAt)
	resp := s.doRequest(ctx, "POST", "/diary/workout", token, []byte(body))
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var workout diary.Workout
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&workout))
	require.NotZero(t, workout.ID)
	return workout
}

func (s *IntegrationTestSuite) addExercise(ctx context.Context, token string, workoutID int, name string) diary.WorkoutExercise {
	t := s.T()
	t.Helper()

	body := fmt.Sprintf(`{"name":%q}`, name)
	resp := s.doRequest(ctx, "POST", fmt.Sprintf("/diary/workout/%d/exercise", workoutID), token, []byte(body))
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var workoutExercise diary.WorkoutExercise
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&workoutExercise))
	return workoutExercise
}

func (s *IntegrationTestSuite) addSet(ctx context.Context, token string, workoutExerciseID int, weight float64, reps int) diary.Set {
	t := s.T()
	t.Helper()

	body := fmt.Sprintf(`{"weight":%f,"reps":%d}`, weight, reps)
	resp := s.doRequest(ctx, "POST", fmt.Sprintf("/diary/exercise/%d/set", workoutExerciseID), token, []byte(body))
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var set diary.Set
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&set))
	return set
}

func (s *IntegrationTestSuite) TestWorkoutLifecycle() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.registerAndLogin(ctx, gofakeit.Username(), "str0ng-enough-pass")

	workout := s.createWorkout(ctx, token, "Leg Day", "2025-06-04T18:00:00Z")
	assert.Equal(t, "Leg Day", workout.Name)
	assert.Nil(t, workout.FinishedAt)

	squat := s.addExercise(ctx, token, workout.ID, "Squat")
	assert.Equal(t, 1, squat.Position)
	legPress := s.addExercise(ctx, token, workout.ID, "Leg Press")
	assert.Equal(t, 2, legPress.Position)

	set1 := s.addSet(ctx, token, squat.ID, 100, 5)
	assert.Equal(t, 1, set1.SetNumber)
	set2 := s.addSet(ctx, token, squat.ID, 105, 3)
	assert.Equal(t, 2, set2.SetNumber)

	t.Run("get returns the nested workout", func(t *testing.T) {
		resp := s.doRequest(ctx, "GET", fmt.Sprintf("/diary/workout/%d", workout.ID), token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var fetched diary.Workout
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
		require.Len(t, fetched.Exercises, 2)
		assert.Equal(t, "Squat", fetched.Exercises[0].Name)
		require.Len(t, fetched.Exercises[0].Sets, 2)
		assert.Equal(t, float64(100), fetched.Exercises[0].Sets[0].Weight)
		assert.Equal(t, 3, fetched.Exercises[0].Sets[1].Reps)
		assert.Equal(t, "Leg Press", fetched.Exercises[1].Name)
		assert.Empty(t, fetched.Exercises[1].Sets)
	})

	t.Run("finish and rename", func(t *testing.T) {
		resp := s.doRequest(ctx, "POST", fmt.Sprintf("/diary/workout/%d/finish", workout.ID), token,
			[]byte(`{"finishedAt":"2025-06-04T19:30:00Z"}`))
		require.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = s.doRequest(ctx, "PUT", fmt.Sprintf("/diary/workout/%d", workout.ID), token,
			[]byte(`{"name":"Leg Day (heavy)"}`))
		require.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = s.doRequest(ctx, "GET", fmt.Sprintf("/diary/workout/%d", workout.ID), token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var fetched diary.Workout
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
		assert.Equal(t, "Leg Day (heavy)", fetched.Name)
		require.NotNil(t, fetched.FinishedAt)
		assert.Equal(t, 90*time.Minute, fetched.Duration())
	})

	t.Run("delete, then gone", func(t *testing.T) {
		resp := s.doRequest(ctx, "DELETE", fmt.Sprintf("/diary/workout/%d", workout.ID), token, nil)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = s.doRequest(ctx, "GET", fmt.Sprintf("/diary/workout/%d", workout.ID), token, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func (s *IntegrationTestSuite) TestUserIsolation() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tokenA := s.registerAndLogin(ctx, gofakeit.Username(), "str0ng-enough-pass")
	tokenB := s.registerAndLogin(ctx, gofakeit.Username(), "str0ng-enough-pass")

	workout := s.createWorkout(ctx, tokenA, "Private Session", "2025-07-01T10:00:00Z")
	workoutExercise := s.addExercise(ctx, tokenA, workout.ID, "Bench Press")
	set := s.addSet(ctx, tokenA, workoutExercise.ID, 80, 8)

	// every operation on a foreign workout looks like a missing workout
	type isolationCase struct {
		method string
		path   string
		body   []byte
	}
	cases := []isolationCase{
		{"GET", fmt.Sprintf("/diary/workout/%d", workout.ID), nil},
		{"PUT", fmt.Sprintf("/diary/workout/%d", workout.ID), []byte(`{"name":"hijacked"}`)},
		{"DELETE", fmt.Sprintf("/diary/workout/%d", workout.ID), nil},
		{"POST", fmt.Sprintf("/diary/workout/%d/finish", workout.ID), nil},
		{"POST", fmt.Sprintf("/diary/workout/%d/exercise", workout.ID), []byte(`{"name":"Curl"}`)},
		{"DELETE", fmt.Sprintf("/diary/exercise/%d", workoutExercise.ID), nil},
		{"POST", fmt.Sprintf("/diary/exercise/%d/set", workoutExercise.ID), []byte(`{"weight":60,"reps":10}`)},
		{"DELETE", fmt.Sprintf("/diary/set/%d", set.ID), nil},
	}
	for _, tc := range cases {
		resp := s.doRequest(ctx, tc.method, tc.path, tokenB, tc.body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "%s %s", tc.method, tc.path)
		require.NoError(t, resp.Body.Close())
	}

	t.Run("rejected add leaves no catalog row", func(t *testing.T) {
		name := "Zercher Squat " + gofakeit.LetterN(6)
		body := []byte(fmt.Sprintf(`{"name":%q}`, name))
		resp := s.doRequest(ctx, "POST", fmt.Sprintf("/diary/workout/%d/exercise", workout.ID), tokenB, body)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		var catalogCount int
		require.NoError(t, s.db.QueryRow(ctx,
			`SELECT COUNT(*) FROM exercise WHERE name = $1`, name,
		).Scan(&catalogCount))
		assert.Zero(t, catalogCount)
	})

	t.Run("other user's day stays empty", func(t *testing.T) {
		resp := s.doRequest(ctx, "GET", "/diary/day/2025-07-01", tokenB, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var listResp struct {
			Workouts []diary.Workout `json:"workouts"`
			Total    int             `json:"total"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&listResp))
		assert.Zero(t, listResp.Total)
	})

	t.Run("owner still sees everything", func(t *testing.T) {
		resp := s.doRequest(ctx, "GET", fmt.Sprintf("/diary/workout/%d", workout.ID), tokenA, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var fetched diary.Workout
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
		require.Len(t, fetched.Exercises, 1)
		require.Len(t, fetched.Exercises[0].Sets, 1)
	})
}

func (s *IntegrationTestSuite) TestListWorkoutsForDay() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.registerAndLogin(ctx, gofakeit.Username(), "str0ng-enough-pass")

	s.createWorkout(ctx, token, "Evening", "2025-08-10T18:00:00Z")
	s.createWorkout(ctx, token, "Morning", "2025-08-10T06:00:00Z")
	s.createWorkout(ctx, token, "Day Before", "2025-08-09T23:59:00Z")
	s.createWorkout(ctx, token, "Day After", "2025-08-11T00:30:00Z")

	t.Run("UTC day, oldest first", func(t *testing.T) {
		resp := s.doRequest(ctx, "GET", "/diary/day/2025-08-10", token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var listResp struct {
			Workouts []diary.Workout `json:"workouts"`
			Total    int             `json:"total"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&listResp))
		require.Equal(t, 2, listResp.Total)
		assert.Equal(t, "Morning", listResp.Workouts[0].Name)
		assert.Equal(t, "Evening", listResp.Workouts[1].Name)
	})

	t.Run("timezone shifts the day window", func(t *testing.T) {
		// Berlin (UTC+2 in August): Aug 11 starts at Aug 10 22:00 UTC,
		// so the "Day After" 00:30 UTC workout belongs to Aug 11 too
		resp := s.doRequest(ctx, "GET", "/diary/day/2025-08-11?tz=Europe%2FBerlin", token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var listResp struct {
			Workouts []diary.Workout `json:"workouts"`
			Total    int             `json:"total"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&listResp))
		require.Equal(t, 1, listResp.Total)
		assert.Equal(t, "Day After", listResp.Workouts[0].Name)
	})

	t.Run("invalid date", func(t *testing.T) {
		resp := s.doRequest(ctx, "GET", "/diary/day/10-08-2025", token, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func (s *IntegrationTestSuite) TestDeleteWorkoutCascades() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.registerAndLogin(ctx, gofakeit.Username(), "str0ng-enough-pass")

	workout := s.createWorkout(ctx, token, "Cascade Victim", "2025-09-01T10:00:00Z")
	workoutExercise := s.addExercise(ctx, token, workout.ID, "Deadlift")
	s.addSet(ctx, token, workoutExercise.ID, 140, 5)
	s.addSet(ctx, token, workoutExercise.ID, 150, 3)

	resp := s.doRequest(ctx, "DELETE", fmt.Sprintf("/diary/workout/%d", workout.ID), token, nil)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var exerciseCount int
	require.NoError(t, s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout_exercise WHERE workout_id = $1`, workout.ID,
	).Scan(&exerciseCount))
	assert.Zero(t, exerciseCount)

	var setCount int
	require.NoError(t, s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout_set WHERE workout_exercise_id = $1`, workoutExercise.ID,
	).Scan(&setCount))
	assert.Zero(t, setCount)

	// the catalog entry survives the cascade
	var catalogCount int
	require.NoError(t, s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM exercise WHERE name = 'Deadlift'`,
	).Scan(&catalogCount))
	assert.Equal(t, 1, catalogCount)
}

func (s *IntegrationTestSuite) TestExerciseCatalogShared() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tokenA := s.registerAndLogin(ctx, gofakeit.Username(), "str0ng-enough-pass")
	tokenB := s.registerAndLogin(ctx, gofakeit.Username(), "str0ng-enough-pass")

	workoutA := s.createWorkout(ctx, tokenA, "A", "2025-09-02T10:00:00Z")
	workoutB := s.createWorkout(ctx, tokenB, "B", "2025-09-02T11:00:00Z")

	exerciseName := "Overhead Press " + gofakeit.LetterN(6)
	exerciseA := s.addExercise(ctx, tokenA, workoutA.ID, exerciseName)
	exerciseB := s.addExercise(ctx, tokenB, workoutB.ID, exerciseName)

	// same name resolves to the same catalog entry for everybody
	assert.Equal(t, exerciseA.ExerciseID, exerciseB.ExerciseID)

	resp := s.doRequest(ctx, "GET", "/diary/exercises", tokenA, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var catalog []diary.Exercise
	require.NoError(t, json.Unmarshal(respBytes, &catalog))

	found := false
	for _, e := range catalog {
		if e.Name == exerciseName {
			found = true
			break
		}
	}
	assert.True(t, found, "catalog should contain %s", exerciseName)
}
