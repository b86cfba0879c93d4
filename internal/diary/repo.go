package diary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/liftdiary/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	// ErrWorkoutNotFound covers both a workout that does not exist and
	// a workout owned by somebody else. The two cases are deliberately
	// indistinguishable to the caller.
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrSetNotFound      = errors.New("set not found")
	ErrPositionTaken    = errors.New("position already taken")
)

const uniqueViolationCode = "23505"

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

type CreateWorkoutParams struct {
	Name      string
	StartedAt time.Time
}

type UpdateWorkoutParams struct {
	ID         int
	Name       *string
	StartedAt  *time.Time
	FinishedAt *time.Time
}

type AddSetParams struct {
	WorkoutExerciseID int
	SetNumber         *int
	Weight            float64
	Reps              int
}

// ListWorkoutsForDay returns the user's workouts started within
// [from, to], oldest first, fully hydrated with exercises and sets.
// Three queries instead of N+1: workouts, then all their exercises,
// then all the sets, grouped in memory.
func (r *Repo) ListWorkoutsForDay(ctx context.Context, userID string, from, to time.Time) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.listWorkoutsForDay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("from", from.String()))
	span.SetAttributes(attribute.String("to", to.String()))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, name, started_at, finished_at, created_at, updated_at
			FROM workout
			WHERE user_id = $1 AND started_at >= $2 AND started_at <= $3
			ORDER BY started_at ASC;`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query workouts: %w", err)
	}
	defer rows.Close()

	workouts, err := rows2workouts(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2workouts: %w", err)
	}

	if err := r.attachExercises(ctx, workouts); err != nil {
		return nil, fmt.Errorf("attach exercises: %w", err)
	}

	return workouts, nil
}

// GetWorkout returns the fully hydrated workout, but only when it
// belongs to the given user.
func (r *Repo) GetWorkout(ctx context.Context, userID string, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.getWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout.id", id))

	var w Workout
	err = r.db.QueryRow(
		ctx,
		`SELECT id, user_id, name, started_at, finished_at, created_at, updated_at
			FROM workout
			WHERE id = $1 AND user_id = $2;`,
		id, userID,
	).Scan(&w.ID, &w.UserID, &w.Name, &w.StartedAt, &w.FinishedAt, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}

	workouts := []Workout{w}
	if err := r.attachExercises(ctx, workouts); err != nil {
		return nil, fmt.Errorf("attach exercises: %w", err)
	}

	return &workouts[0], nil
}

func (r *Repo) CreateWorkout(ctx context.Context, userID string, params CreateWorkoutParams) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.createWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	w := Workout{
		UserID:    userID,
		Name:      params.Name,
		StartedAt: params.StartedAt,
		Exercises: []WorkoutExercise{},
	}
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO workout (user_id, name, started_at, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
			RETURNING id, created_at, updated_at;`,
		userID, params.Name, params.StartedAt,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("workout.id", w.ID))
	return &w, nil
}

// UpdateWorkout patches only the fields that are set. The owner check
// rides along in the WHERE clause, so a foreign workout behaves
// exactly like a missing one.
func (r *Repo) UpdateWorkout(ctx context.Context, userID string, params UpdateWorkoutParams) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.updateWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout.id", params.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout SET
				name = COALESCE($1, name),
				started_at = COALESCE($2, started_at),
				finished_at = COALESCE($3, finished_at),
				updated_at = now()
			WHERE id = $4 AND user_id = $5;`,
		params.Name, params.StartedAt, params.FinishedAt,
		params.ID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

// DeleteWorkout removes the workout together with its exercises and
// sets (FK cascade).
func (r *Repo) DeleteWorkout(ctx context.Context, userID string, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.deleteWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout WHERE id = $1 AND user_id = $2;`,
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

func (r *Repo) FinishWorkout(ctx context.Context, userID string, id int, finishedAt time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.finishWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout.id", id))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout SET finished_at = $1, updated_at = now()
			WHERE id = $2 AND user_id = $3;`,
		finishedAt, id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

// AddExercise links an exercise to an owned workout. The catalog entry
// is created on first use of the name. When position is nil the
// exercise is appended after the current last one.
func (r *Repo) AddExercise(ctx context.Context, userID string, workoutID int, name string, position *int) (_ *WorkoutExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.addExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout.id", workoutID))
	span.SetAttributes(attribute.String("exercise.name", name))

	// resolve the workout first, a rejected add must not leave a row
	// in the shared catalog
	var ownedWorkoutID int
	err = r.db.QueryRow(
		ctx,
		`SELECT id FROM workout WHERE id = $1 AND user_id = $2;`,
		workoutID, userID,
	).Scan(&ownedWorkoutID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}

	// the DO UPDATE no-op makes RETURNING work for existing names too
	var exerciseID int
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO exercise (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id;`,
		name,
	).Scan(&exerciseID); err != nil {
		return nil, fmt.Errorf("get or create catalog exercise: %w", err)
	}

	we := WorkoutExercise{
		ExerciseID: exerciseID,
		Name:       name,
		Sets:       []Set{},
	}
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO workout_exercise (workout_id, exercise_id, position)
			SELECT w.id, $2, COALESCE(
				$3::int,
				(SELECT COALESCE(MAX(position), 0) + 1 FROM workout_exercise WHERE workout_id = w.id)
			)
			FROM workout w
			WHERE w.id = $1 AND w.user_id = $4
			RETURNING id, position;`,
		workoutID, exerciseID, position, userID,
	).Scan(&we.ID, &we.Position)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return nil, ErrPositionTaken
	}
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("workout_exercise.id", we.ID))
	return &we, nil
}

func (r *Repo) DeleteExercise(ctx context.Context, userID string, workoutExerciseID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.deleteExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout_exercise.id", workoutExerciseID))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout_exercise we
			USING workout w
			WHERE we.id = $1 AND we.workout_id = w.id AND w.user_id = $2;`,
		workoutExerciseID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

// AddSet logs a set against an exercise of an owned workout. When
// SetNumber is nil the next free number is used.
func (r *Repo) AddSet(ctx context.Context, userID string, params AddSetParams) (_ *Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.addSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout_exercise.id", params.WorkoutExerciseID))

	s := Set{
		Weight: params.Weight,
		Reps:   params.Reps,
	}
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO workout_set (workout_exercise_id, set_number, weight, reps)
			SELECT we.id, COALESCE(
				$2::int,
				(SELECT COALESCE(MAX(set_number), 0) + 1 FROM workout_set WHERE workout_exercise_id = we.id)
			), $3, $4
			FROM workout_exercise we
			JOIN workout w ON w.id = we.workout_id
			WHERE we.id = $1 AND w.user_id = $5
			RETURNING id, set_number;`,
		params.WorkoutExerciseID, params.SetNumber, params.Weight, params.Reps, userID,
	).Scan(&s.ID, &s.SetNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("set.id", s.ID))
	return &s, nil
}

func (r *Repo) DeleteSet(ctx context.Context, userID string, setID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.deleteSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("set.id", setID))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout_set s
			USING workout_exercise we, workout w
			WHERE s.id = $1
				AND s.workout_exercise_id = we.id
				AND we.workout_id = w.id
				AND w.user_id = $2;`,
		setID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSetNotFound
	}
	return nil
}

func (r *Repo) ListExerciseCatalog(ctx context.Context) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.listExerciseCatalog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT id, name FROM exercise ORDER BY name ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]Exercise, 0)
	for rows.Next() {
		var e Exercise
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exercises, nil
}

// attachExercises hydrates the given workouts in place with their
// exercises and sets, preserving position and set number order.
func (r *Repo) attachExercises(ctx context.Context, workouts []Workout) error {
	if len(workouts) == 0 {
		return nil
	}

	workoutIDs := make([]int32, 0, len(workouts))
	workoutIdx := make(map[int]int, len(workouts))
	for i := range workouts {
		workouts[i].Exercises = []WorkoutExercise{}
		workoutIDs = append(workoutIDs, int32(workouts[i].ID))
		workoutIdx[workouts[i].ID] = i
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT we.id, we.workout_id, we.exercise_id, e.name, we.position
			FROM workout_exercise we
			JOIN exercise e ON e.id = we.exercise_id
			WHERE we.workout_id = ANY($1)
			ORDER BY we.workout_id, we.position ASC;`,
		workoutIDs,
	)
	if err != nil {
		return fmt.Errorf("query workout exercises: %w", err)
	}
	defer rows.Close()

	type exerciseOwner struct {
		workoutID int
		index     int
	}
	exerciseIDs := make([]int32, 0)
	exerciseOwners := make(map[int]exerciseOwner)
	for rows.Next() {
		var we WorkoutExercise
		var workoutID int
		if err := rows.Scan(&we.ID, &workoutID, &we.ExerciseID, &we.Name, &we.Position); err != nil {
			return fmt.Errorf("scan workout exercise: %w", err)
		}
		we.Sets = []Set{}

		i := workoutIdx[workoutID]
		workouts[i].Exercises = append(workouts[i].Exercises, we)
		exerciseOwners[we.ID] = exerciseOwner{
			workoutID: workoutID,
			index:     len(workouts[i].Exercises) - 1,
		}
		exerciseIDs = append(exerciseIDs, int32(we.ID))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("workout exercise rows: %w", err)
	}

	if len(exerciseIDs) == 0 {
		return nil
	}

	setRows, err := r.db.Query(
		ctx,
		`SELECT id, workout_exercise_id, set_number, weight, reps
			FROM workout_set
			WHERE workout_exercise_id = ANY($1)
			ORDER BY workout_exercise_id, set_number ASC;`,
		exerciseIDs,
	)
	if err != nil {
		return fmt.Errorf("query sets: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var s Set
		var workoutExerciseID int
		if err := setRows.Scan(&s.ID, &workoutExerciseID, &s.SetNumber, &s.Weight, &s.Reps); err != nil {
			return fmt.Errorf("scan set: %w", err)
		}

		owner := exerciseOwners[workoutExerciseID]
		i := workoutIdx[owner.workoutID]
		workouts[i].Exercises[owner.index].Sets = append(workouts[i].Exercises[owner.index].Sets, s)
	}
	if err := setRows.Err(); err != nil {
		return fmt.Errorf("set rows: %w", err)
	}

	return nil
}

func rows2workouts(rows pgx.Rows) ([]Workout, error) {
	workouts := make([]Workout, 0)
	for rows.Next() {
		var w Workout
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.Name,
			&w.StartedAt, &w.FinishedAt,
			&w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}
