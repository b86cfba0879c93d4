package diary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/liftdiary/internal/auth"
	"github.com/2beens/liftdiary/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=diary_mocks_test.go -package=diary_test

// ErrNoIdentity means the request context carries no resolved user id.
// The auth middleware normally guarantees one; hitting this is either a
// wiring bug or a direct unauthenticated call.
var ErrNoIdentity = errors.New("no user identity in context")

const maxWorkoutNameLength = 100

type ValidationError struct {
	Field  string
	Reason string
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", ve.Field, ve.Reason)
}

type diaryRepo interface {
	ListWorkoutsForDay(ctx context.Context, userID string, from, to time.Time) ([]Workout, error)
	GetWorkout(ctx context.Context, userID string, id int) (*Workout, error)
	CreateWorkout(ctx context.Context, userID string, params CreateWorkoutParams) (*Workout, error)
	UpdateWorkout(ctx context.Context, userID string, params UpdateWorkoutParams) error
	DeleteWorkout(ctx context.Context, userID string, id int) error
	FinishWorkout(ctx context.Context, userID string, id int, finishedAt time.Time) error
	AddExercise(ctx context.Context, userID string, workoutID int, name string, position *int) (*WorkoutExercise, error)
	DeleteExercise(ctx context.Context, userID string, workoutExerciseID int) error
	AddSet(ctx context.Context, userID string, params AddSetParams) (*Set, error)
	DeleteSet(ctx context.Context, userID string, setID int) error
	ListExerciseCatalog(ctx context.Context) ([]Exercise, error)
}

// Service sits between the HTTP handler and the repo. Every method
// resolves the caller from the request context and hands the explicit
// user id down, so the repo never touches another user's rows.
type Service struct {
	repo diaryRepo

	// replaced in tests
	Now func() time.Time
}

func NewService(repo diaryRepo) *Service {
	return &Service{
		repo: repo,
		Now:  time.Now,
	}
}

// ListWorkoutsForDay lists the caller's workouts for a calendar day.
// The day runs from midnight to the last nanosecond before the next
// midnight, in the given IANA timezone (UTC when empty).
func (s *Service) ListWorkoutsForDay(ctx context.Context, date, timezone string) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.diary.listWorkoutsForDay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("date", date))

	userID, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}

	loc := time.UTC
	if timezone != "" {
		loc, err = time.LoadLocation(timezone)
		if err != nil {
			return nil, ValidationError{Field: "timezone", Reason: "unknown IANA timezone"}
		}
	}

	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, ValidationError{Field: "date", Reason: "expected format YYYY-MM-DD"}
	}

	from := day
	// next local midnight, not day+24h: DST days are 23 or 25 hours long
	to := day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return s.repo.ListWorkoutsForDay(ctx, userID, from, to)
}

func (s *Service) GetWorkout(ctx context.Context, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.diary.getWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout.id", id))

	userID, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}

	return s.repo.GetWorkout(ctx, userID, id)
}

func (s *Service) CreateWorkout(ctx context.Context, params CreateWorkoutParams) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.diary.createWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	userID, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}

	if err := validateWorkoutName(params.Name); err != nil {
		return nil, err
	}
	if params.StartedAt.IsZero() {
		params.StartedAt = s.Now()
	}

	return s.repo.CreateWorkout(ctx, userID, params)
}

func (s *Service) UpdateWorkout(ctx context.Context, params UpdateWorkoutParams) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.diary.updateWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout.id", params.ID))

	userID, ok := auth.UserFromContext(ctx)
	if !ok {
		return ErrNoIdentity
	}

	if params.Name == nil && params.StartedAt == nil && params.FinishedAt == nil {
		return ValidationError{Field: "body", Reason: "nothing to update"}
	}
	if params.Name != nil {
		if err := validateWorkoutName(*params.Name); err != nil {
			return err
		}
	}
	if params.StartedAt != nil && params.FinishedAt != nil &&
		params.FinishedAt.Before(*params.StartedAt) {
		return ValidationError{Field: "finishedAt", Reason: "finish before start"}
	}

	return s.repo.UpdateWorkout(ctx, userID, params)
}

func (s *Service) DeleteWorkout(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.diary.deleteWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout.id", id))

	userID, ok := auth.UserFromContext(ctx)
	if !ok {
		return ErrNoIdentity
	}

	return s.repo.DeleteWorkout(ctx, userID, id)
}

func (s *Service) FinishWorkout(ctx context.Context, id int, finishedAt time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.diary.finishWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout.id", id))

	userID, ok := auth.UserFromContext(ctx)
	if !ok {
		return ErrNoIdentity
	}

	if finishedAt.IsZero() {
		finishedAt = s.Now()
	}

	return s.repo.FinishWorkout(ctx, userID, id, finishedAt)
}

func (s *Service) AddExercise(ctx context.Context, workoutID int, name string, position *int) (_ *WorkoutExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.diary.addExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout.id", workoutID))
	span.SetAttributes(attribute.String("exercise.name", name))

	userID, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}

	if name == "" {
		return nil, ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if len(name) > maxWorkoutNameLength {
		return nil, ValidationError{Field: "name", Reason: "too long"}
	}
	if position != nil && *position < 1 {
		return nil, ValidationError{Field: "position", Reason: "must be at least 1"}
	}

	return s.repo.AddExercise(ctx, userID, workoutID, name, position)
}

func (s *Service) DeleteExercise(ctx context.Context, workoutExerciseID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.diary.deleteExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout_exercise.id", workoutExerciseID))

	userID, ok := auth.UserFromContext(ctx)
	if !ok {
		return ErrNoIdentity
	}

	return s.repo.DeleteExercise(ctx, userID, workoutExerciseID)
}

func (s *Service) AddSet(ctx context.Context, params AddSetParams) (_ *Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.diary.addSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout_exercise.id", params.WorkoutExerciseID))

	userID, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}

	if params.SetNumber != nil && *params.SetNumber < 1 {
		return nil, ValidationError{Field: "setNumber", Reason: "must be at least 1"}
	}
	if params.Reps < 1 {
		return nil, ValidationError{Field: "reps", Reason: "must be at least 1"}
	}
	if params.Weight < 0 {
		return nil, ValidationError{Field: "weight", Reason: "must not be negative"}
	}

	return s.repo.AddSet(ctx, userID, params)
}

func (s *Service) DeleteSet(ctx context.Context, setID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.diary.deleteSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("set.id", setID))

	userID, ok := auth.UserFromContext(ctx)
	if !ok {
		return ErrNoIdentity
	}

	return s.repo.DeleteSet(ctx, userID, setID)
}

// ExerciseCatalog is global, not per user, so no identity is needed.
func (s *Service) ExerciseCatalog(ctx context.Context) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.diary.exerciseCatalog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.repo.ListExerciseCatalog(ctx)
}

func validateWorkoutName(name string) error {
	if len(name) > maxWorkoutNameLength {
		return ValidationError{Field: "name", Reason: "too long"}
	}
	return nil
}
