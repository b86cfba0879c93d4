package diary

import "time"

// Exercise is a row of the shared exercise catalog. Catalog entries are
// created lazily, the first time any user references the name.
type Exercise struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Set struct {
	ID        int     `json:"id"`
	SetNumber int     `json:"setNumber"`
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
}

// WorkoutExercise is one exercise performed within a workout, at a
// fixed position, together with all its logged sets.
type WorkoutExercise struct {
	ID         int    `json:"id"`
	ExerciseID int    `json:"exerciseId"`
	Name       string `json:"name"`
	Position   int    `json:"position"`
	Sets       []Set  `json:"sets"`
}

type Workout struct {
	ID         int               `json:"id"`
	UserID     string            `json:"userId"`
	Name       string            `json:"name"`
	StartedAt  time.Time         `json:"startedAt"`
	FinishedAt *time.Time        `json:"finishedAt,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	Exercises  []WorkoutExercise `json:"exercises"`
}

// Duration returns the workout length, or zero while it is still in
// progress.
func (w *Workout) Duration() time.Duration {
	if w.FinishedAt == nil {
		return 0
	}
	return w.FinishedAt.Sub(w.StartedAt)
}
