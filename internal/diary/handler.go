package diary

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/liftdiary/internal/telemetry/metrics"
	"github.com/2beens/liftdiary/internal/telemetry/tracing"
	"github.com/2beens/liftdiary/pkg"
)

const (
	catalogCacheSizeBytes = 512 * 1024
	catalogCacheTTL       = 5 * 60 // seconds
)

var catalogCacheKey = []byte("exercise-catalog")

type createWorkoutRequest struct {
	Name      string    `json:"name"`
	StartedAt time.Time `json:"startedAt"`
}

type updateWorkoutRequest struct {
	Name       *string    `json:"name"`
	StartedAt  *time.Time `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt"`
}

type finishWorkoutRequest struct {
	FinishedAt time.Time `json:"finishedAt"`
}

type addExerciseRequest struct {
	Name     string `json:"name"`
	Position *int   `json:"position"`
}

type addSetRequest struct {
	SetNumber *int    `json:"setNumber"`
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
}

type deletedResponse struct {
	DeletedID int `json:"deletedId"`
}

type listWorkoutsResponse struct {
	Workouts []Workout `json:"workouts"`
	Total    int       `json:"total"`
}

type Handler struct {
	service        *Service
	catalogCache   *freecache.Cache
	metricsManager *metrics.Manager
}

func NewHandler(service *Service, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		catalogCache:   freecache.NewCache(catalogCacheSizeBytes),
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	diaryRouter := mainRouter.PathPrefix("/diary").Subrouter()

	diaryRouter.HandleFunc("/day/{date}", handler.handleListWorkoutsForDay).Methods("GET", "OPTIONS")
	diaryRouter.HandleFunc("/workout", handler.handleCreateWorkout).Methods("POST", "OPTIONS")
	diaryRouter.HandleFunc("/workout/{id}", handler.handleGetWorkout).Methods("GET", "OPTIONS")
	diaryRouter.HandleFunc("/workout/{id}", handler.handleUpdateWorkout).Methods("PUT", "OPTIONS")
	diaryRouter.HandleFunc("/workout/{id}", handler.handleDeleteWorkout).Methods("DELETE", "OPTIONS")
	diaryRouter.HandleFunc("/workout/{id}/finish", handler.handleFinishWorkout).Methods("POST", "OPTIONS")
	diaryRouter.HandleFunc("/workout/{id}/exercise", handler.handleAddExercise).Methods("POST", "OPTIONS")
	diaryRouter.HandleFunc("/exercise/{id}", handler.handleDeleteExercise).Methods("DELETE", "OPTIONS")
	diaryRouter.HandleFunc("/exercise/{id}/set", handler.handleAddSet).Methods("POST", "OPTIONS")
	diaryRouter.HandleFunc("/set/{id}", handler.handleDeleteSet).Methods("DELETE", "OPTIONS")
	diaryRouter.HandleFunc("/exercises", handler.handleExerciseCatalog).Methods("GET", "OPTIONS")
}

func (handler *Handler) handleListWorkoutsForDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.listWorkoutsForDay")
	defer span.End()

	vars := mux.Vars(r)
	date := vars["date"]
	timezone := r.URL.Query().Get("tz")

	workouts, err := handler.service.ListWorkoutsForDay(ctx, date, timezone)
	if err != nil {
		writeDiaryError(w, "list workouts", err)
		return
	}

	respJson, err := json.Marshal(listWorkoutsResponse{
		Workouts: workouts,
		Total:    len(workouts),
	})
	if err != nil {
		log.Errorf("failed to marshal workouts for day %s: %s", date, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.getWorkout")
	defer span.End()

	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	workout, err := handler.service.GetWorkout(ctx, id)
	if err != nil {
		writeDiaryError(w, "get workout", err)
		return
	}

	respJson, err := json.Marshal(workout)
	if err != nil {
		log.Errorf("failed to marshal workout %d: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.createWorkout")
	defer span.End()

	var req createWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("create workout, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	workout, err := handler.service.CreateWorkout(ctx, CreateWorkoutParams{
		Name:      req.Name,
		StartedAt: req.StartedAt,
	})
	if err != nil {
		writeDiaryError(w, "create workout", err)
		return
	}

	respJson, err := json.Marshal(workout)
	if err != nil {
		log.Errorf("failed to marshal created workout: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterWorkoutsCreated.Inc()
	log.Debugf("new workout added: %d", workout.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.updateWorkout")
	defer span.End()

	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	var req updateWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update workout, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := handler.service.UpdateWorkout(ctx, UpdateWorkoutParams{
		ID:         id,
		Name:       req.Name,
		StartedAt:  req.StartedAt,
		FinishedAt: req.FinishedAt,
	}); err != nil {
		writeDiaryError(w, "update workout", err)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"updatedId":`+strconv.Itoa(id)+`}`)
}

func (handler *Handler) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.deleteWorkout")
	defer span.End()

	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	if err := handler.service.DeleteWorkout(ctx, id); err != nil {
		writeDiaryError(w, "delete workout", err)
		return
	}

	respJson, err := json.Marshal(deletedResponse{DeletedID: id})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(respJson))
}

func (handler *Handler) handleFinishWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.finishWorkout")
	defer span.End()

	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	// body is optional, finishing "now" needs none
	var req finishWorkoutRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			log.Tracef("finish workout, unmarshal json params: %s", err)
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	if err := handler.service.FinishWorkout(ctx, id, req.FinishedAt); err != nil {
		writeDiaryError(w, "finish workout", err)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"finishedId":`+strconv.Itoa(id)+`}`)
}

func (handler *Handler) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.addExercise")
	defer span.End()

	workoutID, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	var req addExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add exercise, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	workoutExercise, err := handler.service.AddExercise(ctx, workoutID, req.Name, req.Position)
	if err != nil {
		writeDiaryError(w, "add exercise", err)
		return
	}

	// a new catalog name may have appeared
	handler.catalogCache.Del(catalogCacheKey)

	respJson, err := json.Marshal(workoutExercise)
	if err != nil {
		log.Errorf("failed to marshal added exercise: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.deleteExercise")
	defer span.End()

	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	if err := handler.service.DeleteExercise(ctx, id); err != nil {
		writeDiaryError(w, "delete exercise", err)
		return
	}

	respJson, err := json.Marshal(deletedResponse{DeletedID: id})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(respJson))
}

func (handler *Handler) handleAddSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.addSet")
	defer span.End()

	workoutExerciseID, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	var req addSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add set, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	set, err := handler.service.AddSet(ctx, AddSetParams{
		WorkoutExerciseID: workoutExerciseID,
		SetNumber:         req.SetNumber,
		Weight:            req.Weight,
		Reps:              req.Reps,
	})
	if err != nil {
		writeDiaryError(w, "add set", err)
		return
	}

	respJson, err := json.Marshal(set)
	if err != nil {
		log.Errorf("failed to marshal added set: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterSetsLogged.Inc()
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.deleteSet")
	defer span.End()

	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	if err := handler.service.DeleteSet(ctx, id); err != nil {
		writeDiaryError(w, "delete set", err)
		return
	}

	respJson, err := json.Marshal(deletedResponse{DeletedID: id})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(respJson))
}

// handleExerciseCatalog serves the global exercise catalog. The rows
// change rarely, so responses are cached for a few minutes.
func (handler *Handler) handleExerciseCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.exerciseCatalog")
	defer span.End()

	if cached, err := handler.catalogCache.Get(catalogCacheKey); err == nil {
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, cached, http.StatusOK)
		return
	}

	catalog, err := handler.service.ExerciseCatalog(ctx)
	if err != nil {
		writeDiaryError(w, "exercise catalog", err)
		return
	}

	respJson, err := json.Marshal(catalog)
	if err != nil {
		log.Errorf("failed to marshal exercise catalog: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := handler.catalogCache.Set(catalogCacheKey, respJson, catalogCacheTTL); err != nil {
		log.Warnf("failed to cache exercise catalog: %s", err)
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func idFromRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
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

// writeDiaryError maps service errors to status codes. Not found and
// not owned by the caller produce the same 404.
func writeDiaryError(w http.ResponseWriter, action string, err error) {
	var validationErr ValidationError
	switch {
	case errors.Is(err, ErrNoIdentity):
		http.Error(w, "no can do", http.StatusUnauthorized)
	case errors.Is(err, ErrWorkoutNotFound):
		http.Error(w, "workout not found", http.StatusNotFound)
	case errors.Is(err, ErrExerciseNotFound):
		http.Error(w, "exercise not found", http.StatusNotFound)
	case errors.Is(err, ErrSetNotFound):
		http.Error(w, "set not found", http.StatusNotFound)
	case errors.Is(err, ErrPositionTaken):
		http.Error(w, "position already taken", http.StatusConflict)
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", action, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
