package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/liftdiary/internal/telemetry/metrics"
	"github.com/2beens/liftdiary/internal/telemetry/tracing"
	"github.com/2beens/liftdiary/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=auth_test

type usersRepo interface {
	Add(ctx context.Context, user User) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

type Handler struct {
	usersRepo      usersRepo
	sessionService *Service
	metricsManager *metrics.Manager
}

func NewHandler(
	usersRepo usersRepo,
	sessionService *Service,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		usersRepo:      usersRepo,
		sessionService: sessionService,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimitMiddleware mux.MiddlewareFunc,
) {
	authSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	authSubrouter.
		HandleFunc("/register", handler.handleRegister).
		Methods("POST", "OPTIONS").Name("register")
	authSubrouter.
		HandleFunc("/login", handler.handleLogin).
		Methods("POST", "OPTIONS").Name("login")
	authSubrouter.
		HandleFunc("/logout", handler.handleLogout).
		Methods("GET", "OPTIONS").Name("logout")

	// rate limit the auth endpoints to prevent abuse
	authSubrouter.Use(rateLimitMiddleware)
}

// TokenFromRequest reads the session token from the Authorization
// header, with or without the Bearer prefix.
func TokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func credentialsFromRequest(r *http.Request) (*credentialsRequest, error) {
	var creds credentialsRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			return nil, fmt.Errorf("unmarshal json params: %w", err)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
		creds = credentialsRequest{
			Username: r.Form.Get("username"),
			Password: r.Form.Get("password"),
		}
	}
	return &creds, nil
}

func (handler *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.register")
	defer span.End()

	creds, err := credentialsFromRequest(r)
	if err != nil {
		log.Errorf("register failed: %s", err)
		http.Error(w, "register failed", http.StatusBadRequest)
		return
	}

	if creds.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if len(creds.Password) < 8 {
		http.Error(w, "error, password too short", http.StatusBadRequest)
		return
	}

	passwordHash, err := pkg.HashPassword(creds.Password)
	if err != nil {
		log.Errorf("register failed, hash password: %s", err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	user, err := handler.usersRepo.Add(ctx, User{
		ID:           uuid.NewString(),
		Username:     creds.Username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrUsernameTaken):
		http.Error(w, "error, username taken", http.StatusConflict)
		return
	default:
		log.Errorf("register failed, add user %s: %s", creds.Username, err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	log.Debugf("new user registered: %s", user.Username)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON,
		[]byte(fmt.Sprintf(`{"id": "%s"}`, user.ID)), http.StatusCreated)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.login")
	defer span.End()

	creds, err := credentialsFromRequest(r)
	if err != nil {
		log.Errorf("login failed: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}

	if creds.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if creds.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	user, err := handler.usersRepo.GetByUsername(ctx, creds.Username)
	if err != nil {
		// same response for unknown user and wrong password
		log.Tracef("[username] failed login attempt for user: %s", creds.Username)
		handler.metricsManager.CounterFailedLogins.Inc()
		http.Error(w, "error, wrong credentials", http.StatusBadRequest)
		return
	}

	if !pkg.CheckPasswordHash(creds.Password, user.PasswordHash) {
		log.Tracef("[password] failed login attempt for user: %s", creds.Username)
		handler.metricsManager.CounterFailedLogins.Inc()
		http.Error(w, "error, wrong credentials", http.StatusBadRequest)
		return
	}

	token, err := handler.sessionService.Login(ctx, user.ID)
	if err != nil {
		log.Errorf("login failed, generate token error: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterLogins.Inc()
	log.Tracef("new login success: %s", user.Username)
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"token": "%s"}`, token))
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.logout")
	defer span.End()

	token := TokenFromRequest(r)
	if token == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if err := handler.sessionService.Logout(ctx, token); err != nil {
		log.Tracef("logout failed: %s", err)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	pkg.WriteTextResponseOK(w, "logged-out")
}
