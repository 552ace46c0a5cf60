package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lclasicoaj/Fitness-app-project-1/internal/telemetry/tracing"
	"github.com/lclasicoaj/Fitness-app-project-1/pkg"

	log "github.com/sirupsen/logrus"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Token string     `json:"token"`
	User  *Principal `json:"user"`
}

type Handler struct {
	authService *Service
}

func NewHandler(authService *Service) *Handler {
	return &Handler{
		authService: authService,
	}
}

func (handler *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.signup")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	req, ok := credentials(w, r)
	if !ok {
		return
	}

	principal, token, err := handler.authService.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			http.Error(w, "error, email already taken", http.StatusConflict)
			return
		}
		log.Errorf("signup failed for %s: %s", req.Email, err)
		http.Error(w, "signup failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("new user signed up: %s", principal.Email)
	handler.writeSession(w, token, principal, http.StatusCreated)
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	req, ok := credentials(w, r)
	if !ok {
		return
	}

	principal, token, err := handler.authService.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrWrongCredentials) {
			log.Tracef("failed login attempt for user: %s", req.Email)
			http.Error(w, "error, wrong credentials", http.StatusBadRequest)
			return
		}
		log.Errorf("login failed for %s: %s", req.Email, err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	log.Trace("new login success")
	handler.writeSession(w, token, principal, http.StatusOK)
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	authToken := r.Header.Get("X-WORKOUT-TOKEN")
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if err := handler.authService.SignOut(ctx, authToken); err != nil {
		log.Tracef("[failed logout] => %s: %s", r.URL.Path, err)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	pkg.WriteTextResponseOK(w, "logged-out")
}

func (handler *Handler) writeSession(w http.ResponseWriter, token string, principal *Principal, statusCode int) {
	sessionJson, err := json.Marshal(SessionResponse{
		Token: token,
		User:  principal,
	})
	if err != nil {
		log.Errorf("failed to marshal session response: %s", err)
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sessionJson, statusCode)
}

func credentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Errorf("auth, unmarshal json params: %s", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return req, false
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("auth failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return req, false
		}
		req = credentialsRequest{
			Email:    r.Form.Get("email"),
			Password: r.Form.Get("password"),
		}
	}

	if req.Email == "" {
		http.Error(w, "error, email empty", http.StatusBadRequest)
		return req, false
	}
	if req.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return req, false
	}
	return req, true
}
