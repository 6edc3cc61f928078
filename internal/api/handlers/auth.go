// auth.go — регистрация и вход: /auth/register, /auth/register-admin, /auth/login.
package handlers

import (
	"log/slog"
	"net/http"

	apierrors "github.com/habibulloh333/project-uas-prod/internal/api/errors"
	"github.com/habibulloh333/project-uas-prod/internal/domain/rbac"
	"github.com/habibulloh333/project-uas-prod/internal/service"
)

// AuthHandler — обработчики аутентификации.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler создаёт обработчики аутентификации.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger.With(slog.String("component", "auth_handler"))}
}

// credentialsRequest — тело register и login.
type credentialsRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

func (req *credentialsRequest) validate() string {
	if req.Username == nil || *req.Username == "" {
		return "username обязателен"
	}
	if req.Password == nil || *req.Password == "" {
		return "password обязателен"
	}
	return ""
}

type registerResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Register — POST /auth/register, роль user.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, rbac.RoleUser)
}

// RegisterAdmin — POST /auth/register-admin, роль admin.
func (h *AuthHandler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, rbac.RoleAdmin)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request, role string) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		apierrors.ValidationError(w, msg)
		return
	}

	u, err := h.svc.Register(r.Context(), *req.Username, *req.Password, role)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Пользователь не найден", "Пользователь с таким именем уже существует")
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{ID: u.ID, Username: u.Username})
}

// Login — POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		apierrors.ValidationError(w, msg)
		return
	}

	token, _, err := h.svc.Login(r.Context(), *req.Username, *req.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Пользователь не найден", "")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Message: "Вход выполнен", Token: token})
}
