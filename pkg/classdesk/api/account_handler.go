package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/classdesk/classdesk/pkg/classdesk"
	"github.com/classdesk/classdesk/pkg/classdesk/auth"
)

// AccountsHandler handles signup, login, and directory listing for student
// and teacher accounts
type AccountsHandler struct {
	service classdesk.Service
	tokens  *auth.Tokens
}

// NewAccountsHandler creates a new accounts handler
func NewAccountsHandler(service classdesk.Service, tokens *auth.Tokens) *AccountsHandler {
	return &AccountsHandler{service: service, tokens: tokens}
}

// SignupRequest is the request body for student and teacher signup
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for teacher login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CredentialResponse carries the bearer token issued at signup/login
type CredentialResponse struct {
	ID    string `json:"id,omitempty"`
	Token string `json:"token"`
}

// RegisterStudent creates a student account and issues a bearer token
func (h *AccountsHandler) RegisterStudent(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSignup(w, r)
	if !ok {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		renderError(w, r, err)
		return
	}

	student, err := h.service.RegisterStudent(r.Context(), classdesk.RegisterStudentRequest{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(student.Email)
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("student registered", "student_id", student.ID.String())
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, CredentialResponse{ID: student.ID.String(), Token: token})
}

// RegisterTeacher creates a teacher account and issues a bearer token
func (h *AccountsHandler) RegisterTeacher(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSignup(w, r)
	if !ok {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		renderError(w, r, err)
		return
	}

	teacher, err := h.service.RegisterTeacher(r.Context(), classdesk.RegisterTeacherRequest{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(teacher.Email)
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("teacher registered", "teacher_id", teacher.ID.String())
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, CredentialResponse{ID: teacher.ID.String(), Token: token})
}

// LoginTeacher verifies credentials and issues a bearer token
func (h *AccountsHandler) LoginTeacher(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		badRequest(w, r, "email and password are required")
		return
	}

	teacher, err := h.service.GetTeacherByEmail(r.Context(), req.Email)
	if err != nil {
		// Do not reveal whether the email exists
		renderError(w, r, classdesk.ErrInvalidCredentials)
		return
	}

	if !auth.CheckPassword(teacher.PasswordHash, req.Password) {
		renderError(w, r, classdesk.ErrInvalidCredentials)
		return
	}

	token, err := h.tokens.Issue(teacher.Email)
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("teacher logged in", "teacher_id", teacher.ID.String())
	render.JSON(w, r, CredentialResponse{Token: token})
}

// ListStudents returns all student accounts
func (h *AccountsHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.service.ListStudents(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, students)
}

// ListTeachers returns all teacher accounts
func (h *AccountsHandler) ListTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.service.ListTeachers(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, teachers)
}

func decodeSignup(w http.ResponseWriter, r *http.Request) (SignupRequest, bool) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return req, false
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		badRequest(w, r, "name, email and password are required")
		return req, false
	}
	return req, true
}
